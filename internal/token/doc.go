// SPDX-License-Identifier: MPL-2.0

// Package token expands ${...} placeholders inside template strings.
//
// Supported placeholders:
//
//	${ENV:NAME}            environment variable from the runtime context
//	${PROVIDER:id:key}     value from a loaded provider map
//	${DATE:fmt}            invocation time formatted with strftime directives
//	${TIME:fmt}            same as DATE
//	${HOME} ${PID}         runtime context values
//	${UUID}                fresh random UUID per occurrence
//	${SEQ}                 sequence counter, zero-padded to 4 digits
//	${alias}               file path registered through WithAliases
//
// Any placeholder may carry a literal fallback after a pipe, e.g.
// ${ENV:PORT|8080}. Expansion is single-pass and never fails: unresolved
// placeholders become empty strings and produce a Warning.
package token
