// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors and a catalog of well-known
// failures rendered as Markdown.
//
// ActionableError carries the failed operation, the resource involved and
// suggestions for fixing it. When it references a catalog Issue, the CLI
// renders that issue's guidance with glamour below the error.
package issue
