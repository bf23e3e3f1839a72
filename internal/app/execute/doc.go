// SPDX-License-Identifier: MPL-2.0

// Package execute drives one cfgwrap invocation: it loads providers,
// resolves injectors, assembles the target invocation and either reports it
// (dry run) or runs it with masked, redirected output streams. It decouples
// the CLI layer from the resolution pipeline.
package execute
