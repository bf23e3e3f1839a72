// SPDX-License-Identifier: MPL-2.0

// Package inject resolves declared injectors into concrete effects on the
// target process: environment assignments, argv segments, ephemeral files
// and stdin fragments.
//
// Each injector goes through four steps. The optional when condition is
// token-expanded and evaluated; a false condition skips the injector. The
// value is the first source that expands to a non-empty string, else the
// expanded default. The value is coerced to the declared type. Finally the
// value is materialized according to the injector kind.
//
// Failures are local to one injector and recorded on its ResolvedInjector.
// Nothing in this package aborts a resolution pass.
package inject
