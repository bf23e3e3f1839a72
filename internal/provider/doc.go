// SPDX-License-Identifier: MPL-2.0

// Package provider materializes configuration providers into key/value
// snapshots before injector resolution begins.
//
// Three provider types exist: env copies the runtime environment, dotenv
// reads KEY=VALUE files (optionally merged up the directory tree), and bws
// reads Bitwarden Secrets Manager secrets through the bws CLI. Every type
// honours the provider filter chain, and mask replaces all values with a
// placeholder.
package provider
