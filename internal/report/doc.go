// SPDX-License-Identifier: MPL-2.0

// Package report renders dry-run results as a text summary, a JSON
// document, or styled explain tables. Every rendering hides the values of
// sensitive injectors, including where they appear inside other values or
// the final command line.
package report
