// SPDX-License-Identifier: MPL-2.0

// Command cfgwrap runs a target command with configuration injected from a
// declarative spec file.
package main

import "github.com/cfgwrap/cfgwrap/cmd/cfgwrap"

func main() {
	cmd.Execute()
}
