// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "custody-cli" submits actions to and queries a custodyvm node.
package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/ava-labs/custodyvm/cmd/custody-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		color.Red("custody-cli failed: %v", err)
		os.Exit(1)
	}
	os.Exit(0)
}
