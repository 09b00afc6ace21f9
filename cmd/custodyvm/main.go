// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "custodyvm" runs a custody ledger node.
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ava-labs/custodyvm/config"
	"github.com/ava-labs/custodyvm/consts"
	"github.com/ava-labs/custodyvm/vm"
)

var (
	configFile string

	rootCmd = &cobra.Command{
		Use:          "custodyvm",
		Short:        "Custody ledger node",
		SilenceUsage: true,
		RunE:         run,
	}

	versionCmd = &cobra.Command{
		Use: "version",
		RunE: func(*cobra.Command, []string) error {
			color.Cyan("custodyvm %s", consts.Version)
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configFile,
		"config",
		"",
		"path to a JSON config file; "+config.EnvPrefix+"* environment variables override it",
	)
	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	if len(configFile) == 0 {
		return config.New(nil)
	}
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}
	return config.New(b)
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", cfg.HTTP.Address)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	node, err := vm.New(ctx, cfg, listener)
	if err != nil {
		_ = listener.Close()
		return err
	}
	color.Green("serving %s on %s", consts.Version, listener.Addr())
	if err := node.Run(ctx); err != nil {
		_ = node.Close()
		return err
	}
	return node.Close()
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		color.Red("custodyvm failed: %v", err)
		os.Exit(1)
	}
	os.Exit(0)
}
