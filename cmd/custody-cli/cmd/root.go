// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/custodyvm/auth"
	"github.com/ava-labs/custodyvm/crypto/ed25519"
	"github.com/ava-labs/custodyvm/rpc"
)

const (
	requestTimeout  = 30 * time.Second
	fsModeWrite     = 0o600
	settingsFolder  = ".custody-cli"
	settingsFile    = "settings.yaml"
	defaultEndpoint = "http://127.0.0.1:9650"
)

var (
	ErrMissingSubcommand = errors.New("must specify a subcommand")
	ErrNoKey             = errors.New("no key configured; run key generate or key import")
)

var (
	homeDir  string
	endpoint string
	keyFile  string

	current *settings

	rootCmd = &cobra.Command{
		Use:               "custody-cli",
		Short:             "CustodyVM CLI",
		SuggestFor:        []string{"custody-cli", "custodycli"},
		SilenceUsage:      true,
		PersistentPreRunE: loadSettings,
	}
)

// settings persist between invocations.
type settings struct {
	Endpoint string `yaml:"endpoint"`
	KeyFile  string `yaml:"key_file"`
}

func init() {
	cobra.EnablePrefixMatching = true

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", filepath.Join(home, settingsFolder), "directory holding settings and keys")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "node uri (overrides the saved endpoint)")
	rootCmd.PersistentFlags().StringVar(&keyFile, "key", "", "private key file (overrides the saved key)")

	rootCmd.AddCommand(
		keyCmd,
		endpointCmd,
		fundCmd,
		vaultCmd,
		deriveCmd,
		txCmd,
		eventsCmd,
		watchCmd,
		balancesCmd,
		prometheusCmd,
	)
}

func settingsPath() string {
	return filepath.Join(homeDir, settingsFile)
}

func readSettings(path string) (*settings, error) {
	s := &settings{Endpoint: defaultEndpoint}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, s); err != nil {
		return nil, err
	}
	return s, nil
}

func writeSettings(path string, s *settings) error {
	if err := os.MkdirAll(filepath.Dir(path), perms.ReadWriteExecute); err != nil {
		return err
	}
	b, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, fsModeWrite)
}

func loadSettings(*cobra.Command, []string) error {
	s, err := readSettings(settingsPath())
	if err != nil {
		return err
	}
	if len(endpoint) > 0 {
		s.Endpoint = endpoint
	}
	if len(keyFile) > 0 {
		s.KeyFile = keyFile
	}
	current = s
	return nil
}

func saveSettings() error {
	return writeSettings(settingsPath(), current)
}

func newClient() *rpc.JSONRPCClient {
	return rpc.NewJSONRPCClient(current.Endpoint)
}

func defaultFactory() (*auth.ED25519Factory, error) {
	if len(current.KeyFile) == 0 {
		return nil, ErrNoKey
	}
	priv, err := ed25519.LoadKey(current.KeyFile)
	if err != nil {
		return nil, err
	}
	return auth.NewED25519Factory(priv), nil
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func Execute() error {
	return rootCmd.Execute()
}
