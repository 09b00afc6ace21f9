// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"os"
	"path/filepath"

	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ava-labs/custodyvm/auth"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/crypto/ed25519"
	"github.com/ava-labs/custodyvm/utils"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the signing key",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var genKeyCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a key and make it the default",
	RunE: func(*cobra.Command, []string) error {
		priv, err := ed25519.GeneratePrivateKey()
		if err != nil {
			return err
		}
		return storeKey(priv)
	},
}

var importKeyCmd = &cobra.Command{
	Use:   "import [hex]",
	Short: "Import a hex encoded key and make it the default",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		priv, err := ed25519.HexToPrivateKey(args[0])
		if err != nil {
			return err
		}
		return storeKey(priv)
	},
}

var addressKeyCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the address of the default key",
	RunE: func(*cobra.Command, []string) error {
		factory, err := defaultFactory()
		if err != nil {
			return err
		}
		color.Cyan("%s", factory.Address())
		return nil
	},
}

var balanceKeyCmd = &cobra.Command{
	Use:   "balance [address]",
	Short: "Print the balance of an address, or of the default key",
	RunE: func(_ *cobra.Command, args []string) error {
		addr, err := addressOrDefault(args)
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout()
		defer cancel()
		bal, err := newClient().Balance(ctx, addr)
		if err != nil {
			return err
		}
		color.Cyan("%s balance=%s", addr, utils.FormatBalance(bal))
		return nil
	},
}

func init() {
	keyCmd.AddCommand(
		genKeyCmd,
		importKeyCmd,
		addressKeyCmd,
		balanceKeyCmd,
	)
}

func addressOrDefault(args []string) (codec.Address, error) {
	if len(args) > 0 {
		return codec.ParseAddress(args[0])
	}
	factory, err := defaultFactory()
	if err != nil {
		return codec.EmptyAddress, err
	}
	return factory.Address(), nil
}

// storeKey writes [priv] under the home directory and records it as the
// default key.
func storeKey(priv ed25519.PrivateKey) error {
	if err := os.MkdirAll(homeDir, perms.ReadWriteExecute); err != nil {
		return err
	}
	addr := auth.NewED25519Address(priv.PublicKey())
	file := filepath.Join(homeDir, addr.String()+".pk")
	if err := priv.Save(file); err != nil {
		return err
	}
	current.KeyFile = file
	if err := saveSettings(); err != nil {
		return err
	}
	color.Green("stored key for %s in %s", addr, file)
	return nil
}

var endpointCmd = &cobra.Command{
	Use:   "endpoint [uri]",
	Short: "Print or set the node endpoint",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		if len(args) == 1 {
			current.Endpoint = args[0]
			if err := saveSettings(); err != nil {
				return err
			}
		}
		ctx, cancel := withTimeout()
		defer cancel()
		network, err := newClient().Network(ctx)
		if err != nil {
			return err
		}
		color.Cyan("endpoint=%s chainID=%s validityWindow=%dms enforceRequestRecipient=%t",
			current.Endpoint,
			network.ChainID,
			network.ValidityWindow,
			network.EnforceRequestRecipient,
		)
		return nil
	},
}
