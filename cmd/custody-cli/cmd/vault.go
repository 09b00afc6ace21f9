// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ava-labs/custodyvm/actions"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/rpc"
	"github.com/ava-labs/custodyvm/utils"
)

var ErrNoAccount = errors.New("account does not exist")

// ownAccount resolves the [kind] account controlled by [owner] and fails
// when it was never created.
func ownAccount(ctx context.Context, cli *rpc.JSONRPCClient, kind string, owner codec.Address) (codec.Address, error) {
	derived, err := cli.DeriveAddress(ctx, kind, owner, 0)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if !derived.Exists {
		return codec.EmptyAddress, fmt.Errorf("%w: %s of %s", ErrNoAccount, kind, owner)
	}
	return derived.Address, nil
}

func ownFund(ctx context.Context, cli *rpc.JSONRPCClient, creator codec.Address) (codec.Address, error) {
	return ownAccount(ctx, cli, rpc.FundKind, creator)
}

func ownVault(ctx context.Context, cli *rpc.JSONRPCClient, authority codec.Address) (codec.Address, error) {
	return ownAccount(ctx, cli, rpc.VaultKind, authority)
}

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Manage lockable vaults",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var initVaultCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the vault controlled by the default key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		factory, err := defaultFactory()
		if err != nil {
			return err
		}
		locked, err := cmd.Flags().GetBool("locked")
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout()
		defer cancel()
		derived, err := newClient().DeriveAddress(ctx, rpc.VaultKind, factory.Address(), 0)
		if err != nil {
			return err
		}
		if derived.Exists {
			color.Yellow("vault %s already exists", derived.Address)
			return nil
		}
		if _, err := submit(&actions.InitVault{
			Authority: factory.Address(),
			Vault:     derived.Address,
			Bump:      derived.Bump,
			Locked:    locked,
		}, factory); err != nil {
			return err
		}
		color.Green("vault=%s", derived.Address)
		return nil
	},
}

var depositCmd = &cobra.Command{
	Use:   "deposit [vault] [amount]",
	Short: "Deposit native units into a vault",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		factory, err := defaultFactory()
		if err != nil {
			return err
		}
		vault, err := addressArg(args, 0, "vault")
		if err != nil {
			return err
		}
		amount, err := amountArg(args, 1, "amount")
		if err != nil {
			return err
		}
		_, err = submit(&actions.Deposit{
			Vault:  vault,
			User:   factory.Address(),
			Amount: amount,
		}, factory)
		return err
	},
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw [amount]",
	Short: "Withdraw from the vault of the default key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		factory, err := defaultFactory()
		if err != nil {
			return err
		}
		amount, err := amountArg(args, 0, "amount")
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout()
		defer cancel()
		vault, err := ownVault(ctx, newClient(), factory.Address())
		if err != nil {
			return err
		}
		_, err = submit(&actions.Withdraw{
			Vault:     vault,
			Authority: factory.Address(),
			Amount:    amount,
		}, factory)
		return err
	},
}

var toggleLockCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Flip the lock of the vault of the default key",
	RunE: func(*cobra.Command, []string) error {
		factory, err := defaultFactory()
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout()
		defer cancel()
		vault, err := ownVault(ctx, newClient(), factory.Address())
		if err != nil {
			return err
		}
		_, err = submit(&actions.ToggleLock{
			Vault:     vault,
			Authority: factory.Address(),
		}, factory)
		return err
	},
}

var showVaultCmd = &cobra.Command{
	Use:   "show [vault]",
	Short: "Print a vault, or the vault of the default key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx, cancel := withTimeout()
		defer cancel()
		cli := newClient()

		var vault codec.Address
		if len(args) > 0 {
			var err error
			if vault, err = codec.ParseAddress(args[0]); err != nil {
				return err
			}
		} else {
			factory, err := defaultFactory()
			if err != nil {
				return err
			}
			if vault, err = ownVault(ctx, cli, factory.Address()); err != nil {
				return err
			}
		}
		v, bal, err := cli.Vault(ctx, vault)
		if err != nil {
			return err
		}
		color.Cyan("vault=%s authority=%s locked=%t balance=%s",
			vault, v.Authority, v.Locked, utils.FormatBalance(bal))
		return nil
	},
}

func init() {
	initVaultCmd.Flags().Bool("locked", false, "create the vault locked")
	vaultCmd.AddCommand(
		initVaultCmd,
		depositCmd,
		withdrawCmd,
		toggleLockCmd,
		showVaultCmd,
	)
}
