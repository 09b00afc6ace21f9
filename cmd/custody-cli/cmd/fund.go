// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ava-labs/custodyvm/actions"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/rpc"
	"github.com/ava-labs/custodyvm/storage"
	"github.com/ava-labs/custodyvm/utils"
)

var fundCmd = &cobra.Command{
	Use:   "fund",
	Short: "Create, fund and pay out of community funds",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var initFundCmd = &cobra.Command{
	Use:   "init [name] [description]",
	Short: "Create the fund owned by the default key",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		factory, err := defaultFactory()
		if err != nil {
			return err
		}
		name, description, err := fundMetadata(args)
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout()
		defer cancel()
		derived, err := newClient().DeriveAddress(ctx, rpc.FundKind, factory.Address(), 0)
		if err != nil {
			return err
		}
		if derived.Exists {
			color.Yellow("fund %s already exists", derived.Address)
			return nil
		}
		_, err = submit(&actions.InitializeFund{
			Creator:     factory.Address(),
			Fund:        derived.Address,
			Bump:        derived.Bump,
			Name:        name,
			Description: description,
		}, factory)
		return err
	},
}

func fundMetadata(args []string) (string, string, error) {
	var name, description string
	var err error
	if len(args) > 0 {
		name = args[0]
	} else if name, err = promptString("name", storage.MaxNameLen); err != nil {
		return "", "", err
	}
	if len(args) > 1 {
		description = args[1]
	} else if description, err = promptString("description", storage.MaxDescriptionLen); err != nil {
		return "", "", err
	}
	return name, description, nil
}

var donateCmd = &cobra.Command{
	Use:   "donate [fund] [amount]",
	Short: "Donate native units to a fund",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		factory, err := defaultFactory()
		if err != nil {
			return err
		}
		fund, err := addressArg(args, 0, "fund")
		if err != nil {
			return err
		}
		amount, err := amountArg(args, 1, "amount")
		if err != nil {
			return err
		}
		_, err = submit(&actions.Donate{
			Fund:   fund,
			Donor:  factory.Address(),
			Amount: amount,
		}, factory)
		return err
	},
}

var requestCmd = &cobra.Command{
	Use:   "request [amount] [recipient] [reason]",
	Short: "Open a withdrawal request against the fund of the default key",
	Args:  cobra.MaximumNArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		factory, err := defaultFactory()
		if err != nil {
			return err
		}
		amount, err := amountArg(args, 0, "amount")
		if err != nil {
			return err
		}
		recipient, err := addressArg(args, 1, "recipient")
		if err != nil {
			return err
		}
		var reason string
		if len(args) > 2 {
			reason = args[2]
		} else if reason, err = promptString("reason", storage.MaxReasonLen); err != nil {
			return err
		}

		ctx, cancel := withTimeout()
		defer cancel()
		cli := newClient()
		fund, err := ownFund(ctx, cli, factory.Address())
		if err != nil {
			return err
		}
		record, _, err := cli.Fund(ctx, fund)
		if err != nil {
			return err
		}
		request, err := cli.DeriveAddress(ctx, rpc.RequestKind, fund, record.RequestCount)
		if err != nil {
			return err
		}
		_, err = submit(&actions.CreateWithdrawalRequest{
			Fund:        fund,
			Maintainer:  factory.Address(),
			Request:     request.Address,
			RequestBump: request.Bump,
			Amount:      amount,
			Recipient:   recipient,
			Reason:      reason,
		}, factory)
		return err
	},
}

var executeCmd = &cobra.Command{
	Use:   "execute [id]",
	Short: "Pay out a pending request of the fund of the default key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		factory, err := defaultFactory()
		if err != nil {
			return err
		}
		id, err := uintArg(args, 0, "request id")
		if err != nil {
			return err
		}

		ctx, cancel := withTimeout()
		defer cancel()
		cli := newClient()
		fund, err := ownFund(ctx, cli, factory.Address())
		if err != nil {
			return err
		}
		addr, request, err := cli.Request(ctx, fund, id)
		if err != nil {
			return err
		}
		if request.Executed {
			color.Yellow("request %d was already executed", id)
			return nil
		}
		_, err = submit(&actions.ExecuteWithdrawal{
			Fund:       fund,
			Request:    addr,
			Maintainer: factory.Address(),
			Recipient:  request.Recipient,
		}, factory)
		return err
	},
}

var showFundCmd = &cobra.Command{
	Use:   "show [fund]",
	Short: "Print a fund, or the fund of the default key",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx, cancel := withTimeout()
		defer cancel()
		cli := newClient()

		var fund codec.Address
		if len(args) > 0 {
			var err error
			if fund, err = codec.ParseAddress(args[0]); err != nil {
				return err
			}
		} else {
			factory, err := defaultFactory()
			if err != nil {
				return err
			}
			if fund, err = ownFund(ctx, cli, factory.Address()); err != nil {
				return err
			}
		}
		f, bal, err := cli.Fund(ctx, fund)
		if err != nil {
			return err
		}
		color.Cyan("fund=%s name=%q creator=%s", fund, f.Name, f.Creator)
		color.Cyan("balance=%s donated=%s donations=%d requests=%d",
			utils.FormatBalance(bal),
			utils.FormatBalance(f.TotalDonations),
			f.DonationCount,
			f.RequestCount,
		)
		for id := uint64(0); id < f.RequestCount; id++ {
			_, r, err := cli.Request(ctx, fund, id)
			if err != nil {
				return err
			}
			color.White("  #%d amount=%s recipient=%s executed=%t reason=%q",
				r.ID, utils.FormatBalance(r.Amount), r.Recipient, r.Executed, r.Reason)
		}
		return nil
	},
}

func init() {
	fundCmd.AddCommand(
		initFundCmd,
		donateCmd,
		requestCmd,
		executeCmd,
		showFundCmd,
	)
}
