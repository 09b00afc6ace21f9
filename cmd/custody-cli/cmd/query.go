// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/fatih/color"
	"github.com/neilotoole/errgroup"
	"github.com/spf13/cobra"

	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/rpc"
	"github.com/ava-labs/custodyvm/utils"
)

var deriveCmd = &cobra.Command{
	Use:   "derive [fund|request|vault] [owner] [id]",
	Short: "Derive the canonical address of an account",
	Long: `Derive the canonical address of an account. The owner of a fund is its
creator, the owner of a vault is its authority and the owner of a request is
its fund (the id selects the request).`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(_ *cobra.Command, args []string) error {
		owner, err := codec.ParseAddress(args[1])
		if err != nil {
			return err
		}
		var id uint64
		if len(args) == 3 {
			if id, err = strconv.ParseUint(args[2], 10, 64); err != nil {
				return err
			}
		}
		ctx, cancel := withTimeout()
		defer cancel()
		derived, err := newClient().DeriveAddress(ctx, args[0], owner, id)
		if err != nil {
			return err
		}
		color.Cyan("address=%s bump=%d exists=%t", derived.Address, derived.Bump, derived.Exists)
		return nil
	},
}

var txCmd = &cobra.Command{
	Use:   "tx [txID]",
	Short: "Print the outcome of a transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		txID, err := ids.FromString(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout()
		defer cancel()
		found, t, success, err := newClient().Tx(ctx, txID)
		if err != nil {
			return err
		}
		if !found {
			color.Yellow("%s not found", txID)
			return nil
		}
		color.Cyan("%s timestamp=%d success=%t", txID, t, success)
		return nil
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Page through the event archive",
	RunE: func(cmd *cobra.Command, _ []string) error {
		start, err := cmd.Flags().GetUint64("start")
		if err != nil {
			return err
		}
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}
		ctx, cancel := withTimeout()
		defer cancel()
		entries, height, err := newClient().Events(ctx, start, limit)
		if err != nil {
			return err
		}
		for _, e := range entries {
			printEntry(e)
		}
		color.Cyan("height=%d", height)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print events as the node commits them",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		stream, err := rpc.NewEventStream(ctx, current.Endpoint)
		if err != nil {
			return err
		}
		go func() {
			<-ctx.Done()
			_ = stream.Close()
		}()
		color.Cyan("watching %s", current.Endpoint)
		for {
			e, err := stream.Listen()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			printEntry(e)
		}
	},
}

var balancesCmd = &cobra.Command{
	Use:   "balances [address...]",
	Short: "Print the balances of many addresses",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		addrs := make([]codec.Address, len(args))
		for i, arg := range args {
			addr, err := codec.ParseAddress(arg)
			if err != nil {
				return err
			}
			addrs[i] = addr
		}
		ctx, cancel := withTimeout()
		defer cancel()
		balances, err := fetchBalances(ctx, newClient(), addrs)
		if err != nil {
			return err
		}
		for i, addr := range addrs {
			color.Cyan("%s %s", addr, utils.FormatBalance(balances[i]))
		}
		return nil
	},
}

func fetchBalances(ctx context.Context, cli *rpc.JSONRPCClient, addrs []codec.Address) ([]uint64, error) {
	balances := make([]uint64, len(addrs))
	g, gctx := errgroup.WithContextN(ctx, runtime.NumCPU(), len(addrs))
	for i, addr := range addrs {
		i, addr := i, addr
		g.Go(func() error {
			bal, err := cli.Balance(gctx, addr)
			if err != nil {
				return err
			}
			balances[i] = bal
			return nil
		})
	}
	return balances, g.Wait()
}

func init() {
	eventsCmd.Flags().Uint64("start", 0, "first sequence number")
	eventsCmd.Flags().Int("limit", rpc.MaxEventsPerRequest, "maximum number of events")
}
