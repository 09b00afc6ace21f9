// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"strconv"

	"github.com/fatih/color"

	"github.com/ava-labs/custodyvm/chain"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/event"
	"github.com/ava-labs/custodyvm/rpc"
	"github.com/ava-labs/custodyvm/utils"
)

var skipConfirm bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&skipConfirm, "yes", "y", false, "submit without confirmation")
}

// addressArg reads args[i] or prompts for it.
func addressArg(args []string, i int, label string) (codec.Address, error) {
	if len(args) > i {
		return codec.ParseAddress(args[i])
	}
	return promptAddress(label)
}

func amountArg(args []string, i int, label string) (uint64, error) {
	if len(args) > i {
		amount, err := utils.ParseBalance(args[i])
		if err == nil && amount == 0 {
			return 0, ErrInvalidAmount
		}
		return amount, err
	}
	return promptAmount(label)
}

func uintArg(args []string, i int, label string) (uint64, error) {
	if len(args) > i {
		return strconv.ParseUint(args[i], 10, 64)
	}
	return promptUint(label)
}

// submit signs [action] with [factory], asks for confirmation and prints the
// committed events.
func submit(action chain.Action, factory chain.AuthFactory) (*rpc.SubmitTxReply, error) {
	ctx, cancel := withTimeout()
	defer cancel()

	cli := newClient()
	tx, err := cli.GenerateTransaction(ctx, action, factory)
	if err != nil {
		return nil, err
	}
	if !skipConfirm {
		b, err := json.MarshalIndent(action, "", "  ")
		if err != nil {
			return nil, err
		}
		color.Cyan("%T %s", action, b)
		ok, err := promptContinue()
		if err != nil {
			return nil, err
		}
		if !ok {
			color.Yellow("aborted")
			return nil, nil
		}
	}
	reply, err := cli.SubmitTx(ctx, tx.Bytes())
	if err != nil {
		return nil, err
	}
	color.Green("committed txID=%s", reply.TxID)
	for _, e := range reply.Entries {
		printEntry(e)
	}
	return reply, nil
}

func printEntry(e *event.Entry) {
	b, err := json.Marshal(e.Record)
	if err != nil {
		color.Red("unable to render %s: %v", e.Record.EventName(), err)
		return
	}
	color.Magenta("#%d %s %s", e.Seq, e.Record.EventName(), b)
}
