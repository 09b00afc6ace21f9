// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc_test

import (
	"context"
	"net"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	avatrace "github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/custodyvm/actions"
	"github.com/ava-labs/custodyvm/auth"
	"github.com/ava-labs/custodyvm/chain"
	"github.com/ava-labs/custodyvm/chain/chaintest"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/crypto/ed25519"
	"github.com/ava-labs/custodyvm/event"
	"github.com/ava-labs/custodyvm/rpc"
	"github.com/ava-labs/custodyvm/server"
	"github.com/ava-labs/custodyvm/state"
	"github.com/ava-labs/custodyvm/storage"
	"github.com/ava-labs/custodyvm/trace"
)

var _ rpc.VM = (*testVM)(nil)

type testVM struct {
	rules     *chaintest.Rules
	db        database.Database
	archive   *event.Archive
	processor *chain.Processor
}

func newTestVM(t *testing.T) *testVM {
	require := require.New(t)

	rules := chaintest.NewRules()
	rules.ValidityWindow = 30_000
	db := memdb.New()
	archive, err := event.NewArchive(db)
	require.NoError(err)
	notifier, err := event.NewNotifier(logging.NoLog{}, prometheus.NewRegistry(), archive)
	require.NoError(err)
	p, err := chain.NewProcessor(chain.ProcessorConfig{
		Log:         logging.NoLog{},
		Tracer:      trace.Noop(),
		Rules:       rules,
		DB:          db,
		AuthEngines: auth.Engines(),
		Notifier:    notifier,
		Classify:    func(err error) string { return actions.Kind(err).String() },
		Registerer:  prometheus.NewRegistry(),
	})
	require.NoError(err)
	return &testVM{rules: rules, db: db, archive: archive, processor: p}
}

func (*testVM) Logger() logging.Logger { return logging.NoLog{} }

func (*testVM) Tracer() avatrace.Tracer { return trace.Noop() }

func (vm *testVM) Rules() chain.Rules { return vm.rules }

func (vm *testVM) ReadState() state.Immutable { return state.NewReader(vm.db) }

func (vm *testVM) Submit(ctx context.Context, tx *chain.Transaction) (*chain.Result, error) {
	return vm.processor.Submit(ctx, tx)
}

func (vm *testVM) GetTransaction(txID ids.ID) (bool, int64, bool, error) {
	return storage.GetTransaction(vm.db, txID)
}

func (vm *testVM) Events(start uint64, limit int) ([]*event.Entry, uint64, error) {
	entries, err := vm.archive.Range(start, limit)
	return entries, vm.archive.Height(), err
}

func newClient(t *testing.T) (*testVM, *rpc.JSONRPCClient) {
	require := require.New(t)

	vm := newTestVM(t)
	handler, err := server.NewHandler(rpc.NewJSONRPCServer(vm), rpc.Name)
	require.NoError(err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	srv := server.New(logging.NoLog{}, listener, server.NewDefaultConfig())
	srv.AddRoute(handler, rpc.JSONRPCEndpoint)

	var eg errgroup.Group
	eg.Go(srv.Dispatch)
	t.Cleanup(func() {
		require.NoError(srv.Shutdown())
		require.NoError(eg.Wait())
	})
	return vm, rpc.NewJSONRPCClient("http://" + listener.Addr().String())
}

func newFactory(t *testing.T) *auth.ED25519Factory {
	priv, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	return auth.NewED25519Factory(priv)
}

func TestPing(t *testing.T) {
	require := require.New(t)
	_, cli := newClient(t)

	ok, err := cli.Ping(context.Background())
	require.NoError(err)
	require.True(ok)

	network, err := cli.Network(context.Background())
	require.NoError(err)
	require.Equal(int64(30_000), network.ValidityWindow)
	require.True(network.EnforceRequestRecipient)
}

func TestFundLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	vm, cli := newClient(t)

	creator := newFactory(t)
	donor := newFactory(t)
	recipient := newFactory(t)
	require.NoError(storage.SetBalance(ctx, state.NewWriter(vm.db), donor.Address(), 1000))

	derived, err := cli.DeriveAddress(ctx, rpc.FundKind, creator.Address(), 0)
	require.NoError(err)
	require.False(derived.Exists)

	_, err = cli.Execute(ctx, &actions.InitializeFund{
		Creator: creator.Address(),
		Fund:    derived.Address,
		Bump:    derived.Bump,
		Name:    "relief",
	}, creator)
	require.NoError(err)

	again, err := cli.DeriveAddress(ctx, rpc.FundKind, creator.Address(), 0)
	require.NoError(err)
	require.True(again.Exists)
	require.Equal(derived.Address, again.Address)

	_, err = cli.Execute(ctx, &actions.Donate{Fund: derived.Address, Donor: donor.Address(), Amount: 1000}, donor)
	require.NoError(err)

	request, err := cli.DeriveAddress(ctx, rpc.RequestKind, derived.Address, 0)
	require.NoError(err)
	_, err = cli.Execute(ctx, &actions.CreateWithdrawalRequest{
		Fund:        derived.Address,
		Maintainer:  creator.Address(),
		Request:     request.Address,
		RequestBump: request.Bump,
		Amount:      400,
		Recipient:   recipient.Address(),
	}, creator)
	require.NoError(err)

	reply, err := cli.Execute(ctx, &actions.ExecuteWithdrawal{
		Fund:       derived.Address,
		Request:    request.Address,
		Maintainer: creator.Address(),
		Recipient:  recipient.Address(),
	}, creator)
	require.NoError(err)
	require.Len(reply.Entries, 1)
	executed, ok := reply.Entries[0].Record.(*event.WithdrawalExecuted)
	require.True(ok)
	require.Equal(uint64(400), executed.Amount)

	found, _, success, err := cli.Tx(ctx, reply.TxID)
	require.NoError(err)
	require.True(found)
	require.True(success)

	f, bal, err := cli.Fund(ctx, derived.Address)
	require.NoError(err)
	require.Equal(uint64(1000), f.TotalDonations)
	require.Equal(uint64(1), f.RequestCount)
	require.Equal(uint64(600), bal)

	addr, r, err := cli.Request(ctx, derived.Address, 0)
	require.NoError(err)
	require.Equal(request.Address, addr)
	require.True(r.Executed)

	paid, err := cli.Balance(ctx, recipient.Address())
	require.NoError(err)
	require.Equal(uint64(400), paid)

	entries, height, err := cli.Events(ctx, 0, 0)
	require.NoError(err)
	require.Equal(uint64(4), height)
	require.Len(entries, 4)
	require.IsType(&event.FundInitialized{}, entries[0].Record)
	require.IsType(&event.WithdrawalExecuted{}, entries[3].Record)

	// Executing twice is rejected.
	_, err = cli.Execute(ctx, &actions.ExecuteWithdrawal{
		Fund:       derived.Address,
		Request:    request.Address,
		Maintainer: creator.Address(),
		Recipient:  recipient.Address(),
	}, creator)
	require.ErrorContains(err, actions.ErrAlreadyExecuted.Error())
}

func TestQueryErrors(t *testing.T) {
	ctx := context.Background()
	_, cli := newClient(t)
	missing := codec.CreateAddress(1, ids.GenerateTestID())

	tests := []struct {
		name string
		call func() error
		msg  string
	}{
		{
			name: "unknown kind",
			call: func() error {
				_, err := cli.DeriveAddress(ctx, "escrow", missing, 0)
				return err
			},
			msg: rpc.ErrUnknownKind.Error(),
		},
		{
			name: "missing fund",
			call: func() error {
				_, _, err := cli.Fund(ctx, missing)
				return err
			},
			msg: rpc.ErrNotFound.Error(),
		},
		{
			name: "missing vault",
			call: func() error {
				_, _, err := cli.Vault(ctx, missing)
				return err
			},
			msg: rpc.ErrNotFound.Error(),
		},
		{
			name: "missing request",
			call: func() error {
				_, _, err := cli.Request(ctx, missing, 7)
				return err
			},
			msg: rpc.ErrNotFound.Error(),
		},
		{
			name: "malformed transaction",
			call: func() error {
				_, err := cli.SubmitTx(ctx, []byte{1, 2, 3})
				return err
			},
			msg: "unable to unmarshal",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorContains(t, tt.call(), tt.msg)
		})
	}
}
