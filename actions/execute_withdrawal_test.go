// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/custodyvm/chain/chaintest"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/derive"
	"github.com/ava-labs/custodyvm/event"
	"github.com/ava-labs/custodyvm/storage"
)

type pendingRequest struct {
	store   *chaintest.InMemoryStore
	fund    codec.Address
	request codec.Address
}

// withPendingRequest stores a fund holding [fundBalance] with request 0 for
// [amount] to [recipient].
func withPendingRequest(t *testing.T, creator, recipient codec.Address, fundBalance, amount uint64, executed bool) pendingRequest {
	ctx := context.Background()
	fund := fundAddress(t, creator)
	store, _ := storeWithFund(t, creator, &storage.Fund{Name: "fund", RequestCount: 1}, map[codec.Address]uint64{fund: fundBalance})
	request := requestAddress(t, fund, 0)
	require.NoError(t, storage.SetRequest(ctx, store, request, &storage.Request{
		ID:        0,
		Fund:      fund,
		Amount:    amount,
		Recipient: recipient,
		CreatedBy: creator,
		Executed:  executed,
		Bump:      derive.CanonicalBump,
	}))
	return pendingRequest{store: store, fund: fund, request: request}
}

func TestExecuteWithdrawal(t *testing.T) {
	creator := newIdentity()
	recipient := newIdentity()
	intruder := newIdentity()

	relaxed := chaintest.NewRules()
	relaxed.RequireRequestRecipient = false

	pending := withPendingRequest(t, creator, recipient, 1000, 400, false)
	done := withPendingRequest(t, creator, recipient, 1000, 400, true)
	poor := withPendingRequest(t, creator, recipient, 100, 400, false)
	mismatch := withPendingRequest(t, creator, recipient, 1000, 400, false)
	redirected := withPendingRequest(t, creator, recipient, 1000, 400, false)
	unauthorized := withPendingRequest(t, creator, recipient, 1000, 400, false)

	otherFund := withPendingRequest(t, intruder, intruder, 1000, 400, false)
	foreign := withPendingRequest(t, creator, recipient, 1000, 400, false)
	for k, v := range otherFund.store.Storage {
		foreign.store.Storage[k] = v
	}

	chaintest.ActionTestSuite{
		{
			Name: "PaysRecipient",
			Action: &ExecuteWithdrawal{
				Fund:       pending.fund,
				Request:    pending.request,
				Maintainer: creator,
				Recipient:  recipient,
			},
			State:     pending.store,
			Timestamp: testTimestamp,
			Signers:   []codec.Address{creator},
			ExpectedRecords: []event.Record{&event.WithdrawalExecuted{
				Fund:       pending.fund,
				Request:    pending.request,
				ID:         0,
				Amount:     400,
				Recipient:  recipient,
				ExecutedBy: creator,
				Timestamp:  testTimestamp / 1000,
			}},
			Assertion: func(ctx context.Context, t *testing.T, store *chaintest.InMemoryStore) {
				requireBalance(ctx, t, store, recipient, 400)
				requireBalance(ctx, t, store, pending.fund, 600)
				r, _, err := storage.GetRequest(ctx, store, pending.request)
				require.NoError(t, err)
				require.True(t, r.Executed)
			},
		},
		{
			Name: "AlreadyExecuted",
			Action: &ExecuteWithdrawal{
				Fund:       done.fund,
				Request:    done.request,
				Maintainer: creator,
				Recipient:  recipient,
			},
			State:       done.store,
			Signers:     []codec.Address{creator},
			ExpectedErr: ErrAlreadyExecuted,
		},
		{
			Name: "NonCreator",
			Action: &ExecuteWithdrawal{
				Fund:       unauthorized.fund,
				Request:    unauthorized.request,
				Maintainer: intruder,
				Recipient:  recipient,
			},
			State:       unauthorized.store,
			Signers:     []codec.Address{intruder},
			ExpectedErr: ErrUnauthorized,
		},
		{
			Name: "InsufficientFunds",
			Action: &ExecuteWithdrawal{
				Fund:       poor.fund,
				Request:    poor.request,
				Maintainer: creator,
				Recipient:  recipient,
			},
			State:       poor.store,
			Signers:     []codec.Address{creator},
			ExpectedErr: ErrInsufficientFunds,
		},
		{
			Name: "RecipientMismatch",
			Action: &ExecuteWithdrawal{
				Fund:       mismatch.fund,
				Request:    mismatch.request,
				Maintainer: creator,
				Recipient:  intruder,
			},
			State:       mismatch.store,
			Signers:     []codec.Address{creator},
			ExpectedErr: ErrRecipientMismatch,
		},
		{
			Name: "RecipientOverrideWhenNotEnforced",
			Action: &ExecuteWithdrawal{
				Fund:       redirected.fund,
				Request:    redirected.request,
				Maintainer: creator,
				Recipient:  intruder,
			},
			Rules:     relaxed,
			State:     redirected.store,
			Timestamp: testTimestamp,
			Signers:   []codec.Address{creator},
			ExpectedRecords: []event.Record{&event.WithdrawalExecuted{
				Fund:       redirected.fund,
				Request:    redirected.request,
				ID:         0,
				Amount:     400,
				Recipient:  intruder,
				ExecutedBy: creator,
				Timestamp:  testTimestamp / 1000,
			}},
			Assertion: func(ctx context.Context, t *testing.T, store *chaintest.InMemoryStore) {
				requireBalance(ctx, t, store, intruder, 400)
				requireBalance(ctx, t, store, recipient, 0)
			},
		},
		{
			Name: "RequestOfAnotherFund",
			Action: &ExecuteWithdrawal{
				Fund:       foreign.fund,
				Request:    otherFund.request,
				Maintainer: creator,
				Recipient:  intruder,
			},
			State:       foreign.store,
			Signers:     []codec.Address{creator},
			ExpectedErr: ErrAddressMismatch,
		},
	}.Run(t)
}

func TestExecuteWithdrawalOnce(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	creator := newIdentity()
	recipient := newIdentity()
	p := withPendingRequest(t, creator, recipient, 1000, 400, false)
	action := &ExecuteWithdrawal{
		Fund:       p.fund,
		Request:    p.request,
		Maintainer: creator,
		Recipient:  recipient,
	}
	signers := []codec.Address{creator}

	records, err := action.Execute(ctx, chaintest.NewRules(), p.store, testTimestamp, set.Of(signers...))
	require.NoError(err)
	require.Len(records, 1)

	records, err = action.Execute(ctx, chaintest.NewRules(), p.store, testTimestamp, set.Of(signers...))
	require.ErrorIs(err, ErrAlreadyExecuted)
	require.Nil(records)
	requireBalance(ctx, t, p.store, recipient, 400)
	requireBalance(ctx, t, p.store, p.fund, 600)
}
