// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/custodyvm/auth"
	"github.com/ava-labs/custodyvm/chain/chaintest"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/derive"
	"github.com/ava-labs/custodyvm/storage"
)

const testTimestamp int64 = 1_700_000_000_123

func newIdentity() codec.Address {
	return codec.CreateAddress(auth.ED25519ID, ids.GenerateTestID())
}

func fundAddress(t require.TestingT, creator codec.Address) codec.Address {
	addr, err := derive.Fund(creator, derive.CanonicalBump)
	require.NoError(t, err)
	return addr
}

func requestAddress(t require.TestingT, fund codec.Address, id uint64) codec.Address {
	addr, err := derive.Request(fund, id, derive.CanonicalBump)
	require.NoError(t, err)
	return addr
}

func vaultAddress(t require.TestingT, authority codec.Address) codec.Address {
	addr, err := derive.Vault(authority, derive.CanonicalBump)
	require.NoError(t, err)
	return addr
}

// storeWith writes a fund for [creator] (and any balances) into a fresh
// store.
func storeWithFund(t *testing.T, creator codec.Address, f *storage.Fund, balances map[codec.Address]uint64) (*chaintest.InMemoryStore, codec.Address) {
	require := require.New(t)
	ctx := context.Background()
	store := chaintest.NewInMemoryStore()
	fund := fundAddress(t, creator)
	if f != nil {
		f.Creator = creator
		f.Bump = derive.CanonicalBump
		require.NoError(storage.SetFund(ctx, store, fund, f))
	}
	for addr, bal := range balances {
		require.NoError(storage.SetBalance(ctx, store, addr, bal))
	}
	return store, fund
}

func storeWithVault(t *testing.T, authority codec.Address, locked bool, balances map[codec.Address]uint64) (*chaintest.InMemoryStore, codec.Address) {
	require := require.New(t)
	ctx := context.Background()
	store := chaintest.NewInMemoryStore()
	vault := vaultAddress(t, authority)
	require.NoError(storage.SetVault(ctx, store, vault, &storage.Vault{
		Authority: authority,
		Locked:    locked,
		Bump:      derive.CanonicalBump,
	}))
	for addr, bal := range balances {
		require.NoError(storage.SetBalance(ctx, store, addr, bal))
	}
	return store, vault
}

func requireBalance(ctx context.Context, t *testing.T, store *chaintest.InMemoryStore, addr codec.Address, expected uint64) {
	bal, err := storage.GetBalance(ctx, store, addr)
	require.NoError(t, err)
	require.Equal(t, expected, bal)
}

func requireFund(ctx context.Context, t *testing.T, store *chaintest.InMemoryStore, addr codec.Address) *storage.Fund {
	f, exists, err := storage.GetFund(ctx, store, addr)
	require.NoError(t, err)
	require.True(t, exists)
	return f
}
