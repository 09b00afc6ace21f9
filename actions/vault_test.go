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

func TestInitVault(t *testing.T) {
	authority := newIdentity()
	other := newIdentity()
	vault := vaultAddress(t, authority)
	existing, _ := storeWithVault(t, authority, true, nil)
	lowerVault, err := derive.Vault(authority, 7)
	require.NoError(t, err)

	chaintest.ActionTestSuite{
		{
			Name: "CreatesVault",
			Action: &InitVault{
				Authority: authority,
				Vault:     vault,
				Bump:      derive.CanonicalBump,
			},
			Signers: []codec.Address{authority},
			Assertion: func(ctx context.Context, t *testing.T, store *chaintest.InMemoryStore) {
				v, exists, err := storage.GetVault(ctx, store, vault)
				require.NoError(t, err)
				require.True(t, exists)
				require.Equal(t, &storage.Vault{Authority: authority, Bump: derive.CanonicalBump}, v)
			},
		},
		{
			Name: "AuthorityMustSign",
			Action: &InitVault{
				Authority: authority,
				Vault:     vault,
				Bump:      derive.CanonicalBump,
			},
			Signers:     []codec.Address{other},
			ExpectedErr: ErrUnauthorized,
		},
		{
			Name: "VaultNotDerivedFromAuthority",
			Action: &InitVault{
				Authority: authority,
				Vault:     vaultAddress(t, other),
				Bump:      derive.CanonicalBump,
			},
			Signers:     []codec.Address{authority},
			ExpectedErr: ErrAddressMismatch,
		},
		{
			Name: "SecondVaultAtLowerBump",
			Action: &InitVault{
				Authority: authority,
				Vault:     lowerVault,
				Bump:      7,
			},
			State:       existing,
			Signers:     []codec.Address{authority},
			ExpectedErr: ErrNonCanonicalBump,
			Assertion: func(ctx context.Context, t *testing.T, store *chaintest.InMemoryStore) {
				_, exists, err := storage.GetVault(ctx, store, lowerVault)
				require.NoError(t, err)
				require.False(t, exists)
			},
		},
		{
			Name: "AlreadyExists",
			Action: &InitVault{
				Authority: authority,
				Vault:     vault,
				Bump:      derive.CanonicalBump,
			},
			State:       existing,
			Signers:     []codec.Address{authority},
			ExpectedErr: ErrAlreadyExists,
		},
	}.Run(t)
}

func TestDeposit(t *testing.T) {
	authority := newIdentity()
	user := newIdentity()
	vault := vaultAddress(t, authority)

	open := func() *chaintest.InMemoryStore {
		store, _ := storeWithVault(t, authority, false, map[codec.Address]uint64{user: 500})
		return store
	}
	locked, _ := storeWithVault(t, authority, true, map[codec.Address]uint64{user: 500})

	chaintest.ActionTestSuite{
		{
			Name:    "CreditsVault",
			Action:  &Deposit{Vault: vault, User: user, Amount: 200},
			State:   open(),
			Signers: []codec.Address{user},
			ExpectedRecords: []event.Record{&event.Deposit{
				Vault:  vault,
				User:   user,
				Amount: 200,
			}},
			Assertion: func(ctx context.Context, t *testing.T, store *chaintest.InMemoryStore) {
				requireBalance(ctx, t, store, user, 300)
				requireBalance(ctx, t, store, vault, 200)
			},
		},
		{
			Name:        "Locked",
			Action:      &Deposit{Vault: vault, User: user, Amount: 200},
			State:       locked,
			Signers:     []codec.Address{user},
			ExpectedErr: ErrVaultLocked,
		},
		{
			Name:        "InsufficientBalance",
			Action:      &Deposit{Vault: vault, User: user, Amount: 501},
			State:       open(),
			Signers:     []codec.Address{user},
			ExpectedErr: ErrInsufficientBalance,
		},
		{
			Name:    "ZeroAmountIsNoop",
			Action:  &Deposit{Vault: vault, User: user},
			State:   open(),
			Signers: []codec.Address{user},
			ExpectedRecords: []event.Record{&event.Deposit{
				Vault: vault,
				User:  user,
			}},
			Assertion: func(ctx context.Context, t *testing.T, store *chaintest.InMemoryStore) {
				requireBalance(ctx, t, store, user, 500)
				requireBalance(ctx, t, store, vault, 0)
			},
		},
		{
			Name:        "UserMustSign",
			Action:      &Deposit{Vault: vault, User: user, Amount: 1},
			State:       open(),
			Signers:     []codec.Address{authority},
			ExpectedErr: ErrUnauthorized,
		},
		{
			Name:        "MissingVault",
			Action:      &Deposit{Vault: vaultAddress(t, user), User: user, Amount: 1},
			State:       open(),
			Signers:     []codec.Address{user},
			ExpectedErr: ErrAccountNotFound,
		},
	}.Run(t)
}

func TestWithdraw(t *testing.T) {
	authority := newIdentity()
	intruder := newIdentity()
	vault := vaultAddress(t, authority)

	open := func() *chaintest.InMemoryStore {
		store, _ := storeWithVault(t, authority, false, map[codec.Address]uint64{vault: 300})
		return store
	}
	locked, _ := storeWithVault(t, authority, true, map[codec.Address]uint64{vault: 300})

	chaintest.ActionTestSuite{
		{
			Name:    "PaysAuthority",
			Action:  &Withdraw{Vault: vault, Authority: authority, Amount: 300},
			State:   open(),
			Signers: []codec.Address{authority},
			ExpectedRecords: []event.Record{&event.Withdraw{
				Vault:          vault,
				VaultAuthority: authority,
				Amount:         300,
			}},
			Assertion: func(ctx context.Context, t *testing.T, store *chaintest.InMemoryStore) {
				requireBalance(ctx, t, store, authority, 300)
				requireBalance(ctx, t, store, vault, 0)
				_, ok := store.Storage[string(storage.BalanceKey(vault))]
				require.False(t, ok)
			},
		},
		{
			Name:        "NotAuthority",
			Action:      &Withdraw{Vault: vault, Authority: intruder, Amount: 1},
			State:       open(),
			Signers:     []codec.Address{intruder},
			ExpectedErr: ErrUnauthorized,
		},
		{
			Name:        "AuthorityDidNotSign",
			Action:      &Withdraw{Vault: vault, Authority: authority, Amount: 1},
			State:       open(),
			Signers:     []codec.Address{intruder},
			ExpectedErr: ErrUnauthorized,
		},
		{
			Name:        "Locked",
			Action:      &Withdraw{Vault: vault, Authority: authority, Amount: 1},
			State:       locked,
			Signers:     []codec.Address{authority},
			ExpectedErr: ErrVaultLocked,
		},
		{
			Name:        "InsufficientBalance",
			Action:      &Withdraw{Vault: vault, Authority: authority, Amount: 301},
			State:       open(),
			Signers:     []codec.Address{authority},
			ExpectedErr: ErrInsufficientBalance,
		},
		{
			Name:    "ZeroAmountIsNoop",
			Action:  &Withdraw{Vault: vault, Authority: authority},
			State:   open(),
			Signers: []codec.Address{authority},
			ExpectedRecords: []event.Record{&event.Withdraw{
				Vault:          vault,
				VaultAuthority: authority,
			}},
			Assertion: func(ctx context.Context, t *testing.T, store *chaintest.InMemoryStore) {
				requireBalance(ctx, t, store, authority, 0)
				requireBalance(ctx, t, store, vault, 300)
			},
		},
	}.Run(t)
}

func TestToggleLockGatesTransfers(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	rules := chaintest.NewRules()

	authority := newIdentity()
	user := newIdentity()
	store, vault := storeWithVault(t, authority, false, map[codec.Address]uint64{user: 100})
	toggle := &ToggleLock{Vault: vault, Authority: authority}

	_, err := toggle.Execute(ctx, rules, store, testTimestamp, set.Of(user))
	require.ErrorIs(err, ErrUnauthorized)

	var locks []bool
	for i := 0; i < 2; i++ {
		records, err := toggle.Execute(ctx, rules, store, testTimestamp, set.Of(authority))
		require.NoError(err)
		require.Len(records, 1)
		ev := records[0].(*event.ToggleLock)
		require.Equal(vault, ev.Vault)
		require.Equal(authority, ev.VaultAuthority)
		locks = append(locks, ev.Locked)

		_, err = (&Deposit{Vault: vault, User: user, Amount: 10}).Execute(ctx, rules, store, testTimestamp, set.Of(user))
		if ev.Locked {
			require.ErrorIs(err, ErrVaultLocked)
		} else {
			require.NoError(err)
		}
	}
	require.Equal([]bool{true, false}, locks)
	requireBalance(ctx, t, store, vault, 10)
	requireBalance(ctx, t, store, user, 90)
}
