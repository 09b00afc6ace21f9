// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package derive

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/custodyvm/codec"
)

var (
	creator = codec.CreateAddress(0, ids.GenerateTestID())
	other   = codec.CreateAddress(0, ids.GenerateTestID())
)

func TestDeriveDeterministic(t *testing.T) {
	require := require.New(t)

	a, err := Fund(creator, CanonicalBump)
	require.NoError(err)
	b, err := Fund(creator, CanonicalBump)
	require.NoError(err)
	require.Equal(a, b)
	require.Equal(DerivedTypeID, a.TypeID())
	require.True(Verify(a, FundNamespace, FundSeeds(creator), CanonicalBump))
}

func TestDeriveDistinct(t *testing.T) {
	require := require.New(t)

	base, err := Derive(FundNamespace, FundSeeds(creator), CanonicalBump)
	require.NoError(err)

	tests := []struct {
		name      string
		namespace string
		seeds     [][]byte
		bump      uint8
	}{
		{
			name:      "different bump",
			namespace: FundNamespace,
			seeds:     FundSeeds(creator),
			bump:      CanonicalBump - 1,
		},
		{
			name:      "different namespace",
			namespace: VaultNamespace,
			seeds:     VaultSeeds(creator),
			bump:      CanonicalBump,
		},
		{
			name:      "different seed",
			namespace: FundNamespace,
			seeds:     FundSeeds(other),
			bump:      CanonicalBump,
		},
		{
			name:      "seed boundary moved",
			namespace: FundNamespace,
			seeds:     [][]byte{creator[:16], creator[16:]},
			bump:      CanonicalBump,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := Derive(tt.namespace, tt.seeds, tt.bump)
			require.NoError(err)
			require.NotEqual(base, addr)
		})
	}
}

func TestRequestAddressesPerID(t *testing.T) {
	require := require.New(t)

	fund, err := Fund(creator, CanonicalBump)
	require.NoError(err)
	seen := map[codec.Address]struct{}{}
	for id := uint64(0); id < 32; id++ {
		addr, err := Request(fund, id, CanonicalBump)
		require.NoError(err)
		_, ok := seen[addr]
		require.False(ok)
		seen[addr] = struct{}{}
	}
	require.Equal([]byte{1, 0, 0, 0, 0, 0, 0, 0}, RequestSeeds(fund, 1)[1])
}

func TestCheck(t *testing.T) {
	require := require.New(t)

	vault, err := Vault(creator, CanonicalBump)
	require.NoError(err)
	require.NoError(Check(vault, VaultNamespace, VaultSeeds(creator), CanonicalBump))
	require.ErrorIs(Check(vault, VaultNamespace, VaultSeeds(other), CanonicalBump), ErrAddressMismatch)
	require.ErrorIs(Check(vault, VaultNamespace, VaultSeeds(creator), 1), ErrAddressMismatch)
	require.False(Verify(vault, FundNamespace, VaultSeeds(creator), CanonicalBump))
}

func TestInvalidSeeds(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		seeds     [][]byte
	}{
		{
			name:      "empty namespace",
			namespace: "",
		},
		{
			name:      "namespace too long",
			namespace: string(bytes.Repeat([]byte{'a'}, MaxNamespaceLen+1)),
		},
		{
			name:      "seed too long",
			namespace: FundNamespace,
			seeds:     [][]byte{make([]byte, MaxSeedLen+1)},
		},
		{
			name:      "too many seeds",
			namespace: FundNamespace,
			seeds:     make([][]byte, MaxSeeds+1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Derive(tt.namespace, tt.seeds, CanonicalBump)
			require.ErrorIs(t, err, ErrInvalidSeeds)
		})
	}
}

func TestCheckCanonical(t *testing.T) {
	require := require.New(t)

	canonical, err := Fund(creator, CanonicalBump)
	require.NoError(err)
	require.NoError(CheckCanonical(canonical, FundNamespace, FundSeeds(creator), CanonicalBump))

	// A correctly derived identifier at any other bump is still rejected.
	lower, err := Fund(creator, CanonicalBump-1)
	require.NoError(err)
	require.NoError(Check(lower, FundNamespace, FundSeeds(creator), CanonicalBump-1))
	err = CheckCanonical(lower, FundNamespace, FundSeeds(creator), CanonicalBump-1)
	require.ErrorIs(err, ErrNonCanonicalBump)
	require.ErrorIs(err, ErrAddressMismatch)

	foreign, err := Fund(other, CanonicalBump)
	require.NoError(err)
	require.ErrorIs(CheckCanonical(foreign, FundNamespace, FundSeeds(creator), CanonicalBump), ErrAddressMismatch)
}

func TestFind(t *testing.T) {
	require := require.New(t)

	canonical, err := Fund(creator, CanonicalBump)
	require.NoError(err)

	addr, bump, err := Find(FundNamespace, FundSeeds(creator), func(codec.Address) (bool, error) {
		return false, nil
	})
	require.NoError(err)
	require.Equal(canonical, addr)
	require.Equal(uint8(CanonicalBump), bump)

	_, _, err = Find(FundNamespace, FundSeeds(creator), func(codec.Address) (bool, error) {
		return true, nil
	})
	require.ErrorIs(err, ErrBumpNotFound)

	errBoom := errors.New("boom")
	_, _, err = Find(FundNamespace, FundSeeds(creator), func(codec.Address) (bool, error) {
		return false, errBoom
	})
	require.ErrorIs(err, errBoom)
}
