// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"context"
	"fmt"

	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/consts"
	"github.com/ava-labs/custodyvm/derive"
	"github.com/ava-labs/custodyvm/state"
	"github.com/ava-labs/custodyvm/storage"
)

// loadFund returns the fund at [addr] after checking that [addr] is the
// derived fund account of the recorded creator.
func loadFund(ctx context.Context, im state.Immutable, addr codec.Address) (*storage.Fund, error) {
	f, exists, err := storage.GetFund(ctx, im, addr)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: fund %s", ErrAccountNotFound, addr)
	}
	if err := derive.Check(addr, derive.FundNamespace, derive.FundSeeds(f.Creator), f.Bump); err != nil {
		return nil, err
	}
	return f, nil
}

// loadRequest returns the request at [addr] after checking that it belongs
// to [fund] and sits at its derived identifier.
func loadRequest(ctx context.Context, im state.Immutable, fund codec.Address, addr codec.Address) (*storage.Request, error) {
	r, exists, err := storage.GetRequest(ctx, im, addr)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: request %s", ErrAccountNotFound, addr)
	}
	if r.Fund != fund {
		return nil, fmt.Errorf("%w: request %s belongs to fund %s", ErrAddressMismatch, addr, r.Fund)
	}
	if err := derive.Check(addr, derive.RequestNamespace, derive.RequestSeeds(fund, r.ID), r.Bump); err != nil {
		return nil, err
	}
	return r, nil
}

func loadVault(ctx context.Context, im state.Immutable, addr codec.Address) (*storage.Vault, error) {
	v, exists, err := storage.GetVault(ctx, im, addr)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: vault %s", ErrAccountNotFound, addr)
	}
	if err := derive.Check(addr, derive.VaultNamespace, derive.VaultSeeds(v.Authority), v.Bump); err != nil {
		return nil, err
	}
	return v, nil
}

// unixSeconds converts a transaction timestamp (ms) to the resolution carried
// by event records.
func unixSeconds(timestamp int64) int64 {
	return timestamp / consts.MillisecondsPerSecond
}
