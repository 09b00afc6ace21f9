// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/consts"
	"github.com/ava-labs/custodyvm/state"
)

// GetBalance returns the native balance of [addr]. Accounts without a
// balance record hold 0.
func GetBalance(ctx context.Context, im state.Immutable, addr codec.Address) (uint64, error) {
	_, bal, _, err := getBalance(ctx, im, addr)
	return bal, err
}

func getBalance(ctx context.Context, im state.Immutable, addr codec.Address) ([]byte, uint64, bool, error) {
	k := BalanceKey(addr)
	bal, exists, err := innerGetBalance(im.GetValue(ctx, k))
	return k, bal, exists, err
}

func innerGetBalance(v []byte, err error) (uint64, bool, error) {
	if errors.Is(err, database.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if len(v) != consts.Uint64Len {
		return 0, false, fmt.Errorf("%w: balance has %d bytes", ErrInvalidRecord, len(v))
	}
	return binary.BigEndian.Uint64(v), true, nil
}

func SetBalance(ctx context.Context, mu state.Mutable, addr codec.Address, balance uint64) error {
	return setBalance(ctx, mu, BalanceKey(addr), balance)
}

func setBalance(ctx context.Context, mu state.Mutable, dbKey []byte, balance uint64) error {
	if balance == 0 {
		// Empty accounts do not keep a record.
		return mu.Remove(ctx, dbKey)
	}
	return mu.Insert(ctx, dbKey, binary.BigEndian.AppendUint64(nil, balance))
}

func AddBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) error {
	dbKey, bal, _, err := getBalance(ctx, mu, addr)
	if err != nil {
		return err
	}
	nbal, err := smath.Add(bal, amount)
	if err != nil {
		return fmt.Errorf(
			"%w: could not add balance (bal=%d, addr=%s, amount=%d)",
			ErrOverflow,
			bal,
			addr,
			amount,
		)
	}
	return setBalance(ctx, mu, dbKey, nbal)
}

func SubBalance(ctx context.Context, mu state.Mutable, addr codec.Address, amount uint64) error {
	dbKey, bal, _, err := getBalance(ctx, mu, addr)
	if err != nil {
		return err
	}
	nbal, err := smath.Sub(bal, amount)
	if err != nil {
		return fmt.Errorf(
			"%w: could not subtract balance (bal=%d, addr=%s, amount=%d)",
			ErrInsufficientBalance,
			bal,
			addr,
			amount,
		)
	}
	return setBalance(ctx, mu, dbKey, nbal)
}

// Transfer moves [amount] from [from] to [to]. Both sides are checked before
// either is written, so a failed transfer leaves both balances untouched.
func Transfer(ctx context.Context, mu state.Mutable, from codec.Address, to codec.Address, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	fromKey, fromBal, _, err := getBalance(ctx, mu, from)
	if err != nil {
		return err
	}
	toKey, toBal, _, err := getBalance(ctx, mu, to)
	if err != nil {
		return err
	}
	nfrom, err := smath.Sub(fromBal, amount)
	if err != nil {
		return fmt.Errorf(
			"%w: could not transfer (bal=%d, from=%s, amount=%d)",
			ErrInsufficientBalance,
			fromBal,
			from,
			amount,
		)
	}
	nto, err := smath.Add(toBal, amount)
	if err != nil {
		return fmt.Errorf(
			"%w: could not transfer (bal=%d, to=%s, amount=%d)",
			ErrOverflow,
			toBal,
			to,
			amount,
		)
	}
	if err := setBalance(ctx, mu, fromKey, nfrom); err != nil {
		return err
	}
	return setBalance(ctx, mu, toKey, nto)
}
