// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/consts"
	"github.com/ava-labs/custodyvm/keys"
	"github.com/ava-labs/custodyvm/state"
)

// State
// 0x0/ (balance)
//   -> [address] => balance
// 0x1/ (fund)
//   -> [fund address] => creator|name|description|totals|requestCount|bump
// 0x2/ (request)
//   -> [request address] => id|fund|amount|recipient|reason|createdBy|executed|bump
// 0x3/ (vault)
//   -> [vault address] => authority|locked|bump
//
// Metadata
// 0x4/ (tx)
//   -> [txID] => timestamp|success
// 0x5/ (event height)
//   -> [] => next sequence
// 0x6/ (events)
//   -> [sequence] => record
// 0x7/ (genesis)
//   -> [] => genesis hash

const (
	balancePrefix byte = iota
	fundPrefix
	requestPrefix
	vaultPrefix
	txPrefix
	eventHeightPrefix
	eventPrefix
	genesisPrefix
)

const (
	BalanceChunks uint16 = 1
)

var (
	failureByte = byte(0x0)
	successByte = byte(0x1)

	eventHeightKey = []byte{eventHeightPrefix}
	genesisKey     = []byte{genesisPrefix}
)

func addressKey(prefix byte, addr codec.Address, chunks uint16) []byte {
	k := make([]byte, 1+codec.AddressLen, 1+codec.AddressLen+consts.Uint16Len)
	k[0] = prefix
	copy(k[1:], addr[:])
	return keys.EncodeChunks(k, chunks)
}

// [balancePrefix] + [address]
func BalanceKey(addr codec.Address) []byte {
	return addressKey(balancePrefix, addr, BalanceChunks)
}

// [fundPrefix] + [address]
func FundKey(fund codec.Address) []byte {
	return addressKey(fundPrefix, fund, FundChunks)
}

// [requestPrefix] + [address]
func RequestKey(request codec.Address) []byte {
	return addressKey(requestPrefix, request, RequestChunks)
}

// [vaultPrefix] + [address]
func VaultKey(vault codec.Address) []byte {
	return addressKey(vaultPrefix, vault, VaultChunks)
}

// [txPrefix] + [txID]
func TxKey(id ids.ID) (k []byte) {
	k = make([]byte, 1+consts.IDLen)
	k[0] = txPrefix
	copy(k[1:], id[:])
	return
}

func StoreTransaction(db database.KeyValueWriter, id ids.ID, t int64, success bool) error {
	v := make([]byte, consts.Int64Len+1)
	binary.BigEndian.PutUint64(v, uint64(t))
	if success {
		v[consts.Int64Len] = successByte
	} else {
		v[consts.Int64Len] = failureByte
	}
	return db.Put(TxKey(id), v)
}

// GetTransaction returns whether [id] was processed, when and whether it
// succeeded.
func GetTransaction(db database.KeyValueReader, id ids.ID) (bool, int64, bool, error) {
	v, err := db.Get(TxKey(id))
	if errors.Is(err, database.ErrNotFound) {
		return false, 0, false, nil
	}
	if err != nil {
		return false, 0, false, err
	}
	if len(v) != consts.Int64Len+1 {
		return false, 0, false, ErrInvalidRecord
	}
	return true, int64(binary.BigEndian.Uint64(v)), v[consts.Int64Len] == successByte, nil
}

// [eventPrefix] + [sequence]
func EventKey(seq uint64) []byte {
	k := make([]byte, 1, 1+consts.Uint64Len)
	k[0] = eventPrefix
	return binary.BigEndian.AppendUint64(k, seq)
}

// GetEventHeight returns the sequence number the next event is stored under.
func GetEventHeight(db database.KeyValueReader) (uint64, error) {
	v, err := db.Get(eventHeightKey)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != consts.Uint64Len {
		return 0, ErrInvalidRecord
	}
	return binary.BigEndian.Uint64(v), nil
}

func SetEventHeight(db database.KeyValueWriter, height uint64) error {
	return db.Put(eventHeightKey, binary.BigEndian.AppendUint64(nil, height))
}

// Exists reports whether [key] holds a value in [im].
func Exists(ctx context.Context, im state.Immutable, key []byte) (bool, error) {
	_, err := im.GetValue(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// GetGenesis returns the hash of the genesis applied to [db], if any.
func GetGenesis(db database.KeyValueReader) (ids.ID, bool, error) {
	v, err := db.Get(genesisKey)
	if errors.Is(err, database.ErrNotFound) {
		return ids.Empty, false, nil
	}
	if err != nil {
		return ids.Empty, false, err
	}
	id, err := ids.ToID(v)
	if err != nil {
		return ids.Empty, false, ErrInvalidRecord
	}
	return id, true, nil
}

func SetGenesis(db database.KeyValueWriter, id ids.ID) error {
	return db.Put(genesisKey, id[:])
}
