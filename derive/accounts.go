// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package derive

import (
	"encoding/binary"

	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/consts"
)

const (
	FundNamespace    = "fund"
	RequestNamespace = "request"
	VaultNamespace   = "vault"
)

func FundSeeds(creator codec.Address) [][]byte {
	return [][]byte{creator[:]}
}

// RequestSeeds encodes [id] as 8 little-endian bytes.
func RequestSeeds(fund codec.Address, id uint64) [][]byte {
	idBytes := make([]byte, consts.Uint64Len)
	binary.LittleEndian.PutUint64(idBytes, id)
	return [][]byte{fund[:], idBytes}
}

func VaultSeeds(authority codec.Address) [][]byte {
	return [][]byte{authority[:]}
}

func Fund(creator codec.Address, bump uint8) (codec.Address, error) {
	return Derive(FundNamespace, FundSeeds(creator), bump)
}

func Request(fund codec.Address, id uint64, bump uint8) (codec.Address, error) {
	return Derive(RequestNamespace, RequestSeeds(fund, id), bump)
}

func Vault(authority codec.Address, bump uint8) (codec.Address, error) {
	return Derive(VaultNamespace, VaultSeeds(authority), bump)
}
