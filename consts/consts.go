// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import "github.com/ava-labs/avalanchego/version"

const (
	ByteLen   = 1
	BoolLen   = 1
	Uint8Len  = 1
	Uint16Len = 2
	IntLen    = 4
	Uint64Len = 8
	Int64Len  = 8
	IDLen     = 32

	MaxUint8  = ^uint8(0)
	MaxUint16 = ^uint16(0)
	MaxUint64 = ^uint64(0)

	// NetworkSizeLimit is the largest message (transaction or RPC payload)
	// the node will decode.
	NetworkSizeLimit = 2_044_723 // 1.95 MiB

	MillisecondsPerSecond = 1000
)

const (
	Name   = "custodyvm"
	Symbol = "CST"
)

var Version = &version.Semantic{
	Major: 0,
	Minor: 1,
	Patch: 0,
}
