// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package auth

import "github.com/ava-labs/custodyvm/chain"

// Registry will error during initialization if a duplicate ID is assigned. We
// explicitly assign IDs to avoid accidental remapping.
const (
	// ED25519ID doubles as the type byte of identity addresses.
	ED25519ID uint8 = 0
	// SECP256R1ID is 2 because 1 is the type byte of derived accounts.
	SECP256R1ID uint8 = 2

	ED25519Key   = "ed25519"
	SECP256R1Key = "secp256r1"
)

func Engines() map[uint8]chain.AuthEngine {
	return map[uint8]chain.AuthEngine{
		ED25519ID:   &ED25519AuthEngine{},
		SECP256R1ID: &SECP256R1AuthEngine{},
	}
}
