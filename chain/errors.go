// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "errors"

var (
	// Parsing
	ErrInvalidObject = errors.New("invalid object")

	// Tx Correctness
	ErrMisalignedTime    = errors.New("misaligned time")
	ErrTimestampTooLate  = errors.New("timestamp too late")
	ErrTimestampTooEarly = errors.New("timestamp too early")
	ErrInvalidChainID    = errors.New("invalid chain ID")
	ErrNoSigners         = errors.New("transaction has no signers")
	ErrTooManySigners    = errors.New("transaction has too many signers")
	ErrDuplicateSigner   = errors.New("duplicate signer")
	ErrDuplicateTx       = errors.New("duplicate transaction")
	ErrAuthNotVerified   = errors.New("auth not verified")

	// Execution Correctness
	ErrInvalidKeyValue = errors.New("invalid key or value")
)
