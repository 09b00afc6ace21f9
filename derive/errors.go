// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package derive

import "errors"

var (
	ErrAddressMismatch  = errors.New("address mismatch")
	ErrBumpNotFound     = errors.New("unable to find a viable bump")
	ErrInvalidSeeds     = errors.New("invalid seeds")
	ErrNonCanonicalBump = errors.New("bump is not canonical")
)
