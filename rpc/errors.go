// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "errors"

var (
	ErrUnknownKind = errors.New("unknown account kind")
	ErrNotFound    = errors.New("account not found")
)
