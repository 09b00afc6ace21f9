// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import "errors"

var (
	ErrNotReady = errors.New("not ready")
	ErrClosed   = errors.New("vm closed")
)
