// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/custodyvm/chain"
	"github.com/ava-labs/custodyvm/event"
	"github.com/ava-labs/custodyvm/state"
)

type VM interface {
	Logger() logging.Logger
	Tracer() trace.Tracer
	Rules() chain.Rules

	// ReadState reads committed state.
	ReadState() state.Immutable
	Submit(ctx context.Context, tx *chain.Transaction) (*chain.Result, error)
	GetTransaction(txID ids.ID) (found bool, timestamp int64, success bool, err error)
	Events(start uint64, limit int) ([]*event.Entry, uint64, error)
}
