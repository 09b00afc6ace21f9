// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/event"
	"github.com/ava-labs/custodyvm/state"
)

type Rules interface {
	// GetChainID protects against replaying transactions on another
	// deployment.
	GetChainID() ids.ID

	// GetValidityWindow bounds how far a transaction timestamp may drift from
	// the processor clock (in milliseconds).
	GetValidityWindow() int64

	GetMaxSigners() int

	// EnforceRequestRecipient requires an executed withdrawal to pay the
	// recipient recorded on its request.
	EnforceRequestRecipient() bool
}

type Action interface {
	// GetTypeID uniquely identifies the action in the registry.
	GetTypeID() uint8

	// StateKeys is a full enumeration of all database keys that could be
	// touched during execution. The processor locks and loads exactly these
	// keys; any access outside of them fails.
	StateKeys() state.Keys

	// Execute performs the action against [mu]. [signers] is the set of
	// addresses that signed the transaction.
	//
	// If Execute returns an error, none of its writes are kept and none of its
	// records are emitted.
	Execute(
		ctx context.Context,
		r Rules,
		mu state.Mutable,
		timestamp int64,
		signers set.Set[codec.Address],
	) ([]event.Record, error)

	Size() int
	Marshal(p *codec.Packer)
}

type Auth interface {
	GetTypeID() uint8

	// Verify checks that the auth was produced over [msg].
	Verify(ctx context.Context, msg []byte) error

	// Actor is the address the auth proves control of.
	Actor() codec.Address

	Size() int
	Marshal(p *codec.Packer)
}

type AuthFactory interface {
	Sign(msg []byte) (Auth, error)
	Address() codec.Address
}

// AuthBatchVerifier verifies many auths of one type together.
type AuthBatchVerifier interface {
	Add(msg []byte, auth Auth)
	Verify() error
}

type AuthEngine interface {
	GetBatchVerifier(count int) AuthBatchVerifier
}

// Database is the committed state the processor reads from and writes
// finished transactions to.
type Database interface {
	database.KeyValueReader
	database.Batcher
}
