// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/custodyvm/chain"
)

var _ chain.Rules = (*Rules)(nil)

type Rules struct {
	ChainID                 ids.ID
	ValidityWindow          int64
	MaxSigners              int
	RequireRequestRecipient bool
}

// NewRules returns rules for a fresh test chain with a one minute validity
// window, four signers and recipient enforcement on.
func NewRules() *Rules {
	return &Rules{
		ChainID:                 ids.GenerateTestID(),
		ValidityWindow:          60_000,
		MaxSigners:              4,
		RequireRequestRecipient: true,
	}
}

func (r *Rules) GetChainID() ids.ID { return r.ChainID }

func (r *Rules) GetValidityWindow() int64 { return r.ValidityWindow }

func (r *Rules) GetMaxSigners() int { return r.MaxSigners }

func (r *Rules) EnforceRequestRecipient() bool { return r.RequireRequestRecipient }
