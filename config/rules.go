// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/custodyvm/chain"
)

var _ chain.Rules = (*Rules)(nil)

// Rules is the immutable rule set derived from a [Config].
type Rules struct {
	chainID                 ids.ID
	validityWindow          int64
	maxSigners              int
	enforceRequestRecipient bool
}

func (c *Config) Rules() *Rules {
	return &Rules{
		chainID:                 c.ChainID,
		validityWindow:          c.ValidityWindow,
		maxSigners:              c.MaxSigners,
		enforceRequestRecipient: c.EnforceRequestRecipient,
	}
}

func (r *Rules) GetChainID() ids.ID { return r.chainID }

func (r *Rules) GetValidityWindow() int64 { return r.validityWindow }

func (r *Rules) GetMaxSigners() int { return r.maxSigners }

func (r *Rules) EnforceRequestRecipient() bool { return r.enforceRequestRecipient }
