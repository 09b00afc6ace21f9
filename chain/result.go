// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/ava-labs/custodyvm/event"
)

// Result describes a committed transaction.
type Result struct {
	TxID      ids.ID         `json:"txID"`
	Timestamp int64          `json:"timestamp"`
	Entries   []*event.Entry `json:"entries"`
}
