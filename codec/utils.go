// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "github.com/ava-labs/custodyvm/consts"

func StringLen(msg string) int {
	return consts.IntLen + len(msg)
}
