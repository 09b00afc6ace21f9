// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/custodyvm/consts"
)

const NativeDecimals = 9

func ToID(bytes []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(bytes))
}

func FormatBalance(bal uint64) string {
	return fmt.Sprintf("%.9f", float64(bal)/math.Pow10(NativeDecimals))
}

// ParseBalance accepts either a decimal amount of whole units ("1.5") or a
// raw integer amount of base units prefixed with "raw:" ("raw:1500").
func ParseBalance(bal string) (uint64, error) {
	if len(bal) > 4 && bal[:4] == "raw:" {
		return strconv.ParseUint(bal[4:], 10, 64)
	}
	f, err := strconv.ParseFloat(bal, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, fmt.Errorf("negative balance %s", bal)
	}
	return uint64(f * math.Pow10(NativeDecimals)), nil
}

// UnixRMilli returns [now] + [add] in milliseconds, rounded down to the
// second. A negative [now] uses the current time. Transaction expiries are
// built this way so they stay second aligned.
func UnixRMilli(now, add int64) int64 {
	if now < 0 {
		now = time.Now().UnixMilli()
	}
	t := now + add
	return t - t%consts.MillisecondsPerSecond
}
