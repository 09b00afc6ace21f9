// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/ava-labs/custodyvm/chain"
	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/state"
	"github.com/ava-labs/custodyvm/storage"
	"github.com/ava-labs/custodyvm/tstate"

	safemath "github.com/ava-labs/avalanchego/utils/math"
)

var ErrGenesisMismatch = errors.New("database initialized with a different genesis")

type Allocation struct {
	Address codec.Address `json:"address"`
	Balance uint64        `json:"balance"`
}

// Genesis seeds native balances. It is applied once to an empty database.
type Genesis struct {
	Allocations []*Allocation `json:"allocations"`
}

func New(b []byte) (*Genesis, error) {
	g := &Genesis{}
	if len(b) == 0 {
		return g, nil
	}
	if err := json.Unmarshal(b, g); err != nil {
		return nil, err
	}
	return g, nil
}

// ID identifies the genesis by the hash of its canonical encoding.
func (g *Genesis) ID() (ids.ID, error) {
	b, err := json.Marshal(g)
	if err != nil {
		return ids.Empty, err
	}
	return hashing.ComputeHash256Array(b), nil
}

// Supply is the sum of every allocation.
func (g *Genesis) Supply() (uint64, error) {
	supply := uint64(0)
	for _, alloc := range g.Allocations {
		var err error
		supply, err = safemath.Add(supply, alloc.Balance)
		if err != nil {
			return 0, fmt.Errorf("%w: supply overflows at %s", storage.ErrOverflow, alloc.Address)
		}
	}
	return supply, nil
}

// Apply credits every allocation in a single batch. Re-applying the same
// genesis is a no-op.
func (g *Genesis) Apply(ctx context.Context, tracer trace.Tracer, db chain.Database) error {
	ctx, span := tracer.Start(ctx, "Genesis.Apply")
	defer span.End()

	id, err := g.ID()
	if err != nil {
		return err
	}
	prev, initialized, err := storage.GetGenesis(db)
	if err != nil {
		return err
	}
	if initialized {
		if prev != id {
			return fmt.Errorf("%w: stored=%s new=%s", ErrGenesisMismatch, prev, id)
		}
		return nil
	}
	if _, err := g.Supply(); err != nil {
		return err
	}

	scope := make(state.Keys, len(g.Allocations))
	values := make(map[string][]byte, len(g.Allocations))
	for _, alloc := range g.Allocations {
		k := storage.BalanceKey(alloc.Address)
		scope.Add(string(k), state.All)
		v, err := db.Get(k)
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		values[string(k)] = v
	}
	ts := tstate.New(len(scope))
	view := ts.NewView(scope, values)
	for _, alloc := range g.Allocations {
		if err := storage.AddBalance(ctx, view, alloc.Address, alloc.Balance); err != nil {
			return fmt.Errorf("%w: addr=%s, bal=%d", err, alloc.Address, alloc.Balance)
		}
	}
	view.Commit()

	batch := db.NewBatch()
	if _, err := ts.WriteChanges(batch); err != nil {
		return err
	}
	if err := storage.SetGenesis(batch, id); err != nil {
		return err
	}
	return batch.Write()
}
