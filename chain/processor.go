// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/ava-labs/avalanchego/utils/timer/mockable"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/exp/maps"

	"github.com/ava-labs/custodyvm/codec"
	"github.com/ava-labs/custodyvm/event"
	"github.com/ava-labs/custodyvm/lockmap"
	"github.com/ava-labs/custodyvm/storage"
	"github.com/ava-labs/custodyvm/tstate"

	oteltrace "go.opentelemetry.io/otel/trace"
)

// Notifier receives the entries of every committed transaction.
type Notifier interface {
	Notify(ctx context.Context, entries []*event.Entry)
}

type ProcessorConfig struct {
	Log         logging.Logger
	Tracer      trace.Tracer
	Rules       Rules
	DB          Database
	AuthEngines map[uint8]AuthEngine
	Notifier    Notifier

	// Classify labels failed transactions in metrics and logs.
	Classify func(error) string

	Registerer prometheus.Registerer
}

// Processor executes transactions one at a time per state key. Transactions
// that touch disjoint keys run concurrently.
type Processor struct {
	log      logging.Logger
	tracer   trace.Tracer
	rules    Rules
	db       Database
	engines  map[uint8]AuthEngine
	notifier Notifier
	classify func(error) string

	clock   mockable.Clock
	locks   *lockmap.Lockmap
	metrics *chainMetrics
}

func NewProcessor(cfg ProcessorConfig) (*Processor, error) {
	registerer := cfg.Registerer
	if registerer == nil {
		registerer = prometheus.NewRegistry()
	}
	m, err := newMetrics(registerer)
	if err != nil {
		return nil, err
	}
	classify := cfg.Classify
	if classify == nil {
		classify = func(error) string { return "unknown" }
	}
	return &Processor{
		log:      cfg.Log,
		tracer:   cfg.Tracer,
		rules:    cfg.Rules,
		db:       cfg.DB,
		engines:  cfg.AuthEngines,
		notifier: cfg.Notifier,
		classify: classify,
		locks:    lockmap.New(1024),
		metrics:  m,
	}, nil
}

// Clock is the time source used for validity checks and event timestamps.
func (p *Processor) Clock() *mockable.Clock {
	return &p.clock
}

// Submit authenticates and executes [tx]. Either every state change of the
// transaction is committed to the database, or none is. Entries are handed to
// the notifier only after the commit succeeds.
func (p *Processor) Submit(ctx context.Context, tx *Transaction) (*Result, error) {
	ctx, span := p.tracer.Start(ctx, "Processor.Submit",
		oteltrace.WithAttributes(
			attribute.Stringer("txID", tx.ID()),
			attribute.Int("action", int(tx.Action.GetTypeID())),
		),
	)
	defer span.End()

	now := p.clock.Time().UnixMilli()
	signers, err := p.authenticate(ctx, tx, now)
	if err != nil {
		p.metrics.txsRejected.Inc()
		return nil, err
	}
	stateKeys, err := tx.StateKeys()
	if err != nil {
		p.metrics.txsRejected.Inc()
		return nil, err
	}

	// The tx key is locked alongside the state keys so two copies of the
	// same transaction cannot both pass the duplicate check.
	txKey := storage.TxKey(tx.ID())
	lockKeys := append(maps.Keys(stateKeys), string(txKey))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lockStart := time.Now()
	unlock := p.locks.LockAll(lockKeys)
	defer unlock()
	p.metrics.waitLocks.Observe(float64(time.Since(lockStart)))
	p.metrics.lockedKeys.Set(float64(p.locks.Locks()))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found, _, _, err := storage.GetTransaction(p.db, tx.ID())
	if err != nil {
		return nil, err
	}
	if found {
		p.metrics.txsRejected.Inc()
		return nil, fmt.Errorf("%w: %s", ErrDuplicateTx, tx.ID())
	}

	execStart := time.Now()
	defer func() {
		p.metrics.execute.Observe(float64(time.Since(execStart)))
	}()
	scope := make(map[string][]byte, len(stateKeys))
	for k := range stateKeys {
		v, err := p.db.Get([]byte(k))
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		scope[k] = v
	}
	ts := tstate.New(len(stateKeys))
	view := ts.NewView(stateKeys, scope)
	actionLabel := strconv.Itoa(int(tx.Action.GetTypeID()))
	records, err := tx.Action.Execute(ctx, p.rules, view, now, signers)
	if err != nil {
		kind := p.classify(err)
		p.metrics.txsFailed.WithLabelValues(actionLabel, kind).Inc()
		p.log.Debug("transaction failed",
			zap.Stringer("txID", tx.ID()),
			zap.Uint8("action", tx.Action.GetTypeID()),
			zap.String("kind", kind),
			zap.Error(err),
		)
		return nil, err
	}
	view.Commit()

	batch := p.db.NewBatch()
	changed, err := ts.WriteChanges(batch)
	if err != nil {
		return nil, err
	}
	if err := storage.StoreTransaction(batch, tx.ID(), now, true); err != nil {
		return nil, err
	}
	if err := batch.Write(); err != nil {
		return nil, err
	}
	p.metrics.stateChanges.Add(float64(changed))
	p.metrics.txsAccepted.WithLabelValues(actionLabel).Inc()

	entries := make([]*event.Entry, len(records))
	for i, r := range records {
		entries[i] = &event.Entry{
			TxID:      tx.ID(),
			Timestamp: now,
			Record:    r,
		}
	}
	// Delivered while the keys are still held so entries touching the same
	// account reach subscribers in commit order.
	if p.notifier != nil && len(entries) > 0 {
		p.notifier.Notify(ctx, entries)
	}
	return &Result{
		TxID:      tx.ID(),
		Timestamp: now,
		Entries:   entries,
	}, nil
}

func (p *Processor) authenticate(ctx context.Context, tx *Transaction, now int64) (set.Set[codec.Address], error) {
	ctx, span := p.tracer.Start(ctx, "Processor.authenticate")
	defer span.End()

	if err := tx.Base.Execute(p.rules.GetChainID(), p.rules, now); err != nil {
		return nil, err
	}
	switch {
	case len(tx.Auths) == 0:
		return nil, ErrNoSigners
	case len(tx.Auths) > p.rules.GetMaxSigners():
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManySigners, len(tx.Auths), p.rules.GetMaxSigners())
	}
	signers := tx.Signers()
	if signers.Len() != len(tx.Auths) {
		return nil, ErrDuplicateSigner
	}

	start := time.Now()
	defer func() {
		p.metrics.waitSignatures.Observe(float64(time.Since(start)))
	}()
	digest, err := tx.Digest()
	if err != nil {
		return nil, err
	}
	byType := map[uint8][]Auth{}
	for _, auth := range tx.Auths {
		byType[auth.GetTypeID()] = append(byType[auth.GetTypeID()], auth)
	}
	for typeID, auths := range byType {
		engine, ok := p.engines[typeID]
		if !ok {
			for _, auth := range auths {
				if err := auth.Verify(ctx, digest); err != nil {
					return nil, err
				}
			}
			continue
		}
		bv := engine.GetBatchVerifier(len(auths))
		for _, auth := range auths {
			bv.Add(digest, auth)
		}
		if err := bv.Verify(); err != nil {
			return nil, err
		}
	}
	return signers, nil
}
