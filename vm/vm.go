// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/ava-labs/avalanchego/ids"
	avatrace "github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/custodyvm/actions"
	"github.com/ava-labs/custodyvm/auth"
	"github.com/ava-labs/custodyvm/chain"
	"github.com/ava-labs/custodyvm/config"
	"github.com/ava-labs/custodyvm/event"
	"github.com/ava-labs/custodyvm/genesis"
	"github.com/ava-labs/custodyvm/pebble"
	"github.com/ava-labs/custodyvm/pubsub"
	"github.com/ava-labs/custodyvm/rpc"
	"github.com/ava-labs/custodyvm/server"
	"github.com/ava-labs/custodyvm/state"
	"github.com/ava-labs/custodyvm/storage"
	"github.com/ava-labs/custodyvm/trace"
)

const (
	dbDir           = "db"
	MetricsEndpoint = "/metrics"
)

var _ rpc.VM = (*VM)(nil)

// VM owns the node: the database, the transaction processor, the event
// archive and the API server.
type VM struct {
	config *config.Config
	rules  *config.Rules
	log    logging.Logger
	tracer avatrace.Tracer

	db        *pebble.Database
	archive   *event.Archive
	notifier  *event.Notifier
	processor *chain.Processor

	gatherer prometheus.Gatherers
	metrics  *Metrics

	server *server.Server
	stream *pubsub.Server

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// New opens the database under the configured data directory, applies the
// genesis on first start and registers the API on [listener].
func New(ctx context.Context, cfg *config.Config, listener net.Listener) (*VM, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, perms.ReadWriteExecute); err != nil {
		return nil, err
	}
	// The chain id may be filled in from the genesis, so keep a private copy.
	c := *cfg
	vm := &VM{
		config: &c,
		log:    newLogger(cfg),
	}
	if err := vm.initialize(ctx, listener); err != nil {
		vm.log.Error("failed to initialize", zap.Error(err))
		return nil, errors.Join(err, vm.Close())
	}
	return vm, nil
}

func (vm *VM) initialize(ctx context.Context, listener net.Listener) error {
	var err error
	vm.tracer, err = trace.New(vm.config.Trace)
	if err != nil {
		return err
	}

	var dbRegistry *prometheus.Registry
	vm.db, dbRegistry, err = pebble.New(filepath.Join(vm.config.DataDir, dbDir), vm.config.Pebble)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	g, err := loadGenesis(vm.config.GenesisFile)
	if err != nil {
		return err
	}
	if err := g.Apply(ctx, vm.tracer, vm.db); err != nil {
		return fmt.Errorf("failed to apply genesis: %w", err)
	}
	genesisID, _, err := storage.GetGenesis(vm.db)
	if err != nil {
		return err
	}
	vm.log.Info("loaded genesis",
		zap.Stringer("genesisID", genesisID),
		zap.Int("allocations", len(g.Allocations)),
	)
	if vm.config.ChainID == ids.Empty {
		vm.config.ChainID = genesisID
	}
	vm.rules = vm.config.Rules()

	registry := prometheus.NewRegistry()
	vm.gatherer = prometheus.Gatherers{registry, dbRegistry}
	vm.metrics, err = newMetrics(registry)
	if err != nil {
		return err
	}

	vm.archive, err = event.NewArchive(vm.db)
	if err != nil {
		return err
	}
	vm.metrics.eventHeight.Set(float64(vm.archive.Height()))
	vm.stream = pubsub.New(vm.log, vm.config.Stream)
	vm.notifier, err = event.NewNotifier(vm.log, registry, vm.archive, event.SubscriptionFunc[*event.Entry]{
		AcceptF: func(_ context.Context, e *event.Entry) error {
			vm.log.Debug("event",
				zap.Uint64("seq", e.Seq),
				zap.Stringer("txID", e.TxID),
				zap.String("type", e.Record.EventName()),
			)
			b, err := json.Marshal(e)
			if err != nil {
				return err
			}
			vm.stream.Publish(b)
			return nil
		},
		CloseF: func() error {
			vm.stream.Close()
			return nil
		},
	})
	if err != nil {
		return err
	}

	vm.processor, err = chain.NewProcessor(chain.ProcessorConfig{
		Log:         vm.log,
		Tracer:      vm.tracer,
		Rules:       vm.rules,
		DB:          vm.db,
		AuthEngines: auth.Engines(),
		Notifier:    vm.notifier,
		Classify:    func(err error) string { return actions.Kind(err).String() },
		Registerer:  registry,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHandler(rpc.NewJSONRPCServer(vm), rpc.Name)
	if err != nil {
		return err
	}
	vm.server = server.New(vm.log, listener, vm.config.HTTP)
	vm.server.AddRoute(handler, rpc.JSONRPCEndpoint)
	vm.server.AddRoute(vm.stream, rpc.StreamEndpoint)
	vm.server.AddRoute(promhttp.HandlerFor(vm.gatherer, promhttp.HandlerOpts{}), MetricsEndpoint)

	vm.log.Info("initialized custodyvm",
		zap.Stringer("chainID", vm.rules.GetChainID()),
		zap.Int64("validityWindow", vm.rules.GetValidityWindow()),
		zap.Bool("enforceRequestRecipient", vm.rules.EnforceRequestRecipient()),
		zap.Uint64("events", vm.archive.Height()),
	)
	return nil
}

func loadGenesis(file string) (*genesis.Genesis, error) {
	if len(file) == 0 {
		return &genesis.Genesis{}, nil
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis: %w", err)
	}
	return genesis.New(b)
}

// Run serves the API until [ctx] is cancelled or the server fails.
func (vm *VM) Run(ctx context.Context) error {
	if vm.server == nil {
		return ErrNotReady
	}
	g, ctx := errgroup.WithContext(ctx)
	g.Go(vm.server.Dispatch)
	g.Go(func() error {
		<-ctx.Done()
		vm.log.Info("shutting down api server")
		return vm.server.Shutdown()
	})
	return g.Wait()
}

// Close disconnects stream peers and releases the database and the
// tracer. It is safe to call more than once.
func (vm *VM) Close() error {
	vm.closeOnce.Do(func() {
		vm.closed.Store(true)
		errs := wrappers.Errs{}
		if vm.notifier != nil {
			errs.Add(vm.notifier.Close())
		}
		if vm.db != nil {
			errs.Add(vm.db.Close())
		}
		if vm.tracer != nil {
			errs.Add(vm.tracer.Close())
		}
		vm.closeErr = errs.Err
		vm.log.Info("closed custodyvm", zap.Error(vm.closeErr))
	})
	return vm.closeErr
}

func (vm *VM) Logger() logging.Logger { return vm.log }

func (vm *VM) Tracer() avatrace.Tracer { return vm.tracer }

func (vm *VM) Rules() chain.Rules { return vm.rules }

func (vm *VM) ReadState() state.Immutable { return state.NewReader(vm.db) }

func (vm *VM) Gatherer() prometheus.Gatherer { return vm.gatherer }

func (vm *VM) Submit(ctx context.Context, tx *chain.Transaction) (*chain.Result, error) {
	if vm.closed.Load() {
		return nil, ErrClosed
	}
	vm.metrics.txsSubmitted.Inc()
	result, err := vm.processor.Submit(ctx, tx)
	if err != nil {
		vm.metrics.txsRejected.Inc()
		return nil, err
	}
	vm.metrics.eventHeight.Set(float64(vm.archive.Height()))
	return result, nil
}

func (vm *VM) GetTransaction(txID ids.ID) (bool, int64, bool, error) {
	return storage.GetTransaction(vm.db, txID)
}

func (vm *VM) Events(start uint64, limit int) ([]*event.Entry, uint64, error) {
	entries, err := vm.archive.Range(start, limit)
	if err != nil {
		return nil, 0, err
	}
	return entries, vm.archive.Height(), nil
}
