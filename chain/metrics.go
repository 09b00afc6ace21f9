// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type chainMetrics struct {
	txsAccepted *prometheus.CounterVec
	txsFailed   *prometheus.CounterVec
	txsRejected prometheus.Counter

	stateChanges prometheus.Counter
	lockedKeys   prometheus.Gauge

	waitSignatures metric.Averager
	waitLocks      metric.Averager
	execute        metric.Averager
}

func newMetrics(r prometheus.Registerer) (*chainMetrics, error) {
	waitSignatures, err := metric.NewAverager(
		"chain_wait_signatures",
		"time spent verifying transaction signatures",
		r,
	)
	if err != nil {
		return nil, err
	}
	waitLocks, err := metric.NewAverager(
		"chain_wait_locks",
		"time spent waiting for state key locks",
		r,
	)
	if err != nil {
		return nil, err
	}
	execute, err := metric.NewAverager(
		"chain_execute",
		"time spent loading, executing and committing a transaction",
		r,
	)
	if err != nil {
		return nil, err
	}

	m := &chainMetrics{
		txsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_accepted",
			Help:      "number of transactions committed",
		}, []string{"action"}),
		txsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_failed",
			Help:      "number of transactions whose action failed",
		}, []string{"action", "kind"}),
		txsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "txs_rejected",
			Help:      "number of transactions rejected before execution",
		}),
		stateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chain",
			Name:      "state_changes",
			Help:      "number of state keys written or deleted",
		}),
		lockedKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "chain",
			Name:      "locked_keys",
			Help:      "number of state keys currently locked",
		}),
		waitSignatures: waitSignatures,
		waitLocks:      waitLocks,
		execute:        execute,
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.txsAccepted),
		r.Register(m.txsFailed),
		r.Register(m.txsRejected),
		r.Register(m.stateChanges),
		r.Register(m.lockedKeys),
	)
	return m, errs.Err
}
