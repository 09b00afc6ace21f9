// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	txsSubmitted prometheus.Counter
	txsRejected  prometheus.Counter
	eventHeight  prometheus.Gauge
}

func newMetrics(r prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		txsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "txs_submitted",
			Help:      "number of txs submitted over the api",
		}),
		txsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "txs_rejected",
			Help:      "number of submitted txs that were not committed",
		}),
		eventHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vm",
			Name:      "event_height",
			Help:      "number of archived events",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.txsSubmitted),
		r.Register(m.txsRejected),
		r.Register(m.eventHeight),
	)
	return m, errs.Err
}
