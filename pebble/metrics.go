// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsInterval = 10 * time.Second

type metrics struct {
	stallStart time.Time
	writeStall metric.Averager
	getLatency metric.Averager

	batchWrites prometheus.Counter
	batchBytes  prometheus.Counter

	l0Compactions     prometheus.Counter
	otherCompactions  prometheus.Counter
	activeCompactions prometheus.Gauge

	tombstones    prometheus.Gauge
	obsoleteBytes prometheus.Gauge
	zombieBytes   prometheus.Gauge
	walBytes      prometheus.Gauge
	diskUsage     prometheus.Gauge
}

func newGauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "pebble", Name: name, Help: help})
}

func newCounter(name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{Namespace: "pebble", Name: name, Help: help})
}

func newMetrics() (*prometheus.Registry, *metrics, error) {
	r := prometheus.NewRegistry()
	writeStall, err := metric.NewAverager(
		"pebble_write_stall",
		"time spent waiting for disk write",
		r,
	)
	if err != nil {
		return nil, nil, err
	}
	getLatency, err := metric.NewAverager(
		"pebble_read_latency",
		"time spent waiting for db get",
		r,
	)
	if err != nil {
		return nil, nil, err
	}
	m := &metrics{
		writeStall:        writeStall,
		getLatency:        getLatency,
		batchWrites:       newCounter("batch_writes", "number of committed batches"),
		batchBytes:        newCounter("batch_bytes", "key and value bytes committed through batches"),
		l0Compactions:     newCounter("l0_compactions", "number of l0 compactions"),
		otherCompactions:  newCounter("other_compactions", "number of l1+ compactions"),
		activeCompactions: newGauge("active_compactions", "number of active compactions"),
		tombstones:        newGauge("tombstone_count", "approximate count of internal tombstones"),
		obsoleteBytes:     newGauge("obsolete_table_size", "bytes in tables no longer referenced by the db"),
		zombieBytes:       newGauge("zombie_table_size", "bytes in unreferenced tables still held by iterators"),
		walBytes:          newGauge("obsolete_wal_size", "bytes in WAL files no longer needed by the db"),
		diskUsage:         newGauge("disk_usage", "total bytes used on disk"),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.batchWrites),
		r.Register(m.batchBytes),
		r.Register(m.l0Compactions),
		r.Register(m.otherCompactions),
		r.Register(m.activeCompactions),
		r.Register(m.tombstones),
		r.Register(m.obsoleteBytes),
		r.Register(m.zombieBytes),
		r.Register(m.walBytes),
		r.Register(m.diskUsage),
	)
	return r, m, errs.Err
}

func (db *Database) onCompactionBegin(info pebble.CompactionInfo) {
	db.metrics.activeCompactions.Inc()
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		db.metrics.l0Compactions.Inc()
	} else {
		db.metrics.otherCompactions.Inc()
	}
}

func (db *Database) onCompactionEnd(pebble.CompactionInfo) {
	db.metrics.activeCompactions.Dec()
}

func (db *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	db.metrics.stallStart = time.Now()
}

func (db *Database) onWriteStallEnd() {
	db.metrics.writeStall.Observe(float64(time.Since(db.metrics.stallStart)))
}

func (db *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			m := db.db.Metrics()
			db.metrics.tombstones.Set(float64(m.Keys.TombstoneCount))
			db.metrics.obsoleteBytes.Set(float64(m.Table.ObsoleteSize))
			db.metrics.zombieBytes.Set(float64(m.Table.ZombieSize))
			db.metrics.walBytes.Set(float64(m.WAL.ObsoletePhysicalSize))
			db.metrics.diskUsage.Set(float64(m.DiskSpaceUsage()))
		case <-db.closing:
			return
		}
	}
}
