// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Notifier hands committed entries to every subscription. Delivery happens
// after state is committed and its outcome never affects that state.
type Notifier struct {
	log  logging.Logger
	subs []Subscription[*Entry]

	delivered prometheus.Counter
	failed    prometheus.Counter
}

// NewNotifier delivers to [subs] in the order given, so an Archive placed
// first sequences each entry before later subscribers see it.
func NewNotifier(log logging.Logger, registry prometheus.Registerer, subs ...Subscription[*Entry]) (*Notifier, error) {
	n := &Notifier{
		log:  log,
		subs: subs,
		delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "event",
			Name:      "delivered",
			Help:      "number of event entries handed to subscribers",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "event",
			Name:      "failed",
			Help:      "number of event entries at least one subscriber rejected",
		}),
	}
	if registry != nil {
		for _, c := range []prometheus.Collector{n.delivered, n.failed} {
			if err := registry.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return n, nil
}

// Notify delivers [entries] in order. Subscriber errors are logged and
// counted.
func (n *Notifier) Notify(ctx context.Context, entries []*Entry) {
	for _, e := range entries {
		n.delivered.Inc()
		if err := NotifyAll(ctx, e, n.subs...); err != nil {
			n.failed.Inc()
			n.log.Warn("event subscriber failed",
				zap.Stringer("txID", e.TxID),
				zap.String("type", e.Record.EventName()),
				zap.Error(err),
			)
		}
	}
}

func (n *Notifier) Close() error {
	var errs []error
	for _, sub := range n.subs {
		if err := sub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
