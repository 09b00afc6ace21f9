// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"errors"
)

var _ Subscription[struct{}] = (*SubscriptionFunc[struct{}])(nil)

// Subscription consumes committed entries.
//
//go:generate mockgen -source=event.go -destination=eventmock/subscription.go -package=eventmock
type Subscription[T any] interface {
	// Accept returns fatal errors
	Accept(ctx context.Context, t T) error
	// Close returns fatal errors
	Close() error
}

// SubscriptionFunc adapts plain functions to a Subscription. CloseF may be
// nil.
type SubscriptionFunc[T any] struct {
	AcceptF func(ctx context.Context, t T) error
	CloseF  func() error
}

func (s SubscriptionFunc[T]) Accept(ctx context.Context, t T) error {
	return s.AcceptF(ctx, t)
}

func (s SubscriptionFunc[_]) Close() error {
	if s.CloseF == nil {
		return nil
	}
	return s.CloseF()
}

// NotifyAll delivers [e] to every subscription, even if an earlier one fails.
func NotifyAll[T any](ctx context.Context, e T, subs ...Subscription[T]) error {
	var errs []error
	for _, sub := range subs {
		if err := sub.Accept(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
