// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	oteltrace "go.opentelemetry.io/otel/trace"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		expectedErr error
	}{
		{
			name:   "disabled",
			config: Config{},
		},
		{
			name:   "enabled",
			config: Config{Enabled: true, Endpoint: DefaultEndpoint, SampleRate: 1, ServiceName: "test"},
		},
		{
			name:        "enabled without endpoint",
			config:      Config{Enabled: true},
			expectedErr: ErrMissingEndpoint,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			tracer, err := New(tt.config)
			require.ErrorIs(err, tt.expectedErr)
			if err != nil {
				return
			}
			_, span := tracer.Start(context.Background(), "span")
			span.End()
			require.NoError(tracer.Close())
		})
	}
}

func TestNoop(t *testing.T) {
	require := require.New(t)

	tracer := Noop()
	ctx, span := tracer.Start(context.Background(), "span")
	require.False(span.IsRecording())
	require.Equal(span, oteltrace.SpanFromContext(ctx))
	span.End()
	require.NoError(tracer.Close())
}
