// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/custodyvm/pubsub"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		json        string
		env         map[string]string
		check       func(*require.Assertions, *Config)
		expectedErr error
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			check: func(require *require.Assertions, c *Config) {
				require.Equal(logging.Info, c.LogLevel)
				require.True(c.EnforceRequestRecipient)
				require.True(c.Rules().EnforceRequestRecipient())
				require.Equal(int64(60_000), c.Rules().GetValidityWindow())
			},
		},
		{
			name: "json",
			json: `{"logLevel":"debug","enforceRequestRecipient":false,"maxSigners":2,"trace":{"enabled":true}}`,
			env:  map[string]string{},
			check: func(require *require.Assertions, c *Config) {
				require.Equal(logging.Debug, c.LogLevel)
				require.False(c.Rules().EnforceRequestRecipient())
				require.Equal(2, c.Rules().GetMaxSigners())
				require.True(c.Trace.Enabled)
				require.NotEmpty(c.Trace.Endpoint)
			},
		},
		{
			name: "environment overrides json",
			json: `{"http":{"address":"0.0.0.0:1"}}`,
			env: map[string]string{
				"CUSTODYVM_HTTP_ADDRESS":              "127.0.0.1:2",
				"CUSTODYVM_LOG_LEVEL":                 "warn",
				"CUSTODYVM_ENFORCE_REQUEST_RECIPIENT": "false",
				"CUSTODYVM_PEBBLE_SYNC":               "false",
				"CUSTODYVM_TRACE_SAMPLE_RATE":         "0.5",
				"CUSTODYVM_STREAM_PONG_WAIT":          "30s",
			},
			check: func(require *require.Assertions, c *Config) {
				require.Equal("127.0.0.1:2", c.HTTP.Address)
				require.Equal(logging.Warn, c.LogLevel)
				require.False(c.EnforceRequestRecipient)
				require.False(c.Pebble.Sync)
				require.Equal(0.5, c.Trace.SampleRate)
				require.Equal(30*time.Second, c.Stream.PongWait)
			},
		},
		{
			name:        "invalid window",
			json:        `{"validityWindow":0}`,
			env:         map[string]string{},
			expectedErr: ErrInvalidValidityWindow,
		},
		{
			name:        "invalid signers",
			env:         map[string]string{"CUSTODYVM_MAX_SIGNERS": "300"},
			expectedErr: ErrInvalidMaxSigners,
		},
		{
			name:        "invalid stream timeouts",
			env:         map[string]string{"CUSTODYVM_STREAM_PONG_WAIT": "1s"},
			expectedErr: pubsub.ErrInvalidPongWait,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			c, err := load([]byte(tt.json), tt.env)
			require.ErrorIs(err, tt.expectedErr)
			if tt.check != nil {
				tt.check(require, c)
			}
		})
	}
}
