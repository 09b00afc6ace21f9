// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/custodyvm/vm"
)

func TestSettings(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "nested", settingsFile)

	s, err := readSettings(path)
	require.NoError(err)
	require.Equal(&settings{Endpoint: defaultEndpoint}, s)

	s.Endpoint = "http://10.0.0.1:9650"
	s.KeyFile = "/keys/a.pk"
	require.NoError(writeSettings(path, s))

	loaded, err := readSettings(path)
	require.NoError(err)
	require.Equal(s, loaded)
}

func TestAmountArg(t *testing.T) {
	tests := []struct {
		arg      string
		expected uint64
		err      error
	}{
		{arg: "1.5", expected: 1_500_000_000},
		{arg: "raw:42", expected: 42},
		{arg: "raw:0", err: ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			require := require.New(t)

			amount, err := amountArg([]string{tt.arg}, 0, "amount")
			require.ErrorIs(err, tt.err)
			require.Equal(tt.expected, amount)
		})
	}
}

func TestPrometheusConfig(t *testing.T) {
	require := require.New(t)

	c, err := newPrometheusConfig("http://127.0.0.1:9650")
	require.NoError(err)
	b, err := yaml.Marshal(c)
	require.NoError(err)
	require.Contains(string(b), "127.0.0.1:9650")
	require.Contains(string(b), "metrics_path: "+vm.MetricsEndpoint)
}
