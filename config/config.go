// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"reflect"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/caarlos0/env/v11"

	"github.com/ava-labs/custodyvm/pebble"
	"github.com/ava-labs/custodyvm/pubsub"
	"github.com/ava-labs/custodyvm/server"
	"github.com/ava-labs/custodyvm/trace"
)

// EnvPrefix namespaces the environment variables that override the JSON
// config, e.g. CUSTODYVM_HTTP_ADDRESS or CUSTODYVM_TRACE_ENABLED.
const EnvPrefix = "CUSTODYVM_"

var (
	ErrInvalidValidityWindow = errors.New("validity window must be positive")
	ErrInvalidMaxSigners     = errors.New("max signers must be between 1 and 255")
)

type Config struct {
	// Logging
	LogLevel     logging.Level `json:"logLevel" env:"LOG_LEVEL"`
	LogFile      string        `json:"logFile" env:"LOG_FILE"`
	LogMaxSizeMB int           `json:"logMaxSizeMB" env:"LOG_MAX_SIZE_MB"`
	LogMaxFiles  int           `json:"logMaxFiles" env:"LOG_MAX_FILES"`

	// Storage
	DataDir string        `json:"dataDir" env:"DATA_DIR"`
	Pebble  pebble.Config `json:"pebble" envPrefix:"PEBBLE_"`

	// GenesisFile is read on first start when the database holds no genesis.
	GenesisFile string `json:"genesisFile" env:"GENESIS_FILE"`

	HTTP   server.Config `json:"http" envPrefix:"HTTP_"`
	Stream pubsub.Config `json:"stream" envPrefix:"STREAM_"`

	// Rules. An empty ChainID is replaced by the genesis id.
	ChainID                 ids.ID `json:"chainID" env:"CHAIN_ID"`
	ValidityWindow          int64  `json:"validityWindow" env:"VALIDITY_WINDOW"`
	MaxSigners              int    `json:"maxSigners" env:"MAX_SIGNERS"`
	EnforceRequestRecipient bool   `json:"enforceRequestRecipient" env:"ENFORCE_REQUEST_RECIPIENT"`

	Trace trace.Config `json:"trace" envPrefix:"TRACE_"`
}

func NewDefaultConfig() *Config {
	return &Config{
		LogLevel:                logging.Info,
		LogMaxSizeMB:            64,
		LogMaxFiles:             4,
		DataDir:                 ".custodyvm",
		Pebble:                  pebble.NewDefaultConfig(),
		HTTP:                    server.NewDefaultConfig(),
		Stream:                  pubsub.NewDefaultConfig(),
		ValidityWindow:          60_000,
		MaxSigners:              16,
		EnforceRequestRecipient: true,
		Trace:                   trace.DefaultConfig(),
	}
}

// New decodes [b] over the defaults and then applies environment overrides.
func New(b []byte) (*Config, error) {
	return load(b, nil)
}

// load reads overrides from [environment] instead of the process
// environment when it is non-nil.
func load(b []byte, environment map[string]string) (*Config, error) {
	c := NewDefaultConfig()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, err
		}
	}
	opts := env.Options{
		Prefix:      EnvPrefix,
		Environment: environment,
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(logging.Level(0)): func(v string) (interface{}, error) {
				return logging.ToLevel(v)
			},
		},
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return nil, err
	}
	return c, c.Verify()
}

func (c *Config) Verify() error {
	if c.ValidityWindow <= 0 {
		return ErrInvalidValidityWindow
	}
	if c.MaxSigners < 1 || c.MaxSigners > 255 {
		return ErrInvalidMaxSigners
	}
	return c.Stream.Verify()
}
