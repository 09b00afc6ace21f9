// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

const (
	Name            = "custody"
	JSONRPCEndpoint = "/custodyapi"
	StreamEndpoint  = "/custodyws"

	// MaxEventsPerRequest caps a single events page.
	MaxEventsPerRequest = 1_024
)

// Account kinds accepted by deriveAddress.
const (
	FundKind    = "fund"
	RequestKind = "request"
	VaultKind   = "vault"
)
