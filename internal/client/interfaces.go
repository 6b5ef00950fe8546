// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"io"
)

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run(ctx context.Context) error
}

// UI is the interactive front end. Run blocks until the user quits.
type UI interface {
	Run(ctx context.Context) error
}

// BackgroundRunner runs background jobs until ctx is cancelled.
type BackgroundRunner interface {
	Run(ctx context.Context)
}

// BoardLoader fills the in-memory board from durable storage.
type BoardLoader interface {
	Load(ctx context.Context) error
}

// Resource is anything the app has to release on exit.
type Resource = io.Closer
