// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"strings"
	"time"
)

// ServerConfig is the remote authority configuration assembled from
// [StructuredConfig].
type ServerConfig struct {
	App     App
	Server  Server
	Storage DB
}

// IsPostgres reports whether the configured DSN points to PostgreSQL.
func (c DB) IsPostgres() bool {
	return strings.HasPrefix(c.DSN, "postgres://") || strings.HasPrefix(c.DSN, "postgresql://")
}

// GetServerConfig builds and validates the remote authority config view.
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := newServerConfig(cfg)

	return serverCfg, serverCfg.validate()
}

func newServerConfig(cfg *StructuredConfig) *ServerConfig {
	serverCfg := &ServerConfig{
		App:     cfg.App,
		Server:  cfg.Server,
		Storage: cfg.Storage.DB,
	}

	if serverCfg.Server.HTTPAddress == "" {
		serverCfg.Server.HTTPAddress = DefaultHTTPAddress
	}
	if serverCfg.Server.RequestTimeout == 0 {
		serverCfg.Server.RequestTimeout = 30 * time.Second
	}
	if serverCfg.Storage.DSN == "" {
		serverCfg.Storage.DSN = DefaultServerDSN
	}

	return serverCfg
}
