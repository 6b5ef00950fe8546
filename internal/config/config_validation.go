// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks that the final merged [StructuredConfig] satisfies the
// invariants shared by both binaries. Per-binary rules live on the views.
func (cfg *StructuredConfig) validate() error {
	if cfg.Server.FailureRate < 0 || cfg.Server.FailureRate > 1 {
		return ErrInvalidServerConfigs
	}
	if cfg.Workers.MaxMergeRetries < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.SyncInterval <= 0 || cfg.Workers.ProbeInterval <= 0 || cfg.Workers.MaxMergeRetries < 1 {
		return ErrInvalidWorkerConfigs
	}

	if cfg.App.LogFile == "" {
		return ErrInvalidAppConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.Storage.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 || cfg.Server.Latency < 0 {
		return ErrInvalidServerConfigs
	}

	return nil
}
