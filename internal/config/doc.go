// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for ollamamate.
//
// Configuration is TOML with sensible defaults, environment variable
// overrides, and validation.
//
// Precedence (lowest to highest):
//   - Built-in defaults
//   - ~/.ollamamate/config.toml
//   - OLLAMAMATE_HOST, OLLAMAMATE_MODEL, OLLAMAMATE_EXPORT_DIR environment
//     variables
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    // invalid file or failed validation
//	}
//	client := ollama.NewClientWithConfig(&ollama.ClientConfig{
//	    BaseURL:       cfg.Server.Host,
//	    StreamTimeout: cfg.Server.StreamTimeout(),
//	})
package config
