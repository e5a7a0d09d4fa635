// Package config provides layered configuration for vinilla.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  5. Overrides (flags)       │  ← Highest priority
//	├─────────────────────────────┤
//	│  4. Environment Variables   │  ← VINILLA_*
//	├─────────────────────────────┤
//	│  3. Env File                │  ← .env
//	├─────────────────────────────┤
//	│  2. Config File             │  ← vinilla.toml or vinilla.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Basic Usage
//
//	cfg := config.New(config.WithConfigFile("vinilla.toml"))
//	if err := cfg.Load(ctx); err != nil {
//		return err
//	}
//	session, err := terminal.New(cfg.TerminalOptions())
//
// Section accessors (Terminal, Parser, Logging, Replay) return snapshot
// structs filled from the merged layers. A value of the wrong type falls
// back to the default and is reported by Validate.
package config
