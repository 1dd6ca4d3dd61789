// Package config provides configuration management for yamllist.
//
// Configuration is read from an optional YAML file, layered over built-in
// defaults, and overridden by environment variables.
//
// # Configuration Loading
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("yamllist.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("yamllist.yaml")
//
//  3. Without a file:
//     cfg, err := config.LoadOrDefault("")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention YAMLLIST_SECTION_FIELD:
//
//   - YAMLLIST_ENGINE_NAME overrides engine.name
//   - YAMLLIST_HISTORY_SQLITE_PATH overrides history.sqlite.path
//   - YAMLLIST_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Example Configuration
//
//	engine:
//	  name: native
//	  max_depth: 64
//
//	history:
//	  enabled: true
//	  backend: sqlite
//	  sqlite:
//	    path: data/history.db
//	  retention:
//	    days: 30
//	    schedule: "0 3 * * *"
//
//	server:
//	  listen_address: "127.0.0.1:8080"
//
//	telemetry:
//	  logging:
//	    level: info
//	    format: json
//
// # Thread Safety
//
// The global configuration (SetConfig, GetConfig, ReloadConfig) is guarded
// by a read-write lock.
package config
