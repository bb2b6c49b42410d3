// Package config loads the ksreactive runner configuration.
//
// Configuration comes from three layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← KSREACTIVE_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ksreactive.toml / ksreactive.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Default()
//	└─────────────────────────────┘
//
// Each layer is read into a map by the loader sub-package, the maps are
// deep-merged, and the result is decoded into a Config.
//
// # Configuration Files
//
// TOML:
//
//	workspace = "."
//	scripts = ["plugins/status.lua"]
//
//	[log]
//	level = "debug"
//
//	[watch]
//	patterns = ["**/*.go", "go.mod"]
//	ignoreDelete = false
//	debounce = "100ms"
//	ignore = ["vendor/"]
//
//	[context]
//	"ksreactive.active" = true
//
// YAML files use the same keys.
//
// # Environment Variables
//
//	KSREACTIVE_LOG_LEVEL      log.level
//	KSREACTIVE_WORKSPACE      workspace
//	KSREACTIVE_WATCH          watch.patterns (comma separated)
//	KSREACTIVE_DEBOUNCE       watch.debounce
//	KSREACTIVE_IGNORE_CREATE  watch.ignoreCreate
//	KSREACTIVE_IGNORE_CHANGE  watch.ignoreChange
//	KSREACTIVE_IGNORE_DELETE  watch.ignoreDelete
//	KSREACTIVE_SCRIPTS        scripts (comma separated)
//
// Other KSREACTIVE_ variables map to dotted paths, so
// KSREACTIVE_CONTEXT_IS_READY sets context.isReady.
package config
