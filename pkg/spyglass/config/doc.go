// Package config provides file-backed configuration for spyglass hosts.
//
// Settings form a flat map of dotted keys, loaded from YAML or JSON. Nested
// mappings flatten into dotted keys on load, so both spellings of
// "tracker.attribute" work. Components derive their options from a Config
// via spyglass.SpyOptionsFromConfig and track.OptionsFromConfig.
package config
