// Package config provides the keyed configuration source consumed by
// the HTTP service.
//
// Values are layered: built in defaults, then a config file (JSON,
// YAML or plist), then runtime overrides that can be persisted to a
// storage.Storage.  The handful of settings needed to find the config
// file at all are read from the environment.
package config
