package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
	"howett.net/plist"

	"github.com/the-maldridge/rackhttp/pkg/storage"
	"github.com/the-maldridge/rackhttp/pkg/types"
)

// NewConfig returns a config object with default values initialized.
// The config can be loaded from other sources to override the
// defaults.
func NewConfig() *Config {
	return &Config{
		values: map[string]interface{}{
			KeyRootDir: "./static/http",
			KeyAPIRoot: "/",
			KeyTimeout: 86400000,
			KeyEndpoints: []interface{}{
				map[string]interface{}{
					"address": "0.0.0.0",
					"port":    8080,
				},
			},
		},
		overrides: make(map[string]interface{}),
	}
}

// LoadBootstrap reads the bootstrap settings from the environment.
func LoadBootstrap() (*Bootstrap, error) {
	b := &Bootstrap{}
	if err := env.Parse(b); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return b, nil
}

// LoadFromFile does as the name suggests, and loads the config from a
// file.  The format is chosen by extension: .json, .yaml/.yml or
// .plist.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	loaded := make(map[string]interface{})
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &loaded)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	case ".plist":
		_, err = plist.Unmarshal(data, &loaded)
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range loaded {
		c.values[k] = v
	}
	return nil
}

// EnablePersistence attaches a store.  Overrides already in the store
// are loaded and take effect immediately.
func (c *Config) EnablePersistence(s storage.Storage) error {
	keys, err := s.Keys()
	if err != nil {
		return err
	}

	loaded := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		raw, err := s.Get(k)
		if err != nil {
			return err
		}
		if raw == nil {
			continue
		}
		var v interface{}
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("corrupt override %q: %w", k, err)
		}
		loaded[string(k)] = v
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = s
	for k, v := range loaded {
		c.overrides[k] = v
	}
	return nil
}

// Set overrides a single key, persisting the value if a store is
// attached.
func (c *Config) Set(key string, value interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.store != nil {
		raw, err := json.Marshal(value)
		if err != nil {
			return err
		}
		if err := c.store.Put([]byte(key), raw); err != nil {
			return err
		}
	}
	c.overrides[key] = value
	return nil
}

// Get returns the value for key, or def when it is unset.
func (c *Config) Get(key string, def interface{}) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if v, ok := c.overrides[key]; ok && v != nil {
		return v
	}
	if v, ok := c.values[key]; ok && v != nil {
		return v
	}
	return def
}

// GetString returns a string value, or def if the key is unset or not
// a string.
func (c *Config) GetString(key, def string) string {
	s, ok := c.Get(key, def).(string)
	if !ok {
		return def
	}
	return s
}

// GetInt returns an integer value.  Numbers of any decoded width are
// accepted, as are numeric strings; anything else yields def.
func (c *Config) GetInt(key string, def int) int {
	switch v := c.Get(key, def).(type) {
	case int:
		return v
	case int64:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return def
		}
		return int(i)
	case string:
		i, err := strconv.Atoi(v)
		if err != nil {
			return def
		}
		return i
	default:
		return def
	}
}

// All returns a copy of the merged configuration.
func (c *Config) All() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]interface{}, len(c.values)+len(c.overrides))
	for k, v := range c.values {
		out[k] = v
	}
	for k, v := range c.overrides {
		out[k] = v
	}
	return out
}

// Endpoints decodes the configured endpoint descriptors.
func (c *Config) Endpoints() ([]types.Descriptor, error) {
	raw, err := json.Marshal(c.Get(KeyEndpoints, []interface{}{}))
	if err != nil {
		return nil, err
	}

	var out []types.Descriptor
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("malformed %s: %w", KeyEndpoints, err)
	}
	return out, nil
}
