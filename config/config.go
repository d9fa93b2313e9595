// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: JSON-backed configuration store with sectioned, typed access.
// Usage: Construct a store explicitly and pass it to whoever needs settings; no package state.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
)

// Config stores configuration sections as JSON-compatible data.
type Config map[string]interface{}

// Section stores key/value pairs for a configuration section.
type Section map[string]interface{}

// Store holds one loaded configuration file.
type Store struct {
	mu   sync.RWMutex
	path string
	data Config
}

// Load reads the configuration at path. A missing file yields an empty
// store; any other read or parse failure is an error.
func Load(path string) (*Store, error) {
	s := &Store{path: path, data: make(Config)}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Printf("Config: No config at %s, using defaults", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return s, nil
}

// Section returns the named section or nil if missing.
func (s *Store) Section(sectionName string) Section {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.section(sectionName)
}

func (c Config) section(sectionName string) Section {
	if c == nil {
		return nil
	}
	if sectionName == "" {
		return Section(c)
	}
	if raw, ok := c[sectionName]; ok {
		switch v := raw.(type) {
		case Section:
			return v
		case map[string]interface{}:
			return Section(v)
		}
	}
	return nil
}

// RegisterDefaults ensures a section has defaults without overwriting
// existing keys.
func (s *Store) RegisterDefaults(sectionName string, defaults Section) {
	if defaults == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	section := s.data.section(sectionName)
	if section == nil {
		section = make(Section)
		s.data[sectionName] = section
	}
	for key, value := range defaults {
		if _, ok := section[key]; !ok {
			section[key] = value
		}
	}
}

// GetString retrieves a string value from the config.
func (s *Store) GetString(sectionName, key, defaultValue string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	section := s.data.section(sectionName)
	if section == nil {
		return defaultValue
	}
	if val, ok := section[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return defaultValue
}

// GetInt retrieves an integer value from the config.
func (s *Store) GetInt(sectionName, key string, defaultValue int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	section := s.data.section(sectionName)
	if section == nil {
		return defaultValue
	}
	if val, ok := section[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case float64:
			return int(v)
		case json.Number:
			if parsed, err := v.Int64(); err == nil {
				return int(parsed)
			}
		case string:
			if parsed, err := strconv.Atoi(v); err == nil {
				return parsed
			}
		}
	}
	return defaultValue
}

// GetFloat retrieves a float value from the config.
func (s *Store) GetFloat(sectionName, key string, defaultValue float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	section := s.data.section(sectionName)
	if section == nil {
		return defaultValue
	}
	if val, ok := section[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case json.Number:
			if parsed, err := v.Float64(); err == nil {
				return parsed
			}
		case string:
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed
			}
		}
	}
	return defaultValue
}

// GetBool retrieves a boolean value from the config.
func (s *Store) GetBool(sectionName, key string, defaultValue bool) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	section := s.data.section(sectionName)
	if section == nil {
		return defaultValue
	}
	if val, ok := section[key]; ok {
		switch v := val.(type) {
		case bool:
			return v
		case string:
			if parsed, err := strconv.ParseBool(v); err == nil {
				return parsed
			}
		}
	}
	return defaultValue
}
