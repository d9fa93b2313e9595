// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config_test.go
// Summary: Exercises config loading, sections, and typed access.
// Usage: Executed during `go test` to guard against regressions.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenecast.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load of missing file failed: %v", err)
	}
	if got := s.GetBool("restore", "strict", false); got {
		t.Error("missing file should fall back to defaults")
	}
}

func TestLoadRejectsBrokenJSON(t *testing.T) {
	path := writeConfig(t, "{not json")
	if _, err := Load(path); err == nil {
		t.Error("broken JSON should fail to load")
	}
}

func TestTypedGetters(t *testing.T) {
	path := writeConfig(t, `{
		"restore":    {"strict": true},
		"compositor": {"fps": 30, "background": "black", "gain": "1.5"},
		"storage":    {"path": "/tmp/collection.db"}
	}`)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !s.GetBool("restore", "strict", false) {
		t.Error("GetBool missed restore.strict")
	}
	if got := s.GetInt("compositor", "fps", 60); got != 30 {
		t.Errorf("GetInt = %d, want 30", got)
	}
	if got := s.GetString("compositor", "background", ""); got != "black" {
		t.Errorf("GetString = %q, want black", got)
	}
	if got := s.GetFloat("compositor", "gain", 0); got != 1.5 {
		t.Errorf("GetFloat should coerce strings, got %v", got)
	}
	if got := s.GetString("storage", "path", "x"); got != "/tmp/collection.db" {
		t.Errorf("GetString = %q", got)
	}
	if got := s.GetInt("ghost", "missing", 7); got != 7 {
		t.Errorf("missing section should yield default, got %d", got)
	}
}

func TestRegisterDefaults(t *testing.T) {
	path := writeConfig(t, `{"compositor": {"fps": 30}}`)
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	s.RegisterDefaults("compositor", Section{"fps": 60, "background": "black"})
	if got := s.GetInt("compositor", "fps", 0); got != 30 {
		t.Errorf("defaults must not overwrite existing keys, got %d", got)
	}
	if got := s.GetString("compositor", "background", ""); got != "black" {
		t.Errorf("defaults should fill missing keys, got %q", got)
	}

	s.RegisterDefaults("restore", Section{"strict": false})
	if s.GetBool("restore", "strict", true) {
		t.Error("defaults should create missing sections")
	}
}
