package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[project]
name = "demo"

[run]
trace = true
disassemble = true

[log]
verbosity = 2
file = "lox.log"
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if c.Project.Name != "demo" {
		t.Errorf("project name = %q, want demo", c.Project.Name)
	}
	if !c.Run.Trace {
		t.Error("run trace = false, want true")
	}
	if !c.Run.Disassemble {
		t.Error("run disassemble = false, want true")
	}
	if c.Log.Verbosity != 2 {
		t.Errorf("log verbosity = %d, want 2", c.Log.Verbosity)
	}
	abs, _ := filepath.Abs(dir)
	if c.Dir != abs {
		t.Errorf("Dir = %q, want %q", c.Dir, abs)
	}
	if got, want := c.LogPath(), filepath.Join(abs, "lox.log"); got != want {
		t.Errorf("LogPath() = %q, want %q", got, want)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[project]
name = "minimal"
`)

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Run.Trace || c.Run.Disassemble {
		t.Errorf("run = %+v, want all false", c.Run)
	}
	if c.Log.Verbosity != 0 {
		t.Errorf("log verbosity = %d, want 0", c.Log.Verbosity)
	}
	if c.LogPath() != "" {
		t.Errorf("LogPath() = %q, want empty", c.LogPath())
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[run]
trce = true
`)

	_, err := Load(dir)
	if err == nil || !strings.Contains(err.Error(), "run.trce") {
		t.Errorf("Load error = %v, want unknown key run.trce", err)
	}
}

func TestLoadConfigParseError(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[run\ntrace = ")

	if _, err := Load(dir); err == nil || !strings.Contains(err.Error(), "parse error") {
		t.Errorf("Load error = %v, want parse error", err)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	if _, err := Load(t.TempDir()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load error = %v, want os.ErrNotExist", err)
	}
}

func TestFindAndLoad(t *testing.T) {
	dir := t.TempDir()
	subDir := filepath.Join(dir, "a", "b", "c")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, dir, `[project]
name = "found-project"
`)

	// Should find the config when starting from a deep subdirectory
	c, err := FindAndLoad(subDir)
	if err != nil {
		t.Fatalf("FindAndLoad failed: %v", err)
	}
	if c == nil {
		t.Fatal("FindAndLoad returned nil")
	}
	if c.Project.Name != "found-project" {
		t.Errorf("project name = %q, want found-project", c.Project.Name)
	}
}

func TestFindAndLoadNotFound(t *testing.T) {
	dir := t.TempDir()
	c, err := FindAndLoad(dir)
	if err != nil {
		t.Fatalf("FindAndLoad error: %v", err)
	}
	if c != nil {
		t.Error("expected nil config when no lox.toml exists")
	}
}

func TestLogPathAbsolute(t *testing.T) {
	c := &Config{Dir: "/app", Log: Log{File: "/var/log/lox.log"}}
	if got := c.LogPath(); got != "/var/log/lox.log" {
		t.Errorf("LogPath() = %q, want /var/log/lox.log", got)
	}
	c = Default()
	c.Log.File = "rel.log"
	if got := c.LogPath(); got != "rel.log" {
		t.Errorf("Default LogPath() = %q, want rel.log", got)
	}
}
