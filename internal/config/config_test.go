package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileYieldsZeroConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Files) != 0 {
		t.Errorf("expected zero config, got %+v", cfg)
	}
}

func TestLoadParsesAssumptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".ccforest.yaml")
	content := "files:\n  - src/a.c\nassume:\n  - define: LINUX\n  - condition: \"A && !B\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Files) != 1 || cfg.Files[0] != "src/a.c" {
		t.Errorf("files = %v, want [src/a.c]", cfg.Files)
	}
	if len(cfg.Assume) != 2 || cfg.Assume[0].Define != "LINUX" || cfg.Assume[1].Condition != "A && !B" {
		t.Errorf("assume = %+v", cfg.Assume)
	}
}

func TestCacheRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".ccforest-cache.yaml")

	c := &Cache{Entries: map[string]CacheEntry{
		"a.c": {Digest: "deadbeef", OptionKey: "t=|f=|fmt=text|long=false|each=false", Lines: []string{"a.c:1: foo"}},
	}}
	if err := c.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadCache(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	entry := loaded.Entries["a.c"]
	if entry.Digest != "deadbeef" || entry.OptionKey != "t=|f=|fmt=text|long=false|each=false" {
		t.Errorf("entry = %+v", entry)
	}
	if len(entry.Lines) != 1 || entry.Lines[0] != "a.c:1: foo" {
		t.Errorf("lines = %v", entry.Lines)
	}
}

func TestLoadCacheMissingFileReturnsEmpty(t *testing.T) {
	loaded, err := LoadCache(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Entries == nil || len(loaded.Entries) != 0 {
		t.Errorf("entries = %v, want empty map", loaded.Entries)
	}
}
