package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Backend != BackendVM {
		t.Errorf("expected default backend VM, got %s", cfg.Backend)
	}
	if cfg.StackSize != 2048 || cfg.FrameSize != 1024 || cfg.GlobalsSize != 65535 {
		t.Errorf("unexpected default limits: %+v", cfg)
	}
}

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "sproutrc.yaml"))
	if err != nil {
		t.Fatalf("missing file should not be an error, got %s", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("expected Default() when sproutrc.yaml is missing, got %+v", cfg)
	}
}

func TestLoadOverridesOnlySetFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sproutrc.yaml")
	contents := "backend: tree\nstack_size: 4096\ndisable_builtins: [puts]\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %s", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %s", err)
	}
	if cfg.Backend != BackendTree {
		t.Errorf("expected backend tree, got %s", cfg.Backend)
	}
	if cfg.StackSize != 4096 {
		t.Errorf("expected overridden stack_size 4096, got %d", cfg.StackSize)
	}
	if cfg.FrameSize != 1024 {
		t.Errorf("expected untouched default frame_size 1024, got %d", cfg.FrameSize)
	}
	if !cfg.Disabled("puts") {
		t.Errorf("expected puts to be disabled")
	}
	if cfg.Disabled("len") {
		t.Errorf("did not expect len to be disabled")
	}
}
