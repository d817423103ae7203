package engcfg

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	contents := "hash_mb: 64\nmulti_pv: 3\ndefault_depth: 12\ndefault_move_time: 2500ms\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HashMB != 64 || cfg.MultiPV != 3 || cfg.DefaultDepth != 12 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.DefaultMoveTime != 2500*time.Millisecond {
		t.Fatalf("expected 2500ms, got %v", cfg.DefaultMoveTime)
	}
	// Fields the file omitted should keep their default.
	if cfg.Evaluator != EvaluatorMaterial {
		t.Fatalf("expected default evaluator to survive, got %q", cfg.Evaluator)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestValidateRejectsBadFields(t *testing.T) {
	cases := []Config{
		{HashMB: 0, Evaluator: EvaluatorMaterial, MultiPV: 1},
		{HashMB: 16, Evaluator: EvaluatorMaterial, MultiPV: 0},
		{HashMB: 16, Evaluator: "nnue", MultiPV: 1},
	}
	for _, c := range cases {
		if err := c.Validate(); err == nil {
			t.Fatalf("expected validation error for %+v", c)
		}
	}
}

func TestLimitsReflectsConfig(t *testing.T) {
	cfg := Default()
	cfg.DefaultDepth = 20
	cfg.DefaultMoveTime = time.Second
	l := cfg.Limits()
	if l.Depth != 20 || l.MoveTime != time.Second {
		t.Fatalf("unexpected limits: %+v", l)
	}
}
