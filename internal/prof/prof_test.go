package prof

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSessionWritesProfiles(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{
		CPU:   filepath.Join(dir, "cpu.pprof"),
		Mem:   filepath.Join(dir, "mem.pprof"),
		Trace: filepath.Join(dir, "trace.out"),
	}
	s, err := Start(cfg)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	for _, p := range []string{cfg.CPU, cfg.Mem, cfg.Trace} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("missing %s: %v", p, err)
		}
		if info.Size() == 0 && p == cfg.Mem {
			t.Fatalf("empty heap profile")
		}
	}
}

func TestDisabledConfig(t *testing.T) {
	if (Config{}).Enabled() {
		t.Fatalf("empty config must be disabled")
	}
	var s *Session
	if err := s.Stop(); err != nil {
		t.Fatalf("nil session stop: %v", err)
	}
}

func TestStartFailsOnBadPath(t *testing.T) {
	if _, err := Start(Config{CPU: filepath.Join(t.TempDir(), "missing", "cpu.pprof")}); err == nil {
		t.Fatalf("expected error")
	}
}
