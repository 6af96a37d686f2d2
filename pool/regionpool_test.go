package pool_test

import (
	"errors"
	"testing"

	"github.com/momentics/hioload-gw/api"
	"github.com/momentics/hioload-gw/pool"
)

func TestRegionPoolReuse(t *testing.T) {
	p := pool.NewRegionPool()
	b1, err := p.Get(128)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if len(b1) < 128 {
		t.Fatalf("block too small: %d", len(b1))
	}
	p.Put(b1)

	b2, err := p.Get(64)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	// b2 should reuse the pooled block from the same size class.
	if len(b2) != len(b1) {
		t.Error("block not reused from size class")
	}
	if got := p.Stats().TotalAlloc; got != 1 {
		t.Errorf("TotalAlloc = %d, want 1", got)
	}
}

func TestRegionPoolRoundsUpToClass(t *testing.T) {
	p := pool.NewRegionPool()
	b, err := p.Get(300)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if len(b) != 1024 {
		t.Errorf("len = %d, want class size 1024", len(b))
	}
}

func TestRegionPoolOversizedBypassesPooling(t *testing.T) {
	p := pool.NewRegionPool()
	const huge = 2 * 1024 * 1024
	b, err := p.Get(huge)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if len(b) != huge {
		t.Errorf("len = %d, want exact %d", len(b), huge)
	}
	p.Put(b)
	if got := p.Stats().TotalFree; got != 0 {
		t.Errorf("oversized block pooled; TotalFree = %d", got)
	}
}

func TestRegionPoolNegativeSize(t *testing.T) {
	p := pool.NewRegionPool()
	if _, err := p.Get(-1); !errors.Is(err, api.ErrAllocation) {
		t.Errorf("expected allocation error, got %v", err)
	}
}

func TestRegionPoolStats(t *testing.T) {
	p := pool.NewRegionPool()
	b, _ := p.Get(512)
	s := p.Stats()
	if s.TotalAlloc != 1 || s.InUse != 1 {
		t.Errorf("Stats after Get: %+v", s)
	}
	p.Put(b)
	s = p.Stats()
	if s.TotalFree != 1 || s.InUse != 0 {
		t.Errorf("Stats after Put: %+v", s)
	}
}
