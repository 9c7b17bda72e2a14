package wisdom

import (
	"path/filepath"
	"testing"
)

func TestCache_RememberHas(t *testing.T) {
	c := NewCache()

	if c.Has([]int{10, 20}) {
		t.Fatal("fresh cache should not have any remembered size")
	}

	c.Remember([]int{10, 20})

	if !c.Has([]int{10, 20}) {
		t.Error("Has() = false after Remember()")
	}

	if c.Has([]int{10, 21}) {
		t.Error("Has() should not match a different size")
	}
}

func TestCache_SaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wisdom.json")

	c := NewCache()
	c.Remember([]int{128})
	c.Remember([]int{64, 64})

	if err := c.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !loaded.Has([]int{128}) || !loaded.Has([]int{64, 64}) {
		t.Error("loaded cache missing remembered sizes")
	}
}

func TestCache_LoadMissingFileIsEmpty(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for missing file", err)
	}

	if c.Has([]int{1}) {
		t.Error("empty cache should report no sizes remembered")
	}
}

func TestParsePlanType(t *testing.T) {
	tests := []struct {
		in   string
		want PlanType
	}{
		{"Measure", Measure},
		{"patient", Patient},
		{"Estimate", Estimate},
		{"wisdom-only", WisdomOnly},
	}
	for _, tt := range tests {
		got, err := ParsePlanType(tt.in)
		if err != nil {
			t.Fatalf("ParsePlanType(%q) error = %v", tt.in, err)
		}

		if got != tt.want {
			t.Errorf("ParsePlanType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParsePlanType("bogus"); err == nil {
		t.Error("expected error for unrecognized plan type")
	}
}
