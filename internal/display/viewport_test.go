package display

import (
	"errors"
	"testing"
)

func TestUnion(t *testing.T) {
	tests := []struct {
		name     string
		displays []Display
		want     Area
	}{
		{"none", nil, Area{}},
		{"single", []Display{{WorkArea: Area{0, 0, 1920, 1040}}}, Area{0, 0, 1920, 1040}},
		{
			"side by side, different heights",
			[]Display{
				{WorkArea: Area{0, 0, 1920, 1080}},
				{WorkArea: Area{1920, 0, 1280, 1024}},
			},
			Area{0, 0, 3200, 1080},
		},
		{
			"monitor left of and above primary",
			[]Display{
				{WorkArea: Area{0, 0, 1920, 1080}},
				{WorkArea: Area{-1280, -200, 1280, 1024}},
			},
			Area{-1280, -200, 3200, 1280},
		},
		{
			"empty work area ignored",
			[]Display{
				{WorkArea: Area{0, 0, 800, 600}},
				{WorkArea: Area{5000, 5000, 0, 0}},
			},
			Area{0, 0, 800, 600},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Union(tt.displays)
			if got != tt.want {
				t.Fatalf("Union = %v, want %v", got, tt.want)
			}
			for _, d := range tt.displays {
				if !d.WorkArea.Empty() && !got.Contains(d.WorkArea) {
					t.Errorf("viewport %v does not contain %v", got, d.WorkArea)
				}
			}
			if got.Width < 0 || got.Height < 0 {
				t.Errorf("negative size %v", got)
			}
		})
	}
}

func TestTracker_RecomputeShrinksOnRemoval(t *testing.T) {
	displays := []Display{
		{Name: "left", WorkArea: Area{0, 0, 1920, 1080}},
		{Name: "right", WorkArea: Area{1920, 0, 1280, 1024}},
	}
	tr := NewTracker(SourceFunc(func() ([]Display, error) { return displays, nil }))

	if got := tr.Recompute(); got != (Area{0, 0, 3200, 1080}) {
		t.Fatalf("initial viewport %v", got)
	}
	displays = displays[:1]
	if got := tr.Recompute(); got != (Area{0, 0, 1920, 1080}) {
		t.Fatalf("viewport after removal %v", got)
	}
	if n := len(tr.Displays()); n != 1 {
		t.Errorf("Displays() len %d after removal, want 1", n)
	}
	displays = nil
	if got := tr.Recompute(); !got.Empty() {
		t.Fatalf("viewport with no displays %v, want empty", got)
	}
	if n := len(tr.Displays()); n != 0 {
		t.Errorf("Displays() len %d with no displays, want 0", n)
	}
}

func TestTracker_ErrorKeepsViewport(t *testing.T) {
	fail := false
	tr := NewTracker(SourceFunc(func() ([]Display, error) {
		if fail {
			return nil, errors.New("monitor query failed")
		}
		return []Display{{WorkArea: Area{0, 0, 640, 480}}}, nil
	}))
	tr.Recompute()
	fail = true
	if got := tr.Recompute(); got != (Area{0, 0, 640, 480}) {
		t.Errorf("viewport after error %v, want previous", got)
	}
	if n := len(tr.Displays()); n != 1 {
		t.Errorf("Displays() len %d, want 1", n)
	}
}

func TestTracker_NilSource(t *testing.T) {
	tr := NewTracker(nil)
	if got := tr.Recompute(); !got.Empty() {
		t.Errorf("nil source viewport %v", got)
	}
}
