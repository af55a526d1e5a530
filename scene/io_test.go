package scene

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/voxray/voxray/tracer"
)

func TestCheckpointRoundTrip(t *testing.T) {
	s, err := New([3]int{3, 4, 5}, tracer.Box{Min: r3.Vec{X: -2, Y: -1, Z: 0}, Max: r3.Vec{X: 2, Y: 3, Z: 4}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rng := rand.New(rand.NewSource(9))
	for i := range s.Density.Data.Elements {
		s.Density.Data.Elements[i] = rng.NormFloat64()
	}
	for i := range s.Color.Data.Elements {
		s.Color.Data.Elements[i] = rng.NormFloat64()
	}

	path := filepath.Join(t.TempDir(), "scene.vxrc")
	if err = s.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if loaded.Res() != s.Res() {
		t.Fatalf("expected resolution %v; got %v", s.Res(), loaded.Res())
	}
	if loaded.Bounds != s.Bounds {
		t.Fatalf("expected bounds %+v; got %+v", s.Bounds, loaded.Bounds)
	}
	for i, v := range s.Density.Data.Elements {
		if loaded.Density.Data.Elements[i] != v {
			t.Fatalf("density element %d: expected %g; got %g", i, v, loaded.Density.Data.Elements[i])
		}
	}
	for i, v := range s.Color.Data.Elements {
		if loaded.Color.Data.Elements[i] != v {
			t.Fatalf("color element %d: expected %g; got %g", i, v, loaded.Color.Data.Elements[i])
		}
	}
}

func TestLoadRejectsForeignFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.bin")
	if err := os.WriteFile(path, []byte("definitely not a checkpoint"), 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := Load(path); !errors.Is(err, ErrBadCheckpoint) {
		t.Fatalf("expected ErrBadCheckpoint; got %v", err)
	}
}

func TestLoadRejectsCorruptedPayload(t *testing.T) {
	s, err := New([3]int{2, 2, 2}, tracer.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "scene.vxrc")
	if err = s.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw[len(raw)-1] ^= 0xff
	if err = os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err = Load(path); !errors.Is(err, ErrBadCheckpoint) {
		t.Fatalf("expected ErrBadCheckpoint after payload corruption; got %v", err)
	}
}

func TestLoadRejectsUnknownVersion(t *testing.T) {
	s, err := New([3]int{2, 2, 2}, tracer.Box{Min: r3.Vec{X: -1, Y: -1, Z: -1}, Max: r3.Vec{X: 1, Y: 1, Z: 1}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	path := filepath.Join(t.TempDir(), "scene.vxrc")
	if err = s.Save(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	raw[4] = 99
	if err = os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err = Load(path); !errors.Is(err, ErrBadCheckpoint) {
		t.Fatalf("expected ErrBadCheckpoint for unknown version; got %v", err)
	}
}
