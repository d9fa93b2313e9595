// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: sources/registry_test.go
// Summary: Exercises source registration and resolution.
// Usage: Executed during `go test` to guard against regressions.

package sources

import (
	"errors"
	"fmt"
	"testing"

	"github.com/framegrace/scenecast/scene"
)

type seqGenerator struct {
	n int
}

func (g *seqGenerator) Next() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

func TestCreateAndResolve(t *testing.T) {
	reg := New(&seqGenerator{})

	src, err := reg.CreateSource("Camera", scene.KindInput, scene.Settings{"device": "/dev/video0"})
	if err != nil {
		t.Fatalf("CreateSource failed: %v", err)
	}
	got := reg.GetSource(src.ID)
	if got == nil || got.Name != "Camera" || got.Kind != scene.KindInput {
		t.Errorf("GetSource = %+v, want the registered camera", got)
	}

	// Resolution hands out copies, never the live record.
	got.Name = "mangled"
	if reg.GetSource(src.ID).Name != "Camera" {
		t.Error("mutating a resolved descriptor must not affect the registry")
	}
}

func TestGetSourceUnknown(t *testing.T) {
	reg := New(&seqGenerator{})
	if reg.GetSource("ghost") != nil {
		t.Error("GetSource(unknown) should return nil")
	}
}

func TestRegisterScene(t *testing.T) {
	reg := New(&seqGenerator{})
	src := reg.RegisterScene("scene-1", "Main")
	if src.ID != "scene-1" || src.Kind != scene.KindScene {
		t.Errorf("scene source = %+v, want scene kind under the scene id", src)
	}
	if got := reg.GetSource("scene-1"); got == nil || got.Kind != scene.KindScene {
		t.Errorf("resolution of scene source = %+v", got)
	}
}

func TestRemove(t *testing.T) {
	reg := New(&seqGenerator{})
	src, _ := reg.CreateSource("Camera", scene.KindInput, nil)

	if err := reg.Remove(src.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if reg.GetSource(src.ID) != nil {
		t.Error("removed source should not resolve")
	}
	if err := reg.Remove(src.ID); !errors.Is(err, scene.ErrNotFound) {
		t.Errorf("Remove(removed) = %v, want ErrNotFound", err)
	}
}

func TestListSortedByName(t *testing.T) {
	reg := New(&seqGenerator{})
	reg.CreateSource("Zebra", scene.KindMedia, nil)
	reg.CreateSource("Alpha", scene.KindInput, nil)

	list := reg.List()
	if len(list) != 2 || list[0].Name != "Alpha" || list[1].Name != "Zebra" {
		t.Errorf("List not sorted by name: %v, %v", list[0].Name, list[1].Name)
	}
	if reg.Count() != 2 {
		t.Errorf("Count = %d, want 2", reg.Count())
	}
}
