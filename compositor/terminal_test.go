// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: compositor/terminal_test.go
// Summary: Exercises the terminal renderer against a stub screen driver.
// Usage: Executed during `go test` to guard against regressions.

package compositor

import (
	"testing"

	"github.com/framegrace/scenecast/scene"
	"github.com/gdamore/tcell/v2"
)

type stubDriver struct {
	width, height int
	initCalled    bool
	finiCalled    bool
	showCount     int
	content       map[[2]int]rune
}

func (s *stubDriver) Init() error {
	s.initCalled = true
	return nil
}

func (s *stubDriver) Fini() {
	s.finiCalled = true
}

func (s *stubDriver) Size() (int, int) {
	if s.width == 0 {
		s.width = 80
	}
	if s.height == 0 {
		s.height = 24
	}
	return s.width, s.height
}

func (s *stubDriver) SetStyle(style tcell.Style) {}

func (s *stubDriver) HideCursor() {}

func (s *stubDriver) Show() {
	s.showCount++
}

func (s *stubDriver) PollEvent() tcell.Event { return nil }

func (s *stubDriver) SetContent(x, y int, mainc rune, combc []rune, style tcell.Style) {
	if s.content == nil {
		s.content = make(map[[2]int]rune)
	}
	s.content[[2]int{x, y}] = mainc
}

func (s *stubDriver) textAt(x, y, length int) string {
	out := make([]rune, 0, length)
	for i := 0; i < length; i++ {
		ch, ok := s.content[[2]int{x + i, y}]
		if !ok {
			ch = ' '
		}
		out = append(out, ch)
	}
	return string(out)
}

type fakeView struct {
	names  map[string]string
	active map[string]string
	items  map[string][]scene.ItemSnapshot
}

func (v *fakeView) SceneName(sceneID string) (string, bool) {
	name, ok := v.names[sceneID]
	return name, ok
}

func (v *fakeView) ActiveItemID(sceneID string) string {
	return v.active[sceneID]
}

func (v *fakeView) SceneItems(sceneID string) []scene.ItemSnapshot {
	return v.items[sceneID]
}

func unitItem(id, sourceID string) scene.ItemSnapshot {
	return scene.ItemSnapshot{
		ItemID:   id,
		SourceID: sourceID,
		Scale:    scene.Vec2{X: 1, Y: 1},
		Visible:  true,
	}
}

func TestDrawTitleAndPlacement(t *testing.T) {
	driver := &stubDriver{}
	r := NewRenderer(driver)
	view := &fakeView{
		names: map[string]string{"s1": "Main"},
		items: map[string][]scene.ItemSnapshot{
			"s1": {unitItem("i1", "cam")},
		},
	}

	r.Draw(view, "s1")

	if got := driver.textAt(0, 0, 11); got != "Scene: Main" {
		t.Errorf("title = %q, want %q", got, "Scene: Main")
	}
	if driver.content[[2]int{0, 1}] != '┌' {
		t.Errorf("top-left corner = %q, want box corner", driver.content[[2]int{0, 1}])
	}
	if got := driver.textAt(1, 1, 3); got != "cam" {
		t.Errorf("label = %q, want source id", got)
	}
	if driver.showCount != 1 {
		t.Errorf("Show called %d times, want 1", driver.showCount)
	}
}

func TestDrawTopmostPaintsLast(t *testing.T) {
	driver := &stubDriver{}
	r := NewRenderer(driver)
	view := &fakeView{
		names: map[string]string{"s1": "Main"},
		items: map[string][]scene.ItemSnapshot{
			// Stacking order: "top" first (topmost), both at the origin.
			"s1": {unitItem("top", "winner"), unitItem("bottom", "loser")},
		},
	}

	r.Draw(view, "s1")

	if got := driver.textAt(1, 1, 6); got != "winner" {
		t.Errorf("overlapping label = %q, want topmost item's label", got)
	}
}

func TestDrawSkipsInvisibleItems(t *testing.T) {
	driver := &stubDriver{}
	r := NewRenderer(driver)
	hidden := unitItem("i1", "cam")
	hidden.Visible = false
	view := &fakeView{
		names: map[string]string{"s1": "Main"},
		items: map[string][]scene.ItemSnapshot{"s1": {hidden}},
	}

	r.Draw(view, "s1")

	if driver.content[[2]int{0, 1}] == '┌' {
		t.Error("invisible item should not be drawn")
	}
}

func TestDrawNestedSceneRecurses(t *testing.T) {
	driver := &stubDriver{}
	r := NewRenderer(driver)
	view := &fakeView{
		names: map[string]string{"outer": "Outer", "inner": "Inner"},
		items: map[string][]scene.ItemSnapshot{
			"outer": {unitItem("i1", "inner")},
			"inner": {unitItem("i2", "cam")},
		},
	}

	r.Draw(view, "outer")

	if got := driver.textAt(1, 1, 5); got != "Inner" {
		t.Errorf("nested placement label = %q, want scene name", got)
	}
	// The nested scene's own placement is drawn one cell inside.
	if got := driver.textAt(2, 2, 3); got != "cam" {
		t.Errorf("nested content = %q, want inner scene's item", got)
	}
}

func TestDrawUnknownSceneShowsEmptyFrame(t *testing.T) {
	driver := &stubDriver{}
	r := NewRenderer(driver)
	view := &fakeView{names: map[string]string{}}

	r.Draw(view, "ghost")

	if driver.showCount != 1 {
		t.Error("unknown scene should still present a frame")
	}
}
