// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: compositor/terminal.go
// Summary: Terminal renderer that draws a scene's placement stack as labeled boxes.
// Usage: The preview binary runs it against a registry; tests drive it with a stub driver.

package compositor

import (
	"log"
	"sync"

	"github.com/framegrace/scenecast/scene"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Placement footprint in cells at scale 1.0.
const (
	placementCols = 24
	placementRows = 6
	maxNestDepth  = 8
)

// SceneView is what the renderer reads. It deliberately sees snapshots only;
// the canonical records stay inside the scene graph.
type SceneView interface {
	// SceneName resolves a scene id to its display name; ok is false when
	// the id is not a scene.
	SceneName(sceneID string) (string, bool)

	// ActiveItemID returns the active item of the scene, or "".
	ActiveItemID(sceneID string) string

	// SceneItems returns the scene's items in stacking order, topmost first.
	SceneItems(sceneID string) []scene.ItemSnapshot
}

// RegistryView adapts a scene registry to the SceneView interface.
type RegistryView struct {
	Registry *scene.Registry
}

func (v RegistryView) SceneName(sceneID string) (string, bool) {
	sc := v.Registry.GetScene(sceneID)
	if sc == nil {
		return "", false
	}
	return sc.Name(), true
}

func (v RegistryView) ActiveItemID(sceneID string) string {
	sc := v.Registry.GetScene(sceneID)
	if sc == nil {
		return ""
	}
	return sc.ActiveItemID()
}

func (v RegistryView) SceneItems(sceneID string) []scene.ItemSnapshot {
	sc := v.Registry.GetScene(sceneID)
	if sc == nil {
		return nil
	}
	return sc.Snapshots()
}

// Terminal couples the bookkeeping engine with the renderer, forming a
// complete compositor over one screen driver.
type Terminal struct {
	*MemEngine
	*Renderer
}

// NewTerminal creates a terminal compositor on the given driver.
func NewTerminal(driver ScreenDriver, opts ...RendererOption) *Terminal {
	return &Terminal{
		MemEngine: NewMemEngine(),
		Renderer:  NewRenderer(driver, opts...),
	}
}

// Renderer draws one scene's stack onto a screen driver. Nested scenes are
// drawn recursively inside their placement rectangle.
type Renderer struct {
	driver      ScreenDriver
	background  tcell.Color
	quit        chan struct{}
	refreshChan chan bool
	closeOnce   sync.Once
	mu          sync.Mutex
}

// RendererOption configures NewRenderer.
type RendererOption func(*Renderer)

// WithBackground sets the fill color behind placements.
func WithBackground(color tcell.Color) RendererOption {
	return func(r *Renderer) { r.background = color }
}

// NewRenderer creates a renderer over the given driver.
func NewRenderer(driver ScreenDriver, opts ...RendererOption) *Renderer {
	r := &Renderer{
		driver:      driver,
		background:  tcell.ColorBlack,
		quit:        make(chan struct{}),
		refreshChan: make(chan bool, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init initializes the underlying screen.
func (r *Renderer) Init() error {
	if err := r.driver.Init(); err != nil {
		return err
	}
	r.driver.SetStyle(tcell.StyleDefault.Background(r.background))
	r.driver.HideCursor()
	return nil
}

// Fini releases the underlying screen.
func (r *Renderer) Fini() {
	r.driver.Fini()
}

// Refresh requests a redraw from the Run loop.
func (r *Renderer) Refresh() {
	select {
	case r.refreshChan <- true:
	default:
	}
}

// Stop ends the Run loop.
func (r *Renderer) Stop() {
	r.closeOnce.Do(func() { close(r.quit) })
}

// Run draws the scene and redraws on refresh requests and resizes until
// stopped or until the user presses Escape, q, or Ctrl-C.
func (r *Renderer) Run(view SceneView, sceneID string) error {
	events := make(chan tcell.Event, 8)
	go func() {
		for {
			ev := r.driver.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-r.quit:
				return
			}
		}
	}()

	r.Draw(view, sceneID)
	for {
		select {
		case <-r.quit:
			return nil
		case <-r.refreshChan:
			r.Draw(view, sceneID)
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				r.Draw(view, sceneID)
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					r.Stop()
					return nil
				}
			}
		}
	}
}

// Draw renders one frame of the scene.
func (r *Renderer) Draw(view SceneView, sceneID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	width, height := r.driver.Size()
	bg := tcell.StyleDefault.Background(r.background)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r.driver.SetContent(x, y, ' ', nil, bg)
		}
	}

	name, ok := view.SceneName(sceneID)
	if !ok {
		log.Printf("Renderer: scene %q unknown, drawing empty frame", sceneID)
		r.driver.Show()
		return
	}
	title := runewidth.Truncate("Scene: "+name, width, "…")
	r.drawText(0, 0, title, tcell.StyleDefault.Background(r.background).Bold(true))

	frame := rect{x: 0, y: 1, w: width, h: height - 1}
	r.drawScene(view, sceneID, frame, 0)
	r.driver.Show()
}

type rect struct {
	x, y, w, h int
}

func (r *Renderer) drawScene(view SceneView, sceneID string, frame rect, depth int) {
	if depth >= maxNestDepth {
		return
	}
	items := view.SceneItems(sceneID)
	activeID := view.ActiveItemID(sceneID)

	// Bottom of the stack first so the topmost item paints last.
	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		if !item.Visible {
			continue
		}
		box := placementRect(item, frame)
		if box.w < 2 || box.h < 2 {
			continue
		}

		style := tcell.StyleDefault.Background(r.background)
		if item.ItemID == activeID && depth == 0 {
			style = style.Bold(true).Foreground(tcell.ColorYellow)
		}
		if item.Locked {
			style = style.Dim(true)
		}
		r.drawBox(box, style)

		label := item.SourceID
		if nestedName, isScene := view.SceneName(item.SourceID); isScene {
			label = nestedName
			inner := rect{x: box.x + 1, y: box.y + 1, w: box.w - 2, h: box.h - 2}
			r.drawScene(view, item.SourceID, inner, depth+1)
		}
		label = runewidth.Truncate(label, box.w-2, "…")
		r.drawText(box.x+1, box.y, label, style)
	}
}

// placementRect maps an item transform onto the frame in cell units.
func placementRect(item scene.ItemSnapshot, frame rect) rect {
	w := int(float64(placementCols)*item.Scale.X) - item.Crop.Left - item.Crop.Right
	h := int(float64(placementRows)*item.Scale.Y) - item.Crop.Top - item.Crop.Bottom
	box := rect{
		x: frame.x + int(item.Position.X),
		y: frame.y + int(item.Position.Y),
		w: w,
		h: h,
	}
	if box.x+box.w > frame.x+frame.w {
		box.w = frame.x + frame.w - box.x
	}
	if box.y+box.h > frame.y+frame.h {
		box.h = frame.y + frame.h - box.y
	}
	return box
}

func (r *Renderer) drawBox(box rect, style tcell.Style) {
	for y := box.y; y < box.y+box.h; y++ {
		for x := box.x; x < box.x+box.w; x++ {
			ch := ' '
			switch {
			case y == box.y && x == box.x:
				ch = '┌'
			case y == box.y && x == box.x+box.w-1:
				ch = '┐'
			case y == box.y+box.h-1 && x == box.x:
				ch = '└'
			case y == box.y+box.h-1 && x == box.x+box.w-1:
				ch = '┘'
			case y == box.y || y == box.y+box.h-1:
				ch = '─'
			case x == box.x || x == box.x+box.w-1:
				ch = '│'
			}
			r.driver.SetContent(x, y, ch, nil, style)
		}
	}
}

func (r *Renderer) drawText(x, y int, text string, style tcell.Style) {
	col := x
	for _, ch := range text {
		r.driver.SetContent(col, y, ch, nil, style)
		col += runewidth.RuneWidth(ch)
	}
}
