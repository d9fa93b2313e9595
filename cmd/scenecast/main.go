// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/scenecast/main.go
// Summary: Scenecast demo binary: seeds or restores a scene collection and previews it.
// Usage: Run `scenecast` in a terminal for the tcell preview, or with -headless for a text dump.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/framegrace/scenecast/compositor"
	"github.com/framegrace/scenecast/config"
	"github.com/framegrace/scenecast/scene"
	"github.com/framegrace/scenecast/sources"
	"github.com/framegrace/scenecast/store"
	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("scenecast", flag.ContinueOnError)
	configPath := fs.String("config", defaultPath("scenecast.json"), "Path to config file")
	collection := fs.String("collection", "", "Path to sqlite scene collection (default: config storage.path)")
	headless := fs.Bool("headless", false, "Skip the terminal preview and print the scene dump")
	strictRestore := fs.Bool("strict-restore", false, "Fail restore on unresolvable sources instead of skipping")
	sceneName := fs.String("scene", "Program", "Scene to preview")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	cfg.RegisterDefaults("restore", config.Section{"strict": false})
	cfg.RegisterDefaults("compositor", config.Section{"background": "black"})
	cfg.RegisterDefaults("storage", config.Section{"path": defaultPath("collection.db")})

	policy := scene.RestoreSkipUnresolved
	if *strictRestore || cfg.GetBool("restore", "strict", false) {
		policy = scene.RestoreStrict
	}
	dbPath := *collection
	if dbPath == "" {
		dbPath = cfg.GetString("storage", "path", defaultPath("collection.db"))
	}

	// The preview owns the terminal, so logs go to a file next to the config.
	logFile, err := os.OpenFile(defaultPath("scenecast.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		defer logFile.Close()
		log.SetOutput(logFile)
	}
	log.Println("Scenecast starting...")

	srcs := sources.New(scene.NewUUIDGenerator())

	interactive := !*headless && term.IsTerminal(int(os.Stdout.Fd()))
	if !interactive {
		eng := compositor.NewMemEngine()
		reg := scene.NewRegistry(srcs, eng, scene.WithRestorePolicy(policy))
		if err := loadOrSeed(reg, srcs, dbPath); err != nil {
			return err
		}
		dump(os.Stdout, reg)
		return nil
	}

	tcellScreen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	terminal := compositor.NewTerminal(
		compositor.NewTcellScreenDriver(tcellScreen),
		compositor.WithBackground(backgroundColor(cfg)),
	)
	reg := scene.NewRegistry(srcs, terminal, scene.WithRestorePolicy(policy))
	if err := loadOrSeed(reg, srcs, dbPath); err != nil {
		return err
	}

	target := sceneByName(reg, *sceneName)
	if target == nil {
		return fmt.Errorf("scene %q: %w", *sceneName, scene.ErrNotFound)
	}

	if err := terminal.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer terminal.Fini()

	relay := &refreshListener{renderer: terminal.Renderer}
	reg.Subscribe(relay)
	defer reg.Unsubscribe(relay)

	view := compositor.RegistryView{Registry: reg}
	if err := terminal.Run(view, target.ID()); err != nil {
		return err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Save(reg); err != nil {
		return err
	}
	log.Println("Scenecast stopped cleanly.")
	return nil
}

// refreshListener redraws the preview whenever the graph changes.
type refreshListener struct {
	renderer *compositor.Renderer
}

func (l *refreshListener) OnEvent(event scene.Event) {
	l.renderer.Refresh()
}

// loadOrSeed restores the collection at dbPath when it holds scenes,
// otherwise seeds the demo collection.
func loadOrSeed(reg *scene.Registry, srcs *sources.Registry, dbPath string) error {
	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Load(reg, srcs); err != nil {
		return err
	}
	if len(reg.Scenes()) > 0 {
		return nil
	}
	return seed(reg, srcs)
}

// seed builds a small demo collection with one nested scene.
func seed(reg *scene.Registry, srcs *sources.Registry) error {
	cam, err := srcs.CreateSource("Camera", scene.KindInput, scene.Settings{"device": "/dev/video0"})
	if err != nil {
		return err
	}
	screenShare, err := srcs.CreateSource("Screen Share", scene.KindInput, nil)
	if err != nil {
		return err
	}
	logo, err := srcs.CreateSource("Logo", scene.KindMedia, scene.Settings{"path": "logo.png"})
	if err != nil {
		return err
	}

	interview, err := reg.CreateScene("Interview")
	if err != nil {
		return err
	}
	srcs.RegisterScene(interview.ID(), interview.Name())
	if _, err := interview.AddSource(cam.ID); err != nil {
		return err
	}

	program, err := reg.CreateScene("Program")
	if err != nil {
		return err
	}
	srcs.RegisterScene(program.ID(), program.Name())
	if _, err := program.AddSource(screenShare.ID); err != nil {
		return err
	}
	if _, err := program.AddSources([]scene.Placement{{
		ID:       "logo-corner",
		SourceID: logo.ID,
		X:        50, Y: 1,
		ScaleX: 0.5, ScaleY: 0.5,
		Visible: true,
	}}); err != nil {
		return err
	}
	if !program.CanAddSource(interview.ID()) {
		return fmt.Errorf("seeding: %w", scene.ErrCycleDetected)
	}
	nested, err := program.AddSource(interview.ID())
	if err != nil {
		return err
	}
	if err := program.MakeItemActive(nested.ID()); err != nil {
		return err
	}
	log.Printf("Seeded demo collection: %d scenes, %d sources", len(reg.Scenes()), srcs.Count())
	return nil
}

func sceneByName(reg *scene.Registry, name string) *scene.Scene {
	for _, sc := range reg.Scenes() {
		if sc.Name() == name {
			return sc
		}
	}
	return nil
}

// dump prints the collection as text for headless runs.
func dump(w *os.File, reg *scene.Registry) {
	for _, sc := range reg.Scenes() {
		fmt.Fprintf(w, "Scene %s (%s)\n", sc.Name(), sc.ID())
		for _, snap := range sc.Snapshots() {
			marker := " "
			if snap.ItemID == sc.ActiveItemID() {
				marker = "*"
			}
			flags := ""
			if !snap.Visible {
				flags += " hidden"
			}
			if snap.Locked {
				flags += " locked"
			}
			fmt.Fprintf(w, " %s %-16s source=%s pos=(%g,%g) scale=(%g,%g)%s\n",
				marker, snap.ItemID, snap.SourceID,
				snap.Position.X, snap.Position.Y, snap.Scale.X, snap.Scale.Y, flags)
		}
	}
}

func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	dir := filepath.Join(home, ".scenecast")
	os.MkdirAll(dir, 0755)
	return filepath.Join(dir, name)
}

func backgroundColor(cfg *config.Store) tcell.Color {
	name := cfg.GetString("compositor", "background", "black")
	if color, ok := tcell.ColorNames[strings.ToLower(name)]; ok {
		return color
	}
	return tcell.ColorBlack
}
