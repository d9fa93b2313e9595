// Copyright © 2025 Scenecast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: store/sqlite.go
// Summary: SQLite-backed persistence for scene collections.
// Usage: Save snapshots the whole registry; Load replays placements through the batch restore path.

package store

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/framegrace/scenecast/scene"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS scenes (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	active_item TEXT NOT NULL DEFAULT '',
	position    INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS placements (
	scene_id    TEXT NOT NULL REFERENCES scenes(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	id          TEXT NOT NULL,
	source_id   TEXT NOT NULL,
	x           REAL NOT NULL,
	y           REAL NOT NULL,
	scale_x     REAL NOT NULL,
	scale_y     REAL NOT NULL,
	rotation    REAL NOT NULL,
	visible     INTEGER NOT NULL,
	locked      INTEGER NOT NULL,
	crop_top    INTEGER NOT NULL,
	crop_bottom INTEGER NOT NULL,
	crop_left   INTEGER NOT NULL,
	crop_right  INTEGER NOT NULL,
	PRIMARY KEY (scene_id, position)
);
`

// CollectionStore persists scene collections in a sqlite database.
type CollectionStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the collection database at path.
func Open(path string) (*CollectionStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open collection db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create collection schema: %w", err)
	}
	return &CollectionStore{db: db}, nil
}

// Close closes the database.
func (s *CollectionStore) Close() error {
	return s.db.Close()
}

// Save replaces the stored collection with the registry's current state.
func (s *CollectionStore) Save(reg *scene.Registry) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM placements`); err != nil {
		return fmt.Errorf("clear placements: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM scenes`); err != nil {
		return fmt.Errorf("clear scenes: %w", err)
	}

	for pos, sc := range reg.Scenes() {
		if _, err := tx.Exec(
			`INSERT INTO scenes (id, name, active_item, position) VALUES (?, ?, ?, ?)`,
			sc.ID(), sc.Name(), sc.ActiveItemID(), pos,
		); err != nil {
			return fmt.Errorf("save scene %q: %w", sc.ID(), err)
		}
		for idx, snap := range sc.Snapshots() {
			if _, err := tx.Exec(
				`INSERT INTO placements
				 (scene_id, position, id, source_id, x, y, scale_x, scale_y, rotation,
				  visible, locked, crop_top, crop_bottom, crop_left, crop_right)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				sc.ID(), idx, snap.ItemID, snap.SourceID,
				snap.Position.X, snap.Position.Y, snap.Scale.X, snap.Scale.Y, snap.Rotation,
				boolInt(snap.Visible), boolInt(snap.Locked),
				snap.Crop.Top, snap.Crop.Bottom, snap.Crop.Left, snap.Crop.Right,
			); err != nil {
				return fmt.Errorf("save placement %q: %w", snap.ItemID, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	log.Printf("Store: Saved %d scenes", len(reg.Scenes()))
	return nil
}

// SceneSourceRegistrar re-registers scene-typed source descriptors during
// load, so nested placements resolve. The in-memory source registry
// implements it.
type SceneSourceRegistrar interface {
	RegisterScene(sceneID, name string) *scene.Source
}

// Load recreates the stored collection inside reg. All scenes are created
// first (under their persisted ids, re-registered with registrar when one is
// given) so nested-scene placements resolve, then each scene's placements are
// replayed through the batch restore path in stored order, and finally the
// persisted active items are re-activated.
func (s *CollectionStore) Load(reg *scene.Registry, registrar SceneSourceRegistrar) error {
	type sceneRow struct {
		id, name, activeItem string
	}
	rows, err := s.db.Query(`SELECT id, name, active_item FROM scenes ORDER BY position`)
	if err != nil {
		return fmt.Errorf("load scenes: %w", err)
	}
	var sceneRows []sceneRow
	for rows.Next() {
		var r sceneRow
		if err := rows.Scan(&r.id, &r.name, &r.activeItem); err != nil {
			rows.Close()
			return fmt.Errorf("scan scene: %w", err)
		}
		sceneRows = append(sceneRows, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("load scenes: %w", err)
	}
	rows.Close()

	for _, r := range sceneRows {
		if _, err := reg.CreateScene(r.name, scene.WithSceneID(r.id)); err != nil {
			return fmt.Errorf("recreate scene %q: %w", r.id, err)
		}
		if registrar != nil {
			registrar.RegisterScene(r.id, r.name)
		}
	}

	for _, r := range sceneRows {
		placements, err := s.loadPlacements(r.id)
		if err != nil {
			return err
		}
		sc := reg.GetScene(r.id)
		if _, err := sc.AddSources(placements); err != nil {
			return fmt.Errorf("restore scene %q: %w", r.id, err)
		}
		if r.activeItem != "" && sc.GetItem(r.activeItem) != nil {
			if err := sc.MakeItemActive(r.activeItem); err != nil {
				return fmt.Errorf("reactivate item %q: %w", r.activeItem, err)
			}
		}
	}
	log.Printf("Store: Loaded %d scenes", len(sceneRows))
	return nil
}

func (s *CollectionStore) loadPlacements(sceneID string) ([]scene.Placement, error) {
	rows, err := s.db.Query(
		`SELECT id, source_id, x, y, scale_x, scale_y, rotation,
		        visible, locked, crop_top, crop_bottom, crop_left, crop_right
		 FROM placements WHERE scene_id = ? ORDER BY position`, sceneID)
	if err != nil {
		return nil, fmt.Errorf("load placements for %q: %w", sceneID, err)
	}
	defer rows.Close()

	var out []scene.Placement
	for rows.Next() {
		var p scene.Placement
		var visible, locked int
		if err := rows.Scan(
			&p.ID, &p.SourceID, &p.X, &p.Y, &p.ScaleX, &p.ScaleY, &p.Rotation,
			&visible, &locked, &p.Crop.Top, &p.Crop.Bottom, &p.Crop.Left, &p.Crop.Right,
		); err != nil {
			return nil, fmt.Errorf("scan placement: %w", err)
		}
		p.Visible = visible != 0
		p.Locked = locked != 0
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load placements for %q: %w", sceneID, err)
	}
	return out, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
