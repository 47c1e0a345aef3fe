// Package sqlite persists the blueprint scan index so repeat scans can
// skip re-parsing unchanged blueprint files.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"sebx/internal/domain"

	_ "modernc.org/sqlite"
)

// IndexEntry is one cached scan result keyed by blueprint folder path.
// ModTime and Size fingerprint the bp.sbc file the entry was parsed
// from; a mismatch invalidates the entry.
type IndexEntry struct {
	Info    domain.BlueprintInfo
	ModTime int64
	Size    int64
}

// Repository is a SQLite-backed scan index.
type Repository struct {
	db *sql.DB
}

// New opens (or creates) the index database at dbPath.
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure index database: %w", err)
	}

	repo := &Repository{db: db}
	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate index database: %w", err)
	}
	return repo, nil
}

func (r *Repository) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS blueprints (
		path TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		display_name TEXT NOT NULL,
		grid_size TEXT NOT NULL,
		block_count INTEGER NOT NULL,
		light_armor_count INTEGER NOT NULL,
		heavy_armor_count INTEGER NOT NULL,
		mod_time INTEGER NOT NULL,
		size INTEGER NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_blueprints_name ON blueprints(name);
	`

	_, err := r.db.Exec(schema)
	return err
}

// Get returns the cached entry for a blueprint folder, or nil when the
// path has never been indexed.
func (r *Repository) Get(ctx context.Context, path string) (*IndexEntry, error) {
	var entry IndexEntry
	err := r.db.QueryRowContext(ctx, `
		SELECT path, name, display_name, grid_size, block_count,
		       light_armor_count, heavy_armor_count, mod_time, size
		FROM blueprints WHERE path = ?
	`, path).Scan(
		&entry.Info.Path,
		&entry.Info.Name,
		&entry.Info.DisplayName,
		&entry.Info.GridSize,
		&entry.Info.BlockCount,
		&entry.Info.LightArmorCount,
		&entry.Info.HeavyArmorCount,
		&entry.ModTime,
		&entry.Size,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query blueprint entry: %w", err)
	}
	return &entry, nil
}

// Upsert inserts or replaces the entry for its blueprint folder path.
func (r *Repository) Upsert(ctx context.Context, entry *IndexEntry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO blueprints (path, name, display_name, grid_size, block_count,
			light_armor_count, heavy_armor_count, mod_time, size, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(path) DO UPDATE SET
			name = excluded.name,
			display_name = excluded.display_name,
			grid_size = excluded.grid_size,
			block_count = excluded.block_count,
			light_armor_count = excluded.light_armor_count,
			heavy_armor_count = excluded.heavy_armor_count,
			mod_time = excluded.mod_time,
			size = excluded.size,
			updated_at = CURRENT_TIMESTAMP
	`, entry.Info.Path, entry.Info.Name, entry.Info.DisplayName, entry.Info.GridSize,
		entry.Info.BlockCount, entry.Info.LightArmorCount, entry.Info.HeavyArmorCount,
		entry.ModTime, entry.Size)
	if err != nil {
		return fmt.Errorf("failed to upsert blueprint entry: %w", err)
	}
	return nil
}

// List returns every cached entry ordered by name.
func (r *Repository) List(ctx context.Context) ([]*IndexEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT path, name, display_name, grid_size, block_count,
		       light_armor_count, heavy_armor_count, mod_time, size
		FROM blueprints ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query blueprint entries: %w", err)
	}
	defer rows.Close()

	var entries []*IndexEntry
	for rows.Next() {
		var entry IndexEntry
		if err := rows.Scan(
			&entry.Info.Path,
			&entry.Info.Name,
			&entry.Info.DisplayName,
			&entry.Info.GridSize,
			&entry.Info.BlockCount,
			&entry.Info.LightArmorCount,
			&entry.Info.HeavyArmorCount,
			&entry.ModTime,
			&entry.Size,
		); err != nil {
			return nil, fmt.Errorf("failed to scan blueprint entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating blueprint entries: %w", err)
	}
	return entries, nil
}

// Delete removes the entry for a blueprint folder path.
func (r *Repository) Delete(ctx context.Context, path string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM blueprints WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("failed to delete blueprint entry: %w", err)
	}
	return nil
}

// Prune drops every entry whose path is not in keep. It returns the
// number of removed entries.
func (r *Repository) Prune(ctx context.Context, keep map[string]bool) (int, error) {
	entries, err := r.List(ctx)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, entry := range entries {
		if keep[entry.Info.Path] {
			continue
		}
		if err := r.Delete(ctx, entry.Info.Path); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}
