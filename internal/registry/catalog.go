package registry

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/widgetc/internal/ir"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in PRAGMA user_version.
//
//	0: features table only
//	1: index on features.global
const schemaVersion = 1

// Feature is one catalog row.
type Feature struct {
	ID       string `json:"id"`
	Version  string `json:"version,omitempty"`
	Global   bool   `json:"global"`
	Required bool   `json:"required"`
}

// Catalog is a SQLite-backed feature catalog.
type Catalog struct {
	db *sql.DB
}

// dsn sets the connection pragmas through go-sqlite3's DSN parameters so
// every pooled connection gets them.
func dsn(path string) string {
	return "file:" + path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
}

// Open opens the catalog at path, creating and migrating it as needed.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	// One writer at a time.
	db.SetMaxOpenConns(1)

	c := &Catalog{db: db}
	if err := c.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	return c, nil
}

// Close closes the database connection.
func (c *Catalog) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Catalog) init() error {
	if err := c.db.Ping(); err != nil {
		return err
	}
	if _, err := c.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("schema: %w", err)
	}

	var version int
	if err := c.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	steps := []string{
		1: `CREATE INDEX IF NOT EXISTS idx_features_global ON features(global)`,
	}
	for v := version + 1; v <= schemaVersion; v++ {
		if _, err := c.db.Exec(steps[v]); err != nil {
			return fmt.Errorf("migrate to v%d: %w", v, err)
		}
	}
	if _, err := c.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("write user_version: %w", err)
	}
	return nil
}

// Register inserts or updates a feature. Re-registering keeps the
// feature's original position in List order.
func (c *Catalog) Register(ctx context.Context, f Feature) error {
	if f.ID == "" {
		return fmt.Errorf("register feature: empty id")
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO features (id, version, global, required, seq)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM features))
		ON CONFLICT(id) DO UPDATE SET
			version = excluded.version,
			global = excluded.global,
			required = excluded.required
	`, f.ID, f.Version, f.Global, f.Required)
	if err != nil {
		return fmt.Errorf("register feature %s: %w", f.ID, err)
	}
	return nil
}

// List returns every feature in registration order.
func (c *Catalog) List(ctx context.Context) ([]Feature, error) {
	return c.query(ctx, `SELECT id, version, global, required FROM features ORDER BY seq`)
}

// Available implements Source.
func (c *Catalog) Available(ctx context.Context, id string) (bool, error) {
	var n int
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM features WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("lookup feature %s: %w", id, err)
	}
	return n > 0, nil
}

// GlobalFeatures implements GlobalFeatureSource. A catalog with no
// global rows returns nil so callers fall back to the built-in table.
func (c *Catalog) GlobalFeatures(ctx context.Context) ([]ir.FeatureRef, error) {
	rows, err := c.query(ctx, `SELECT id, version, global, required FROM features WHERE global = 1 ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	var refs []ir.FeatureRef
	for _, f := range rows {
		refs = append(refs, ir.FeatureRef{ID: f.ID, Required: f.Required, Version: f.Version})
	}
	return refs, nil
}

func (c *Catalog) query(ctx context.Context, q string) ([]Feature, error) {
	rows, err := c.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query features: %w", err)
	}
	defer rows.Close()

	var out []Feature
	for rows.Next() {
		var f Feature
		if err := rows.Scan(&f.ID, &f.Version, &f.Global, &f.Required); err != nil {
			return nil, fmt.Errorf("scan feature: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate features: %w", err)
	}
	return out, nil
}
