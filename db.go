package nitro

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Asset is one scanned Nitro file as recorded in the database.
type Asset struct {
	Path     string
	Format   string
	Version  uint16
	Checksum string
	Detail   string

	// Labels holds the per-cell labels of an NCER, by position.
	Labels []string
}

// AssetDB is a sqlite-backed index of scanned Nitro assets.
type AssetDB struct {
	db *sql.DB
}

// NewAssetDB opens the database at file, creating the schema if necessary.
func NewAssetDB(file string) (*AssetDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS asset (id INTEGER PRIMARY KEY NOT NULL, path TEXT NOT NULL UNIQUE, format TEXT NOT NULL, version INTEGER NOT NULL, xxhash TEXT NOT NULL, detail TEXT NOT NULL)"); err != nil {
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS label (asset_id INTEGER NOT NULL, position INTEGER NOT NULL, name TEXT NOT NULL, FOREIGN KEY(asset_id) REFERENCES asset(id))"); err != nil {
		return nil, err
	}

	return &AssetDB{
		db: db,
	}, nil
}

// Close closes the database.
func (d *AssetDB) Close() error {
	return d.db.Close()
}

// Store inserts or replaces the record for an asset, keyed by path.
func (d *AssetDB) Store(a *Asset) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}

	var id int64
	switch err := tx.QueryRow("SELECT id FROM asset WHERE path = ?", a.Path).Scan(&id); err {
	case nil:
		if _, err := tx.Exec("DELETE FROM label WHERE asset_id = ?", id); err != nil {
			tx.Rollback()
			return err
		}
		if _, err := tx.Exec("DELETE FROM asset WHERE id = ?", id); err != nil {
			tx.Rollback()
			return err
		}
	case sql.ErrNoRows:
	default:
		tx.Rollback()
		return err
	}

	result, err := tx.Exec("INSERT INTO asset (path, format, version, xxhash, detail) VALUES (?, ?, ?, ?, ?)", a.Path, a.Format, a.Version, a.Checksum, a.Detail)
	if err != nil {
		tx.Rollback()
		return err
	}
	id, err = result.LastInsertId()
	if err != nil {
		tx.Rollback()
		return err
	}

	for i, label := range a.Labels {
		if _, err := tx.Exec("INSERT INTO label (asset_id, position, name) VALUES (?, ?, ?)", id, i, label); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// FindByChecksum returns the paths of all assets recorded with the given
// content hash.
func (d *AssetDB) FindByChecksum(checksum string) ([]string, error) {
	rows, err := d.db.Query("SELECT path FROM asset WHERE xxhash = ? ORDER BY path", checksum)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// Formats returns the number of recorded assets per format.
func (d *AssetDB) Formats() (map[string]int, error) {
	rows, err := d.db.Query("SELECT format, COUNT(*) FROM asset GROUP BY format")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			format string
			count  int
		)
		if err := rows.Scan(&format, &count); err != nil {
			return nil, err
		}
		counts[format] = count
	}
	return counts, rows.Err()
}
