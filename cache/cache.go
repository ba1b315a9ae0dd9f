/*
Package cache stores conversion artifacts in a SQLite database so repeated
runs over an unchanged asset tree skip the expensive decode and encode
work. Entries are keyed by the CRC32 of the source file together with the
canonical parameter string of the conversion, so any change to either the
pixels or the settings produces a fresh artifact.
*/
package cache

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type Cache struct {
	db *sql.DB
}

// Open creates or opens the database at file, creating the schema on
// first use.
func Open(file string) (*Cache, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS artifact (id INTEGER PRIMARY KEY NOT NULL, crc TEXT NOT NULL, params TEXT NOT NULL, data BLOB NOT NULL, UNIQUE(crc, params))"); err != nil {
		return nil, err
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the artifact stored for the source checksum and parameter
// string, or nil when there is no entry.
func (c *Cache) Get(crc, params string) ([]byte, error) {
	var data []byte
	switch err := c.db.QueryRow("SELECT data FROM artifact WHERE crc = ? AND params = ?", crc, params).Scan(&data); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return data, nil
	default:
		return nil, err
	}
}

// Put stores an artifact, replacing any previous entry under the same key.
func (c *Cache) Put(crc, params string, data []byte) error {
	if _, err := c.db.Exec("INSERT OR REPLACE INTO artifact (crc, params, data) VALUES (?, ?, ?)", crc, params, data); err != nil {
		return err
	}
	return nil
}
