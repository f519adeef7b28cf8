package database

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

type Config struct {
	Path string
}

func DefaultConfig() Config {
	if p := os.Getenv("CATALOG_DB_PATH"); p != "" {
		return Config{Path: p}
	}

	// local default: ~/.shopcatalog/catalog.db
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return Config{
		Path: filepath.Join(home, ".shopcatalog", "catalog.db"),
	}
}

func EnsureDataDir(cfg Config) error {
	return os.MkdirAll(filepath.Dir(cfg.Path), 0o755)
}

// DSN enables foreign keys on every pooled connection. A one-off
// PRAGMA only reaches the connection that happened to run it.
func (c Config) DSN() string {
	v := url.Values{}
	v.Set("_foreign_keys", "on")
	v.Set("_journal_mode", "WAL")
	v.Set("_busy_timeout", "5000")
	return "file:" + c.Path + "?" + v.Encode()
}

func Open(cfg Config) (*sqlx.DB, error) {
	if err := EnsureDataDir(cfg); err != nil {
		return nil, &StorageError{Op: "ensure data dir", Kind: ErrStorageUnavailable, Err: err}
	}

	db, err := sqlx.Open("sqlite3", cfg.DSN())
	if err != nil {
		return nil, &StorageError{Op: "open sqlite", Kind: ErrStorageUnavailable, Err: err}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &StorageError{Op: "ping sqlite", Kind: ErrStorageUnavailable, Err: err}
	}

	var fk int
	if err := db.Get(&fk, `PRAGMA foreign_keys;`); err != nil {
		_ = db.Close()
		return nil, Wrap("pragma foreign_keys", err)
	}
	if fk != 1 {
		_ = db.Close()
		return nil, &StorageError{Op: "pragma foreign_keys", Kind: ErrStorageUnavailable, Err: fmt.Errorf("enforcement is off")}
	}

	return db, nil
}

func MustOpen(cfg Config, log *zap.Logger) *sqlx.DB {
	db, err := Open(cfg)
	if err != nil {
		log.Fatal("failed to open db", zap.String("path", cfg.Path), zap.Error(err))
	}
	return db
}
