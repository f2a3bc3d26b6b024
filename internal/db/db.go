package db

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB is the shared database handle used by code that is not constructed
// with an explicit *gorm.DB.
var DB *gorm.DB

// Init opens the sqlite database and runs auto migration for all models.
// An empty databasePath falls back to codeshift.db in the working directory.
func Init(databasePath string) error {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = "codeshift.db"
	}

	if err := ensureParentDir(path); err != nil {
		return err
	}

	var err error
	DB, err = Open(path)
	return err
}

// Open opens a database at path and migrates it, without touching the
// package-level handle. Used by Init and by tests.
func Open(path string) (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(ForeignKeyDSN(path)), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}

	return gdb, nil
}

// ForeignKeyDSN appends the driver flag that switches foreign key
// enforcement on. sqlite applies the pragma per connection, so it has to
// ride the DSN where the driver replays it on every pooled connection;
// a one-off Exec only covers whichever connection ran it. The cascade
// and SET NULL rules on posts and comments depend on this.
func ForeignKeyDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_foreign_keys=on"
	}
	return path + "?_foreign_keys=on"
}

// Migrate creates or updates tables for every model.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&User{},
		&AuthorProfile{},
		&ReaderProfile{},
		&Category{},
		&Tag{},
		&Post{},
		&Comment{},
	)
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
