package postgres

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"sort"

	"github.com/stepwise-app/stepwise-backend/internal/storage/migrations"
)

// Migrate applies the embedded SQL migrations in lexical order.
// Statements are written to be idempotent, so re-running on startup is safe.
func Migrate(db *sql.DB) error {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		raw, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(raw)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		log.Printf("[db] applied migration %s", name)
	}

	return nil
}
