// Package seeders fills reference data: the allergen list and the catalog.
//
//	func init() {
//	    seeders.Register("allergenen", SeedAllergens)
//	}
//
// Run via CLI: freshchoice seed
package seeders

import (
	"fmt"
	"io"
	"sync"

	"gorm.io/gorm"
)

// SeederFunc inserts or updates reference rows. It must be idempotent.
type SeederFunc func(db *gorm.DB) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder. Seeders run in registration order.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder inside one transaction.
func RunAll(db *gorm.DB, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}

	mu.Lock()
	current := append([]seederEntry(nil), entries...)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(out, "  (no seeders registered)")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, e := range current {
			fmt.Fprintf(out, "  • Running seeder: %s … ", e.name)
			if err := e.fn(tx); err != nil {
				fmt.Fprintln(out, "FAILED")
				return fmt.Errorf("seeder %q: %w", e.name, err)
			}
			fmt.Fprintln(out, "done")
		}
		return nil
	})
}
