// Package testkit provides test fixtures: a migrated and seeded in-memory
// database per test, and an HTTP client that keeps cookies between calls.
package testkit

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"testing"

	_ "github.com/freshchoice/storefront/database/migrations"
	"github.com/freshchoice/storefront/database/seeders"
	"github.com/freshchoice/storefront/pkg/database"
	"github.com/freshchoice/storefront/pkg/migration"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewDB opens a private in-memory sqlite database, runs every migration and
// seeds the allergen list and catalog. It is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db := EmptyDB(t)
	_, err := migration.New(db, io.Discard).Run()
	require.NoError(t, err, "testkit: migrate")
	require.NoError(t, seeders.RunAll(db, io.Discard), "testkit: seed")
	return db
}

// EmptyDB opens a private in-memory sqlite database without any schema.
func EmptyDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err, "testkit: open sqlite")
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
