package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/f9-o/dtogen/api/v1"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGenerationHistory(t *testing.T) {
	db := openTestDB(t)

	for _, root := range []string{"Weather", "Order", "Invoice"} {
		rec, err := db.PutGeneration(v1.GenerationRecord{
			RootClass: root,
			StartedAt: time.Now().UTC(),
			Result:    v1.ResultSuccess,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, rec.ID)
	}

	recs, err := db.ListGenerations(0)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "Invoice", recs[0].RootClass)
	assert.Equal(t, "Weather", recs[2].RootClass)
	assert.Equal(t, "0000000001", recs[2].ID)

	recs, err = db.ListGenerations(2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.Equal(t, "Order", recs[1].RootClass)
}

func TestPackageHistory(t *testing.T) {
	db := openTestDB(t)

	recs, err := db.ListPackages(10)
	require.NoError(t, err)
	assert.Empty(t, recs)

	_, err = db.PutPackage(v1.PackageRecord{Out: "build/app.jar", MainClass: "org.example.Main", Result: v1.ResultFailure, Error: "boom"})
	require.NoError(t, err)

	recs, err = db.ListPackages(10)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "org.example.Main", recs[0].MainClass)
	assert.Equal(t, v1.ResultFailure, recs[0].Result)

	gens, err := db.ListGenerations(0)
	require.NoError(t, err)
	assert.Empty(t, gens)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	db, err := Open(path)
	require.NoError(t, err)
	_, err = db.PutPackage(v1.PackageRecord{Out: "a.jar"})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	_, err = db.PutPackage(v1.PackageRecord{Out: "b.jar"})
	require.NoError(t, err)

	recs, err := db.ListPackages(0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "0000000002", recs[0].ID)
	assert.Equal(t, "b.jar", recs[0].Out)
}
