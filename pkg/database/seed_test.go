package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"warung-service/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, MigrateModels(db))
	return db
}

func TestSeedFillsEmptyCatalog(t *testing.T) {
	db := newTestDB(t)

	n, err := Seed(db)
	require.NoError(t, err)
	assert.Equal(t, len(starterCatalog), n)

	var count int64
	require.NoError(t, db.Model(&model.Product{}).Count(&count).Error)
	assert.EqualValues(t, len(starterCatalog), count)

	// Seeding again is a no-op.
	n, err = Seed(db)
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&model.Product{}).Count(&count).Error)
	assert.EqualValues(t, len(starterCatalog), count)
}

func TestSeedSkipsNonEmptyCatalog(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&model.Product{Nama: "Es Teh", Harga: 5000, Kategori: "Minuman"}).Error)

	n, err := Seed(db)
	require.NoError(t, err)
	assert.Zero(t, n)

	var count int64
	require.NoError(t, db.Model(&model.Product{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
