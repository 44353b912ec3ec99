package sim

import (
	"database/sql"
	"testing"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestSeed(t *testing.T) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open("sqlite3", sqlDB)
	require.NoError(t, err)
	db.LogMode(false)

	require.NoError(t, Seed(db, DemoPatients()))

	var count int
	require.NoError(t, db.Model(&Patient{}).Count(&count).Error)
	assert.Equal(t, 5, count)

	var p Patient
	require.NoError(t, db.Where("identifier = ?", "P003").First(&p).Error)
	assert.Equal(t, "Carla Smit", p.Name)
	assert.False(t, p.Active)
	require.NotNil(t, p.DeceasedDate)
	assert.Equal(t, 2024, p.DeceasedDate.Year())

	assert.True(t, db.Dialect().HasColumn("patients", "birth_date"))
	assert.False(t, db.Dialect().HasColumn("patients", "internal_notes"))
}

func TestSeedDuplicateIdentifier(t *testing.T) {
	sqlDB, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open("sqlite3", sqlDB)
	require.NoError(t, err)
	db.LogMode(false)

	patients := DemoPatients()
	require.NoError(t, Seed(db, patients[:1]))

	again := DemoPatients()
	err = Seed(db, again[:1])
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "P001")
}
