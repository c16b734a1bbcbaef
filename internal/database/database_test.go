package database

import (
	"context"
	"errors"
	"testing"

	"bazaar/internal/config"
	"bazaar/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConfigurePool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	assert.NoError(t, err)

	cfg := &config.Config{
		DBMaxOpenConns:           10,
		DBMaxIdleConns:           5,
		DBConnMaxLifetimeMinutes: 15,
	}

	err = configurePool(db, cfg)
	assert.NoError(t, err)

	sqlDB, err := db.DB()
	assert.NoError(t, err)
	assert.NotNil(t, sqlDB)
}

func TestPingWithRetry_RecoversWithinBudget(t *testing.T) {
	calls := 0
	err := pingWithRetry(func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	}, 5)
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPingWithRetry_ExhaustsBudget(t *testing.T) {
	calls := 0
	err := pingWithRetry(func(context.Context) error {
		calls++
		return errors.New("connection refused")
	}, 2)
	assert.Error(t, err)
	assert.Equal(t, 3, calls, "initial attempt plus two retries")
}

func TestConnectWithDialector_MockedDriver(t *testing.T) {
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectPing() // gorm.Open's automatic ping
	mock.ExpectPing().WillReturnError(errors.New("transient"))
	mock.ExpectPing()

	dialector := postgres.New(postgres.Config{
		Conn:                 mockDB,
		DriverName:           "postgres",
		PreferSimpleProtocol: true,
	})

	cfg := &config.Config{
		Env:              "production", // skip AutoMigrate against the mock
		DBConnectRetries: 3,
	}

	db, err := ConnectWithDialector(dialector, cfg)
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersistentModels_CoversEveryEntity(t *testing.T) {
	wantTypes := []interface{}{
		&models.User{},
		&models.Category{},
		&models.Listing{},
		&models.Message{},
		&models.Favorite{},
	}
	got := PersistentModels()
	require.Len(t, got, len(wantTypes))

	for i, want := range wantTypes {
		assert.IsType(t, want, got[i])
	}
}
