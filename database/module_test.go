package database

import (
	"context"
	"testing"

	"github.com/skillorbit/skillorbit/config"
	"github.com/skillorbit/skillorbit/services/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"gorm.io/gorm"
)

func TestModule(t *testing.T) {
	var db *gorm.DB

	app := fxtest.New(t,
		Module,
		fx.Provide(func() *config.Config {
			cfg := createTestConfig("sqlite", ":memory:", true)
			return &cfg
		}),
		fx.Provide(logging.NewNop),
		fx.Supply(WithModels(&widget{})),
		fx.Populate(&db),
	)

	app.RequireStart()
	require.NotNil(t, db)
	assert.True(t, db.Migrator().HasTable(&widget{}))
	app.RequireStop()

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Error(t, sqlDB.PingContext(context.Background()))
}
