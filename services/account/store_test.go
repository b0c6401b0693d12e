package account

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStore(t *testing.T) (*GormStore, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Account{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	return NewGormStore(db), db
}

func newAccount(email string) *Account {
	return &Account{
		Name:         "Ada Lovelace",
		Email:        email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		Role:         RoleStudent,
	}
}

func TestGormStore_CreateAssignsIDAndNormalizesEmail(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	acct := newAccount("  Ada@Example.COM ")
	require.NoError(t, store.Create(ctx, acct))

	assert.NotEmpty(t, acct.ID)
	assert.Equal(t, "ada@example.com", acct.Email)

	found, err := store.FindByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, acct.ID, found.ID)
	assert.False(t, found.IsEmailVerified)
}

func TestGormStore_DuplicateEmail(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, newAccount("ada@example.com")))
	err := store.Create(ctx, newAccount("Ada@Example.com"))

	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestGormStore_ConcurrentCreateSingleWinner(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Create(ctx, newAccount("race@example.com"))
		}()
	}
	wg.Wait()
	close(errs)

	successes := 0
	for err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrDuplicateEmail)
		}
	}
	assert.Equal(t, 1, successes)
}

func TestGormStore_FindNotFound(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	_, err := store.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindByVerificationToken(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindByVerificationToken(ctx, "deadbeef")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_VerificationTokenLifecycle(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	acct := newAccount("ada@example.com")
	first := "first-token"
	expiry := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	acct.EmailVerificationToken = &first
	acct.EmailVerificationTokenExpiry = &expiry
	require.NoError(t, store.Create(ctx, acct))

	found, err := store.FindByVerificationToken(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, acct.ID, found.ID)

	newExpiry := expiry.Add(time.Hour)
	require.NoError(t, store.UpdateVerificationToken(ctx, acct.ID, "second-token", newExpiry))

	_, err = store.FindByVerificationToken(ctx, first)
	assert.ErrorIs(t, err, ErrNotFound)

	found, err = store.FindByVerificationToken(ctx, "second-token")
	require.NoError(t, err)
	require.NotNil(t, found.EmailVerificationTokenExpiry)
	assert.True(t, newExpiry.Equal(*found.EmailVerificationTokenExpiry))

	require.NoError(t, store.MarkEmailVerified(ctx, acct.ID))

	found, err = store.FindByID(ctx, acct.ID)
	require.NoError(t, err)
	assert.True(t, found.IsEmailVerified)
	require.NotNil(t, found.EmailVerificationToken)
	assert.Equal(t, "second-token", *found.EmailVerificationToken)
}

func TestGormStore_UpdateUnknownAccount(t *testing.T) {
	store, _ := setupStore(t)

	err := store.MarkEmailVerified(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_DriverErrorIsWrapped(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "accounts"`)).WillReturnError(errors.New("connection refused"))

	_, err = NewGormStore(db).FindByEmail(context.Background(), "ada@example.com")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "failed to query account")
	assert.NoError(t, mock.ExpectationsWereMet())
}
