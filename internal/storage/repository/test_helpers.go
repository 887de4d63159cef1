package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/freemium-todo/internal/migrations"
)

// SetupTestStorage поднимает контейнер PostgreSQL, применяет миграции
// и возвращает готовое хранилище с функцией очистки.
func SetupTestStorage(t *testing.T) (*Storage, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath))

	cleanup := func() {
		_ = storage.DB.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return storage, cleanup
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его uid.
func (f *TestDataFactory) CreateUser(t *testing.T, email, role string, isSubscribed bool) string {
	t.Helper()
	uid := "user_" + uuid.NewString()
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, email, role, is_subscribed)
		VALUES ($1, $2, $3, $4)`,
		uid, email, role, isSubscribed)
	require.NoError(t, err)
	return uid
}

// CreateSubscribedUser создает пользователя с активной подпиской до заданной даты.
func (f *TestDataFactory) CreateSubscribedUser(t *testing.T, email string, ends time.Time) string {
	t.Helper()
	uid := "user_" + uuid.NewString()
	_, err := f.storage.DB.Exec(`INSERT INTO users (uid, email, is_subscribed, subscription_ends)
		VALUES ($1, $2, TRUE, $3)`,
		uid, email, ends)
	require.NoError(t, err)
	return uid
}

// CreateTask создает тестовую задачу с заданной датой создания и возвращает её id.
func (f *TestDataFactory) CreateTask(t *testing.T, userUID, title string, completed bool, createdAt time.Time) string {
	t.Helper()
	id := uuid.NewString()
	_, err := f.storage.DB.Exec(`INSERT INTO tasks (id, title, completed, user_uid, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		id, title, completed, userUID, createdAt)
	require.NoError(t, err)
	return id
}
