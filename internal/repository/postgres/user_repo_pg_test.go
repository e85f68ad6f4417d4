package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njprem/MagicBilling_BackEnd/internal/domain"
)

var userRowColumns = []string{"id", "first_name", "last_name", "email", "password_hash", "role", "is_active", "is_verified", "created_at", "updated_at"}

func TestUserRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`(?s)^\s*INSERT\s+INTO\s+users\b.*RETURNING\s+id,`).
		WithArgs("Ada", "Lovelace", "ada@example.com", "hash", "USER", true, false).
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow(id.String(), "Ada", "Lovelace", "ada@example.com", "hash", "USER", true, false, now, now))

	user, err := repo.Create(context.Background(), &domain.User{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleUser,
		IsActive:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.IsActive)
}

func TestUserRepositoryFindByEmailNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	user, err := repo.FindByEmail(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUserRepositoryFindByIDWrapsError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)
	id := uuid.New()
	boom := errors.New("db down")

	mock.ExpectQuery(`(?s)^SELECT\s+.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs(id).
		WillReturnError(boom)

	_, err := repo.FindByID(context.Background(), id)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "find user by id")
}

func TestUserRepositoryMarkVerifiedByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(`(?s)UPDATE\s+users\s+SET\s+is_verified\s*=\s*TRUE.*WHERE\s+email\s*=\s*\$1`).
		WithArgs("a@b.com").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`(?s)UPDATE\s+users\s+SET\s+is_verified\s*=\s*TRUE.*WHERE\s+email\s*=\s*\$1`).
		WithArgs("nobody@b.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.MarkVerifiedByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkVerifiedByEmail(context.Background(), "nobody@b.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserRepositoryUpdatePassword(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepo(db)
	id := uuid.New()

	mock.ExpectExec(`(?s)UPDATE\s+users\s+SET\s+password_hash\s*=\s*\$2.*WHERE\s+id\s*=\s*\$1`).
		WithArgs(id, "new-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), id, "new-hash"))
}
