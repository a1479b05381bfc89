package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svec-cse/efacilities-api/internal/models"
)

func TestUserFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "full_name", "role", "active", "last_login", "created_at", "updated_at"}).
		AddRow("admin-1", "admin@sves.org.in", "hash", "Portal Admin", string(models.RoleAdmin), true, nil, now, now)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("admin@sves.org.in").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "admin@sves.org.in")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", user.ID)
	assert.True(t, user.Active)
	assert.Nil(t, user.LastLogin)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdateLastLogin(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	ts := time.Now().UTC()
	mock.ExpectExec("UPDATE users SET last_login").
		WithArgs("admin-1", ts).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateLastLogin(context.Background(), "admin-1", ts))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpsertGeneratesID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(0, 1))

	user := &models.User{
		Email:        "admin@sves.org.in",
		PasswordHash: "hash",
		FullName:     "Portal Admin",
		Role:         models.RoleAdmin,
		Active:       true,
	}
	require.NoError(t, repo.Upsert(context.Background(), user))
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
