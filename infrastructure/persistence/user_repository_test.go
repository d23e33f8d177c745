package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creator-studio/domain/model"
	"creator-studio/infrastructure/persistence"
)

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "name", "avatar", "role", "provider", "provider_id", "created_at", "updated_at",
	})
}

func TestUserGetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectPrepare(`SELECT .+ FROM users AS u WHERE u.email = \$1`).
		ExpectQuery().
		WithArgs("alice@example.com").
		WillReturnRows(userRows().
			AddRow(int64(7), "alice@example.com", "Alice", nil, model.RoleAdmin, model.ProviderGoogle, "g-1", now, now))

	repo := persistence.NewUserRepository(db)
	user, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.Empty(t, user.Avatar)
}

func TestUserGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPrepare(`SELECT .+ FROM users AS u WHERE u.id = \$1`).
		ExpectQuery().
		WithArgs(int64(404)).
		WillReturnRows(userRows())

	repo := persistence.NewUserRepository(db)
	_, err = repo.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserCreate_DefaultsRole(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectPrepare(`INSERT INTO users .+ RETURNING id, created_at, updated_at`).
		ExpectQuery().
		WithArgs("alice@example.com", "Alice", "", model.RoleUser, model.ProviderGoogle, "g-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	repo := persistence.NewUserRepository(db)
	user, err := repo.Create(context.Background(), &model.User{
		Email:      "alice@example.com",
		Name:       "Alice",
		Provider:   model.ProviderGoogle,
		ProviderID: "g-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, model.RoleUser, user.Role)
}

func TestUserUpdateRole_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPrepare(`UPDATE users SET role = \$2`).
		ExpectExec().
		WithArgs(int64(404), model.RoleAdmin).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := persistence.NewUserRepository(db)
	err = repo.UpdateRole(context.Background(), 404, model.RoleAdmin)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// Deleting a user removes their social accounts in the same transaction.
func TestUserDelete_CascadesSocialAccounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM social_accounts WHERE user_id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := persistence.NewUserRepository(db)
	require.NoError(t, repo.Delete(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDelete_NotFoundRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM social_accounts WHERE user_id = \$1`).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM users WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	repo := persistence.NewUserRepository(db)
	err = repo.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
