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

func socialAccountRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "user_id", "platform", "username", "connected",
		"access_token", "token_expires_at", "external_id", "created_at", "updated_at",
	})
}

func TestSocialAccountUpsert_UsesConflictClause(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	token := "enc:abc"
	igID := "ig-42"
	expiry := time.Now().Add(60 * 24 * time.Hour)

	// The statement must target the (user_id, platform) unique constraint so
	// a reconnect replaces the existing row instead of adding one.
	mock.ExpectExec(`INSERT INTO social_accounts .+ ON CONFLICT \(user_id, platform\) DO UPDATE SET`).
		WithArgs(int64(7), model.PlatformInstagram, "creator", true, &token, sqlmock.AnyArg(), &igID, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := persistence.NewSocialAccountRepository(db)
	err = repo.Upsert(context.Background(), &model.SocialAccount{
		UserID:         7,
		Platform:       model.PlatformInstagram,
		Username:       "creator",
		Connected:      true,
		AccessToken:    &token,
		TokenExpiresAt: &expiry,
		ExternalID:     &igID,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialAccountGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM social_accounts WHERE user_id=\$1 AND platform=\$2`).
		WithArgs(int64(7), model.PlatformInstagram).
		WillReturnRows(socialAccountRows().
			AddRow(int64(1), int64(7), model.PlatformInstagram, "creator", true,
				"enc:abc", now.Add(time.Hour), "ig-42", now, now))

	repo := persistence.NewSocialAccountRepository(db)
	account, err := repo.Get(context.Background(), 7, model.PlatformInstagram)
	require.NoError(t, err)
	assert.Equal(t, "creator", account.Username)
	require.NotNil(t, account.AccessToken)
	assert.Equal(t, "enc:abc", *account.AccessToken)
	assert.True(t, account.Usable(now))
}

func TestSocialAccountGet_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM social_accounts`).
		WithArgs(int64(7), model.PlatformTikTok).
		WillReturnRows(socialAccountRows())

	repo := persistence.NewSocialAccountRepository(db)
	_, err = repo.Get(context.Background(), 7, model.PlatformTikTok)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestSocialAccountDisconnect_Idempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// First call clears a live row, second call affects nothing; both succeed.
	mock.ExpectExec(`UPDATE social_accounts SET access_token=NULL, token_expires_at=NULL, external_id=NULL, connected=FALSE`).
		WithArgs(int64(7), model.PlatformInstagram).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE social_accounts SET access_token=NULL, token_expires_at=NULL, external_id=NULL, connected=FALSE`).
		WithArgs(int64(7), model.PlatformInstagram).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := persistence.NewSocialAccountRepository(db)
	require.NoError(t, repo.Disconnect(context.Background(), 7, model.PlatformInstagram))
	require.NoError(t, repo.Disconnect(context.Background(), 7, model.PlatformInstagram))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSocialAccountListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM social_accounts WHERE user_id=\$1 ORDER BY platform`).
		WithArgs(int64(7)).
		WillReturnRows(socialAccountRows().
			AddRow(int64(1), int64(7), model.PlatformInstagram, "creator", true,
				"enc:abc", now.Add(time.Hour), "ig-42", now, now).
			AddRow(int64(2), int64(7), model.PlatformTikTok, "", false,
				nil, nil, nil, now, now))

	repo := persistence.NewSocialAccountRepository(db)
	accounts, err := repo.ListByUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.True(t, accounts[0].Usable(now))
	assert.False(t, accounts[1].Usable(now))
	assert.Nil(t, accounts[1].AccessToken)
}
