package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"creator-studio/domain/model"
	"creator-studio/domain/repository"
)

// SocialAccountRepository persists platform connections in PostgreSQL.
type SocialAccountRepository struct {
	db *sql.DB
}

func NewSocialAccountRepository(db *sql.DB) repository.ISocialAccount {
	return &SocialAccountRepository{db: db}
}

const socialAccountColumns = `id, user_id, platform, username, connected, access_token, token_expires_at, external_id, created_at, updated_at`

// Upsert inserts or replaces the single row for (user_id, platform). The
// unique constraint makes concurrent connects collapse into one row.
func (r *SocialAccountRepository) Upsert(ctx context.Context, a *model.SocialAccount) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	q := `INSERT INTO social_accounts (user_id, platform, username, connected, access_token, token_expires_at, external_id, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	ON CONFLICT (user_id, platform) DO UPDATE SET
		username=EXCLUDED.username,
		connected=EXCLUDED.connected,
		access_token=EXCLUDED.access_token,
		token_expires_at=EXCLUDED.token_expires_at,
		external_id=EXCLUDED.external_id,
		updated_at=EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, q,
		a.UserID, a.Platform, a.Username, a.Connected,
		a.AccessToken, a.TokenExpiresAt, a.ExternalID,
		a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *SocialAccountRepository) Get(ctx context.Context, userID int64, platform string) (*model.SocialAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+socialAccountColumns+` FROM social_accounts WHERE user_id=$1 AND platform=$2`,
		userID, platform)
	a, err := scanSocialAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return a, err
}

func (r *SocialAccountRepository) ListByUser(ctx context.Context, userID int64) ([]*model.SocialAccount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+socialAccountColumns+` FROM social_accounts WHERE user_id=$1 ORDER BY platform`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.SocialAccount
	for rows.Next() {
		a, err := scanSocialAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Disconnect blanks the credential fields. Idempotent: a second call, or a
// call for a row that never existed, succeeds with no effect.
func (r *SocialAccountRepository) Disconnect(ctx context.Context, userID int64, platform string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE social_accounts SET access_token=NULL, token_expires_at=NULL, external_id=NULL, connected=FALSE, updated_at=NOW()
		 WHERE user_id=$1 AND platform=$2`,
		userID, platform)
	return err
}

func scanSocialAccount(row interface{ Scan(...interface{}) error }) (*model.SocialAccount, error) {
	a := &model.SocialAccount{}
	var token, externalID sql.NullString
	var expiresAt sql.NullTime
	if err := row.Scan(&a.ID, &a.UserID, &a.Platform, &a.Username, &a.Connected,
		&token, &expiresAt, &externalID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if token.Valid {
		v := token.String
		a.AccessToken = &v
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		a.TokenExpiresAt = &t
	}
	if externalID.Valid {
		v := externalID.String
		a.ExternalID = &v
	}
	return a, nil
}
