package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"creator-studio/domain/model"
	"creator-studio/domain/repository"
)

// SocialAccountRepositoryMSSQL is the SQL Server implementation of
// ISocialAccount.
type SocialAccountRepositoryMSSQL struct{ db *sql.DB }

func NewSocialAccountRepositoryMSSQL(db *sql.DB) repository.ISocialAccount {
	return &SocialAccountRepositoryMSSQL{db: db}
}

func (r *SocialAccountRepositoryMSSQL) Upsert(ctx context.Context, a *model.SocialAccount) error {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	var token, externalID sql.NullString
	if a.AccessToken != nil {
		token = sql.NullString{String: *a.AccessToken, Valid: true}
	}
	if a.ExternalID != nil {
		externalID = sql.NullString{String: *a.ExternalID, Valid: true}
	}
	var expiresAt sql.NullTime
	if a.TokenExpiresAt != nil {
		expiresAt = sql.NullTime{Time: *a.TokenExpiresAt, Valid: true}
	}
	q := `MERGE dbo.[social_accounts] AS target
USING (VALUES (@p1, @p2)) AS src(user_id, platform)
ON target.user_id = src.user_id AND target.platform = src.platform
WHEN MATCHED THEN UPDATE SET
    username=@p3,
    connected=@p4,
    access_token=@p5,
    token_expires_at=@p6,
    external_id=@p7,
    updated_at=@p9
WHEN NOT MATCHED THEN
    INSERT (user_id, platform, username, connected, access_token, token_expires_at, external_id, created_at, updated_at)
    VALUES (@p1,@p2,@p3,@p4,@p5,@p6,@p7,@p8,@p9);`
	_, err := r.db.ExecContext(ctx, q,
		a.UserID, a.Platform, a.Username, a.Connected,
		token, expiresAt, externalID,
		a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (r *SocialAccountRepositoryMSSQL) Get(ctx context.Context, userID int64, platform string) (*model.SocialAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+socialAccountColumns+` FROM dbo.[social_accounts] WHERE user_id=@p1 AND platform=@p2`,
		userID, platform)
	a, err := scanSocialAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return a, err
}

func (r *SocialAccountRepositoryMSSQL) ListByUser(ctx context.Context, userID int64) ([]*model.SocialAccount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+socialAccountColumns+` FROM dbo.[social_accounts] WHERE user_id=@p1 ORDER BY platform`,
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

func (r *SocialAccountRepositoryMSSQL) Disconnect(ctx context.Context, userID int64, platform string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE dbo.[social_accounts] SET access_token=NULL, token_expires_at=NULL, external_id=NULL, connected=0, updated_at=SYSUTCDATETIME()
		 WHERE user_id=@p1 AND platform=@p2`,
		userID, platform)
	return err
}
