package persistence

import (
	"context"
	"database/sql"
	"errors"

	"creator-studio/domain/model"
	"creator-studio/domain/repository"
	"creator-studio/infrastructure/logger"
)

// UserRepositoryMSSQL is a SQL Server implementation of IUser using database/sql.
type UserRepositoryMSSQL struct{ db *sql.DB }

func NewUserRepositoryMSSQL(db *sql.DB) repository.IUser { return &UserRepositoryMSSQL{db} }

const userColumnsMSSQL = `id, email, name, avatar, role, provider, provider_id, created_at, updated_at`

func (r *UserRepositoryMSSQL) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumnsMSSQL+` FROM dbo.[users] WHERE id = @p1`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mssql: query user by id failed")
	}
	return u, err
}

func (r *UserRepositoryMSSQL) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumnsMSSQL+` FROM dbo.[users] WHERE email = @p1`, email)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("mssql: query user by email failed")
	}
	return u, err
}

func (r *UserRepositoryMSSQL) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO dbo.[users] (email, name, avatar, role, provider, provider_id, created_at, updated_at)
		 OUTPUT INSERTED.id, INSERTED.created_at, INSERTED.updated_at
		 VALUES (@p1, @p2, @p3, @p4, @p5, @p6, SYSUTCDATETIME(), SYSUTCDATETIME())`,
		user.Email, user.Name, user.Avatar, user.Role, user.Provider, user.ProviderID)
	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		logger.GetLogger().WithField("error", err).Error("mssql: insert user failed")
		return nil, err
	}
	return user, nil
}

func (r *UserRepositoryMSSQL) Update(ctx context.Context, user *model.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE dbo.[users] SET name=@p2, avatar=@p3, provider=@p4, provider_id=@p5, updated_at=SYSUTCDATETIME() WHERE id=@p1`,
		user.ID, user.Name, user.Avatar, user.Provider, user.ProviderID)
	return err
}

func (r *UserRepositoryMSSQL) UpdateRole(ctx context.Context, id int64, role string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE dbo.[users] SET role=@p2, updated_at=SYSUTCDATETIME() WHERE id=@p1`, id, role)
	if err != nil {
		return err
	}
	if n, raErr := res.RowsAffected(); raErr == nil && n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepositoryMSSQL) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumnsMSSQL+` FROM dbo.[users] ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepositoryMSSQL) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM dbo.[social_accounts] WHERE user_id=@p1`, id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM dbo.[users] WHERE id=@p1`, id); err != nil {
		return err
	}
	if n, raErr := res.RowsAffected(); raErr == nil && n == 0 {
		err = model.ErrNotFound
		return err
	}
	err = tx.Commit()
	return err
}
