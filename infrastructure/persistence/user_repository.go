package persistence

import (
	"context"
	"database/sql"
	"errors"

	"creator-studio/domain/model"
	"creator-studio/domain/repository"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.IUser {
	return &UserRepository{db: db}
}

const userColumns = `u.id, u.email, u.name, u.avatar, u.role, u.provider, u.provider_id, u.created_at, u.updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	var u model.User
	var avatar, provider, providerID sql.NullString
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &avatar, &u.Role, &provider, &providerID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Avatar = avatar.String
	u.Provider = provider.String
	u.ProviderID = providerID.String
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	stmt, err := r.db.PrepareContext(ctx, `SELECT `+userColumns+` FROM users AS u WHERE u.id = $1`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	u, err := scanUser(stmt.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return u, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	stmt, err := r.db.PrepareContext(ctx, `SELECT `+userColumns+` FROM users AS u WHERE u.email = $1`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	u, err := scanUser(stmt.QueryRowContext(ctx, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	return u, err
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	stmt, err := r.db.PrepareContext(ctx, `INSERT INTO users (email, name, avatar, role, provider, provider_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW()) RETURNING id, created_at, updated_at`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	row := stmt.QueryRowContext(ctx, user.Email, user.Name, user.Avatar, user.Role, user.Provider, user.ProviderID)
	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	stmt, err := r.db.PrepareContext(ctx, `UPDATE users SET name = $2, avatar = $3, provider = $4, provider_id = $5, updated_at = NOW() WHERE id = $1`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	_, err = stmt.ExecContext(ctx, user.ID, user.Name, user.Avatar, user.Provider, user.ProviderID)
	return err
}

func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role string) error {
	stmt, err := r.db.PrepareContext(ctx, `UPDATE users SET role = $2, updated_at = NOW() WHERE id = $1`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	res, err := stmt.ExecContext(ctx, id, role)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	stmt, err := r.db.PrepareContext(ctx, `SELECT `+userColumns+` FROM users AS u ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()
	rows, err := stmt.QueryContext(ctx)
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

// Delete removes the user and, in the same transaction, the social accounts
// it owns.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM social_accounts WHERE user_id = $1`, id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id); err != nil {
		return err
	}
	if n, raErr := res.RowsAffected(); raErr == nil && n == 0 {
		err = model.ErrNotFound
		return err
	}
	err = tx.Commit()
	return err
}
