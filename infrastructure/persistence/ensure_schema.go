package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// EnsureCoreSchema creates the users and social_accounts tables on PostgreSQL
// if they are missing. Safe to call at startup.
func EnsureCoreSchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ddls := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			avatar TEXT,
			role TEXT NOT NULL DEFAULT 'user',
			provider TEXT,
			provider_id TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS social_accounts (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			platform TEXT NOT NULL,
			username TEXT NOT NULL DEFAULT '',
			connected BOOLEAN NOT NULL DEFAULT FALSE,
			access_token TEXT,
			token_expires_at TIMESTAMPTZ,
			external_id TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			CONSTRAINT ux_social_accounts_user_platform UNIQUE (user_id, platform)
		)`,
	}
	for _, ddl := range ddls {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensuring core schema: %w", err)
		}
	}
	return nil
}

// EnsureCoreSchemaMSSQL is the SQL Server counterpart of EnsureCoreSchema.
func EnsureCoreSchemaMSSQL(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ddls := []string{
		`IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.users') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[users] (
        id BIGINT IDENTITY(1,1) PRIMARY KEY,
        email NVARCHAR(255) NOT NULL,
        name NVARCHAR(255) NOT NULL,
        avatar NVARCHAR(512) NULL,
        role NVARCHAR(32) NOT NULL DEFAULT 'user',
        provider NVARCHAR(32) NULL,
        provider_id NVARCHAR(128) NULL,
        created_at DATETIME2 NOT NULL,
        updated_at DATETIME2 NOT NULL
    );
    CREATE UNIQUE INDEX UX_users_email ON dbo.[users](email);
END`,
		`IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.social_accounts') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[social_accounts] (
        id BIGINT IDENTITY(1,1) PRIMARY KEY,
        user_id BIGINT NOT NULL,
        platform NVARCHAR(32) NOT NULL,
        username NVARCHAR(255) NOT NULL DEFAULT '',
        connected BIT NOT NULL DEFAULT 0,
        access_token NVARCHAR(MAX) NULL,
        token_expires_at DATETIME2 NULL,
        external_id NVARCHAR(128) NULL,
        created_at DATETIME2 NOT NULL,
        updated_at DATETIME2 NOT NULL
    );
    CREATE UNIQUE INDEX UX_social_accounts_user_platform ON dbo.[social_accounts](user_id, platform);
END`,
	}
	for _, ddl := range ddls {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("ensuring core schema (mssql): %w", err)
		}
	}
	return nil
}

// EnsureCoreSchemaMySQL migrates the gorm row mappings on the MySQL vendor
// path.
func EnsureCoreSchemaMySQL(db *gorm.DB) error {
	return db.AutoMigrate(&userRow{}, &socialAccountRow{})
}
