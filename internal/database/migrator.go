package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/iamrajpal/goodfood/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

// All SQL files under migrations/ are embedded at compile time, so the
// binary carries its schema and needs no migrations directory at runtime.
//
//go:embed migrations/*.sql
var migrations embed.FS

// VersionTable stores the applied migration version.
const VersionTable = "schema_version"

// Migrate runs the embedded migrations up to the latest version against the
// database described by cfg.
//
// It opens a single dedicated connection from cfg.Database.DSN() rather
// than a pool, since migrating is a one-time action at startup, and closes
// it on return. The actual work happens in MigrateConn.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) error {
	conn, err := pgx.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	return MigrateConn(ctx, logger, conn)
}

// MigrateConn runs the embedded migrations over an open connection.
//
// Behavior:
//   - create a tern migrator that records the version in VersionTable
//   - load the files from the embedded FS; tern orders them by the
//     numeric filename prefix (001_, 002_, ...)
//   - migrate to the latest version, each file in its own transaction
//   - log whether the schema was already current or was moved forward
//
// The connection is left open for the caller.
func MigrateConn(ctx context.Context, logger *zerolog.Logger, conn *pgx.Conn) error {
	m, err := tern.NewMigrator(ctx, conn, VersionTable)
	if err != nil {
		return fmt.Errorf("constructing database migrator: %w", err)
	}

	// tern wants an fs.FS rooted at the directory holding the files.
	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("retrieving current database migration version: %w", err)
	}

	if err := m.Migrate(ctx); err != nil {
		return fmt.Errorf("migrating database schema: %w", err)
	}

	if from == int32(len(m.Migrations)) {
		logger.Info().Msgf("database schema up to date, version %d", len(m.Migrations))
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, len(m.Migrations))
	}
	return nil
}
