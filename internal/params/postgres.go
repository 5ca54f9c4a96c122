package params

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/prperemyshlev/token-authorizer/pkg/database"
)

//go:embed migrations/*.sql
var migrations embed.FS

// PostgresSource reads parameters from the parameters table
type PostgresSource struct {
	db *database.Postgres
}

// NewPostgresSource creates a new PostgreSQL parameter source
func NewPostgresSource(db *database.Postgres) *PostgresSource {
	return &PostgresSource{db: db}
}

func (s *PostgresSource) GetParameter(ctx context.Context, name string) (string, error) {
	query := `SELECT value FROM parameters WHERE name = $1`

	var value string
	err := s.db.DB.QueryRowContext(ctx, query, name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", name, ErrParameterNotFound)
		}
		return "", fmt.Errorf("failed to get parameter %s from postgres: %w", name, err)
	}
	return value, nil
}

// Migrate applies the embedded schema migrations for the parameters table
func Migrate(db *database.Postgres) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}

	driver, err := migratepostgres.WithInstance(db.DB, &migratepostgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
