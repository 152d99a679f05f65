package sqlstore

import (
	"context"

	"regsim/internal/config"
	"regsim/internal/errors"
	"regsim/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know
	sqlx.BindDriver(config.DriverSQLite, sqlx.QUESTION)
}

// Open connects to the configured database and applies migrations
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	if driver != config.DriverPostgres && driver != config.DriverSQLite {
		return nil, errors.ConfigInvalid("unsupported SQL driver: " + driver)
	}
	if dsn == "" {
		return nil, errors.ConfigInvalid("data source name is required for " + driver)
	}

	db, err := sqlx.ConnectContext(ctx, driver, dsn)
	if err != nil {
		return nil, errors.DatabaseError("failed to connect to database", err)
	}
	if driver == config.DriverSQLite {
		// one writer; also keeps ":memory:" databases on a single connection
		db.SetMaxOpenConns(1)
	}

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
