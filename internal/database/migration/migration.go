package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"docvault/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelQuery checks for the table created by the last step.
const sentinelQuery = "SELECT to_regclass('public.admin_credentials') IS NOT NULL"

var steps = []migrationStep{
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id               UUID        PRIMARY KEY,
  name             TEXT        NOT NULL CHECK (name <> ''),
  file_type        TEXT        NOT NULL CHECK (file_type <> ''),
  file_data        BYTEA       NULL,
  storage_path     TEXT        NULL UNIQUE,
  size             BIGINT      NOT NULL CHECK (size >= 0),
  owner            TEXT        NOT NULL CHECK (owner IN ('MATTHEW', 'MOM', 'DAD', 'SAMUEL')),
  share_enabled    BOOLEAN     NOT NULL DEFAULT false,
  share_token      TEXT        NULL UNIQUE,
  share_expires_at TIMESTAMPTZ NULL,
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
  CONSTRAINT documents_share_consistent CHECK (
    (share_enabled AND share_token IS NOT NULL AND share_expires_at IS NOT NULL)
    OR (NOT share_enabled AND share_token IS NULL AND share_expires_at IS NULL)
  )
);`,
	},
	{
		Name: "create_index_documents_owner_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_owner_created_at ON documents (owner, created_at DESC);`,
	},
	{
		Name: "create_index_documents_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents (created_at DESC);`,
	},
	{
		Name: "create_index_documents_share",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_share ON documents (share_token, share_enabled, share_expires_at);`,
	},
	{
		Name: "create_table_admin_credentials",
		SQL: `CREATE TABLE IF NOT EXISTS admin_credentials (
  id            SMALLINT    PRIMARY KEY DEFAULT 1 CHECK (id = 1),
  password_hash TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
}

// EnsureMigrated checks if the schema exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *logging.Logger, dbHost string) error {
	log = log.With("database")
	start := time.Now()

	log.Info("db_migration_check", logging.Fields{
		"status":  "starting",
		"db_host": dbHost,
	})

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery).Scan(&exists); err != nil {
		log.Error("db_migration_failed", err, logging.Fields{
			"status":      "error",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip", logging.Fields{
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	log.Info("db_migration_start", logging.Fields{
		"status":  "in_progress",
		"db_host": dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed", err, logging.Fields{
				"status":           "error",
				"migration_step":   step.Name,
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step", logging.Fields{
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	log.Info("db_migration_success", logging.Fields{
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}
