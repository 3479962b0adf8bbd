package server

import (
	"context"
	"fmt"
	"os"
)

// Will open the store selected by the STORE env var.
func CreateStore(ctx context.Context) (Store, error) {
	switch store := os.Getenv("STORE"); store {
	case "sqlite":
		return CreateSQLiteStore(os.Getenv("SQLITE_PATH"))

	case "postgres", "":
		return CreatePostgresStore(ctx, PostgresConnString())

	default:
		return nil, fmt.Errorf("unknown store %q", store)
	}
}

// Builds the pgx connection string from the DB_* env vars.
func PostgresConnString() string {
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASS")
	db := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	maxConns := MAX_PG_CONN

	return fmt.Sprintf("user=%v password=%v dbname=%v host=%v pool_max_conns=%v", user, pass, db, host, maxConns)
}
