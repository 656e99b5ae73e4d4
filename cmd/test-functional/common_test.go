package test_functional

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

var (
	AppBaseURL url.URL
	DBConn     *pgx.Conn
)

// FlushDB removes everything the tests created. Works and favorites are
// owned by this suite entirely; users are only the fixture ones.
func FlushDB() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	if _, err := DBConn.Exec(ctx, "TRUNCATE favorites, works RESTART IDENTITY"); err != nil {
		panic(err)
	}
	if _, err := DBConn.Exec(ctx, "DELETE FROM users WHERE username LIKE 'ftest_%'"); err != nil {
		panic(err)
	}
}

// SeedUser inserts a fixture user and returns its id.
func SeedUser(ctx context.Context, nickname string) (uint64, error) {
	var id uint64
	err := DBConn.QueryRow(ctx,
		"INSERT INTO users (username, nickname, password_hash, is_admin) VALUES ($1, $2, $3, false) RETURNING id",
		"ftest_"+uuid.New().String(), nickname, "$fixture",
	).Scan(&id)
	return id, err
}
