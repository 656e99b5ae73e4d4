package test_functional

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile(t *testing.T) {
	u := AppBaseURL
	u.Path = "/profile"

	t.Run("empty update is rejected", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		resp, err := resty.New().
			R().
			SetHeader("Content-Type", "application/json").
			SetContext(ctx).
			SetBody(`{"user_id": 3}`).
			Put(u.String())
		assert.Nil(t, err)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
		assert.JSONEq(t, `{"error": "No updates provided"}`, resp.String())
	})

	t.Run("password change", func(t *testing.T) {
		defer FlushDB()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		userID, err := SeedUser(ctx, "Anna")
		require.NoError(t, err)

		resp, err := resty.New().
			R().
			SetHeader("Content-Type", "application/json").
			SetContext(ctx).
			SetBody(fmt.Sprintf(`{"user_id": %d, "password": "s3cr3t"}`, userID)).
			Put(u.String())
		assert.Nil(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.NotContains(t, resp.String(), "password")

		var hash string
		err = DBConn.QueryRow(ctx, "SELECT password_hash FROM users WHERE id=$1", userID).Scan(&hash)
		assert.Nil(t, err)
		assert.NotEqual(t, "$fixture", hash)
	})

	t.Run("unknown user", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		resp, err := resty.New().
			R().
			SetHeader("Content-Type", "application/json").
			SetContext(ctx).
			SetBody(`{"user_id": 999999999, "nickname": "ghost"}`).
			Put(u.String())
		assert.Nil(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode())
		assert.JSONEq(t, `{"error": "User not found"}`, resp.String())
	})
}
