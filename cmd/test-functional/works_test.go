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

func TestWorks(t *testing.T) {
	u := AppBaseURL
	u.Path = "/works"

	t.Run("create with defaults", func(t *testing.T) {
		defer FlushDB()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		userID, err := SeedUser(ctx, "Anna")
		require.NoError(t, err)

		type Work struct {
			ID    uint64 `json:"id"`
			Title string `json:"title"`
		}
		type Resp struct {
			Success bool `json:"success"`
			Work    Work `json:"work"`
		}

		resp, err := resty.New().
			R().
			SetHeader("Content-Type", "application/json").
			SetContext(ctx).
			SetResult(&Resp{}).
			SetBody(fmt.Sprintf(`{"user_id": %d, "image_data": "data:image/png;base64,AAAA"}`, userID)).
			Post(u.String())
		assert.Nil(t, err)

		assert.Equal(t, http.StatusCreated, resp.StatusCode())
		assert.Equal(t, "*", resp.Header().Get("Access-Control-Allow-Origin"))

		got, ok := resp.Result().(*Resp)
		assert.True(t, ok)
		assert.True(t, got.Success)
		assert.NotZero(t, got.Work.ID)
		assert.Equal(t, "Без названия", got.Work.Title)

		var title string
		err = DBConn.QueryRow(ctx, "SELECT title FROM works WHERE id=$1", got.Work.ID).Scan(&title)
		assert.Nil(t, err)
		assert.Equal(t, "Без названия", title)
	})

	t.Run("soft delete keeps the row", func(t *testing.T) {
		defer FlushDB()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		userID, err := SeedUser(ctx, "Anna")
		require.NoError(t, err)

		var workID uint64
		err = DBConn.QueryRow(ctx,
			"INSERT INTO works (user_id, title, description, image_url) VALUES ($1, 'portrait', '', 'data:...') RETURNING id",
			userID,
		).Scan(&workID)
		require.NoError(t, err)

		resp, err := resty.New().
			R().
			SetContext(ctx).
			SetQueryParam("id", fmt.Sprint(workID)).
			Delete(u.String())
		assert.Nil(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())

		var (
			title string
			image string
		)
		err = DBConn.QueryRow(ctx, "SELECT title, image_url FROM works WHERE id=$1", workID).Scan(&title, &image)
		assert.Nil(t, err)
		assert.Equal(t, "[Deleted]", title)
		assert.Equal(t, "", image)
	})

	t.Run("preflight", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		resp, err := resty.New().
			R().
			SetContext(ctx).
			Options(u.String())
		assert.Nil(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Empty(t, resp.String())
		assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", resp.Header().Get("Access-Control-Allow-Methods"))
		assert.Equal(t, "86400", resp.Header().Get("Access-Control-Max-Age"))
	})
}
