package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"briefcard/domain"
)

type bookmarkFixture struct {
	handler  *BookmarkHandler
	repo     *stubBookmarkRepo
	pipeline *stubPipeline
	gateway  *stubGateway
	echo     *echo.Echo
}

func newBookmarkFixture() *bookmarkFixture {
	repo := newStubBookmarkRepo()
	pipeline := &stubPipeline{}
	gateway := &stubGateway{}

	handler := NewBookmarkHandler(repo, pipeline, stubRenderer{}, gateway, testLogger())
	handler.spawn = func(fn func()) { fn() }

	return &bookmarkFixture{
		handler:  handler,
		repo:     repo,
		pipeline: pipeline,
		gateway:  gateway,
		echo:     echo.New(),
	}
}

func TestBookmarkHandler_HandleCreate(t *testing.T) {
	t.Run("should create bookmark and start background processing", func(t *testing.T) {
		f := newBookmarkFixture()

		req, rec := newJSONRequest(http.MethodPost, "/api/v1/bookmarks", `{"url":"https://example.com/a","user_id":"user-1"}`)
		c := f.echo.NewContext(req, rec)

		require.NoError(t, f.handler.HandleCreate(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp BookmarkResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "https://example.com/a", resp.URL)
		assert.Equal(t, "user-1", resp.UserID)
		assert.Equal(t, "pending", resp.Status)

		assert.Equal(t, 1, f.pipeline.runCount())
	})

	t.Run("should default to anonymous user", func(t *testing.T) {
		f := newBookmarkFixture()

		req, rec := newJSONRequest(http.MethodPost, "/api/v1/bookmarks", `{"url":"https://example.com/a"}`)
		c := f.echo.NewContext(req, rec)

		require.NoError(t, f.handler.HandleCreate(c))

		var resp BookmarkResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "anonymous", resp.UserID)
	})

	t.Run("should reject invalid URLs", func(t *testing.T) {
		f := newBookmarkFixture()

		for _, body := range []string{`{"url":""}`, `{"url":"not-a-url"}`} {
			req, rec := newJSONRequest(http.MethodPost, "/api/v1/bookmarks", body)
			c := f.echo.NewContext(req, rec)

			err := f.handler.HandleCreate(c)
			require.Error(t, err)

			httpErr, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		}

		assert.Equal(t, 0, f.pipeline.runCount())
	})
}

func TestBookmarkHandler_HandleGet(t *testing.T) {
	t.Run("should return bookmark by id", func(t *testing.T) {
		f := newBookmarkFixture()
		f.repo.bookmarks["bm-1"] = &domain.Bookmark{ID: "bm-1", Title: "Saved", Status: domain.BookmarkStatusCompleted}

		req, rec := newJSONRequest(http.MethodGet, "/api/v1/bookmarks/bm-1", "")
		c := f.echo.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("bm-1")

		require.NoError(t, f.handler.HandleGet(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		var resp BookmarkResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Saved", resp.Title)
		assert.Equal(t, "completed", resp.Status)
	})

	t.Run("should return 404 for missing bookmark", func(t *testing.T) {
		f := newBookmarkFixture()

		req, rec := newJSONRequest(http.MethodGet, "/api/v1/bookmarks/ghost", "")
		c := f.echo.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("ghost")

		err := f.handler.HandleGet(c)
		require.Error(t, err)

		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestBookmarkHandler_HandleUpdate(t *testing.T) {
	t.Run("should apply partial updates", func(t *testing.T) {
		f := newBookmarkFixture()
		f.repo.bookmarks["bm-1"] = &domain.Bookmark{ID: "bm-1", Title: "Old"}

		req, rec := newJSONRequest(http.MethodPatch, "/api/v1/bookmarks/bm-1", `{"title":"New title","notes":"my note"}`)
		c := f.echo.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("bm-1")

		require.NoError(t, f.handler.HandleUpdate(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, "New title", f.repo.bookmarks["bm-1"].Title)
		assert.Equal(t, "my note", f.repo.bookmarks["bm-1"].Notes)
	})

	t.Run("should return 404 for missing bookmark", func(t *testing.T) {
		f := newBookmarkFixture()

		req, rec := newJSONRequest(http.MethodPatch, "/api/v1/bookmarks/ghost", `{"title":"x"}`)
		c := f.echo.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues("ghost")

		err := f.handler.HandleUpdate(c)
		require.Error(t, err)

		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}

func TestBookmarkHandler_HandleHistory(t *testing.T) {
	t.Run("should return bookmarks with pagination", func(t *testing.T) {
		f := newBookmarkFixture()
		f.repo.listed = []*domain.Bookmark{{ID: "a"}, {ID: "b"}}
		f.repo.stats = &domain.BookmarkStats{Total: 45}

		req, rec := newJSONRequest(http.MethodGet, "/api/v1/bookmarks/history?user_id=user-1&page=2&limit=20", "")
		c := f.echo.NewContext(req, rec)

		require.NoError(t, f.handler.HandleHistory(c))

		var resp struct {
			Bookmarks  []BookmarkResponse `json:"bookmarks"`
			Pagination Pagination         `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Len(t, resp.Bookmarks, 2)
		assert.Equal(t, 2, resp.Pagination.CurrentPage)
		assert.Equal(t, 3, resp.Pagination.TotalPages)
		assert.Equal(t, 45, resp.Pagination.TotalItems)
		assert.True(t, resp.Pagination.HasNext)
		assert.True(t, resp.Pagination.HasPrev)
	})

	t.Run("should require user_id", func(t *testing.T) {
		f := newBookmarkFixture()

		req, rec := newJSONRequest(http.MethodGet, "/api/v1/bookmarks/history", "")
		c := f.echo.NewContext(req, rec)

		err := f.handler.HandleHistory(c)
		require.Error(t, err)

		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("should clamp invalid page and limit values", func(t *testing.T) {
		f := newBookmarkFixture()
		f.repo.stats = &domain.BookmarkStats{Total: 5}

		req, rec := newJSONRequest(http.MethodGet, "/api/v1/bookmarks/history?user_id=u&page=-3&limit=9999", "")
		c := f.echo.NewContext(req, rec)

		require.NoError(t, f.handler.HandleHistory(c))

		var resp struct {
			Pagination Pagination `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Pagination.CurrentPage)
		assert.Equal(t, defaultPageLimit, resp.Pagination.ItemsPerPage)
	})
}

func TestBookmarkHandler_HandleSearch(t *testing.T) {
	t.Run("should reject queries shorter than two characters", func(t *testing.T) {
		f := newBookmarkFixture()

		for _, q := range []string{"", "a", "%20a%20", "%E5%AD%97"} {
			req, rec := newJSONRequest(http.MethodGet, "/api/v1/bookmarks/search?user_id=u&q="+q, "")
			c := f.echo.NewContext(req, rec)

			err := f.handler.HandleSearch(c)
			require.Error(t, err, "query %q", q)

			httpErr, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		}
	})

	t.Run("should return matches with count", func(t *testing.T) {
		f := newBookmarkFixture()
		f.repo.listed = []*domain.Bookmark{{ID: "a", Title: "golang"}}

		req, rec := newJSONRequest(http.MethodGet, "/api/v1/bookmarks/search?user_id=u&q=golang", "")
		c := f.echo.NewContext(req, rec)

		require.NoError(t, f.handler.HandleSearch(c))

		var resp struct {
			Query   string             `json:"query"`
			Results []BookmarkResponse `json:"results"`
			Count   int                `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "golang", resp.Query)
		assert.Equal(t, 1, resp.Count)
	})

	t.Run("should accept two CJK characters", func(t *testing.T) {
		f := newBookmarkFixture()

		req, rec := newJSONRequest(http.MethodGet, "/api/v1/bookmarks/search?user_id=u&q=%E6%8A%80%E8%A1%93", "")
		c := f.echo.NewContext(req, rec)

		require.NoError(t, f.handler.HandleSearch(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestBookmarkHandler_HandleStats(t *testing.T) {
	f := newBookmarkFixture()
	f.repo.stats = &domain.BookmarkStats{Total: 10, Today: 1, ThisWeek: 3, ThisMonth: 7}
	f.repo.listed = []*domain.Bookmark{{ID: "recent"}}

	req, rec := newJSONRequest(http.MethodGet, "/api/v1/bookmarks/stats?user_id=u", "")
	c := f.echo.NewContext(req, rec)

	require.NoError(t, f.handler.HandleStats(c))

	var resp struct {
		Statistics      domain.BookmarkStats `json:"statistics"`
		RecentBookmarks []BookmarkResponse   `json:"recent_bookmarks"`
		Summary         map[string]int       `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, 10, resp.Statistics.Total)
	assert.Len(t, resp.RecentBookmarks, 1)
	assert.Equal(t, 10, resp.Summary["total_saved"])
	assert.Equal(t, 1, resp.Summary["growth_today"])
}

func TestBookmarkHandler_HandleSendCard(t *testing.T) {
	t.Run("should push the re-rendered card", func(t *testing.T) {
		f := newBookmarkFixture()
		f.repo.bookmarks["bm-1"] = &domain.Bookmark{ID: "bm-1", Title: "Edited"}

		req, rec := newJSONRequest(http.MethodPost, "/api/v1/cards/send", `{"bookmark_id":"bm-1","user_id":"user-1"}`)
		c := f.echo.NewContext(req, rec)

		require.NoError(t, f.handler.HandleSendCard(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		require.Len(t, f.gateway.cards, 1)
		assert.Equal(t, "📋 Edited", f.gateway.cards[0])
	})

	t.Run("should require bookmark_id and user_id", func(t *testing.T) {
		f := newBookmarkFixture()

		req, rec := newJSONRequest(http.MethodPost, "/api/v1/cards/send", `{"bookmark_id":"bm-1"}`)
		c := f.echo.NewContext(req, rec)

		err := f.handler.HandleSendCard(c)
		require.Error(t, err)

		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})

	t.Run("should return 404 for missing bookmark", func(t *testing.T) {
		f := newBookmarkFixture()

		req, rec := newJSONRequest(http.MethodPost, "/api/v1/cards/send", `{"bookmark_id":"ghost","user_id":"u"}`)
		c := f.echo.NewContext(req, rec)

		err := f.handler.HandleSendCard(c)
		require.Error(t, err)

		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusNotFound, httpErr.Code)
	})
}
