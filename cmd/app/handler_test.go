package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/bloglist/internal/store"
)

var sampleBlog = map[string]any{
	"title":  "Canonical string reduction",
	"author": "Edsger W. Dijkstra",
	"url":    "http://www.cs.utexas.edu/~EWD/transcriptions/EWD08xx/EWD808.html",
	"likes":  12,
}

func seedBlogs(t *testing.T, app *application) []store.Blog {
	blogs := []store.Blog{
		{Title: "React patterns", Author: "Michael Chan", URL: "https://reactpatterns.com/", Likes: 7},
		{Title: "Go To Statement Considered Harmful", Author: "Edsger W. Dijkstra", URL: "http://www.u.arizona.edu/~rubinson/copyright_violations/Go_To_Considered_Harmful.html", Likes: 5},
		{Title: "First class tests", Author: "Robert C. Martin", URL: "http://blog.cleancoder.com/uncle-bob/2017/05/05/TestDefinitions.htmll", Likes: 10},
	}
	for i := range blogs {
		require.NoError(t, app.store.Blogs().Create(context.Background(), &blogs[i]))
	}
	return blogs
}

func listBlogs(t *testing.T, ts *testServer) []store.Blog {
	status, _, body := ts.get(t, "/api/blogs")
	require.Equal(t, http.StatusOK, status)
	return decode[[]store.Blog](t, body)
}

func TestGetAllBlogsHandler(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, header, body := ts.get(t, "/api/blogs")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", header.Get("Content-Type"))
	assert.JSONEq(t, "[]", string(body))

	seeded := seedBlogs(t, app)

	blogs := listBlogs(t, ts)
	require.Len(t, blogs, len(seeded))
	for _, b := range blogs {
		assert.NotEmpty(t, b.ID)
	}
}

func TestCreateBlogHandler(t *testing.T) {
	testCases := []struct {
		name       string
		payload    map[string]any
		wantStatus int
		wantError  string
		wantLikes  int
	}{
		{
			name:       "Valid Request",
			payload:    sampleBlog,
			wantStatus: http.StatusCreated,
			wantLikes:  12,
		},
		{
			name:       "Missing Likes",
			payload:    map[string]any{"title": "t", "author": "a", "url": "u"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Null Likes",
			payload:    map[string]any{"title": "t", "author": "a", "url": "u", "likes": nil},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Zero Likes",
			payload:    map[string]any{"title": "t", "author": "a", "url": "u", "likes": 0},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "Missing Title",
			payload:    map[string]any{"author": "a", "url": "u"},
			wantStatus: http.StatusBadRequest,
			wantError:  "title must be provided",
		},
		{
			name:       "Missing Author",
			payload:    map[string]any{"title": "t", "url": "u"},
			wantStatus: http.StatusBadRequest,
			wantError:  "author must be provided",
		},
		{
			name:       "Empty Url",
			payload:    map[string]any{"title": "t", "author": "a", "url": ""},
			wantStatus: http.StatusBadRequest,
			wantError:  "url must be provided",
		},
		{
			name:       "Missing Everything",
			payload:    map[string]any{},
			wantStatus: http.StatusBadRequest,
			wantError:  "title must be provided; author must be provided; url must be provided",
		},
		{
			name:       "Negative Likes",
			payload:    map[string]any{"title": "t", "author": "a", "url": "u", "likes": -1},
			wantStatus: http.StatusBadRequest,
			wantError:  "likes must be greater than or equal to 0",
		},
		{
			name:       "Likes Too Large",
			payload:    map[string]any{"title": "t", "author": "a", "url": "u", "likes": 1 << 31},
			wantStatus: http.StatusBadRequest,
			wantError:  "likes must be less than or equal to 2147483647",
		},
		{
			name:       "Unknown User",
			payload:    map[string]any{"title": "t", "author": "a", "url": "u", "userId": strings.Repeat("a", 21)},
			wantStatus: http.StatusBadRequest,
			wantError:  "userId does not match an existing user",
		},
		{
			name:       "Malformed User",
			payload:    map[string]any{"title": "t", "author": "a", "url": "u", "userId": "not-a-valid-id!"},
			wantStatus: http.StatusBadRequest,
			wantError:  "malformatted id",
		},
		{
			name:       "Unknown Field",
			payload:    map[string]any{"title": "t", "author": "a", "url": "u", "rating": 5},
			wantStatus: http.StatusBadRequest,
			wantError:  `request body contains unknown field "rating"`,
		},
		{
			name:       "Wrong Type",
			payload:    map[string]any{"title": "t", "author": "a", "url": "u", "likes": "many"},
			wantStatus: http.StatusBadRequest,
			wantError:  `request body contains an invalid value for the "likes" field`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApplication(t)
			ts := newTestServer(t, app.routes())

			status, _, body := ts.post(t, "/api/blogs", tc.payload)
			assert.Equal(t, tc.wantStatus, status)

			if tc.wantStatus != http.StatusCreated {
				assert.Equal(t, tc.wantError, errorMessage(t, body))
				assert.Empty(t, listBlogs(t, ts))
				return
			}

			blog := decode[store.Blog](t, body)
			assert.NotEmpty(t, blog.ID)
			assert.Equal(t, tc.payload["title"], blog.Title)
			assert.Equal(t, tc.payload["author"], blog.Author)
			assert.Equal(t, tc.payload["url"], blog.URL)
			assert.Equal(t, tc.wantLikes, blog.Likes)
			assert.Nil(t, blog.UserID)

			assert.Len(t, listBlogs(t, ts), 1)
		})
	}
}

func TestCreateBlogHandler_BadBody(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	testCases := []struct {
		name      string
		body      string
		wantError string
	}{
		{"Empty", "", "request body must not be empty"},
		{"Badly Formed", `{"title": "t",`, "request body contains badly-formed JSON"},
		{"Syntax Error", `{"title" "t"}`, "request body contains badly-formed JSON (at character 10)"},
		{"Two Values", `{"title": "t"}{"title": "u"}`, "request body must only contain a single JSON value"},
		{"Array", `[]`, "request body contains incorrect JSON type (at character 1)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ts.Client().Post(ts.URL+"/api/blogs", "application/json", strings.NewReader(tc.body))
			require.NoError(t, err)
			defer res.Body.Close()

			assert.Equal(t, http.StatusBadRequest, res.StatusCode)

			var got map[string]string
			require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
			assert.Equal(t, tc.wantError, got["error"])
		})
	}

	assert.Empty(t, listBlogs(t, ts))
}

func TestCreateBlogHandler_WithUser(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.post(t, "/api/users", map[string]any{"username": "root", "name": "Superuser", "password": "salainen"})
	require.Equal(t, http.StatusCreated, status)
	user := decode[store.User](t, body)

	payload := map[string]any{"title": "t", "author": "a", "url": "u", "userId": user.ID}
	status, _, body = ts.post(t, "/api/blogs", payload)
	require.Equal(t, http.StatusCreated, status)
	blog := decode[store.Blog](t, body)
	require.NotNil(t, blog.UserID)
	assert.Equal(t, user.ID, *blog.UserID)

	status, _, body = ts.get(t, "/api/users")
	require.Equal(t, http.StatusOK, status)
	users := decode[[]store.User](t, body)
	require.Len(t, users, 1)
	assert.Equal(t, []string{blog.ID}, users[0].Blogs)
}

func TestGetBlogHandler(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.post(t, "/api/blogs", sampleBlog)
	require.Equal(t, http.StatusCreated, status)
	created := decode[store.Blog](t, body)

	t.Run("Existing Blog", func(t *testing.T) {
		status, _, body := ts.get(t, "/api/blogs/"+created.ID)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, created, decode[store.Blog](t, body))
	})

	t.Run("Missing Blog", func(t *testing.T) {
		status, _, body := ts.get(t, "/api/blogs/"+strings.Repeat("a", 21))
		assert.Equal(t, http.StatusNotFound, status)
		assert.Empty(t, body)
	})

	t.Run("Malformed ID", func(t *testing.T) {
		status, _, body := ts.get(t, "/api/blogs/not-a-valid-id!")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "malformatted id", errorMessage(t, body))
	})
}

func TestUpdateBlogHandler(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.post(t, "/api/blogs", sampleBlog)
	require.Equal(t, http.StatusCreated, status)
	created := decode[store.Blog](t, body)

	t.Run("Full Replacement", func(t *testing.T) {
		payload := map[string]any{"title": "new title", "author": "new author", "url": "new url", "likes": 13}
		status, _, body := ts.put(t, "/api/blogs/"+created.ID, payload)
		require.Equal(t, http.StatusOK, status)

		updated := decode[store.Blog](t, body)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "new title", updated.Title)
		assert.Equal(t, 13, updated.Likes)

		_, _, body = ts.get(t, "/api/blogs/"+created.ID)
		assert.Equal(t, updated, decode[store.Blog](t, body))
	})

	t.Run("Absent Fields Are Cleared", func(t *testing.T) {
		status, _, body := ts.put(t, "/api/blogs/"+created.ID, map[string]any{"likes": 1})
		require.Equal(t, http.StatusOK, status)

		updated := decode[store.Blog](t, body)
		assert.Equal(t, "", updated.Title)
		assert.Equal(t, 1, updated.Likes)
	})

	t.Run("Negative Likes", func(t *testing.T) {
		status, _, body := ts.put(t, "/api/blogs/"+created.ID, map[string]any{"likes": -3})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "likes must be greater than or equal to 0", errorMessage(t, body))
	})

	t.Run("Missing Blog", func(t *testing.T) {
		status, _, body := ts.put(t, "/api/blogs/"+strings.Repeat("a", 21), sampleBlog)
		assert.Equal(t, http.StatusNotFound, status)
		assert.Empty(t, body)
	})

	t.Run("Malformed ID", func(t *testing.T) {
		status, _, body := ts.put(t, "/api/blogs/not-a-valid-id!", sampleBlog)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "malformatted id", errorMessage(t, body))
	})
}

func TestDeleteBlogHandler(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	seeded := seedBlogs(t, app)
	target := seeded[1].ID

	// populate the cache so the delete has something to invalidate
	require.Len(t, listBlogs(t, ts), 3)

	for k := 0; k < 2; k++ {
		status, _, body := ts.delete(t, "/api/blogs/"+target)
		assert.Equal(t, http.StatusNoContent, status)
		assert.Empty(t, body)
	}

	blogs := listBlogs(t, ts)
	assert.Len(t, blogs, 2)
	for _, b := range blogs {
		assert.NotEqual(t, target, b.ID)
	}

	status, _, _ := ts.get(t, "/api/blogs/"+target)
	assert.Equal(t, http.StatusNotFound, status)

	status, _, body := ts.delete(t, "/api/blogs/not-a-valid-id!")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "malformatted id", errorMessage(t, body))
}

func TestRegisterUserHandler(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.post(t, "/api/users", map[string]any{"username": "root", "name": "Superuser", "password": "salainen"})
	require.Equal(t, http.StatusCreated, status)

	created := decode[map[string]any](t, body)
	assert.NotEmpty(t, created["id"])
	assert.Equal(t, "root", created["username"])
	assert.Equal(t, "Superuser", created["name"])
	assert.Equal(t, []any{}, created["blogs"])
	assert.NotContains(t, created, "passwordHash")
	assert.NotContains(t, created, "password")

	testCases := []struct {
		name      string
		payload   map[string]any
		wantError string
	}{
		{
			name:      "Short Username",
			payload:   map[string]any{"username": "Dä", "name": "X", "password": "y"},
			wantError: "Username must be at least 3 characthers",
		},
		{
			name:      "Short Password",
			payload:   map[string]any{"username": "mluukkai", "name": "Matti Luukkainen", "password": "sa"},
			wantError: "Password must be at least 3 characthers",
		},
		{
			name:      "Duplicate Username",
			payload:   map[string]any{"username": "root", "name": "Another", "password": "salainen"},
			wantError: "expected `username` to be unique",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			status, _, body := ts.post(t, "/api/users", tc.payload)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, tc.wantError, errorMessage(t, body))

			_, _, body = ts.get(t, "/api/users")
			assert.Len(t, decode[[]store.User](t, body), 1)
		})
	}
}

func TestUnknownRoutes(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.get(t, "/api/nothing")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "unknown endpoint", errorMessage(t, body))

	status, _, body = ts.do(t, http.MethodPatch, "/api/blogs", map[string]any{})
	assert.Equal(t, http.StatusMethodNotAllowed, status)
	assert.Equal(t, "method not allowed", errorMessage(t, body))
}

func TestHealthCheckHandler(t *testing.T) {
	app := newTestApplication(t)
	ts := newTestServer(t, app.routes())

	status, _, body := ts.get(t, "/api/healthcheck")
	require.Equal(t, http.StatusOK, status)

	got := decode[map[string]any](t, body)
	assert.Equal(t, "available", got["status"])
	assert.Equal(t, map[string]any{"environment": "testing", "version": "1.0.0", "store": "badger"}, got["system_info"])
}
