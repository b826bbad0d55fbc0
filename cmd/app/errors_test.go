package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/store"
)

func TestErrorResponse(t *testing.T) {
	app := newTestApplication(t)

	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "Malformed ID",
			err:        fmt.Errorf("find blog: %w", store.ErrMalformedID),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error": "malformatted id"}`,
		},
		{
			name:       "Validation Error",
			err:        common.NewValidationError("title", "title must be provided"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error": "title must be provided"}`,
		},
		{
			name:       "Bad Body",
			err:        badBody("request body must not be empty"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error": "request body must not be empty"}`,
		},
		{
			name:       "Not Found",
			err:        store.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "Unclassified",
			err:        errors.New("connection reset by peer"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error": "the server encountered a problem and could not process your request"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/blogs/1", nil)
			res := httptest.NewRecorder()

			app.errorResponse(res, req, tc.err)

			assert.Equal(t, tc.wantStatus, res.Code)
			if tc.wantBody == "" {
				assert.Empty(t, res.Body.String())
				return
			}
			assert.Equal(t, "application/json", res.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.wantBody, res.Body.String())
		})
	}
}
