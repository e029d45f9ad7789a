package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anagolic/anagoliccom/internal/auth"
	"github.com/anagolic/anagoliccom/internal/middleware"

	"github.com/stretchr/testify/assert"
)

func TestAuthMiddlewareHandler_AuthCheck(t *testing.T) {
	loginChecker := auth.NewLoginTestChecker()
	loginChecker.LoggedSessions["valid-token"] = true
	authMiddleware := middleware.NewAuthMiddlewareHandler(loginChecker)

	testCases := []struct {
		name               string
		path               string
		method             string
		token              string
		expectedStatusCode int
	}{
		{
			name:               "PublishedPostsWithoutToken",
			path:               "/posts/published",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "PostBySlugWithoutToken",
			path:               "/posts/slug/my-first-post",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "PersonasWithoutToken",
			path:               "/personas",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "PodcastEpisodesWithoutToken",
			path:               "/podcast/episodes",
			method:             "GET",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "AdminListWithoutToken",
			path:               "/posts/all",
			method:             "GET",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "AdminCreateWithValidToken",
			path:               "/posts/new",
			method:             "POST",
			token:              "valid-token",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "AdminCreateWithInvalidToken",
			path:               "/posts/new",
			method:             "POST",
			token:              "invalid-token",
			expectedStatusCode: http.StatusUnauthorized,
		},
		{
			name:               "OptionsPreflightAlwaysOK",
			path:               "/posts/new",
			method:             "OPTIONS",
			expectedStatusCode: http.StatusOK,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, tc.path, nil)
			assert.NoError(t, err)
			if tc.token != "" {
				req.Header.Add("X-ANA-TOKEN", tc.token)
			}

			rr := httptest.NewRecorder()
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
			authMiddleware.AuthCheck()(handler).ServeHTTP(rr, req)

			assert.Equal(t, tc.expectedStatusCode, rr.Code)
		})
	}
}
