//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anagolic/anagoliccom/internal/content"
	"github.com/anagolic/anagoliccom/internal/posts"
)

func (s *IntegrationTestSuite) getPublishedPosts(ctx context.Context, category string) posts.PostsResponse {
	url := fmt.Sprintf("%s/posts/published", serverEndpoint)
	if category != "" {
		url += "?category=" + category
	}
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()

	var postsResponse posts.PostsResponse
	require.NoError(s.T(),
		json.NewDecoder(resp.Body).Decode(&postsResponse),
	)

	return postsResponse
}

func (s *IntegrationTestSuite) newPostRequest(
	ctx context.Context,
	authToken string,
	post posts.Post,
) int {
	postJson, err := json.Marshal(post)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/posts/new", serverEndpoint),
		bytes.NewReader(postJson),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-ANA-TOKEN", authToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err)
	require.NotEmpty(s.T(), respBytes)

	respParts := bytes.Split(respBytes, []byte(":"))
	require.Equal(s.T(), 2, len(respParts))

	id, err := strconv.Atoi(string(respParts[1]))
	require.NoError(s.T(), err)

	return id
}

func (s *IntegrationTestSuite) updatePostRequest(
	ctx context.Context,
	authToken string,
	post posts.Post,
) *http.Response {
	postJson, err := json.Marshal(post)
	require.NoError(s.T(), err)

	req, err := http.NewRequestWithContext(
		ctx,
		"POST", fmt.Sprintf("%s/posts/update", serverEndpoint),
		bytes.NewReader(postJson),
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-ANA-TOKEN", authToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err)
	return resp
}

func (s *IntegrationTestSuite) deletePostRequest(
	ctx context.Context,
	authToken string,
	postID int,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		"DELETE", fmt.Sprintf("%s/posts/delete/%d", serverEndpoint, postID),
		nil,
	)
	require.NoError(s.T(), err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-ANA-TOKEN", authToken)

	return s.httpClient.Do(req)
}

func (s *IntegrationTestSuite) TestPosts() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.T().Run("try add post without auth token", func(t *testing.T) {
		postJson, err := json.Marshal(posts.Post{
			Title: "test post",
			Slug:  "test-post",
		})
		require.NoError(t, err)

		req, err := http.NewRequestWithContext(
			ctx,
			"POST", fmt.Sprintf("%s/posts/new", serverEndpoint),
			bytes.NewReader(postJson),
		)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	authToken := doLogin(ctx, s.T())

	var postID int
	s.T().Run("add draft post", func(t *testing.T) {
		postID = s.newPostRequest(ctx, authToken, posts.Post{
			Title:    "Designing animated diagrams",
			Slug:     "designing-animated-diagrams",
			Excerpt:  "How the diagrams on this site are built",
			Category: "engineering",
			Status:   posts.StatusDraft,
			Personas: []string{"builder"},
			Content: content.NewDocument(
				&content.Heading{Level: 2, Content: "Why animate"},
				&content.Text{Content: "Some *markdown* text."},
			),
		})
		require.True(t, postID > 0)

		// a draft must not show up on the public list
		published := s.getPublishedPosts(ctx, "")
		for _, p := range published.Posts {
			assert.NotEqual(t, postID, p.ID)
		}
	})

	s.T().Run("publish post", func(t *testing.T) {
		resp := s.updatePostRequest(ctx, authToken, posts.Post{
			ID:       postID,
			Title:    "Designing animated diagrams",
			Slug:     "designing-animated-diagrams",
			Excerpt:  "How the diagrams on this site are built",
			Category: "engineering",
			Status:   posts.StatusPublished,
			Personas: []string{"builder"},
			Content: content.NewDocument(
				&content.Heading{Level: 2, Content: "Why animate"},
				&content.Text{Content: "Some *markdown* text."},
				&content.Callout{Variant: "info", Content: "Added on publish."},
			),
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		published := s.getPublishedPosts(ctx, "engineering")
		require.Equal(t, 1, published.Total)
		require.Len(t, published.Posts, 1)
		post := published.Posts[0]
		assert.Equal(t, postID, post.ID)
		require.NotNil(t, post.PublishedAt)

		// the published document is the whole replaced document
		blocks := post.Content.Blocks
		require.Len(t, blocks, 3)
		heading, ok := blocks[0].(*content.Heading)
		require.True(t, ok)
		assert.Equal(t, "Why animate", heading.Content)
		callout, ok := blocks[2].(*content.Callout)
		require.True(t, ok)
		assert.Equal(t, content.CalloutInfo, callout.Variant)
	})

	s.T().Run("get post by slug", func(t *testing.T) {
		req, err := http.NewRequestWithContext(
			ctx,
			"GET", fmt.Sprintf("%s/posts/slug/designing-animated-diagrams", serverEndpoint),
			nil,
		)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var post posts.Post
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&post))
		assert.Equal(t, postID, post.ID)
	})

	s.T().Run("get rendered post html", func(t *testing.T) {
		req, err := http.NewRequestWithContext(
			ctx,
			"GET", fmt.Sprintf("%s/posts/slug/designing-animated-diagrams/html", serverEndpoint),
			nil,
		)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		htmlBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		html := string(htmlBytes)
		assert.True(t, strings.Contains(html, "Why animate"))
		assert.True(t, strings.Contains(html, "<em>markdown</em>"))
	})

	s.T().Run("clap post", func(t *testing.T) {
		clapJson, err := json.Marshal(map[string]int{"id": postID})
		require.NoError(t, err)

		req, err := http.NewRequestWithContext(
			ctx,
			"PATCH", fmt.Sprintf("%s/posts/clap", serverEndpoint),
			bytes.NewReader(clapJson),
		)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		published := s.getPublishedPosts(ctx, "")
		require.Len(t, published.Posts, 1)
		assert.Equal(t, 1, published.Posts[0].Claps)
	})

	s.T().Run("get categories", func(t *testing.T) {
		req, err := http.NewRequestWithContext(
			ctx,
			"GET", fmt.Sprintf("%s/posts/categories", serverEndpoint),
			nil,
		)
		require.NoError(t, err)
		req.Header.Set("User-Agent", "test-agent")

		resp, err := s.httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var categories []string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&categories))
		assert.Equal(t, []string{"engineering"}, categories)
	})

	s.T().Run("delete post", func(t *testing.T) {
		resp, err := s.deletePostRequest(ctx, authToken, postID)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		published := s.getPublishedPosts(ctx, "")
		assert.Equal(t, 0, published.Total)

		// deleting again is a 404
		resp404, err := s.deletePostRequest(ctx, authToken, postID)
		require.NoError(t, err)
		defer resp404.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp404.StatusCode)
	})
}
