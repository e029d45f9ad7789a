//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anagolic/anagoliccom/internal/personas"
)

func (s *IntegrationTestSuite) getOK(ctx context.Context, t *testing.T, path string) []byte {
	req, err := http.NewRequestWithContext(ctx, "GET", serverEndpoint+path, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return respBytes
}

func (s *IntegrationTestSuite) TestVersionInfo() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	respBytes := s.getOK(ctx, s.T(), "/version")
	assert.Equal(s.T(), "test-version-info", string(respBytes))
}

func (s *IntegrationTestSuite) TestPersonas() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	respBytes := s.getOK(ctx, t, "/personas")

	var allPersonas []personas.Persona
	require.NoError(t, json.Unmarshal(respBytes, &allPersonas))
	require.NotEmpty(t, allPersonas)

	first := allPersonas[0]
	respBytes = s.getOK(ctx, t, fmt.Sprintf("/personas/%s", first.ID))

	var single personas.Persona
	require.NoError(t, json.Unmarshal(respBytes, &single))
	assert.Equal(t, first.ID, single.ID)
	assert.Equal(t, first.Label, single.Label)
}

func (s *IntegrationTestSuite) TestPodcastEpisodes_noSourcesConfigured() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	respBytes := s.getOK(ctx, s.T(), "/podcast/episodes")
	assert.Equal(s.T(), "[]", string(respBytes))
}
