package personas

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHandlerSetup(t *testing.T) *mux.Router {
	t.Helper()

	m, err := NewManager(strings.NewReader(testPersonasJSON))
	require.NoError(t, err)

	handler := NewHandler(m)
	r := mux.NewRouter()
	handler.SetupRoutes(r.PathPrefix("/personas").Subrouter())

	return r
}

func TestHandler_handleAll(t *testing.T) {
	r := testHandlerSetup(t)

	req, err := http.NewRequest("GET", "/personas", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var personas []Persona
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &personas))
	require.Len(t, personas, 2)
	assert.Equal(t, "builder", personas[0].ID)
	assert.Equal(t, "learner", personas[1].ID)
}

func TestHandler_handleGet(t *testing.T) {
	r := testHandlerSetup(t)

	req, err := http.NewRequest("GET", "/personas/learner", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var persona Persona
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &persona))
	assert.Equal(t, "The Learner", persona.Label)
	assert.Equal(t, 410, persona.Stats.Followers)
}

func TestHandler_handleGet_notFound(t *testing.T) {
	r := testHandlerSetup(t)

	req, err := http.NewRequest("GET", "/personas/ghost", nil)
	require.NoError(t, err)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)
	require.Equal(t, http.StatusNotFound, rr.Code)
}
