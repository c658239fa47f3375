package status

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-progression/config"
	"go-progression/sequencer"
)

type fixedSource sequencer.Snapshot

func (f fixedSource) Latest() sequencer.Snapshot {
	return sequencer.Snapshot(f)
}

func testSource() fixedSource {
	return fixedSource{
		RunID:     "run-1",
		Playing:   true,
		Tick:      9,
		Bar:       2,
		Sub:       1,
		Primary:   true,
		Chord:     []int{50, 53, 57},
		ChordName: "D3 F3 A3",
		Pool:      []int{50, 53, 57},
		Melody:    65,
		Sounding:  []int{50, 53, 57},
	}
}

func TestState(t *testing.T) {
	h := NewRouter(testSource(), config.DefaultConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got sequencer.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, []int{50, 53, 57}, got.Chord)
	assert.Equal(t, 65, got.Melody)
	assert.True(t, got.Playing)
}

func TestConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Generator.Seed = 12
	h := NewRouter(testSource(), cfg)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got config.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(12), got.Generator.Seed)
}

func TestHealthAndMethods(t *testing.T) {
	h := NewRouter(testSource(), config.DefaultConfig())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/state", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORS(t *testing.T) {
	h := NewRouter(testSource(), config.DefaultConfig())

	req := httptest.NewRequest(http.MethodGet, "/state", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStartAndShutdown(t *testing.T) {
	s, err := Start("127.0.0.1:0", testSource(), config.DefaultConfig())
	require.NoError(t, err)
	defer s.Shutdown(context.Background())

	resp, err := http.Get("http://" + s.Addr() + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(body))
}
