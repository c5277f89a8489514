package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovsentralen/saksanalyse/internal/analysis"
	"github.com/lovsentralen/saksanalyse/internal/model"
	"github.com/lovsentralen/saksanalyse/internal/store"
)

func newTestEnv(t *testing.T) *appEnv {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })

	return &appEnv{
		Store:    st,
		Pipeline: analysis.NewPipeline(st, nil, nil, nil),
	}
}

func TestServeHealth(t *testing.T) {
	mux := newMux(context.Background(), newTestEnv(t))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServeCreateAndGetCase(t *testing.T) {
	env := newTestEnv(t)
	mux := newMux(context.Background(), env)

	body := `{"user_id": "user-1", "faktum_text": "Kjøpte bruktbil med skjult rustskade.", "category": "forbrukerkjop"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cases", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Case
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.CaseStatusDraft, created.Status)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cases/"+created.ID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServeCreateCaseMissingFaktum(t *testing.T) {
	mux := newMux(context.Background(), newTestEnv(t))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cases", strings.NewReader(`{"user_id": "u"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeGetCaseNotFound(t *testing.T) {
	mux := newMux(context.Background(), newTestEnv(t))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cases/finnes-ikke", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeResultNotFound(t *testing.T) {
	mux := newMux(context.Background(), newTestEnv(t))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cases/finnes-ikke/result", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeAnalyzeAccepted(t *testing.T) {
	mux := newMux(context.Background(), newTestEnv(t))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cases/finnes-ikke/analyze", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
}
