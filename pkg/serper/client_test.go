package serper

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_SendsLocaleAndKey(t *testing.T) {
	var gotReq searchRequest
	var gotKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(SearchResponse{
			Organic: []OrganicResult{
				{Title: "Forbrukerkjøpsloven", Link: "https://lovdata.no/lov/2002-06-21-34", Snippet: "Lov om forbrukerkjøp"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", WithBaseURL(srv.URL))
	resp, err := c.Search(context.Background(), "reklamasjon frist", 10)
	require.NoError(t, err)

	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "reklamasjon frist", gotReq.Q)
	assert.Equal(t, "no", gotReq.GL)
	assert.Equal(t, "no", gotReq.HL)
	assert.Equal(t, 10, gotReq.Num)
	require.Len(t, resp.Organic, 1)
	assert.Equal(t, "https://lovdata.no/lov/2002-06-21-34", resp.Organic[0].Link)
}

func TestSearch_Non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "q", 10)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSearch_MalformedBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL))
	_, err := c.Search(context.Background(), "q", 10)
	assert.Error(t, err)
}
