package wiki

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityTranslator(t *testing.T) {
	in := []string{"casa", "perro"}
	out, err := Identity{}.Translate(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLibreTranslate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/translate", r.URL.Path)
		var req libreRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "es", req.Source)
		assert.Equal(t, "en", req.Target)

		out := make([]string, len(req.Q))
		for i, q := range req.Q {
			out[i] = strings.ToUpper(q)
		}
		_ = json.NewEncoder(w).Encode(libreResponse{TranslatedText: out})
	}))
	defer srv.Close()

	tr := NewLibreTranslate(srv.URL+"/", "es", "en")
	got, err := tr.Translate(context.Background(), []string{"casa", "perro"})
	require.NoError(t, err)
	assert.Equal(t, []string{"CASA", "PERRO"}, got)
}

func TestLibreTranslateError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"unsupported language"}`))
	}))
	defer srv.Close()

	_, err := NewLibreTranslate(srv.URL, "es", "xx").Translate(context.Background(), []string{"casa"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported language")
}

func TestLibreTranslateEmpty(t *testing.T) {
	got, err := NewLibreTranslate("http://unused", "es", "en").Translate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
