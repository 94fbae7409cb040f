package httpc

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/status":
			json.NewEncoder(w).Encode(map[string]string{"stage": "NONE"})
		case "/api/tuning":
			var in map[string]any
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				http.Error(w, "bad body", http.StatusBadRequest)
				return
			}
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			json.NewEncoder(w).Encode(in)
		case "/api/lock":
			w.WriteHeader(http.StatusOK)
		default:
			http.Error(w, "no such route", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL + "/")
	ctx := t.Context()

	var status map[string]string
	require.NoError(t, c.GetJSON(ctx, "/api/status", &status))
	assert.Equal(t, "NONE", status["stage"])

	var echoed map[string]any
	require.NoError(t, c.PostJSON(ctx, "/api/tuning", map[string]any{"tune_bias": 1}, &echoed))
	assert.Equal(t, 1.0, echoed["tune_bias"])

	assert.NoError(t, c.PostJSON(ctx, "/api/lock", nil, nil))

	err := c.GetJSON(ctx, "/api/missing", &status)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "no such route", se.Body)
}
