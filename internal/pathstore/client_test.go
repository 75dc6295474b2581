package pathstore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PutGetDelete(t *testing.T) {
	stored := map[string]any{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		key := r.URL.Path[len("/kv/"):]
		switch r.Method {
		case http.MethodPut:
			var req NodeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			stored[key] = req.Value
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			v, ok := stored[key]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(NodeResponse{Key: key, Value: v})
		case http.MethodDelete:
			assert.Equal(t, "true", r.URL.Query().Get("children"))
			delete(stored, key)
			w.WriteHeader(http.StatusNoContent)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.PutNode(ctx, "akn/itu-pp/res_2", NodeRequest{Value: map[string]any{"eid": "res_2"}}))
	node, err := c.GetNode(ctx, "akn/itu-pp/res_2")
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, map[string]any{"eid": "res_2"}, node.Value)

	require.NoError(t, c.DeleteNode(ctx, "akn/itu-pp/res_2", true))
	node, err = c.GetNode(ctx, "akn/itu-pp/res_2")
	require.NoError(t, err)
	assert.Nil(t, node)
}

func TestClient_ListChildren(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/kv/akn/itu-pp/*", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"nodes":[{"key_path":"akn.itu-pp.dec_5"},{"key_path":"akn.itu-pp.res_2"}]}`))
	}))
	defer srv.Close()

	nodes, err := NewClient(srv.URL, "k").ListChildren(context.Background(), "akn/itu-pp", 2)
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "akn.itu-pp.res_2", nodes[1].Key)
}

func TestClient_RetryableStatus(t *testing.T) {
	for _, tc := range []struct {
		status    int
		retryable bool
	}{
		{http.StatusServiceUnavailable, true},
		{http.StatusTooManyRequests, true},
		{http.StatusBadRequest, false},
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", tc.status)
		}))
		err := NewClient(srv.URL, "k").PutNode(context.Background(), "x", NodeRequest{Value: 1})
		srv.Close()

		require.Error(t, err)
		var re *RetryableError
		assert.Equal(t, tc.retryable, errors.As(err, &re), "status %d", tc.status)
	}
}

func TestClient_PutLink(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/links", r.URL.Path)
		var req LinkRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "akn/c", req.From)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, NewClient(srv.URL, "k").PutLink(context.Background(), LinkRequest{From: "akn/c", To: "akn/d", Weight: 1}))
}
