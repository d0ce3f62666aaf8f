package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanfield/cartsync/internal/model"
)

func TestHTTPStore_Create(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"srv-42"}`))
	}))
	defer srv.Close()

	s := NewHTTPStore(srv.URL, time.Second)
	id, err := s.Create(context.Background(), model.Item{
		ID: "local-abc", Name: "Milk", Quantity: 2, UnitPrice: 3.5, Total: 7,
	})
	require.NoError(t, err)
	assert.Equal(t, "srv-42", id)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/items", gotPath)

	// The id is the document key, never part of the payload.
	_, hasID := gotBody["id"]
	assert.False(t, hasID, "payload must not carry the id")
	assert.Equal(t, "Milk", gotBody["name"])
}

func TestHTTPStore_Update_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	s := NewHTTPStore(srv.URL, time.Second)
	err := s.Update(context.Background(), "missing", model.Item{Name: "Milk", Quantity: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHTTPStore_ServerError_MapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewHTTPStore(srv.URL, time.Second)

	_, err := s.ListAll(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)

	err = s.Delete(context.Background(), "any")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPStore_ConnectionRefused_MapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // shut down before use

	s := NewHTTPStore(srv.URL, time.Second)
	_, err := s.ListAll(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPStore_ListAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write([]byte(`[{"id":"a","name":"Milk","quantity":2,"unitPrice":3.5,"total":7,"completed":false}]`))
	}))
	defer srv.Close()

	s := NewHTTPStore(srv.URL, time.Second)
	items, err := s.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, 7.0, items[0].Total)
}

func TestHTTPStore_Delete_EscapesID(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	s := NewHTTPStore(srv.URL, time.Second)
	require.NoError(t, s.Delete(context.Background(), "a/b"))
	assert.Equal(t, "/items/a%2Fb", gotPath)
}
