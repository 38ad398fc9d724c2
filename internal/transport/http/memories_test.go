package httpapi

import (
	"net/http"
	"testing"

	"github.com/sandevgo/mindful/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoriesResponse struct {
	Memories []core.Memory `json:"memories"`
}

func TestMemoriesCRUD(t *testing.T) {
	e := newTestEnv(t)
	const uid = "ann@example.com"

	w := e.do(t, http.MethodPost, "/memories", map[string]string{"userId": "ANN@example.com", "text": "Enjoys morning walks"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	added := decode[memoriesResponse](t, w).Memories
	require.Len(t, added, 1)
	id := added[0].ID

	e.do(t, http.MethodPost, "/memories", map[string]string{"userId": uid, "text": "Has a cat named Miso"})

	w = e.do(t, http.MethodGet, "/memories?userId="+uid, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[memoriesResponse](t, w).Memories, 2)

	w = e.do(t, http.MethodGet, "/memories?userId="+uid+"&q=walks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[memoriesResponse](t, w).Memories
	require.NotEmpty(t, found)
	assert.Equal(t, id, found[0].ID)

	w = e.do(t, http.MethodPatch, "/memories/"+id, map[string]string{"userId": uid, "text": "Enjoys evening walks"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Enjoys evening walks", decode[core.Memory](t, w).Text)

	w = e.do(t, http.MethodDelete, "/memories/"+id+"?userId="+uid, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(t, http.MethodDelete, "/memories/"+id, map[string]string{"userId": uid})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodDelete, "/memories", map[string]string{"userId": uid})
	require.Equal(t, http.StatusNoContent, w.Code)

	w = e.do(t, http.MethodGet, "/memories?userId="+uid, nil)
	assert.Empty(t, decode[memoriesResponse](t, w).Memories)
}

func TestMemoriesValidation(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		name   string
		method string
		target string
		body   any
	}{
		{"list without user", http.MethodGet, "/memories", nil},
		{"add without user", http.MethodPost, "/memories", map[string]string{"text": "x"}},
		{"add without content", http.MethodPost, "/memories", map[string]string{"userId": "ann"}},
		{"update without text", http.MethodPatch, "/memories/m1", map[string]string{"userId": "ann"}},
		{"delete all without user", http.MethodDelete, "/memories", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := e.do(t, tt.method, tt.target, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
