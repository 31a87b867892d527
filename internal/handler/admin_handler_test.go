package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"green-kart/internal/ingest"
	"green-kart/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryStore collects ingested products for assertions.
type memoryStore struct {
	mu       sync.Mutex
	products []*model.Product
}

func (s *memoryStore) CreateProduct(ctx context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
	return nil
}

func (s *memoryStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.products)
}

const sampleCSV = `name,category,price,description,imagepath,stock
Areca Palm,plants,499,Air purifying palm,/img/areca.jpg,20
Snake Plant,plants,349,Hardy low-light plant,/img/snake.jpg,15
,plants,0,Missing name and price,/img/x.jpg,5
`

func TestAdminHandler_BulkUpload_CSV(t *testing.T) {
	store := &memoryStore{}
	h := NewAdminHandler(ingest.NewService(store, zerolog.Nop()), nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products/bulk", bytes.NewBufferString(sampleCSV))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()

	h.BulkUpload(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var result ingest.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.TotalProcessed)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, 2, store.count())
}

func TestAdminHandler_BulkUpload_JSON(t *testing.T) {
	store := &memoryStore{}
	h := NewAdminHandler(ingest.NewService(store, zerolog.Nop()), nil, zerolog.Nop())

	payload := `[{"name":"Areca Palm","category":"plants","price":499,"description":"Palm","imagepath":"/img/a.jpg","stock":10}]`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/products/bulk", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.BulkUpload(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var result ingest.Result
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, store.count())
}

func TestAdminHandler_BulkUpload_MalformedJSON(t *testing.T) {
	h := NewAdminHandler(ingest.NewService(&memoryStore{}, zerolog.Nop()), nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products/bulk", bytes.NewBufferString(`{"not":"an array"`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.BulkUpload(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandler_Import_NoSourceConfigured(t *testing.T) {
	h := NewAdminHandler(ingest.NewService(&memoryStore{}, zerolog.Nop()), nil, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products/import", bytes.NewBufferString(`{"ref":"batch.csv"}`))
	w := httptest.NewRecorder()

	h.Import(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminHandler_Import_MissingRef(t *testing.T) {
	src := ingest.NewFileSource(zerolog.Nop())
	h := NewAdminHandler(ingest.NewService(&memoryStore{}, zerolog.Nop()), src, zerolog.Nop())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/products/import", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()

	h.Import(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), model.ErrCodeMissingField)
}
