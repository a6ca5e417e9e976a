package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/vehicle-repair-shop/internal/queue"
	"github.com/iliyamo/vehicle-repair-shop/internal/repository"
)

// fakeRepairStore mimics the repair repository over a map, including the
// idempotent delete and ErrRepairNotFound semantics.
type fakeRepairStore struct {
	items  map[uint64]repository.Repair
	nextID uint64
}

func newFakeRepairStore() *fakeRepairStore {
	return &fakeRepairStore{items: map[uint64]repository.Repair{}, nextID: 1}
}

func (f *fakeRepairStore) List(_ context.Context, limit, offset int) ([]repository.Repair, int, error) {
	ids := make([]uint64, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := []repository.Repair{}
	for i := offset; i < len(ids) && len(out) < limit; i++ {
		out = append(out, f.items[ids[i]])
	}
	return out, len(f.items), nil
}

func (f *fakeRepairStore) GetByID(_ context.Context, id uint64) (*repository.Repair, error) {
	rec, ok := f.items[id]
	if !ok {
		return nil, repository.ErrRepairNotFound
	}
	return &rec, nil
}

func (f *fakeRepairStore) Create(_ context.Context, rec *repository.Repair) error {
	rec.ID = f.nextID
	f.nextID++
	f.items[rec.ID] = *rec
	return nil
}

func (f *fakeRepairStore) Update(_ context.Context, rec *repository.Repair) error {
	if _, ok := f.items[rec.ID]; ok {
		f.items[rec.ID] = *rec
	}
	return nil
}

func (f *fakeRepairStore) Delete(_ context.Context, id uint64) error {
	delete(f.items, id)
	return nil
}

// fakeImageSaver records whether Save was called and returns a fixed path.
type fakeImageSaver struct {
	path  string
	calls int
}

func (f *fakeImageSaver) Save(_ *multipart.FileHeader) (string, error) {
	f.calls++
	return f.path, nil
}

// multipartRequest builds a multipart form body from fields plus an optional
// file part named "image".
func multipartRequest(t *testing.T, method, target string, fields map[string]string, withFile bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if withFile {
		fw, err := w.CreateFormFile("image", "photo.jpg")
		require.NoError(t, err)
		_, err = fw.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func serve(t *testing.T, h echo.HandlerFunc, req *http.Request, pathParams map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range pathParams {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	require.NoError(t, h(c))
	return rec
}

func seedRepairs(t *testing.T, store *fakeRepairStore, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, store.Create(context.Background(), &repository.Repair{
			Brand:  "Toyota",
			Model:  fmt.Sprintf("Model-%d", i+1),
			Status: repository.StatusPending,
		}))
	}
}

func TestListRepairsPagination(t *testing.T) {
	store := newFakeRepairStore()
	h := NewRepairHandler(store, &fakeImageSaver{})
	seedRepairs(t, store, 25)

	req := httptest.NewRequest(http.MethodGet, "/api/repairs?page=2&limit=10", nil)
	rec := serve(t, h.ListRepairs, req, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Repairs []repository.Repair `json:"repairs"`
		Total   int                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 25, resp.Total)
	require.Len(t, resp.Repairs, 10)
	assert.Equal(t, uint64(11), resp.Repairs[0].ID)
	assert.Equal(t, uint64(20), resp.Repairs[9].ID)
}

func TestListRepairsDefaults(t *testing.T) {
	store := newFakeRepairStore()
	h := NewRepairHandler(store, &fakeImageSaver{})
	seedRepairs(t, store, 25)

	req := httptest.NewRequest(http.MethodGet, "/api/repairs", nil)
	rec := serve(t, h.ListRepairs, req, nil)

	var resp struct {
		Repairs []repository.Repair `json:"repairs"`
		Total   int                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Repairs, 10)
	assert.Equal(t, uint64(1), resp.Repairs[0].ID)
}

func TestPageParamsClampsLimit(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?page=0&limit=5000", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	limit, offset := pageParams(c)
	assert.Equal(t, maxLimit, limit)
	assert.Equal(t, 0, offset)
}

func TestGetRepairNotFound(t *testing.T) {
	h := NewRepairHandler(newFakeRepairStore(), &fakeImageSaver{})

	req := httptest.NewRequest(http.MethodGet, "/api/repairs/7", nil)
	rec := serve(t, h.GetRepair, req, map[string]string{"id": "7"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateRepair(t *testing.T) {
	store := newFakeRepairStore()
	h := NewRepairHandler(store, &fakeImageSaver{})

	req := multipartRequest(t, http.MethodPost, "/api/repairs", map[string]string{
		"brand":   "Lada",
		"model":   "Vesta",
		"year":    "2019",
		"problem": "brakes",
		"price":   "250.50",
	}, false)
	rec := serve(t, h.CreateRepair, req, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	stored := store.items[1]
	assert.Equal(t, "Lada", stored.Brand)
	assert.Equal(t, 2019, stored.Year)
	assert.Equal(t, repository.StatusPending, stored.Status) // default when omitted
	assert.Nil(t, stored.Image)
}

func TestCreateRepairWithImage(t *testing.T) {
	store := newFakeRepairStore()
	saver := &fakeImageSaver{path: "/uploads/123.jpg"}
	h := NewRepairHandler(store, saver)

	req := multipartRequest(t, http.MethodPost, "/api/repairs", map[string]string{
		"brand": "Lada", "model": "Vesta",
	}, true)
	rec := serve(t, h.CreateRepair, req, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, saver.calls)
	require.NotNil(t, store.items[1].Image)
	assert.Equal(t, "/uploads/123.jpg", *store.items[1].Image)
}

func TestCreateRepairValidation(t *testing.T) {
	h := NewRepairHandler(newFakeRepairStore(), &fakeImageSaver{})

	cases := []map[string]string{
		{"model": "Vesta"},                                      // missing brand
		{"brand": "Lada"},                                       // missing model
		{"brand": "Lada", "model": "Vesta", "status": "broken"}, // bad status
		{"brand": "Lada", "model": "Vesta", "year": "soon"},     // bad year
		{"brand": "Lada", "model": "Vesta", "price": "cheap"},   // bad price
	}
	for _, fields := range cases {
		req := multipartRequest(t, http.MethodPost, "/api/repairs", fields, false)
		rec := serve(t, h.CreateRepair, req, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "fields=%v", fields)
	}
}

func TestUpdateRepairPreservesImage(t *testing.T) {
	store := newFakeRepairStore()
	old := "/uploads/old.jpg"
	store.items[1] = repository.Repair{ID: 1, Brand: "Lada", Model: "Vesta", Status: repository.StatusPending, Image: &old}
	store.nextID = 2
	h := NewRepairHandler(store, &fakeImageSaver{})

	req := multipartRequest(t, http.MethodPut, "/api/repairs/1", map[string]string{
		"brand": "Lada", "model": "Vesta", "status": "completed",
	}, false)
	rec := serve(t, h.UpdateRepair, req, map[string]string{"id": "1"})
	require.Equal(t, http.StatusOK, rec.Code)

	updated := store.items[1]
	assert.Equal(t, repository.StatusCompleted, updated.Status)
	require.NotNil(t, updated.Image)
	assert.Equal(t, "/uploads/old.jpg", *updated.Image)
}

func TestUpdateRepairReplacesImage(t *testing.T) {
	store := newFakeRepairStore()
	old := "/uploads/old.jpg"
	store.items[1] = repository.Repair{ID: 1, Brand: "Lada", Model: "Vesta", Status: repository.StatusPending, Image: &old}
	store.nextID = 2
	saver := &fakeImageSaver{path: "/uploads/new.jpg"}
	h := NewRepairHandler(store, saver)

	req := multipartRequest(t, http.MethodPut, "/api/repairs/1", map[string]string{
		"brand": "Lada", "model": "Vesta",
	}, true)
	rec := serve(t, h.UpdateRepair, req, map[string]string{"id": "1"})
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, store.items[1].Image)
	assert.Equal(t, "/uploads/new.jpg", *store.items[1].Image)
}

func TestUpdateRepairUnknownID(t *testing.T) {
	h := NewRepairHandler(newFakeRepairStore(), &fakeImageSaver{})

	req := multipartRequest(t, http.MethodPut, "/api/repairs/42", map[string]string{
		"brand": "Lada", "model": "Vesta",
	}, false)
	rec := serve(t, h.UpdateRepair, req, map[string]string{"id": "42"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRepairIdempotent(t *testing.T) {
	store := newFakeRepairStore()
	seedRepairs(t, store, 2)
	h := NewRepairHandler(store, &fakeImageSaver{})

	// Deleting an id that never existed succeeds and leaves others alone.
	req := httptest.NewRequest(http.MethodDelete, "/api/repairs/99", nil)
	rec := serve(t, h.DeleteRepair, req, map[string]string{"id": "99"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, store.items, 2)

	req = httptest.NewRequest(http.MethodDelete, "/api/repairs/1", nil)
	rec = serve(t, h.DeleteRepair, req, map[string]string{"id": "1"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, store.items, 1)
}

func TestCreateRepairPublishFailureStillCreated(t *testing.T) {
	store := newFakeRepairStore()
	h := NewRepairHandler(store, &fakeImageSaver{})

	published := make(chan queue.RepairStatusEvent, 1)
	h.Publish = func(_ context.Context, ev queue.RepairStatusEvent) error {
		published <- ev
		return errors.New("broker down")
	}

	req := multipartRequest(t, http.MethodPost, "/api/repairs", map[string]string{
		"brand": "Lada", "model": "Vesta",
	}, false)
	rec := serve(t, h.CreateRepair, req, nil)

	// A broker outage is the publisher's problem, never the client's.
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, store.items, 1)

	select {
	case ev := <-published:
		assert.Equal(t, uint64(1), ev.RepairID)
		assert.Equal(t, repository.StatusPending, ev.Status)
	case <-time.After(time.Second):
		t.Fatal("status event was never published")
	}
}

func TestDeleteRepairInvalidID(t *testing.T) {
	h := NewRepairHandler(newFakeRepairStore(), &fakeImageSaver{})

	req := httptest.NewRequest(http.MethodDelete, "/api/repairs/abc", nil)
	rec := serve(t, h.DeleteRepair, req, map[string]string{"id": "abc"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
