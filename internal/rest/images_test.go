package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dfryer1193/apodwall/api"
	"github.com/dfryer1193/apodwall/shared/db/sqlite"
	"github.com/dfryer1193/apodwall/wallpaper/domain"
	"github.com/dfryer1193/apodwall/wallpaper/persistence"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testGallery struct {
	dir    string
	repo   *persistence.SQLiteImageRepository
	router *gin.Engine
}

func setupGallery(t *testing.T) *testGallery {
	t.Helper()

	dir := t.TempDir()
	database := sqlite.NewSQLiteDB(sqlite.NewSQLiteConfig(dir, ""))
	require.NoError(t, database.Connect())
	t.Cleanup(func() { database.Close() })

	repo := persistence.NewImageRepository(database.DB())
	router := NewRouter(NewImageHandler(repo, database.DB().PingContext))
	return &testGallery{dir: dir, repo: repo, router: router}
}

func (g *testGallery) store(t *testing.T, name string, content []byte) domain.ImageRecord {
	t.Helper()

	rec := domain.NewImageRecord(filepath.Join(g.dir, name), content)
	require.NoError(t, os.WriteFile(rec.Path, content, 0o644))
	require.NoError(t, g.repo.Insert(context.Background(), rec))
	return rec
}

func (g *testGallery) get(path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	g.router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	g := setupGallery(t)

	w := g.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealth_StoreDown(t *testing.T) {
	handler := NewImageHandler(nil, func(context.Context) error { return errors.New("closed") })
	router := NewRouter(handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListImages(t *testing.T) {
	g := setupGallery(t)

	w := g.get("/images/v1/")
	require.Equal(t, http.StatusOK, w.Code)

	var empty api.ImageList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &empty))
	assert.Equal(t, 0, empty.Count)
	assert.NotNil(t, empty.Images)

	first := g.store(t, "a.jpg", []byte("first"))
	second := g.store(t, "b.jpg", []byte("second"))

	w = g.get("/images/v1/")
	require.Equal(t, http.StatusOK, w.Code)

	var list api.ImageList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Equal(t, 2, list.Count)
	assert.Equal(t, second.Hash, list.Images[0].Hash)
	assert.Equal(t, first.Hash, list.Images[1].Hash)
	assert.Equal(t, "b.jpg", list.Images[0].FileName)
	assert.Equal(t, "/images/v1/"+second.Hash+"/raw", list.Images[0].RawURL)
}

func TestGetImage(t *testing.T) {
	g := setupGallery(t)
	rec := g.store(t, "nebula.jpg", []byte("nebula bytes"))

	w := g.get("/images/v1/" + rec.Hash)
	require.Equal(t, http.StatusOK, w.Code)

	var got api.Image
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, rec.Path, got.Path)
	assert.Equal(t, rec.Size, got.Size)
	assert.Equal(t, "nebula.jpg", got.FileName)
}

func TestGetImage_Errors(t *testing.T) {
	g := setupGallery(t)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"not a digest", "/images/v1/not-a-hash", http.StatusBadRequest},
		{"uppercase digest", "/images/v1/" + "BA7816BF8F01CFEA414140DE5DAE2223B00361A396177A9CB410FF61F20015AD", http.StatusBadRequest},
		{"unknown digest", "/images/v1/" + domain.HashContent([]byte("missing")), http.StatusNotFound},
		{"unknown raw", "/images/v1/" + domain.HashContent([]byte("missing")) + "/raw", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := g.get(tt.path)
			assert.Equal(t, tt.status, w.Code)

			var body api.Error
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestGetImageRaw(t *testing.T) {
	g := setupGallery(t)
	content := []byte("\xff\xd8\xff raw jpeg bytes")
	rec := g.store(t, "raw.jpg", content)

	w := g.get("/images/v1/" + rec.Hash + "/raw")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, content, w.Body.Bytes())
}

func TestGetImageRaw_FileRemoved(t *testing.T) {
	g := setupGallery(t)
	rec := g.store(t, "gone.jpg", []byte("gone"))
	require.NoError(t, os.Remove(rec.Path))

	w := g.get("/images/v1/" + rec.Hash + "/raw")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type panickingRepo struct {
	domain.ImageRepository
}

func (panickingRepo) ListImages(context.Context) ([]domain.ImageRecord, error) {
	panic(errors.New("boom"))
}

func TestPanicRecovery(t *testing.T) {
	router := NewRouter(NewImageHandler(panickingRepo{}, nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images/v1/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"boom"}`, w.Body.String())
}
