package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishhunt/wishsense/config"
	"github.com/wishhunt/wishsense/llm"
	"github.com/wishhunt/wishsense/models"
	"github.com/wishhunt/wishsense/textstore"
	"github.com/wishhunt/wishsense/wish"
)

func wishRouter(store *textstore.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	analyzer := wish.NewAnalyzer(llm.NewClient(nil), config.ProviderConfig{})

	r := gin.New()
	r.POST("/wish", SubmitWish(store))
	r.GET("/wish/:id", GetWish(store, analyzer))
	return r
}

func TestSubmitWish_ReturnsIDAndExpiry(t *testing.T) {
	store := textstore.New(10 * time.Minute)
	r := wishRouter(store)

	w := postJSON(t, r, "/wish", models.WishSubmitRequest{Text: "хочу кроссовки"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.WishSubmitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Greater(t, resp.ExpiresAt, time.Now().Unix())
}

func TestSubmitWish_RejectsMissingText(t *testing.T) {
	r := wishRouter(textstore.New(time.Minute))

	w := postJSON(t, r, "/wish", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitWish_RejectsOversizedText(t *testing.T) {
	r := wishRouter(textstore.New(time.Minute))

	w := postJSON(t, r, "/wish", models.WishSubmitRequest{
		Text: strings.Repeat("ж", models.MaxWishTextLen+1),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeInvalidInput, resp.Error.Code)
}

func TestSubmitWish_AcceptsMaxLengthText(t *testing.T) {
	r := wishRouter(textstore.New(time.Minute))

	w := postJSON(t, r, "/wish", models.WishSubmitRequest{
		Text: strings.Repeat("ж", models.MaxWishTextLen),
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetWish_ReturnsStoredText(t *testing.T) {
	store := textstore.New(time.Minute)
	r := wishRouter(store)
	entry := store.Put("хочу велосипед")

	req := httptest.NewRequest(http.MethodGet, "/wish/"+entry.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.WishGetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "хочу велосипед", resp.Text)
	assert.Nil(t, resp.Record)
}

func TestGetWish_AnalyzeQueryAddsRecord(t *testing.T) {
	store := textstore.New(time.Minute)
	r := wishRouter(store)
	entry := store.Put("хочу кроссовки Nike 42 за 150 руб")

	req := httptest.NewRequest(http.MethodGet, "/wish/"+entry.ID+"?analyze=true", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.WishGetResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Record)
	assert.Equal(t, "кроссовки Nike 42", resp.Record.Name)
	require.NotNil(t, resp.Record.Price)
	assert.Equal(t, 150.0, *resp.Record.Price)
	assert.Equal(t, "₽", resp.Record.Currency)
	assert.Equal(t, "42", resp.Record.Size)
}

func TestGetWish_UnknownIDNotFound(t *testing.T) {
	r := wishRouter(textstore.New(time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/wish/missing-id", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeNotFound, resp.Error.Code)
}

func TestGetWish_ExpiredEntryNotFound(t *testing.T) {
	store := textstore.New(time.Minute)
	r := wishRouter(store)

	entry := store.Put("просрочено")
	store.Delete(entry.ID)

	req := httptest.NewRequest(http.MethodGet, "/wish/"+entry.ID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
