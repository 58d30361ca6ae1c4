package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishhunt/wishsense/cache"
	"github.com/wishhunt/wishsense/models"
)

func parseRouter(cc *cache.Cache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/parse", Parse(cc, nil))
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const productPage = `<html><head>
	<title>магазин</title>
	<meta property="og:title" content="Кроссовки Nike Air Max 90">
	<meta property="og:image" content="https://cdn.shop.ru/airmax.jpg">
	<meta property="og:price:amount" content="5990">
	<meta property="og:price:currency" content="RUB">
</head><body></body></html>`

func TestParse_ResolvesRecord(t *testing.T) {
	r := parseRouter(nil)

	w := postJSON(t, r, "/parse", models.ParseRequest{
		URL:  "https://shop.ru/item/90",
		HTML: productPage,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.Degraded)
	assert.Equal(t, "Кроссовки Nike Air Max 90", resp.Record.Name)
	require.NotNil(t, resp.Record.Price)
	assert.Equal(t, 5990.0, *resp.Record.Price)
	assert.Equal(t, "₽", resp.Record.Currency)
	assert.Equal(t, "https://shop.ru/item/90", resp.Record.Link)
	assert.Empty(t, resp.CacheStatus)
}

func TestParse_UnparseablePageStillSucceeds(t *testing.T) {
	r := parseRouter(nil)

	w := postJSON(t, r, "/parse", models.ParseRequest{
		URL:  "https://shop.ru/blank",
		HTML: "<html><body>ничего</body></html>",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, models.NameUnknown, resp.Record.Name)
	assert.Nil(t, resp.Record.Price)
}

func TestParse_RejectsMissingFields(t *testing.T) {
	r := parseRouter(nil)

	w := postJSON(t, r, "/parse", map[string]string{"url": "https://shop.ru/x"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeInvalidInput, resp.Error.Code)
}

func TestParse_RejectsNonHTTPS(t *testing.T) {
	r := parseRouter(nil)

	for _, badURL := range []string{"http://shop.ru/x", "ftp://shop.ru/x", "file:///etc/passwd"} {
		w := postJSON(t, r, "/parse", models.ParseRequest{URL: badURL, HTML: "<html></html>"})
		assert.Equal(t, http.StatusBadRequest, w.Code, "url %q must be rejected", badURL)
	}
}

func TestParse_CacheHitOnSecondRequest(t *testing.T) {
	r := parseRouter(cache.New(10))

	req := models.ParseRequest{
		URL:    "https://shop.ru/item/90",
		HTML:   productPage,
		MaxAge: 60_000,
	}

	var first models.ParseResponse
	w := postJSON(t, r, "/parse", req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, "miss", first.CacheStatus)

	var second models.ParseResponse
	w = postJSON(t, r, "/parse", req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Equal(t, "hit", second.CacheStatus)
	assert.Equal(t, first.Record, second.Record)
}

func TestParse_ZeroMaxAgeBypassesCache(t *testing.T) {
	r := parseRouter(cache.New(10))

	req := models.ParseRequest{URL: "https://shop.ru/item/1", HTML: productPage}

	for i := 0; i < 2; i++ {
		w := postJSON(t, r, "/parse", req)
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.ParseResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Empty(t, resp.CacheStatus)
	}
}
