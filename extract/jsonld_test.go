package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ldDoc(blocks ...string) string {
	html := "<html><head>"
	for _, b := range blocks {
		html += fmt.Sprintf(`<script type="application/ld+json">%s</script>`, b)
	}
	return html + "</head><body></body></html>"
}

func TestFindProduct_DirectNode(t *testing.T) {
	doc := parseDoc(ldDoc(`{
		"@context": "https://schema.org",
		"@type": "Product",
		"name": "Кроссовки Nike Air Max",
		"image": "https://cdn.shop.ru/air-max.jpg",
		"offers": {"@type": "Offer", "price": "5990", "priceCurrency": "RUB"}
	}`))

	hint := FindProduct(doc)
	require.NotNil(t, hint)
	assert.Equal(t, "Кроссовки Nike Air Max", hint.Name)
	require.NotNil(t, hint.Price)
	assert.Equal(t, 5990.0, *hint.Price)
	assert.Equal(t, "RUB", hint.Currency)
	assert.Equal(t, "https://cdn.shop.ru/air-max.jpg", hint.Image)
}

func TestFindProduct_GraphWrapped(t *testing.T) {
	doc := parseDoc(ldDoc(`{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "BreadcrumbList"},
			{"@type": "Product", "name": "Часы Casio", "offers": {"price": 120.5, "priceCurrency": "USD"}}
		]
	}`))

	hint := FindProduct(doc)
	require.NotNil(t, hint)
	assert.Equal(t, "Часы Casio", hint.Name)
	require.NotNil(t, hint.Price)
	assert.Equal(t, 120.5, *hint.Price)
}

func TestFindProduct_TopLevelArray(t *testing.T) {
	doc := parseDoc(ldDoc(`[
		{"@type": "WebSite", "name": "shop"},
		{"@type": ["Product", "IndividualProduct"], "name": "Рюкзак"}
	]`))

	hint := FindProduct(doc)
	require.NotNil(t, hint)
	assert.Equal(t, "Рюкзак", hint.Name)
	assert.Nil(t, hint.Price)
}

func TestFindProduct_OffersArrayAndImageList(t *testing.T) {
	doc := parseDoc(ldDoc(`{
		"@type": "Product",
		"name": "Куртка",
		"image": ["https://cdn.shop.by/j1.jpg", "https://cdn.shop.by/j2.jpg"],
		"offers": [{"price": "249.90", "priceCurrency": "BYN"}, {"price": "310"}]
	}`))

	hint := FindProduct(doc)
	require.NotNil(t, hint)
	require.NotNil(t, hint.Price)
	assert.Equal(t, 249.90, *hint.Price)
	assert.Equal(t, "BYN", hint.Currency)
	assert.Equal(t, "https://cdn.shop.by/j1.jpg", hint.Image)
}

func TestFindProduct_GroupedNumericString(t *testing.T) {
	doc := parseDoc(ldDoc(`{
		"@type": "Product",
		"name": "Ноутбук",
		"offers": {"price": "1 234,56", "priceCurrency": "RUB"}
	}`))

	hint := FindProduct(doc)
	require.NotNil(t, hint)
	require.NotNil(t, hint.Price)
	assert.Equal(t, 1234.56, *hint.Price)
}

func TestFindProduct_SizeFromAdditionalProperty(t *testing.T) {
	doc := parseDoc(ldDoc(`{
		"@type": "Product",
		"name": "Ботинки",
		"additionalProperty": [
			{"@type": "PropertyValue", "name": "Цвет", "value": "чёрный"},
			{"@type": "PropertyValue", "name": "Размер", "value": "42"}
		]
	}`))

	hint := FindProduct(doc)
	require.NotNil(t, hint)
	assert.Equal(t, "42", hint.Size)
}

func TestFindProduct_BadBlockThenGoodBlock(t *testing.T) {
	doc := parseDoc(ldDoc(
		`{"@type": "Product", "name": truncated`,
		`{"@type": "Product", "name": "Второй блок"}`,
	))

	hint := FindProduct(doc)
	require.NotNil(t, hint)
	assert.Equal(t, "Второй блок", hint.Name)
}

func TestFindProduct_NoProduct(t *testing.T) {
	doc := parseDoc(ldDoc(`{"@type": "Organization", "name": "Shop LLC"}`))
	assert.Nil(t, FindProduct(doc))
	assert.Nil(t, FindProduct(parseDoc("<html></html>")))
	assert.Nil(t, FindProduct(nil))
}

func TestFindProduct_RejectsOutOfRangePrice(t *testing.T) {
	doc := parseDoc(ldDoc(`{"@type": "Product", "name": "X", "offers": {"price": 0}}`))
	hint := FindProduct(doc)
	require.NotNil(t, hint)
	assert.Nil(t, hint.Price)
}
