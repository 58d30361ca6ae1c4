package extract

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/wishhunt/wishsense/models"
)

// ScriptHint is the best-effort partial record scraped out of inline script
// bodies: SPA state blobs, analytics payloads, and similar loosely-typed
// JSON-ish text the structured readers miss.
type ScriptHint struct {
	Name     string
	Price    *float64
	Image    string
	Currency string
}

// Field regexes tolerate inconsistently escaped JSON embedded in script
// bodies, hence the optional \/ in URL patterns and optional quoting around
// numbers.
var (
	scriptNameRe  = regexp.MustCompile(`"(?:productName|name)"\s*:\s*"([^"]{2,300})"`)
	scriptPriceRe = regexp.MustCompile(`"price"\s*:\s*"?([0-9]+(?:[.,][0-9]{1,2})?)"?`)
	scriptImageRe = regexp.MustCompile(`"(?:mainImage|image)"\s*:\s*"((?:https?:)?\\?/\\?/[^"\s]+|\\?/[^"\s]+)"`)
)

// namePlaceholders rejects junk values that show up under "name" keys in
// state blobs.
var namePlaceholders = map[string]struct{}{
	"true": {}, "false": {}, "null": {}, "undefined": {}, "n/a": {}, "na": {},
}

// ScanScripts walks every inline <script> body and returns the first
// non-rejected match per field. Image URLs are made absolute against baseURL.
// When currency is otherwise invisible, a document containing the literal
// BYN code or served from a .by retailer defaults to the Belarusian ruble.
func ScanScripts(rawHTML, baseURL string) ScriptHint {
	var hint ScriptHint

	for _, body := range inlineScripts(rawHTML) {
		if hint.Name == "" {
			hint.Name = firstAcceptedName(body)
		}
		if hint.Price == nil {
			hint.Price = firstValidPrice(body)
		}
		if hint.Image == "" {
			if m := scriptImageRe.FindStringSubmatch(body); m != nil {
				hint.Image = resolveImageURL(m[1], baseURL)
			}
		}
		if hint.Name != "" && hint.Price != nil && hint.Image != "" {
			break
		}
	}

	if strings.Contains(rawHTML, "BYN") || belarusianHost(baseURL) {
		hint.Currency = SymbolBYN
	}

	return hint
}

// inlineScripts collects the text content of every <script> element using a
// streaming tokenizer; the full DOM is not needed for this pass.
func inlineScripts(rawHTML string) []string {
	var bodies []string
	z := html.NewTokenizer(strings.NewReader(rawHTML))
	inScript := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return bodies
		case html.StartTagToken:
			name, _ := z.TagName()
			inScript = string(name) == "script"
		case html.TextToken:
			if inScript {
				if body := string(z.Text()); strings.TrimSpace(body) != "" {
					bodies = append(bodies, body)
				}
			}
		case html.EndTagToken:
			inScript = false
		}
	}
}

// firstValidPrice returns the first price match in the body that survives
// the range check; out-of-range candidates do not mask later valid ones.
func firstValidPrice(body string) *float64 {
	for _, m := range scriptPriceRe.FindAllStringSubmatch(body, -1) {
		f, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
		if err != nil {
			continue
		}
		if p := models.PricePtr(f); p != nil {
			return p
		}
	}
	return nil
}

// firstAcceptedName returns the first name match not on the placeholder
// denylist.
func firstAcceptedName(body string) string {
	for _, m := range scriptNameRe.FindAllStringSubmatch(body, -1) {
		candidate := strings.TrimSpace(m[1])
		if _, bad := namePlaceholders[strings.ToLower(candidate)]; bad {
			continue
		}
		return candidate
	}
	return ""
}

// resolveImageURL unescapes \/ sequences and normalizes the result into an
// absolute URL using baseURL for protocol-relative and relative paths.
func resolveImageURL(raw, baseURL string) string {
	raw = strings.ReplaceAll(raw, `\/`, "/")

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	if strings.HasPrefix(raw, "//") {
		return "https:" + raw
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return raw
	}
	resolved, err := base.Parse(raw)
	if err != nil {
		return raw
	}
	return resolved.String()
}

// belarusianHost reports whether the page came from a known Belarusian
// retailer, where prices are quoted in BYN without any currency markup.
func belarusianHost(pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	return strings.HasSuffix(host, ".by")
}
