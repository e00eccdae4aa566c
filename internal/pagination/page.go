package pagination

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/agentstation/riftsync/pkg/cards"
)

// itemKeys are the object keys that may hold a page's item list, in priority order.
var itemKeys = []string{"items", "data", "cards", "results"}

// Page is the parsed shape of one catalog response.
type Page struct {
	// Items are the raw records on this page. Non-object entries are dropped.
	Items []cards.Document

	// Dropped counts list entries that were not JSON objects.
	Dropped int

	// Next is the resolved next-page hint, or "". Informational only.
	Next string

	// Pages is the advertised total page count, or 0 when absent.
	Pages int

	// Terminal is set for bare-array responses, which never continue.
	Terminal bool
}

// ParsePage extracts items, the next hint and the page count from a decoded
// response. A bare array is one terminal page. For objects, the item list is
// the first of items|data|cards|results that is present and non-null; later
// keys are not merged in. Unknown shapes yield an empty page.
func ParsePage(payload any, baseURL string) Page {
	switch v := payload.(type) {
	case []any:
		items, dropped := documents(v)
		return Page{Items: items, Dropped: dropped, Terminal: true}
	case map[string]any:
		doc := cards.Document(v)
		var p Page
		for _, key := range itemKeys {
			if !doc.Has(key) {
				continue
			}
			if list, ok := doc.Get(key).([]any); ok {
				p.Items, p.Dropped = documents(list)
			}
			break
		}
		p.Next = ResolveNext(nextHint(doc), baseURL)
		p.Pages = pageCount(doc.Get("pages"))
		return p
	default:
		return Page{Terminal: true}
	}
}

// nextHint reads "next", falling back to "links.next" only when "next" is absent.
func nextHint(doc cards.Document) string {
	if _, ok := doc["next"]; ok {
		if s := doc.String("next"); s != nil {
			return *s
		}
		return ""
	}
	if s := doc.Doc("links").String("next"); s != nil {
		return *s
	}
	return ""
}

// ResolveNext turns a next-page hint into an absolute URL. Absolute http(s)
// hints are returned unchanged; anything else is rooted at baseURL.
func ResolveNext(hint, baseURL string) string {
	if hint == "" {
		return ""
	}
	if strings.HasPrefix(hint, "http://") || strings.HasPrefix(hint, "https://") {
		return hint
	}
	if !strings.HasPrefix(hint, "/") {
		hint = "/" + hint
	}
	return strings.TrimRight(baseURL, "/") + hint
}

// pageCount reads the total page count. Non-integral or non-positive values count as absent.
func pageCount(v any) int {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	default:
		return 0
	}
	if f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

func documents(list []any) ([]cards.Document, int) {
	out := make([]cards.Document, 0, len(list))
	dropped := 0
	for _, item := range list {
		if d := cards.AsDocument(item); d != nil {
			out = append(out, d)
			continue
		}
		dropped++
	}
	return out, dropped
}
