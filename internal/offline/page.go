package offline

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

//go:embed offline.html
var defaultPage []byte

var (
	// ErrEmptyPage is returned when an offline page has no content.
	ErrEmptyPage = errors.New("offline page is empty")
	// ErrExternalResource is returned when an offline page loads a resource
	// from another origin. The page is served with no network available.
	ErrExternalResource = errors.New("offline page references an external resource")
)

// DefaultPage returns the built-in offline page.
func DefaultPage() []byte {
	return append([]byte(nil), defaultPage...)
}

// resourceAttrs lists the attributes through which an element loads a resource.
// Anchors are navigation targets and are not checked.
var resourceAttrs = map[string][]string{
	"img":    {"src", "srcset"},
	"script": {"src"},
	"link":   {"href"},
	"iframe": {"src"},
	"source": {"src", "srcset"},
	"video":  {"src", "poster"},
	"audio":  {"src"},
	"embed":  {"src"},
	"object": {"data"},
	"input":  {"src"},
}

// ValidateSelfContained checks that page renders without network access:
// every resource it loads must be inline (data: URI) or relative.
func ValidateSelfContained(page []byte) error {
	if len(strings.TrimSpace(string(page))) == 0 {
		return ErrEmptyPage
	}
	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return fmt.Errorf("failed to parse offline page: %w", err)
	}

	var found error
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode {
			for _, key := range resourceAttrs[n.Data] {
				for _, ref := range refs(key, getAttr(n, key)) {
					if isExternal(ref) {
						found = fmt.Errorf("%w: <%s %s=%q>", ErrExternalResource, n.Data, key, ref)
						return
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return found
}

// refs splits a srcset into its URLs; other attributes hold a single URL.
func refs(key, val string) []string {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	if key != "srcset" {
		return []string{val}
	}
	var out []string
	for _, candidate := range strings.Split(val, ",") {
		if fields := strings.Fields(candidate); len(fields) > 0 {
			out = append(out, fields[0])
		}
	}
	return out
}

func isExternal(ref string) bool {
	if strings.HasPrefix(ref, "//") {
		return true
	}
	u, err := url.Parse(ref)
	if err != nil {
		return true
	}
	switch strings.ToLower(u.Scheme) {
	case "", "data":
		return false
	default:
		return true
	}
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
