package rest

import (
	"net/http"
	"net/url"
	"strings"
)

// ignoreKey lists further keys to drop, comma separated.
const ignoreKey = "_ig"

type queryPair struct {
	key, val string
}

// handleRedirectQuery turns a form submission into a path so that HTML
// forms can reach path-routed pages. Each pair becomes /key/val, or /key
// when val is empty, in the order submitted:
//
//	/rqs?block=&height_or_digest=10&l=Go&_ig=l  ->  /block/height_or_digest/10
func (s *Server) handleRedirectQuery(w http.ResponseWriter, r *http.Request) {
	path := queryToPath(r.URL.RawQuery)
	if path == "" {
		s.handleNotFound(w, r)
		return
	}
	http.Redirect(w, r, path, http.StatusMovedPermanently)
}

// queryToPath returns "" when nothing is left after ignored keys.
func queryToPath(raw string) string {
	pairs := parseOrdered(raw)

	ignored := map[string]bool{ignoreKey: true}
	for _, p := range pairs {
		if p.key == ignoreKey {
			for _, k := range strings.Split(p.val, ",") {
				ignored[k] = true
			}
			break
		}
	}

	var b strings.Builder
	for _, p := range pairs {
		if ignored[p.key] {
			continue
		}
		b.WriteByte('/')
		b.WriteString(url.QueryEscape(p.key))
		if p.val != "" {
			b.WriteByte('/')
			b.WriteString(url.QueryEscape(p.val))
		}
	}
	return b.String()
}

// parseOrdered is url.ParseQuery without the map, so submission order
// survives. Undecodable pairs are skipped.
func parseOrdered(raw string) []queryPair {
	var pairs []queryPair
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		k, v, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			continue
		}
		val, err := url.QueryUnescape(v)
		if err != nil {
			continue
		}
		pairs = append(pairs, queryPair{key: key, val: val})
	}
	return pairs
}
