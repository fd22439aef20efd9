package http

import "strings"

// RouteTable classifies request paths before authentication runs. It is built
// once at startup: an exact-match public set, public prefixes for static
// assets, a legacy-redirect map and a prefix trie of protected paths. Paths
// matching neither table pass through unauthenticated.
type RouteTable struct {
	redirects      map[string]string
	publicExact    map[string]struct{}
	publicPrefixes []string
	protected      *pathTrie
}

// NewRouteTable builds a table from explicit route lists.
func NewRouteTable(publicExact []string, publicPrefixes []string, protectedPrefixes []string, redirects map[string]string) *RouteTable {
	t := &RouteTable{
		redirects:      map[string]string{},
		publicExact:    map[string]struct{}{},
		publicPrefixes: append([]string(nil), publicPrefixes...),
		protected:      newPathTrie(),
	}
	for _, p := range publicExact {
		t.publicExact[p] = struct{}{}
	}
	for _, p := range protectedPrefixes {
		t.protected.insert(p)
	}
	for from, to := range redirects {
		t.redirects[from] = to
	}
	return t
}

// DefaultRouteTable holds the platform's route policy. The authentication
// endpoints are always public so login itself never requires a token.
func DefaultRouteTable() *RouteTable {
	return NewRouteTable(
		[]string{
			"/",
			"/health",
			"/login",
			"/signup",
			"/verify-token",
			"/logout",
			"/logout-all",
			"/me",
			"/pricing",
			"/favicon.ico",
		},
		[]string{
			"/static/",
			"/assets/",
		},
		[]string{
			"/dashboard",
			"/account",
			"/websites",
			"/api",
		},
		map[string]string{
			"/signin":         "/login",
			"/register":       "/signup",
			"/dashboard/home": "/dashboard",
		},
	)
}

// Redirect returns the canonical path for a legacy one.
func (t *RouteTable) Redirect(path string) (string, bool) {
	target, ok := t.redirects[path]
	return target, ok
}

// IsPublic reports whether a path is explicitly exempt from gating.
func (t *RouteTable) IsPublic(path string) bool {
	if _, ok := t.publicExact[path]; ok {
		return true
	}
	for _, prefix := range t.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RequiresAuth reports whether the gate must authenticate the request. Public
// classification wins over protected so auth endpoints under a protected
// prefix stay reachable.
func (t *RouteTable) RequiresAuth(path string) bool {
	if t.IsPublic(path) {
		return false
	}
	return t.protected.hasPrefixOf(path)
}

// pathTrie matches paths against registered prefixes on whole segments, so
// "/api" matches "/api/websites" but not "/apiary".
type pathTrie struct {
	children map[string]*pathTrie
	terminal bool
}

func newPathTrie() *pathTrie {
	return &pathTrie{children: map[string]*pathTrie{}}
}

func (n *pathTrie) insert(path string) {
	node := n
	for _, seg := range splitPath(path) {
		child, ok := node.children[seg]
		if !ok {
			child = newPathTrie()
			node.children[seg] = child
		}
		node = child
	}
	node.terminal = true
}

func (n *pathTrie) hasPrefixOf(path string) bool {
	node := n
	if node.terminal {
		return true
	}
	for _, seg := range splitPath(path) {
		child, ok := node.children[seg]
		if !ok {
			return false
		}
		node = child
		if node.terminal {
			return true
		}
	}
	return false
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
