package middleware

import "net/http"

// Exempter is the per-route metadata contract consulted by [Gate] before
// requiring authentication.
type Exempter interface {
	IsAuthExempt(r *http.Request) bool
}

// ExemptSet is a static route table of method+path pairs that skip
// authentication, declared alongside route registration. The zero value
// exempts nothing.
type ExemptSet struct {
	routes map[string]struct{}
}

// NewExemptSet returns an empty exemption table.
func NewExemptSet() *ExemptSet {
	return &ExemptSet{routes: make(map[string]struct{})}
}

// Add marks method+path as auth-exempt. An empty method exempts the path
// for every method.
func (s *ExemptSet) Add(method, path string) *ExemptSet {
	if s.routes == nil {
		s.routes = make(map[string]struct{})
	}
	s.routes[routeKey(method, path)] = struct{}{}
	return s
}

// IsAuthExempt reports whether the request's route was registered with
// [ExemptSet.Add]. Nil-safe.
func (s *ExemptSet) IsAuthExempt(r *http.Request) bool {
	if s == nil || s.routes == nil {
		return false
	}
	if _, ok := s.routes[routeKey(r.Method, r.URL.Path)]; ok {
		return true
	}
	_, ok := s.routes[routeKey("", r.URL.Path)]
	return ok
}

func routeKey(method, path string) string {
	return method + " " + path
}
