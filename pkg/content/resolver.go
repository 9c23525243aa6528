package content

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
)

// Scheme values understood by the picker
const (
	SchemeContent = "content"
	SchemeFile    = "file"
)

// Resolver is the platform content-access capability: it opens managed or
// plain file references and answers MIME type and display-name queries.
type Resolver interface {
	OpenStream(ctx context.Context, u *url.URL) (io.ReadCloser, error)
	Type(ctx context.Context, u *url.URL) (string, error)
	DisplayName(ctx context.Context, u *url.URL) (string, error)
}

// IsContent reports whether u is a managed-content reference
func IsContent(u *url.URL) bool {
	return u != nil && strings.EqualFold(u.Scheme, SchemeContent)
}

// Parse parses a locator. Bare paths are treated as file references.
func Parse(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid locator %q: %w", raw, err)
	}
	if u.Scheme == "" {
		u.Scheme = SchemeFile
	}
	return u, nil
}

// LastPathSegment returns everything after the final '/' of the locator path
func LastPathSegment(u *url.URL) string {
	if u == nil {
		return ""
	}
	p := u.Path
	if p == "" {
		p = u.Opaque
	}
	if i := strings.LastIndex(p, "/"); i != -1 {
		return p[i+1:]
	}
	return p
}

// Mux routes requests to a Resolver by locator scheme
type Mux struct {
	mu        sync.RWMutex
	resolvers map[string]Resolver
}

// NewMux creates an empty scheme router
func NewMux() *Mux {
	return &Mux{resolvers: make(map[string]Resolver)}
}

// Handle registers r for scheme, replacing any previous registration
func (m *Mux) Handle(scheme string, r Resolver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolvers[strings.ToLower(scheme)] = r
}

func (m *Mux) lookup(u *url.URL) (Resolver, error) {
	if u == nil {
		return nil, fmt.Errorf("nil locator: %w", ErrUnsupportedScheme)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.resolvers[strings.ToLower(u.Scheme)]
	if !ok {
		return nil, fmt.Errorf("scheme %q: %w", u.Scheme, ErrUnsupportedScheme)
	}
	return r, nil
}

// OpenStream opens u with the resolver registered for its scheme
func (m *Mux) OpenStream(ctx context.Context, u *url.URL) (io.ReadCloser, error) {
	r, err := m.lookup(u)
	if err != nil {
		return nil, err
	}
	return r.OpenStream(ctx, u)
}

// Type returns the MIME type reported by the resolver registered for u
func (m *Mux) Type(ctx context.Context, u *url.URL) (string, error) {
	r, err := m.lookup(u)
	if err != nil {
		return "", err
	}
	return r.Type(ctx, u)
}

// DisplayName returns the display name reported by the resolver registered for u
func (m *Mux) DisplayName(ctx context.Context, u *url.URL) (string, error) {
	r, err := m.lookup(u)
	if err != nil {
		return "", err
	}
	return r.DisplayName(ctx, u)
}
