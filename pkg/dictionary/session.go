package dictionary

import (
	"fmt"

	gocache "github.com/patrickmn/go-cache"
)

// Opener loads a source for a language pair.
type Opener func(pair LanguagePair) (Source, error)

// Session caches one opened source per language pair for the lifetime of
// the process, so a pair is loaded at most once per session.
type Session struct {
	open  Opener
	cache *gocache.Cache
}

// NewSession wraps an opener with a per-pair cache.
func NewSession(open Opener) *Session {
	return &Session{
		open:  open,
		cache: gocache.New(gocache.NoExpiration, 0),
	}
}

// Load returns the cached source for the pair, opening it on first use.
func (s *Session) Load(pair LanguagePair) (Source, error) {
	if cached, ok := s.cache.Get(pair.String()); ok {
		return cached.(Source), nil
	}
	src, err := s.open(pair)
	if err != nil {
		return nil, fmt.Errorf("load dictionary for %s: %w", pair, err)
	}
	s.cache.Set(pair.String(), src, gocache.NoExpiration)
	return src, nil
}
