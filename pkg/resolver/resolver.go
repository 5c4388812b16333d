// Package resolver turns word tokens into a deduplicated translation map.
package resolver

import (
	"context"
	"log"
	"strings"

	"github.com/ehollis/lingreader/pkg/dictionary"
	"github.com/ehollis/lingreader/pkg/document"
	"github.com/ehollis/lingreader/pkg/tokenizer"
)

// Normalizer maps a word's surface form to its dictionary key.
type Normalizer interface {
	Key(word string) string
}

// Lowercase is the default normalizer.
type Lowercase struct{}

func (Lowercase) Key(word string) string { return strings.ToLower(word) }

// Resolver resolves unique word keys against a dictionary source.
// A nil Source degrades to an all-unknown dictionary rather than failing:
// a missing dictionary is never fatal to document creation.
type Resolver struct {
	Source     dictionary.Source
	Normalizer Normalizer
	// OnProgress is called with the percentage of unique keys processed.
	// The sequence is non-decreasing and ends at exactly 100.
	OnProgress func(percent int)
	// Logger is used for informational messages. nil means no logging.
	Logger *log.Logger
}

// New creates a resolver with the default normalizer.
func New(src dictionary.Source) *Resolver {
	return &Resolver{Source: src, Normalizer: Lowercase{}}
}

func (r *Resolver) normalize(word string) string {
	if r.Normalizer == nil {
		return strings.ToLower(word)
	}
	return r.Normalizer.Key(word)
}

// UniqueKeys extracts the normalized keys of all Word tokens, deduplicated
// in first-seen order. Documents typically carry 10-20x more occurrences
// than unique words, so this runs before any lookup.
func (r *Resolver) UniqueKeys(tokens []tokenizer.Token) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, t := range tokens {
		if t.Kind != tokenizer.Word {
			continue
		}
		key := r.normalize(t.Value)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// Resolve builds the dictionary for a token sequence. Misses and per-key
// source errors are recorded as unknown sentinels; only context
// cancellation aborts.
func (r *Resolver) Resolve(ctx context.Context, tokens []tokenizer.Token) (document.Dictionary, error) {
	keys := r.UniqueKeys(tokens)
	dict := make(document.Dictionary, len(keys))
	if err := r.ResolveKeys(ctx, keys, dict); err != nil {
		return dict, err
	}
	return dict, nil
}

// ResolveKeys looks up the given keys into dict, skipping keys already
// present. Progress covers the full key slice.
func (r *Resolver) ResolveKeys(ctx context.Context, keys []string, dict document.Dictionary) error {
	if len(keys) == 0 {
		r.progress(100)
		return nil
	}
	last := -1
	for i, key := range keys {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, ok := dict[key]; !ok {
			dict[key] = r.LookupKey(key)
		}
		if pct := (i + 1) * 100 / len(keys); pct > last {
			r.progress(pct)
			last = pct
		}
	}
	return nil
}

// LookupKey resolves one already-normalized key. A miss or a source
// failure yields the unknown sentinel, never an error.
func (r *Resolver) LookupKey(key string) document.TranslationEntry {
	if r.Source == nil {
		return document.UnknownEntry()
	}
	entry, ok, err := r.Source.Lookup(key)
	if err != nil {
		if r.Logger != nil {
			r.Logger.Printf("dictionary lookup %q: %v", key, err)
		}
		return document.UnknownEntry()
	}
	if !ok {
		return document.UnknownEntry()
	}
	return entry
}

func (r *Resolver) progress(pct int) {
	if r.OnProgress != nil {
		r.OnProgress(pct)
	}
}

// UpdateWord replaces the entry for one word, leaving all others
// untouched. The word is normalized the same way Resolve normalizes it.
func (r *Resolver) UpdateWord(dict document.Dictionary, word string, entry document.TranslationEntry) string {
	key := r.normalize(word)
	dict.Update(key, entry)
	return key
}
