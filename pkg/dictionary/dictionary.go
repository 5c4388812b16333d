// Package dictionary provides word-translation sources for the resolver.
package dictionary

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ehollis/lingreader/pkg/document"
)

// LanguagePair identifies a source→target translation direction.
type LanguagePair struct {
	Source string
	Target string
}

func (p LanguagePair) String() string {
	return p.Source + "-" + p.Target
}

// Source answers lookups for normalized word keys. A false second return
// is a miss, not an error; errors are reserved for source failures.
type Source interface {
	Lookup(key string) (document.TranslationEntry, bool, error)
}

// BundleEntry matches one entry of a JSON dictionary bundle file.
type BundleEntry struct {
	Word         string `json:"word"`
	Translation  string `json:"translation"`
	PartOfSpeech string `json:"pos,omitempty"`
}

// BundleSource is an in-memory source built from a dictionary bundle.
// Only the first entry per word is kept, so lookups are one-per-key.
type BundleSource struct {
	index map[string]document.TranslationEntry
}

// NewBundleSource indexes the given entries.
func NewBundleSource(entries []BundleEntry) *BundleSource {
	idx := make(map[string]document.TranslationEntry, len(entries))
	for _, e := range entries {
		if e.Word == "" {
			continue
		}
		if _, ok := idx[e.Word]; ok {
			continue
		}
		idx[e.Word] = document.TranslationEntry{
			Translation:  e.Translation,
			PartOfSpeech: e.PartOfSpeech,
		}
	}
	return &BundleSource{index: idx}
}

// Lookup finds the entry for a normalized key.
func (s *BundleSource) Lookup(key string) (document.TranslationEntry, bool, error) {
	e, ok := s.index[key]
	return e, ok, nil
}

// Len returns the number of indexed keys.
func (s *BundleSource) Len() int { return len(s.index) }

// LoadBundle reads a dictionary bundle JSON file. Bundles come in two
// shapes: a wrapper object { "entries": [...] } or a bare array [...].
func LoadBundle(path string) ([]BundleEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var wrapper struct {
		Entries []BundleEntry `json:"entries"`
	}
	dec := json.NewDecoder(f)
	if err := dec.Decode(&wrapper); err == nil && len(wrapper.Entries) > 0 {
		return wrapper.Entries, nil
	}

	if _, err := f.Seek(0, 0); err != nil {
		return nil, err
	}
	var entries []BundleEntry
	dec = json.NewDecoder(f)
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse bundle as object or array: %w", err)
	}
	return entries, nil
}
