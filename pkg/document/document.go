// Package document holds the core reading-surface model.
package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/ehollis/lingreader/pkg/tokenizer"
)

// TranslationEntry is one resolved translation for a normalized word key.
// Unknown marks the explicit miss sentinel: the word was looked up and the
// dictionary had no answer, which is always recoverable via a later retry.
type TranslationEntry struct {
	Translation  string
	PartOfSpeech string
	Unknown      bool
}

// UnknownEntry returns the sentinel stored for a dictionary miss.
func UnknownEntry() TranslationEntry {
	return TranslationEntry{Translation: "?", Unknown: true}
}

// Dictionary maps a normalized word key to exactly one translation entry,
// regardless of how many token occurrences share that key.
type Dictionary map[string]TranslationEntry

// Update replaces exactly one key's entry, leaving all others untouched.
func (d Dictionary) Update(key string, e TranslationEntry) {
	d[key] = e
}

// DisplayMode is the persisted reading mode.
type DisplayMode string

const (
	DisplayScroll DisplayMode = "scroll"
	DisplayPage   DisplayMode = "page"
)

// Document is the assembled reading surface. Tokens are immutable after
// creation; Dictionary entries may be replaced individually; the whole
// document is replaced atomically on persistence load/save.
type Document struct {
	ID                 string
	Title              string
	SourceLanguage     string
	TargetLanguage     string
	Tokens             []tokenizer.Token
	Dictionary         Dictionary
	CreatedAt          time.Time
	LastOpenedAt       time.Time
	LastReadTokenIndex int
	FontSizePx         int
	DisplayMode        DisplayMode
}

// New creates a document with a fresh id and timestamps.
func New(title, sourceLang, targetLang string, tokens []tokenizer.Token, dict Dictionary) *Document {
	if dict == nil {
		dict = make(Dictionary)
	}
	now := time.Now().UTC()
	return &Document{
		ID:             uuid.NewString(),
		Title:          title,
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		Tokens:         tokens,
		Dictionary:     dict,
		CreatedAt:      now,
		LastOpenedAt:   now,
		FontSizePx:     18,
		DisplayMode:    DisplayScroll,
	}
}

// Metadata is the listing view of a stored document.
type Metadata struct {
	ID             string
	Title          string
	SourceLanguage string
	TargetLanguage string
	CreatedAt      time.Time
	LastOpenedAt   time.Time
}

// HighlightRange is a pure highlighted-span value over token indices,
// inclusive on both ends. How a presentation layer renders it is not this
// package's concern.
type HighlightRange struct {
	StartToken int
	EndToken   int
}

// Contains reports whether the token index falls inside the range.
func (h HighlightRange) Contains(tokenIndex int) bool {
	return tokenIndex >= h.StartToken && tokenIndex <= h.EndToken
}
