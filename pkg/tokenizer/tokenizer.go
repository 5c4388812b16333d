// Package tokenizer splits document text into ordered, lossless tokens.
package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Kind classifies a token.
type Kind int

const (
	Word Kind = iota
	Punctuation
	Whitespace
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case Punctuation:
		return "punctuation"
	case Whitespace:
		return "whitespace"
	}
	return "unknown"
}

// Token is a single lexical unit carrying exact source offsets.
// CharStart and CharEnd are byte offsets into the original text.
type Token struct {
	Kind      Kind
	Value     string
	Index     int
	CharStart int
	CharEnd   int
}

// IsSentenceEnd reports whether the token is sentence-terminal punctuation.
func (t Token) IsSentenceEnd() bool {
	if t.Kind != Punctuation || t.Value == "" {
		return false
	}
	switch t.Value[len(t.Value)-1] {
	case '.', '!', '?':
		return true
	}
	return false
}

// HasNewline reports whether a whitespace token contains a line break.
func (t Token) HasNewline() bool {
	return t.Kind == Whitespace && strings.ContainsRune(t.Value, '\n')
}

// Tokenize splits text into maximal runs of letters (Word), whitespace
// (Whitespace) and everything else (Punctuation). An apostrophe between two
// letters is kept inside the surrounding word so contractions stay whole.
// Concatenating the returned values in order reproduces text exactly:
// token values are slices of the input, and bytes that do not decode as
// UTF-8 are carried through verbatim as punctuation.
func Tokenize(text string) []Token {
	if text == "" {
		return nil
	}

	var tokens []Token
	for i := 0; i < len(text); {
		kind, size := classAt(text, i)
		j := i + size
		for j < len(text) {
			k, s := classAt(text, j)
			if k != kind {
				break
			}
			j += s
		}
		tokens = append(tokens, Token{
			Kind:      kind,
			Value:     text[i:j],
			Index:     len(tokens),
			CharStart: i,
			CharEnd:   j,
		})
		i = j
	}
	return tokens
}

// Reassemble restores the original text from a token sequence.
func Reassemble(tokens []Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Value)
	}
	return b.String()
}

// classAt classifies the rune starting at byte offset i and returns its
// encoded size.
func classAt(text string, i int) (Kind, int) {
	r, size := utf8.DecodeRuneInString(text[i:])
	switch {
	case r == utf8.RuneError && size == 1:
		// Not valid UTF-8; the byte still round-trips.
		return Punctuation, 1
	case unicode.IsSpace(r):
		return Whitespace, size
	case unicode.IsLetter(r):
		return Word, size
	case isApostrophe(r):
		// Internal apostrophes join contractions ("don't", "l'eau").
		prev, _ := utf8.DecodeLastRuneInString(text[:i])
		next, _ := utf8.DecodeRuneInString(text[i+size:])
		if unicode.IsLetter(prev) && unicode.IsLetter(next) {
			return Word, size
		}
		return Punctuation, size
	default:
		return Punctuation, size
	}
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}
