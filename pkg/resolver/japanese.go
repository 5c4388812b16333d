package resolver

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	kagome "github.com/ikawaha/kagome/v2/tokenizer"
)

// JapaneseNormalizer keys words by their dictionary (base) form so that
// conjugated occurrences share a single dictionary entry. Japanese has no
// case to fold; lemmatization is the useful normalization.
type JapaneseNormalizer struct {
	t *kagome.Tokenizer
}

// NewJapaneseNormalizer builds a kagome-backed normalizer.
func NewJapaneseNormalizer() (*JapaneseNormalizer, error) {
	t, err := kagome.New(ipa.Dict(), kagome.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &JapaneseNormalizer{t: t}, nil
}

// Key returns the base form of the word's first analyzed morpheme.
//
// Kagome IPA features:
//   0: Part of Speech ... 6: Base Form (Lemma) 7: Reading
func (n *JapaneseNormalizer) Key(word string) string {
	for _, tok := range n.t.Tokenize(word) {
		if tok.Class == kagome.DUMMY {
			continue
		}
		features := tok.Features()
		if len(features) > 6 && features[6] != "*" {
			return features[6]
		}
		return tok.Surface
	}
	return strings.ToLower(word)
}

// ForLanguage picks the normalizer for a source language. Unknown
// languages fall back to lowercasing.
func ForLanguage(lang string) (Normalizer, error) {
	switch strings.ToLower(lang) {
	case "ja", "jpn", "japanese":
		return NewJapaneseNormalizer()
	default:
		return Lowercase{}, nil
	}
}
