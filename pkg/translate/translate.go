// Package translate resolves words and phrases through an external
// machine translation backend. It is used when the local dictionary has
// no entry or when the user explicitly requests a fresh translation.
package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/ehollis/lingreader/pkg/dictionary"
	"github.com/ehollis/lingreader/pkg/document"
)

// Backend translates between a language pair. Implementations must be
// safe for concurrent use.
type Backend interface {
	// TranslateWord translates a single word, optionally using the
	// sentence it appeared in to disambiguate.
	TranslateWord(ctx context.Context, word, sentence string, pair dictionary.LanguagePair) (document.TranslationEntry, error)

	// TranslatePhrase translates a free-form phrase or passage.
	TranslatePhrase(ctx context.Context, phrase string, pair dictionary.LanguagePair) (string, error)

	// IsAvailable reports whether the backend is configured and usable.
	IsAvailable() bool
}

func wordPrompt(word, sentence string, pair dictionary.LanguagePair) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the %s word %q into %s.", languageName(pair.Source), word, languageName(pair.Target))
	if sentence != "" {
		fmt.Fprintf(&b, " It appears in this sentence: %q.", sentence)
	}
	b.WriteString(` Reply with only a JSON object of the form {"translation": "...", "pos": "..."} where pos is the part of speech, and nothing else.`)
	return b.String()
}

func phrasePrompt(phrase string, pair dictionary.LanguagePair) string {
	return fmt.Sprintf("Translate the following %s text into %s. Reply with only the translation, nothing else.\n\n%s",
		languageName(pair.Source), languageName(pair.Target), phrase)
}

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ru": "Russian",
	"ja": "Japanese",
	"zh": "Chinese",
	"ko": "Korean",
}

func languageName(code string) string {
	if name, ok := languageNames[strings.ToLower(code)]; ok {
		return name
	}
	return code
}
