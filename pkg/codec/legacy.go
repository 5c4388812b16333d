package codec

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ehollis/lingreader/pkg/document"
	"github.com/ehollis/lingreader/pkg/tokenizer"
)

// recordLegacy is the untagged first-generation shape: the raw source text
// plus a flat per-occurrence word list. No unique-dictionary field exists,
// so decoding synthesizes one by deduplication.
type recordLegacy struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Source   string `json:"src"`
	Target   string `json:"tgt"`
	Text     string `json:"text"`
	LastRead int    `json:"pos"`
	Words    []struct {
		Word         string `json:"word"`
		Translation  string `json:"translation"`
		PartOfSpeech string `json:"pos,omitempty"`
	} `json:"words"`
}

func decodeLegacy(data []byte) (*document.Document, error) {
	var rec recordLegacy
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedRecord, err)
	}
	if rec.Text == "" && len(rec.Words) == 0 {
		return nil, fmt.Errorf("%w: legacy record has neither text nor words", ErrCorruptedRecord)
	}

	tokens := tokenizer.Tokenize(rec.Text)

	// First occurrence wins; later duplicates in the flat list are the
	// same word seen again.
	dict := make(document.Dictionary)
	for _, w := range rec.Words {
		key := strings.ToLower(strings.TrimSpace(w.Word))
		if key == "" {
			continue
		}
		if _, ok := dict[key]; ok {
			continue
		}
		entry := document.TranslationEntry{
			Translation:  w.Translation,
			PartOfSpeech: w.PartOfSpeech,
		}
		if entry.Translation == "" {
			entry = document.UnknownEntry()
		}
		dict[key] = entry
	}

	now := time.Now().UTC()
	return &document.Document{
		ID:                 rec.ID,
		Title:              rec.Title,
		SourceLanguage:     rec.Source,
		TargetLanguage:     rec.Target,
		Tokens:             tokens,
		Dictionary:         dict,
		CreatedAt:          now,
		LastOpenedAt:       now,
		LastReadTokenIndex: rec.LastRead,
		FontSizePx:         18,
		DisplayMode:        document.DisplayScroll,
	}, nil
}
