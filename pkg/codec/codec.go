// Package codec encodes documents to a versioned compact record and back.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ehollis/lingreader/pkg/document"
	"github.com/ehollis/lingreader/pkg/tokenizer"
)

// Version is the current record version.
const Version = 2

// ErrCorruptedRecord is returned when a stored record cannot be
// reconstructed, even best-effort.
var ErrCorruptedRecord = errors.New("codec: corrupted or unrecognized record")

// tokenTuple is the positional wire form of a token: [kind, value].
// Index and char offsets are recomputed on decode from the lossless
// ordering invariant.
type tokenTuple struct {
	Kind  int
	Value string
}

func (t tokenTuple) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{t.Kind, t.Value})
}

func (t *tokenTuple) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &t.Kind); err != nil {
		return fmt.Errorf("token kind: %w", err)
	}
	if err := json.Unmarshal(raw[1], &t.Value); err != nil {
		return fmt.Errorf("token value: %w", err)
	}
	return nil
}

// entryTuple is the positional wire form of a dictionary entry:
// [translation, partOfSpeech, unknownFlag].
type entryTuple struct {
	Translation  string
	PartOfSpeech string
	Unknown      bool
}

func (e entryTuple) MarshalJSON() ([]byte, error) {
	flag := 0
	if e.Unknown {
		flag = 1
	}
	return json.Marshal([3]any{e.Translation, e.PartOfSpeech, flag})
}

func (e *entryTuple) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) < 2 {
		return fmt.Errorf("entry tuple has %d fields", len(raw))
	}
	if err := json.Unmarshal(raw[0], &e.Translation); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[1], &e.PartOfSpeech); err != nil {
		return err
	}
	if len(raw) > 2 {
		var flag int
		if err := json.Unmarshal(raw[2], &flag); err != nil {
			return err
		}
		e.Unknown = flag != 0
	}
	return nil
}

type recordV2 struct {
	Version  int                   `json:"v"`
	ID       string                `json:"id"`
	Title    string                `json:"title"`
	Source   string                `json:"src"`
	Target   string                `json:"tgt"`
	Created  int64                 `json:"created"`
	Opened   int64                 `json:"opened"`
	LastRead int                   `json:"pos"`
	FontSize int                   `json:"font"`
	Mode     string                `json:"mode"`
	Tokens   []tokenTuple          `json:"tokens"`
	Dict     map[string]entryTuple `json:"dict"`
}

// Encode serializes the document to the current compact record form:
// tokens as positional tuples, the dictionary exactly once per unique key.
func Encode(doc *document.Document) ([]byte, error) {
	rec := recordV2{
		Version:  Version,
		ID:       doc.ID,
		Title:    doc.Title,
		Source:   doc.SourceLanguage,
		Target:   doc.TargetLanguage,
		Created:  doc.CreatedAt.Unix(),
		Opened:   doc.LastOpenedAt.Unix(),
		LastRead: doc.LastReadTokenIndex,
		FontSize: doc.FontSizePx,
		Mode:     string(doc.DisplayMode),
		Tokens:   make([]tokenTuple, len(doc.Tokens)),
		Dict:     make(map[string]entryTuple, len(doc.Dictionary)),
	}
	for i, t := range doc.Tokens {
		rec.Tokens[i] = tokenTuple{Kind: int(t.Kind), Value: t.Value}
	}
	for key, e := range doc.Dictionary {
		rec.Dict[key] = entryTuple{
			Translation:  e.Translation,
			PartOfSpeech: e.PartOfSpeech,
			Unknown:      e.Unknown,
		}
	}
	return json.Marshal(rec)
}

// Decode dispatches on the record's version tag. Records without a tag are
// reconstructed best-effort as the legacy shape; anything unreadable maps
// to ErrCorruptedRecord.
func Decode(data []byte) (*document.Document, error) {
	var probe struct {
		Version int `json:"v"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedRecord, err)
	}
	switch probe.Version {
	case Version:
		return decodeV2(data)
	case 0:
		return decodeLegacy(data)
	default:
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptedRecord, probe.Version)
	}
}

// DecodeMetadata extracts the listing fields without rebuilding tokens.
func DecodeMetadata(data []byte) (document.Metadata, error) {
	var rec struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		Source  string `json:"src"`
		Target  string `json:"tgt"`
		Created int64  `json:"created"`
		Opened  int64  `json:"opened"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return document.Metadata{}, fmt.Errorf("%w: %v", ErrCorruptedRecord, err)
	}
	return document.Metadata{
		ID:             rec.ID,
		Title:          rec.Title,
		SourceLanguage: rec.Source,
		TargetLanguage: rec.Target,
		CreatedAt:      time.Unix(rec.Created, 0).UTC(),
		LastOpenedAt:   time.Unix(rec.Opened, 0).UTC(),
	}, nil
}

func decodeV2(data []byte) (*document.Document, error) {
	var rec recordV2
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptedRecord, err)
	}

	tokens := make([]tokenizer.Token, len(rec.Tokens))
	offset := 0
	for i, tt := range rec.Tokens {
		if tt.Value == "" || tt.Kind < int(tokenizer.Word) || tt.Kind > int(tokenizer.Whitespace) {
			return nil, fmt.Errorf("%w: invalid token tuple at %d", ErrCorruptedRecord, i)
		}
		tokens[i] = tokenizer.Token{
			Kind:      tokenizer.Kind(tt.Kind),
			Value:     tt.Value,
			Index:     i,
			CharStart: offset,
			CharEnd:   offset + len(tt.Value),
		}
		offset += len(tt.Value)
	}

	dict := make(document.Dictionary, len(rec.Dict))
	for key, e := range rec.Dict {
		dict[key] = document.TranslationEntry{
			Translation:  e.Translation,
			PartOfSpeech: e.PartOfSpeech,
			Unknown:      e.Unknown,
		}
	}

	mode := document.DisplayMode(rec.Mode)
	if mode != document.DisplayPage {
		mode = document.DisplayScroll
	}
	return &document.Document{
		ID:                 rec.ID,
		Title:              rec.Title,
		SourceLanguage:     rec.Source,
		TargetLanguage:     rec.Target,
		Tokens:             tokens,
		Dictionary:         dict,
		CreatedAt:          time.Unix(rec.Created, 0).UTC(),
		LastOpenedAt:       time.Unix(rec.Opened, 0).UTC(),
		LastReadTokenIndex: rec.LastRead,
		FontSizePx:         rec.FontSize,
		DisplayMode:        mode,
	}, nil
}
