package codec

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ehollis/lingreader/pkg/document"
	"github.com/ehollis/lingreader/pkg/tokenizer"
)

func fixtureDoc() *document.Document {
	tokens := tokenizer.Tokenize("Hello, world! Hello again.\nNew paragraph.")
	dict := document.Dictionary{
		"hello":     {Translation: "hola", PartOfSpeech: "interjection"},
		"world":     {Translation: "mundo", PartOfSpeech: "noun"},
		"again":     document.UnknownEntry(),
		"new":       {Translation: "nuevo"},
		"paragraph": {Translation: "párrafo"},
	}
	doc := document.New("Greetings", "en", "es", tokens, dict)
	doc.LastReadTokenIndex = 6
	doc.DisplayMode = document.DisplayPage
	return doc
}

func TestRoundTrip(t *testing.T) {
	doc := fixtureDoc()
	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !reflect.DeepEqual(got.Tokens, doc.Tokens) {
		t.Errorf("tokens differ after round trip:\n got %#v\nwant %#v", got.Tokens, doc.Tokens)
	}
	if !reflect.DeepEqual(got.Dictionary, doc.Dictionary) {
		t.Errorf("dictionary differs after round trip:\n got %#v\nwant %#v", got.Dictionary, doc.Dictionary)
	}
	if got.ID != doc.ID || got.Title != doc.Title {
		t.Errorf("identity fields differ: %q %q", got.ID, got.Title)
	}
	if got.LastReadTokenIndex != 6 || got.DisplayMode != document.DisplayPage {
		t.Errorf("state fields differ: pos=%d mode=%v", got.LastReadTokenIndex, got.DisplayMode)
	}
}

func TestEncodingIsCompact(t *testing.T) {
	doc := fixtureDoc()
	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Tokens are positional tuples, not objects with repeated field names.
	var tuples [][]json.RawMessage
	if err := json.Unmarshal(raw["tokens"], &tuples); err != nil {
		t.Fatalf("tokens are not arrays of tuples: %v", err)
	}
	if len(tuples) != len(doc.Tokens) {
		t.Fatalf("expected %d token tuples, got %d", len(doc.Tokens), len(tuples))
	}

	// The word "hello" occurs twice but is stored once.
	count := strings.Count(string(raw["dict"]), `"hello"`)
	if count != 1 {
		t.Errorf("dictionary key stored %d times, want once per unique key", count)
	}
}

func TestDecodeLegacyUntagged(t *testing.T) {
	legacy := `{
		"id": "legacy-1",
		"title": "Old record",
		"src": "en", "tgt": "es",
		"text": "Hello hello world.",
		"pos": 2,
		"words": [
			{"word": "Hello", "translation": "hola"},
			{"word": "hello", "translation": "buenas"},
			{"word": "world", "translation": "mundo", "pos": "noun"},
			{"word": "lost", "translation": ""}
		]
	}`
	doc, err := Decode([]byte(legacy))
	if err != nil {
		t.Fatalf("decode legacy: %v", err)
	}
	if doc.ID != "legacy-1" || doc.LastReadTokenIndex != 2 {
		t.Errorf("legacy fields not carried: %q pos=%d", doc.ID, doc.LastReadTokenIndex)
	}
	if got := tokenizer.Reassemble(doc.Tokens); got != "Hello hello world." {
		t.Errorf("legacy text not retokenized: %q", got)
	}
	// The occurrence list dedupes, first occurrence winning.
	if len(doc.Dictionary) != 3 {
		t.Fatalf("expected 3 synthesized keys, got %d: %v", len(doc.Dictionary), doc.Dictionary)
	}
	if e := doc.Dictionary["hello"]; e.Translation != "hola" {
		t.Errorf("first occurrence should win, got %+v", e)
	}
	if e := doc.Dictionary["lost"]; !e.Unknown {
		t.Errorf("empty legacy translation should become unknown sentinel, got %+v", e)
	}
}

func TestDecodeCorrupted(t *testing.T) {
	cases := [][]byte{
		[]byte(`not json at all`),
		[]byte(`{"v": 99, "tokens": []}`),
		[]byte(`{"title": "no text, no words"}`),
		[]byte(`{"v": 2, "tokens": [[0, ""]]}`),
	}
	for _, data := range cases {
		if _, err := Decode(data); !errors.Is(err, ErrCorruptedRecord) {
			t.Errorf("Decode(%.40s): err = %v, want ErrCorruptedRecord", data, err)
		}
	}
}

func TestDecodeMetadata(t *testing.T) {
	doc := fixtureDoc()
	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	meta, err := DecodeMetadata(data)
	if err != nil {
		t.Fatalf("decode metadata: %v", err)
	}
	if meta.ID != doc.ID || meta.Title != doc.Title || meta.SourceLanguage != "en" {
		t.Errorf("unexpected metadata %+v", meta)
	}
}

func TestEmptyDocumentRoundTrip(t *testing.T) {
	doc := document.New("Empty", "en", "es", nil, nil)
	data, err := Encode(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Tokens) != 0 || len(got.Dictionary) != 0 {
		t.Errorf("empty document round trip: %d tokens, %d entries",
			len(got.Tokens), len(got.Dictionary))
	}
}
