package document

import (
	"testing"

	"github.com/ehollis/lingreader/pkg/tokenizer"
)

func TestNewDefaults(t *testing.T) {
	tokens := tokenizer.Tokenize("Hola mundo.")
	doc := New("Saludo", "es", "en", tokens, nil)

	if doc.ID == "" {
		t.Error("missing id")
	}
	if doc.Dictionary == nil {
		t.Error("nil dictionary should be replaced with an empty one")
	}
	if doc.FontSizePx != 18 || doc.DisplayMode != DisplayScroll {
		t.Errorf("unexpected defaults: font=%d mode=%s", doc.FontSizePx, doc.DisplayMode)
	}
	if doc.CreatedAt.IsZero() || doc.LastOpenedAt.IsZero() {
		t.Error("timestamps not set")
	}
	if doc.LastReadTokenIndex != 0 {
		t.Errorf("new document should start at token 0, got %d", doc.LastReadTokenIndex)
	}

	other := New("Saludo", "es", "en", tokens, nil)
	if other.ID == doc.ID {
		t.Error("ids should be unique per document")
	}
}

func TestDictionaryUpdate(t *testing.T) {
	d := Dictionary{"hola": {Translation: "hello"}}
	d.Update("hola", TranslationEntry{Translation: "hi"})
	d.Update("mundo", TranslationEntry{Translation: "world"})

	if d["hola"].Translation != "hi" {
		t.Errorf("update did not replace entry: %+v", d["hola"])
	}
	if len(d) != 2 {
		t.Errorf("len = %d, want 2", len(d))
	}
}

func TestUnknownEntry(t *testing.T) {
	e := UnknownEntry()
	if !e.Unknown {
		t.Error("sentinel must carry the unknown flag")
	}
	if e.Translation == "" {
		t.Error("sentinel should still render something")
	}
}

func TestHighlightRangeContains(t *testing.T) {
	h := HighlightRange{StartToken: 3, EndToken: 7}
	for i, want := range map[int]bool{2: false, 3: true, 5: true, 7: true, 8: false} {
		if got := h.Contains(i); got != want {
			t.Errorf("Contains(%d) = %v, want %v", i, got, want)
		}
	}
}
