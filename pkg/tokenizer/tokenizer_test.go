package tokenizer

import (
	"testing"
)

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"Hello, world!",
		"line one\nline two\n\nparagraph",
		"  leading and trailing  ",
		"don't won't it’s",
		"Привет, мир! Это тест.",
		"안녕하세요 세계",
		"日本語のテキストと English mixed.",
		"tabs\tand\r\nwindows newlines",
		"numbers 123 and symbols #@$%",
		"'quoted' and ''doubled''",
	}
	for _, in := range inputs {
		tokens := Tokenize(in)
		if got := Reassemble(tokens); got != in {
			t.Errorf("round trip failed:\n in: %q\nout: %q", in, got)
		}
	}
}

func TestRoundTripInvalidUTF8(t *testing.T) {
	// Latin-1 and other non-UTF-8 bytes arrive via the plain-text
	// extraction fallback and must survive byte-for-byte.
	inputs := []string{
		"caf\xe9 latte",
		"\xff\xfe",
		"ok\x80ok",
		"trailing continuation \xc3",
	}
	for _, in := range inputs {
		tokens := Tokenize(in)
		if got := Reassemble(tokens); got != in {
			t.Errorf("round trip failed:\n in: %q\nout: %q", in, got)
		}
		offset := 0
		for i, tok := range tokens {
			if tok.CharStart != offset || tok.CharEnd != offset+len(tok.Value) {
				t.Errorf("input %q: token %d offsets [%d,%d) drift from %d",
					in, i, tok.CharStart, tok.CharEnd, offset)
			}
			offset = tok.CharEnd
		}
	}

	tokens := Tokenize("caf\xe9 latte")
	if len(tokens) != 4 {
		t.Fatalf("got %d tokens, want 4: %+v", len(tokens), tokens)
	}
	if tokens[0].Kind != Word || tokens[0].Value != "caf" {
		t.Errorf("token 0 = %+v, want Word \"caf\"", tokens[0])
	}
	if tokens[1].Kind != Punctuation || tokens[1].Value != "\xe9" {
		t.Errorf("invalid byte should be punctuation, got %+v", tokens[1])
	}
	if tokens[3].Kind != Word || tokens[3].Value != "latte" {
		t.Errorf("token 3 = %+v, want Word \"latte\"", tokens[3])
	}
}

func TestTokenInvariants(t *testing.T) {
	tokens := Tokenize("One two,\nthree... four!")
	offset := 0
	for i, tok := range tokens {
		if tok.Value == "" {
			t.Fatalf("token %d is empty", i)
		}
		if tok.Index != i {
			t.Errorf("token %d has index %d", i, tok.Index)
		}
		if tok.CharStart != offset {
			t.Errorf("token %d starts at %d, want %d", i, tok.CharStart, offset)
		}
		if tok.CharEnd != tok.CharStart+len(tok.Value) {
			t.Errorf("token %d end %d does not match value length", i, tok.CharEnd)
		}
		offset = tok.CharEnd
	}
}

func TestExampleSentence(t *testing.T) {
	tokens := Tokenize("Hello, world! Hello again.")
	want := []struct {
		kind  Kind
		value string
	}{
		{Word, "Hello"},
		{Punctuation, ","},
		{Whitespace, " "},
		{Word, "world"},
		{Punctuation, "!"},
		{Whitespace, " "},
		{Word, "Hello"},
		{Whitespace, " "},
		{Word, "again"},
		{Punctuation, "."},
	}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %#v", len(want), len(tokens), tokens)
	}
	for i, w := range want {
		if tokens[i].Kind != w.kind || tokens[i].Value != w.value {
			t.Errorf("token %d: got (%v, %q), want (%v, %q)",
				i, tokens[i].Kind, tokens[i].Value, w.kind, w.value)
		}
	}
}

func TestContractions(t *testing.T) {
	tokens := Tokenize("don't")
	if len(tokens) != 1 || tokens[0].Kind != Word || tokens[0].Value != "don't" {
		t.Fatalf("expected single word token, got %#v", tokens)
	}

	// A leading or trailing apostrophe is punctuation, not part of a word.
	tokens = Tokenize("'tis said'")
	if tokens[0].Kind != Punctuation {
		t.Errorf("leading apostrophe should be punctuation, got %v", tokens[0].Kind)
	}
	last := tokens[len(tokens)-1]
	if last.Kind != Punctuation {
		t.Errorf("trailing apostrophe should be punctuation, got %v", last.Kind)
	}
}

func TestEmptyInput(t *testing.T) {
	if tokens := Tokenize(""); len(tokens) != 0 {
		t.Fatalf("expected no tokens for empty input, got %d", len(tokens))
	}
}

func TestSentenceEndAndNewline(t *testing.T) {
	tokens := Tokenize("End. \n")
	var ends, newlines int
	for _, tok := range tokens {
		if tok.IsSentenceEnd() {
			ends++
		}
		if tok.HasNewline() {
			newlines++
		}
	}
	if ends != 1 {
		t.Errorf("expected 1 sentence-end token, got %d", ends)
	}
	if newlines != 1 {
		t.Errorf("expected 1 newline token, got %d", newlines)
	}
}
