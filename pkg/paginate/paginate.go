// Package paginate estimates page breaks from viewport metrics alone,
// without a text-rendering engine.
package paginate

import (
	"strings"
	"unicode/utf8"

	"github.com/ehollis/lingreader/pkg/tokenizer"
)

// Metrics are the opaque layout inputs supplied by the presentation layer.
type Metrics struct {
	ViewportWidthPx  float64
	ViewportHeightPx float64
	FontSizePx       float64
	LineHeightPx     float64
}

// Tuning holds the heuristic constants. They differ across scripts and are
// configuration, not contract.
type Tuning struct {
	// AvgCharWidthRatio estimates glyph width as a fraction of font size.
	AvgCharWidthRatio float64
	MinLineChars      int
	MaxLineChars      int
	// SafetyMarginLines reserves lines to avoid visual overflow; at least 1.
	SafetyMarginLines int
	// RefineWindow is how many tokens a break may move backward to land
	// after a paragraph newline or sentence end.
	RefineWindow int
}

// DefaultTuning returns constants suitable for Latin scripts.
func DefaultTuning() Tuning {
	return Tuning{
		AvgCharWidthRatio: 0.55,
		MinLineChars:      30,
		MaxLineChars:      90,
		SafetyMarginLines: 1,
		RefineWindow:      20,
	}
}

// ComputeBreaks partitions tokens into pages and returns the strictly
// increasing token indices of page starts, always beginning with 0. The
// function is pure: identical inputs yield identical tables, so it is safe
// to recompute on every metrics or token change. An empty token list
// yields a single page ([0]).
func ComputeBreaks(tokens []tokenizer.Token, m Metrics, t Tuning) []int {
	breaks := []int{0}
	if len(tokens) == 0 {
		return breaks
	}

	cpl := charsPerLine(m, t)
	lpp := linesPerPage(m, t)

	usedLines := 0
	lineLen := 0
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		overflowAt := -1

		if n := strings.Count(tok.Value, "\n"); tok.Kind == tokenizer.Whitespace && n > 0 {
			usedLines += n
			lineLen = 0
			if usedLines >= lpp {
				overflowAt = i + 1 // page ends with the newline run
			}
		} else {
			l := utf8.RuneCountInString(tok.Value)
			if lineLen+l > cpl {
				usedLines++
				lineLen = l
				if usedLines >= lpp {
					overflowAt = i // this token starts the next page
				}
			} else {
				lineLen += l
			}
		}

		if overflowAt < 0 {
			continue
		}
		last := breaks[len(breaks)-1]
		bp := refine(tokens, overflowAt, last, t.RefineWindow)
		if bp <= last {
			bp = last + 1
		}
		if bp >= len(tokens) {
			break
		}
		breaks = append(breaks, bp)
		// Replay tokens from the refined break on the fresh page.
		usedLines = 0
		lineLen = 0
		i = bp - 1
	}
	return breaks
}

// refine scans backward up to window tokens from the raw overflow point,
// preferring a break immediately after a paragraph-ending newline or a
// sentence-terminal punctuation mark.
func refine(tokens []tokenizer.Token, raw, lastBreak, window int) int {
	lo := raw - window
	if lo < lastBreak+1 {
		lo = lastBreak + 1
	}
	if lo < 1 {
		lo = 1
	}
	for b := raw; b >= lo; b-- {
		if b > len(tokens) {
			continue
		}
		prev := tokens[b-1]
		if prev.HasNewline() || prev.IsSentenceEnd() {
			return b
		}
	}
	return raw
}

func charsPerLine(m Metrics, t Tuning) int {
	avg := m.FontSizePx * t.AvgCharWidthRatio
	if avg <= 0 {
		avg = 1
	}
	cpl := int(m.ViewportWidthPx / avg)
	min := t.MinLineChars
	if min < 30 {
		min = 30
	}
	if cpl < min {
		cpl = min
	}
	if t.MaxLineChars > 0 && cpl > t.MaxLineChars {
		cpl = t.MaxLineChars
	}
	return cpl
}

func linesPerPage(m Metrics, t Tuning) int {
	lh := m.LineHeightPx
	if lh <= 0 {
		lh = m.FontSizePx * 1.5
	}
	if lh <= 0 {
		lh = 1
	}
	margin := t.SafetyMarginLines
	if margin < 1 {
		margin = 1
	}
	lpp := int(m.ViewportHeightPx/lh) - margin
	if lpp < 1 {
		lpp = 1
	}
	return lpp
}
