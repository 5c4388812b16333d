package paginate

import (
	"sort"

	"github.com/ehollis/lingreader/pkg/tokenizer"
)

// BreakTable answers page navigation queries over a computed break list.
// It is derived state: recompute it whenever metrics or tokens change,
// never persist it.
type BreakTable struct {
	breaks     []int
	tokenCount int
}

// NewTable computes the break table for the given tokens and metrics.
func NewTable(tokens []tokenizer.Token, m Metrics, t Tuning) BreakTable {
	return BreakTable{
		breaks:     ComputeBreaks(tokens, m, t),
		tokenCount: len(tokens),
	}
}

// Breaks returns the underlying break indices.
func (bt BreakTable) Breaks() []int { return bt.breaks }

// PageCount returns the number of pages, at least 1.
func (bt BreakTable) PageCount() int { return len(bt.breaks) }

// Clamp constrains a 1-based page number to [1, PageCount].
func (bt BreakTable) Clamp(page int) int {
	if page < 1 {
		return 1
	}
	if n := bt.PageCount(); page > n {
		return n
	}
	return page
}

// Next returns the page after the given one, clamped.
func (bt BreakTable) Next(page int) int { return bt.Clamp(page + 1) }

// Prev returns the page before the given one, clamped.
func (bt BreakTable) Prev(page int) int { return bt.Clamp(page - 1) }

// PageFor returns the 1-based page containing the token index.
func (bt BreakTable) PageFor(tokenIndex int) int {
	if tokenIndex < 0 {
		return 1
	}
	// First page whose start is beyond the index; the page before it holds it.
	i := sort.SearchInts(bt.breaks, tokenIndex+1)
	return bt.Clamp(i)
}

// Range returns the token span [start, end) of a page.
func (bt BreakTable) Range(page int) (start, end int) {
	page = bt.Clamp(page)
	start = bt.breaks[page-1]
	if page < len(bt.breaks) {
		end = bt.breaks[page]
	} else {
		end = bt.tokenCount
	}
	return start, end
}
