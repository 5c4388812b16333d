// Package ingest turns raw document text into a resolved Document,
// resolving a small head batch synchronously and the remainder in ordered
// background batches.
package ingest

import (
	"context"
	"log"

	"github.com/ehollis/lingreader/pkg/dictionary"
	"github.com/ehollis/lingreader/pkg/document"
	"github.com/ehollis/lingreader/pkg/resolver"
	"github.com/ehollis/lingreader/pkg/tokenizer"
)

// WorkerPoolInterface abstracts the worker pool so tests can inject
// failing implementations.
type WorkerPoolInterface interface {
	Start(ctx context.Context)
	SubmitCtx(ctx context.Context, job Job) error
	Close()
}

// Ingester builds documents from text. Batches own disjoint token-index
// ranges and their results apply strictly in range order, so no batch can
// overwrite another's entry; a failed batch is logged and skipped.
type Ingester struct {
	Source     dictionary.Source
	Normalizer resolver.Normalizer
	// InitialBatch is the token count resolved synchronously before the
	// background batches start.
	InitialBatch int
	// BatchSize is the token count per background batch.
	BatchSize int
	Workers   int
	// Logger is used for skipped batches and lookup failures. nil means
	// no logging.
	Logger *log.Logger
	// OnProgress receives the percentage of unique keys resolved,
	// non-decreasing and ending at exactly 100.
	OnProgress func(percent int)
	// Apply runs each batch application; the default runs it inline. An
	// embedding event loop can supply a serializing executor here so
	// dictionary merges never race with rendering.
	Apply func(fn func())

	// PoolFactory allows tests to inject custom worker pool implementations.
	PoolFactory func(workers, queue int) WorkerPoolInterface
}

// NewIngester creates an ingester with defaults sized for interactive use.
func NewIngester(src dictionary.Source) *Ingester {
	return &Ingester{
		Source:       src,
		InitialBatch: 400,
		BatchSize:    1000,
		Workers:      4,
	}
}

// batchResult carries one resolved token range. Keys are in first-seen
// order within the range so application is deterministic.
type batchResult struct {
	index   int
	keys    []string
	entries []document.TranslationEntry
	err     error
}

// Ingest tokenizes text, resolves the dictionary in batches and returns
// the completed document. Cancellation discards the partial document.
func (ig *Ingester) Ingest(ctx context.Context, title, text, sourceLang, targetLang string) (*document.Document, error) {
	doc, done := ig.IngestDynamic(ctx, title, text, sourceLang, targetLang)
	if err := <-done; err != nil {
		return nil, err
	}
	return doc, nil
}

// IngestDynamic resolves an initial head of the document synchronously and
// returns the document immediately; the remaining batches resolve in the
// background, applied in index order. The channel yields the final error
// (nil on completion) exactly once.
func (ig *Ingester) IngestDynamic(ctx context.Context, title, text, sourceLang, targetLang string) (*document.Document, <-chan error) {
	done := make(chan error, 1)

	tokens := tokenizer.Tokenize(text)
	res := &resolver.Resolver{
		Source:     ig.Source,
		Normalizer: ig.Normalizer,
		Logger:     ig.Logger,
	}
	doc := document.New(title, sourceLang, targetLang, tokens, nil)

	totalUnique := len(res.UniqueKeys(tokens))
	processed := 0
	lastPct := -1
	report := func() {
		if ig.OnProgress == nil {
			return
		}
		pct := 100
		if totalUnique > 0 {
			pct = processed * 100 / totalUnique
		}
		if pct > lastPct {
			ig.OnProgress(pct)
			lastPct = pct
		}
	}

	apply := ig.Apply
	if apply == nil {
		apply = func(fn func()) { fn() }
	}

	// Head batch, synchronous.
	head := ig.InitialBatch
	if head <= 0 {
		head = 400
	}
	if head > len(tokens) {
		head = len(tokens)
	}
	headKeys := res.UniqueKeys(tokens[:head])
	for _, key := range headKeys {
		select {
		case <-ctx.Done():
			done <- ctx.Err()
			return doc, done
		default:
		}
		if _, ok := doc.Dictionary[key]; !ok {
			doc.Dictionary[key] = res.LookupKey(key)
			processed++
		}
	}
	report()

	if head >= len(tokens) {
		processed = totalUnique
		report()
		done <- nil
		return doc, done
	}

	batchSize := ig.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}

	go func() {
		defer close(done)
		done <- ig.runBackground(ctx, doc, res, tokens, head, batchSize, apply, func(newKeys int) {
			processed += newKeys
			report()
		})
	}()
	return doc, done
}

// runBackground resolves tokens[head:] in fixed-size batches on a worker
// pool and applies results strictly in range order.
func (ig *Ingester) runBackground(
	ctx context.Context,
	doc *document.Document,
	res *resolver.Resolver,
	tokens []tokenizer.Token,
	head, batchSize int,
	apply func(fn func()),
	applied func(newKeys int),
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wp WorkerPoolInterface
	if ig.PoolFactory != nil {
		wp = ig.PoolFactory(ig.Workers, ig.Workers*2)
	} else {
		wp = NewWorkerPool(ig.Workers, ig.Workers*2)
	}
	wp.Start(ctx)
	defer wp.Close()

	numBatches := (len(tokens) - head + batchSize - 1) / batchSize
	resultCh := make(chan batchResult, ig.Workers*2)

	consumerDone := make(chan error, 1)
	go func() {
		defer close(consumerDone)
		buffer := make(map[int]batchResult)
		next := 0
		received := 0
		for received < numBatches {
			select {
			case <-ctx.Done():
				consumerDone <- ctx.Err()
				return
			case r := <-resultCh:
				received++
				buffer[r.index] = r
			}
			// Apply contiguous finished batches in index order.
			for {
				r, ok := buffer[next]
				if !ok {
					break
				}
				delete(buffer, next)
				if r.err != nil {
					// Skipped batches leave their keys unresolved; a
					// later batch or a targeted retry can fill them.
					if ig.Logger != nil {
						ig.Logger.Printf("batch %d failed, skipping: %v", r.index, r.err)
					}
					next++
					continue
				}
				batch := r
				apply(func() {
					newKeys := 0
					for i, key := range batch.keys {
						if _, ok := doc.Dictionary[key]; ok {
							continue
						}
						doc.Dictionary[key] = batch.entries[i]
						newKeys++
					}
					applied(newKeys)
				})
				next++
			}
		}
		consumerDone <- nil
	}()

	for b := 0; b < numBatches; b++ {
		start := head + b*batchSize
		end := start + batchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		index := b
		span := tokens[start:end]
		job := func(jobCtx context.Context) error {
			r := ig.resolveBatch(res, index, span)
			select {
			case resultCh <- r:
			case <-jobCtx.Done():
			}
			return nil
		}
		if err := wp.SubmitCtx(ctx, job); err != nil {
			cancel()
			<-consumerDone
			if err == ErrPoolClosed {
				return ctx.Err()
			}
			return err
		}
	}

	return <-consumerDone
}

// resolveBatch performs the CPU-bound work for one token range: local key
// dedup plus dictionary lookups. Cross-batch dedup happens at apply time.
func (ig *Ingester) resolveBatch(res *resolver.Resolver, index int, span []tokenizer.Token) (r batchResult) {
	defer func() {
		if p := recover(); p != nil {
			r = batchResult{index: index, err: &PoolError{msg: "batch panicked"}}
		}
	}()
	keys := res.UniqueKeys(span)
	entries := make([]document.TranslationEntry, len(keys))
	for i, key := range keys {
		entries[i] = res.LookupKey(key)
	}
	return batchResult{index: index, keys: keys, entries: entries}
}
