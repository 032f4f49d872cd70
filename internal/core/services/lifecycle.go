package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/campus-assistant/internal/core/domain"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driven"
	"github.com/custodia-labs/campus-assistant/internal/core/ports/driving"
	"github.com/custodia-labs/campus-assistant/internal/logger"
)

// Ensure IndexLifecycle implements the interface.
var _ driving.IndexService = (*IndexLifecycle)(nil)

// TransitionFunc observes lifecycle state changes.
type TransitionFunc func(from, to domain.IndexState)

// LifecycleDeps are the collaborators of an IndexLifecycle.
type LifecycleDeps struct {
	Acquirer    driven.Acquirer
	Normalisers driven.NormaliserRegistry
	Pipeline    driven.PostProcessorPipeline
	Embedder    driven.EmbeddingService
	Factory     driven.VectorIndexFactory
	Store       driven.IndexStore

	// Locations are fetched when Rebuild is called without any.
	Locations []string
}

// IndexLifecycle loads or builds the vector index and publishes it once ready.
//
// The serving index is swapped atomically. Readers call Index and never block
// on a build.
type IndexLifecycle struct {
	deps LifecycleDeps

	mu           sync.Mutex
	state        domain.IndexState
	onTransition TransitionFunc

	index    atomic.Pointer[servingIndex]
	started  atomic.Bool
	building atomic.Bool
}

type servingIndex struct {
	idx driven.VectorIndex
}

// NewIndexLifecycle creates a lifecycle in the Checking state.
func NewIndexLifecycle(deps LifecycleDeps) *IndexLifecycle {
	return &IndexLifecycle{
		deps:  deps,
		state: domain.IndexStateChecking,
	}
}

// OnTransition registers fn to be called after every state change.
// fn runs synchronously and must not call back into the lifecycle's setters.
func (l *IndexLifecycle) OnTransition(fn TransitionFunc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onTransition = fn
}

// State returns the current lifecycle state.
func (l *IndexLifecycle) State() domain.IndexState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Index returns the serving index, or nil before the first index is ready.
func (l *IndexLifecycle) Index() driven.VectorIndex {
	if s := l.index.Load(); s != nil {
		return s.idx
	}
	return nil
}

// Metadata describes the serving index.
func (l *IndexLifecycle) Metadata() (domain.IndexMetadata, bool) {
	idx := l.Index()
	if idx == nil {
		return domain.IndexMetadata{}, false
	}
	return idx.Metadata(), true
}

// Sources lists the distinct chunk sources of the serving index.
func (l *IndexLifecycle) Sources() []string {
	idx := l.Index()
	if idx == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, c := range idx.Chunks() {
		if !seen[c.Source] {
			seen[c.Source] = true
			out = append(out, c.Source)
		}
	}
	return out
}

// Start restores the persisted index when one exists and builds a new one
// otherwise. It may be called once. Any returned error leaves the lifecycle
// Failed and should stop the process.
func (l *IndexLifecycle) Start(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return errors.New("index lifecycle already started")
	}
	l.building.Store(true)
	defer l.building.Store(false)

	logger.Section("Index Lifecycle")
	l.transition(domain.IndexStateChecking)

	exists, err := l.deps.Store.Exists(ctx)
	if err != nil {
		return l.fail(fmt.Errorf("check index: %w", err))
	}

	if exists {
		idx, err := l.load(ctx)
		if err != nil {
			return l.fail(err)
		}
		l.publish(idx)
		logger.Info("restored %d chunks from %s", idx.Len(), l.deps.Store.Location())
		return nil
	}

	logger.Info("no index at %s, building", l.deps.Store.Location())
	idx, err := l.build(ctx, l.deps.Locations, l.transition)
	if err != nil {
		return l.fail(err)
	}
	l.publish(idx)
	return nil
}

// Rebuild builds a new index from locations (the configured ones when empty)
// and swaps it in. While an index is serving, the state stays Ready and the
// old index answers questions until the swap.
func (l *IndexLifecycle) Rebuild(ctx context.Context, locations []string) error {
	if !l.building.CompareAndSwap(false, true) {
		return domain.ErrRebuildInProgress
	}
	defer l.building.Store(false)

	if len(locations) == 0 {
		locations = l.deps.Locations
	}

	logger.Section("Index Rebuild")
	report := l.transition
	serving := l.Index() != nil
	if serving {
		report = func(to domain.IndexState) {
			logger.Info("rebuild: %s", to)
		}
	}

	idx, err := l.build(ctx, locations, report)
	if err != nil {
		if !serving {
			l.fail(err)
		}
		return fmt.Errorf("rebuild index: %w", err)
	}
	l.publish(idx)
	return nil
}

// load restores the persisted index and checks it matches the embedder.
func (l *IndexLifecycle) load(ctx context.Context) (driven.VectorIndex, error) {
	l.transition(domain.IndexStateLoading)

	meta, chunks, err := l.deps.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}

	if model := l.deps.Embedder.ModelName(); meta.Model != model {
		return nil, fmt.Errorf("%w: index built with embedding model %q, configured model is %q",
			domain.ErrCorruptIndex, meta.Model, model)
	}
	if dim := l.deps.Embedder.Dimensions(); dim > 0 && meta.Dimension != dim {
		return nil, fmt.Errorf("%w: index has %d dimensions, embedder produces %d",
			domain.ErrCorruptIndex, meta.Dimension, dim)
	}

	idx, err := l.deps.Factory.Restore(meta, chunks)
	if err != nil {
		return nil, fmt.Errorf("restore index: %w", err)
	}
	return idx, nil
}

// build runs acquisition through persistence. report receives each stage.
func (l *IndexLifecycle) build(
	ctx context.Context,
	locations []string,
	report func(domain.IndexState),
) (driven.VectorIndex, error) {
	report(domain.IndexStateAcquiring)
	raws, err := l.deps.Acquirer.Acquire(ctx, locations)
	if err != nil {
		return nil, fmt.Errorf("acquire: %w", err)
	}

	report(domain.IndexStateNormalizing)
	chunks, err := l.normalise(ctx, raws)
	if err != nil {
		return nil, err
	}

	// Build embeds the chunks, then assembles the index.
	report(domain.IndexStateEmbedding)
	idx, err := l.deps.Factory.Build(ctx, chunks, l.deps.Embedder)
	if err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	report(domain.IndexStateBuilding)
	logger.Info("indexed %d chunk(s) with %s", idx.Len(), l.deps.Embedder.ModelName())

	report(domain.IndexStatePersisting)
	if err := l.deps.Store.Save(ctx, idx); err != nil {
		// The in-memory index is still good; the next start rebuilds.
		logger.Warn("%v", fmt.Errorf("%w: %w", domain.ErrPersistence, err))
	}

	return idx, nil
}

// normalise converts raw documents to chunks, in acquisition order.
// A document that fails to normalise is skipped with a warning.
func (l *IndexLifecycle) normalise(ctx context.Context, raws []domain.RawDocument) ([]domain.Chunk, error) {
	var chunks []domain.Chunk
	for i := range raws {
		result, err := l.deps.Normalisers.Normalise(ctx, &raws[i])
		if err != nil {
			logger.Warn("skipping %s: normalise: %v", raws[i].URI, err)
			continue
		}

		docChunks, err := l.deps.Pipeline.Process(ctx, &result.Document)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", raws[i].URI, err)
		}
		logger.Debug("%s: %d chunk(s)", raws[i].URI, len(docChunks))
		chunks = append(chunks, docChunks...)
	}

	if len(chunks) == 0 {
		return nil, fmt.Errorf("normalise: %w", domain.ErrEmptyCorpus)
	}
	logger.Info("split %d document(s) into %d chunk(s)", len(raws), len(chunks))
	return chunks, nil
}

func (l *IndexLifecycle) publish(idx driven.VectorIndex) {
	l.index.Store(&servingIndex{idx: idx})
	l.transition(domain.IndexStateReady)
}

func (l *IndexLifecycle) fail(err error) error {
	logger.Error("index lifecycle failed: %v", err)
	l.transition(domain.IndexStateFailed)
	return err
}

func (l *IndexLifecycle) transition(to domain.IndexState) {
	l.mu.Lock()
	from := l.state
	l.state = to
	hook := l.onTransition
	l.mu.Unlock()

	logger.Info("index state: %s -> %s", from, to)
	if hook != nil {
		hook(from, to)
	}
}
