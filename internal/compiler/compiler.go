// Package compiler drives the lowering pipeline over a whole compilation
// unit: every operation and named fragment is compiled on a bounded worker
// pool and the results are linked into one model tree.
package compiler

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	diag "github.com/hanpama/gqlmodel/internal/diag"
	document "github.com/hanpama/gqlmodel/internal/document"
	eventbus "github.com/hanpama/gqlmodel/internal/eventbus"
	events "github.com/hanpama/gqlmodel/internal/events"
	model "github.com/hanpama/gqlmodel/internal/model"
	reqid "github.com/hanpama/gqlmodel/internal/reqid"
	schema "github.com/hanpama/gqlmodel/internal/schema"
	typeres "github.com/hanpama/gqlmodel/internal/typeres"
)

// Compiler holds the configuration shared by every compilation: a schema
// snapshot, the scalar mapping and the document cache. It is safe for
// concurrent use.
type Compiler struct {
	resolver *typeres.Resolver
	logger   *zap.Logger
	workers  int
	cache    *lru.Cache[uint64, *model.Document]
}

func New(s *schema.Schema, opts ...Option) (*Compiler, error) {
	if s == nil {
		return nil, fmt.Errorf("compiler: schema is required")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Compiler{
		resolver: typeres.New(s, o.scalars),
		logger:   o.logger,
		workers:  o.workers,
	}
	if o.cacheSize > 0 {
		cache, err := lru.New[uint64, *model.Document](o.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("compiler: %w", err)
		}
		c.cache = cache
	}
	return c, nil
}

// job is one document to compile.
type job struct {
	kind   model.DocumentKind
	name   string
	file   string
	source string
	build  func() *model.Document
}

func (j job) cacheKey() uint64 {
	d := xxhash.New()
	d.WriteString(string(j.kind))
	d.WriteString("\x00")
	d.WriteString(j.name)
	d.WriteString("\x00")
	d.WriteString(j.file)
	d.WriteString("\x00")
	d.WriteString(j.source)
	return d.Sum64()
}

func (c *Compiler) jobs(unit *document.Unit) []job {
	jobs := make([]job, 0, len(unit.Operations)+len(unit.Fragments))
	for _, op := range unit.Operations {
		jobs = append(jobs, job{
			kind:   model.OperationDocument,
			name:   op.Name,
			file:   op.File,
			source: op.Source,
			build:  func() *model.Document { return model.BuildOperation(op, unit, c.resolver) },
		})
	}
	for _, f := range unit.Fragments {
		jobs = append(jobs, job{
			kind:   model.FragmentDocument,
			name:   f.Name,
			file:   f.File,
			source: f.Source,
			build:  func() *model.Document { return model.BuildFragment(f, unit, c.resolver) },
		})
	}
	return jobs
}

// Compile compiles every document of unit and links the results. A broken
// document does not stop the others: the returned tree holds everything
// that compiled, and the error combines the diagnostics of every failed
// document (iterate it with diag.Errors). The error is the context's when
// ctx is cancelled before all documents were scheduled; the tree is nil
// then.
func (c *Compiler) Compile(ctx context.Context, unit *document.Unit) (*model.Tree, error) {
	if _, ok := reqid.FromContext(ctx); !ok {
		ctx, _ = reqid.NewContext(ctx)
	}
	start := time.Now()
	eventbus.Publish(ctx, events.UnitStart{Operations: len(unit.Operations), Fragments: len(unit.Fragments)})

	jobs := c.jobs(unit)
	docs := make([]*model.Document, len(jobs))

	g := new(errgroup.Group)
	g.SetLimit(c.workers)
	for i, j := range jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			docs[i] = c.compileDocument(ctx, j)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		eventbus.Publish(ctx, events.UnitFinish{Errors: []error{err}, Duration: time.Since(start)})
		return nil, err
	}

	tree, linkErr := model.Link(docs)
	var errs []error
	for _, d := range docs {
		if err := d.Err(); err != nil {
			errs = append(errs, err)
		}
	}
	if linkErr != nil {
		errs = append(errs, linkErr)
	}
	err := diag.Combine(errs...)

	for _, w := range tree.Warnings {
		c.logger.Warn("compile warning",
			zap.String("kind", string(w.Kind)),
			zap.String("document", w.Document),
			zap.String("message", w.Message),
			zap.String("location", w.Location.String()))
	}
	for _, e := range diag.Errors(linkErr) {
		c.logger.Warn("link failed", zap.String("document", e.Document), zap.Error(e))
	}
	c.logger.Info("compiled unit",
		zap.Int("operations", len(tree.Operations)),
		zap.Int("fragments", len(tree.Fragments)),
		zap.Int("errors", len(diag.Errors(err))),
		zap.Duration("duration", time.Since(start)))

	eventbus.Publish(ctx, events.UnitFinish{
		Documents: len(docs),
		Errors:    errs,
		Warnings:  len(tree.Warnings),
		Duration:  time.Since(start),
	})
	return tree, err
}

func (c *Compiler) compileDocument(ctx context.Context, j job) *model.Document {
	start := time.Now()
	eventbus.Publish(ctx, events.DocumentStart{Kind: string(j.kind), Name: j.name})

	var key uint64
	var doc *model.Document
	cached := false
	if c.cache != nil {
		key = j.cacheKey()
		doc, cached = c.cache.Get(key)
	}
	if !cached {
		doc = j.build()
		if c.cache != nil {
			c.cache.Add(key, doc)
		}
	}

	var errs []error
	for _, e := range doc.Errors {
		errs = append(errs, e)
		c.logger.Warn("document failed",
			zap.String("document", j.name),
			zap.String("kind", string(e.Kind)),
			zap.Strings("path", e.Path),
			zap.String("location", e.Location.String()),
			zap.String("message", e.Message))
	}
	c.logger.Debug("compiled document",
		zap.String("document", j.name),
		zap.String("kind", string(j.kind)),
		zap.Duration("duration", time.Since(start)),
		zap.Bool("cached", cached))

	eventbus.Publish(ctx, events.DocumentFinish{
		Kind:     string(j.kind),
		Name:     j.name,
		Cached:   cached,
		Errors:   errs,
		Duration: time.Since(start),
	})
	return doc
}

// Resolver returns the resolver built from the compiler's schema and scalar
// mapping.
func (c *Compiler) Resolver() *typeres.Resolver { return c.resolver }
