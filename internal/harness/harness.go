package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/roach88/vcomp/internal/compiler"
	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/pipeline"
	"github.com/roach88/vcomp/internal/queryir"
	"github.com/roach88/vcomp/internal/store"
	"github.com/roach88/vcomp/internal/testutil"
	"github.com/roach88/vcomp/internal/valueconv"
)

// Harness is the scenario execution engine for one scenario run.
type Harness struct {
	store    *store.Store
	bundle   *compiler.Bundle
	model    *ir.Model
	compiler *pipeline.Compiler
	logger   *slog.Logger
	runID    string
}

// Option configures Run.
type Option func(*runConfig)

type runConfig struct {
	logger *slog.Logger
}

// WithLogger sets the logger. By default logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(c *runConfig) {
		c.logger = l
	}
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation, with
// sequential audit ids so results are reproducible.
//
// Execution flow:
// 1. Load and validate the spec directory
// 2. Create entity tables and seed rows
// 3. Compile, compensate and execute each case
// 4. Record each compensation in the audit log
// 5. Return result with pass/fail and errors
//
// A returned error means the scenario could not run; failed checks are
// reported in the Result.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := runConfig{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	bundle, errs := compiler.Load(scenario.Specs, compiler.LoadModeFailFast)
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to load specs: %w", errs[0])
	}
	model, err := selectModel(bundle, scenario.Model)
	if err != nil {
		return nil, err
	}

	resolver := valueconv.Default()
	if verrs := compiler.ValidateModel(model, resolver); len(verrs) > 0 {
		return nil, fmt.Errorf("invalid model %s: %w", model.Name, verrs[0])
	}

	st, err := store.Open(":memory:", store.WithIDGenerator(testutil.NewSequentialIDs("rec")))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.CreateEntityTables(ctx, model, resolver); err != nil {
		return nil, err
	}
	if err := seed(ctx, st, model, scenario.Rows); err != nil {
		return nil, fmt.Errorf("failed to seed rows: %w", err)
	}

	runID := scenario.RunID
	if runID == "" {
		runID = testutil.DefaultRunID
	}

	h := &Harness{
		store:    st,
		bundle:   bundle,
		model:    model,
		compiler: pipeline.New(model, resolver, cfg.logger),
		logger:   cfg.logger,
		runID:    runID,
	}

	result := NewResult(runID)
	for i := range scenario.Cases {
		result.addCase(h.runCase(ctx, &scenario.Cases[i]))
	}

	h.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"cases", len(result.Cases),
		"pass", result.Pass,
	)
	return result, nil
}

func selectModel(b *compiler.Bundle, name string) (*ir.Model, error) {
	if name != "" {
		m, ok := b.Model(name)
		if !ok {
			return nil, fmt.Errorf("unknown model %q", name)
		}
		return m, nil
	}
	if len(b.Models) != 1 {
		return nil, fmt.Errorf("model is required when %d models are defined", len(b.Models))
	}
	return &b.Models[0], nil
}

// seed inserts rows entity by entity, in name order.
func seed(ctx context.Context, st *store.Store, m *ir.Model, rows map[string][]map[string]any) error {
	entities := make([]string, 0, len(rows))
	for name := range rows {
		entities = append(entities, name)
	}
	sort.Strings(entities)

	resolver := valueconv.Default()
	for _, entity := range entities {
		objs := make([]ir.IRObject, len(rows[entity]))
		for i, row := range rows[entity] {
			v, err := ir.FromNative(row)
			if err != nil {
				return fmt.Errorf("rows.%s[%d]: %w", entity, i, err)
			}
			objs[i] = v.(ir.IRObject)
		}
		if err := st.InsertRows(ctx, m, resolver, entity, objs); err != nil {
			return err
		}
	}
	return nil
}

// runCase compiles, records and checks one case. Every failure is
// reported on the returned CaseResult.
func (h *Harness) runCase(ctx context.Context, c *Case) CaseResult {
	cr := CaseResult{Name: c.Name, Query: c.Query, Pass: true, Errors: []string{}}
	if cr.Name == "" {
		cr.Name = c.Query
	}

	dialect, err := pipeline.ParseDialect(c.Dialect)
	if err != nil {
		cr.addError(err.Error())
		return cr
	}
	cr.Dialect = string(dialect)

	nq, _, ok := h.bundle.Query(c.Query)
	if !ok {
		cr.addError(fmt.Sprintf("unknown query %q", c.Query))
		return cr
	}
	if nq.Model != h.model.Name {
		cr.addError(fmt.Sprintf("query %q reads model %s, scenario uses %s", c.Query, nq.Model, h.model.Name))
		return cr
	}

	bound, err := boundValues(c.Bound)
	if err != nil {
		cr.addError(err.Error())
		return cr
	}

	res, err := h.compiler.Compile(nq.Query, dialect, bound)
	if err != nil {
		cr.addError(fmt.Sprintf("compile: %v", err))
		return cr
	}
	cr.OriginalSQL = res.OriginalSQL
	cr.CompensatedSQL = res.CompensatedSQL
	cr.Fingerprint = res.Fingerprint
	cr.Visited = res.Stats.Visited
	cr.Rewritten = res.Stats.Rewritten

	var params any = res.Params
	if dialect == pipeline.Document {
		params = res.NamedParams
	}
	if cr.Params, err = store.MarshalParams(params); err != nil {
		cr.addError(err.Error())
		return cr
	}

	if err := h.record(ctx, nq.Name, &cr); err != nil {
		cr.addError(err.Error())
		return cr
	}

	if dialect == pipeline.Relational {
		if cr.OriginalRows, err = h.store.Query(ctx, res.OriginalSQL, res.OriginalParams, res.Columns); err != nil {
			cr.addError(fmt.Sprintf("original query: %v", err))
			return cr
		}
		if cr.Rows, err = h.store.Query(ctx, res.CompensatedSQL, res.Params, res.Columns); err != nil {
			cr.addError(fmt.Sprintf("compensated query: %v", err))
			return cr
		}
	}

	if len(c.ExpectKeys) > 0 {
		if err := h.checkKeys(nq.Query, c.ExpectKeys, cr.Rows); err != nil {
			cr.addError(err.Error())
		}
	}
	for _, msg := range evaluateAssertions(&cr, c.Assertions) {
		cr.addError(msg)
	}

	h.logger.Debug("case completed",
		"case", cr.Name,
		"rewritten", cr.Rewritten,
		"pass", cr.Pass,
	)
	return cr
}

func (h *Harness) record(ctx context.Context, query string, cr *CaseResult) error {
	rec := &store.Record{
		RunID:          h.runID,
		Query:          query,
		Dialect:        cr.Dialect,
		OriginalSQL:    cr.OriginalSQL,
		CompensatedSQL: cr.CompensatedSQL,
		Params:         cr.Params,
		Fingerprint:    cr.Fingerprint,
		Visited:        cr.Visited,
		Rewritten:      cr.Rewritten,
	}
	inserted, err := h.store.RecordCompensation(ctx, rec)
	if err != nil {
		return err
	}
	if !inserted {
		h.logger.Debug("compensation already recorded", "case", cr.Name, "id", rec.ID)
	}
	return nil
}

func boundValues(in map[string]any) (map[string]ir.IRValue, error) {
	out := make(map[string]ir.IRValue, len(in))
	for name, v := range in {
		iv, err := ir.FromNative(v)
		if err != nil {
			return nil, fmt.Errorf("bound.%s: %w", name, err)
		}
		out[name] = iv
	}
	return out, nil
}

// checkKeys compares the key column of rows with want, in order.
func (h *Harness) checkKeys(q queryir.Query, want []any, rows []ir.IRObject) error {
	col, err := keyColumn(q, h.model)
	if err != nil {
		return err
	}

	expected := make(ir.IRArray, len(want))
	for i, k := range want {
		v, err := ir.FromNative(k)
		if err != nil {
			return fmt.Errorf("expect_keys[%d]: %w", i, err)
		}
		expected[i] = v
	}
	got := make(ir.IRArray, len(rows))
	for i, row := range rows {
		got[i] = row[col]
	}

	if !equalValues(expected, got) {
		return &AssertionError{
			Type:     "expect_keys",
			Expected: formatValue(expected),
			Actual:   formatValue(got),
		}
	}
	return nil
}

// keyColumn returns the result column holding the key of the query's
// (left-most) entity.
func keyColumn(q queryir.Query, m *ir.Model) (string, error) {
	switch q := queryir.Deref(q).(type) {
	case queryir.Select:
		e, ok := m.Entity(q.From)
		if !ok {
			return "", fmt.Errorf("unknown entity %q", q.From)
		}
		if len(q.Bindings) == 0 {
			return e.Key, nil
		}
		if out, ok := q.Bindings[e.Key]; ok {
			return out, nil
		}
		return "", fmt.Errorf("expect_keys needs %s.%s in the projection", e.Name, e.Key)
	case queryir.Join:
		return keyColumn(q.Left, m)
	default:
		return "", fmt.Errorf("unsupported query %T", q)
	}
}
