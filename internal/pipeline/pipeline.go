// Package pipeline runs one query through translation, compensation and
// serialization, keeping the uncompensated rendering alongside for
// comparison.
package pipeline

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/roach88/vcomp/internal/compensate"
	"github.com/roach88/vcomp/internal/docexpr"
	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/querysql"
	"github.com/roach88/vcomp/internal/queryir"
	"github.com/roach88/vcomp/internal/sqlexpr"
	"github.com/roach88/vcomp/internal/translate"
)

// Dialect selects the target query language.
type Dialect string

const (
	Relational Dialect = "relational"
	Document   Dialect = "document"
)

// ParseDialect accepts "relational", "document" or "" (relational).
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case "", Relational:
		return Relational, nil
	case Document:
		return Document, nil
	default:
		return "", fmt.Errorf("unknown dialect %q: must be relational or document", s)
	}
}

// Result is one query rendered before and after compensation.
type Result struct {
	Dialect        Dialect
	OriginalSQL    string
	CompensatedSQL string

	// Params are the positional parameters of the relational renderings.
	OriginalParams []any
	Params         []any

	// NamedParams are the document parameters of the compensated rendering.
	NamedParams map[string]any

	// Columns maps each relational result column to the mapping that
	// decodes it.
	Columns map[string]*ir.TypeMapping

	Stats       compensate.Stats
	Fingerprint string // of CompensatedSQL and its parameters
}

// Changed reports whether compensation rewrote anything.
func (r *Result) Changed() bool {
	return r.Stats.Rewritten > 0
}

// Compiler renders queries against one model.
type Compiler struct {
	translator *translate.Translator
	relational *compensate.Relational
	document   *compensate.Document
	logger     *slog.Logger
}

// New returns a Compiler for model. A nil logger uses slog.Default().
func New(model *ir.Model, resolver ir.ConverterResolver, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Compiler{
		translator: translate.New(model, resolver),
		relational: compensate.NewRelational(sqlexpr.Factory{}),
		document:   compensate.NewDocument(docexpr.Factory{}),
		logger:     logger,
	}
}

// Compile translates q for dialect d, compensates it and renders both trees.
// bound supplies the values of BoundEquals variables.
func (c *Compiler) Compile(q queryir.Query, d Dialect, bound map[string]ir.IRValue) (*Result, error) {
	var (
		res *Result
		err error
	)
	switch d {
	case Relational, "":
		res, err = c.compileRelational(q, bound)
	case Document:
		res, err = c.compileDocument(q, bound)
	default:
		return nil, fmt.Errorf("unknown dialect %q", d)
	}
	if err != nil {
		return nil, err
	}

	c.logger.Debug("query compensated",
		"dialect", res.Dialect,
		"visited", res.Stats.Visited,
		"rewritten", res.Stats.Rewritten,
		"fingerprint", res.Fingerprint,
	)
	return res, nil
}

func (c *Compiler) compileRelational(q queryir.Query, bound map[string]ir.IRValue) (*Result, error) {
	tree, err := c.translator.Relational(q)
	if err != nil {
		return nil, err
	}

	res := &Result{Dialect: Relational}
	compensated := c.relational.CompensateSelect(tree, compensate.WithStats(&res.Stats))

	sc := querysql.NewSQLCompiler()
	sc.BoundValues = bound
	if res.OriginalSQL, res.OriginalParams, err = sc.Compile(tree); err != nil {
		return nil, fmt.Errorf("render original: %w", err)
	}
	if res.CompensatedSQL, res.Params, err = sc.Compile(compensated); err != nil {
		return nil, fmt.Errorf("render compensated: %w", err)
	}

	if res.Fingerprint, err = ir.QueryFingerprint(res.CompensatedSQL, res.Params); err != nil {
		return nil, err
	}

	res.Columns = make(map[string]*ir.TypeMapping, len(compensated.Projection))
	for _, p := range compensated.Projection {
		res.Columns[p.Alias] = p.Expression.TypeMapping()
	}
	return res, nil
}

func (c *Compiler) compileDocument(q queryir.Query, bound map[string]ir.IRValue) (*Result, error) {
	tree, err := c.translator.Document(q)
	if err != nil {
		return nil, err
	}

	res := &Result{Dialect: Document}
	compensated := c.document.CompensateSelect(tree, compensate.WithStats(&res.Stats))

	dc := querysql.NewDocumentCompiler()
	dc.BoundValues = bound
	if res.OriginalSQL, _, err = dc.Compile(tree); err != nil {
		return nil, fmt.Errorf("render original: %w", err)
	}
	if res.CompensatedSQL, res.NamedParams, err = dc.Compile(compensated); err != nil {
		return nil, fmt.Errorf("render compensated: %w", err)
	}

	if res.Fingerprint, err = ir.QueryFingerprint(res.CompensatedSQL, flatten(res.NamedParams)); err != nil {
		return nil, err
	}
	return res, nil
}

// flatten lists named parameters as name, value pairs in name order.
func flatten(params map[string]any) []any {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]any, 0, 2*len(names))
	for _, name := range names {
		out = append(out, name, params[name])
	}
	return out
}
