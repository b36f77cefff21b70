package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/vcomp/internal/ir"
	"github.com/roach88/vcomp/internal/queryir"
)

// LoadMode controls how errors are handled during spec loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// NamedQuery is a compiled query and the model it reads.
type NamedQuery struct {
	Name  string
	Model string
	Query queryir.Query
}

// Bundle is everything compiled from one spec directory.
type Bundle struct {
	Models    []ir.Model
	Queries   []NamedQuery
	FileCount int
}

// Model returns the model with the given name.
func (b *Bundle) Model(name string) (*ir.Model, bool) {
	for i := range b.Models {
		if b.Models[i].Name == name {
			return &b.Models[i], true
		}
	}
	return nil, false
}

// Query returns the named query and its model.
func (b *Bundle) Query(name string) (*NamedQuery, *ir.Model, bool) {
	for i := range b.Queries {
		if b.Queries[i].Name == name {
			m, ok := b.Model(b.Queries[i].Model)
			return &b.Queries[i], m, ok
		}
	}
	return nil, nil, false
}

// QueryNames returns the query names, sorted.
func (b *Bundle) QueryNames() []string {
	names := make([]string, len(b.Queries))
	for i, q := range b.Queries {
		names[i] = q.Name
	}
	sort.Strings(names)
	return names
}

// LoadError represents an error that occurred during spec loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load error codes.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
)

// Load compiles every model and query in a spec directory.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func Load(dir string, mode LoadMode) (*Bundle, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	bundle, errs := compileValue(value, mode)
	if bundle != nil {
		bundle.FileCount = len(cueFiles)
	}
	return bundle, errs
}

// LoadString compiles models and queries from CUE source text.
func LoadString(src string, mode LoadMode) (*Bundle, []error) {
	value := cuecontext.New().CompileString(src)
	if err := value.Err(); err != nil {
		return nil, []error{formatCUEError(err)}
	}
	return compileValue(value, mode)
}

func compileValue(value cue.Value, mode LoadMode) (*Bundle, []error) {
	var errs []error
	bundle := &Bundle{}

	fail := func(err error) bool {
		errs = append(errs, err)
		return mode == LoadModeFailFast
	}

	if models := value.LookupPath(cue.ParsePath("model")); models.Exists() {
		iter, err := models.Fields()
		if err != nil {
			if fail(&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating models: %v", err)}) {
				return bundle, errs
			}
		} else {
			for iter.Next() {
				m, err := CompileModel(iter.Value())
				if err != nil {
					if fail(convertCompileError(err, "model."+iter.Label())) {
						return bundle, errs
					}
					continue
				}
				bundle.Models = append(bundle.Models, *m)
			}
		}
	}

	if queries := value.LookupPath(cue.ParsePath("query")); queries.Exists() {
		iter, err := queries.Fields()
		if err != nil {
			if fail(&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating queries: %v", err)}) {
				return bundle, errs
			}
		} else {
			for iter.Next() {
				nq, err := compileNamedQuery(bundle, iter.Label(), iter.Value())
				if err != nil {
					if fail(err) {
						return bundle, errs
					}
					continue
				}
				bundle.Queries = append(bundle.Queries, *nq)
			}
		}
	}

	if len(bundle.Models) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: "no models found in specs"})
	}
	return bundle, errs
}

// compileNamedQuery compiles one query and binds it to a model. A query
// may omit its model when exactly one is defined.
func compileNamedQuery(b *Bundle, name string, v cue.Value) (*NamedQuery, error) {
	modelName, err := optionalString(v, "model", "query."+name+".model")
	if err != nil {
		return nil, convertCompileError(err, "query."+name)
	}
	switch {
	case modelName == "" && len(b.Models) == 1:
		modelName = b.Models[0].Name
	case modelName == "":
		return nil, &LoadError{Code: ErrAmbiguousModel, Message: fmt.Sprintf("query %s: model is required when %d models are defined", name, len(b.Models)), Pos: v.Pos()}
	default:
		if _, ok := b.Model(modelName); !ok {
			return nil, &LoadError{Code: ErrUnknownModel, Message: fmt.Sprintf("query %s: unknown model %q", name, modelName), Pos: v.Pos()}
		}
	}

	q, err := CompileQuery(v)
	if err != nil {
		return nil, convertCompileError(err, "query."+name)
	}
	return &NamedQuery{Name: name, Model: modelName, Query: q}, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case strings.HasSuffix(field, ".type"):
		return ErrInvalidFieldType
	case strings.HasSuffix(field, ".converter"):
		return ErrUnknownConverter
	case field == "entity":
		return ErrModelNoEntities
	case strings.HasSuffix(field, ".property"):
		return ErrEntityNoProperties
	case strings.HasPrefix(field, "query"):
		return ErrQueryInvalid
	default:
		return ErrCodeGeneric
	}
}
