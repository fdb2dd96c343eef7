package resolve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"gqlbench/internal/lib/logger/sl"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
	"golang.org/x/sync/errgroup"
)

var (
	ErrOperationNotFound = errors.New("operation not found")
	ErrOperationRequired = errors.New("operation name is required when the document has several operations")
	ErrNoMutations       = errors.New("schema does not support mutations")
)

// Executor runs GraphQL requests against a validated diagram.
type Executor struct {
	diagram   *Diagram
	schema    *ast.Schema
	log       *slog.Logger
	onBatch   func(loader string, keys int)
	queries   map[string]*RootField
	mutations map[string]*RootField
}

type Option func(*Executor)

func WithLogger(log *slog.Logger) Option {
	return func(e *Executor) {
		e.log = log
	}
}

// WithBatchHook registers fn to be called before every batch loader call.
func WithBatchHook(fn func(loader string, keys int)) Option {
	return func(e *Executor) {
		e.onBatch = fn
	}
}

func NewExecutor(d *Diagram, opts ...Option) (*Executor, error) {
	const op = "resolve.NewExecutor"

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	schema, err := d.Schema()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	e := &Executor{
		diagram:   d,
		schema:    schema,
		log:       slog.Default(),
		queries:   make(map[string]*RootField, len(d.queries)),
		mutations: make(map[string]*RootField, len(d.mutations)),
	}
	for i := range d.queries {
		e.queries[d.queries[i].Name] = &d.queries[i]
	}
	for i := range d.mutations {
		e.mutations[d.mutations[i].Name] = &d.mutations[i]
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

func (e *Executor) Schema() *ast.Schema {
	return e.schema
}

func (e *Executor) Diagram() *Diagram {
	return e.diagram
}

// Execute parses, validates and runs req. It never returns nil; failures are
// reported in Response.Errors.
func (e *Executor) Execute(ctx context.Context, req Request) *Response {
	const op = "resolve.Executor.Execute"

	doc, errs := gqlparser.LoadQuery(e.schema, req.Query)
	if len(errs) > 0 {
		return &Response{Errors: errs}
	}

	operation, err := selectOperation(doc, req.OperationName)
	if err != nil {
		return &Response{Errors: gqlerror.List{gqlerror.Errorf("%s", err.Error())}}
	}

	vars, err := validator.VariableValues(e.schema, operation, req.Variables)
	if err != nil {
		var gerr *gqlerror.Error
		if errors.As(err, &gerr) {
			return &Response{Errors: gqlerror.List{gerr}}
		}
		return &Response{Errors: gqlerror.List{gqlerror.Errorf("%s", err.Error())}}
	}

	x := e.newExecution(vars)
	var data *Object
	switch operation.Operation {
	case ast.Mutation:
		data = x.executeMutation(ctx, operation.SelectionSet)
	case ast.Query, "":
		data = x.executeQuery(ctx, operation.SelectionSet)
	default:
		return &Response{Errors: gqlerror.List{gqlerror.Errorf("unsupported operation %q", operation.Operation)}}
	}

	if len(x.errs) > 0 {
		e.log.Debug("request finished with errors", slog.String("op", op), slog.Int("errors", len(x.errs)))
	}

	return &Response{Data: data, Errors: x.errs, executed: true}
}

func selectOperation(doc *ast.QueryDocument, name string) (*ast.OperationDefinition, error) {
	if name == "" && len(doc.Operations) > 1 {
		return nil, ErrOperationRequired
	}
	operation := doc.Operations.ForName(name)
	if operation == nil {
		if name == "" {
			return nil, ErrOperationNotFound
		}
		return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, name)
	}
	return operation, nil
}

// execution holds the state of a single request.
type execution struct {
	e     *Executor
	vars  map[string]any
	cache *LoaderCache

	mu   sync.Mutex
	errs gqlerror.List
}

func (e *Executor) newExecution(vars map[string]any) *execution {
	return &execution{
		e:     e,
		vars:  vars,
		cache: NewLoaderCache(e.diagram.loaders, e.onBatch),
	}
}

type pathError struct {
	path ast.Path
	err  error
}

func (p *pathError) Error() string {
	return p.err.Error()
}

func (p *pathError) Unwrap() error {
	return p.err
}

func (x *execution) addError(path ast.Path, err error) {
	var perr *pathError
	if errors.As(err, &perr) {
		path = perr.path
		err = perr.err
	}

	x.e.log.Warn("field resolution failed",
		slog.String("op", "resolve.execution.addError"),
		slog.String("path", path.String()),
		sl.Err(err),
	)

	x.mu.Lock()
	x.errs = append(x.errs, gqlerror.WrapPath(path, err))
	x.mu.Unlock()
}

func (x *execution) executeQuery(ctx context.Context, set ast.SelectionSet) *Object {
	fields := x.collect(set, "Query")
	values := make([]any, len(fields))
	nulled := make([]bool, len(fields))

	var g errgroup.Group
	for i, f := range fields {
		g.Go(func() error {
			values[i], nulled[i] = x.resolveRootField(ctx, "Query", x.e.queries, f)
			return nil
		})
	}
	_ = g.Wait()

	for _, n := range nulled {
		if n {
			return nil
		}
	}

	data := NewObject(len(fields))
	for i, f := range fields {
		data.Set(f.alias, values[i])
	}
	return data
}

// executeMutation runs root fields one after another in document order. A
// failed non-null field nulls the whole result and stops the remaining fields.
func (x *execution) executeMutation(ctx context.Context, set ast.SelectionSet) *Object {
	fields := x.collect(set, "Mutation")
	data := NewObject(len(fields))
	for _, f := range fields {
		v, nulled := x.resolveRootField(ctx, "Mutation", x.e.mutations, f)
		if nulled {
			return nil
		}
		data.Set(f.alias, v)
	}
	return data
}

// resolveRootField returns the value of a root field. nulled reports that the
// field failed while declared non-null, so the null must replace data itself.
func (x *execution) resolveRootField(ctx context.Context, typeName string, roots map[string]*RootField, f *collected) (v any, nulled bool) {
	path := ast.Path{ast.PathName(f.alias)}

	switch f.field.Name {
	case "__typename":
		return typeName, false
	case "__schema":
		return x.introspectSchema(f), false
	case "__type":
		return x.introspectType(f), false
	}

	root, ok := roots[f.field.Name]
	if !ok {
		x.addError(path, fmt.Errorf("unknown field %s.%s", typeName, f.field.Name))
		return nil, false
	}
	nonNull := root.List || root.NonNull

	val, err := callRoot(ctx, root.Resolve, x.args(f.field))
	if err != nil {
		x.addError(path, err)
		return nil, nonNull
	}

	target := x.e.diagram.byName[root.Target]
	if root.List {
		rows, ok := val.([]any)
		if !ok && val != nil {
			x.addError(path, fmt.Errorf("list field %s.%s resolved to %T, want []any", typeName, root.Name, val))
			return nil, true
		}
		objs, err := x.resolveRows(ctx, target, f.sel, rows, path)
		if err != nil {
			x.addError(path, err)
			return nil, true
		}
		out := make([]any, len(objs))
		for i := range objs {
			out[i] = objs[i]
		}
		return out, false
	}

	if val == nil {
		if root.NonNull {
			x.addError(path, fmt.Errorf("null returned for non-null field %s.%s", typeName, root.Name))
		}
		return nil, root.NonNull
	}
	objs, err := x.resolveRows(ctx, target, f.sel, []any{val}, path)
	if err != nil {
		x.addError(path, err)
		return nil, root.NonNull
	}
	return objs[0], false
}

func callRoot(ctx context.Context, fn RootFunc, args map[string]any) (val any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("resolver panic: %v", r)
		}
	}()
	return fn(ctx, args)
}

func (x *execution) args(f *ast.Field) map[string]any {
	if f.Definition == nil {
		return map[string]any{}
	}
	return f.ArgumentMap(x.vars)
}

// resolveRows builds one object per row and then resolves every relationship
// field of the selection for all rows at once.
func (x *execution) resolveRows(ctx context.Context, ent *Entity, set ast.SelectionSet, rows []any, path ast.Path) ([]*Object, error) {
	fields := x.collect(set, ent.Name)

	objs := make([]*Object, len(rows))
	for i, row := range rows {
		obj := NewObject(len(fields))
		for _, f := range fields {
			if f.field.Name == "__typename" {
				obj.Set(f.alias, ent.Name)
				continue
			}
			if sf, ok := ent.field(f.field.Name); ok {
				v := sf.Get(row)
				if err := checkInt(sf.Type, v); err != nil {
					return nil, &pathError{path: appendPath(path, f.alias), err: err}
				}
				obj.Set(f.alias, v)
				continue
			}
			obj.Set(f.alias, nil)
		}
		objs[i] = obj
	}

	if len(rows) == 0 {
		return objs, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for slot, f := range fields {
		rel, ok := ent.relationship(f.field.Name)
		if !ok {
			continue
		}
		g.Go(func() error {
			return x.resolveRelationship(gctx, rel, f, slot, rows, objs, path)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return objs, nil
}

func (x *execution) resolveRelationship(
	ctx context.Context,
	rel *Relationship,
	f *collected,
	slot int,
	rows []any,
	objs []*Object,
	path ast.Path,
) error {
	fieldPath := appendPath(path, f.alias)

	keys := make([]Key, len(rows))
	for i, row := range rows {
		keys[i] = rel.Key(row)
	}

	loaded, err := x.cache.Load(ctx, rel.Loader, keys)
	if err != nil {
		return &pathError{path: fieldPath, err: err}
	}

	var children []any
	spans := make([][2]int, len(rows))
	for i, k := range keys {
		found := loaded[k]
		if !rel.List && len(found) > 1 {
			found = found[:1]
		}
		start := len(children)
		children = append(children, found...)
		spans[i] = [2]int{start, len(children)}
	}

	target := x.e.diagram.byName[rel.Target]
	childObjs, err := x.resolveRows(ctx, target, f.sel, children, fieldPath)
	if err != nil {
		return err
	}

	for i, obj := range objs {
		span := childObjs[spans[i][0]:spans[i][1]]
		if rel.List {
			list := make([]any, len(span))
			for j := range span {
				list[j] = span[j]
			}
			obj.setAt(slot, list)
			continue
		}
		if len(span) > 0 {
			obj.setAt(slot, span[0])
		} else {
			obj.setAt(slot, nil)
		}
	}

	return nil
}

func appendPath(path ast.Path, name string) ast.Path {
	out := make(ast.Path, 0, len(path)+1)
	out = append(out, path...)
	return append(out, ast.PathName(name))
}
