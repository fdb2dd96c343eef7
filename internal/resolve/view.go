package resolve

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

var ErrInvalidView = errors.New("invalid view")

// PostFunc computes a field of obj once everything below it is resolved.
// ancestors holds the enclosing objects, nearest last.
type PostFunc func(obj *Object, ancestors []*Object) any

// View is a compiled selection on an entity plus post-resolve hooks. It is
// used to resolve rows fetched outside of a GraphQL request.
type View struct {
	entity *Entity
	set    ast.SelectionSet
	hooks  []postHook
}

type postHook struct {
	path []string
	name string
	fn   PostFunc
}

// View compiles selection, written as a GraphQL selection set such as
// `{ id name tasks { id } }`, against the named entity.
func (d *Diagram) View(entity, selection string) (*View, error) {
	const op = "resolve.Diagram.View"

	ent, ok := d.byName[entity]
	if !ok {
		return nil, fmt.Errorf("%s: %s: %w", op, entity, ErrUnknownEntity)
	}

	doc, err := parser.ParseQuery(&ast.Source{Name: "view", Input: selection})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(doc.Operations) != 1 || len(doc.Fragments) > 0 {
		return nil, fmt.Errorf("%s: expected a single selection set: %w", op, ErrInvalidView)
	}

	set := doc.Operations[0].SelectionSet
	if err := d.checkSelection(ent, set); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &View{entity: ent, set: set}, nil
}

func (d *Diagram) MustView(entity, selection string) *View {
	v, err := d.View(entity, selection)
	if err != nil {
		panic(err)
	}
	return v
}

func (d *Diagram) checkSelection(ent *Entity, set ast.SelectionSet) error {
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			if s.Name == "__typename" {
				continue
			}
			if _, ok := ent.field(s.Name); ok {
				if len(s.SelectionSet) > 0 {
					return fmt.Errorf("%s.%s is a scalar: %w", ent.Name, s.Name, ErrInvalidView)
				}
				continue
			}
			rel, ok := ent.relationship(s.Name)
			if !ok {
				return fmt.Errorf("%s has no field %s: %w", ent.Name, s.Name, ErrInvalidView)
			}
			if len(s.SelectionSet) == 0 {
				return fmt.Errorf("%s.%s needs a selection: %w", ent.Name, s.Name, ErrInvalidView)
			}
			if err := d.checkSelection(d.byName[rel.Target], s.SelectionSet); err != nil {
				return err
			}
		case *ast.InlineFragment:
			if err := d.checkSelection(ent, s.SelectionSet); err != nil {
				return err
			}
		default:
			return fmt.Errorf("fragment spreads are not supported in views: %w", ErrInvalidView)
		}
	}
	return nil
}

// Post registers fn to set field name on every object reached by path, a
// dot separated list of response keys from the root ("" for the root objects).
// Hooks on deeper paths run first.
func (v *View) Post(path, name string, fn PostFunc) *View {
	var segments []string
	if path != "" {
		segments = strings.Split(path, ".")
	}
	v.hooks = append(v.hooks, postHook{path: segments, name: name, fn: fn})
	sort.SliceStable(v.hooks, func(i, j int) bool {
		return len(v.hooks[i].path) > len(v.hooks[j].path)
	})
	return v
}

// ResolveView resolves the view's selection for rows of the view's entity and
// then applies its post hooks bottom-up.
func (e *Executor) ResolveView(ctx context.Context, v *View, rows []any) ([]*Object, error) {
	const op = "resolve.Executor.ResolveView"

	x := e.newExecution(nil)
	objs, err := x.resolveRows(ctx, v.entity, v.set, rows, ast.Path{ast.PathName(v.entity.Name)})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, h := range v.hooks {
		applyHook(objs, h.path, nil, h)
	}

	return objs, nil
}

func applyHook(objs []*Object, path []string, ancestors []*Object, h postHook) {
	if len(path) == 0 {
		for _, obj := range objs {
			obj.Set(h.name, h.fn(obj, ancestors))
		}
		return
	}
	for _, obj := range objs {
		next := append(ancestors[:len(ancestors):len(ancestors)], obj)
		applyHook(obj.Objects(path[0]), path[1:], next, h)
	}
}
