// Package resolve implements a declarative, breadth-first GraphQL resolution engine.
//
// Entities declare their scalar fields and relationships (parent key, named batch
// loader, target entity). The engine resolves a whole selection level by level,
// issuing one batch call per relationship per level instead of one call per parent.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Key identifies a row for a batch loader.
type Key = int64

// BatchFunc loads the rows for a set of keys. Keys missing from the result
// resolve to an empty list or null.
type BatchFunc func(ctx context.Context, keys []Key) (map[Key][]any, error)

// RootFunc resolves a root query or mutation field. List fields return []any.
type RootFunc func(ctx context.Context, args map[string]any) (any, error)

type Field struct {
	Name        string
	Type        string
	Description string
	Get         func(src any) any
}

type Relationship struct {
	Name        string
	Target      string
	List        bool
	Loader      string
	Description string
	Key         func(src any) Key
}

type Entity struct {
	Name          string
	Description   string
	Fields        []Field
	Relationships []Relationship
}

type Arg struct {
	Name string
	Type string
	// Default is a GraphQL literal, e.g. `"user"` or `0`.
	Default string
}

type RootField struct {
	Name        string
	Description string
	Target      string
	List        bool
	NonNull     bool
	Args        []Arg
	Resolve     RootFunc
}

var (
	ErrUnknownEntity = errors.New("unknown entity")
	ErrUnknownLoader = errors.New("unknown loader")
	ErrDuplicateName = errors.New("duplicate name")
)

// Diagram is the declared entity graph.
type Diagram struct {
	entities  []*Entity
	byName    map[string]*Entity
	loaders   map[string]BatchFunc
	queries   []RootField
	mutations []RootField
}

func NewDiagram() *Diagram {
	return &Diagram{
		byName:  make(map[string]*Entity),
		loaders: make(map[string]BatchFunc),
	}
}

// AddEntity registers e, or returns the already registered entity of the same name.
func (d *Diagram) AddEntity(e *Entity) *Entity {
	if existing, ok := d.byName[e.Name]; ok {
		return existing
	}
	d.entities = append(d.entities, e)
	d.byName[e.Name] = e
	return e
}

func (d *Diagram) Entity(name string) (*Entity, bool) {
	e, ok := d.byName[name]
	return e, ok
}

func (d *Diagram) Entities() []*Entity {
	return d.entities
}

func (d *Diagram) Loader(name string, fn BatchFunc) {
	d.loaders[name] = fn
}

func (d *Diagram) Query(f RootField) {
	d.queries = append(d.queries, f)
}

func (d *Diagram) Mutation(f RootField) {
	d.mutations = append(d.mutations, f)
}

func (d *Diagram) Queries() []RootField {
	return d.queries
}

func (d *Diagram) Mutations() []RootField {
	return d.mutations
}

func (d *Diagram) LoaderNames() []string {
	names := make([]string, 0, len(d.loaders))
	for name := range d.loaders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every relationship and root field points at a declared
// entity and loader, and that names are unique within a type.
func (d *Diagram) Validate() error {
	const op = "resolve.Diagram.Validate"

	for _, e := range d.entities {
		seen := make(map[string]bool)
		for _, f := range e.Fields {
			if seen[f.Name] {
				return fmt.Errorf("%s: %s.%s: %w", op, e.Name, f.Name, ErrDuplicateName)
			}
			seen[f.Name] = true
		}
		for _, r := range e.Relationships {
			if seen[r.Name] {
				return fmt.Errorf("%s: %s.%s: %w", op, e.Name, r.Name, ErrDuplicateName)
			}
			seen[r.Name] = true
			if _, ok := d.byName[r.Target]; !ok {
				return fmt.Errorf("%s: %s.%s -> %s: %w", op, e.Name, r.Name, r.Target, ErrUnknownEntity)
			}
			if _, ok := d.loaders[r.Loader]; !ok {
				return fmt.Errorf("%s: %s.%s uses %q: %w", op, e.Name, r.Name, r.Loader, ErrUnknownLoader)
			}
		}
	}

	for _, roots := range [][]RootField{d.queries, d.mutations} {
		seen := make(map[string]bool)
		for _, f := range roots {
			if seen[f.Name] {
				return fmt.Errorf("%s: root field %s: %w", op, f.Name, ErrDuplicateName)
			}
			seen[f.Name] = true
			if _, ok := d.byName[f.Target]; !ok {
				return fmt.Errorf("%s: root field %s -> %s: %w", op, f.Name, f.Target, ErrUnknownEntity)
			}
		}
	}

	return nil
}

func (e *Entity) field(name string) (*Field, bool) {
	for i := range e.Fields {
		if e.Fields[i].Name == name {
			return &e.Fields[i], true
		}
	}
	return nil, false
}

func (e *Entity) relationship(name string) (*Relationship, bool) {
	for i := range e.Relationships {
		if e.Relationships[i].Name == name {
			return &e.Relationships[i], true
		}
	}
	return nil, false
}
