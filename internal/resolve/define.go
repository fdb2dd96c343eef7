package resolve

// Builder declares an entity backed by rows of type T.
type Builder[T any] struct {
	entity *Entity
}

// Define registers an entity named name whose rows are values of type T.
func Define[T any](d *Diagram, name string, description ...string) *Builder[T] {
	e := &Entity{Name: name}
	if len(description) > 0 {
		e.Description = description[0]
	}
	return &Builder[T]{entity: d.AddEntity(e)}
}

// Field adds a scalar field of GraphQL type typ.
func (b *Builder[T]) Field(name, typ string, get func(T) any) *Builder[T] {
	b.entity.Fields = append(b.entity.Fields, Field{
		Name: name,
		Type: typ,
		Get: func(src any) any {
			return get(src.(T))
		},
	})
	return b
}

// One adds a relationship resolving to at most one target row.
func (b *Builder[T]) One(name, target, loader string, key func(T) Key) *Builder[T] {
	return b.relate(name, target, loader, false, key)
}

// Many adds a relationship resolving to a list of target rows.
func (b *Builder[T]) Many(name, target, loader string, key func(T) Key) *Builder[T] {
	return b.relate(name, target, loader, true, key)
}

func (b *Builder[T]) relate(name, target, loader string, list bool, key func(T) Key) *Builder[T] {
	b.entity.Relationships = append(b.entity.Relationships, Relationship{
		Name:   name,
		Target: target,
		List:   list,
		Loader: loader,
		Key: func(src any) Key {
			return key(src.(T))
		},
	})
	return b
}

func (b *Builder[T]) Entity() *Entity {
	return b.entity
}

// Rows converts typed rows into the []any form the engine consumes.
func Rows[T any](rows []T) []any {
	out := make([]any, len(rows))
	for i := range rows {
		out[i] = rows[i]
	}
	return out
}

// Group converts a typed grouped batch result into a loader result.
func Group[T any](groups map[Key][]T) map[Key][]any {
	out := make(map[Key][]any, len(groups))
	for k, rows := range groups {
		out[k] = Rows(rows)
	}
	return out
}

// Index converts a keyed batch result into a loader result with one row per key.
func Index[T any](rows map[Key]T) map[Key][]any {
	out := make(map[Key][]any, len(rows))
	for k, row := range rows {
		out[k] = []any{row}
	}
	return out
}
