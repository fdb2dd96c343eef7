package resolve

import (
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// introObject is a lazily evaluated introspection value. Fields are thunks so
// that recursive type references are only expanded as far as the query asks.
type introObject struct {
	typeName string
	fields   map[string]func(args map[string]any) any
}

func (x *execution) introspectSchema(f *collected) any {
	return x.completeIntro(f.sel, x.schemaNode())
}

func (x *execution) introspectType(f *collected) any {
	name, _ := ArgString(x.args(f.field), "name")
	def := x.e.schema.Types[name]
	if def == nil {
		return nil
	}
	return x.completeIntro(f.sel, x.typeNode(def))
}

func (x *execution) completeIntro(set ast.SelectionSet, v any) any {
	switch v := v.(type) {
	case *introObject:
		if v == nil {
			return nil
		}
		fields := x.collect(set, v.typeName)
		obj := NewObject(len(fields))
		for _, f := range fields {
			if f.field.Name == "__typename" {
				obj.Set(f.alias, v.typeName)
				continue
			}
			resolve, ok := v.fields[f.field.Name]
			if !ok {
				obj.Set(f.alias, nil)
				continue
			}
			obj.Set(f.alias, x.completeIntro(f.sel, resolve(x.args(f.field))))
		}
		return obj
	case []*introObject:
		out := make([]any, len(v))
		for i := range v {
			out[i] = x.completeIntro(set, v[i])
		}
		return out
	}
	return v
}

func (x *execution) schemaNode() *introObject {
	s := x.e.schema
	return &introObject{
		typeName: "__Schema",
		fields: map[string]func(map[string]any) any{
			"description": func(map[string]any) any { return nil },
			"types": func(map[string]any) any {
				names := make([]string, 0, len(s.Types))
				for name := range s.Types {
					names = append(names, name)
				}
				sort.Strings(names)
				out := make([]*introObject, 0, len(names))
				for _, name := range names {
					out = append(out, x.typeNode(s.Types[name]))
				}
				return out
			},
			"queryType":        func(map[string]any) any { return x.typeNode(s.Query) },
			"mutationType":     func(map[string]any) any { return x.typeNode(s.Mutation) },
			"subscriptionType": func(map[string]any) any { return x.typeNode(s.Subscription) },
			"directives": func(map[string]any) any {
				names := make([]string, 0, len(s.Directives))
				for name := range s.Directives {
					names = append(names, name)
				}
				sort.Strings(names)
				out := make([]*introObject, 0, len(names))
				for _, name := range names {
					out = append(out, x.directiveNode(s.Directives[name]))
				}
				return out
			},
		},
	}
}

func (x *execution) typeNode(def *ast.Definition) *introObject {
	if def == nil {
		return nil
	}
	s := x.e.schema
	return &introObject{
		typeName: "__Type",
		fields: map[string]func(map[string]any) any{
			"kind":           func(map[string]any) any { return string(def.Kind) },
			"name":           func(map[string]any) any { return def.Name },
			"description":    func(map[string]any) any { return nullable(def.Description) },
			"specifiedByURL": func(map[string]any) any { return nil },
			"isOneOf":        func(map[string]any) any { return false },
			"ofType":         func(map[string]any) any { return nil },
			"fields": func(args map[string]any) any {
				if def.Kind != ast.Object && def.Kind != ast.Interface {
					return nil
				}
				includeDeprecated, _ := args["includeDeprecated"].(bool)
				out := make([]*introObject, 0, len(def.Fields))
				for _, fd := range def.Fields {
					if strings.HasPrefix(fd.Name, "__") {
						continue
					}
					if !includeDeprecated && fd.Directives.ForName("deprecated") != nil {
						continue
					}
					out = append(out, x.fieldNode(fd))
				}
				return out
			},
			"interfaces": func(map[string]any) any {
				if def.Kind != ast.Object && def.Kind != ast.Interface {
					return nil
				}
				out := make([]*introObject, 0, len(def.Interfaces))
				for _, name := range def.Interfaces {
					out = append(out, x.typeNode(s.Types[name]))
				}
				return out
			},
			"possibleTypes": func(map[string]any) any {
				if def.Kind != ast.Interface && def.Kind != ast.Union {
					return nil
				}
				var out []*introObject
				for _, pt := range s.GetPossibleTypes(def) {
					out = append(out, x.typeNode(pt))
				}
				return out
			},
			"enumValues": func(args map[string]any) any {
				if def.Kind != ast.Enum {
					return nil
				}
				includeDeprecated, _ := args["includeDeprecated"].(bool)
				out := make([]*introObject, 0, len(def.EnumValues))
				for _, ev := range def.EnumValues {
					reason, deprecated := deprecation(ev.Directives)
					if deprecated && !includeDeprecated {
						continue
					}
					out = append(out, &introObject{
						typeName: "__EnumValue",
						fields: map[string]func(map[string]any) any{
							"name":              func(map[string]any) any { return ev.Name },
							"description":       func(map[string]any) any { return nullable(ev.Description) },
							"isDeprecated":      func(map[string]any) any { return deprecated },
							"deprecationReason": func(map[string]any) any { return reason },
						},
					})
				}
				return out
			},
			"inputFields": func(map[string]any) any {
				if def.Kind != ast.InputObject {
					return nil
				}
				out := make([]*introObject, 0, len(def.Fields))
				for _, fd := range def.Fields {
					out = append(out, x.inputValueNode(fd.Name, fd.Description, fd.Type, fd.DefaultValue))
				}
				return out
			},
		},
	}
}

// typeRefNode wraps non-null and list types around the named type node.
func (x *execution) typeRefNode(t *ast.Type) *introObject {
	if t == nil {
		return nil
	}
	if t.NonNull {
		inner := *t
		inner.NonNull = false
		return wrapperNode("NON_NULL", x.typeRefNode(&inner))
	}
	if t.Elem != nil {
		return wrapperNode("LIST", x.typeRefNode(t.Elem))
	}
	return x.typeNode(x.e.schema.Types[t.NamedType])
}

func wrapperNode(kind string, of *introObject) *introObject {
	return &introObject{
		typeName: "__Type",
		fields: map[string]func(map[string]any) any{
			"kind":   func(map[string]any) any { return kind },
			"name":   func(map[string]any) any { return nil },
			"ofType": func(map[string]any) any { return of },
		},
	}
}

func (x *execution) fieldNode(fd *ast.FieldDefinition) *introObject {
	reason, deprecated := deprecation(fd.Directives)
	return &introObject{
		typeName: "__Field",
		fields: map[string]func(map[string]any) any{
			"name":        func(map[string]any) any { return fd.Name },
			"description": func(map[string]any) any { return nullable(fd.Description) },
			"args": func(map[string]any) any {
				out := make([]*introObject, 0, len(fd.Arguments))
				for _, a := range fd.Arguments {
					out = append(out, x.inputValueNode(a.Name, a.Description, a.Type, a.DefaultValue))
				}
				return out
			},
			"type":              func(map[string]any) any { return x.typeRefNode(fd.Type) },
			"isDeprecated":      func(map[string]any) any { return deprecated },
			"deprecationReason": func(map[string]any) any { return reason },
		},
	}
}

func (x *execution) inputValueNode(name, description string, t *ast.Type, def *ast.Value) *introObject {
	return &introObject{
		typeName: "__InputValue",
		fields: map[string]func(map[string]any) any{
			"name":        func(map[string]any) any { return name },
			"description": func(map[string]any) any { return nullable(description) },
			"type":        func(map[string]any) any { return x.typeRefNode(t) },
			"defaultValue": func(map[string]any) any {
				if def == nil {
					return nil
				}
				return def.String()
			},
			"isDeprecated":      func(map[string]any) any { return false },
			"deprecationReason": func(map[string]any) any { return nil },
		},
	}
}

func (x *execution) directiveNode(d *ast.DirectiveDefinition) *introObject {
	return &introObject{
		typeName: "__Directive",
		fields: map[string]func(map[string]any) any{
			"name":        func(map[string]any) any { return d.Name },
			"description": func(map[string]any) any { return nullable(d.Description) },
			"locations": func(map[string]any) any {
				out := make([]any, len(d.Locations))
				for i, loc := range d.Locations {
					out[i] = string(loc)
				}
				return out
			},
			"args": func(map[string]any) any {
				out := make([]*introObject, 0, len(d.Arguments))
				for _, a := range d.Arguments {
					out = append(out, x.inputValueNode(a.Name, a.Description, a.Type, a.DefaultValue))
				}
				return out
			},
			"isRepeatable": func(map[string]any) any { return d.IsRepeatable },
		},
	}
}

func deprecation(directives ast.DirectiveList) (any, bool) {
	d := directives.ForName("deprecated")
	if d == nil {
		return nil, false
	}
	if arg := d.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		return arg.Value.Raw, true
	}
	return "No longer supported", true
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
