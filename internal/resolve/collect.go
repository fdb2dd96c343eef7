package resolve

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// collected is one response key of a selection set. Fields requested more than
// once under the same key have their sub-selections merged.
type collected struct {
	alias string
	field *ast.Field
	sel   ast.SelectionSet
}

// collect flattens fragments and applies @skip/@include for an object of type
// typeName, keeping the order in which response keys first appear.
func (x *execution) collect(set ast.SelectionSet, typeName string) []*collected {
	var out []*collected
	byAlias := make(map[string]*collected)
	x.collectInto(set, typeName, &out, byAlias, make(map[string]bool))
	return out
}

func (x *execution) collectInto(
	set ast.SelectionSet,
	typeName string,
	out *[]*collected,
	byAlias map[string]*collected,
	visited map[string]bool,
) {
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			if !x.included(s.Directives) {
				continue
			}
			alias := s.Alias
			if alias == "" {
				alias = s.Name
			}
			if c, ok := byAlias[alias]; ok {
				c.sel = append(c.sel, s.SelectionSet...)
				continue
			}
			c := &collected{
				alias: alias,
				field: s,
				sel:   append(ast.SelectionSet(nil), s.SelectionSet...),
			}
			byAlias[alias] = c
			*out = append(*out, c)

		case *ast.InlineFragment:
			if !x.included(s.Directives) {
				continue
			}
			if s.TypeCondition != "" && s.TypeCondition != typeName {
				continue
			}
			x.collectInto(s.SelectionSet, typeName, out, byAlias, visited)

		case *ast.FragmentSpread:
			if !x.included(s.Directives) || s.Definition == nil || visited[s.Name] {
				continue
			}
			if s.Definition.TypeCondition != typeName {
				continue
			}
			visited[s.Name] = true
			x.collectInto(s.Definition.SelectionSet, typeName, out, byAlias, visited)
		}
	}
}

func (x *execution) included(directives ast.DirectiveList) bool {
	if d := directives.ForName("skip"); d != nil && x.directiveIf(d) {
		return false
	}
	if d := directives.ForName("include"); d != nil && !x.directiveIf(d) {
		return false
	}
	return true
}

func (x *execution) directiveIf(d *ast.Directive) bool {
	arg := d.Arguments.ForName("if")
	if arg == nil || arg.Value == nil {
		return false
	}
	v, err := arg.Value.Value(x.vars)
	if err != nil {
		return false
	}
	b, _ := v.(bool)
	return b
}
