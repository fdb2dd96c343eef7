package resolve

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

// SDL renders the diagram as GraphQL schema definition language.
func (d *Diagram) SDL() string {
	var b strings.Builder

	for _, e := range d.entities {
		writeDescription(&b, "", e.Description)
		fmt.Fprintf(&b, "type %s {\n", e.Name)
		for _, f := range e.Fields {
			writeDescription(&b, "  ", f.Description)
			fmt.Fprintf(&b, "  %s: %s\n", f.Name, f.Type)
		}
		for _, r := range e.Relationships {
			writeDescription(&b, "  ", r.Description)
			fmt.Fprintf(&b, "  %s: %s\n", r.Name, relationshipType(r))
		}
		b.WriteString("}\n\n")
	}

	writeRoot(&b, "Query", d.queries)
	writeRoot(&b, "Mutation", d.mutations)

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// Schema loads the rendered SDL through gqlparser, which adds the built-in
// scalars, directives and introspection types.
func (d *Diagram) Schema() (*ast.Schema, error) {
	const op = "resolve.Diagram.Schema"

	schema, err := gqlparser.LoadSchema(&ast.Source{
		Name:  "diagram.graphql",
		Input: d.SDL(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return schema, nil
}

// FormatSchema prints schema the way gqlparser formats it, without built-ins.
func FormatSchema(schema *ast.Schema) string {
	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchema(schema)
	return buf.String()
}

func relationshipType(r Relationship) string {
	if r.List {
		return "[" + r.Target + "!]!"
	}
	return r.Target
}

func rootType(f RootField) string {
	t := f.Target
	if f.List {
		t = "[" + t + "!]"
	}
	if f.List || f.NonNull {
		t += "!"
	}
	return t
}

func writeRoot(b *strings.Builder, name string, fields []RootField) {
	if len(fields) == 0 {
		return
	}
	fmt.Fprintf(b, "type %s {\n", name)
	for _, f := range fields {
		writeDescription(b, "  ", f.Description)
		b.WriteString("  " + f.Name)
		if len(f.Args) > 0 {
			args := make([]string, 0, len(f.Args))
			for _, a := range f.Args {
				arg := a.Name + ": " + a.Type
				if a.Default != "" {
					arg += " = " + a.Default
				}
				args = append(args, arg)
			}
			b.WriteString("(" + strings.Join(args, ", ") + ")")
		}
		fmt.Fprintf(b, ": %s\n", rootType(f))
	}
	b.WriteString("}\n\n")
}

func writeDescription(b *strings.Builder, indent, description string) {
	if description == "" {
		return
	}
	fmt.Fprintf(b, "%s\"\"\"%s\"\"\"\n", indent, strings.ReplaceAll(description, `"""`, `\"""`))
}
