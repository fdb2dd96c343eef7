package resolve

type ERGraph struct {
	Entities []EREntity `json:"entities"`
	Edges    []EREdge   `json:"edges"`
}

type EREntity struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Fields      []ERField `json:"fields"`
}

type ERField struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type EREdge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Field  string `json:"field"`
	Loader string `json:"loader"`
	List   bool   `json:"list"`
}

// ER returns the entity-relationship graph of the diagram.
func (d *Diagram) ER() ERGraph {
	g := ERGraph{
		Entities: make([]EREntity, 0, len(d.entities)),
		Edges:    []EREdge{},
	}

	for _, e := range d.entities {
		ent := EREntity{
			Name:        e.Name,
			Description: e.Description,
			Fields:      make([]ERField, 0, len(e.Fields)),
		}
		for _, f := range e.Fields {
			ent.Fields = append(ent.Fields, ERField{Name: f.Name, Type: f.Type})
		}
		g.Entities = append(g.Entities, ent)

		for _, r := range e.Relationships {
			g.Edges = append(g.Edges, EREdge{
				From:   e.Name,
				To:     r.Target,
				Field:  r.Name,
				Loader: r.Loader,
				List:   r.List,
			})
		}
	}

	return g
}
