package db

// IndexBuilder assembles an IndexDefinition field by field.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts a definition for index name over keys starting with prefix.
func NewIndex(name, prefix string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name, Prefix: prefix}}
}

// Tag indexes attr for exact matching.
func (b *IndexBuilder) Tag(attr string) *IndexBuilder {
	return b.add(IndexField{Attr: attr, Kind: FieldTag})
}

// Text indexes attr for full-text search.
func (b *IndexBuilder) Text(attr string, weight float64) *IndexBuilder {
	return b.add(IndexField{Attr: attr, Kind: FieldText, Weight: weight})
}

// Numeric indexes attr for ranges.
func (b *IndexBuilder) Numeric(attr string) *IndexBuilder {
	return b.add(IndexField{Attr: attr, Kind: FieldNumeric})
}

// Sortable marks the last added field SORTABLE. No-op on an empty builder.
func (b *IndexBuilder) Sortable() *IndexBuilder {
	if n := len(b.def.Fields); n > 0 {
		b.def.Fields[n-1].Sortable = true
	}
	return b
}

// Build validates and returns a copy of the definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	def.Fields = append([]IndexField(nil), b.def.Fields...)
	return &def, nil
}

// MustBuild is Build for statically known schemas; it panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

func (b *IndexBuilder) add(f IndexField) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, f)
	return b
}
