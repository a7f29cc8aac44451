package db

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FieldKind is the FT schema type of an indexed attribute.
type FieldKind int

const (
	// FieldNumeric supports range filters and sorting.
	FieldNumeric FieldKind = iota
	// FieldTag supports exact-match filters.
	FieldTag
	// FieldText is tokenized for full-text search.
	FieldText
)

func (k FieldKind) String() string {
	switch k {
	case FieldNumeric:
		return "NUMERIC"
	case FieldTag:
		return "TAG"
	case FieldText:
		return "TEXT"
	default:
		return "FieldKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// IndexField maps a top-level JSON attribute into the index schema.
// Queries address the field by Attr.
type IndexField struct {
	Attr     string
	Kind     FieldKind
	Sortable bool
	// Weight applies to TEXT fields only; 0 keeps the server default.
	Weight float64
}

// Path is the JSONPath the attribute is read from.
func (f IndexField) Path() string { return "$." + f.Attr }

// IndexDefinition is an FT index over JSON documents sharing one key prefix.
type IndexDefinition struct {
	Name   string
	Prefix string
	Fields []IndexField
}

var identRe = regexp.MustCompile(`^[A-Za-z0-9_:-]+$`)

// IsValidIdentifier reports whether s is usable as an index or attribute name.
func IsValidIdentifier(s string) bool { return identRe.MatchString(s) }

// Validate checks that the definition can be turned into an FT.CREATE command.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return fmt.Errorf("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return fmt.Errorf("index name %q contains invalid characters", idx.Name)
	}
	if len(idx.Fields) == 0 {
		return fmt.Errorf("index %s: at least one field is required", idx.Name)
	}

	seen := make(map[string]struct{}, len(idx.Fields))
	for i, f := range idx.Fields {
		if f.Attr == "" {
			return fmt.Errorf("index %s: field %d has no attribute", idx.Name, i)
		}
		if !IsValidIdentifier(f.Attr) {
			return fmt.Errorf("index %s: attribute %q contains invalid characters", idx.Name, f.Attr)
		}
		if _, dup := seen[f.Attr]; dup {
			return fmt.Errorf("index %s: duplicate attribute %s", idx.Name, f.Attr)
		}
		seen[f.Attr] = struct{}{}

		switch f.Kind {
		case FieldNumeric, FieldTag, FieldText:
		default:
			return fmt.Errorf("index %s: %s has unknown kind %s", idx.Name, f.Attr, f.Kind)
		}
		if f.Weight < 0 {
			return fmt.Errorf("index %s: negative weight on %s", idx.Name, f.Attr)
		}
		if f.Weight != 0 && f.Kind != FieldText {
			return fmt.Errorf("index %s: weight is only valid on TEXT fields, got %s", idx.Name, f.Attr)
		}
	}
	return nil
}

// HasField reports whether attr is indexed.
func (idx *IndexDefinition) HasField(attr string) bool {
	for _, f := range idx.Fields {
		if f.Attr == attr {
			return true
		}
	}
	return false
}

// CreateArgs renders the FT.CREATE arguments that follow the command name.
func (idx *IndexDefinition) CreateArgs() []string {
	args := []string{idx.Name, "ON", "JSON"}
	if idx.Prefix != "" {
		args = append(args, "PREFIX", "1", idx.Prefix)
	}
	args = append(args, "SCHEMA")
	for _, f := range idx.Fields {
		args = append(args, f.Path(), "AS", f.Attr, f.Kind.String())
		if f.Kind == FieldText && f.Weight > 0 {
			args = append(args, "WEIGHT", strconv.FormatFloat(f.Weight, 'f', -1, 64))
		}
		if f.Sortable {
			args = append(args, "SORTABLE")
		}
	}
	return args
}

// String renders the definition as the FT.CREATE command it produces.
func (idx *IndexDefinition) String() string {
	return "FT.CREATE " + strings.Join(idx.CreateArgs(), " ")
}
