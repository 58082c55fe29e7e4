// Package catalog defines the static registry of matchable fixture attributes.
package catalog

// ValueType describes the type of values a field holds
type ValueType string

const (
	ValueTypeNumber ValueType = "number"
	ValueTypeString ValueType = "string"
	ValueTypeEnum   ValueType = "enum"
)

// Operator represents a comparison operator usable in a rule
type Operator string

const (
	OpEq      Operator = "="
	OpNeq     Operator = "!="
	OpGt      Operator = ">"
	OpLt      Operator = "<"
	OpGte     Operator = ">="
	OpLte     Operator = "<="
	OpIn      Operator = "in"
	OpBetween Operator = "between"
)

// Option is one selectable value for an enum field
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldDefinition describes a single matchable attribute: its type, the
// operators legal for it and, for numeric fields, the accepted range.
type FieldDefinition struct {
	Key       string     `json:"key"`
	Label     string     `json:"label"`
	Type      ValueType  `json:"type"`
	Operators []Operator `json:"operators"`
	Min       *float64   `json:"min,omitempty"`
	Max       *float64   `json:"max,omitempty"`
	Step      *float64   `json:"step,omitempty"`
	Options   []Option   `json:"options,omitempty"`
}

// AllowsOperator reports whether op is legal for this field
func (f *FieldDefinition) AllowsOperator(op Operator) bool {
	for _, legal := range f.Operators {
		if legal == op {
			return true
		}
	}
	return false
}

// HasOption reports whether value is one of the field's enum options
func (f *FieldDefinition) HasOption(value string) bool {
	for _, opt := range f.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// Catalog is a read-only field registry. Entries are versioned as a unit;
// adding or removing a field is a deploy-time change.
type Catalog struct {
	version string
	fields  map[string]FieldDefinition
	order   []string
}

// New builds the default catalog
func New() *Catalog {
	return build(catalogVersion, defaultFields())
}

// NewWithFields builds a catalog from an explicit field list (test harnesses)
func NewWithFields(version string, fields []FieldDefinition) *Catalog {
	return build(version, fields)
}

func build(version string, fields []FieldDefinition) *Catalog {
	c := &Catalog{
		version: version,
		fields:  make(map[string]FieldDefinition, len(fields)),
		order:   make([]string, 0, len(fields)),
	}
	for _, f := range fields {
		c.fields[f.Key] = f
		c.order = append(c.order, f.Key)
	}
	return c
}

// Version returns the catalog version identifier
func (c *Catalog) Version() string {
	return c.version
}

// Lookup retrieves a field definition by key
func (c *Catalog) Lookup(key string) (FieldDefinition, bool) {
	f, ok := c.fields[key]
	return f, ok
}

// Fields returns all field definitions in declaration order
func (c *Catalog) Fields() []FieldDefinition {
	out := make([]FieldDefinition, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.fields[key])
	}
	return out
}
