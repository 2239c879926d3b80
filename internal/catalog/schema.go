package catalog

// File represents the root of a YAML shape catalog.
type File struct {
	// Version of the catalog schema.
	Version string `yaml:"version,omitempty"`

	Records   []RecordDef  `yaml:"records,omitempty"`
	Unions    []UnionDef   `yaml:"unions,omitempty"`
	Factories []FactoryDef `yaml:"factories,omitempty"`
	Derive    []DeriveDef  `yaml:"derive,omitempty"`
}

// RecordDef declares a record shape.
type RecordDef struct {
	Name   string     `yaml:"name"`
	Fields []FieldDef `yaml:"fields,omitempty"`
}

// FieldDef declares one field. Exactly one of Type, Record, Union and Const
// must be set.
type FieldDef struct {
	Name string `yaml:"name"`

	// Type is a primitive kind name such as "string" or "uuid".
	Type   string `yaml:"type,omitempty"`
	Record string `yaml:"record,omitempty"`
	Union  string `yaml:"union,omitempty"`
	// Const pins a string literal, the usual form of a discriminant.
	Const string `yaml:"const,omitempty"`

	Optional bool `yaml:"optional,omitempty"`
	Nullable bool `yaml:"nullable,omitempty"`
}

// sources lists which of the kind-selecting keys are set.
func (f FieldDef) sources() []string {
	var set []string

	if f.Type != "" {
		set = append(set, "type")
	}

	if f.Record != "" {
		set = append(set, "record")
	}

	if f.Union != "" {
		set = append(set, "union")
	}

	if f.Const != "" {
		set = append(set, "const")
	}

	return set
}

// UnionDef declares a tagged union over previously named records.
type UnionDef struct {
	Name         string        `yaml:"name"`
	Discriminant string        `yaml:"discriminant"`
	Variants     StringOrArray `yaml:"variants"`
}

// FactoryDef declares a value-or-factory slot.
type FactoryDef struct {
	Name        string    `yaml:"name"`
	Params      ParamDefs `yaml:"params,omitempty"`
	Result      string    `yaml:"result"`
	Description string    `yaml:"description,omitempty"`

	Value any    `yaml:"value,omitempty"`
	Expr  string `yaml:"expr,omitempty"`
	CEL   string `yaml:"cel,omitempty"`
	JS    string `yaml:"js,omitempty"`
}

// sources lists which of the slot-selecting keys are set.
func (f FactoryDef) sources() []string {
	var set []string

	if f.Value != nil {
		set = append(set, "value")
	}

	if f.Expr != "" {
		set = append(set, "expr")
	}

	if f.CEL != "" {
		set = append(set, "cel")
	}

	if f.JS != "" {
		set = append(set, "js")
	}

	return set
}

// ParamDef declares one factory parameter.
type ParamDef struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// ParamDefs accepts either [{name: base, type: float}] or the shorthand
// [{base: float}].
type ParamDefs []ParamDef

// Rule names a derivation.
type Rule string

const (
	RuleDeepOptional Rule = "deep_optional"
	RuleDeepNullable Rule = "deep_nullable"
	RuleWiden        Rule = "widen"
	RuleFind         Rule = "find"
	RuleIndex        Rule = "index"
)

// Rules returns every known rule.
func Rules() []Rule {
	return []Rule{RuleDeepOptional, RuleDeepNullable, RuleWiden, RuleFind, RuleIndex}
}

// IsValid returns true if the rule is a recognized value.
func (r Rule) IsValid() bool {
	switch r {
	case RuleDeepOptional, RuleDeepNullable, RuleWiden, RuleFind, RuleIndex:
		return true
	default:
		return false
	}
}

// onUnion reports whether the rule takes a union rather than a record.
func (r Rule) onUnion() bool {
	return r == RuleFind || r == RuleIndex
}

// DeriveDef declares a derived shape.
type DeriveDef struct {
	Name string `yaml:"name"`
	Rule Rule   `yaml:"rule"`
	// From names the record (or union for find and index) the rule reads.
	From string `yaml:"from"`
	// Field is the field widened by the widen rule.
	Field string `yaml:"field,omitempty"`
	// Value is the discriminant value looked up by the find rule.
	Value string `yaml:"value,omitempty"`
	// Discriminant defaults to the union's own discriminant.
	Discriminant string `yaml:"discriminant,omitempty"`
}
