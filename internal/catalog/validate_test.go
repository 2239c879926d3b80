package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapekit/internal/diagnostic"
)

func TestValidate_People(t *testing.T) {
	f, err := LoadFile(filepath.Join("testdata", "people.yaml"))
	require.NoError(t, err)

	diags := Validate(f)
	assert.True(t, diags.IsValid(), "%v", diags.Error())
	assert.Empty(t, diags.Warnings)
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		yaml       string
		code       string
		suggestion string
	}{
		{
			name: "unknown primitive",
			yaml: `
records:
  - {name: A, fields: [{name: x, type: strng}]}`,
			code:       diagnostic.CodeUnknownType,
			suggestion: "string",
		},
		{
			name: "field with two kinds",
			yaml: `
records:
  - {name: B}
  - {name: A, fields: [{name: x, type: string, record: B}]}`,
			code: diagnostic.CodeFieldKind,
		},
		{
			name: "misspelled record",
			yaml: `
records:
  - {name: Address}
  - {name: Person, fields: [{name: home, record: Adress}]}`,
			code:       diagnostic.CodeUnknownReference,
			suggestion: "Address",
		},
		{
			name: "duplicate record",
			yaml: `
records:
  - {name: A}
  - {name: A}`,
			code: diagnostic.CodeDuplicateName,
		},
		{
			name: "record and union share a name",
			yaml: `
records:
  - {name: U, fields: [{name: kind, const: u}]}
unions:
  - {name: U, discriminant: kind, variants: [U]}`,
			code: diagnostic.CodeDuplicateName,
		},
		{
			name: "duplicate field",
			yaml: `
records:
  - {name: A, fields: [{name: x, type: int}, {name: x, type: string}]}`,
			code: diagnostic.CodeDuplicateField,
		},
		{
			name: "variant without literal",
			yaml: `
records:
  - {name: A, fields: [{name: kind, type: string}]}
unions:
  - {name: U, discriminant: kind, variants: [A]}`,
			code: diagnostic.CodeUnknownVariant,
		},
		{
			name: "variants share a literal",
			yaml: `
records:
  - {name: A, fields: [{name: kind, const: same}]}
  - {name: B, fields: [{name: kind, const: same}]}
unions:
  - {name: U, discriminant: kind, variants: [A, B]}`,
			code: diagnostic.CodeAmbiguousVariant,
		},
		{
			name: "factory with two sources",
			yaml: `
factories:
  - {name: F, result: int, expr: "1", js: "() => 1"}`,
			code: diagnostic.CodeFactorySource,
		},
		{
			name: "factory parameter type",
			yaml: `
factories:
  - {name: F, params: [{x: flot}], result: int, expr: x}`,
			code:       diagnostic.CodeUnknownType,
			suggestion: "float",
		},
		{
			name: "misspelled rule",
			yaml: `
records:
  - {name: A}
derive:
  - {name: D, rule: deep_optinal, from: A}`,
			code:       diagnostic.CodeUnknownRule,
			suggestion: "deep_optional",
		},
		{
			name: "find with unknown value",
			yaml: `
records:
  - {name: UsaId, fields: [{name: country, const: usa}]}
unions:
  - {name: FiscalId, discriminant: country, variants: [UsaId]}
derive:
  - {name: D, rule: find, from: FiscalId, value: usaa}`,
			code:       diagnostic.CodeUnknownVariant,
			suggestion: "usa",
		},
		{
			name: "index with another discriminant",
			yaml: `
records:
  - {name: UsaId, fields: [{name: country, const: usa}]}
unions:
  - {name: FiscalId, discriminant: country, variants: [UsaId]}
derive:
  - {name: D, rule: index, from: FiscalId, discriminant: kind}`,
			code:       diagnostic.CodeUnknownVariant,
			suggestion: "country",
		},
		{
			name: "record rule on a union",
			yaml: `
records:
  - {name: UsaId, fields: [{name: country, const: usa}]}
unions:
  - {name: FiscalId, discriminant: country, variants: [UsaId]}
derive:
  - {name: D, rule: deep_optional, from: FiscalId}`,
			code: diagnostic.CodeUnknownReference,
		},
		{
			name: "widen without field",
			yaml: `
records:
  - {name: A, fields: [{name: x, type: int}]}
derive:
  - {name: D, rule: widen, from: A}`,
			code: diagnostic.CodeMissingValue,
		},
		{
			name: "unsupported version",
			yaml: `version: "2"`,
			code: diagnostic.CodeUnknownVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			diags := Validate(f)
			require.True(t, diags.HasErrors())
			assert.Equal(t, []string{tt.code}, diags.Codes(), "%v", diags.Error())

			if tt.suggestion != "" {
				assert.Contains(t, diags.Errors[0].Suggestions, tt.suggestion)
			}
		})
	}
}

func TestValidate_UnusedWarning(t *testing.T) {
	f, err := Parse([]byte(`
records:
  - {name: Lonely, fields: [{name: x, type: int}]}`))
	require.NoError(t, err)

	diags := Validate(f)
	assert.True(t, diags.IsValid())
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, diagnostic.CodeUnusedShape, diags.Warnings[0].Code)
	assert.Equal(t, "record Lonely", diags.Warnings[0].Subject)
}

func TestValidate_Nil(t *testing.T) {
	assert.True(t, Validate(nil).HasErrors())
}
