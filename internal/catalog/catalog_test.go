package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"shapekit/internal/factory"
	"shapekit/internal/shape"
)

const personShape = `{ id: uuid, firstName: string, age?: int, ` +
	`contacts: { email: string, phone: string | null }, ` +
	`fiscalId: { country: "usa", ssn: string } | { country: "italy", codiceFiscale: string } }`

func loadPeople(t *testing.T, opts ...Option) *Catalog {
	t.Helper()

	f, err := LoadFile(filepath.Join("testdata", "people.yaml"))
	require.NoError(t, err)

	c, err := Build(f, opts...)
	require.NoError(t, err)

	return c
}

func TestBuild(t *testing.T) {
	c := loadPeople(t)

	assert.Equal(t, []string{"Contacts", "UsaId", "ItalyId", "Person", "FiscalId"}, c.Names())

	person, ok := c.Record("Person")
	require.True(t, ok)
	assert.Equal(t, personShape, shape.Format(person))

	contacts, _ := c.Record("Contacts")
	field, _ := person.Field("contacts")
	assert.Same(t, contacts, field.Record)

	fiscal, ok := c.Union("FiscalId")
	require.True(t, ok)
	assert.Equal(t, []string{"usa", "italy"}, fiscal.Values())

	_, ok = c.Record("FiscalId")
	assert.False(t, ok)
}

func TestBuild_Factories(t *testing.T) {
	c := loadPeople(t)

	tests := []struct {
		name string
		args []any
		want any
	}{
		{"RectangleArea", []any{3, 4}, 12.0},
		{"TriangleArea", []any{3, 4}, 6.0},
		{"Product", []any{3, 4}, 12},
		{"DefaultCountry", []any{"ignored"}, "usa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Resolve(tt.name, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	slot, ok := c.Factory("TriangleArea")
	require.True(t, ok)
	assert.Equal(t, factory.EngineCEL, slot.Engine())
	assert.Equal(t, "TriangleArea", slot.Name())

	id, err := c.Resolve("NewID")
	require.NoError(t, err)

	_, err = uuid.Parse(id.(string))
	require.NoError(t, err)

	_, err = c.Resolve("Product", 3)
	assert.ErrorIs(t, err, shape.ErrArityMismatch)
}

func TestResolve_NotDeclared(t *testing.T) {
	c := loadPeople(t)

	_, err := c.Resolve("Produkt", 1, 2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotDeclared)
	assert.Contains(t, err.Error(), `did you mean "Product"?`)
}

func TestBuild_Invalid(t *testing.T) {
	f, err := Parse([]byte(`
records:
  - {name: Person, fields: [{name: home, record: Adress}]}`))
	require.NoError(t, err)

	_, err = Build(f)
	require.Error(t, err)

	var invalid *ValidationError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, []string{"unknown_reference"}, invalid.Diagnostics.Codes())
	assert.ErrorIs(t, err, shape.ErrInvalidShape)
	assert.NotErrorIs(t, err, shape.ErrAmbiguousVariant)
}

func TestBuild_InvalidErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "shared discriminant value",
			yaml: `
records:
  - {name: A, fields: [{name: country, const: usa}]}
  - {name: B, fields: [{name: country, const: usa}]}
unions:
  - {name: U, discriminant: country, variants: [A, B]}`,
			want: shape.ErrAmbiguousVariant,
		},
		{
			name: "variant without literal",
			yaml: `
records:
  - {name: A, fields: [{name: country, type: string}]}
unions:
  - {name: U, discriminant: country, variants: [A]}`,
			want: shape.ErrVariantNotFound,
		},
		{
			name: "find of an unknown value",
			yaml: `
records:
  - {name: A, fields: [{name: country, const: usa}]}
unions:
  - {name: U, discriminant: country, variants: [A]}
derive:
  - {name: D, rule: find, from: U, value: italy}`,
			want: shape.ErrVariantNotFound,
		},
		{
			name: "duplicate field",
			yaml: `
records:
  - {name: A, fields: [{name: x, type: int}, {name: x, type: int}]}`,
			want: shape.ErrDuplicateField,
		},
		{
			name: "unknown type",
			yaml: `
records:
  - {name: A, fields: [{name: x, type: integr}]}`,
			want: shape.ErrInvalidShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			_, err = Build(f)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBuild_Cycle(t *testing.T) {
	f, err := Parse([]byte(`
records:
  - {name: Leaf, fields: [{name: v, type: int}]}
  - {name: A, fields: [{name: b, record: B}]}
  - {name: B, fields: [{name: a, record: A, optional: true}]}`))
	require.NoError(t, err)

	_, err = Build(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, shape.ErrCyclicShape)

	var ruleErr *shape.RuleError
	require.True(t, errors.As(err, &ruleErr))
	assert.Equal(t, "A, B", ruleErr.Subject)
}

func TestBuild_FactoryArity(t *testing.T) {
	f, err := Parse([]byte(`
factories:
  - {name: Area, params: [{base: float}], result: float, expr: base * height}
  - {name: Pair, params: [{x: int}, {y: int}], result: int, js: "x => x"}`))
	require.NoError(t, err)

	_, err = Build(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, shape.ErrArityMismatch)
	assert.Contains(t, err.Error(), "factory Area")

	f.Factories = f.Factories[1:]
	_, err = Build(f)
	require.Error(t, err)
	assert.ErrorIs(t, err, shape.ErrArityMismatch)
}

func TestBuild_CustomRegistry(t *testing.T) {
	registry := factory.NewFunctionRegistry()
	require.NoError(t, registry.Register("shout", func(args ...any) (any, error) {
		return strings.ToUpper(fmt.Sprint(args...)), nil
	}))

	f, err := Parse([]byte(`
factories:
  - {name: Greeting, params: [{who: string}], result: string, js: "(who) => shout('hi ' + who)"}`))
	require.NoError(t, err)

	c, err := Build(f, WithRegistry(registry))
	require.NoError(t, err)

	got, err := c.Resolve("Greeting", "ada")
	require.NoError(t, err)
	assert.Equal(t, "HI ADA", got)
}

func TestDerive(t *testing.T) {
	var (
		mu     sync.Mutex
		events []DeriveEvent
	)

	logger := LoggerFunc(func(e DeriveEvent) {
		mu.Lock()
		defer mu.Unlock()

		events = append(events, e)
	})

	c := loadPeople(t, WithWorkers(2), WithLogger(logger))

	results, err := c.Derive(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 5)
	assert.Len(t, events, 5)

	names := make([]string, len(results))
	for i, res := range results {
		names[i] = res.Name
	}

	assert.Equal(t, []string{"PartialPerson", "NullablePerson", "PersonWithOptionalContacts", "UsaOnly", "FiscalById"}, names)

	assert.Equal(t,
		`{ id?: uuid, firstName?: string, age?: int, `+
			`contacts?: { email?: string, phone?: string | null }, `+
			`fiscalId?: { country?: "usa", ssn?: string } | { country?: "italy", codiceFiscale?: string } }`,
		shape.Format(results[0].Record))

	assert.Equal(t,
		`{ id?: uuid | null, firstName?: string | null, age?: int | null, `+
			`contacts?: { email?: string | null, phone?: string | null } | null, `+
			`fiscalId?: { country?: "usa" | null, ssn?: string | null } | { country?: "italy" | null, codiceFiscale?: string | null } | null }`,
		shape.Format(results[1].Record))

	widened, ok := results[2].Record.Field("contacts")
	require.True(t, ok)
	assert.True(t, widened.Presence.IsOptional())
	assert.True(t, widened.Presence.IsNullable())

	usa, _ := c.Record("UsaId")
	assert.Same(t, usa, results[3].Record)

	require.NotNil(t, results[4].Index)
	assert.Equal(t, []string{"usa", "italy"}, results[4].Index.Keys())

	// sources are left untouched
	person, _ := c.Record("Person")
	assert.Equal(t, personShape, shape.Format(person))
}

func TestDerive_Canceled(t *testing.T) {
	c := loadPeople(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Derive(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDeriveOne(t *testing.T) {
	c := loadPeople(t)

	res, err := c.DeriveOne("FiscalById")
	require.NoError(t, err)
	assert.Equal(t, RuleIndex, res.Rule)
	assert.Equal(t, 2, res.Index.Len())

	_, err = c.DeriveOne("Nope")
	assert.ErrorIs(t, err, ErrNotDeclared)
}

func TestExportYAML(t *testing.T) {
	c := loadPeople(t)

	results, err := c.Derive(context.Background())
	require.NoError(t, err)

	data, err := ExportYAML(results)
	require.NoError(t, err)

	var exported Export
	require.NoError(t, yaml.Unmarshal(data, &exported))
	require.Len(t, exported.Derived, 5)

	partial := exported.Derived[0]
	assert.Equal(t, "PartialPerson", partial.Name)
	assert.Equal(t, RuleDeepOptional, partial.Rule)
	assert.Equal(t, "Person", partial.From)
	assert.Equal(t, FieldDef{Name: "id", Type: "uuid", Optional: true}, partial.Fields[0])
	assert.Equal(t, FieldDef{Name: "contacts", Record: "Contacts", Optional: true}, partial.Fields[3])

	index := exported.Derived[4]
	assert.Empty(t, index.Fields)
	assert.Equal(t, map[string]string{
		"usa":   `{ country: "usa", ssn: string }`,
		"italy": `{ country: "italy", codiceFiscale: string }`,
	}, index.Index)
}

func TestFromShapes(t *testing.T) {
	c := loadPeople(t)
	person, _ := c.Record("Person")

	f := FromShapes(person)

	names := make([]string, len(f.Records))
	for i, r := range f.Records {
		names[i] = r.Name
	}

	assert.Equal(t, []string{"Contacts", "UsaId", "ItalyId", "Person"}, names)
	require.Len(t, f.Unions, 1)
	assert.Equal(t, StringOrArray{"UsaId", "ItalyId"}, f.Unions[0].Variants)

	rebuilt, err := Build(f)
	require.NoError(t, err)

	again, ok := rebuilt.Record("Person")
	require.True(t, ok)
	assert.Equal(t, shape.Format(person), shape.Format(again))
}
