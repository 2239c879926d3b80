package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shapekit/primitive"
)

func TestTypePath(t *testing.T) {
	p := NewTypePath("Person")
	assert.Equal(t, "Person", p.String())
	assert.Equal(t, "Person.contacts.primary", p.Field("contacts").Field("primary").String())
	assert.Equal(t, "Person.fiscalId<usa>.ssn", p.Field("fiscalId").Variant("usa").Field("ssn").String())

	// parents are not modified
	assert.Equal(t, "Person", p.String())
}

func TestFormat(t *testing.T) {
	usa, italy := fiscalVariants()
	contacts := MustRecord("Contacts", Prim("primary", primitive.KindString))
	person := MustRecord("Person",
		Prim("name", primitive.KindString),
		Prim("note", primitive.KindString).Optional().Nullable(),
		Nested("contacts", contacts),
		OneOf("fiscalId", MustUnion("FiscalId", "country", usa, italy)).Optional(),
	)

	assert.Equal(t,
		`{ name: string, note?: string | null, contacts: { primary: string }, `+
			`fiscalId?: { country: "usa", ssn: string } | { country: "italy", code: string } }`,
		Format(person))
	assert.Equal(t, "{}", Format(MustRecord("Empty")))
}

func TestFormat_Cycle(t *testing.T) {
	node := &RecordShape{Name: "Node"}
	node.Fields = []FieldShape{Prim("v", primitive.KindInt), Nested("next", node).Optional()}

	assert.Equal(t, "{ v: int, next?: Node }", Format(node))
}

func TestPaths(t *testing.T) {
	usa, italy := fiscalVariants()
	person := MustRecord("Person",
		Nested("contacts", MustRecord("Contacts", Prim("primary", primitive.KindString))),
		OneOf("fiscalId", MustUnion("FiscalId", "country", usa, italy)),
	)

	assert.Equal(t, []string{
		"Person.contacts",
		"Person.contacts.primary",
		"Person.fiscalId",
		"Person.fiscalId<italy>.code",
		"Person.fiscalId<italy>.country",
		"Person.fiscalId<usa>.country",
		"Person.fiscalId<usa>.ssn",
	}, SortedPaths(person, 5))

	assert.Len(t, Paths(person, 0), 2)
}

func TestPaths_NilUnion(t *testing.T) {
	usa, _ := fiscalVariants()
	person := &RecordShape{Name: "Person", Fields: []FieldShape{
		{Name: "fiscalId", Type: Type{Kind: FieldUnion}},
		{Name: "otherId", Type: Type{Kind: FieldUnion, Union: &TaggedUnion{
			Name: "FiscalId", Discriminant: "country", Variants: []*RecordShape{usa, nil},
		}}},
	}}

	assert.Equal(t, []string{
		"Person.fiscalId",
		"Person.otherId",
		"Person.otherId<usa>.country",
		"Person.otherId<usa>.ssn",
	}, SortedPaths(person, 5))
	assert.Equal(t, `{ fiscalId: <nil>, otherId: { country: "usa", ssn: string } | <nil> }`, Format(person))
}
