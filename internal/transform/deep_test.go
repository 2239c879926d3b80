package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapekit/internal/shape"
	"shapekit/primitive"
)

func person() *shape.RecordShape {
	usa := shape.MustRecord("UsaId", shape.Const("country", "usa"), shape.Prim("ssn", primitive.KindString))
	italy := shape.MustRecord("ItalyId", shape.Const("country", "italy"), shape.Prim("code", primitive.KindString))
	contacts := shape.MustRecord("Contacts",
		shape.Prim("primary", primitive.KindString),
		shape.Prim("secondary", primitive.KindString),
	)

	return shape.MustRecord("Person",
		shape.Prim("firstName", primitive.KindString),
		shape.Prim("lastName", primitive.KindString),
		shape.Nested("contacts", contacts),
		shape.OneOf("fiscalId", shape.MustUnion("FiscalId", "country", usa, italy)),
	)
}

func TestDeepOptional_RecursiveDepth(t *testing.T) {
	s := shape.MustRecord("S",
		shape.Prim("a", primitive.KindInt),
		shape.Nested("b", shape.MustRecord("B", shape.Prim("c", primitive.KindInt))),
	)

	got := DeepOptional(s)

	assert.Equal(t, "{ a?: int, b?: { c?: int } }", shape.Format(got))

	b, ok := got.Field("b")
	require.True(t, ok)
	c, ok := b.Record.Field("c")
	require.True(t, ok)
	assert.True(t, c.Presence.IsOptional(), "nested field must be optional, not only its parent")
}

func TestDeepOptional_Idempotent(t *testing.T) {
	once := DeepOptional(person())
	twice := DeepOptional(once)

	assert.Equal(t, once, twice)
	assert.Equal(t, shape.Format(once), shape.Format(twice))
}

func TestDeepOptional_PreservesFieldSet(t *testing.T) {
	in := person()
	out := DeepOptional(in)

	assert.Equal(t, in.FieldNames(), out.FieldNames())
	assert.Equal(t, shape.SortedPaths(in, 10), shape.SortedPaths(out, 10))

	for path, f := range shape.Paths(in, 10) {
		g := shape.Paths(out, 10)[path]
		assert.Equal(t, f.Kind, g.Kind, path)
		assert.Equal(t, f.Primitive, g.Primitive, path)
		assert.Equal(t, f.Literal, g.Literal, path)
		assert.True(t, g.Presence.IsOptional(), path)
		assert.False(t, g.Presence.IsNullable(), path)
	}
}

func TestDeepOptional_UnionDiscriminantBecomesOptional(t *testing.T) {
	out := DeepOptional(person())

	f, ok := out.Field("fiscalId")
	require.True(t, ok)
	require.Len(t, f.Union.Variants, 2)

	for _, v := range f.Union.Variants {
		country, ok := v.Field("country")
		require.True(t, ok)
		assert.True(t, country.Presence.IsOptional())
		assert.True(t, country.HasLiteral, "literal is kept")
	}

	assert.Equal(t, []string{"usa", "italy"}, f.Union.Values())
}

func TestDeepOptional_DoesNotMutateInput(t *testing.T) {
	in := person()
	before := shape.Format(in)

	_ = DeepOptional(in)

	assert.Equal(t, before, shape.Format(in))
}

func TestDeepOptional_Cycle(t *testing.T) {
	node := &shape.RecordShape{Name: "Node"}
	node.Fields = []shape.FieldShape{
		shape.Prim("value", primitive.KindInt),
		shape.Nested("next", node),
	}

	out := DeepOptional(node)

	next, ok := out.Field("next")
	require.True(t, ok)
	assert.Same(t, out, next.Record, "cycle closes onto the new node")
	assert.Equal(t, "{ value?: int, next?: Node }", shape.Format(out))
}

func TestDeepOptional_SharedNodesStayShared(t *testing.T) {
	addr := shape.MustRecord("Address", shape.Prim("street", primitive.KindString))
	r := shape.MustRecord("Order", shape.Nested("billing", addr), shape.Nested("shipping", addr))

	out := DeepOptional(r)
	assert.Same(t, out.Fields[0].Record, out.Fields[1].Record)
}

func TestDeepOptional_Empty(t *testing.T) {
	out := DeepOptional(shape.MustRecord("Empty"))
	assert.Empty(t, out.Fields)
	assert.Nil(t, DeepOptional(nil))
}

func TestDeepNullable(t *testing.T) {
	out := DeepNullable(person())

	for path, f := range shape.Paths(out, 10) {
		assert.True(t, f.Presence.IsOptional(), path)
		assert.True(t, f.Presence.IsNullable(), path)
	}

	assert.Equal(t, out, DeepNullable(out))
}
