package shape

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shapekit/optional"
	"shapekit/primitive"
)

func fiscalVariants() (*RecordShape, *RecordShape) {
	usa := MustRecord("UsaId", Const("country", "usa"), Prim("ssn", primitive.KindString))
	italy := MustRecord("ItalyId", Const("country", "italy"), Prim("code", primitive.KindString))

	return usa, italy
}

func TestNewRecord(t *testing.T) {
	r, err := NewRecord("Person",
		Prim("firstName", primitive.KindString),
		Prim("age", primitive.KindInt).Optional(),
	)
	require.NoError(t, err)

	assert.Equal(t, "Person", r.Name)
	assert.Equal(t, []string{"firstName", "age"}, r.FieldNames())

	age, ok := r.Field("age")
	require.True(t, ok)
	assert.True(t, age.Presence.IsOptional())
	assert.False(t, age.Presence.IsNullable())

	_, ok = r.Field("missing")
	assert.False(t, ok)
}

func TestNewRecord_CopiesFields(t *testing.T) {
	fields := []FieldShape{Prim("a", primitive.KindInt)}
	r := MustRecord("R", fields...)

	fields[0].Name = "changed"
	assert.Equal(t, "a", r.Fields[0].Name)
}

func TestNewRecord_Errors(t *testing.T) {
	tests := []struct {
		name   string
		fields []FieldShape
		want   error
	}{
		{
			name:   "duplicate",
			fields: []FieldShape{Prim("a", primitive.KindInt), Prim("a", primitive.KindString)},
			want:   ErrDuplicateField,
		},
		{
			name:   "empty name",
			fields: []FieldShape{Prim("", primitive.KindInt)},
			want:   ErrInvalidShape,
		},
		{
			name:   "nil record",
			fields: []FieldShape{Nested("n", nil)},
			want:   ErrInvalidShape,
		},
		{
			name:   "nil union",
			fields: []FieldShape{OneOf("u", nil)},
			want:   ErrInvalidShape,
		},
		{
			name:   "bad primitive",
			fields: []FieldShape{Prim("p", primitive.Kind(0))},
			want:   ErrInvalidShape,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRecord("R", tt.fields...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var ruleErr *RuleError
			require.True(t, errors.As(err, &ruleErr))
			assert.Equal(t, "R", ruleErr.Subject)
		})
	}
}

func TestNewUnion(t *testing.T) {
	usa, italy := fiscalVariants()

	u, err := NewUnion("FiscalId", "country", usa, italy)
	require.NoError(t, err)
	assert.Equal(t, []string{"usa", "italy"}, u.Values())

	_, err = NewUnion("FiscalId", "country", usa, MustRecord("Other", Const("country", "usa")))
	assert.ErrorIs(t, err, ErrAmbiguousVariant)

	_, err = NewUnion("FiscalId", "country", usa, MustRecord("NoTag", Prim("country", primitive.KindString)))
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = NewUnion("FiscalId", "country")
	assert.ErrorIs(t, err, ErrInvalidShape)

	_, err = NewUnion("FiscalId", "", usa)
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestMustRecord_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustRecord("R", Prim("a", primitive.KindInt), Prim("a", primitive.KindInt))
	})
}

func TestPresence_Admits(t *testing.T) {
	assert.True(t, PresenceRequired.Admits(optional.Present))
	assert.False(t, PresenceRequired.Admits(optional.Absent))
	assert.False(t, PresenceRequired.Admits(optional.Null))

	assert.True(t, PresenceOptional.Admits(optional.Absent))
	assert.False(t, PresenceOptional.Admits(optional.Null))

	both := PresenceOptional.With(PresenceNullable)
	assert.True(t, both.Admits(optional.Null))
	assert.True(t, both.Admits(optional.Absent))
	assert.Equal(t, "optional|nullable", both.String())
}

func TestRuleError_Message(t *testing.T) {
	err := NewRuleError("find_variant", "FiscalId", ErrVariantNotFound, "no variant with %s=%q", "country", "itali").
		WithSuggestions([]string{"italy"})

	assert.Equal(t,
		`shapekit: find_variant FiscalId: variant not found: no variant with country="itali" (did you mean "italy"?)`,
		err.Error())
	assert.ErrorIs(t, err, ErrVariantNotFound)
}
