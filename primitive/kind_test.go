package primitive_test

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"shapekit/primitive"
)

func Example() {
	type IntEnum int
	type StringEnum string
	type Empty struct{}

	fmt.Println(primitive.FromReflectType(reflect.TypeOf(int(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf("")))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(IntEnum(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(StringEnum(""))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(time.Duration(0))))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(time.Time{})))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(uuid.UUID{})))
	fmt.Println(primitive.FromReflectType(reflect.TypeOf(Empty{})))
	// Output:
	// KindInt
	// KindString
	// KindInt
	// KindString
	// KindDuration
	// KindTime
	// KindUUID
	// Kind(0)
}

func TestParse(t *testing.T) {
	t.Parallel()

	for _, name := range primitive.Names() {
		k, ok := primitive.Parse(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, k.Name())
	}

	k, ok := primitive.Parse(" Number ")
	assert.True(t, ok)
	assert.Equal(t, primitive.KindFloat, k)

	_, ok = primitive.Parse("decimal")
	assert.False(t, ok)
}

func TestAccepts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind  primitive.Kind
		value any
		want  bool
	}{
		{primitive.KindInt, 12, true},
		{primitive.KindInt, int64(12), true},
		{primitive.KindInt, 12.0, true},
		{primitive.KindInt, 12.5, false},
		{primitive.KindInt, "12", false},
		{primitive.KindInt, uint8(200), true},
		{primitive.KindInt, uint64(math.MaxInt64), true},
		{primitive.KindInt, uint64(math.MaxUint64), false},
		{primitive.KindInt, 1e20, false},
		{primitive.KindInt, -1e20, false},
		{primitive.KindInt, math.Inf(1), false},
		{primitive.KindInt, math.NaN(), false},
		{primitive.KindInt, float64(-(1 << 63)), true},
		{primitive.KindInt, float64(1 << 63), false},
		{primitive.KindFloat, 12, true},
		{primitive.KindFloat, 1.5, true},
		{primitive.KindString, "x", true},
		{primitive.KindString, nil, false},
		{primitive.KindBool, true, true},
		{primitive.KindUUID, uuid.New(), true},
		{primitive.KindUUID, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{primitive.KindUUID, "not-a-uuid", false},
		{primitive.KindTime, time.Now(), true},
		{primitive.KindDuration, time.Second, true},
		{primitive.KindDuration, 1, false},
		{primitive.KindAny, struct{}{}, true},
		{primitive.KindAny, nil, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.Accepts(tt.value), "%s accepts %#v", tt.kind, tt.value)
	}
}
