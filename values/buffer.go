package values

import (
	"fmt"
	"reflect"

	"github.com/arloliu/cds/errs"
	"github.com/arloliu/cds/format"
)

// MaxElements is the largest element count a Buffer may be allocated with.
// Requests beyond it fail with errs.ErrAlloc instead of exhausting memory.
var MaxElements = 1 << 32

// Number is the set of Go element types backing the numeric TypeIDs.
type Number interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// Element is the set of Go element types a Buffer can hold.
type Element interface {
	Number | string
}

// Buffer is a flat, homogeneously typed sequence of values.
//
// The payload is one of []uint8 (TypeChar, TypeUByte), []int8, []int16,
// []int32, []float32, []float64, []uint16, []uint32, []int64, []uint64 or
// []string (TypeString). Each string element is an independent value.
//
// Slice returns views that share memory with the original; Clone, Cast and
// the other conversion routines always return fresh storage owned by the caller.
// The zero Buffer is empty and has TypeUndefined.
type Buffer struct {
	typ  format.TypeID
	data any
}

// New returns a zeroed buffer of n elements of type t.
//
// Returns errs.ErrAlloc if n is negative or exceeds MaxElements, and
// errs.ErrType if t is not a registered type.
func New(t format.TypeID, n int) (Buffer, error) {
	if err := checkCount(n); err != nil {
		return Buffer{}, err
	}

	data := makeSlice(t, n)
	if data == nil {
		return Buffer{}, fmt.Errorf("%w: unsupported type %s", errs.ErrType, t)
	}

	return Buffer{typ: t, data: data}, nil
}

// Wrap returns a Buffer of type t over data without copying it.
//
// Returns errs.ErrType if the dynamic type of data cannot hold values of type t.
func Wrap(t format.TypeID, data any) (Buffer, error) {
	if !sliceMatches(t, data) {
		return Buffer{}, fmt.Errorf("%w: %T cannot hold %s values", errs.ErrType, data, t)
	}

	return Buffer{typ: t, data: data}, nil
}

// Of returns a Buffer over data, typed by its Go element type.
// A []uint8 is typed as TypeUByte; use Text or Wrap for character data.
func Of[T Element](data []T) Buffer {
	if data == nil {
		data = []T{}
	}

	return Buffer{typ: typeFor[T](), data: data}
}

// Text returns a TypeChar buffer holding the bytes of s.
func Text(s string) Buffer {
	return Buffer{typ: format.TypeChar, data: []byte(s)}
}

// Textf formats according to a format specifier and returns the result as a
// TypeChar buffer. It is the single formatting entry point for text
// attribute values.
func Textf(layout string, args ...any) Buffer {
	return Text(fmt.Sprintf(layout, args...))
}

// Strings returns a TypeString buffer holding a copy of ss.
func Strings(ss ...string) Buffer {
	return Buffer{typ: format.TypeString, data: append([]string{}, ss...)}
}

// Scalar returns a single element Buffer holding v.
//
// v may be any Go numeric type or a string (stored as TypeString). int and
// uint are stored as TypeInt64 and TypeUInt64. A Buffer is returned as is and
// a typed slice is wrapped with Of.
func Scalar(v any) (Buffer, error) {
	switch x := v.(type) {
	case Buffer:
		return x, nil
	case int8:
		return Of([]int8{x}), nil
	case int16:
		return Of([]int16{x}), nil
	case int32:
		return Of([]int32{x}), nil
	case int64:
		return Of([]int64{x}), nil
	case int:
		return Of([]int64{int64(x)}), nil
	case uint8:
		return Of([]uint8{x}), nil
	case uint16:
		return Of([]uint16{x}), nil
	case uint32:
		return Of([]uint32{x}), nil
	case uint64:
		return Of([]uint64{x}), nil
	case uint:
		return Of([]uint64{uint64(x)}), nil
	case float32:
		return Of([]float32{x}), nil
	case float64:
		return Of([]float64{x}), nil
	case string:
		return Of([]string{x}), nil
	case []int8:
		return Of(x), nil
	case []int16:
		return Of(x), nil
	case []int32:
		return Of(x), nil
	case []int64:
		return Of(x), nil
	case []uint8:
		return Of(x), nil
	case []uint16:
		return Of(x), nil
	case []uint32:
		return Of(x), nil
	case []uint64:
		return Of(x), nil
	case []float32:
		return Of(x), nil
	case []float64:
		return Of(x), nil
	case []string:
		return Of(x), nil
	default:
		return Buffer{}, fmt.Errorf("%w: unsupported value type %T", errs.ErrType, v)
	}
}

// Elements returns the typed payload of b.
// The returned slice shares memory with b.
func Elements[T Element](b Buffer) ([]T, bool) {
	s, ok := b.data.([]T)
	return s, ok
}

// Type returns the element type of the buffer.
func (b Buffer) Type() format.TypeID {
	return b.typ
}

// Data returns the typed slice backing the buffer, or nil for the zero Buffer.
func (b Buffer) Data() any {
	return b.data
}

// Len returns the number of elements in the buffer.
func (b Buffer) Len() int {
	switch s := b.data.(type) {
	case []uint8:
		return len(s)
	case []int8:
		return len(s)
	case []int16:
		return len(s)
	case []int32:
		return len(s)
	case []int64:
		return len(s)
	case []uint16:
		return len(s)
	case []uint32:
		return len(s)
	case []uint64:
		return len(s)
	case []float32:
		return len(s)
	case []float64:
		return len(s)
	case []string:
		return len(s)
	default:
		return 0
	}
}

// IsEmpty reports whether the buffer holds no elements.
func (b Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// IsValid reports whether the buffer has a registered type.
func (b Buffer) IsValid() bool {
	return b.typ.Valid() && b.data != nil
}

// Slice returns the elements [i:j) as a view sharing memory with b.
// It panics if the indices are out of range, like slicing a Go slice.
func (b Buffer) Slice(i, j int) Buffer {
	if b.data == nil {
		if i == 0 && j == 0 {
			return b
		}
		panic("values: Slice of empty buffer")
	}

	return Buffer{typ: b.typ, data: reflect.ValueOf(b.data).Slice(i, j).Interface()}
}

// pick returns a new buffer holding the elements of b at idx, in order.
func pick(b Buffer, idx []int) Buffer {
	if b.data == nil {
		return b
	}

	v := reflect.ValueOf(b.data)
	out := reflect.MakeSlice(v.Type(), len(idx), len(idx))
	for i, k := range idx {
		out.Index(i).Set(v.Index(k))
	}

	return Buffer{typ: b.typ, data: out.Interface()}
}

// Clone returns a deep copy of the buffer.
func (b Buffer) Clone() Buffer {
	if b.data == nil {
		return b
	}

	v := reflect.ValueOf(b.data)
	out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
	reflect.Copy(out, v)

	return Buffer{typ: b.typ, data: out.Interface()}
}

// Append returns a new buffer holding the elements of b followed by those of other.
// The zero Buffer takes the type of other.
//
// Returns errs.ErrType if the element types differ.
func (b Buffer) Append(other Buffer) (Buffer, error) {
	if b.data == nil {
		return other.Clone(), nil
	}
	if other.data == nil {
		return b.Clone(), nil
	}
	if b.typ != other.typ {
		return Buffer{}, fmt.Errorf("%w: cannot append %s values to %s buffer", errs.ErrType, other.typ, b.typ)
	}

	total := b.Len() + other.Len()
	if err := checkCount(total); err != nil {
		return Buffer{}, err
	}

	v := reflect.ValueOf(b.data)
	out := reflect.MakeSlice(v.Type(), 0, total)
	out = reflect.AppendSlice(out, v)
	out = reflect.AppendSlice(out, reflect.ValueOf(other.data))

	return Buffer{typ: b.typ, data: out.Interface()}, nil
}

// Grow returns b extended by n elements set to the default fill of its type.
//
// Growth is amortized like append: the result may share memory with b, so
// views taken from b before the call must not be used afterwards.
func Grow(b Buffer, n int) (Buffer, error) {
	if n < 0 || n > MaxElements-b.Len() {
		return Buffer{}, fmt.Errorf("%w: cannot grow %d elements by %d", errs.ErrAlloc, b.Len(), n)
	}
	if b.data == nil {
		return NewFilled(b.typ, n, nil)
	}

	v := reflect.ValueOf(b.data)
	old := v.Len()
	out := reflect.AppendSlice(v, reflect.MakeSlice(v.Type(), n, n))
	grown := Buffer{typ: b.typ, data: out.Interface()}

	if err := Fill(grown.Slice(old, old+n), nil); err != nil {
		return Buffer{}, err
	}

	return grown, nil
}

// Equal reports whether b and other have the same type and elements.
// NaN elements compare equal to NaN.
func (b Buffer) Equal(other Buffer) bool {
	if b.typ != other.typ || b.Len() != other.Len() {
		return false
	}

	sign, _, err := Compare(b, other, b.Len(), nil)

	return err == nil && sign == 0
}

// Float64 returns element i converted to float64.
// The second result is false for string buffers or an out of range index.
func (b Buffer) Float64(i int) (float64, bool) {
	if i < 0 || i >= b.Len() {
		return 0, false
	}

	at, ok := numReader(b.data)
	if !ok {
		return 0, false
	}

	return at(i).float(), true
}

// String renders the buffer with FormatText defaults.
func (b Buffer) String() string {
	return FormatText(b)
}

func checkCount(n int) error {
	if n < 0 || n > MaxElements {
		return fmt.Errorf("%w: cannot allocate %d elements", errs.ErrAlloc, n)
	}

	return nil
}

func makeSlice(t format.TypeID, n int) any {
	switch t {
	case format.TypeChar, format.TypeUByte:
		return make([]uint8, n)
	case format.TypeByte:
		return make([]int8, n)
	case format.TypeShort:
		return make([]int16, n)
	case format.TypeInt:
		return make([]int32, n)
	case format.TypeFloat:
		return make([]float32, n)
	case format.TypeDouble:
		return make([]float64, n)
	case format.TypeUShort:
		return make([]uint16, n)
	case format.TypeUInt:
		return make([]uint32, n)
	case format.TypeInt64:
		return make([]int64, n)
	case format.TypeUInt64:
		return make([]uint64, n)
	case format.TypeString:
		return make([]string, n)
	default:
		return nil
	}
}

func sliceMatches(t format.TypeID, data any) bool {
	switch data.(type) {
	case []uint8:
		return t == format.TypeChar || t == format.TypeUByte
	case []int8:
		return t == format.TypeByte
	case []int16:
		return t == format.TypeShort
	case []int32:
		return t == format.TypeInt
	case []float32:
		return t == format.TypeFloat
	case []float64:
		return t == format.TypeDouble
	case []uint16:
		return t == format.TypeUShort
	case []uint32:
		return t == format.TypeUInt
	case []int64:
		return t == format.TypeInt64
	case []uint64:
		return t == format.TypeUInt64
	case []string:
		return t == format.TypeString
	default:
		return false
	}
}

func typeFor[T Element]() format.TypeID {
	var zero T
	switch any(zero).(type) {
	case int8:
		return format.TypeByte
	case int16:
		return format.TypeShort
	case int32:
		return format.TypeInt
	case int64:
		return format.TypeInt64
	case uint8:
		return format.TypeUByte
	case uint16:
		return format.TypeUShort
	case uint32:
		return format.TypeUInt
	case uint64:
		return format.TypeUInt64
	case float32:
		return format.TypeFloat
	case float64:
		return format.TypeDouble
	default:
		return format.TypeString
	}
}
