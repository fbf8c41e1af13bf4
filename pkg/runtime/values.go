package runtime

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/vishnuhala/parse-and-fix/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindArray
	KindReference
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindReference:
		return "reference"
	case KindFunction:
		return "function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

// NumberValue backs every C numeric type, chars included.
type NumberValue struct {
	Val float64
}

func (v NumberValue) Kind() Kind { return KindNumber }

func Number(f float64) NumberValue { return NumberValue{Val: f} }

// Bool maps a comparison outcome onto 1 or 0.
func Bool(b bool) NumberValue {
	if b {
		return NumberValue{Val: 1}
	}
	return NumberValue{Val: 0}
}

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

//-----------------------------------------------------------------------------
// Arrays and references
//-----------------------------------------------------------------------------

// ArrayValue has a fixed length set at declaration.
type ArrayValue struct {
	Elements []Value
}

func (v *ArrayValue) Kind() Kind { return KindArray }

// NewArray returns an array of n zeroes.
func NewArray(n int) *ArrayValue {
	elems := make([]Value, n)
	for i := range elems {
		elems[i] = Number(0)
	}
	return &ArrayValue{Elements: elems}
}

// ReferenceValue is what `&name` or `&arr[i]` evaluates to. Exactly one of
// Frame or Array is set.
type ReferenceValue struct {
	Frame *Frame
	Name  string
	Array *ArrayValue
	Index int
}

func (v ReferenceValue) Kind() Kind { return KindReference }

// Load reads the referenced slot.
func (v ReferenceValue) Load() (Value, error) {
	if v.Array != nil {
		if v.Index < 0 || v.Index >= len(v.Array.Elements) {
			return nil, fmt.Errorf("reference to index %d outside array of length %d", v.Index, len(v.Array.Elements))
		}
		return v.Array.Elements[v.Index], nil
	}
	if val, ok := v.Frame.Get(v.Name); ok {
		return val, nil
	}
	return Number(0), nil
}

// Store writes the referenced slot.
func (v ReferenceValue) Store(val Value) error {
	if v.Array != nil {
		if v.Index < 0 || v.Index >= len(v.Array.Elements) {
			return fmt.Errorf("reference to index %d outside array of length %d", v.Index, len(v.Array.Elements))
		}
		v.Array.Elements[v.Index] = val
		return nil
	}
	v.Frame.Define(v.Name, val)
	return nil
}

//-----------------------------------------------------------------------------
// Functions
//-----------------------------------------------------------------------------

type FunctionValue struct {
	Definition *ast.FunctionDefinition
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

//-----------------------------------------------------------------------------
// Conversions
//-----------------------------------------------------------------------------

// FormatNumber renders integral values without a fractional part and spells
// out the IEEE specials.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Stringify renders a value the way program output shows it.
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil:
		return "0"
	case NumberValue:
		return FormatNumber(val.Val)
	case StringValue:
		return val.Val
	case *ArrayValue:
		parts := make([]string, len(val.Elements))
		for i, el := range val.Elements {
			parts[i] = Stringify(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ReferenceValue:
		if val.Array != nil {
			return fmt.Sprintf("&[%d]", val.Index)
		}
		return "&" + val.Name
	case *FunctionValue:
		return "function " + val.Definition.Name.Name
	default:
		return fmt.Sprintf("<%s>", v.Kind())
	}
}

// Truthy reports whether a value selects the true branch of a condition.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil:
		return false
	case NumberValue:
		return val.Val != 0 && !math.IsNaN(val.Val)
	case StringValue:
		return val.Val != ""
	default:
		return true
	}
}

// ToNumber coerces a value for arithmetic. Numeric strings convert; other
// strings are an error.
func ToNumber(v Value) (float64, error) {
	switch val := v.(type) {
	case nil:
		return 0, nil
	case NumberValue:
		return val.Val, nil
	case StringValue:
		f, err := strconv.ParseFloat(strings.TrimSpace(val.Val), 64)
		if err != nil {
			return 0, fmt.Errorf("string %q is not a number", val.Val)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%s value used as a number", v.Kind())
	}
}

// Equal compares values the way == does.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case StringValue:
		if bv, ok := b.(StringValue); ok {
			return av.Val == bv.Val
		}
		return false
	case *ArrayValue:
		bv, ok := b.(*ArrayValue)
		return ok && av == bv
	case ReferenceValue:
		bv, ok := b.(ReferenceValue)
		return ok && av == bv
	}
	if _, ok := b.(StringValue); ok {
		return false
	}
	x, errA := ToNumber(a)
	y, errB := ToNumber(b)
	return errA == nil && errB == nil && x == y
}
