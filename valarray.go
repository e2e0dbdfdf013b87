package ccl

import "math"

// Number constrains ValArray's element type to the built-in numeric kinds.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// ValArray adds element-wise arithmetic and mask-producing comparisons to a
// Vector by embedding it directly rather than duplicating the engine.
type ValArray[T Number] struct {
	*Vector[T]
}

// NewValArray creates an empty ValArray with the given initial capacity.
func NewValArray[T Number](capacity int) *ValArray[T] {
	return &ValArray[T]{Vector: NewVector[T](capacity)}
}

func isFloat[T Number]() bool {
	var z T
	switch any(z).(type) {
	case float32, float64:
		return true
	}
	return false
}

func (va *ValArray[T]) elementwise(op string, other *ValArray[T], fn func(a, b T) (T, error)) (*ValArray[T], error) {
	if va.Size() != other.Size() {
		return nil, reportError(va.hook, op, Incompatible, nil)
	}
	out := NewValArray[T](va.Size())
	for i := 0; i < va.Size(); i++ {
		a, _ := va.GetElement(i)
		b, _ := other.GetElement(i)
		r, err := fn(*a, *b)
		if err != nil {
			return nil, reportError(va.hook, op, DivisionByZero, err)
		}
		out.buf = append(out.buf, r)
	}
	out.count = out.Size()
	return out, nil
}

// SumTo returns the element-wise sum of va and other.
func (va *ValArray[T]) SumTo(other *ValArray[T]) (*ValArray[T], error) {
	return va.elementwise("ValArray.SumTo", other, func(a, b T) (T, error) { return a + b, nil })
}

// SubtractFrom returns the element-wise difference va - other.
func (va *ValArray[T]) SubtractFrom(other *ValArray[T]) (*ValArray[T], error) {
	return va.elementwise("ValArray.SubtractFrom", other, func(a, b T) (T, error) { return a - b, nil })
}

// MultiplyWith returns the element-wise product va * other.
func (va *ValArray[T]) MultiplyWith(other *ValArray[T]) (*ValArray[T], error) {
	return va.elementwise("ValArray.MultiplyWith", other, func(a, b T) (T, error) { return a * b, nil })
}

// DivideBy returns the element-wise quotient va / other. Any zero divisor in
// an integer ValArray fails the whole operation with DivisionByZero; float
// ValArrays follow IEEE semantics (Inf/NaN) instead.
func (va *ValArray[T]) DivideBy(other *ValArray[T]) (*ValArray[T], error) {
	float := isFloat[T]()
	return va.elementwise("ValArray.DivideBy", other, func(a, b T) (T, error) {
		if b == 0 && !float {
			return 0, errDivByZero
		}
		return a / b, nil
	})
}

var errDivByZero = reportErrSentinel()

func reportErrSentinel() error { return &Error{Kind: DivisionByZero, Operation: "ValArray"} }

// scalar helpers: SumScalar, SubtractScalar, MultiplyScalar, DivideScalar
// apply a single value against every element.

// SumScalar adds s to every element, returning a new ValArray.
func (va *ValArray[T]) SumScalar(s T) *ValArray[T] { return va.mapScalar(func(a T) T { return a + s }) }

// SubtractScalar subtracts s from every element.
func (va *ValArray[T]) SubtractScalar(s T) *ValArray[T] {
	return va.mapScalar(func(a T) T { return a - s })
}

// MultiplyScalar multiplies every element by s.
func (va *ValArray[T]) MultiplyScalar(s T) *ValArray[T] {
	return va.mapScalar(func(a T) T { return a * s })
}

// DivideScalar divides every element by s, failing with DivisionByZero for
// integer ValArrays when s is zero.
func (va *ValArray[T]) DivideScalar(s T) (*ValArray[T], error) {
	if s == 0 && !isFloat[T]() {
		return nil, reportError(va.hook, "ValArray.DivideScalar", DivisionByZero, nil)
	}
	return va.mapScalar(func(a T) T { return a / s }), nil
}

func (va *ValArray[T]) mapScalar(fn func(T) T) *ValArray[T] {
	out := NewValArray[T](va.Size())
	for i := 0; i < va.Size(); i++ {
		p, _ := va.GetElement(i)
		out.buf = append(out.buf, fn(*p))
	}
	out.count = out.Size()
	return out
}

// CompareEqual writes 1 where va[i] == other[i], 0 elsewhere, into an
// optional maskOut (allocating one if nil), and returns it.
func (va *ValArray[T]) CompareEqual(other *ValArray[T], maskOut *Mask) (*Mask, error) {
	if va.Size() != other.Size() {
		return nil, reportError(va.hook, "ValArray.CompareEqual", Incompatible, nil)
	}
	if maskOut == nil {
		maskOut = NewMask(va.Size())
	} else if maskOut.Len() != va.Size() {
		return nil, reportError(va.hook, "ValArray.CompareEqual", BadMask, nil)
	}
	for i := 0; i < va.Size(); i++ {
		a, _ := va.GetElement(i)
		b, _ := other.GetElement(i)
		maskOut.Set(i, *a == *b)
	}
	return maskOut, nil
}

// FCompare compares va and other for floating-point element types using
// Knuth's relative-epsilon rule: |a-b| <= eps * max(|a|, |b|).
func (va *ValArray[T]) FCompare(other *ValArray[T], eps float64, maskOut *Mask) (*Mask, error) {
	if va.Size() != other.Size() {
		return nil, reportError(va.hook, "ValArray.FCompare", Incompatible, nil)
	}
	if maskOut == nil {
		maskOut = NewMask(va.Size())
	} else if maskOut.Len() != va.Size() {
		return nil, reportError(va.hook, "ValArray.FCompare", BadMask, nil)
	}
	for i := 0; i < va.Size(); i++ {
		ap, _ := va.GetElement(i)
		bp, _ := other.GetElement(i)
		a, b := float64(*ap), float64(*bp)
		diff := math.Abs(a - b)
		scale := math.Max(math.Abs(a), math.Abs(b))
		maskOut.Set(i, diff <= eps*scale)
	}
	return maskOut, nil
}
