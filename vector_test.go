package ccl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorPushPop(t *testing.T) {
	v := NewVector[int](0)
	require.NoError(t, v.PushBack(1))
	require.NoError(t, v.PushBack(2))
	require.NoError(t, v.PushFront(0))
	assert.Equal(t, 3, v.Size())

	first, err := v.PopFront()
	require.NoError(t, err)
	assert.Equal(t, 0, first)

	last, err := v.PopBack()
	require.NoError(t, err)
	assert.Equal(t, 2, last)
	assert.Equal(t, 1, v.Size())
}

func TestVectorGrowth(t *testing.T) {
	v := NewVector[int](0)
	for i := 0; i < 100; i++ {
		require.NoError(t, v.PushBack(i))
	}
	assert.Equal(t, 100, v.Size())
	for i := 0; i < 100; i++ {
		p, err := v.GetElement(i)
		require.NoError(t, err)
		assert.Equal(t, i, *p)
	}
}

func TestVectorInsertAtAndErase(t *testing.T) {
	v := NewVector[string](0)
	require.NoError(t, v.Add("a"))
	require.NoError(t, v.Add("c"))
	require.NoError(t, v.InsertAt(1, "b"))

	p, err := v.GetElement(1)
	require.NoError(t, err)
	assert.Equal(t, "b", *p)

	require.NoError(t, v.EraseAt(0))
	p, err = v.GetElement(0)
	require.NoError(t, err)
	assert.Equal(t, "b", *p)

	require.Error(t, v.InsertAt(100, "z"))
}

func TestVectorInsertAtSparse(t *testing.T) {
	v := NewVector[int](0)
	require.NoError(t, v.InsertAtSparse(3, 42, -1))
	assert.Equal(t, 4, v.Size())
	p, err := v.GetElement(3)
	require.NoError(t, err)
	assert.Equal(t, 42, *p)
	for i := 0; i < 3; i++ {
		p, err := v.GetElement(i)
		require.NoError(t, err)
		assert.Equal(t, -1, *p)
	}
}

func TestVectorIndexOfAndErase(t *testing.T) {
	v := NewVector[int](0)
	for _, e := range []int{1, 2, 3, 2, 1} {
		require.NoError(t, v.Add(e))
	}
	idx, ok := v.IndexOf(2)
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	n := v.EraseAll(2)
	assert.Equal(t, 2, n)
	assert.False(t, v.Contains(2))
}

func TestVectorRotate(t *testing.T) {
	v := NewVector[int](0)
	for _, e := range []int{1, 2, 3, 4, 5} {
		require.NoError(t, v.Add(e))
	}
	require.NoError(t, v.RotateLeft(2))
	got := vectorValues(t, v)
	assert.Equal(t, []int{3, 4, 5, 1, 2}, got)

	require.NoError(t, v.RotateRight(2))
	got = vectorValues(t, v)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
}

func TestVectorSort(t *testing.T) {
	v := NewVector[int](0)
	for _, e := range []int{5, 3, 4, 1, 2} {
		require.NoError(t, v.Add(e))
	}
	assert.ErrorIs(t, v.Sort(), &Error{Kind: NotImplemented})

	v.SetCompareFunc(func(a, b int) int { return a - b })
	require.NoError(t, v.Sort())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, vectorValues(t, v))
}

func TestVectorSelect(t *testing.T) {
	v := NewVector[int](0)
	for _, e := range []int{1, 2, 3, 4, 5} {
		require.NoError(t, v.Add(e))
	}
	m := NewMask(5)
	m.Set(1, true)
	m.Set(3, true)

	cp, err := v.SelectCopy(m)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, vectorValues(t, cp))

	require.NoError(t, v.Select(m))
	assert.Equal(t, []int{2, 4}, vectorValues(t, v))
}

func TestVectorSliceView(t *testing.T) {
	v := NewVector[int](0)
	for _, e := range []int{0, 1, 2, 3, 4, 5} {
		require.NoError(t, v.Add(e))
	}
	require.NoError(t, v.SetSlice(0, 3, 2))
	assert.Equal(t, []int{0, 2, 4}, vectorValues(t, v))
	v.ResetSlice()
	assert.Equal(t, 6, v.Size())
}

func TestVectorReadOnlyRejectsWrite(t *testing.T) {
	v := NewVector[int](0)
	require.NoError(t, v.Add(1))
	v.SetFlags(v.GetFlags().Set(ReadOnly))
	assert.Error(t, v.Add(2))
}

func TestVectorIteratorInvalidationOnMutation(t *testing.T) {
	v := NewVector[int](0)
	for _, e := range []int{1, 2, 3} {
		require.NoError(t, v.Add(e))
	}
	it := v.NewIterator()
	_, ok := it.GetFirst()
	require.True(t, ok)

	require.NoError(t, v.Add(4))
	_, ok = it.GetNext()
	assert.False(t, ok)
}

func TestVectorAppendCopiesSource(t *testing.T) {
	a := NewVector[int](0)
	require.NoError(t, a.Add(1))
	b := NewVector[int](0)
	require.NoError(t, b.Add(2))

	require.NoError(t, a.Append(b))
	assert.Equal(t, []int{1, 2}, vectorValues(t, a))
	assert.Equal(t, 1, b.Size(), "Append must leave its source Vector untouched")
}

func TestValArrayArithmetic(t *testing.T) {
	a := NewValArray[int](0)
	b := NewValArray[int](0)
	for _, e := range []int{1, 2, 3} {
		require.NoError(t, a.Add(e))
	}
	for _, e := range []int{10, 20, 30} {
		require.NoError(t, b.Add(e))
	}

	sum, err := a.SumTo(b)
	require.NoError(t, err)
	assert.Equal(t, []int{11, 22, 33}, vectorValues(t, sum.Vector))

	_, err = a.DivideBy(NewValArray[int](0))
	assert.ErrorIs(t, err, &Error{Kind: Incompatible})
}

func TestValArrayDivideByZero(t *testing.T) {
	a := NewValArray[int](0)
	require.NoError(t, a.Add(10))
	zero := NewValArray[int](0)
	require.NoError(t, zero.Add(0))

	_, err := a.DivideBy(zero)
	require.Error(t, err)
}

func TestValArrayFCompare(t *testing.T) {
	a := NewValArray[float64](0)
	b := NewValArray[float64](0)
	require.NoError(t, a.Add(1.0000001))
	require.NoError(t, b.Add(1.0000002))

	mask, err := a.FCompare(b, 1e-5, nil)
	require.NoError(t, err)
	assert.True(t, mask.Get(0))
}

func vectorValues[T any](t *testing.T, v *Vector[T]) []T {
	t.Helper()
	out := make([]T, 0, v.Size())
	it := v.NewIterator()
	for val, ok := it.GetFirst(); ok; val, ok = it.GetNext() {
		out = append(out, val)
	}
	return out
}
