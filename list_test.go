package ccl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPushPop(t *testing.T) {
	l := NewList[int]()
	require.NoError(t, l.PushBack(1))
	require.NoError(t, l.PushBack(2))
	require.NoError(t, l.PushFront(0))
	assert.Equal(t, 3, l.Size())

	first, err := l.PopFront()
	require.NoError(t, err)
	assert.Equal(t, 0, first)

	last, err := l.PopBack()
	require.NoError(t, err)
	assert.Equal(t, 2, last)
	assert.Equal(t, 1, l.Size())

	_, err = NewList[int]().PopFront()
	assert.ErrorIs(t, err, &Error{Kind: NotFound})
}

func TestListInsertAtAndEraseAt(t *testing.T) {
	l := NewList[string]()
	require.NoError(t, l.Add("a"))
	require.NoError(t, l.Add("c"))
	require.NoError(t, l.InsertAt(1, "b"))
	assert.Equal(t, listValues(t, l), []string{"a", "b", "c"})

	require.NoError(t, l.EraseAt(0))
	assert.Equal(t, listValues(t, l), []string{"b", "c"})

	assert.Error(t, l.InsertAt(100, "z"))
	assert.Error(t, l.EraseAt(100))
}

func TestListGetElementAndReplaceAt(t *testing.T) {
	l := NewList[int]()
	for _, e := range []int{1, 2, 3} {
		require.NoError(t, l.Add(e))
	}
	v, err := l.GetElement(1)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	require.NoError(t, l.ReplaceAt(1, 99))
	v, err = l.GetElement(1)
	require.NoError(t, err)
	assert.Equal(t, 99, v)
}

func TestListIndexOfContainsErase(t *testing.T) {
	l := NewList[int]()
	for _, e := range []int{1, 2, 3, 2, 1} {
		require.NoError(t, l.Add(e))
	}
	idx, ok := l.IndexOf(2)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.True(t, l.Contains(2))

	n := l.EraseAll(2)
	assert.Equal(t, 2, n)
	assert.False(t, l.Contains(2))

	assert.ErrorIs(t, l.Erase(42), &Error{Kind: NotFound})
}

func TestListClear(t *testing.T) {
	l := NewList[int]()
	for _, e := range []int{1, 2, 3} {
		require.NoError(t, l.Add(e))
	}
	l.Clear()
	assert.Equal(t, 0, l.Size())
	_, err := l.GetElement(0)
	assert.Error(t, err)
}

func TestListSplice(t *testing.T) {
	l := NewList[int]()
	for _, e := range []int{1, 2, 3} {
		require.NoError(t, l.Add(e))
	}
	donor := NewList[int]()
	for _, e := range []int{10, 20} {
		require.NoError(t, donor.Add(e))
	}
	pivot := l.nodeAt(1)
	require.NoError(t, l.Splice(pivot, donor, -1))
	assert.Equal(t, []int{1, 10, 20, 2, 3}, listValues(t, l))
	assert.Equal(t, 0, donor.Size())
}

func TestListSplitAfter(t *testing.T) {
	l := NewList[int]()
	for _, e := range []int{1, 2, 3, 4, 5} {
		require.NoError(t, l.Add(e))
	}
	pivot := l.nodeAt(1)
	tail := l.SplitAfter(pivot)
	assert.Equal(t, []int{1, 2}, listValues(t, l))
	assert.Equal(t, []int{3, 4, 5}, listValues(t, tail))
}

func TestListRotate(t *testing.T) {
	l := NewList[int]()
	for _, e := range []int{1, 2, 3, 4, 5} {
		require.NoError(t, l.Add(e))
	}
	require.NoError(t, l.RotateLeft(2))
	assert.Equal(t, []int{3, 4, 5, 1, 2}, listValues(t, l))

	require.NoError(t, l.RotateRight(2))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, listValues(t, l))
}

func TestListSort(t *testing.T) {
	l := NewList[int]()
	for _, e := range []int{5, 3, 4, 1, 2} {
		require.NoError(t, l.Add(e))
	}
	assert.ErrorIs(t, l.Sort(), &Error{Kind: NotImplemented})

	l.SetCompareFunc(func(a, b int) int { return a - b })
	require.NoError(t, l.Sort())
	assert.Equal(t, []int{1, 2, 3, 4, 5}, listValues(t, l))
}

func TestListSelect(t *testing.T) {
	l := NewList[int]()
	for _, e := range []int{1, 2, 3, 4, 5} {
		require.NoError(t, l.Add(e))
	}
	m := NewMask(5)
	m.Set(1, true)
	m.Set(3, true)

	cp, err := l.SelectCopy(m)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, listValues(t, cp))

	require.NoError(t, l.Select(m))
	assert.Equal(t, []int{2, 4}, listValues(t, l))
}

func TestListRemoveRange(t *testing.T) {
	l := NewList[int]()
	for _, e := range []int{1, 2, 3, 4, 5} {
		require.NoError(t, l.Add(e))
	}
	require.NoError(t, l.RemoveRange(1, 3))
	assert.Equal(t, []int{1, 4, 5}, listValues(t, l))
}

func TestListAppendMovesSource(t *testing.T) {
	a := NewList[int]()
	require.NoError(t, a.Add(1))
	b := NewList[int]()
	require.NoError(t, b.Add(2))

	require.NoError(t, a.Append(b))
	assert.Equal(t, []int{1, 2}, listValues(t, a))
	assert.Equal(t, 0, b.Size(), "List.Append must empty its source, unlike Vector.Append")
}

func TestListCopyAndEqual(t *testing.T) {
	l := NewList[int]()
	for _, e := range []int{1, 2, 3} {
		require.NoError(t, l.Add(e))
	}
	cp := l.Copy()
	assert.True(t, l.Equal(cp))

	require.NoError(t, cp.Add(4))
	assert.False(t, l.Equal(cp))
}

func TestListIteratorInvalidationOnMutation(t *testing.T) {
	l := NewList[int]()
	for _, e := range []int{1, 2, 3} {
		require.NoError(t, l.Add(e))
	}
	it := l.NewIterator()
	_, ok := it.GetFirst()
	require.True(t, ok)

	require.NoError(t, l.Add(4))
	_, ok = it.GetNext()
	assert.False(t, ok)
}

func TestListIteratorBidirectional(t *testing.T) {
	l := NewList[int]()
	for _, e := range []int{1, 2, 3} {
		require.NoError(t, l.Add(e))
	}
	it := l.NewIterator()
	v, ok := it.GetLast()
	require.True(t, ok)
	assert.Equal(t, 3, v)

	v, ok = it.GetPrevious()
	require.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = it.Seek(0)
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestListUseHeapRejectsNonEmpty(t *testing.T) {
	l := NewList[int]()
	require.NoError(t, l.Add(1))
	p := NewPool()
	assert.ErrorIs(t, l.UseHeap(p), &Error{Kind: NotEmpty})
}

func listValues[T any](t *testing.T, l *List[T]) []T {
	t.Helper()
	out := make([]T, 0, l.Size())
	it := l.NewIterator()
	for val, ok := it.GetFirst(); ok; val, ok = it.GetNext() {
		out = append(out, val)
	}
	return out
}
