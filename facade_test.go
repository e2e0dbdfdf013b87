package ccl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorBoxSatisfiesSequential(t *testing.T) {
	v := NewVector[int](0)
	var seq Sequential = v.AsSequential()
	require.NoError(t, seq.Add(1))
	require.NoError(t, seq.PushBack(2))
	require.NoError(t, seq.PushFront(0))
	assert.Equal(t, 3, seq.Size())

	el, err := seq.GetElement(1)
	require.NoError(t, err)
	assert.Equal(t, 1, el)

	assert.True(t, seq.Contains(2))
	idx, ok := seq.IndexOf(2)
	require.True(t, ok)
	assert.Equal(t, 2, idx)
}

func TestVectorBoxAppendRejectsMismatchedElementType(t *testing.T) {
	a := NewVector[int](0).AsSequential()
	b := NewVector[string](0).AsSequential()
	assert.ErrorIs(t, a.Append(b), &Error{Kind: Incompatible})
}

func TestListBoxSatisfiesSequential(t *testing.T) {
	l := NewList[string]()
	var seq Sequential = l.AsSequential()
	require.NoError(t, seq.Add("a"))
	require.NoError(t, seq.Add("b"))
	assert.Equal(t, 2, seq.Size())
	assert.True(t, seq.Contains("a"))
}

func TestDictBoxSatisfiesAssociative(t *testing.T) {
	d := NewDictionary[int](0)
	var assoc Associative = d.AsAssociative()
	require.NoError(t, assoc.AddKV("a", 1))
	v, err := assoc.GetElementByKey("a")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.NoError(t, assoc.Replace("a", 2))
	v, err = assoc.GetElementByKey("a")
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestDictBoxEraseIsValueBased(t *testing.T) {
	d := NewDictionary[int](0)
	box := d.AsAssociative()
	require.NoError(t, box.AddKV("a", 1))
	require.NoError(t, box.AddKV("b", 2))

	require.NoError(t, box.Erase(1))
	assert.False(t, d.ContainsKey("a"))
	assert.True(t, d.ContainsKey("b"))
}

func TestBoxedIteratorWalksInOrder(t *testing.T) {
	v := NewVector[int](0)
	for _, e := range []int{1, 2, 3} {
		require.NoError(t, v.Add(e))
	}
	box := v.AsSequential()
	it := box.NewIterator()
	var got []any
	for val, ok := it.GetFirst(); ok; val, ok = it.GetNext() {
		got = append(got, val)
	}
	assert.Equal(t, []any{1, 2, 3}, got)
}

func TestReadonlyForcesReadOnlyFlag(t *testing.T) {
	v := NewVector[int](0)
	require.NoError(t, v.Add(1))
	box := v.AsSequential()
	ro := NewReadonly(box)

	assert.True(t, ro.GetFlags().Has(ReadOnly))

	ro.SetFlags(Flags(0))
	assert.True(t, ro.GetFlags().Has(ReadOnly), "SetFlags must never clear ReadOnly on a Readonly wrapper")

	err := ro.Erase(1)
	assert.ErrorIs(t, err, &Error{Kind: ReadOnly})
	assert.Equal(t, 1, ro.Size(), "a mutation promoted through the embedded Container must actually fail")
	assert.True(t, box.GetFlags().Has(ReadOnly), "the wrapped container's own flags must carry ReadOnly, not just the wrapper's view")
}
