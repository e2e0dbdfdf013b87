package ccl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intCompare(a, b int) int { return a - b }

func TestAVLTreeAddAndFind(t *testing.T) {
	tr := NewAVLTree[int](intCompare)
	for _, e := range []int{5, 3, 8, 1, 4, 7, 9} {
		require.NoError(t, tr.Add(e))
	}
	assert.Equal(t, 7, tr.Size())
	for _, e := range []int{5, 3, 8, 1, 4, 7, 9} {
		assert.True(t, tr.Find(e))
	}
	assert.False(t, tr.Find(100))
}

func TestAVLTreeAddDuplicateIsNoop(t *testing.T) {
	tr := NewAVLTree[int](intCompare)
	require.NoError(t, tr.Add(1))
	require.NoError(t, tr.Add(1))
	assert.Equal(t, 1, tr.Size())
}

func TestAVLTreeStaysBalanced(t *testing.T) {
	tr := NewAVLTree[int](intCompare)
	for i := 0; i < 1000; i++ {
		require.NoError(t, tr.Add(i))
	}
	assert.Equal(t, 1000, tr.Size())

	var height func(n *avlNode[int]) int
	height = func(n *avlNode[int]) int {
		if n == nil {
			return 0
		}
		l, r := height(n.left), height(n.right)
		if l > r {
			return l + 1
		}
		return r + 1
	}
	h := height(tr.root)
	assert.LessOrEqual(t, h, 20, "a balanced 1000-element AVL tree should stay well under O(n) height")
}

func TestAVLTreeErase(t *testing.T) {
	tr := NewAVLTree[int](intCompare)
	for _, e := range []int{5, 3, 8, 1, 4, 7, 9} {
		require.NoError(t, tr.Add(e))
	}
	require.NoError(t, tr.Erase(3))
	assert.False(t, tr.Find(3))
	assert.Equal(t, 6, tr.Size())

	assert.ErrorIs(t, tr.Erase(3), &Error{Kind: NotFound})
}

func TestAVLTreeEraseInternalWithTwoChildren(t *testing.T) {
	tr := NewAVLTree[int](intCompare)
	for _, e := range []int{5, 3, 8, 1, 4, 7, 9} {
		require.NoError(t, tr.Add(e))
	}
	require.NoError(t, tr.Erase(5))
	assert.False(t, tr.Find(5))
	assert.Equal(t, 6, tr.Size())
	for _, e := range []int{3, 8, 1, 4, 7, 9} {
		assert.True(t, tr.Find(e))
	}
}

func TestAVLTreeApplyIsInOrder(t *testing.T) {
	tr := NewAVLTree[int](intCompare)
	for _, e := range []int{5, 3, 8, 1, 4, 7, 9} {
		require.NoError(t, tr.Add(e))
	}
	var got []int
	n := tr.Apply(func(v int, _ any) bool {
		got = append(got, v)
		return true
	}, nil)
	assert.Equal(t, 7, n)
	assert.Equal(t, []int{1, 3, 4, 5, 7, 8, 9}, got)
}

func TestAVLTreeApplyStopsEarly(t *testing.T) {
	tr := NewAVLTree[int](intCompare)
	for _, e := range []int{1, 2, 3, 4, 5} {
		require.NoError(t, tr.Add(e))
	}
	n := tr.Apply(func(v int, _ any) bool {
		return v < 3
	}, nil)
	assert.Equal(t, 3, n)
}

func TestMergeAVL(t *testing.T) {
	left := NewAVLTree[int](intCompare)
	for _, e := range []int{1, 2, 3} {
		require.NoError(t, left.Add(e))
	}
	right := NewAVLTree[int](intCompare)
	for _, e := range []int{7, 8, 9} {
		require.NoError(t, right.Add(e))
	}
	merged := MergeAVL(left, right, 5, intCompare)
	assert.Equal(t, 7, merged.Size())
	for _, e := range []int{1, 2, 3, 5, 7, 8, 9} {
		assert.True(t, merged.Find(e))
	}
}

func TestAVLTreeCopyAndEqual(t *testing.T) {
	tr := NewAVLTree[int](intCompare)
	for _, e := range []int{5, 3, 8} {
		require.NoError(t, tr.Add(e))
	}
	cp := tr.Copy()
	assert.True(t, tr.Equal(cp))

	require.NoError(t, cp.Add(100))
	assert.False(t, tr.Equal(cp))
}

func TestAVLTreeIteratorInOrder(t *testing.T) {
	tr := NewAVLTree[int](intCompare)
	for _, e := range []int{5, 3, 8, 1, 4, 7, 9} {
		require.NoError(t, tr.Add(e))
	}
	it := tr.NewIterator()
	var got []int
	for v, ok := it.GetFirst(); ok; v, ok = it.GetNext() {
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 3, 4, 5, 7, 8, 9}, got)
}

func TestAVLTreeIteratorInvalidationOnMutation(t *testing.T) {
	tr := NewAVLTree[int](intCompare)
	require.NoError(t, tr.Add(1))
	it := tr.NewIterator()
	_, ok := it.GetFirst()
	require.True(t, ok)

	require.NoError(t, tr.Add(2))
	_, ok = it.GetNext()
	assert.False(t, ok)
}

func TestAVLTreeClear(t *testing.T) {
	tr := NewAVLTree[int](intCompare)
	for _, e := range []int{1, 2, 3} {
		require.NoError(t, tr.Add(e))
	}
	tr.Clear()
	assert.Equal(t, 0, tr.Size())
	assert.False(t, tr.Find(1))
}
