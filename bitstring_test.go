package ccl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitStringSetGet(t *testing.T) {
	b := NewBitString()
	for i := 0; i < 10; i++ {
		require.NoError(t, b.Add(i%2 == 0))
	}
	assert.Equal(t, 10, b.Size())
	for i := 0; i < 10; i++ {
		v, err := b.Get(i)
		require.NoError(t, err)
		assert.Equal(t, i%2 == 0, v)
	}

	require.NoError(t, b.Set(1, true))
	v, err := b.Get(1)
	require.NoError(t, err)
	assert.True(t, v)

	_, err = b.Get(100)
	assert.ErrorIs(t, err, &Error{Kind: Index})
}

func TestBitStringInsertAtAndEraseAt(t *testing.T) {
	b := NewBitString()
	for _, v := range []bool{true, true, true} {
		require.NoError(t, b.Add(v))
	}
	require.NoError(t, b.InsertAt(1, false))
	got := bitStringBits(t, b)
	assert.Equal(t, []bool{true, false, true, true}, got)

	require.NoError(t, b.EraseAt(1))
	got = bitStringBits(t, b)
	assert.Equal(t, []bool{true, true, true}, got)
}

func TestBitStringAndOrXorNot(t *testing.T) {
	a, err := StringToBitString("1100")
	require.NoError(t, err)
	b, err := StringToBitString("1010")
	require.NoError(t, err)

	and := a.And(b)
	assert.Equal(t, []bool{false, false, false, true}, bitStringBits(t, and))

	or := a.Or(b)
	assert.Equal(t, []bool{false, true, true, true}, bitStringBits(t, or))

	xor := a.Xor(b)
	assert.Equal(t, []bool{false, true, true, false}, bitStringBits(t, xor))

	not := a.Not()
	assert.Equal(t, []bool{true, true, false, false}, bitStringBits(t, not))
}

func TestBitStringShift(t *testing.T) {
	b, err := StringToBitString("0011")
	require.NoError(t, err)
	b.LeftShift(1)
	assert.Equal(t, []bool{false, true, true, false}, bitStringBits(t, b))

	b.RightShift(2)
	assert.Equal(t, []bool{true, false, false, false}, bitStringBits(t, b))
}

func TestBitStringPopulationAndBlockCount(t *testing.T) {
	b, err := StringToBitString("10110100")
	require.NoError(t, err)
	assert.Equal(t, 4, b.PopulationCount())
	assert.Equal(t, 3, b.BitBlockCount())
}

func TestStringToBitStringOrdering(t *testing.T) {
	b, err := StringToBitString("1011")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false, true}, bitStringBits(t, b))

	_, err = StringToBitString("102")
	assert.ErrorIs(t, err, &Error{Kind: BadArg})
}

func TestBitBitstr(t *testing.T) {
	text, err := StringToBitString("110101101")
	require.NoError(t, err)
	pattern, err := StringToBitString("011")
	require.NoError(t, err)

	idx := BitBitstr(text, pattern)
	assert.Greater(t, idx, 0)

	absent, err := StringToBitString("11111")
	require.NoError(t, err)
	assert.Equal(t, 0, BitBitstr(text, absent))
}

func TestBitStringToFromBitSet(t *testing.T) {
	b, err := StringToBitString("1010")
	require.NoError(t, err)
	bs := b.ToBitSet()
	back := FromBitSet(bs, b.Size())
	assert.True(t, b.Equal(back))
}

func TestBitStringCopyAndEqual(t *testing.T) {
	a, err := StringToBitString("1010")
	require.NoError(t, err)
	cp := a.Copy()
	assert.True(t, a.Equal(cp))

	require.NoError(t, cp.Set(0, !mustBit(t, cp, 0)))
	assert.False(t, a.Equal(cp))
}

func mustBit(t *testing.T, b *BitString, i int) bool {
	t.Helper()
	v, err := b.Get(i)
	require.NoError(t, err)
	return v
}

func bitStringBits(t *testing.T, b *BitString) []bool {
	t.Helper()
	out := make([]bool, b.Size())
	for i := range out {
		out[i] = mustBit(t, b, i)
	}
	return out
}
