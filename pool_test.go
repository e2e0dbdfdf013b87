package ccl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPoolAllocReturnsDistinctZeroedSlices(t *testing.T) {
	p := NewPool()
	a := p.Alloc(16)
	b := p.Alloc(32)
	for _, v := range a {
		assert.Equal(t, byte(0), v)
	}
	a[0] = 0xFF
	assert.Equal(t, byte(0), b[0], "slices drawn from the arena must not alias")
}

func TestPoolAllocBeyondBlockGrowsArena(t *testing.T) {
	p := NewPool()
	before := p.Allocated()
	p.Alloc(minBlockAlloc * 2)
	assert.Greater(t, p.Allocated(), before)
}

func TestPoolClearRetainsHeaderBlock(t *testing.T) {
	p := NewPool()
	p.Alloc(minBlockAlloc * 2)
	allocatedBeforeClear := p.Allocated()
	p.Clear()
	assert.Equal(t, allocatedBeforeClear, p.Allocated(), "Clear recycles blocks onto free lists rather than releasing them to the OS")

	buf := p.Alloc(8)
	assert.Len(t, buf, 8)
}

func TestPoolDestroyZeroesAllocated(t *testing.T) {
	p := NewPool()
	p.Alloc(64)
	p.Destroy()
	assert.Equal(t, 0, p.Allocated())
}
