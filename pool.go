package ccl

import (
	"go.uber.org/zap"

	pool "github.com/libp2p/go-buffer-pool"
)

// Pool constants mirror the classic APR-style arena: allocations are
// rounded up to an 8-byte alignment boundary, free lists are indexed by
// size/boundarySize up to maxFreeIndex buckets, and any returned block
// whose bucket index exceeds maxFreeIndex goes back to the OS instead of
// being retained.
const (
	alignBoundary  = 8
	boundarySize   = 4096
	maxFreeIndex   = 19
	minBlockAlloc  = 1 << 13 // 8 KiB
)

// block is one OS-sized slab carved linearly by a bump pointer.
type block struct {
	buf        []byte
	firstAvail int
	next       *block
	index      int // bucket this block belongs to once freed
}

// Pool is the arena allocator that node-heavy containers (List, Dictionary
// entries, AVLTree nodes) charge their node payload bytes to when attached
// via UseHeap; the nodes themselves stay ordinary Go values. OS-sized blocks are
// drawn through alloc, an Allocator so the same red-zone/live-tracking
// DebugAllocator that guards individual byte-backed containers can also wrap
// the arena's own block sourcing.
type Pool struct {
	active     *block
	header     *block // the block allocated alongside the pool itself; survives Clear
	freeList   [maxFreeIndex + 1]*block
	maxFreeIdx int
	allocated  int // total bytes currently drawn from the OS
	alloc      Allocator
}

// bufferPoolAllocator implements Allocator over go-buffer-pool's sized
// buckets, the nearest ecosystem stand-in for a raw OS allocator call
// available to Go code. It is Pool's default block source, independent of
// the process-wide CurrentAllocator containers fall back to, since arena
// block sourcing is a different concern from per-value allocation.
type bufferPoolAllocator struct{}

func (bufferPoolAllocator) Malloc(size int) []byte { return pool.Get(size) }

func (bufferPoolAllocator) Calloc(n, size int) []byte {
	buf := pool.Get(n * size)
	zero(buf)
	return buf
}

func (bufferPoolAllocator) Realloc(buf []byte, size int) []byte {
	out := pool.Get(size)
	n := size
	if len(buf) < n {
		n = len(buf)
	}
	copy(out, buf[:n])
	if len(buf) > 0 {
		pool.Put(buf)
	}
	return out
}

func (bufferPoolAllocator) Free(buf []byte) {
	if len(buf) > 0 {
		pool.Put(buf)
	}
}

// NewPool creates an empty arena backed by bufferPoolAllocator.
func NewPool() *Pool { return NewPoolWithAllocator(nil) }

// NewPoolWithAllocator creates an empty arena drawing its OS-sized blocks
// from a, e.g. a DebugAllocator wrapping bufferPoolAllocator to red-zone
// arena blocks. A nil a selects bufferPoolAllocator directly.
func NewPoolWithAllocator(a Allocator) *Pool {
	if a == nil {
		a = bufferPoolAllocator{}
	}
	p := &Pool{maxFreeIdx: maxFreeIndex, alloc: a}
	p.header = p.newBlock(minBlockAlloc)
	p.active = p.header
	return p
}

func alignUp(n, boundary int) int {
	return (n + boundary - 1) &^ (boundary - 1)
}

func bucketOf(size int) int {
	return size / boundarySize
}

func (p *Pool) newBlock(size int) *block {
	b := &block{buf: p.alloc.Malloc(size)}
	p.allocated += size
	return b
}

// Alloc returns a zeroed, size-byte slice drawn from the arena: first try
// the active block, then the matching free-list bucket, finally fall back
// to a fresh OS block.
func (p *Pool) Alloc(size int) []byte {
	size = alignUp(size, alignBoundary)

	if p.active != nil && p.active.firstAvail+size <= len(p.active.buf) {
		buf := p.active.buf[p.active.firstAvail : p.active.firstAvail+size]
		p.active.firstAvail += size
		zero(buf)
		return buf
	}

	idx := bucketOf(size)
	for i := idx; i <= p.maxFreeIdx; i++ {
		if p.freeList[i] != nil {
			b := p.freeList[i]
			p.freeList[i] = b.next
			b.firstAvail = 0
			b.next = nil
			p.active = b
			if size <= len(b.buf) {
				buf := b.buf[:size]
				b.firstAvail = size
				zero(buf)
				return buf
			}
		}
	}

	blockSz := size
	if blockSz < minBlockAlloc {
		blockSz = minBlockAlloc
	}
	nb := p.newBlock(blockSz)
	nb.next = p.active
	p.active = nb
	buf := nb.buf[:size]
	nb.firstAvail = size
	zero(buf)
	return buf
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Clear retains the pool but releases every block except the one holding the
// pool header, returning retained blocks to their size-indexed free lists
// (or to the OS once maxFreeIndex is exceeded).
func (p *Pool) Clear() {
	for b := p.active; b != nil && b != p.header; {
		next := b.next
		p.recycle(b)
		b = next
	}
	p.header.firstAvail = 0
	p.active = p.header
}

func (p *Pool) recycle(b *block) {
	idx := bucketOf(len(b.buf))
	if idx > p.maxFreeIdx {
		p.alloc.Free(b.buf)
		p.allocated -= len(b.buf)
		return
	}
	b.next = p.freeList[idx]
	p.freeList[idx] = b
}

// Destroy releases every block, including the header block, back to the OS.
// The pool must not be used afterward.
func (p *Pool) Destroy() {
	for b := p.active; b != nil; {
		next := b.next
		p.alloc.Free(b.buf)
		b = next
	}
	for i := range p.freeList {
		for b := p.freeList[i]; b != nil; {
			next := b.next
			p.alloc.Free(b.buf)
			b = next
		}
		p.freeList[i] = nil
	}
	if p.header != nil && p.header != p.active {
		p.alloc.Free(p.header.buf)
	}
	logger.Debug("pool destroyed", zap.Int("bytes_outstanding", p.allocated))
	p.allocated = 0
	p.active, p.header = nil, nil
}

// Allocated reports the current total bytes drawn from the OS across all
// live blocks, used by tests asserting Clear doesn't grow total usage.
func (p *Pool) Allocated() int { return p.allocated }
