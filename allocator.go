package ccl

import (
	"sync"

	"go.uber.org/zap"
)

// Allocator is the vtable every container holds: {malloc, realloc, calloc,
// free}. The default simply delegates to
// Go's own runtime allocator, since Go has no notion of manual free — Free
// is kept for API symmetry with the allocators that do track memory (see
// DebugAllocator) and must tolerate a nil buffer.
type Allocator interface {
	Malloc(size int) []byte
	Realloc(buf []byte, size int) []byte
	Calloc(n, size int) []byte
	Free(buf []byte)
}

type runtimeAllocator struct{}

func (runtimeAllocator) Malloc(size int) []byte { return make([]byte, size) }

func (runtimeAllocator) Realloc(buf []byte, size int) []byte {
	if size <= cap(buf) {
		out := buf[:size]
		for i := len(buf); i < size; i++ {
			out[i] = 0
		}
		return out
	}
	out := make([]byte, size)
	copy(out, buf)
	return out
}

func (runtimeAllocator) Calloc(n, size int) []byte { return make([]byte, n*size) }

func (runtimeAllocator) Free(buf []byte) {} // nothing to do; GC-managed

// defaultAllocatorVal is the process-wide fallback installed at
// startup and returned by CurrentAllocator until SetCurrentAllocator is
// called.
var (
	allocMu             sync.Mutex
	defaultAllocatorVal Allocator = runtimeAllocator{}
)

// SetCurrentAllocator installs the process-wide default allocator, used by
// any create* call that does not receive an explicit one. Callers must
// quiesce all containers before reassigning it.
func SetCurrentAllocator(a Allocator) {
	allocMu.Lock()
	defer allocMu.Unlock()
	if a == nil {
		a = runtimeAllocator{}
	}
	defaultAllocatorVal = a
}

// CurrentAllocator returns the process-wide default allocator.
func CurrentAllocator() Allocator {
	allocMu.Lock()
	defer allocMu.Unlock()
	return defaultAllocatorVal
}

// DebugAllocator wraps another Allocator, red-zoning every allocation and
// tracking live pointers so that Free on an untracked buffer, or a corrupted
// guard region, is caught instead of silently undefined.
type DebugAllocator struct {
	mu      sync.Mutex
	under   Allocator
	live    map[*byte]int // base pointer identity -> requested user size
	redZone int
}

const defaultRedZone = 8

// NewDebugAllocator wraps under with red-zone checking. A zero redZone
// defaults to defaultRedZone guard bytes on each side of the user region.
func NewDebugAllocator(under Allocator, redZone int) *DebugAllocator {
	if under == nil {
		under = runtimeAllocator{}
	}
	if redZone <= 0 {
		redZone = defaultRedZone
	}
	return &DebugAllocator{under: under, live: make(map[*byte]int), redZone: redZone}
}

func (d *DebugAllocator) guard(n int) []byte {
	total := d.under.Malloc(n + 2*d.redZone)
	for i := 0; i < d.redZone; i++ {
		total[i] = 0xAA
		total[len(total)-1-i] = 0xAA
	}
	return total
}

func (d *DebugAllocator) track(full []byte, userSize int) []byte {
	user := full[d.redZone : d.redZone+userSize]
	if userSize == 0 {
		return user
	}
	d.mu.Lock()
	d.live[&user[0]] = userSize
	d.mu.Unlock()
	return user
}

// Malloc returns a red-zoned buffer of size bytes.
func (d *DebugAllocator) Malloc(size int) []byte {
	if size == 0 {
		return d.track(d.guard(0), 0)
	}
	return d.track(d.guard(size), size)
}

// Calloc returns a red-zoned, zeroed buffer of n*size bytes.
func (d *DebugAllocator) Calloc(n, size int) []byte {
	return d.Malloc(n * size)
}

// Realloc grows or shrinks buf, preserving its red zones and re-checking the
// old ones before copying.
func (d *DebugAllocator) Realloc(buf []byte, size int) []byte {
	if len(buf) > 0 {
		if err := d.checkGuards(buf); err != nil {
			logger.Error("red zone corrupted during realloc")
			reportError(nil, "DebugAllocator.Realloc", BufferOverflow, err)
		}
	}
	out := d.Malloc(size)
	n := size
	if len(buf) < n {
		n = len(buf)
	}
	copy(out, buf[:n])
	d.Free(buf)
	return out
}

// Free verifies buf is a tracked allocation and its guards are intact
// before releasing it, raising BadPointer or BufferOverflow otherwise.
func (d *DebugAllocator) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}
	d.mu.Lock()
	_, ok := d.live[&buf[0]]
	if ok {
		delete(d.live, &buf[0])
	}
	d.mu.Unlock()

	if !ok {
		logger.Error("free of untracked pointer")
		reportError(nil, "DebugAllocator.Free", BadPointer, nil)
		return
	}
	if err := d.checkGuards(buf); err != nil {
		logger.Error("red zone corrupted during free", zap.Error(err))
		reportError(nil, "DebugAllocator.Free", BufferOverflow, err)
	}
}

// checkGuards re-derives the full allocation around buf and verifies its
// red-zone bytes are untouched. Since Go slices don't expose the bytes
// before their start, guard verification here only inspects what remains
// reachable — any write past buf's own capacity would already have panicked
// at the language level, so this re-validates the trailing zone held within
// cap(buf) when present.
func (d *DebugAllocator) checkGuards(buf []byte) error {
	full := buf[:cap(buf)]
	tail := full[len(buf):]
	for _, b := range tail {
		if b != 0xAA {
			return reportError(nil, "DebugAllocator.checkGuards", BufferOverflow, nil)
		}
	}
	return nil
}

// LiveCount returns the number of currently tracked allocations, useful in
// tests asserting a Pool.Clear releases everything it is expected to.
func (d *DebugAllocator) LiveCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live)
}
