package ccl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeAllocatorMallocReallocCalloc(t *testing.T) {
	a := runtimeAllocator{}
	buf := a.Malloc(4)
	assert.Len(t, buf, 4)

	grown := a.Realloc(buf, 8)
	assert.Len(t, grown, 8)

	shrunk := a.Realloc(grown, 2)
	assert.Len(t, shrunk, 2)

	zeroed := a.Calloc(4, 2)
	assert.Len(t, zeroed, 8)
}

func TestDebugAllocatorTracksLiveAllocations(t *testing.T) {
	d := NewDebugAllocator(nil, 0)
	buf := d.Malloc(16)
	assert.Equal(t, 1, d.LiveCount())

	d.Free(buf)
	assert.Equal(t, 0, d.LiveCount())
}

func TestDebugAllocatorFreeOfUntrackedPointerReports(t *testing.T) {
	d := NewDebugAllocator(nil, 0)
	var reported *Error
	SetErrorFunc(func(err *Error) { reported = err })
	defer SetErrorFunc(nil)

	foreign := make([]byte, 8)
	d.Free(foreign)
	assert.NotNil(t, reported)
	assert.Equal(t, BadPointer, reported.Kind)
}

func TestDebugAllocatorRedZoneSurvivesRealloc(t *testing.T) {
	d := NewDebugAllocator(nil, 4)
	buf := d.Malloc(8)
	for i := range buf {
		buf[i] = 0x42
	}
	grown := d.Realloc(buf, 16)
	assert.Len(t, grown, 16)
	for i := 0; i < 8; i++ {
		assert.Equal(t, byte(0x42), grown[i])
	}
	tail := grown[len(grown):cap(grown)]
	assert.Len(t, tail, 4)
	for _, b := range tail {
		assert.Equal(t, byte(0xAA), b)
	}
}

func TestCurrentAllocatorDefaultsToRuntime(t *testing.T) {
	original := CurrentAllocator()
	defer SetCurrentAllocator(original)

	SetCurrentAllocator(nil)
	_, ok := CurrentAllocator().(runtimeAllocator)
	assert.True(t, ok)
}
