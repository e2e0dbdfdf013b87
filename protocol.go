package ccl

// Header is the universal container record every engine in this package
// embeds: element count, flag bits, timestamp (the mutation counter), error
// hook, allocator, and
// destructor. The role a C vtable pointer would play — letting a generic
// caller drive any container without knowing its concrete shape — is
// instead played by the Container interface below, which every engine
// implements via a boxing adapter (see facade.go).
type Header struct {
	count       int
	flags       Flags
	timestamp   uint64
	hook        Hook
	allocator   Allocator
	destructor  func(any)
	hasObserver bool
}

func newHeader(alloc Allocator) Header {
	if alloc == nil {
		alloc = CurrentAllocator()
	}
	return Header{allocator: alloc}
}

func (h *Header) touch() { h.timestamp++ }

func (h *Header) checkWritable(op string) error {
	if h.flags.Has(ReadOnly) {
		return reportError(h.hook, op, ReadOnly, nil)
	}
	return nil
}

func (h *Header) notify(c any, ev Event, info1, info2 any) {
	if h.flags.Has(HasObserver) {
		Notify(c, ev, info1, info2)
	}
}

// Timestamp returns the container's current mutation counter, used by
// iterators to detect OBJECT_CHANGED.
func (h *Header) Timestamp() uint64 { return h.timestamp }

// GetFlags returns the container's current flag bits.
func (h *Header) GetFlags() Flags { return h.flags }

// SetFlags replaces the container's flag bits wholesale.
func (h *Header) SetFlags(f Flags) { h.flags = f }

// SetErrorFunc overrides the per-container fallible-operation hook.
func (h *Header) SetErrorFunc(fn Hook) { h.hook = fn }

// Container is the minimum protocol every container — sequential or
// associative — exposes. An interface value in Go already carries a type
// descriptor and data pointer, exactly the {vtable, header} pair a C
// library would need a separate struct for, so Container *is* the vtable.
type Container interface {
	Size() int
	GetFlags() Flags
	SetFlags(Flags)
	Clear()
	Contains(v any) bool
	Erase(v any) error
	EraseAll(v any) int
	Apply(fn func(v any, arg any) bool, arg any) int
	Equal(other Container) bool
	Copy() Container
	SetErrorFunc(Hook)
	NewIterator() Iterator
	Save(w ByteWriter) error
}

// Sequential is the additional protocol for order-bearing containers
// (Vector, List, CircularBuffer).
type Sequential interface {
	Container
	Add(v any) error
	GetElement(index int) (any, error)
	PushBack(v any) error
	PushFront(v any) error
	PopBack() (any, error)
	PopFront() (any, error)
	InsertAt(index int, v any) error
	EraseAt(index int) error
	ReplaceAt(index int, v any) error
	IndexOf(v any) (int, bool)
	Append(other Sequential) error
}

// Associative is the additional protocol for key/value containers
// (Dictionary).
type Associative interface {
	Container
	AddKV(key string, v any) error
	GetElementByKey(key string) (any, error)
	Replace(key string, v any) error
}

// ByteWriter is the minimal stream contract Save targets; *bytes.Buffer and
// *os.File both satisfy it.
type ByteWriter interface {
	Write(p []byte) (int, error)
}

// ByteReader is the minimal stream contract Load targets.
type ByteReader interface {
	Read(p []byte) (int, error)
}
