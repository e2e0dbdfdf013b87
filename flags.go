package ccl

// Flags is a bit-set carried by every container header.
type Flags uint32

const (
	// ReadOnly causes every mutating operation to fail with ReadOnly.
	ReadOnly Flags = 1 << iota
	// HasObserver routes mutations through the observer bus.
	HasObserver
	// flagUserBase is the first bit free for subclass use.
	flagUserBase Flags = 1 << 16
)

// Has reports whether every bit set in want is also set in f.
func (f Flags) Has(want Flags) bool { return f&want == want }

// Set returns f with every bit in add set.
func (f Flags) Set(add Flags) Flags { return f | add }

// Clear returns f with every bit in rm cleared.
func (f Flags) Clear(rm Flags) Flags { return f &^ rm }
