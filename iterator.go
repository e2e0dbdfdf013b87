package ccl

// Iterator is the common forward/bidirectional cursor abstraction shared by
// every sequential and associative engine.
// Every method first checks the bound container's timestamp; on divergence
// it returns ok=false and raises ObjectChanged.
type Iterator interface {
	GetFirst() (v any, ok bool)
	GetNext() (v any, ok bool)
	GetPrevious() (v any, ok bool)
	GetLast() (v any, ok bool)
	GetCurrent() (v any, ok bool)
	Seek(index int) (v any, ok bool)
	// Replace writes value at the cursor and advances by direction (+1/-1);
	// if value is nil, the element under the cursor is erased instead and
	// the cursor still advances by direction.
	Replace(value any, direction int) error
}

// timestamped is implemented by every header-bearing engine so a generic
// iterator can detect structural change without type-specific plumbing.
type timestamped interface {
	Timestamp() uint64
	readOnly() bool
}

func (h *Header) readOnly() bool { return h.flags.Has(ReadOnly) }

// checkIterator returns ObjectChanged if saved no longer matches src's
// current timestamp.
func checkIterator(op string, hook Hook, src timestamped, saved uint64) error {
	if src.Timestamp() != saved {
		return reportError(hook, op, ObjectChanged, nil)
	}
	return nil
}
