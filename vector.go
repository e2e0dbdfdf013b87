package ccl

import "reflect"

// CompareFunc orders two elements the way AVLTree, Vector.Sort, and List.Sort
// need; negative/zero/positive follows the usual three-way comparison
// convention.
type CompareFunc[T any] func(a, b T) int

// EqualFunc reports element equality for Contains/Erase/IndexOf. Vectors
// created without one fall back to reflect.DeepEqual.
type EqualFunc[T any] func(a, b T) bool

func defaultEqual[T any](a, b T) bool { return reflect.DeepEqual(a, b) }

// sliceView is a (start, length, stride) arithmetic progression redefining
// a Vector's logical address space for traversal and bulk operations until
// ResetSlice detaches it.
type sliceView struct {
	start, length, stride int
}

// Vector is a dense, contiguous, growable engine.
type Vector[T any] struct {
	Header
	buf        []T
	slice      *sliceView
	compare    CompareFunc[T]
	equal      EqualFunc[T]
	destructor func(T)
}

// NewVector creates an empty Vector with the given initial capacity.
func NewVector[T any](capacity int) *Vector[T] {
	return &Vector[T]{
		Header: newHeader(nil),
		buf:    make([]T, 0, capacity),
		equal:  defaultEqual[T],
	}
}

// SetCompareFunc installs the ordering used by Sort.
func (v *Vector[T]) SetCompareFunc(fn CompareFunc[T]) { v.compare = fn }

// SetEqualFunc overrides the equality predicate used by Contains, Erase,
// EraseAll, and IndexOf.
func (v *Vector[T]) SetEqualFunc(fn EqualFunc[T]) {
	if fn == nil {
		fn = defaultEqual[T]
	}
	v.equal = fn
}

// SetDestructor installs a per-element finalizer invoked before an
// element's storage is reclaimed by EraseAt/Erase/Clear/Finalize.
func (v *Vector[T]) SetDestructor(fn func(T)) { v.destructor = fn }

// Size returns the number of live elements, honoring an attached Slice.
func (v *Vector[T]) Size() int {
	if v.slice != nil {
		return v.slice.length
	}
	return len(v.buf)
}

// Cap returns the backing buffer's capacity.
func (v *Vector[T]) Cap() int { return cap(v.buf) }

// growTo implements a 1.25x growth policy: when an insertion would exceed
// capacity, new capacity = old + 1 + old/4.
func growTo(old, need int) int {
	c := old
	for c < need {
		c = c + 1 + c/4
	}
	return c
}

// SetCapacity reallocates the backing buffer to exactly n slots,
// zero-filling any extra tail.
func (v *Vector[T]) SetCapacity(n int) {
	nb := make([]T, len(v.buf), n)
	copy(nb, v.buf)
	v.buf = nb
}

// ResizeTo is a strict grow: if n is not strictly larger than the current
// capacity, it does nothing.
func (v *Vector[T]) ResizeTo(n int) {
	if n > cap(v.buf) {
		v.SetCapacity(n)
	}
}

func (v *Vector[T]) ensureCapacity(need int) {
	if need > cap(v.buf) {
		v.SetCapacity(growTo(cap(v.buf), need))
	}
}

// physicalIndex maps a logical index through the attached Slice, if any.
func (v *Vector[T]) physicalIndex(i int) int {
	if v.slice == nil {
		return i
	}
	return v.slice.start + i*v.slice.stride
}

// SetSlice attaches a (start, length, stride) view. Size, GetElement,
// ReplaceAt, IndexOf/Contains, iterators, Reverse, RotateLeft/Right, Sort,
// Select/SelectCopy, Copy and Equal then work through the view; Add/PushBack,
// InsertAt, EraseAt and the Pop operations still act on the whole backing
// buffer.
func (v *Vector[T]) SetSlice(start, length, stride int) error {
	if stride == 0 {
		return reportError(v.hook, "Vector.SetSlice", BadArg, nil)
	}
	last := start + (length-1)*stride
	if start < 0 || last < 0 || last >= len(v.buf) {
		return reportError(v.hook, "Vector.SetSlice", Index, nil)
	}
	v.slice = &sliceView{start: start, length: length, stride: stride}
	return nil
}

// ResetSlice detaches any Slice view, restoring the unrestricted view.
func (v *Vector[T]) ResetSlice() { v.slice = nil }

// Add appends val at the logical end.
func (v *Vector[T]) Add(val T) error {
	if err := v.checkWritable("Vector.Add"); err != nil {
		return err
	}
	v.ensureCapacity(len(v.buf) + 1)
	v.buf = append(v.buf, val)
	v.count++
	v.touch()
	v.notify(v, EventAdd, val, nil)
	return nil
}

// PushBack appends val, growing the buffer if needed. O(1) amortized.
func (v *Vector[T]) PushBack(val T) error {
	if err := v.checkWritable("Vector.PushBack"); err != nil {
		return err
	}
	v.ensureCapacity(len(v.buf) + 1)
	v.buf = append(v.buf, val)
	v.count++
	v.touch()
	v.notify(v, EventPush, val, nil)
	return nil
}

// PushFront inserts val at the logical start. O(n).
func (v *Vector[T]) PushFront(val T) error {
	return v.InsertAt(0, val)
}

// PopBack removes and returns the last element.
func (v *Vector[T]) PopBack() (T, error) {
	var zero T
	if err := v.checkWritable("Vector.PopBack"); err != nil {
		return zero, err
	}
	if len(v.buf) == 0 {
		return zero, reportError(v.hook, "Vector.PopBack", NotFound, nil)
	}
	last := len(v.buf) - 1
	out := v.buf[last]
	if v.destructor != nil {
		v.destructor(out)
	}
	v.buf = v.buf[:last]
	v.count--
	v.touch()
	v.notify(v, EventPop, out, nil)
	return out, nil
}

// PopFront always removes and returns the head element.
func (v *Vector[T]) PopFront() (T, error) {
	var zero T
	if err := v.checkWritable("Vector.PopFront"); err != nil {
		return zero, err
	}
	if len(v.buf) == 0 {
		return zero, reportError(v.hook, "Vector.PopFront", NotFound, nil)
	}
	out := v.buf[0]
	if v.destructor != nil {
		v.destructor(out)
	}
	copy(v.buf, v.buf[1:])
	v.buf = v.buf[:len(v.buf)-1]
	v.count--
	v.touch()
	v.notify(v, EventPop, out, nil)
	return out, nil
}

// InsertAt shifts the tail right by one and stores val at i. i must satisfy
// i <= Size(); an out-of-range index fails with Index. InsertAtSparse
// offers an opt-in auto-extending variant instead.
func (v *Vector[T]) InsertAt(i int, val T) error {
	if err := v.checkWritable("Vector.InsertAt"); err != nil {
		return err
	}
	if i < 0 || i > len(v.buf) {
		return reportError(v.hook, "Vector.InsertAt", Index, nil)
	}
	v.ensureCapacity(len(v.buf) + 1)
	v.buf = append(v.buf, val)
	copy(v.buf[i+1:], v.buf[i:len(v.buf)-1])
	v.buf[i] = val
	v.count++
	v.touch()
	v.notify(v, EventInsertAt, i, val)
	return nil
}

// InsertAtSparse behaves like InsertAt but, on an out-of-range index,
// extends the vector's capacity to i+1 (filling the gap with fill) and
// proceeds instead of failing.
func (v *Vector[T]) InsertAtSparse(i int, val T, fill T) error {
	if err := v.checkWritable("Vector.InsertAtSparse"); err != nil {
		return err
	}
	if i < 0 {
		return reportError(v.hook, "Vector.InsertAtSparse", Index, nil)
	}
	if i > len(v.buf) {
		v.ensureCapacity(i + 1)
		for len(v.buf) < i {
			v.buf = append(v.buf, fill)
			v.count++
		}
	}
	return v.InsertAt(i, val)
}

// EraseAt removes the element at i, running the destructor if set, then
// shifts the tail left by one.
func (v *Vector[T]) EraseAt(i int) error {
	if err := v.checkWritable("Vector.EraseAt"); err != nil {
		return err
	}
	if i < 0 || i >= len(v.buf) {
		return reportError(v.hook, "Vector.EraseAt", Index, nil)
	}
	if v.destructor != nil {
		v.destructor(v.buf[i])
	}
	copy(v.buf[i:], v.buf[i+1:])
	var zero T
	v.buf[len(v.buf)-1] = zero
	v.buf = v.buf[:len(v.buf)-1]
	v.count--
	v.touch()
	v.notify(v, EventEraseAt, i, nil)
	return nil
}

// Erase removes the first element equal to val.
func (v *Vector[T]) Erase(val T) error {
	idx, ok := v.IndexOf(val)
	if !ok {
		return reportError(v.hook, "Vector.Erase", NotFound, nil)
	}
	return v.EraseAt(idx)
}

// EraseAll removes every element equal to val, re-scanning after each
// erasure, and returns the count removed.
func (v *Vector[T]) EraseAll(val T) int {
	n := 0
	for {
		idx, ok := v.IndexOf(val)
		if !ok {
			break
		}
		_ = v.EraseAt(idx)
		n++
	}
	return n
}

// GetElement returns a pointer into the backing buffer at logical index i.
// Holding this pointer across any mutation is undefined — a subsequent
// growth-triggering insert may reallocate the buffer entirely.
func (v *Vector[T]) GetElement(i int) (*T, error) {
	if i < 0 || i >= v.Size() {
		return nil, reportError(v.hook, "Vector.GetElement", Index, nil)
	}
	return &v.buf[v.physicalIndex(i)], nil
}

// ReplaceAt overwrites the element at i with val.
func (v *Vector[T]) ReplaceAt(i int, val T) error {
	if err := v.checkWritable("Vector.ReplaceAt"); err != nil {
		return err
	}
	if i < 0 || i >= v.Size() {
		return reportError(v.hook, "Vector.ReplaceAt", Index, nil)
	}
	pi := v.physicalIndex(i)
	if v.destructor != nil {
		v.destructor(v.buf[pi])
	}
	v.buf[pi] = val
	v.touch()
	v.notify(v, EventReplaceAt, i, val)
	return nil
}

// IndexOf linearly scans for val using the Vector's EqualFunc, returning
// its logical index, or ok=false if absent.
func (v *Vector[T]) IndexOf(val T) (int, bool) {
	n := v.Size()
	for i := 0; i < n; i++ {
		if v.equal(v.buf[v.physicalIndex(i)], val) {
			return i, true
		}
	}
	return 0, false
}

// Contains reports whether val is present.
func (v *Vector[T]) Contains(val T) bool {
	_, ok := v.IndexOf(val)
	return ok
}

// Clear empties the vector, running the destructor over every element if set.
func (v *Vector[T]) Clear() {
	if v.destructor != nil {
		for _, e := range v.buf {
			v.destructor(e)
		}
	}
	v.buf = v.buf[:0]
	v.slice = nil
	v.count = 0
	v.touch()
	v.notify(v, EventClear, nil, nil)
}

// Append copies other's elements onto the end of v. Unlike List.Append,
// which moves and invalidates its source, Vector storage is contiguous and
// cheap to copy, so the source Vector remains valid and owns its own
// elements afterward.
func (v *Vector[T]) Append(other *Vector[T]) error {
	if err := v.checkWritable("Vector.Append"); err != nil {
		return err
	}
	n := other.Size()
	v.ensureCapacity(len(v.buf) + n)
	for i := 0; i < n; i++ {
		v.buf = append(v.buf, other.buf[other.physicalIndex(i)])
	}
	v.count += n
	v.touch()
	v.notify(v, EventAppend, other, nil)
	return nil
}

// RotateLeft rotates the vector left by n positions using the classic
// three-reversal algorithm, with a single scratch slot.
func (v *Vector[T]) RotateLeft(n int) error {
	if err := v.checkWritable("Vector.RotateLeft"); err != nil {
		return err
	}
	size := v.Size()
	if size == 0 {
		return nil
	}
	n = ((n % size) + size) % size
	v.reverseRange(0, n)
	v.reverseRange(n, size)
	v.reverseRange(0, size)
	v.touch()
	return nil
}

// RotateRight rotates the vector right by n positions.
func (v *Vector[T]) RotateRight(n int) error {
	size := v.Size()
	if size == 0 {
		return nil
	}
	n = ((n % size) + size) % size
	return v.RotateLeft(size - n)
}

func (v *Vector[T]) reverseRange(lo, hi int) {
	for lo < hi-1 {
		pi, pj := v.physicalIndex(lo), v.physicalIndex(hi-1)
		v.buf[pi], v.buf[pj] = v.buf[pj], v.buf[pi]
		lo++
		hi--
	}
}

// Reverse swaps elements from both ends inward, in place.
func (v *Vector[T]) Reverse() {
	v.reverseRange(0, v.Size())
	v.touch()
}

// Sort orders the vector using its installed CompareFunc. Returns
// NotImplemented if none was set, since there is no generic default total
// order over an arbitrary T.
func (v *Vector[T]) Sort() error {
	if err := v.checkWritable("Vector.Sort"); err != nil {
		return err
	}
	if v.compare == nil {
		return reportError(v.hook, "Vector.Sort", NotImplemented, nil)
	}
	size := v.Size()
	idx := make([]int, size)
	vals := make([]T, size)
	for i := 0; i < size; i++ {
		idx[i] = i
		vals[i] = v.buf[v.physicalIndex(i)]
	}
	quicksortT(vals, v.compare)
	for i := 0; i < size; i++ {
		v.buf[v.physicalIndex(i)] = vals[i]
	}
	v.touch()
	return nil
}

func quicksortT[T any](s []T, cmp CompareFunc[T]) {
	if len(s) < 2 {
		return
	}
	pivot := s[len(s)/2]
	var less, equal, greater []T
	for _, e := range s {
		switch c := cmp(e, pivot); {
		case c < 0:
			less = append(less, e)
		case c > 0:
			greater = append(greater, e)
		default:
			equal = append(equal, e)
		}
	}
	quicksortT(less, cmp)
	quicksortT(greater, cmp)
	s = s[:0]
	s = append(s, less...)
	s = append(s, equal...)
	s = append(s, greater...)
}

// SearchWithKey linearly scans [fromIndex, Size()) comparing key against
// keyFn(element), letting callers search on a derived field rather than the
// whole element.
func (v *Vector[T]) SearchWithKey(fromIndex int, keyFn func(T) any, key any) (int, bool) {
	size := v.Size()
	for i := fromIndex; i < size; i++ {
		if reflect.DeepEqual(keyFn(v.buf[v.physicalIndex(i)]), key) {
			return i, true
		}
	}
	return 0, false
}

// Select filters v in place, keeping only elements where mask selects,
// running the destructor on dropped elements.
func (v *Vector[T]) Select(m *Mask) error {
	if err := v.checkWritable("Vector.Select"); err != nil {
		return err
	}
	if m.Len() != v.Size() {
		return reportError(v.hook, "Vector.Select", BadMask, nil)
	}
	out := make([]T, 0, len(v.buf))
	for i := 0; i < v.Size(); i++ {
		e := v.buf[v.physicalIndex(i)]
		if m.Get(i) {
			out = append(out, e)
		} else if v.destructor != nil {
			v.destructor(e)
		}
	}
	v.buf = out
	v.slice = nil
	v.count = len(out)
	v.touch()
	return nil
}

// SelectCopy returns a new Vector holding only the elements mask selects,
// leaving v untouched.
func (v *Vector[T]) SelectCopy(m *Mask) (*Vector[T], error) {
	if m.Len() != v.Size() {
		return nil, reportError(v.hook, "Vector.SelectCopy", BadMask, nil)
	}
	out := NewVector[T](m.PopCount())
	for i := 0; i < v.Size(); i++ {
		if m.Get(i) {
			out.buf = append(out.buf, v.buf[v.physicalIndex(i)])
			out.count++
		}
	}
	return out, nil
}

// Copy returns a deep copy of v (new backing storage, same elements).
func (v *Vector[T]) Copy() *Vector[T] {
	out := NewVector[T](v.Size())
	for i := 0; i < v.Size(); i++ {
		out.buf = append(out.buf, v.buf[v.physicalIndex(i)])
	}
	out.count = len(out.buf)
	out.compare = v.compare
	out.equal = v.equal
	return out
}

// Equal reports whether v and other hold the same elements in the same
// order, using v's EqualFunc.
func (v *Vector[T]) Equal(other *Vector[T]) bool {
	if v.Size() != other.Size() {
		return false
	}
	for i := 0; i < v.Size(); i++ {
		if !v.equal(v.buf[v.physicalIndex(i)], other.buf[other.physicalIndex(i)]) {
			return false
		}
	}
	return true
}

// Finalize releases v's storage, running the destructor over every
// remaining element first and dropping any observer subscriptions.
func (v *Vector[T]) Finalize() {
	v.Clear()
	v.notify(v, EventFinalize, nil, nil)
	unsubscribeAll(v)
}

// vectorIterator is a snapshot-on-creation cursor: it captures v's timestamp
// at creation and every yield checks it, failing with ObjectChanged once v
// has been mutated out from under the cursor.
type vectorIterator[T any] struct {
	v         *Vector[T]
	cur       int
	savedTime uint64
	scratch   T // private buffer used when v is READONLY
}

// NewIterator returns a cursor bound to v, snapshotting its timestamp.
func (v *Vector[T]) NewIterator() *vectorIterator[T] {
	return &vectorIterator[T]{v: v, cur: -1, savedTime: v.Timestamp()}
}

func (it *vectorIterator[T]) yield(i int) (T, bool) {
	if checkIterator("VectorIterator", it.v.hook, it.v, it.savedTime) != nil {
		var zero T
		return zero, false
	}
	if i < 0 || i >= it.v.Size() {
		var zero T
		return zero, false
	}
	it.cur = i
	val := it.v.buf[it.v.physicalIndex(i)]
	if it.v.readOnly() {
		it.scratch = val
		return it.scratch, true
	}
	return val, true
}

func (it *vectorIterator[T]) GetFirst() (T, bool) { return it.yield(0) }
func (it *vectorIterator[T]) GetLast() (T, bool)  { return it.yield(it.v.Size() - 1) }
func (it *vectorIterator[T]) GetNext() (T, bool)  { return it.yield(it.cur + 1) }
func (it *vectorIterator[T]) GetPrevious() (T, bool) {
	return it.yield(it.cur - 1)
}
func (it *vectorIterator[T]) GetCurrent() (T, bool) { return it.yield(it.cur) }
func (it *vectorIterator[T]) Seek(index int) (T, bool) { return it.yield(index) }

// Replace writes value at the cursor and advances by direction; if the
// cursor holds no value to replace (value is the zero value is not a valid
// signal in a generic setting, so erase is exposed as ReplaceErase instead).
func (it *vectorIterator[T]) Replace(value T, direction int) error {
	if err := checkIterator("VectorIterator.Replace", it.v.hook, it.v, it.savedTime); err != nil {
		return err
	}
	if err := it.v.ReplaceAt(it.cur, value); err != nil {
		return err
	}
	it.savedTime = it.v.Timestamp()
	it.cur += direction
	return nil
}

// ReplaceErase erases the element under the cursor and advances by
// direction. Generic code can't signal "erase" by passing a nil value the
// way an any-typed Replace might, so erase gets its own method instead.
func (it *vectorIterator[T]) ReplaceErase(direction int) error {
	if err := checkIterator("VectorIterator.ReplaceErase", it.v.hook, it.v, it.savedTime); err != nil {
		return err
	}
	if err := it.v.EraseAt(it.cur); err != nil {
		return err
	}
	it.savedTime = it.v.Timestamp()
	if direction < 0 {
		it.cur += direction
	}
	return nil
}
