package ccl

// vectorBox adapts a *Vector[T] to the Container/Sequential interfaces by
// boxing each typed value in an `any`, the Go stand-in for the vtable's
// void* parameters.
type vectorBox[T any] struct{ v *Vector[T] }

// AsSequential returns v boxed behind the Sequential interface.
func (v *Vector[T]) AsSequential() Sequential { return vectorBox[T]{v} }

func (b vectorBox[T]) Size() int               { return b.v.Size() }
func (b vectorBox[T]) GetFlags() Flags         { return b.v.GetFlags() }
func (b vectorBox[T]) SetFlags(f Flags)        { b.v.SetFlags(f) }
func (b vectorBox[T]) Clear()                  { b.v.Clear() }
func (b vectorBox[T]) SetErrorFunc(h Hook)     { b.v.SetErrorFunc(h) }
func (b vectorBox[T]) Contains(val any) bool   { return b.v.Contains(val.(T)) }
func (b vectorBox[T]) Erase(val any) error     { return b.v.Erase(val.(T)) }
func (b vectorBox[T]) EraseAll(val any) int    { return b.v.EraseAll(val.(T)) }
func (b vectorBox[T]) Add(val any) error       { return b.v.Add(val.(T)) }
func (b vectorBox[T]) PushBack(val any) error  { return b.v.PushBack(val.(T)) }
func (b vectorBox[T]) PushFront(val any) error { return b.v.PushFront(val.(T)) }

func (b vectorBox[T]) GetElement(i int) (any, error) {
	p, err := b.v.GetElement(i)
	if err != nil {
		return nil, err
	}
	return *p, nil
}

func (b vectorBox[T]) PopBack() (any, error)  { return b.v.PopBack() }
func (b vectorBox[T]) PopFront() (any, error) { return b.v.PopFront() }

func (b vectorBox[T]) InsertAt(i int, val any) error  { return b.v.InsertAt(i, val.(T)) }
func (b vectorBox[T]) EraseAt(i int) error            { return b.v.EraseAt(i) }
func (b vectorBox[T]) ReplaceAt(i int, val any) error { return b.v.ReplaceAt(i, val.(T)) }

func (b vectorBox[T]) IndexOf(val any) (int, bool) { return b.v.IndexOf(val.(T)) }

func (b vectorBox[T]) Append(other Sequential) error {
	o, ok := other.(vectorBox[T])
	if !ok {
		return reportError(b.v.hook, "Vector.Append", Incompatible, nil)
	}
	return b.v.Append(o.v)
}

func (b vectorBox[T]) Equal(other Container) bool {
	o, ok := other.(vectorBox[T])
	if !ok {
		return false
	}
	return b.v.Equal(o.v)
}

func (b vectorBox[T]) Copy() Container { return vectorBox[T]{b.v.Copy()} }

func (b vectorBox[T]) Apply(fn func(v any, arg any) bool, arg any) int {
	n := 0
	for i := 0; i < b.v.Size(); i++ {
		p, _ := b.v.GetElement(i)
		n++
		if !fn(*p, arg) {
			break
		}
	}
	return n
}

func (b vectorBox[T]) NewIterator() Iterator { return anyIterator[T]{b.v.NewIterator()} }

func (b vectorBox[T]) Save(w ByteWriter) error { return saveSequential(w, guidVector, b) }

// listBox adapts a *List[T] to Sequential.
type listBox[T any] struct{ l *List[T] }

// AsSequential returns l boxed behind the Sequential interface.
func (l *List[T]) AsSequential() Sequential { return listBox[T]{l} }

func (b listBox[T]) Size() int           { return b.l.Size() }
func (b listBox[T]) GetFlags() Flags     { return b.l.GetFlags() }
func (b listBox[T]) SetFlags(f Flags)    { b.l.SetFlags(f) }
func (b listBox[T]) Clear()              { b.l.Clear() }
func (b listBox[T]) SetErrorFunc(h Hook) { b.l.SetErrorFunc(h) }
func (b listBox[T]) Contains(v any) bool { return b.l.Contains(v.(T)) }
func (b listBox[T]) Erase(v any) error   { return b.l.Erase(v.(T)) }
func (b listBox[T]) EraseAll(v any) int  { return b.l.EraseAll(v.(T)) }
func (b listBox[T]) Add(v any) error     { return b.l.Add(v.(T)) }
func (b listBox[T]) PushBack(v any) error  { return b.l.PushBack(v.(T)) }
func (b listBox[T]) PushFront(v any) error { return b.l.PushFront(v.(T)) }
func (b listBox[T]) GetElement(i int) (any, error) { return b.l.GetElement(i) }
func (b listBox[T]) PopBack() (any, error)  { return b.l.PopBack() }
func (b listBox[T]) PopFront() (any, error) { return b.l.PopFront() }
func (b listBox[T]) InsertAt(i int, v any) error  { return b.l.InsertAt(i, v.(T)) }
func (b listBox[T]) EraseAt(i int) error          { return b.l.EraseAt(i) }
func (b listBox[T]) ReplaceAt(i int, v any) error { return b.l.ReplaceAt(i, v.(T)) }
func (b listBox[T]) IndexOf(v any) (int, bool)    { return b.l.IndexOf(v.(T)) }

func (b listBox[T]) Append(other Sequential) error {
	o, ok := other.(listBox[T])
	if !ok {
		return reportError(b.l.hook, "List.Append", Incompatible, nil)
	}
	return b.l.Append(o.l)
}

func (b listBox[T]) Equal(other Container) bool {
	o, ok := other.(listBox[T])
	if !ok {
		return false
	}
	return b.l.Equal(o.l)
}

func (b listBox[T]) Copy() Container { return listBox[T]{b.l.Copy()} }

func (b listBox[T]) Apply(fn func(v any, arg any) bool, arg any) int {
	n := 0
	it := b.l.NewIterator()
	for v, ok := it.GetFirst(); ok; v, ok = it.GetNext() {
		n++
		if !fn(v, arg) {
			break
		}
	}
	return n
}

func (b listBox[T]) NewIterator() Iterator { return anyIterator[T]{b.l.NewIterator()} }

func (b listBox[T]) Save(w ByteWriter) error { return saveSequential(w, guidList, b) }

// dictBox adapts a *Dictionary[V] to Associative.
type dictBox[V any] struct{ d *Dictionary[V] }

// AsAssociative returns d boxed behind the Associative interface.
func (d *Dictionary[V]) AsAssociative() Associative { return dictBox[V]{d} }

func (b dictBox[V]) Size() int           { return b.d.Size() }
func (b dictBox[V]) GetFlags() Flags     { return b.d.GetFlags() }
func (b dictBox[V]) SetFlags(f Flags)    { b.d.SetFlags(f) }
func (b dictBox[V]) Clear()              { b.d.Clear() }
func (b dictBox[V]) SetErrorFunc(h Hook) { b.d.SetErrorFunc(h) }

func (b dictBox[V]) Contains(v any) bool {
	var found bool
	b.d.Apply(func(val V, _ any) bool {
		if reflectEqual(val, v) {
			found = true
			return false
		}
		return true
	}, nil)
	return found
}

func (b dictBox[V]) Apply(fn func(v any, arg any) bool, arg any) int {
	n := 0
	it := b.d.NewIterator()
	for v, ok := it.GetFirst(); ok; v, ok = it.GetNext() {
		n++
		if !fn(v, arg) {
			break
		}
	}
	return n
}

func (d *Dictionary[V]) Apply(fn func(v V, arg any) bool, arg any) int {
	it := d.NewIterator()
	n := 0
	for v, ok := it.GetFirst(); ok; v, ok = it.GetNext() {
		n++
		if !fn(v, arg) {
			break
		}
	}
	return n
}

// Erase removes the first key whose value equals v, the value-based erase
// the generic Container interface requires; EraseKey is the keyed form
// Dictionary exposes directly.
func (b dictBox[V]) Erase(v any) error {
	target := v.(V)
	for _, head := range b.d.buckets {
		for e := head; e != nil; e = e.next {
			if defaultEqual(e.val, target) {
				return b.d.EraseKey(e.key)
			}
		}
	}
	return reportError(b.d.hook, "Dictionary.Erase", NotFound, nil)
}

func (b dictBox[V]) EraseAll(v any) int {
	n := 0
	for b.Erase(v) == nil {
		n++
	}
	return n
}

func (b dictBox[V]) AddKV(key string, v any) error {
	_, err := b.d.Add(key, v.(V))
	return err
}

func (b dictBox[V]) GetElementByKey(key string) (any, error) {
	p, err := b.d.GetElementByKey(key)
	if err != nil {
		return nil, err
	}
	return *p, nil
}

func (b dictBox[V]) Replace(key string, v any) error { return b.d.Replace(key, v.(V)) }

func (b dictBox[V]) Equal(other Container) bool {
	o, ok := other.(dictBox[V])
	if !ok {
		return false
	}
	if b.d.Size() != o.d.Size() {
		return false
	}
	eq := true
	for _, head := range b.d.buckets {
		for e := head; e != nil; e = e.next {
			ov, err := o.d.GetElementByKey(e.key)
			if err != nil || !defaultEqual(*ov, e.val) {
				eq = false
			}
		}
	}
	return eq
}

func (b dictBox[V]) Copy() Container {
	out := NewDictionary[V](len(b.d.buckets))
	out.hash, out.destructor = b.d.hash, b.d.destructor
	for _, head := range b.d.buckets {
		for e := head; e != nil; e = e.next {
			_, _ = out.Add(e.key, e.val)
		}
	}
	return dictBox[V]{out}
}

func (b dictBox[V]) NewIterator() Iterator { return anyIterator[V]{b.d.NewIterator()} }

func (b dictBox[V]) Save(w ByteWriter) error { return saveAssociative(w, guidDictionary, b) }

func reflectEqual(a, b any) bool { return defaultEqual(a, b) }

// avlBox adapts a *AVLTree[T] to Container. AVLTree orders by comparator
// rather than index, so it stops at Container rather than Sequential's
// index-addressed shape.
type avlBox[T any] struct{ t *AVLTree[T] }

// AsContainer returns t boxed behind the Container interface.
func (t *AVLTree[T]) AsContainer() Container { return avlBox[T]{t} }

func (b avlBox[T]) Size() int             { return b.t.Size() }
func (b avlBox[T]) GetFlags() Flags       { return b.t.GetFlags() }
func (b avlBox[T]) SetFlags(f Flags)      { b.t.SetFlags(f) }
func (b avlBox[T]) Clear()                { b.t.Clear() }
func (b avlBox[T]) SetErrorFunc(h Hook)   { b.t.SetErrorFunc(h) }
func (b avlBox[T]) Contains(v any) bool   { return b.t.Contains(v.(T)) }
func (b avlBox[T]) Erase(v any) error     { return b.t.Erase(v.(T)) }
func (b avlBox[T]) EraseAll(v any) int    { return b.t.EraseAll(v.(T)) }

func (b avlBox[T]) Apply(fn func(v any, arg any) bool, arg any) int {
	return b.t.Apply(func(v T, arg any) bool { return fn(v, arg) }, arg)
}

func (b avlBox[T]) Equal(other Container) bool {
	o, ok := other.(avlBox[T])
	if !ok {
		return false
	}
	return b.t.Equal(o.t)
}

func (b avlBox[T]) Copy() Container { return avlBox[T]{b.t.Copy()} }

func (b avlBox[T]) NewIterator() Iterator { return anyIterator[T]{b.t.NewIterator()} }

func (b avlBox[T]) Save(w ByteWriter) error {
	return saveContainer(w, guidAVLTree, b.t.Size(), b.Apply)
}

// bitstringBox adapts a *BitString to Container. Bits aren't T-valued in
// the generic sense Sequential's index methods need, so BitString stops at
// Container too.
type bitstringBox struct{ b *BitString }

// AsContainer returns b boxed behind the Container interface.
func (b *BitString) AsContainer() Container { return bitstringBox{b} }

func (x bitstringBox) Size() int           { return x.b.Size() }
func (x bitstringBox) GetFlags() Flags     { return x.b.GetFlags() }
func (x bitstringBox) SetFlags(f Flags)    { x.b.SetFlags(f) }
func (x bitstringBox) Clear()              { x.b.Clear() }
func (x bitstringBox) SetErrorFunc(h Hook) { x.b.SetErrorFunc(h) }
func (x bitstringBox) Contains(v any) bool { return x.b.Contains(v.(bool)) }
func (x bitstringBox) Erase(v any) error   { return x.b.Erase(v.(bool)) }
func (x bitstringBox) EraseAll(v any) int  { return x.b.EraseAll(v.(bool)) }

func (x bitstringBox) Apply(fn func(v any, arg any) bool, arg any) int {
	return x.b.Apply(func(v bool, arg any) bool { return fn(v, arg) }, arg)
}

func (x bitstringBox) Equal(other Container) bool {
	o, ok := other.(bitstringBox)
	if !ok {
		return false
	}
	return x.b.Equal(o.b)
}

func (x bitstringBox) Copy() Container { return bitstringBox{x.b.Copy()} }

func (x bitstringBox) NewIterator() Iterator { return anyIterator[bool]{x.b.NewIterator()} }

func (x bitstringBox) Save(w ByteWriter) error {
	return saveContainer(w, guidBitString, x.b.Size(), x.Apply)
}

// circbufBox adapts a *CircularBuffer[T] to the full Sequential interface.
type circbufBox[T any] struct{ c *CircularBuffer[T] }

// AsSequential returns c boxed behind the Sequential interface.
func (c *CircularBuffer[T]) AsSequential() Sequential { return circbufBox[T]{c} }

func (b circbufBox[T]) Size() int             { return b.c.Size() }
func (b circbufBox[T]) GetFlags() Flags       { return b.c.GetFlags() }
func (b circbufBox[T]) SetFlags(f Flags)      { b.c.SetFlags(f) }
func (b circbufBox[T]) Clear()                { b.c.Clear() }
func (b circbufBox[T]) SetErrorFunc(h Hook)   { b.c.SetErrorFunc(h) }
func (b circbufBox[T]) Contains(v any) bool   { return b.c.Contains(v.(T)) }
func (b circbufBox[T]) Erase(v any) error     { return b.c.Erase(v.(T)) }
func (b circbufBox[T]) EraseAll(v any) int    { return b.c.EraseAll(v.(T)) }
func (b circbufBox[T]) Add(v any) error       { return b.c.PushBack(v.(T)) }
func (b circbufBox[T]) PushBack(v any) error  { return b.c.PushBack(v.(T)) }
func (b circbufBox[T]) PushFront(v any) error { return b.c.PushFront(v.(T)) }

func (b circbufBox[T]) GetElement(i int) (any, error) {
	p, err := b.c.GetElement(i)
	if err != nil {
		return nil, err
	}
	return *p, nil
}

func (b circbufBox[T]) PopBack() (any, error)  { return b.c.PopBack() }
func (b circbufBox[T]) PopFront() (any, error) { return b.c.PopFront() }

func (b circbufBox[T]) InsertAt(i int, v any) error  { return b.c.InsertAt(i, v.(T)) }
func (b circbufBox[T]) EraseAt(i int) error          { return b.c.EraseAt(i) }
func (b circbufBox[T]) ReplaceAt(i int, v any) error { return b.c.ReplaceAt(i, v.(T)) }
func (b circbufBox[T]) IndexOf(v any) (int, bool)    { return b.c.IndexOf(v.(T)) }

func (b circbufBox[T]) Append(other Sequential) error {
	o, ok := other.(circbufBox[T])
	if !ok {
		return reportError(b.c.hook, "CircularBuffer.Append", Incompatible, nil)
	}
	return b.c.Append(o.c)
}

func (b circbufBox[T]) Equal(other Container) bool {
	o, ok := other.(circbufBox[T])
	if !ok {
		return false
	}
	return b.c.Equal(o.c)
}

func (b circbufBox[T]) Copy() Container { return circbufBox[T]{b.c.Copy()} }

func (b circbufBox[T]) Apply(fn func(v any, arg any) bool, arg any) int {
	return b.c.Apply(func(v T, arg any) bool { return fn(v, arg) }, arg)
}

func (b circbufBox[T]) NewIterator() Iterator { return anyIterator[T]{b.c.NewIterator()} }

func (b circbufBox[T]) Save(w ByteWriter) error { return saveSequential(w, guidCircularBuffer, b) }

// bloomBox adapts a *BloomFilter to Container. A Bloom filter has no
// addressable elements at all, only hashed bit positions, so it stops at
// Container and its Apply/iterator are vacuous.
type bloomBox struct{ f *BloomFilter }

// AsContainer returns f boxed behind the Container interface.
func (f *BloomFilter) AsContainer() Container { return bloomBox{f} }

func (x bloomBox) Size() int                           { return x.f.Size() }
func (x bloomBox) GetFlags() Flags                     { return x.f.GetFlags() }
func (x bloomBox) SetFlags(f Flags)                    { x.f.SetFlags(f) }
func (x bloomBox) Clear()                              { x.f.Clear() }
func (x bloomBox) SetErrorFunc(h Hook)                 { x.f.SetErrorFunc(h) }
func (x bloomBox) Contains(v any) bool                 { return x.f.Contains(v) }
func (x bloomBox) Erase(v any) error                   { return x.f.Erase(v) }
func (x bloomBox) EraseAll(v any) int                  { return x.f.EraseAll(v) }
func (x bloomBox) Apply(fn func(v any, arg any) bool, arg any) int { return x.f.Apply(fn, arg) }

func (x bloomBox) Equal(other Container) bool {
	o, ok := other.(bloomBox)
	if !ok {
		return false
	}
	return x.f.Equal(o.f)
}

func (x bloomBox) Copy() Container { return bloomBox{x.f.Copy()} }

func (x bloomBox) NewIterator() Iterator { return anyIterator[bool]{x.f.NewIterator()} }

func (x bloomBox) Save(w ByteWriter) error { return saveBloomFilter(w, x.f) }

// typedIterator is satisfied by every engine's concrete iterator type.
type typedIterator[T any] interface {
	GetFirst() (T, bool)
	GetNext() (T, bool)
	GetPrevious() (T, bool)
	GetLast() (T, bool)
	GetCurrent() (T, bool)
	Seek(int) (T, bool)
}

// anyIterator boxes a typed iterator behind the Iterator interface.
type anyIterator[T any] struct{ it typedIterator[T] }

func (a anyIterator[T]) GetFirst() (any, bool)    { v, ok := a.it.GetFirst(); return v, ok }
func (a anyIterator[T]) GetNext() (any, bool)     { v, ok := a.it.GetNext(); return v, ok }
func (a anyIterator[T]) GetPrevious() (any, bool) { v, ok := a.it.GetPrevious(); return v, ok }
func (a anyIterator[T]) GetLast() (any, bool)     { v, ok := a.it.GetLast(); return v, ok }
func (a anyIterator[T]) GetCurrent() (any, bool)  { v, ok := a.it.GetCurrent(); return v, ok }
func (a anyIterator[T]) Seek(i int) (any, bool)   { v, ok := a.it.Seek(i); return v, ok }

func (a anyIterator[T]) Replace(value any, direction int) error {
	type replacer interface {
		Replace(T, int) error
		ReplaceErase(int) error
	}
	r, ok := a.it.(replacer)
	if !ok {
		return reportError(nil, "Iterator.Replace", NotImplemented, nil)
	}
	if value == nil {
		return r.ReplaceErase(direction)
	}
	return r.Replace(value.(T), direction)
}

// Readonly wraps a Container, overriding its flags to present as read-only
// without copying engine state: the embedded Container is shared, and only
// GetFlags/SetFlags are overridden to force the bit on every read.
type Readonly struct {
	Container
}

// NewReadonly wraps c, setting the READONLY flag on c itself so every
// mutating method promoted through the embedded Container — not just
// GetFlags/SetFlags — runs into the real Header.checkWritable underneath.
func NewReadonly(c Container) *Readonly {
	c.SetFlags(c.GetFlags() | ReadOnly)
	return &Readonly{c}
}

// GetFlags reports the wrapped container's flags with ReadOnly forced on.
func (r *Readonly) GetFlags() Flags { return r.Container.GetFlags() | ReadOnly }

// SetFlags applies f to the wrapped container but never clears ReadOnly.
func (r *Readonly) SetFlags(f Flags) { r.Container.SetFlags(f | ReadOnly) }

