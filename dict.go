package ccl

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/cespare/xxhash/v2"
)

// bucket-count prime table: each step roughly doubles the previous, the
// table Dictionary walks on resize.
var dictPrimes = []int{509, 1021, 2053, 4093, 8191, 16381, 32771, 65537,
	131101, 262147, 524309, 1048573}

func nextPrime(hint int) int {
	for _, p := range dictPrimes {
		if p >= hint {
			return p
		}
	}
	return dictPrimes[len(dictPrimes)-1]
}

// HashFunc computes a bucket hash over a key. The default is the classic
// 33x accumulator (h = h*33 + byte); SetHashFunc swaps in an alternative
// such as xxhash.Sum64.
type HashFunc func(key string) uint64

func defaultHash(key string) uint64 {
	var h uint64 = 5381
	for i := 0; i < len(key); i++ {
		h = h*33 + uint64(key[i])
	}
	return h
}

// xxhashString is an alternative HashFunc backed by xxhash, installable via
// Config.HashFunc or SetHashFunc directly.
func xxhashString(key string) uint64 { return xxhash.Sum64String(key) }

type dictEntry[V any] struct {
	key  string
	val  V
	next *dictEntry[V]
}

// Dictionary is a chained-hash key/value engine.
type Dictionary[V any] struct {
	Header
	buckets    []*dictEntry[V]
	hash       HashFunc
	destructor func(V)
	arena      *Pool
}

// NewDictionary creates an empty Dictionary whose bucket count is the
// smallest prime >= hint.
func NewDictionary[V any](hint int) *Dictionary[V] {
	return &Dictionary[V]{
		Header:  newHeader(nil),
		buckets: make([]*dictEntry[V], nextPrime(hint)),
		hash:    defaultHash,
	}
}

// SetHashFunc overrides the bucket hash.
func (d *Dictionary[V]) SetHashFunc(fn HashFunc) {
	if fn == nil {
		fn = defaultHash
	}
	d.hash = fn
}

// SetDestructor installs a per-value finalizer run when a value is
// overwritten or erased.
func (d *Dictionary[V]) SetDestructor(fn func(V)) { d.destructor = fn }

// UseHeap attaches p as the arena new entries draw their byte accounting
// from; fails with NotEmpty if the dictionary already holds entries.
func (d *Dictionary[V]) UseHeap(p *Pool) error {
	if d.count != 0 {
		return reportError(d.hook, "Dictionary.UseHeap", NotEmpty, nil)
	}
	d.arena = p
	return nil
}

func (d *Dictionary[V]) newEntry(key string, val V, next *dictEntry[V]) *dictEntry[V] {
	if d.arena != nil {
		d.arena.Alloc(nodePayloadSize[V]())
	}
	return &dictEntry[V]{key: key, val: val, next: next}
}

// Size returns the number of live key/value pairs.
func (d *Dictionary[V]) Size() int { return d.count }

func (d *Dictionary[V]) bucketFor(key string) int {
	return int(d.hash(key) % uint64(len(d.buckets)))
}

func (d *Dictionary[V]) find(key string) *dictEntry[V] {
	for e := d.buckets[d.bucketFor(key)]; e != nil; e = e.next {
		if e.key == key {
			return e
		}
	}
	return nil
}

// maybeResize doubles the bucket prime once count exceeds the bucket
// count (load factor ceiling of 1.0), rehashing every entry.
func (d *Dictionary[V]) maybeResize() {
	if d.count <= len(d.buckets) {
		return
	}
	next := nextPrime(len(d.buckets) + 1)
	if next == len(d.buckets) {
		return
	}
	old := d.buckets
	d.buckets = make([]*dictEntry[V], next)
	for _, head := range old {
		for e := head; e != nil; {
			n := e.next
			idx := d.bucketFor(e.key)
			e.next = d.buckets[idx]
			d.buckets[idx] = e
			e = n
		}
	}
	d.touch()
}

// Add inserts or overwrites key's value, returning false when an existing
// entry was overwritten rather than a new one created.
func (d *Dictionary[V]) Add(key string, val V) (bool, error) {
	if err := d.checkWritable("Dictionary.Add"); err != nil {
		return false, err
	}
	if e := d.find(key); e != nil {
		if d.destructor != nil {
			d.destructor(e.val)
		}
		e.val = val
		d.touch()
		d.notify(d, EventReplace, key, val)
		return false, nil
	}
	idx := d.bucketFor(key)
	d.buckets[idx] = d.newEntry(key, val, d.buckets[idx])
	d.count++
	d.maybeResize()
	d.touch()
	d.notify(d, EventAdd, key, val)
	return true, nil
}

// Insert behaves like Add but fails if the key already exists instead of
// overwriting it.
func (d *Dictionary[V]) Insert(key string, val V) error {
	if err := d.checkWritable("Dictionary.Insert"); err != nil {
		return err
	}
	if d.find(key) != nil {
		return reportError(d.hook, "Dictionary.Insert", NotEmpty, nil)
	}
	idx := d.bucketFor(key)
	d.buckets[idx] = d.newEntry(key, val, d.buckets[idx])
	d.count++
	d.maybeResize()
	d.touch()
	d.notify(d, EventAdd, key, val)
	return nil
}

// Replace overwrites an existing key's value, failing with NotFound if
// the key is absent.
func (d *Dictionary[V]) Replace(key string, val V) error {
	if err := d.checkWritable("Dictionary.Replace"); err != nil {
		return err
	}
	e := d.find(key)
	if e == nil {
		return reportError(d.hook, "Dictionary.Replace", NotFound, nil)
	}
	if d.destructor != nil {
		d.destructor(e.val)
	}
	e.val = val
	d.touch()
	d.notify(d, EventReplace, key, val)
	return nil
}

// EraseKey unlinks and destroys key's entry.
func (d *Dictionary[V]) EraseKey(key string) error {
	if err := d.checkWritable("Dictionary.EraseKey"); err != nil {
		return err
	}
	idx := d.bucketFor(key)
	var prev *dictEntry[V]
	for e := d.buckets[idx]; e != nil; e = e.next {
		if e.key == key {
			if prev != nil {
				prev.next = e.next
			} else {
				d.buckets[idx] = e.next
			}
			if d.destructor != nil {
				d.destructor(e.val)
			}
			d.count--
			d.touch()
			d.notify(d, EventEraseAt, key, nil)
			return nil
		}
		prev = e
	}
	return reportError(d.hook, "Dictionary.EraseKey", NotFound, nil)
}

// GetElementByKey returns a pointer to key's value.
func (d *Dictionary[V]) GetElementByKey(key string) (*V, error) {
	e := d.find(key)
	if e == nil {
		return nil, reportError(d.hook, "Dictionary.GetElementByKey", NotFound, nil)
	}
	return &e.val, nil
}

// ContainsKey reports whether key is present.
func (d *Dictionary[V]) ContainsKey(key string) bool {
	return d.find(key) != nil
}

// Clear empties the dictionary, running the destructor over every value.
func (d *Dictionary[V]) Clear() {
	if d.destructor != nil {
		for _, head := range d.buckets {
			for e := head; e != nil; e = e.next {
				d.destructor(e.val)
			}
		}
	}
	for i := range d.buckets {
		d.buckets[i] = nil
	}
	d.count = 0
	d.touch()
	d.notify(d, EventClear, nil, nil)
}

// Keys returns a string-collection view of all current keys.
func (d *Dictionary[V]) Keys() mapset.Set[string] {
	out := mapset.NewThreadUnsafeSet[string]()
	for _, head := range d.buckets {
		for e := head; e != nil; e = e.next {
			out.Add(e.key)
		}
	}
	return out
}

// CastToArray snapshots all current values into a Vector.
func (d *Dictionary[V]) CastToArray() *Vector[V] {
	out := NewVector[V](d.count)
	for _, head := range d.buckets {
		for e := head; e != nil; e = e.next {
			out.buf = append(out.buf, e.val)
		}
	}
	out.count = len(out.buf)
	return out
}

// MergeFunc resolves a key present in both overlay and base during Merge.
type MergeFunc[V any] func(key string, base, overlay V) V

// MergeDictionaries builds a new table with every base entry; for each
// overlay entry, if the key also exists in base, merger resolves the
// conflict (nil merger means overlay wins), otherwise the overlay entry is
// added directly.
func MergeDictionaries[V any](base, overlay *Dictionary[V], merger MergeFunc[V]) *Dictionary[V] {
	out := NewDictionary[V](len(base.buckets))
	out.hash = base.hash
	out.destructor = base.destructor
	for _, head := range base.buckets {
		for e := head; e != nil; e = e.next {
			_, _ = out.Add(e.key, e.val)
		}
	}
	for _, head := range overlay.buckets {
		for e := head; e != nil; e = e.next {
			if existing := out.find(e.key); existing != nil {
				if merger != nil {
					existing.val = merger(e.key, existing.val, e.val)
				} else {
					existing.val = e.val
				}
				continue
			}
			_, _ = out.Add(e.key, e.val)
		}
	}
	return out
}

// Finalize traverses all buckets, running the destructor on values if set,
// then releases the bucket array.
func (d *Dictionary[V]) Finalize() {
	d.Clear()
	d.buckets = nil
	if d.arena != nil {
		d.arena.Destroy()
	}
	d.notify(d, EventFinalize, nil, nil)
	unsubscribeAll(d)
}

// dictIterator walks buckets in order, then chains within a bucket.
type dictIterator[V any] struct {
	d         *Dictionary[V]
	bucketIdx int
	cur       *dictEntry[V]
	savedTime uint64
	scratch   V
}

// NewIterator returns a cursor bound to d.
func (d *Dictionary[V]) NewIterator() *dictIterator[V] {
	return &dictIterator[V]{d: d, bucketIdx: -1, savedTime: d.Timestamp()}
}

func (it *dictIterator[V]) advance() *dictEntry[V] {
	if it.cur != nil && it.cur.next != nil {
		it.cur = it.cur.next
		return it.cur
	}
	for it.bucketIdx++; it.bucketIdx < len(it.d.buckets); it.bucketIdx++ {
		if it.d.buckets[it.bucketIdx] != nil {
			it.cur = it.d.buckets[it.bucketIdx]
			return it.cur
		}
	}
	it.cur = nil
	return nil
}

func (it *dictIterator[V]) yield(e *dictEntry[V]) (V, bool) {
	if checkIterator("DictionaryIterator", it.d.hook, it.d, it.savedTime) != nil {
		var zero V
		return zero, false
	}
	if e == nil {
		var zero V
		return zero, false
	}
	if it.d.readOnly() {
		it.scratch = e.val
		return it.scratch, true
	}
	return e.val, true
}

// GetFirst resets the cursor to the first bucket entry.
func (it *dictIterator[V]) GetFirst() (V, bool) {
	it.bucketIdx = -1
	it.cur = nil
	return it.yield(it.advance())
}

// GetNext advances the cursor through the chain, then subsequent buckets.
func (it *dictIterator[V]) GetNext() (V, bool) {
	if it.cur == nil && it.bucketIdx < 0 {
		return it.GetFirst()
	}
	return it.yield(it.advance())
}

// GetCurrent returns the element under the cursor without advancing.
func (it *dictIterator[V]) GetCurrent() (V, bool) { return it.yield(it.cur) }

// nth walks from the first bucket entry to the n-th overall entry (0-based),
// the shared implementation GetLast, GetPrevious, and Seek build on since
// bucket chains only link forward.
func (it *dictIterator[V]) nth(n int) *dictEntry[V] {
	if n < 0 {
		return nil
	}
	it.bucketIdx = -1
	it.cur = nil
	var e *dictEntry[V]
	for i := 0; i <= n; i++ {
		e = it.advance()
		if e == nil {
			return nil
		}
	}
	return e
}

// GetLast walks to the final entry across every bucket.
func (it *dictIterator[V]) GetLast() (V, bool) {
	return it.yield(it.nth(it.d.Size() - 1))
}

// GetPrevious re-walks from the start to the entry before the current one,
// since a hash chain offers no backward link.
func (it *dictIterator[V]) GetPrevious() (V, bool) {
	if it.cur == nil {
		var zero V
		return zero, false
	}
	target := it.indexOfCurrent() - 1
	return it.yield(it.nth(target))
}

// Seek moves the cursor to the index-th entry in bucket-then-chain order.
func (it *dictIterator[V]) Seek(index int) (V, bool) { return it.yield(it.nth(index)) }

func (it *dictIterator[V]) indexOfCurrent() int {
	n := 0
	for bi := 0; bi < len(it.d.buckets); bi++ {
		for e := it.d.buckets[bi]; e != nil; e = e.next {
			if e == it.cur {
				return n
			}
			n++
		}
	}
	return -1
}
