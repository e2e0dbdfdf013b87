package ccl

import (
	"hash/fnv"
	"math"

	"github.com/cespare/xxhash/v2"
)

// BloomFilter is a probabilistic set-membership engine. Capacity N and
// target false-positive probability p determine the bit array size m and
// hash count k; k independent positions per key are derived from two base
// hashes via Kirsch-Mitzenmacher double hashing (h_i = h1 + i*h2 mod m)
// rather than k distinct hash functions.
type BloomFilter struct {
	Header
	bits []uint64
	m    uint64
	k    int
}

// NewBloomFilter derives m and k from the desired capacity and
// false-positive probability.
func NewBloomFilter(capacity int, falsePositiveRate float64) *BloomFilter {
	n := float64(capacity)
	m := -n * math.Log(falsePositiveRate) / (math.Ln2 * math.Ln2)
	k := (m / n) * math.Ln2
	mWords := uint64(math.Ceil(m/64)) + 1
	return &BloomFilter{
		Header: newHeader(nil),
		bits:   make([]uint64, mWords),
		m:      mWords * 64,
		k:      maxInt(1, int(math.Round(k))),
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (f *BloomFilter) positions(key []byte) []uint64 {
	h1 := xxhash.Sum64(key)
	fh := fnv.New64a()
	fh.Write(key)
	h2 := fh.Sum64()
	if h2 == 0 {
		h2 = 1
	}
	out := make([]uint64, f.k)
	for i := 0; i < f.k; i++ {
		out[i] = (h1 + uint64(i)*h2) % f.m
	}
	return out
}

func (f *BloomFilter) setBit(pos uint64) {
	f.bits[pos/64] |= 1 << (pos % 64)
}

func (f *BloomFilter) testBit(pos uint64) bool {
	return f.bits[pos/64]&(1<<(pos%64)) != 0
}

// Add sets k bits at independent hash positions derived from key.
func (f *BloomFilter) Add(key []byte) error {
	if err := f.checkWritable("BloomFilter.Add"); err != nil {
		return err
	}
	for _, p := range f.positions(key) {
		f.setBit(p)
	}
	f.count++
	f.touch()
	f.notify(f, EventAdd, key, nil)
	return nil
}

// Find reports true iff all k bits for key are set. The filter never
// yields false negatives: a key that was Added always tests true.
func (f *BloomFilter) Find(key []byte) bool {
	for _, p := range f.positions(key) {
		if !f.testBit(p) {
			return false
		}
	}
	return true
}

// Clear zeros every bit.
func (f *BloomFilter) Clear() {
	for i := range f.bits {
		f.bits[i] = 0
	}
	f.count = 0
	f.touch()
	f.notify(f, EventClear, nil, nil)
}

// Finalize releases the filter's bit array.
func (f *BloomFilter) Finalize() {
	f.Clear()
	f.bits = nil
	f.notify(f, EventFinalize, nil, nil)
	unsubscribeAll(f)
}

// Contains reports whether key was possibly added, delegating to Find.
func (f *BloomFilter) Contains(v any) bool { return f.Find(v.([]byte)) }

// Erase always fails: a standard, non-counting Bloom filter cannot unset
// the bits for one key without risking false negatives for any other key
// hashed onto the same positions.
func (f *BloomFilter) Erase(v any) error {
	return reportError(f.hook, "BloomFilter.Erase", NotImplemented, nil)
}

// EraseAll always returns 0, since Erase never succeeds.
func (f *BloomFilter) EraseAll(v any) int { return 0 }

// Apply has nothing to visit: a Bloom filter stores hashed bit positions,
// not retrievable elements.
func (f *BloomFilter) Apply(fn func(v any, arg any) bool, arg any) int { return 0 }

// Equal reports whether f and other share the same shape and bit pattern.
func (f *BloomFilter) Equal(other *BloomFilter) bool {
	if f.m != other.m || f.k != other.k || len(f.bits) != len(other.bits) {
		return false
	}
	for i := range f.bits {
		if f.bits[i] != other.bits[i] {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of f.
func (f *BloomFilter) Copy() *BloomFilter {
	out := &BloomFilter{Header: newHeader(nil), m: f.m, k: f.k}
	out.bits = append([]uint64(nil), f.bits...)
	out.count = f.count
	return out
}

// bloomIterator vacuously satisfies the iterator protocol: a Bloom filter
// holds no retrievable elements to walk, only hashed bit positions.
type bloomIterator struct{}

// NewIterator returns a cursor that never yields a value.
func (f *BloomFilter) NewIterator() *bloomIterator { return &bloomIterator{} }

func (it *bloomIterator) GetFirst() (bool, bool)    { return false, false }
func (it *bloomIterator) GetNext() (bool, bool)     { return false, false }
func (it *bloomIterator) GetPrevious() (bool, bool) { return false, false }
func (it *bloomIterator) GetLast() (bool, bool)     { return false, false }
func (it *bloomIterator) GetCurrent() (bool, bool)  { return false, false }
func (it *bloomIterator) Seek(int) (bool, bool)     { return false, false }
