package ccl

import (
	"strings"

	"github.com/bits-and-blooms/bitset"
)

const bitChunkGrow = 32 // bytes added per growth step

// BitString is a packed bit-vector engine. Byte 0 holds bits 0..7 with bit
// 0 in the low-order position.
type BitString struct {
	Header
	buf   []byte
	nbits int
}

// NewBitString creates an empty bit-string.
func NewBitString() *BitString {
	return &BitString{Header: newHeader(nil)}
}

// Size returns the number of live bits.
func (b *BitString) Size() int { return b.nbits }

func byteIndex(i int) (int, byte) { return i / 8, 1 << uint(i%8) }

// Get returns bit i.
func (b *BitString) Get(i int) (bool, error) {
	if i < 0 || i >= b.nbits {
		return false, reportError(b.hook, "BitString.Get", Index, nil)
	}
	byteI, mask := byteIndex(i)
	return b.buf[byteI]&mask != 0, nil
}

// Set writes bit i.
func (b *BitString) Set(i int, v bool) error {
	if err := b.checkWritable("BitString.Set"); err != nil {
		return err
	}
	if i < 0 || i >= b.nbits {
		return reportError(b.hook, "BitString.Set", Index, nil)
	}
	byteI, mask := byteIndex(i)
	if v {
		b.buf[byteI] |= mask
	} else {
		b.buf[byteI] &^= mask
	}
	b.touch()
	return nil
}

func (b *BitString) ensureBit(i int) {
	need := i/8 + 1
	if need <= len(b.buf) {
		return
	}
	grown := ((need + bitChunkGrow - 1) / bitChunkGrow) * bitChunkGrow
	b.buf = b.allocator.Realloc(b.buf, grown)
}

// Add appends one bit at index Size().
func (b *BitString) Add(v bool) error {
	if err := b.checkWritable("BitString.Add"); err != nil {
		return err
	}
	b.ensureBit(b.nbits)
	b.nbits++
	_ = b.Set(b.nbits-1, v)
	b.notify(b, EventAdd, v, nil)
	return nil
}

// InsertAt shifts all bits at or past i left by one (toward higher index),
// one bit at a time, and stores v at i.
func (b *BitString) InsertAt(i int, v bool) error {
	if err := b.checkWritable("BitString.InsertAt"); err != nil {
		return err
	}
	if i < 0 || i > b.nbits {
		return reportError(b.hook, "BitString.InsertAt", Index, nil)
	}
	b.ensureBit(b.nbits)
	b.nbits++
	for j := b.nbits - 1; j > i; j-- {
		prev, _ := b.Get(j - 1)
		_ = b.Set(j, prev)
	}
	_ = b.Set(i, v)
	b.touch()
	return nil
}

// EraseAt shifts all bits past i right by one, one bit at a time, and
// shrinks Size() by one.
func (b *BitString) EraseAt(i int) error {
	if err := b.checkWritable("BitString.EraseAt"); err != nil {
		return err
	}
	if i < 0 || i >= b.nbits {
		return reportError(b.hook, "BitString.EraseAt", Index, nil)
	}
	for j := i; j < b.nbits-1; j++ {
		next, _ := b.Get(j + 1)
		_ = b.Set(j, next)
	}
	b.nbits--
	b.touch()
	return nil
}

func (b *BitString) byteLen() int { return (b.nbits + 7) / 8 }

// tailMask masks off the unused high bits of the final byte.
func (b *BitString) tailMask() byte {
	rem := b.nbits % 8
	if rem == 0 {
		return 0xFF
	}
	return byte(1<<uint(rem)) - 1
}

func combineBits(a, b *BitString, op func(x, y byte) byte, tailFromLonger bool) *BitString {
	longer, shorter := a, b
	if shorter.nbits > longer.nbits {
		longer, shorter = shorter, longer
	}
	out := NewBitString()
	out.nbits = longer.nbits
	out.buf = make([]byte, longer.byteLen())
	shortLen := shorter.byteLen()
	for i := 0; i < shortLen; i++ {
		out.buf[i] = op(a.byteAt(i), b.byteAt(i))
	}
	for i := shortLen; i < len(out.buf); i++ {
		if tailFromLonger {
			out.buf[i] = longer.buf[i]
		} else {
			out.buf[i] = 0
		}
	}
	if len(out.buf) > 0 {
		out.buf[len(out.buf)-1] &= out.tailMask()
	}
	return out
}

func (b *BitString) byteAt(i int) byte {
	if i >= len(b.buf) {
		return 0
	}
	return b.buf[i]
}

// And returns the bitwise AND of b and other; the tail of the longer
// operand is treated as zero.
func (b *BitString) And(other *BitString) *BitString {
	return combineBits(b, other, func(x, y byte) byte { return x & y }, false)
}

// Or returns the bitwise OR of b and other; the tail of the longer operand
// is taken verbatim.
func (b *BitString) Or(other *BitString) *BitString {
	return combineBits(b, other, func(x, y byte) byte { return x | y }, true)
}

// Xor returns the bitwise XOR of b and other; the tail of the longer
// operand is taken verbatim.
func (b *BitString) Xor(other *BitString) *BitString {
	return combineBits(b, other, func(x, y byte) byte { return x ^ y }, true)
}

// Not returns the bitwise complement of b.
func (b *BitString) Not() *BitString {
	out := NewBitString()
	out.nbits = b.nbits
	out.buf = make([]byte, b.byteLen())
	for i := range out.buf {
		out.buf[i] = ^b.buf[i]
	}
	if len(out.buf) > 0 {
		out.buf[len(out.buf)-1] &= out.tailMask()
	}
	return out
}

// AndAssign mutates b in place to the AND of b and other.
func (b *BitString) AndAssign(other *BitString) { b.assignFrom(b.And(other)) }

// OrAssign mutates b in place to the OR of b and other.
func (b *BitString) OrAssign(other *BitString) { b.assignFrom(b.Or(other)) }

// XorAssign mutates b in place to the XOR of b and other.
func (b *BitString) XorAssign(other *BitString) { b.assignFrom(b.Xor(other)) }

func (b *BitString) assignFrom(other *BitString) {
	b.buf, b.nbits = other.buf, other.nbits
	b.touch()
}

// LeftShift shifts bits left (toward higher index) by n, moving one bit at
// a time; a shift of >= Size() zeros the whole string.
func (b *BitString) LeftShift(n int) {
	if n >= b.nbits {
		for i := range b.buf {
			b.buf[i] = 0
		}
		b.touch()
		return
	}
	for i := b.nbits - 1; i >= n; i-- {
		v, _ := b.Get(i - n)
		_ = b.Set(i, v)
	}
	for i := 0; i < n; i++ {
		_ = b.Set(i, false)
	}
	b.touch()
}

// RightShift shifts bits right (toward lower index) by n, moving one bit at
// a time; a shift of >= Size() zeros the whole string.
func (b *BitString) RightShift(n int) {
	if n >= b.nbits {
		for i := range b.buf {
			b.buf[i] = 0
		}
		b.touch()
		return
	}
	for i := 0; i < b.nbits-n; i++ {
		v, _ := b.Get(i + n)
		_ = b.Set(i, v)
	}
	for i := b.nbits - n; i < b.nbits; i++ {
		_ = b.Set(i, false)
	}
	b.touch()
}

// popcountByte counts the set bits of one byte with SWAR sums: bit pairs,
// then nibbles, then the two nibbles added; no multiply step is used.
func popcountByte(x byte) int {
	x = x - ((x >> 1) & 0x55)
	x = (x & 0x33) + ((x >> 2) & 0x33)
	x = (x + (x >> 4)) & 0x0F
	return int(x)
}

// PopulationCount counts the set bits among the live Size() bits.
func (b *BitString) PopulationCount() int {
	n := 0
	full := b.nbits / 8
	for i := 0; i < full; i++ {
		n += popcountByte(b.buf[i])
	}
	rem := b.nbits % 8
	if rem > 0 {
		mask := byte(1<<uint(rem)) - 1
		n += popcountByte(b.buf[full] & mask)
	}
	return n
}

// BitBlockCount counts maximal runs of 1-bits by walking the bits in index
// order and counting every 1 whose preceding bit is 0 (or absent), so runs
// that cross a byte boundary count once.
func (b *BitString) BitBlockCount() int {
	blocks := 0
	prevBitSet := false
	for i := 0; i < b.nbits; i++ {
		v, _ := b.Get(i)
		if v && !prevBitSet {
			blocks++
		}
		prevBitSet = v
	}
	return blocks
}

// StringToBitString parses an ASCII stream of '0'/'1', separators (space,
// tab, comma), and an optional "0b" prefix. Bits read left-to-right become
// bits of decreasing index: the leftmost printed bit is the most
// significant bit of the number.
func StringToBitString(s string) (*BitString, error) {
	s = strings.TrimPrefix(s, "0b")
	var digits []byte
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '0', '1':
			digits = append(digits, c)
		case ' ', '\t', ',':
			continue
		default:
			return nil, reportError(nil, "StringToBitString", BadArg, nil)
		}
	}
	out := NewBitString()
	for i := len(digits) - 1; i >= 0; i-- {
		_ = out.Add(digits[i] == '1')
	}
	return out, nil
}

// BitBitstr searches text for pattern by trying every bit offset in
// increasing order and comparing the pattern bit by bit. Returns
// 1+bitIndex of the first match, 0 if absent.
func BitBitstr(text, pattern *BitString) int {
	if pattern.nbits == 0 || pattern.nbits > text.nbits {
		return 0
	}
	for start := 0; start+pattern.nbits <= text.nbits; start++ {
		match := true
		for j := 0; j < pattern.nbits; j++ {
			a, _ := text.Get(start + j)
			c, _ := pattern.Get(j)
			if a != c {
				match = false
				break
			}
		}
		if match {
			return 1 + start
		}
	}
	return 0
}

// ToBitSet returns a github.com/bits-and-blooms/bitset view of b's current
// bits, for callers that want that package's own set-algebra or
// serialization.
func (b *BitString) ToBitSet() *bitset.BitSet {
	out := bitset.New(uint(b.nbits))
	for i := 0; i < b.nbits; i++ {
		v, _ := b.Get(i)
		if v {
			out.Set(uint(i))
		}
	}
	return out
}

// FromBitSet builds a BitString from a github.com/bits-and-blooms/bitset,
// truncated or zero-extended to length n.
func FromBitSet(bs *bitset.BitSet, n int) *BitString {
	out := NewBitString()
	for i := 0; i < n; i++ {
		_ = out.Add(bs.Test(uint(i)))
	}
	return out
}

// Clear empties the bit-string.
func (b *BitString) Clear() {
	b.buf = nil
	b.nbits = 0
	b.touch()
	b.notify(b, EventClear, nil, nil)
}

// Copy returns a deep copy of b.
func (b *BitString) Copy() *BitString {
	out := NewBitString()
	out.nbits = b.nbits
	out.buf = append([]byte(nil), b.buf...)
	return out
}

// Equal reports whether b and other hold the same bits.
func (b *BitString) Equal(other *BitString) bool {
	if b.nbits != other.nbits {
		return false
	}
	for i := 0; i < b.byteLen()-1; i++ {
		if b.buf[i] != other.buf[i] {
			return false
		}
	}
	if b.byteLen() > 0 {
		m := b.tailMask()
		if b.buf[b.byteLen()-1]&m != other.buf[b.byteLen()-1]&m {
			return false
		}
	}
	return true
}

// Finalize releases b's storage.
func (b *BitString) Finalize() {
	b.Clear()
	b.notify(b, EventFinalize, nil, nil)
	unsubscribeAll(b)
}

// Contains reports whether any bit equals v.
func (b *BitString) Contains(v bool) bool {
	for i := 0; i < b.nbits; i++ {
		if got, _ := b.Get(i); got == v {
			return true
		}
	}
	return false
}

// Erase removes the first bit equal to v, shifting every later bit down.
func (b *BitString) Erase(v bool) error {
	for i := 0; i < b.nbits; i++ {
		if got, _ := b.Get(i); got == v {
			return b.EraseAt(i)
		}
	}
	return reportError(b.hook, "BitString.Erase", NotFound, nil)
}

// EraseAll removes every bit equal to v, returning the count removed.
func (b *BitString) EraseAll(v bool) int {
	n := 0
	for b.Erase(v) == nil {
		n++
	}
	return n
}

// Apply visits every bit in index order, calling fn(value, arg); fn
// returning false stops the walk early. Returns the number of bits visited.
func (b *BitString) Apply(fn func(v bool, arg any) bool, arg any) int {
	n := 0
	for i := 0; i < b.nbits; i++ {
		v, _ := b.Get(i)
		n++
		if !fn(v, arg) {
			break
		}
	}
	return n
}

// bitstringIterator is a snapshot-on-creation cursor over b's bits.
type bitstringIterator struct {
	b         *BitString
	cur       int
	savedTime uint64
}

// NewIterator returns a cursor bound to b, snapshotting its timestamp.
func (b *BitString) NewIterator() *bitstringIterator {
	return &bitstringIterator{b: b, cur: -1, savedTime: b.Timestamp()}
}

func (it *bitstringIterator) yield(i int) (bool, bool) {
	if checkIterator("BitStringIterator", it.b.hook, it.b, it.savedTime) != nil {
		return false, false
	}
	if i < 0 || i >= it.b.nbits {
		return false, false
	}
	it.cur = i
	v, _ := it.b.Get(i)
	return v, true
}

func (it *bitstringIterator) GetFirst() (bool, bool)    { return it.yield(0) }
func (it *bitstringIterator) GetLast() (bool, bool)     { return it.yield(it.b.nbits - 1) }
func (it *bitstringIterator) GetNext() (bool, bool)     { return it.yield(it.cur + 1) }
func (it *bitstringIterator) GetPrevious() (bool, bool) { return it.yield(it.cur - 1) }
func (it *bitstringIterator) GetCurrent() (bool, bool)  { return it.yield(it.cur) }
func (it *bitstringIterator) Seek(index int) (bool, bool) { return it.yield(index) }
