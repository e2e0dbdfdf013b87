package ccl

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
)

// guid identifies which engine produced a Save stream, so Load can refuse a
// file written by the wrong container type instead of misinterpreting its
// bytes.
type guid [16]byte

var (
	guidVector         = guid{'c', 'c', 'l', 'v', 'e', 'c', 't', 'o', 'r', '0', '1', 0, 0, 0, 0, 0}
	guidList           = guid{'c', 'c', 'l', 'l', 'i', 's', 't', '0', '1', 0, 0, 0, 0, 0, 0, 0}
	guidDictionary     = guid{'c', 'c', 'l', 'd', 'i', 'c', 't', '0', '1', 0, 0, 0, 0, 0, 0, 0}
	guidAVLTree        = guid{'c', 'c', 'l', 'a', 'v', 'l', '0', '1', 0, 0, 0, 0, 0, 0, 0, 0}
	guidBitString      = guid{'c', 'c', 'l', 'b', 'i', 't', 's', '0', '1', 0, 0, 0, 0, 0, 0, 0}
	guidCircularBuffer = guid{'c', 'c', 'l', 'c', 'b', 'u', 'f', '0', '1', 0, 0, 0, 0, 0, 0, 0}
	guidBloomFilter    = guid{'c', 'c', 'l', 'b', 'l', 'o', 'o', 'm', '0', '1', 0, 0, 0, 0, 0, 0}
)

func writeGUID(w ByteWriter, g guid) error {
	_, err := w.Write(g[:])
	return err
}

func readGUID(r ByteReader) (guid, error) {
	var g guid
	if err := readFull(r, g[:]); err != nil {
		return g, err
	}
	return g, nil
}

// readFull drains r into buf, since ByteReader makes no guarantee a single
// Read call fills it.
func readFull(r ByteReader, buf []byte) error {
	for n := 0; n < len(buf); {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil && n < len(buf) {
			return reportError(nil, "codec.readFull", FileRead, err)
		}
	}
	return nil
}

// putUvarint128 writes v as a ULE128 varint: little-endian base-128, 7 data
// bits per byte, continuation bit set on every byte but the last.
func putUvarint128(w ByteWriter, v uint64) error {
	var buf [10]byte
	n := 0
	for v >= 0x80 {
		buf[n] = byte(v) | 0x80
		v >>= 7
		n++
	}
	buf[n] = byte(v)
	n++
	if _, err := w.Write(buf[:n]); err != nil {
		return reportError(nil, "codec.putUvarint128", FileWrite, err)
	}
	return nil
}

// readUvarint128 reads a ULE128 varint written by putUvarint128.
func readUvarint128(r ByteReader) (uint64, error) {
	var result uint64
	var shift uint
	for {
		var b [1]byte
		if err := readFull(r, b[:]); err != nil {
			return 0, err
		}
		result |= uint64(b[0]&0x7F) << shift
		if b[0]&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= 64 {
			return 0, reportError(nil, "codec.readUvarint128", BadArg, nil)
		}
	}
	return result, nil
}

// writeRecord frames payload with a ULE128 length prefix, mirroring the
// delimited stream layout every persistence format in this package uses: a
// fixed header followed by length-prefixed variable records.
func writeRecord(w ByteWriter, payload []byte) error {
	if err := putUvarint128(w, uint64(len(payload))); err != nil {
		return reportError(nil, "codec.writeRecord", FileWrite, err)
	}
	if _, err := w.Write(payload); err != nil {
		return reportError(nil, "codec.writeRecord", FileWrite, err)
	}
	return nil
}

func readRecord(r ByteReader) ([]byte, error) {
	n, err := readUvarint128(r)
	if err != nil {
		return nil, err
	}
	payload := make([]byte, n)
	if err := readFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func gobEncode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&v); err != nil {
		return nil, reportError(nil, "codec.gobEncode", FileWrite, err)
	}
	return buf.Bytes(), nil
}

func gobDecode(payload []byte) (any, error) {
	var v any
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&v); err != nil {
		return nil, reportError(nil, "codec.gobDecode", FileRead, err)
	}
	return v, nil
}

// saveSequential writes g, the element count, and every element of seq in
// traversal order, each gob-encoded and length-framed so Load can stop at
// the right boundary regardless of the concrete element type.
func saveSequential(w ByteWriter, g guid, seq Sequential) error {
	if err := writeGUID(w, g); err != nil {
		return reportError(nil, "Sequential.Save", FileWrite, err)
	}
	var countBuf [8]byte
	binary.BigEndian.PutUint64(countBuf[:], uint64(seq.Size()))
	if _, err := w.Write(countBuf[:]); err != nil {
		return reportError(nil, "Sequential.Save", FileWrite, err)
	}
	var saveErr error
	seq.Apply(func(v any, _ any) bool {
		payload, err := gobEncode(v)
		if err != nil {
			saveErr = err
			return false
		}
		if err := writeRecord(w, payload); err != nil {
			saveErr = err
			return false
		}
		return true
	}, nil)
	return saveErr
}

// saveAssociative writes g, the pair count, and every key/value pair of assoc,
// each pair framed as a length-prefixed key followed by a length-prefixed
// gob-encoded value.
func saveAssociative(w ByteWriter, g guid, assoc Associative) error {
	if err := writeGUID(w, g); err != nil {
		return reportError(nil, "Associative.Save", FileWrite, err)
	}
	d, ok := assoc.(dictBoxSaver)
	if !ok {
		return reportError(nil, "Associative.Save", NotImplemented, nil)
	}
	return d.saveInto(w)
}

// dictBoxSaver is implemented by dictBox so saveAssociative can walk its
// buckets directly instead of round-tripping keys through Associative, which
// exposes no key enumeration.
type dictBoxSaver interface {
	saveInto(w ByteWriter) error
}

// saveContainer writes g, size, and every element apply yields, each
// gob-encoded and length-framed — the Container-only counterpart of
// saveSequential for engines (AVLTree, BitString) whose box exposes Apply
// but not a full Sequential shape.
func saveContainer(w ByteWriter, g guid, size int, apply func(fn func(v any, arg any) bool, arg any) int) error {
	if err := writeGUID(w, g); err != nil {
		return reportError(nil, "Container.Save", FileWrite, err)
	}
	var countBuf [8]byte
	binary.BigEndian.PutUint64(countBuf[:], uint64(size))
	if _, err := w.Write(countBuf[:]); err != nil {
		return reportError(nil, "Container.Save", FileWrite, err)
	}
	var saveErr error
	apply(func(v any, _ any) bool {
		payload, err := gobEncode(v)
		if err != nil {
			saveErr = err
			return false
		}
		if err := writeRecord(w, payload); err != nil {
			saveErr = err
			return false
		}
		return true
	}, nil)
	return saveErr
}

// saveBloomFilter writes f's shape and raw bit words directly, since a Bloom
// filter has no enumerable elements for saveContainer's Apply-based framing
// to walk.
func saveBloomFilter(w ByteWriter, f *BloomFilter) error {
	if err := writeGUID(w, guidBloomFilter); err != nil {
		return reportError(nil, "BloomFilter.Save", FileWrite, err)
	}
	var header [24]byte
	binary.BigEndian.PutUint64(header[0:8], f.m)
	binary.BigEndian.PutUint64(header[8:16], uint64(f.k))
	binary.BigEndian.PutUint64(header[16:24], uint64(len(f.bits)))
	if _, err := w.Write(header[:]); err != nil {
		return reportError(nil, "BloomFilter.Save", FileWrite, err)
	}
	for _, word := range f.bits {
		var wb [8]byte
		binary.BigEndian.PutUint64(wb[:], word)
		if _, err := w.Write(wb[:]); err != nil {
			return reportError(nil, "BloomFilter.Save", FileWrite, err)
		}
	}
	return nil
}

// LoadBloomFilter reads a stream written by saveBloomFilter, failing with
// WrongFile if the leading GUID does not match a Bloom filter stream.
func LoadBloomFilter(r ByteReader) (*BloomFilter, error) {
	g, err := readGUID(r)
	if err != nil {
		return nil, err
	}
	if g != guidBloomFilter {
		return nil, reportError(nil, "LoadBloomFilter", WrongFile, nil)
	}
	var header [24]byte
	if err := readFull(r, header[:]); err != nil {
		return nil, err
	}
	m := binary.BigEndian.Uint64(header[0:8])
	k := int(binary.BigEndian.Uint64(header[8:16]))
	nWords := int(binary.BigEndian.Uint64(header[16:24]))
	bits := make([]uint64, nWords)
	for i := range bits {
		var wb [8]byte
		if err := readFull(r, wb[:]); err != nil {
			return nil, err
		}
		bits[i] = binary.BigEndian.Uint64(wb[:])
	}
	return &BloomFilter{Header: newHeader(nil), m: m, k: k, bits: bits}, nil
}

func (b dictBox[V]) saveInto(w ByteWriter) error {
	var countBuf [8]byte
	binary.BigEndian.PutUint64(countBuf[:], uint64(b.d.Size()))
	if _, err := w.Write(countBuf[:]); err != nil {
		return reportError(nil, "Dictionary.Save", FileWrite, err)
	}
	for _, head := range b.d.buckets {
		for e := head; e != nil; e = e.next {
			if err := writeRecord(w, []byte(e.key)); err != nil {
				return err
			}
			payload, err := gobEncode(e.val)
			if err != nil {
				return err
			}
			if err := writeRecord(w, payload); err != nil {
				return err
			}
		}
	}
	return nil
}

// LoadVector reads a stream written by Vector.AsSequential().Save, failing
// with WrongFile if the leading GUID does not match a Vector stream.
func LoadVector[T any](r ByteReader) (*Vector[T], error) {
	g, err := readGUID(r)
	if err != nil {
		return nil, err
	}
	if g != guidVector {
		return nil, reportError(nil, "LoadVector", WrongFile, nil)
	}
	var countBuf [8]byte
	if err := readFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint64(countBuf[:]))
	out := NewVector[T](n)
	for i := 0; i < n; i++ {
		payload, err := readRecord(r)
		if err != nil {
			return nil, err
		}
		v, err := gobDecode(payload)
		if err != nil {
			return nil, err
		}
		if err := out.Add(v.(T)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// LoadList reads a stream written by List.AsSequential().Save, failing with
// WrongFile if the leading GUID does not match a List stream.
func LoadList[T any](r ByteReader) (*List[T], error) {
	g, err := readGUID(r)
	if err != nil {
		return nil, err
	}
	if g != guidList {
		return nil, reportError(nil, "LoadList", WrongFile, nil)
	}
	var countBuf [8]byte
	if err := readFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint64(countBuf[:]))
	out := NewList[T]()
	for i := 0; i < n; i++ {
		payload, err := readRecord(r)
		if err != nil {
			return nil, err
		}
		v, err := gobDecode(payload)
		if err != nil {
			return nil, err
		}
		if err := out.PushBack(v.(T)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// LoadDictionary reads a stream written by Dictionary.AsAssociative().Save,
// failing with WrongFile if the leading GUID does not match a Dictionary
// stream.
func LoadDictionary[V any](r ByteReader) (*Dictionary[V], error) {
	g, err := readGUID(r)
	if err != nil {
		return nil, err
	}
	if g != guidDictionary {
		return nil, reportError(nil, "LoadDictionary", WrongFile, nil)
	}
	var countBuf [8]byte
	if err := readFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint64(countBuf[:]))
	out := NewDictionary[V](n)
	for i := 0; i < n; i++ {
		keyBytes, err := readRecord(r)
		if err != nil {
			return nil, err
		}
		payload, err := readRecord(r)
		if err != nil {
			return nil, err
		}
		v, err := gobDecode(payload)
		if err != nil {
			return nil, err
		}
		if _, err := out.Add(string(keyBytes), v.(V)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// LoadAVLTree reads a stream written by AVLTree.AsContainer().Save, failing
// with WrongFile if the leading GUID does not match an AVLTree stream. cmp
// must order T the same way the tree that wrote the stream did.
func LoadAVLTree[T any](r ByteReader, cmp CompareFunc[T]) (*AVLTree[T], error) {
	g, err := readGUID(r)
	if err != nil {
		return nil, err
	}
	if g != guidAVLTree {
		return nil, reportError(nil, "LoadAVLTree", WrongFile, nil)
	}
	var countBuf [8]byte
	if err := readFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint64(countBuf[:]))
	out := NewAVLTree[T](cmp)
	for i := 0; i < n; i++ {
		payload, err := readRecord(r)
		if err != nil {
			return nil, err
		}
		v, err := gobDecode(payload)
		if err != nil {
			return nil, err
		}
		if err := out.Add(v.(T)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// LoadBitString reads a stream written by BitString.AsContainer().Save,
// failing with WrongFile if the leading GUID does not match a BitString
// stream.
func LoadBitString(r ByteReader) (*BitString, error) {
	g, err := readGUID(r)
	if err != nil {
		return nil, err
	}
	if g != guidBitString {
		return nil, reportError(nil, "LoadBitString", WrongFile, nil)
	}
	var countBuf [8]byte
	if err := readFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint64(countBuf[:]))
	out := NewBitString()
	for i := 0; i < n; i++ {
		payload, err := readRecord(r)
		if err != nil {
			return nil, err
		}
		v, err := gobDecode(payload)
		if err != nil {
			return nil, err
		}
		if err := out.Add(v.(bool)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// LoadCircularBuffer reads a stream written by
// CircularBuffer.AsSequential().Save into a ring of the given capacity,
// failing with WrongFile if the leading GUID does not match a
// CircularBuffer stream.
func LoadCircularBuffer[T any](r ByteReader, capacity int) (*CircularBuffer[T], error) {
	g, err := readGUID(r)
	if err != nil {
		return nil, err
	}
	if g != guidCircularBuffer {
		return nil, reportError(nil, "LoadCircularBuffer", WrongFile, nil)
	}
	var countBuf [8]byte
	if err := readFull(r, countBuf[:]); err != nil {
		return nil, err
	}
	n := int(binary.BigEndian.Uint64(countBuf[:]))
	out := NewCircularBuffer[T](capacity)
	for i := 0; i < n; i++ {
		payload, err := readRecord(r)
		if err != nil {
			return nil, err
		}
		v, err := gobDecode(payload)
		if err != nil {
			return nil, err
		}
		out.Add(v.(T))
	}
	return out, nil
}
