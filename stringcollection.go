package ccl

import "strings"

// StringCollection specializes Vector[string] with case-sensitive and
// case-insensitive comparison helpers, the common case of a container whose
// elements are keys or lines of text.
type StringCollection struct {
	*Vector[string]
}

// NewStringCollection creates an empty, case-sensitive StringCollection.
func NewStringCollection(capacity int) *StringCollection {
	sc := &StringCollection{Vector: NewVector[string](capacity)}
	sc.SetEqualFunc(func(a, b string) bool { return a == b })
	sc.SetCompareFunc(strings.Compare)
	return sc
}

// SetCaseInsensitive switches Contains/Erase/IndexOf/Sort to fold case.
func (sc *StringCollection) SetCaseInsensitive() {
	sc.SetEqualFunc(strings.EqualFold)
	sc.SetCompareFunc(func(a, b string) int { return strings.Compare(strings.ToLower(a), strings.ToLower(b)) })
}

// SetCaseSensitive restores byte-exact comparison, the default at creation.
func (sc *StringCollection) SetCaseSensitive() {
	sc.SetEqualFunc(func(a, b string) bool { return a == b })
	sc.SetCompareFunc(strings.Compare)
}

// Join concatenates every element with sep, in traversal order.
func (sc *StringCollection) Join(sep string) string {
	out := make([]string, 0, sc.Size())
	it := sc.NewIterator()
	for v, ok := it.GetFirst(); ok; v, ok = it.GetNext() {
		out = append(out, v)
	}
	return strings.Join(out, sep)
}

// HasPrefix reports whether any element starts with prefix.
func (sc *StringCollection) HasPrefix(prefix string) bool {
	found := false
	it := sc.NewIterator()
	for v, ok := it.GetFirst(); ok; v, ok = it.GetNext() {
		if strings.HasPrefix(v, prefix) {
			found = true
			break
		}
	}
	return found
}
