// Package ccl is a generic in-memory container library: Vector, List,
// Dictionary, AVLTree, BitString, StreamBuffer, CircularBuffer, and
// BloomFilter engines sharing a common Header, error, iterator, and
// observer protocol, with Allocator/Pool for callers that want to control
// where element storage comes from.
package ccl
