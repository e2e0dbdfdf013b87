package ccl

// avlNode carries a balance factor constrained to {-1, 0, +1}, maintained
// through rotation on every insert/erase.
type avlNode[T any] struct {
	val         T
	left, right *avlNode[T]
	balance     int8
}

// AVLTree is a self-balancing ordered-set engine.
type AVLTree[T any] struct {
	Header
	root       *avlNode[T]
	compare    CompareFunc[T]
	destructor func(T)
	arena      *Pool
}

// NewAVLTree creates an empty tree ordered by cmp.
func NewAVLTree[T any](cmp CompareFunc[T]) *AVLTree[T] {
	return &AVLTree[T]{Header: newHeader(nil), compare: cmp}
}

// SetDestructor installs a per-element finalizer.
func (t *AVLTree[T]) SetDestructor(fn func(T)) { t.destructor = fn }

// UseHeap attaches p as the arena new nodes draw their byte accounting from;
// fails with NotEmpty if the tree already holds elements.
func (t *AVLTree[T]) UseHeap(p *Pool) error {
	if t.count != 0 {
		return reportError(t.hook, "AVLTree.UseHeap", NotEmpty, nil)
	}
	t.arena = p
	return nil
}

func (t *AVLTree[T]) newNode(val T) *avlNode[T] {
	if t.arena != nil {
		t.arena.Alloc(nodePayloadSize[T]())
	}
	return &avlNode[T]{val: val}
}

// Size returns the number of live elements.
func (t *AVLTree[T]) Size() int { return t.count }

// Add inserts val, a no-op if an equal value is already present.
func (t *AVLTree[T]) Add(val T) error {
	if err := t.checkWritable("AVLTree.Add"); err != nil {
		return err
	}
	var grew bool
	var inserted bool
	t.root, grew, inserted = t.insert(t.root, val)
	_ = grew
	if inserted {
		t.count++
		t.touch()
		t.notify(t, EventAdd, val, nil)
	}
	return nil
}

// Insert adds val exactly as Add does. aux is not used: AVLTree's
// comparator is a plain CompareFunc with no extra argument, so aux is never
// passed to it.
func (t *AVLTree[T]) Insert(val T, aux any) error {
	return t.Add(val)
}

// insert returns the new subtree root, whether the subtree height grew,
// and whether a new node was actually created.
func (t *AVLTree[T]) insert(n *avlNode[T], val T) (*avlNode[T], bool, bool) {
	if n == nil {
		return t.newNode(val), true, true
	}
	c := t.compare(val, n.val)
	switch {
	case c == 0:
		return n, false, false
	case c < 0:
		var grew, inserted bool
		n.left, grew, inserted = t.insert(n.left, val)
		if !grew {
			return n, false, inserted
		}
		n.balance--
		return t.rebalanceAfterInsert(n), n.balance != 0, inserted
	default:
		var grew, inserted bool
		n.right, grew, inserted = t.insert(n.right, val)
		if !grew {
			return n, false, inserted
		}
		n.balance++
		return t.rebalanceAfterInsert(n), n.balance != 0, inserted
	}
}

func (t *AVLTree[T]) rebalanceAfterInsert(n *avlNode[T]) *avlNode[T] {
	if n.balance == -2 {
		if n.left.balance <= 0 {
			return rotateRight(n)
		}
		n.left = rotateLeft(n.left)
		return rotateRight(n)
	}
	if n.balance == 2 {
		if n.right.balance >= 0 {
			return rotateLeft(n)
		}
		n.right = rotateRight(n.right)
		return rotateLeft(n)
	}
	return n
}

func rotateLeft[T any](n *avlNode[T]) *avlNode[T] {
	r := n.right
	n.right = r.left
	r.left = n
	if r.balance == 0 {
		n.balance = 1
		r.balance = -1
	} else {
		n.balance = 0
		r.balance = 0
	}
	return r
}

func rotateRight[T any](n *avlNode[T]) *avlNode[T] {
	l := n.left
	n.left = l.right
	l.right = n
	if l.balance == 0 {
		n.balance = -1
		l.balance = 1
	} else {
		n.balance = 0
		l.balance = 0
	}
	return l
}

// Find reports whether val is present in the tree.
func (t *AVLTree[T]) Find(val T) bool {
	n := t.root
	for n != nil {
		c := t.compare(val, n.val)
		switch {
		case c == 0:
			return true
		case c < 0:
			n = n.left
		default:
			n = n.right
		}
	}
	return false
}

// Contains is an alias of Find, satisfying the Container protocol.
func (t *AVLTree[T]) Contains(val T) bool { return t.Find(val) }

// Erase removes val, rebalancing each ancestor on the way back out of the
// recursion.
func (t *AVLTree[T]) Erase(val T) error {
	if err := t.checkWritable("AVLTree.Erase"); err != nil {
		return err
	}
	var removed bool
	t.root, _, removed = t.erase(t.root, val)
	if !removed {
		return reportError(t.hook, "AVLTree.Erase", NotFound, nil)
	}
	t.count--
	t.touch()
	t.notify(t, EventEraseAt, val, nil)
	return nil
}

// EraseAll removes val if present, returning 1, or 0 if it was absent; Add
// dedups on insert so a value can never occur more than once.
func (t *AVLTree[T]) EraseAll(val T) int {
	if t.Erase(val) == nil {
		return 1
	}
	return 0
}

// erase returns the new subtree root, whether the subtree height shrank,
// and whether a node was actually removed.
func (t *AVLTree[T]) erase(n *avlNode[T], val T) (*avlNode[T], bool, bool) {
	if n == nil {
		return nil, false, false
	}
	c := t.compare(val, n.val)
	switch {
	case c < 0:
		var shrank, removed bool
		n.left, shrank, removed = t.erase(n.left, val)
		if !removed {
			return n, false, false
		}
		if shrank {
			n.balance++
		}
		return t.rebalanceAfterErase(n), shrank && n.balance == 0, true
	case c > 0:
		var shrank, removed bool
		n.right, shrank, removed = t.erase(n.right, val)
		if !removed {
			return n, false, false
		}
		if shrank {
			n.balance--
		}
		return t.rebalanceAfterErase(n), shrank && n.balance == 0, true
	default:
		if t.destructor != nil {
			t.destructor(n.val)
		}
		if n.left == nil {
			return n.right, true, true
		}
		if n.right == nil {
			return n.left, true, true
		}
		succ := n.right
		for succ.left != nil {
			succ = succ.left
		}
		n.val = succ.val
		var shrank bool
		n.right, shrank, _ = t.erase(n.right, succ.val)
		if shrank {
			n.balance--
		}
		return t.rebalanceAfterErase(n), shrank && n.balance == 0, true
	}
}

func (t *AVLTree[T]) rebalanceAfterErase(n *avlNode[T]) *avlNode[T] {
	if n.balance == -2 {
		if n.left.balance <= 0 {
			return rotateRight(n)
		}
		n.left = rotateLeft(n.left)
		return rotateRight(n)
	}
	if n.balance == 2 {
		if n.right.balance >= 0 {
			return rotateLeft(n)
		}
		n.right = rotateRight(n.right)
		return rotateLeft(n)
	}
	return n
}

// Apply walks the left subtree, visits node, walks the right subtree,
// calling fn(value, arg) at every node; fn returning false stops the walk
// early. Returns the number of nodes actually visited.
func (t *AVLTree[T]) Apply(fn func(v T, arg any) bool, arg any) int {
	visited := 0
	var walk func(n *avlNode[T]) bool
	walk = func(n *avlNode[T]) bool {
		if n == nil {
			return true
		}
		if !walk(n.left) {
			return false
		}
		visited++
		if !fn(n.val, arg) {
			return false
		}
		return walk(n.right)
	}
	walk(t.root)
	return visited
}

// MergeAVL builds a new tree holding every element of left, rootValue, and
// every element of right, added one by one in that order. rootValue is not
// placed at the root of the result: it ends up wherever rebalancing puts it.
func MergeAVL[T any](left, right *AVLTree[T], rootValue T, cmp CompareFunc[T]) *AVLTree[T] {
	out := NewAVLTree[T](cmp)
	out.destructor = left.destructor
	left.Apply(func(v T, _ any) bool { _ = out.Add(v); return true }, nil)
	_ = out.Add(rootValue)
	right.Apply(func(v T, _ any) bool { _ = out.Add(v); return true }, nil)
	return out
}

// Clear empties the tree, running the destructor over every element.
func (t *AVLTree[T]) Clear() {
	if t.destructor != nil {
		t.Apply(func(v T, _ any) bool { t.destructor(v); return true }, nil)
	}
	t.root = nil
	t.count = 0
	t.touch()
	t.notify(t, EventClear, nil, nil)
}

// Copy returns a deep copy preserving shape via re-insertion in-order.
func (t *AVLTree[T]) Copy() *AVLTree[T] {
	out := NewAVLTree[T](t.compare)
	out.destructor = t.destructor
	t.Apply(func(v T, _ any) bool { _ = out.Add(v); return true }, nil)
	return out
}

// Equal reports whether t and other hold the same elements (order-free,
// since a tree's shape isn't semantically meaningful to callers).
func (t *AVLTree[T]) Equal(other *AVLTree[T]) bool {
	if t.count != other.count {
		return false
	}
	eq := true
	t.Apply(func(v T, _ any) bool {
		if !other.Find(v) {
			eq = false
			return false
		}
		return true
	}, nil)
	return eq
}

// Finalize releases every node, running the destructor first.
func (t *AVLTree[T]) Finalize() {
	t.Clear()
	if t.arena != nil {
		t.arena.Destroy()
	}
	t.notify(t, EventFinalize, nil, nil)
	unsubscribeAll(t)
}

// avlIterator performs an in-order walk via an explicit stack, snapshotting
// the tree's timestamp at creation.
type avlIterator[T any] struct {
	t         *AVLTree[T]
	stack     []*avlNode[T]
	cur       *avlNode[T]
	savedTime uint64
	scratch   T
}

// NewIterator returns an in-order cursor bound to t.
func (t *AVLTree[T]) NewIterator() *avlIterator[T] {
	return &avlIterator[T]{t: t, savedTime: t.Timestamp()}
}

func (it *avlIterator[T]) pushLeftSpine(n *avlNode[T]) {
	for n != nil {
		it.stack = append(it.stack, n)
		n = n.left
	}
}

func (it *avlIterator[T]) yield(n *avlNode[T]) (T, bool) {
	if checkIterator("AVLTreeIterator", it.t.hook, it.t, it.savedTime) != nil {
		var zero T
		return zero, false
	}
	if n == nil {
		var zero T
		return zero, false
	}
	it.cur = n
	if it.t.readOnly() {
		it.scratch = n.val
		return it.scratch, true
	}
	return n.val, true
}

// GetFirst resets the cursor to the smallest element.
func (it *avlIterator[T]) GetFirst() (T, bool) {
	it.stack = it.stack[:0]
	it.pushLeftSpine(it.t.root)
	if len(it.stack) == 0 {
		return it.yield(nil)
	}
	n := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	it.pushLeftSpine(n.right)
	return it.yield(n)
}

// GetNext advances the cursor to the next element in order.
func (it *avlIterator[T]) GetNext() (T, bool) {
	if it.cur == nil {
		return it.GetFirst()
	}
	if len(it.stack) == 0 {
		return it.yield(nil)
	}
	n := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]
	it.pushLeftSpine(n.right)
	return it.yield(n)
}

// GetCurrent returns the element under the cursor without advancing.
func (it *avlIterator[T]) GetCurrent() (T, bool) { return it.yield(it.cur) }

// nth resets the cursor to the root and walks the in-order sequence forward
// to its n-th element (0-based), the shared implementation GetLast,
// GetPrevious, and Seek build on since the explicit stack only walks
// forward.
func (it *avlIterator[T]) nth(n int) *avlNode[T] {
	if n < 0 {
		return nil
	}
	it.stack = it.stack[:0]
	it.cur = nil
	it.pushLeftSpine(it.t.root)
	var cand *avlNode[T]
	for i := 0; i <= n; i++ {
		if len(it.stack) == 0 {
			return nil
		}
		cand = it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		it.pushLeftSpine(cand.right)
	}
	return cand
}

// GetLast walks to the largest element in the tree.
func (it *avlIterator[T]) GetLast() (T, bool) {
	return it.yield(it.nth(it.t.Size() - 1))
}

// GetPrevious re-walks from the root to the element before the current one,
// since the explicit stack offers no backward step.
func (it *avlIterator[T]) GetPrevious() (T, bool) {
	if it.cur == nil {
		var zero T
		return zero, false
	}
	return it.yield(it.nth(it.indexOfCurrent() - 1))
}

// Seek moves the cursor to the index-th element in order.
func (it *avlIterator[T]) Seek(index int) (T, bool) { return it.yield(it.nth(index)) }

func (it *avlIterator[T]) indexOfCurrent() int {
	n := 0
	idx := -1
	var walk func(x *avlNode[T]) bool
	walk = func(x *avlNode[T]) bool {
		if x == nil {
			return true
		}
		if !walk(x.left) {
			return false
		}
		if x == it.cur {
			idx = n
			return false
		}
		n++
		return walk(x.right)
	}
	walk(it.t.root)
	return idx
}
