package mesh

// List is a singly linked list split into two sections: an active front
// holding elements subject to active processes, and a boundary back holding
// everything along the network rim. Each section preserves insertion order.
// The zero value is an empty list.
//
// Every operation keeps ActiveLen equal to the true number of nodes in the
// active section, whichever section a node moves between.
type List[T any] struct {
	first, last *ListNode[T]
	lastActive  *ListNode[T]
	size        int
	activeSize  int
}

// ListNode is one element of a List. Walk the list with Next.
type ListNode[T any] struct {
	Value T
	next  *ListNode[T]
}

// Next returns the following node, or nil at the end of the list.
func (n *ListNode[T]) Next() *ListNode[T] {
	return n.next
}

// Len returns the total number of nodes.
func (l *List[T]) Len() int {
	return l.size
}

// ActiveLen returns the number of nodes in the active section.
func (l *List[T]) ActiveLen() int {
	return l.activeSize
}

// ActiveEmpty reports whether the active section is empty.
func (l *List[T]) ActiveEmpty() bool {
	return l.lastActive == nil
}

// BoundEmpty reports whether the boundary section is empty.
func (l *List[T]) BoundEmpty() bool {
	return l.lastActive == l.last
}

// Front returns the first node, or nil when the list is empty.
func (l *List[T]) Front() *ListNode[T] {
	return l.first
}

// LastActive returns the last node of the active section, or nil when the
// active section is empty.
func (l *List[T]) LastActive() *ListNode[T] {
	return l.lastActive
}

// FirstBoundary returns the first node of the boundary section, or nil when
// the boundary section is empty.
func (l *List[T]) FirstBoundary() *ListNode[T] {
	switch {
	case l.lastActive == nil:
		return l.first
	case l.lastActive == l.last:
		return nil
	default:
		return l.lastActive.next
	}
}

// PushActiveFront inserts v at the head of the active section.
func (l *List[T]) PushActiveFront(v T) *ListNode[T] {
	n := &ListNode[T]{Value: v, next: l.first}
	l.first = n
	if l.last == nil {
		l.last = n
	}
	if l.lastActive == nil {
		l.lastActive = n
	}
	l.size++
	l.activeSize++
	return n
}

// PushActiveBack inserts v at the tail of the active section.
func (l *List[T]) PushActiveBack(v T) *ListNode[T] {
	n := &ListNode[T]{Value: v}
	switch {
	case l.first == nil:
		l.first, l.last = n, n
	case l.lastActive == nil:
		n.next = l.first
		l.first = n
	default:
		n.next = l.lastActive.next
		l.lastActive.next = n
		if l.lastActive == l.last {
			l.last = n
		}
	}
	l.lastActive = n
	l.size++
	l.activeSize++
	return n
}

// PushBoundFront inserts v at the head of the boundary section.
func (l *List[T]) PushBoundFront(v T) *ListNode[T] {
	n := &ListNode[T]{Value: v}
	switch {
	case l.first == nil:
		l.first, l.last = n, n
	case l.lastActive == nil:
		n.next = l.first
		l.first = n
	default:
		n.next = l.lastActive.next
		l.lastActive.next = n
		if l.lastActive == l.last {
			l.last = n
		}
	}
	l.size++
	return n
}

// PushBoundBack inserts v at the tail of the boundary section.
func (l *List[T]) PushBoundBack(v T) *ListNode[T] {
	n := &ListNode[T]{Value: v}
	if l.last == nil {
		l.first, l.last = n, n
	} else {
		l.last.next = n
		l.last = n
	}
	l.size++
	return n
}

// PopFront removes and returns the first node's value. The second return is
// false when the list is empty.
func (l *List[T]) PopFront() (T, bool) {
	var zero T
	if l.first == nil {
		return zero, false
	}
	n := l.first
	if l.lastActive != nil {
		l.activeSize--
		if l.lastActive == n {
			l.lastActive = nil
		}
	}
	l.first = n.next
	if l.first == nil {
		l.last = nil
	}
	l.size--
	n.next = nil
	return n.Value, true
}

// PopBoundFront removes and returns the first boundary node's value.
func (l *List[T]) PopBoundFront() (T, bool) {
	var zero T
	if l.BoundEmpty() {
		return zero, false
	}
	var n *ListNode[T]
	if l.lastActive == nil {
		n = l.first
		l.first = n.next
	} else {
		n = l.lastActive.next
		l.lastActive.next = n.next
	}
	if l.last == n {
		l.last = l.lastActive
	}
	l.size--
	n.next = nil
	return n.Value, true
}

// PopActiveBack removes and returns the last active node's value.
func (l *List[T]) PopActiveBack() (T, bool) {
	var zero T
	if l.lastActive == nil {
		return zero, false
	}
	n := l.lastActive
	if l.first == n {
		l.first = n.next
		if l.last == n {
			l.last = nil
		}
		l.lastActive = nil
	} else {
		prev := l.first
		for prev.next != n {
			prev = prev.next
		}
		prev.next = n.next
		if l.last == n {
			l.last = prev
		}
		l.lastActive = prev
	}
	l.size--
	l.activeSize--
	n.next = nil
	return n.Value, true
}

// detach unlinks n, fixing first, last, and lastActive. The caller settles
// activeSize before the surrounding links change.
func (l *List[T]) detach(n *ListNode[T]) {
	var prev *ListNode[T]
	if n != l.first {
		prev = l.first
		for prev.next != n {
			prev = prev.next
		}
	}
	if prev == nil {
		l.first = n.next
	} else {
		prev.next = n.next
	}
	if l.last == n {
		l.last = prev
	}
	if l.lastActive == n {
		l.lastActive = prev
	}
	n.next = nil
	l.size--
}

// MoveToBack moves n to the tail of the boundary section. A node already at
// the tail stays put.
func (l *List[T]) MoveToBack(n *ListNode[T]) {
	if n == nil || n == l.last {
		return
	}
	if l.InActiveList(n) {
		l.activeSize--
	}
	l.detach(n)
	l.last.next = n
	l.last = n
	l.size++
}

// MoveToFront moves n to the head of the active section. A node already at
// the head stays put.
func (l *List[T]) MoveToFront(n *ListNode[T]) {
	if n == nil || n == l.first {
		return
	}
	wasActive := l.InActiveList(n)
	l.detach(n)
	n.next = l.first
	l.first = n
	if l.last == nil {
		l.last = n
	}
	if l.lastActive == nil {
		l.lastActive = n
	}
	l.size++
	if !wasActive {
		l.activeSize++
	}
}

// MoveToActiveBack moves n to the tail of the active section.
func (l *List[T]) MoveToActiveBack(n *ListNode[T]) {
	if n == nil || n == l.lastActive {
		return
	}
	wasActive := l.InActiveList(n)
	l.detach(n)
	if l.lastActive == nil {
		n.next = l.first
		l.first = n
		if l.last == nil {
			l.last = n
		}
	} else {
		n.next = l.lastActive.next
		l.lastActive.next = n
		if l.lastActive == l.last {
			l.last = n
		}
	}
	l.lastActive = n
	l.size++
	if !wasActive {
		l.activeSize++
	}
}

// MoveToBoundFront moves n to the head of the boundary section.
func (l *List[T]) MoveToBoundFront(n *ListNode[T]) {
	if n == nil || n == l.FirstBoundary() {
		return
	}
	wasActive := l.InActiveList(n)
	l.detach(n)
	if l.lastActive == nil {
		n.next = l.first
		l.first = n
		if l.last == nil {
			l.last = n
		}
	} else {
		n.next = l.lastActive.next
		l.lastActive.next = n
		if l.lastActive == l.last {
			l.last = n
		}
	}
	l.size++
	if wasActive {
		l.activeSize--
	}
}

// FrontToBack rotates the first node to the boundary tail. With a single
// node the list order cannot change, but the node still reclassifies as
// boundary. Returns false on an empty list.
func (l *List[T]) FrontToBack() bool {
	if l.first == nil {
		return false
	}
	n := l.first
	if n == l.last {
		if l.lastActive == n {
			l.lastActive = nil
			l.activeSize--
		}
		return true
	}
	l.MoveToBack(n)
	return true
}

// InActiveList reports whether n currently sits in the active section.
func (l *List[T]) InActiveList(n *ListNode[T]) bool {
	if n == nil || l.lastActive == nil {
		return false
	}
	for cur := l.first; cur != nil; cur = cur.next {
		if cur == n {
			return true
		}
		if cur == l.lastActive {
			return false
		}
	}
	return false
}

// EachActive calls fn for each active node in order until fn returns false.
func (l *List[T]) EachActive(fn func(*ListNode[T]) bool) {
	if l.lastActive == nil {
		return
	}
	for n := l.first; n != nil; n = n.next {
		if !fn(n) {
			return
		}
		if n == l.lastActive {
			return
		}
	}
}

// EachBoundary calls fn for each boundary node in order until fn returns
// false.
func (l *List[T]) EachBoundary(fn func(*ListNode[T]) bool) {
	for n := l.FirstBoundary(); n != nil; n = n.next {
		if !fn(n) {
			return
		}
	}
}

// Flush empties the list.
func (l *List[T]) Flush() {
	l.first, l.last, l.lastActive = nil, nil, nil
	l.size, l.activeSize = 0, 0
}
