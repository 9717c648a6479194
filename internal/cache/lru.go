// Cocktail Menu - Constraint-Based Recipe Selection for Tandoor
// Copyright 2026 smilerz
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/smilerz/cocktail-menu

package cache

// recencyNode is one key in the recency list.
type recencyNode struct {
	key  string
	prev *recencyNode
	next *recencyNode
}

// recencyList orders cache keys from most to least recently used so a
// bounded Cache can evict in O(1). It is not safe for concurrent use; the
// owning Cache guards it with its own mutex.
//
// head.next is the most recently used key, tail.prev the least.
type recencyList struct {
	nodes map[string]*recencyNode
	head  *recencyNode
	tail  *recencyNode
}

func newRecencyList() *recencyList {
	l := &recencyList{
		nodes: make(map[string]*recencyNode),
		head:  &recencyNode{},
		tail:  &recencyNode{},
	}
	l.head.next = l.tail
	l.tail.prev = l.head
	return l
}

// touch marks key as most recently used, adding it if absent.
func (l *recencyList) touch(key string) {
	if n, ok := l.nodes[key]; ok {
		l.unlink(n)
		l.pushFront(n)
		return
	}
	n := &recencyNode{key: key}
	l.nodes[key] = n
	l.pushFront(n)
}

// remove drops key. Unknown keys are ignored.
func (l *recencyList) remove(key string) {
	if n, ok := l.nodes[key]; ok {
		l.unlink(n)
		delete(l.nodes, key)
	}
}

// oldest returns the least recently used key.
func (l *recencyList) oldest() (string, bool) {
	if l.tail.prev == l.head {
		return "", false
	}
	return l.tail.prev.key, true
}

func (l *recencyList) len() int {
	return len(l.nodes)
}

func (l *recencyList) reset() {
	l.nodes = make(map[string]*recencyNode)
	l.head.next = l.tail
	l.tail.prev = l.head
}

func (l *recencyList) pushFront(n *recencyNode) {
	n.prev = l.head
	n.next = l.head.next
	l.head.next.prev = n
	l.head.next = n
}

func (l *recencyList) unlink(n *recencyNode) {
	n.prev.next = n.next
	n.next.prev = n.prev
	n.prev = nil
	n.next = nil
}
