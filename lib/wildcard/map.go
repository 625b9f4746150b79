// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package wildcard

import (
	"cmp"
	"iter"
	"slices"
	"strings"
)

// Wildcard is the pattern character that matches any run of zero or
// more bytes in [Map.GetWithWildcards] and [Map.RemoveWithWildcards].
const Wildcard = '*'

// Entry is a key/value pair returned by wildcard searches and
// iteration. Key is reconstructed from the trie path byte for byte.
type Entry[V any] struct {
	Key   string
	Value V
}

// Map is a trie-backed map from string keys to values of type V. Keys
// are walked byte by byte, so they need not be valid UTF-8. The zero
// value is not usable; create maps with [New].
type Map[V any] struct {
	root *node[V]
	size int
}

type node[V any] struct {
	children map[byte]*node[V]
	value    V
	occupied bool
}

// New returns an empty Map.
func New[V any]() *Map[V] {
	return &Map[V]{root: &node[V]{}}
}

// Len returns the number of distinct keys stored in the map.
func (m *Map[V]) Len() int {
	return m.size
}

// Put stores value under key, creating trie nodes as needed. If key
// was already present, its previous value is returned with replaced
// set to true and the size is unchanged.
func (m *Map[V]) Put(key string, value V) (previous V, replaced bool) {
	current := m.root
	for i := range len(key) {
		character := key[i]
		child, exists := current.children[character]
		if !exists {
			if current.children == nil {
				current.children = make(map[byte]*node[V])
			}
			child = &node[V]{}
			current.children[character] = child
		}
		current = child
	}

	previous, replaced = current.value, current.occupied
	current.value = value
	if !current.occupied {
		current.occupied = true
		m.size++
	}
	return previous, replaced
}

// Get returns the value stored under key. '*' in key is matched
// literally.
func (m *Map[V]) Get(key string) (V, bool) {
	target := m.find(key)
	if target == nil || !target.occupied {
		var zero V
		return zero, false
	}
	return target.value, true
}

// Contains reports whether key is stored in the map. '*' in key is
// matched literally.
func (m *Map[V]) Contains(key string) bool {
	_, found := m.Get(key)
	return found
}

func (m *Map[V]) find(key string) *node[V] {
	current := m.root
	for i := range len(key) {
		current = current.children[key[i]]
		if current == nil {
			return nil
		}
	}
	return current
}

// GetWithWildcards returns every entry whose key matches pattern, where
// '*' matches any run of zero or more bytes. Results are sorted by
// key and each stored key appears at most once, however many ways the
// pattern can match it.
//
// A pattern without '*' behaves like an exact lookup returning zero or
// one entries.
func (m *Map[V]) GetWithWildcards(pattern string) []Entry[V] {
	search := wildcardSearch[V]{
		pattern: pattern,
		visited: make(map[searchState[V]]struct{}),
	}
	search.walk(m.root, 0)
	slices.SortFunc(search.results, func(a, b Entry[V]) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return search.results
}

// searchState identifies a (trie node, pattern position) pair. Each
// pair is expanded once, which both deduplicates matches reached via
// different '*' expansions and bounds the search to nodes*pattern
// steps.
type searchState[V any] struct {
	node  *node[V]
	index int
}

type wildcardSearch[V any] struct {
	pattern string
	path    []byte
	visited map[searchState[V]]struct{}
	results []Entry[V]
}

func (search *wildcardSearch[V]) walk(current *node[V], index int) {
	state := searchState[V]{node: current, index: index}
	if _, seen := search.visited[state]; seen {
		return
	}
	search.visited[state] = struct{}{}

	if index == len(search.pattern) {
		if current.occupied {
			search.results = append(search.results, Entry[V]{Key: string(search.path), Value: current.value})
		}
		return
	}

	character := search.pattern[index]
	if character != Wildcard {
		child := current.children[character]
		if child == nil {
			return
		}
		search.descend(character, child, index+1)
		return
	}

	// '*' consumes nothing: advance the pattern, stay on this node.
	search.walk(current, index+1)
	// '*' consumes one character: move into every child, keep the '*'.
	for character, child := range current.children {
		search.descend(character, child, index)
	}
}

func (search *wildcardSearch[V]) descend(character byte, child *node[V], index int) {
	search.path = append(search.path, character)
	search.walk(child, index)
	search.path = search.path[:len(search.path)-1]
}

// Remove deletes key and returns its value. '*' in key is matched
// literally. Interior nodes left with neither a value nor children are
// pruned on the way back up.
func (m *Map[V]) Remove(key string) (V, bool) {
	var zero V

	path := make([]*node[V], 0, len(key)+1)
	current := m.root
	path = append(path, current)
	for i := range len(key) {
		current = current.children[key[i]]
		if current == nil {
			return zero, false
		}
		path = append(path, current)
	}
	if !current.occupied {
		return zero, false
	}

	removed := current.value
	current.value = zero
	current.occupied = false
	m.size--

	// path[i+1] is the child of path[i] under key[i]. The root
	// (path[0]) is never pruned.
	for i := len(key) - 1; i >= 0; i-- {
		child := path[i+1]
		if child.occupied || len(child.children) > 0 {
			break
		}
		delete(path[i].children, key[i])
	}

	return removed, true
}

// RemoveWithWildcards removes every entry whose key matches pattern
// (see [Map.GetWithWildcards]) and returns the removed values in key
// order.
func (m *Map[V]) RemoveWithWildcards(pattern string) []V {
	matches := m.GetWithWildcards(pattern)
	removed := make([]V, 0, len(matches))
	for _, entry := range matches {
		if value, found := m.Remove(entry.Key); found {
			removed = append(removed, value)
		}
	}
	return removed
}

// Clear removes every entry.
func (m *Map[V]) Clear() {
	m.root = &node[V]{}
	m.size = 0
}

// All iterates over every entry in key order.
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		var path strings.Builder
		m.root.each(&path, yield)
	}
}

// each walks the subtree in sorted child order. It returns false when
// the consumer stopped the iteration.
func (n *node[V]) each(path *strings.Builder, yield func(string, V) bool) bool {
	if n.occupied && !yield(path.String(), n.value) {
		return false
	}

	characters := make([]byte, 0, len(n.children))
	for character := range n.children {
		characters = append(characters, character)
	}
	slices.Sort(characters)

	prefix := path.String()
	for _, character := range characters {
		path.Reset()
		path.WriteString(prefix)
		path.WriteByte(character)
		if !n.children[character].each(path, yield) {
			return false
		}
	}
	return true
}

// Entries returns every entry in key order.
func (m *Map[V]) Entries() []Entry[V] {
	entries := make([]Entry[V], 0, m.size)
	for key, value := range m.All() {
		entries = append(entries, Entry[V]{Key: key, Value: value})
	}
	return entries
}

// Keys returns every key in sorted order.
func (m *Map[V]) Keys() []string {
	keys := make([]string, 0, m.size)
	for key := range m.All() {
		keys = append(keys, key)
	}
	return keys
}

// Values returns every value in key order.
func (m *Map[V]) Values() []V {
	values := make([]V, 0, m.size)
	for _, value := range m.All() {
		values = append(values, value)
	}
	return values
}

// nodeCount returns the number of trie nodes including the root.
func (m *Map[V]) nodeCount() int {
	count := 0
	var visit func(*node[V])
	visit = func(n *node[V]) {
		count++
		for _, child := range n.children {
			visit(child)
		}
	}
	visit(m.root)
	return count
}
