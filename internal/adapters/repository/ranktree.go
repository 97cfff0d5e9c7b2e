// Package repository provides the in-memory contest store.
package repository

// Treap-based ranking index over team score views.
//
// Ordering: total score DESC, then last solve time ASC (the team that
// reached the score first ranks earlier), then team id ASC. In-order
// traversal produces the leaderboard from best to worst; subtree sizes
// give O(log n) rank lookups.

type rankKey struct {
	score     int
	lastSolve int64 // unix nanos; 0 = no solve yet
	id        string
}

// less reports whether a ranks strictly before b.
func (a rankKey) less(b rankKey) bool {
	if a.score != b.score {
		return a.score > b.score // higher score ranks earlier
	}
	if a.lastSolve != b.lastSolve {
		// Zero means the team has not solved anything; it ranks after any
		// team that reached the same score through solves.
		if a.lastSolve == 0 {
			return false
		}
		if b.lastSolve == 0 {
			return true
		}
		return a.lastSolve < b.lastSolve
	}
	return a.id < b.id
}

type rankNode struct {
	key   rankKey
	prio  uint64
	left  *rankNode
	right *rankNode
	size  int
}

func nsize(n *rankNode) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *rankNode) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

func rotateRight(y *rankNode) *rankNode {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *rankNode) *rankNode {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// idPriority derives a deterministic, well-mixed heap priority from the
// team id (splitmix64 over the id bytes).
func idPriority(id string) uint64 {
	var h uint64 = 0x9e3779b97f4a7c15
	for i := 0; i < len(id); i++ {
		h ^= uint64(id[i])
		h *= 0xbf58476d1ce4e5b9
		h ^= h >> 27
	}
	return h
}

func insert(n *rankNode, key rankKey) *rankNode {
	if n == nil {
		return &rankNode{key: key, prio: idPriority(key.id), size: 1}
	}
	if key.less(n.key) {
		n.left = insert(n.left, key)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, key)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func remove(n *rankNode, key rankKey) *rankNode {
	if n == nil {
		return nil
	}
	if key == n.key {
		// Merge children by rotating the higher priority up until a leaf.
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = remove(n.right, key)
		} else {
			n = rotateLeft(n)
			n.left = remove(n.left, key)
		}
	} else if key.less(n.key) {
		n.left = remove(n.left, key)
	} else {
		n.right = remove(n.right, key)
	}
	fix(n)
	return n
}

// rankOf returns the 1-based rank of key, or 0 if absent.
func rankOf(n *rankNode, key rankKey) int {
	rank := 1
	for n != nil {
		switch {
		case key == n.key:
			return rank + nsize(n.left)
		case key.less(n.key):
			n = n.left
		default:
			rank += nsize(n.left) + 1
			n = n.right
		}
	}
	return 0
}

// collect appends up to limit keys in rank order.
func collect(n *rankNode, limit int, out *[]rankKey) {
	if n == nil || len(*out) >= limit {
		return
	}
	collect(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, n.key)
	}
	if len(*out) < limit {
		collect(n.right, limit, out)
	}
}

// rankTree wraps the treap root with typed operations. Callers hold the
// store lock; the tree itself is not synchronized.
type rankTree struct {
	root *rankNode
	keys map[string]rankKey // current key per team id
}

func newRankTree() *rankTree {
	return &rankTree{keys: make(map[string]rankKey)}
}

// upsert replaces the team's ranking key.
func (t *rankTree) upsert(id string, score int, lastSolve int64) {
	if old, ok := t.keys[id]; ok {
		t.root = remove(t.root, old)
	}
	key := rankKey{score: score, lastSolve: lastSolve, id: id}
	t.keys[id] = key
	t.root = insert(t.root, key)
}

// drop removes the team from the index entirely.
func (t *rankTree) drop(id string) {
	if old, ok := t.keys[id]; ok {
		t.root = remove(t.root, old)
		delete(t.keys, id)
	}
}

// rank returns the 1-based rank for a team id, or 0 if absent.
func (t *rankTree) rank(id string) int {
	key, ok := t.keys[id]
	if !ok {
		return 0
	}
	return rankOf(t.root, key)
}

// top returns up to limit ranking keys in order.
func (t *rankTree) top(limit int) []rankKey {
	out := make([]rankKey, 0, limit)
	collect(t.root, limit, &out)
	return out
}

// len returns the number of ranked teams.
func (t *rankTree) len() int {
	return len(t.keys)
}
