package game

import "strconv"

// The move tree is an arena of nodes addressed by stable handles. Parent
// links are plain indices, so walking to the root is O(depth) and removing a
// subtree cannot leave dangling owners. Child slot 0 is the main line;
// later slots are variations in insertion order.

type nodeID int32

const noNode nodeID = -1

type treeNode struct {
	token    string // canonical move token; "" only at the root sentinel
	parent   nodeID
	children []nodeID
	fen4     string // position snapshot after this move, when recorded
	comment  string
}

type moveTree struct {
	nodes []treeNode
	free  []nodeID
}

// newMoveTree builds a tree holding only the root sentinel with the given
// start-position snapshot.
func newMoveTree(startFen4 string) *moveTree {
	return &moveTree{
		nodes: []treeNode{{parent: noNode, fen4: startFen4}},
	}
}

func (t *moveTree) root() nodeID { return 0 }

func (t *moveTree) isRoot(id nodeID) bool { return id == 0 }

func (t *moveTree) node(id nodeID) *treeNode { return &t.nodes[id] }

// add appends a child with the given move token and returns its handle.
func (t *moveTree) add(parent nodeID, token string) nodeID {
	var id nodeID
	if n := len(t.free); n > 0 {
		id = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		id = nodeID(len(t.nodes))
		t.nodes = append(t.nodes, treeNode{})
	}
	t.nodes[id] = treeNode{token: token, parent: parent}
	t.nodes[parent].children = append(t.nodes[parent].children, id)
	return id
}

// childWithToken returns the child of parent carrying the exact token, or
// noNode. Re-entering a recorded line reuses its node instead of forking a
// duplicate variation.
func (t *moveTree) childWithToken(parent nodeID, token string) nodeID {
	for _, child := range t.nodes[parent].children {
		if t.nodes[child].token == token {
			return child
		}
	}
	return noNode
}

// prune removes the child at slot idx and recycles the whole subtree,
// snapshots included.
func (t *moveTree) prune(parent nodeID, idx int) {
	children := t.nodes[parent].children
	if idx < 0 || idx >= len(children) {
		return
	}
	child := children[idx]
	t.nodes[parent].children = append(children[:idx], children[idx+1:]...)
	t.release(child)
}

func (t *moveTree) release(id nodeID) {
	for _, child := range t.nodes[id].children {
		t.release(child)
	}
	t.nodes[id] = treeNode{parent: noNode}
	t.free = append(t.free, id)
}

// childSlot returns id's index among its parent's children.
func (t *moveTree) childSlot(id nodeID) int {
	parent := t.nodes[id].parent
	for i, child := range t.nodes[parent].children {
		if child == id {
			return i
		}
	}
	return -1
}

// variationPath returns the child slots to follow from the root to reach id.
func (t *moveTree) variationPath(id nodeID) []int {
	var path []int
	for !t.isRoot(id) {
		path = append(path, t.childSlot(id))
		id = t.nodes[id].parent
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// moveNumber renders the node's position for the CurrentMove tag: the ply
// count alone on the main line, or "ply-variation-move" inside a variation.
// Nested sub-variations are flattened onto the innermost branch point.
func (t *moveTree) moveNumber(id nodeID) string {
	path := t.variationPath(id)
	ply, variation, move := 0, 0, 0
	mainLine := true
	for _, slot := range path {
		if slot != 0 {
			variation = slot
			mainLine = false
			continue
		}
		if mainLine {
			ply++
		} else {
			move++
		}
	}
	if variation == 0 {
		return strconv.Itoa(ply)
	}
	return strconv.Itoa(ply+1) + "-" + strconv.Itoa(variation) + "-" + strconv.Itoa(move+1)
}

// findSnapshot walks the tree breadth-first and returns the first node whose
// snapshot matches fen4, or noNode.
func (t *moveTree) findSnapshot(fen4 string) nodeID {
	queue := []nodeID{t.root()}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if t.nodes[id].fen4 == fen4 {
			return id
		}
		queue = append(queue, t.nodes[id].children...)
	}
	return noNode
}
