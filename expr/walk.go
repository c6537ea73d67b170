package expr

// Walk visits every distinct node reachable from root exactly once, children before
// parents. Shared sub-nodes are visited once. Returning false from fn stops the walk.
func Walk(root Node, fn func(Node) bool) {
	seen := make(map[Node]bool)
	var visit func(Node) bool
	visit = func(n Node) bool {
		if seen[n] {
			return true
		}
		seen[n] = true
		for _, c := range n.Children() {
			if !visit(c) {
				return false
			}
		}
		return fn(n)
	}
	visit(root)
}

// Count returns the number of distinct nodes reachable from root.
func Count(root Node) int {
	n := 0
	Walk(root, func(Node) bool {
		n++
		return true
	})
	return n
}

// Uses returns, for every distinct node reachable from root, how many parent edges
// point at it. The root has zero uses.
func Uses(root Node) map[Node]int {
	uses := map[Node]int{root: 0}
	Walk(root, func(n Node) bool {
		for _, c := range n.Children() {
			uses[c]++
		}
		return true
	})
	return uses
}
