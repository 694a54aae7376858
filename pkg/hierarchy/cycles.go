package hierarchy

// hasCycle reports whether the parent graph contains a cycle, using
// depth-first search with white/gray/black coloring.
func hasCycle(parents [][]int) bool {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(parents))
	found := false

	var dfs func(node int)
	dfs = func(node int) {
		color[node] = gray
		for _, p := range parents[node] {
			switch color[p] {
			case white:
				dfs(p)
			case gray:
				found = true
			}
			if found {
				return
			}
		}
		color[node] = black
	}

	for n := range parents {
		if color[n] == white {
			dfs(n)
			if found {
				return true
			}
		}
	}
	return false
}
