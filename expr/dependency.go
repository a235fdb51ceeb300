// Copyright 2025 The GDML Studio Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expr

// topologicalSort orders entries so that every entry referencing another
// entry's name comes after it, using Kahn's algorithm. known holds names
// (pre-seeded constants) that never introduce an edge. Returns an
// *EvalError with Cyclic set if entries form a cycle.
func topologicalSort(entries []defineEntry, known map[string]bool) ([]int, error) {
	nameToIdx := make(map[string]int, len(entries))
	for i, e := range entries {
		nameToIdx[e.name] = i
	}

	n := len(entries)
	adj := make([][]int, n)
	inDegree := make([]int, n)

	for i, entry := range entries {
		for _, ref := range extractIdentifiers(entry.expr) {
			if known[ref] {
				continue // built-in, no dependency
			}
			j, ok := nameToIdx[ref]
			if !ok || j == i {
				continue // unresolved name or number; handled (or errors) at eval time
			}
			adj[j] = append(adj[j], i)
			inDegree[i]++
		}
	}

	queue := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if inDegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	order := make([]int, 0, n)
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		order = append(order, u)
		for _, v := range adj[u] {
			inDegree[v]--
			if inDegree[v] == 0 {
				queue = append(queue, v)
			}
		}
	}

	if len(order) != n {
		var cyclic []string
		for i := 0; i < n; i++ {
			if inDegree[i] > 0 {
				cyclic = append(cyclic, entries[i].name)
			}
		}
		return nil, &EvalError{Cyclic: cyclic}
	}

	return order, nil
}

// extractIdentifiers scans expr for maximal runs of [a-zA-Z_][a-zA-Z0-9_]*,
// dropping any that name a builtin function. It is a plain lexical scan
// rather than a full parse, so it also (harmlessly) turns up identifiers
// that appear only as call targets.
func extractIdentifiers(expr string) []string {
	var ids []string
	var current []byte
	runes := []byte(expr)

	isAlpha := func(b byte) bool {
		return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
	}
	isAlnum := func(b byte) bool {
		return isAlpha(b) || (b >= '0' && b <= '9')
	}

	i := 0
	for i < len(runes) {
		c := runes[i]
		if isAlpha(c) {
			current = current[:0]
			current = append(current, c)
			i++
			for i < len(runes) && isAlnum(runes[i]) {
				current = append(current, runes[i])
				i++
			}
			name := string(current)
			if !isBuiltinFunction(name) {
				ids = append(ids, name)
			}
		} else {
			i++
		}
	}

	return ids
}

// isBuiltinFunction reports whether name is one of the builtin functions
// callBuiltin dispatches, and so never names a define dependency.
func isBuiltinFunction(name string) bool {
	switch name {
	case "sin", "cos", "tan", "asin", "acos", "atan", "atan2",
		"sinh", "cosh", "tanh",
		"sqrt", "cbrt", "abs",
		"ln", "log", "log2", "log10",
		"exp", "exp2",
		"floor", "ceil", "round",
		"min", "max",
		"pow",
		"if", "true", "false":
		return true
	}
	return false
}
