// Package extensions holds optional, non-core integrations for a beacon
// Runtime: dependency-graph visualization and structured-logging adapters,
// kept out of the root package so a host that doesn't need them pays no
// import cost. Grounded on the pack's pumped-fn-pumped-go extensions
// package, which pairs the same graph-to-treedrawer rendering with an
// hclog-style handler.
package extensions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/m1gwings/treedrawer/tree"
	"github.com/mossbeacon/beacon"
)

// DebugTree renders rt's current dependency graph (every Derived and
// Effect, and the Writable/time-operator/collection cells they read) as a
// horizontal tree, rooted at the cells that themselves depend on nothing.
// Returns "(empty - no reactive dependencies tracked)" if the graph is
// empty, mirroring the teacher's empty-graph message.
func DebugTree(rt *beacon.Runtime) string {
	consumerToDeps := rt.DependencyGraph()
	if len(consumerToDeps) == 0 {
		return "(empty - no reactive dependencies tracked)"
	}

	children := make(map[string][]string) // producer name -> consumer names
	allNodes := make(map[string]bool)
	hasParent := make(map[string]bool)

	for consumer, deps := range consumerToDeps {
		allNodes[consumer] = true
		for _, dep := range deps {
			allNodes[dep] = true
			children[dep] = append(children[dep], consumer)
			hasParent[consumer] = true
		}
	}

	var roots []string
	for node := range allNodes {
		if !hasParent[node] {
			roots = append(roots, node)
		}
	}
	sort.Strings(roots)

	if len(roots) == 0 {
		return "(empty - no reactive dependencies tracked)"
	}

	var root *tree.Tree
	if len(roots) == 1 {
		root = buildTree(roots[0], children, make(map[string]bool))
	} else {
		root = tree.NewTree(tree.NodeString("beacons"))
		for _, r := range roots {
			if child := buildTree(r, children, make(map[string]bool)); child != nil {
				attach(root, child)
			}
		}
	}

	if root == nil {
		return "(empty - no reactive dependencies tracked)"
	}
	return root.String()
}

func buildTree(name string, children map[string][]string, visited map[string]bool) *tree.Tree {
	if visited[name] {
		return nil
	}
	visited[name] = true

	node := tree.NewTree(tree.NodeString(name))

	kids := append([]string(nil), children[name]...)
	sort.Strings(kids)
	for _, k := range kids {
		if child := buildTree(k, children, visited); child != nil {
			attach(node, child)
		}
	}
	return node
}

func attach(parent *tree.Tree, child *tree.Tree) {
	newChild := parent.AddChild(child.Val())
	for _, grandchild := range child.Children() {
		attach(newChild, grandchild)
	}
}

// Summary returns a compact, sorted multi-line listing of every node and
// its dependencies, as a fallback when the tree layout isn't wanted (e.g.
// emitting into a log line rather than a terminal).
func Summary(rt *beacon.Runtime) string {
	graph := rt.DependencyGraph()
	names := make([]string, 0, len(graph))
	for name := range graph {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		deps := graph[name]
		if len(deps) == 0 {
			fmt.Fprintf(&sb, "%s (no dependencies)\n", name)
			continue
		}
		sort.Strings(deps)
		fmt.Fprintf(&sb, "%s -> %s\n", name, strings.Join(deps, ", "))
	}
	return sb.String()
}
