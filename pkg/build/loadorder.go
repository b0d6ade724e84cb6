// SPDX-License-Identifier: MPL-2.0

package build

import (
	"github.com/webermax/meteor/internal/dag"
)

// appNode labels the anonymous application in load-order output, since it
// has no package name of its own.
const appNode = "app"

// LoadOrder returns the names of root's dependency closure for one slice,
// each package after everything it uses through an ordered edge. Unordered
// dependencies are part of the closure but contribute no ordering edge,
// which is what keeps circular bootstrap dependencies legal; a cycle made
// of ordered edges is a *dag.CycleError. Packages no edge constrains keep
// discovery order, so a root whose dependencies are all unordered comes
// first, not last.
//
// The root slice is (r, e); loaded dependencies always contribute their
// use-role slice for the same environment.
func LoadOrder(root *Package, r Role, e Environment, loader Loader) ([]string, error) {
	rootName := root.Name()
	if root.IsApp() {
		rootName = appNode
	}

	g := dag.New()
	g.AddNode(rootName)

	type pending struct {
		name string
		pkg  *Package
		role Role
	}
	seen := map[string]bool{rootName: true}
	queue := []pending{{rootName, root, r}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, dep := range cur.pkg.Uses(cur.role, e) {
			if cur.pkg.IsUnordered(dep) {
				g.AddNode(dep)
			} else {
				g.AddEdge(dep, cur.name)
			}
			if seen[dep] {
				continue
			}
			seen[dep] = true

			loaded, err := loader.Load(dep)
			if err != nil {
				return nil, err
			}
			queue = append(queue, pending{dep, loaded, RoleUse})
		}
	}

	return g.Sort()
}
