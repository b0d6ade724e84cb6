// SPDX-License-Identifier: MPL-2.0

package build

import (
	"github.com/webermax/meteor/pkg/manifest"
)

// buildUses normalizes a manifest's raw use declarations into the final
// per-slice dependency matrix plus the unordered-dependency set.
//
// Duplicates collapse to their last declared position: the raw list is
// scanned from the end and the first-seen-from-the-end occurrence of each
// name is kept, preserving relative order. Afterwards the base package is
// placed first in every cell, except in the base package's own use-role
// cells. Deterministic; never fails.
func buildUses(m *manifest.Manifest, pkgName string) (Matrix[[]string], map[string]bool) {
	var uses Matrix[[]string]
	unordered := make(map[string]bool)

	raw := collectRawUses(m, unordered)

	uses.ForEach(func(r Role, e Environment, cell *[]string) {
		*cell = withBaseFirst(uniqueLastWins(raw.Get(r, e)), pkgName, r)
	})

	return uses, unordered
}

// collectRawUses flattens the manifest's use declarations into per-cell
// name lists, in declaration order, duplicates included.
func collectRawUses(m *manifest.Manifest, unordered map[string]bool) Matrix[[]string] {
	var raw Matrix[[]string]

	for _, role := range Roles() {
		block := m.Role(role == RoleTest)
		if block == nil {
			continue
		}
		for _, use := range block.Uses {
			if use.Unordered {
				for _, name := range use.Packages {
					unordered[name] = true
				}
			}
			for _, envName := range use.Environments() {
				env, err := ParseEnvironment(envName)
				if err != nil {
					// The schema restricts `where` values; an unknown name
					// here cannot happen for a parsed manifest.
					continue
				}
				cell := raw.Ptr(role, env)
				*cell = append(*cell, use.Packages...)
			}
		}
	}

	return raw
}

// uniqueLastWins collapses duplicate names so that the last declaration's
// position is kept: [A B A C] becomes [B A C].
func uniqueLastWins(names []string) []string {
	seen := make(map[string]bool, len(names))
	kept := make([]string, 0, len(names))

	for i := len(names) - 1; i >= 0; i-- {
		if seen[names[i]] {
			continue
		}
		seen[names[i]] = true
		kept = append(kept, names[i])
	}

	// kept is reversed; restore declaration order.
	for i, j := 0, len(kept)-1; i < j; i, j = i+1, j-1 {
		kept[i], kept[j] = kept[j], kept[i]
	}
	return kept
}

// withBaseFirst guarantees the implicit base dependency: the base package
// name is moved (or added) to the front of the cell. The base package's own
// use-role cells are exempt.
func withBaseFirst(names []string, pkgName string, role Role) []string {
	if pkgName == BasePackage && role == RoleUse {
		return names
	}

	out := make([]string, 0, len(names)+1)
	out = append(out, BasePackage)
	for _, n := range names {
		if n == BasePackage {
			continue
		}
		out = append(out, n)
	}
	return out
}
