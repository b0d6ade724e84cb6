// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/webermax/meteor/pkg/manifest"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every resolvable package",
	Long:  "List every package resolvable across the search layers, with the layer it would load from.",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry(cfg.AppDir)
		if err != nil {
			return err
		}

		type entry struct {
			name    string
			layer   string
			summary string
		}

		seen := make(map[string]*entry)
		add := func(name, layer string) {
			if _, ok := seen[name]; ok {
				return
			}
			e := &entry{name: name, layer: layer}
			if dir, ok, err := reg.Locate(name); err == nil && ok {
				if m, err := manifest.Parse(filepath.Join(dir, manifest.FileName)); err == nil {
					e.summary = m.Summary
				}
			}
			seen[name] = e
		}

		// Layers in priority order so the recorded layer is the winner.
		for _, name := range dirEntries(filepath.Join(cfg.AppDir, "packages")) {
			add(name, "app")
		}
		for _, dir := range cfg.PackageDirs {
			for _, name := range dirEntries(dir) {
				add(name, "local")
			}
		}
		if reg != nil {
			if rel := storeRelease(); rel != nil {
				for name := range rel.Packages {
					add(name, "store")
				}
			}
		}

		if len(seen) == 0 {
			fmt.Println(SubtitleStyle.Render("no packages found in any search layer"))
			return nil
		}

		names := make([]string, 0, len(seen))
		for name := range seen {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			e := seen[name]
			line := fmt.Sprintf("%s  %s", PkgStyle.Render(fmt.Sprintf("%-24s", e.name)), VerboseStyle.Render(fmt.Sprintf("%-6s", e.layer)))
			if e.summary != "" {
				line += "  " + e.summary
			}
			fmt.Println(line)
		}
		return nil
	},
}

// dirEntries returns the names of subdirectories carrying a manifest.
func dirEntries(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if fileExists(filepath.Join(dir, e.Name(), manifest.FileName)) {
			names = append(names, e.Name())
		}
	}
	return names
}
