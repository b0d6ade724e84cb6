// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/webermax/meteor/pkg/build"
)

var showCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a package's resolved dependency matrix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		reg, err := newRegistry(cfg.AppDir)
		if err != nil {
			return err
		}

		p, ok, err := reg.Get(name)
		if err != nil {
			fmt.Println(renderEngineError(err))
			return &ExitError{Code: 1, Err: err}
		}
		if !ok {
			err := &build.NotFoundError{Kind: "package", Name: name}
			fmt.Println(renderEngineError(err))
			return &ExitError{Code: 1, Err: err}
		}

		fmt.Println(TitleStyle.Render(p.Name()))
		if meta := p.Metadata(); meta.Summary != "" {
			fmt.Println(SubtitleStyle.Render(meta.Summary))
		}
		fmt.Println(VerboseStyle.Render(fmt.Sprintf("source: %s", p.SourceRoot())))
		fmt.Println()

		fmt.Println(TitleStyle.Render("Dependencies"))
		for _, r := range build.Roles() {
			for _, e := range build.Environments() {
				uses := p.Uses(r, e)
				annotated := make([]string, len(uses))
				for i, u := range uses {
					annotated[i] = u
					if p.IsUnordered(u) {
						annotated[i] += VerboseStyle.Render(" (unordered)")
					}
				}
				fmt.Printf("  %-12s %s\n",
					SubtitleStyle.Render(fmt.Sprintf("%s/%s:", r, e)),
					strings.Join(annotated, ", "))
			}
		}

		if exts := p.Extensions(); len(exts) > 0 {
			fmt.Println()
			fmt.Println(TitleStyle.Render("Source handlers"))
			names := make([]string, 0, len(exts))
			for ext := range exts {
				names = append(names, ext)
			}
			sort.Strings(names)
			for _, ext := range names {
				fmt.Printf("  .%-10s → %s\n", ext, PkgStyle.Render(exts[ext]))
			}
		}

		if pins := p.NpmPins(); len(pins) > 0 {
			fmt.Println()
			fmt.Println(TitleStyle.Render("npm pins"))
			names := make([]string, 0, len(pins))
			for n := range pins {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				fmt.Printf("  %s@%s\n", n, pins[n])
			}
		}

		var exportLines []string
		for _, r := range build.Roles() {
			for _, e := range build.Environments() {
				if exports := p.DeclaredExports(r, e); len(exports) > 0 {
					exportLines = append(exportLines,
						fmt.Sprintf("  %s/%s: %s", r, e, strings.Join(exports, ", ")))
				}
			}
		}
		if len(exportLines) > 0 {
			fmt.Println()
			fmt.Println(TitleStyle.Render("Declared exports"))
			for _, line := range exportLines {
				fmt.Println(line)
			}
		}

		fmt.Println()
		fmt.Println(TitleStyle.Render("Load order"))
		for _, e := range build.Environments() {
			order, err := build.LoadOrder(p, build.RoleUse, e, reg)
			if err != nil {
				fmt.Printf("  %-12s %s\n",
					SubtitleStyle.Render(e.String()+":"),
					ErrorStyle.Render(err.Error()))
				continue
			}
			fmt.Printf("  %-12s %s\n",
				SubtitleStyle.Render(e.String()+":"),
				strings.Join(order, ", "))
		}

		return nil
	},
}
