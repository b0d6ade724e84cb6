// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/webermax/meteor/pkg/build"
	"github.com/webermax/meteor/pkg/npm"
)

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Compile a package or application",
	Long: `Compile all four slices (use/test × client/server) of the target
directory: a named package when it carries a package.cue, otherwise the
anonymous application.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.AppDir
		if len(args) == 1 {
			dir = args[0]
		}

		p, err := runBuild(cmd.Context(), dir)
		if err != nil {
			fmt.Println(renderEngineError(err))
			return &ExitError{Code: 1, Err: err}
		}

		printBuildSummary(p)
		return nil
	},
}

// runBuild loads, npm-installs, and compiles the target directory.
func runBuild(ctx context.Context, dir string) (*build.Package, error) {
	reg, err := newRegistry(dir)
	if err != nil {
		return nil, err
	}

	p, err := loadTarget(dir)
	if err != nil {
		return nil, err
	}

	if pins := p.NpmPins(); len(pins) > 0 {
		installer := &npm.Installer{
			Dir: filepath.Join(p.SourceRoot(), ".npm"),
			Log: newLogger(),
		}
		if err := installer.Ensure(ctx, pins); err != nil {
			return nil, err
		}
	}

	if err := newCompiler(reg).Compile(p, build.CompileOptions{Ignore: defaultIgnore}); err != nil {
		return nil, err
	}
	return p, nil
}

// printBuildSummary prints one line per slice: prelinked files, resource
// records, and exported symbols.
func printBuildSummary(p *build.Package) {
	target := "app"
	if !p.IsApp() {
		target = p.Name()
	}
	fmt.Println(SuccessStyle.Render("✓ compiled ") + PkgStyle.Render(target))

	for _, r := range build.Roles() {
		for _, e := range build.Environments() {
			fmt.Printf("  %-12s %d js, %d resources, %d exports\n",
				SubtitleStyle.Render(fmt.Sprintf("%s/%s:", r, e)),
				len(p.Prelink(r, e)),
				len(p.Resources(r, e)),
				len(p.Exports(r, e)))
		}
	}

	if verbose {
		fmt.Println(VerboseStyle.Render("dependencies:"))
		for _, d := range p.Dependencies() {
			fmt.Println(VerboseStyle.Render("  " + d))
		}
	}
}
