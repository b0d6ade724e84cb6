// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/webermax/meteor/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Rebuild whenever a dependency file changes",
	Long: `Compile the target directory, then watch the files the build
depends on and recompile when any of them changes. Applications are also
watched by glob so newly created source files trigger a rebuild.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.AppDir
		if len(args) == 1 {
			dir = args[0]
		}
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}

		p, err := runBuild(cmd.Context(), abs)
		if err != nil {
			fmt.Println(renderEngineError(err))
			return &ExitError{Code: 1, Err: err}
		}
		printBuildSummary(p)

		// Apps may grow new source files that are not in the dependency
		// list yet; widen the watch by glob for them.
		var patterns []string
		if p.IsApp() {
			patterns = []string{"**/*.js", "**/*.css", "**/*.html", "*.cue"}
		}

		w, err := watch.New(watch.Config{
			BaseDir:  abs,
			Files:    p.Dependencies(),
			Patterns: patterns,
			OnChange: func(ctx context.Context, changed []string) error {
				fmt.Println(SubtitleStyle.Render("changed: " + strings.Join(changed, ", ")))
				// A package compiles at most once; reload means a fresh
				// instance.
				rebuilt, err := runBuild(ctx, abs)
				if err != nil {
					fmt.Println(renderEngineError(err))
					return nil
				}
				printBuildSummary(rebuilt)
				return nil
			},
		})
		if err != nil {
			return err
		}

		fmt.Println(SubtitleStyle.Render("watching " + abs + " (ctrl-c to stop)"))
		return w.Run(cmd.Context())
	},
}
