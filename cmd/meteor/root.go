// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for meteor.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/webermax/meteor/internal/config"
	"github.com/webermax/meteor/internal/issue"
	"github.com/webermax/meteor/pkg/build"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output.
	verbose bool
	// cfgFile allows specifying a custom config file.
	cfgFile string

	// cfg is the loaded configuration, available to all subcommands.
	cfg *config.Config

	// rootCmd represents the base command when called without any
	// subcommands.
	rootCmd = &cobra.Command{
		Use:   "meteor",
		Short: "A package build engine for client/server JavaScript bundles",
		Long: TitleStyle.Render("meteor") + SubtitleStyle.Render(" - a package build engine for client/server JavaScript bundles") + `

meteor compiles packages and applications into prelinked client and
server bundles. Packages declare their intent in 'package.cue'
manifests: dependencies, source files, exported symbols, source
handlers, and exact-pinned npm sub-dependencies.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Put packages under <app>/packages/<name>/package.cue
  2. List them in <app>/packages.cue
  3. Build with: meteor build <app-dir>

` + SubtitleStyle.Render("Examples:") + `
  meteor list               List every resolvable package
  meteor show ui            Show a package's dependency matrix
  meteor build .            Compile the app in the current directory
  meteor watch .            Rebuild whenever a dependency file changes`,
	}
)

// ExitError carries an explicit process exit code through fang.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

func init() {
	cobra.OnInitialize(initRootConfig)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <user-config>/meteor/config.cue)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(watchCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig loads the configuration before any subcommand runs.
func initRootConfig() {
	loaded, err := config.LoadWithOptions(config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		loaded = config.DefaultConfig()
	}
	cfg = loaded
}

// formatErrorForDisplay formats an error for user display. ActionableError
// instances use their Format method; verbose mode shows the full chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderEngineError maps known engine failures to their catalog issue and
// prints the rendered explanation under the raw error.
func renderEngineError(err error) string {
	out := ErrorStyle.Render("Error: ") + formatErrorForDisplay(err, verbose)

	var id issue.Id
	var ambErr *build.AmbiguousHandlerError
	var nfErr *build.NotFoundError
	var intErr *build.IntegrityError
	switch {
	case errors.As(err, &ambErr):
		id = issue.ExtensionConflictId
	case errors.As(err, &nfErr) && nfErr.Kind == "package":
		id = issue.PackageNotFoundId
	case errors.As(err, &nfErr) && nfErr.Kind == "manifest":
		id = issue.ManifestNotFoundId
	case errors.As(err, &intErr):
		id = issue.SourceTreeEscapeId
	default:
		return out
	}

	if rendered, renderErr := issue.Get(id).Render("auto"); renderErr == nil {
		out += "\n" + rendered
	}
	return out
}
