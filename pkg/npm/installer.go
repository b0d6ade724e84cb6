// SPDX-License-Identifier: MPL-2.0

package npm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Installer materializes a pin set into one install directory.
type Installer struct {
	// Dir is the directory node_modules and the pins record live in.
	Dir string
	// Log is optional; nil falls back to the default logger.
	Log *log.Logger
	// RunScript executes the npm command line. Nil means the built-in
	// shell interpreter; tests substitute a recorder.
	RunScript func(ctx context.Context, script string) error
}

// Ensure brings the install directory up to date with pins. An unchanged
// pin set is a no-op; otherwise npm installs the exact versions and the
// pins record is rewritten on success only.
func (i *Installer) Ensure(ctx context.Context, pins Pins) error {
	if len(pins) == 0 {
		return nil
	}
	if err := pins.Validate(); err != nil {
		return err
	}

	recordPath := filepath.Join(i.Dir, PinsFileName)
	current, err := readPins(recordPath)
	if err != nil {
		return err
	}
	if current.Equal(pins) {
		i.logger().Debug("npm dependencies up to date", "dir", i.Dir, "count", len(pins))
		return nil
	}

	if err := os.MkdirAll(i.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create install directory: %w", err)
	}

	script, err := installScript(pins)
	if err != nil {
		return err
	}

	i.logger().Info("installing npm dependencies", "dir", i.Dir, "count", len(pins))
	run := i.RunScript
	if run == nil {
		run = i.runShell
	}
	if err := run(ctx, script); err != nil {
		return fmt.Errorf("npm install failed: %w", err)
	}

	return writePins(recordPath, pins)
}

// installScript renders the npm command line, package names sorted so the
// same pin set always produces the same command.
func installScript(pins Pins) (string, error) {
	names := make([]string, 0, len(pins))
	for name := range pins {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("npm install --no-save --no-audit --no-fund")
	for _, name := range names {
		quoted, err := syntax.Quote(name+"@"+pins[name], syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("failed to quote %q: %w", name, err)
		}
		b.WriteString(" ")
		b.WriteString(quoted)
	}
	return b.String(), nil
}

// runShell executes the command line through the embedded shell
// interpreter rather than a raw exec, so the behavior is identical across
// platforms.
func (i *Installer) runShell(ctx context.Context, script string) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "npm-install")
	if err != nil {
		return fmt.Errorf("failed to parse install command: %w", err)
	}

	runner, err := interp.New(
		interp.Dir(i.Dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, os.Stdout, os.Stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return fmt.Errorf("npm exited with status %d", int(exitStatus))
		}
		return err
	}
	return nil
}

func (i *Installer) logger() *log.Logger {
	if i.Log != nil {
		return i.Log
	}
	return log.Default()
}
