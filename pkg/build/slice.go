// SPDX-License-Identifier: MPL-2.0

package build

import (
	"fmt"

	"github.com/webermax/meteor/pkg/manifest"
)

// Role distinguishes normal inclusion from a package's own test suite.
type Role int

const (
	// RoleUse is the normal-inclusion role.
	RoleUse Role = iota
	// RoleTest is the package's own test-suite role.
	RoleTest
)

// Environment is the target execution context of a slice.
type Environment int

const (
	// EnvClient targets the browser bundle.
	EnvClient Environment = iota
	// EnvServer targets the server bundle.
	EnvServer
)

// Roles returns all roles in canonical order.
func Roles() []Role { return []Role{RoleUse, RoleTest} }

// Environments returns all environments in canonical order.
func Environments() []Environment { return []Environment{EnvClient, EnvServer} }

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleUse:
		return "use"
	case RoleTest:
		return "test"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// String returns the environment name.
func (e Environment) String() string {
	switch e {
	case EnvClient:
		return manifest.EnvClient
	case EnvServer:
		return manifest.EnvServer
	default:
		return fmt.Sprintf("Environment(%d)", int(e))
	}
}

// ParseEnvironment maps a manifest `where` entry onto the enumeration.
func ParseEnvironment(s string) (Environment, error) {
	switch s {
	case manifest.EnvClient:
		return EnvClient, nil
	case manifest.EnvServer:
		return EnvServer, nil
	default:
		return 0, fmt.Errorf("unknown environment %q (expected %q or %q)",
			s, manifest.EnvClient, manifest.EnvServer)
	}
}

// Matrix is a fixed 2x2 container addressed by (Role, Environment). The
// zero value has every cell set to T's zero value.
type Matrix[T any] struct {
	cells [2][2]T
}

// Get returns the value of one cell.
func (m *Matrix[T]) Get(r Role, e Environment) T {
	return m.cells[r][e]
}

// Set replaces the value of one cell.
func (m *Matrix[T]) Set(r Role, e Environment, v T) {
	m.cells[r][e] = v
}

// Ptr returns a pointer to one cell for in-place mutation.
func (m *Matrix[T]) Ptr(r Role, e Environment) *T {
	return &m.cells[r][e]
}

// ForEach visits every cell in canonical order (use before test, client
// before server).
func (m *Matrix[T]) ForEach(fn func(r Role, e Environment, v *T)) {
	for _, r := range Roles() {
		for _, e := range Environments() {
			fn(r, e, &m.cells[r][e])
		}
	}
}
