// SPDX-License-Identifier: MPL-2.0

package build

import (
	"reflect"
	"testing"
)

func TestParseEnvironment(t *testing.T) {
	if e, err := ParseEnvironment("client"); err != nil || e != EnvClient {
		t.Errorf("ParseEnvironment(client) = (%v, %v)", e, err)
	}
	if e, err := ParseEnvironment("server"); err != nil || e != EnvServer {
		t.Errorf("ParseEnvironment(server) = (%v, %v)", e, err)
	}
	if _, err := ParseEnvironment("native"); err == nil {
		t.Error("expected error for unknown environment")
	}
}

func TestMatrixForEachOrder(t *testing.T) {
	var m Matrix[int]
	m.Set(RoleUse, EnvClient, 1)
	m.Set(RoleUse, EnvServer, 2)
	m.Set(RoleTest, EnvClient, 3)
	m.Set(RoleTest, EnvServer, 4)

	var seen []int
	m.ForEach(func(r Role, e Environment, v *int) {
		seen = append(seen, *v)
	})

	want := []int{1, 2, 3, 4}
	if !reflect.DeepEqual(seen, want) {
		t.Errorf("ForEach visit order = %v, want %v", seen, want)
	}
}

func TestMatrixPtr(t *testing.T) {
	var m Matrix[[]string]
	cell := m.Ptr(RoleTest, EnvServer)
	*cell = append(*cell, "a")
	*cell = append(*cell, "b")

	if got := m.Get(RoleTest, EnvServer); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Get after Ptr mutation = %v", got)
	}
	if got := m.Get(RoleUse, EnvClient); got != nil {
		t.Errorf("untouched cell = %v, want nil", got)
	}
}
