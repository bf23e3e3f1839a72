// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"maps"
	"slices"
	"testing"
	"time"

	"github.com/cfgwrap/cfgwrap/internal/testutil"
)

func TestNewContext(t *testing.T) {
	t.Parallel()

	clock := testutil.NewFakeClock(time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC))
	rc := NewContext(ContextOptions{
		Environ:    func() []string { return []string{"FOO=bar", "EMPTY="} },
		Now:        clock.Now,
		Home:       "/home/tester",
		WorkingDir: "/work",
	})

	if want := map[string]string{"FOO": "bar", "EMPTY": ""}; !maps.Equal(rc.Env, want) {
		t.Errorf("Env = %v, want %v", rc.Env, want)
	}
	if !rc.Now.Equal(clock.Now()) {
		t.Errorf("Now = %v, want %v", rc.Now, clock.Now())
	}
	if rc.Home != "/home/tester" {
		t.Errorf("Home = %q", rc.Home)
	}
	if rc.Seq != 1 {
		t.Errorf("Seq = %d, want 1", rc.Seq)
	}
	if rc.PID <= 0 {
		t.Errorf("PID = %d, want positive", rc.PID)
	}
	if rc.WorkingDir() != "/work" {
		t.Errorf("WorkingDir() = %q, want /work", rc.WorkingDir())
	}
}

func TestNewContext_EnvIsCopied(t *testing.T) {
	t.Parallel()

	env := map[string]string{"A": "1"}
	rc := NewContext(ContextOptions{Env: env, Home: "/h"})
	env["A"] = "changed"

	if rc.Env["A"] != "1" {
		t.Errorf("context env aliased caller map: A = %q", rc.Env["A"])
	}
}

func TestNextSeq(t *testing.T) {
	t.Parallel()

	rc := NewContext(ContextOptions{Env: map[string]string{}, Home: "/h", Seq: 5})
	if got := rc.NextSeq(); got != 6 {
		t.Errorf("NextSeq() = %d, want 6", got)
	}
	if rc.Seq != 6 {
		t.Errorf("Seq = %d after NextSeq, want 6", rc.Seq)
	}
}

func TestEnvFromSlice(t *testing.T) {
	t.Parallel()

	got := EnvFromSlice([]string{"A=1", "B=x=y", "NOSEP", "", "A=2", `=C:=C:\`})
	want := map[string]string{"A": "2", "B": "x=y", "=C:": `C:\`}
	if !maps.Equal(got, want) {
		t.Errorf("EnvFromSlice() = %v, want %v", got, want)
	}
}

func TestEnvToSlice(t *testing.T) {
	t.Parallel()

	got := EnvToSlice(map[string]string{"B": "2", "A": "1"})
	if want := []string{"A=1", "B=2"}; !slices.Equal(got, want) {
		t.Errorf("EnvToSlice() = %v, want %v", got, want)
	}

	empty := EnvToSlice(nil)
	if empty == nil || len(empty) != 0 {
		t.Errorf("EnvToSlice(nil) = %#v, want empty non-nil slice", empty)
	}
}
