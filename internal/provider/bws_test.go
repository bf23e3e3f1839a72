// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"errors"
	"maps"
	"os/exec"
	"slices"
	"testing"

	"github.com/cfgwrap/cfgwrap/internal/runtime"
	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

const (
	secretA = "11111111-2222-3333-4444-555555555555"
	secretB = "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"
)

type fakeFetcher struct {
	values map[string]string
	err    error
	got    []BWSConfig
}

func (f *fakeFetcher) FetchSecret(_ context.Context, cfg BWSConfig, id string) (string, error) {
	f.got = append(f.got, cfg)
	if f.err != nil {
		return "", f.err
	}
	v, ok := f.values[id]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func TestBWSStub(t *testing.T) {
	t.Parallel()

	rc := newContext(map[string]string{
		"BWS_PROJECT":   "proj",
		"MY_SECRET_KEY": "s3",
		"PATH":          "/bin",
	}, "")

	p := NewBWSProvider(spec.Provider{ID: "bws"}, &fakeFetcher{}, nil)
	got, err := p.Load(context.Background(), rc)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := runtime.ProviderMap{"bws-project": "proj", "my-secret-key": "s3"}
	if !maps.Equal(got, want) {
		t.Errorf("Load() = %v, want %v", got, want)
	}
}

func TestBWSStubFiltersOriginalKeys(t *testing.T) {
	t.Parallel()

	rc := newContext(map[string]string{"BWS_PROJECT": "proj", "MY_SECRET": "s"}, "")
	p := NewBWSProvider(spec.Provider{ID: "bws", FilterChain: []spec.FilterRule{{Include: "BWS_"}}}, nil, nil)

	got, err := p.Load(context.Background(), rc)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !maps.Equal(got, runtime.ProviderMap{"bws-project": "proj"}) {
		t.Errorf("Load() = %v", got)
	}
}

func TestBWSFetchesSecretIDs(t *testing.T) {
	t.Parallel()

	rc := newContext(map[string]string{
		"BWS_ACCESS_TOKEN": "tok",
		"APP_BWS_SECRETS":  secretA + "," + secretB,
		"UNRELATED":        "99999999-2222-3333-4444-555555555555",
	}, "")
	fetcher := &fakeFetcher{values: map[string]string{secretA: "alpha"}}

	p := NewBWSProvider(spec.Provider{ID: "bws", VaultURL: "https://vault.example"}, fetcher, nil)
	got, err := p.Load(context.Background(), rc)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !maps.Equal(got, runtime.ProviderMap{secretA: "alpha"}) {
		t.Errorf("Load() = %v, a failed secret must be skipped", got)
	}
	if len(fetcher.got) != 2 {
		t.Fatalf("fetch calls = %d, want 2", len(fetcher.got))
	}
	if fetcher.got[0] != (BWSConfig{VaultURL: "https://vault.example", AccessToken: "tok"}) {
		t.Errorf("config = %+v", fetcher.got[0])
	}
}

func TestBWSFallsBackWhenCLIMissing(t *testing.T) {
	t.Parallel()

	rc := newContext(map[string]string{
		"BWS_ACCESS_TOKEN": "tok",
		"BWS_SECRET_IDS":   secretA,
	}, "")
	p := NewBWSProvider(spec.Provider{ID: "bws"}, &fakeFetcher{err: exec.ErrNotFound}, nil)

	got, err := p.Load(context.Background(), rc)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got["bws-access-token"] != "tok" {
		t.Errorf("Load() = %v, want stub values", got)
	}
}

func TestSecretIDs(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"BWS_SECRET_1":  secretB,
		"bitwarden_ids": secretA + " " + secretB,
		"OTHER":         secretA,
	}
	got := SecretIDs(env)
	if !slices.Equal(got, []string{secretA, secretB}) {
		t.Errorf("SecretIDs() = %v", got)
	}
}

func TestCLIFetcherMissingBinary(t *testing.T) {
	t.Parallel()

	f := &CLIFetcher{Binary: "cfgwrap-no-such-bws-binary"}
	_, err := f.FetchSecret(context.Background(), BWSConfig{AccessToken: "x"}, secretA)
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("FetchSecret() error = %v, want exec.ErrNotFound", err)
	}
}
