// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"slices"
	"strings"

	"github.com/cfgwrap/cfgwrap/internal/runtime"
	"github.com/cfgwrap/cfgwrap/internal/token"
	"github.com/cfgwrap/cfgwrap/pkg/spec"
)

const (
	// DefaultVaultURL is used when neither the provider nor BWS_VAULT_URL sets one.
	DefaultVaultURL = "https://api.bitwarden.com"

	envVaultURL    = "BWS_VAULT_URL"
	envAccessToken = "BWS_ACCESS_TOKEN"
)

var secretIDPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

type (
	// SecretFetcher retrieves one secret value by id.
	SecretFetcher interface {
		FetchSecret(ctx context.Context, cfg BWSConfig, id string) (string, error)
	}

	// BWSConfig is the resolved connection configuration.
	BWSConfig struct {
		VaultURL    string
		AccessToken string
	}

	// CLIFetcher fetches secrets by running the bws command-line client.
	CLIFetcher struct {
		// Binary is the bws executable. Defaults to "bws".
		Binary string
	}

	// BWSProvider reads Bitwarden Secrets Manager secrets.
	//
	// Without an access token it degrades to a stub that exposes environment
	// variables starting with BWS_ or containing SECRET, re-keyed to
	// lowercase with dashes. With a token, secret ids are taken from UUIDs
	// in environment variables whose names mention BWS_SECRET or BITWARDEN,
	// and fetched one by one; the map is keyed by secret id.
	BWSProvider struct {
		cfg     spec.Provider
		fetcher SecretFetcher
		logger  *slog.Logger
	}

	bwsSecret struct {
		ID    string `json:"id"`
		Key   string `json:"key"`
		Value string `json:"value"`
	}
)

// NewBWSProvider creates a BWSProvider.
func NewBWSProvider(cfg spec.Provider, fetcher SecretFetcher, logger *slog.Logger) *BWSProvider {
	if fetcher == nil {
		fetcher = &CLIFetcher{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &BWSProvider{cfg: cfg, fetcher: fetcher, logger: logger}
}

// ID returns the provider id.
func (p *BWSProvider) ID() string { return p.cfg.ID }

// Load fetches secrets, falling back to the stub when no token is
// configured or the fetcher cannot be used.
func (p *BWSProvider) Load(ctx context.Context, rc *runtime.Context) (runtime.ProviderMap, error) {
	cfg := p.resolveConfig(rc)
	if cfg.AccessToken == "" {
		return p.loadStub(rc)
	}

	secrets, err := p.loadSecrets(ctx, rc, cfg)
	if err != nil {
		p.logger.Warn("failed to load secrets, falling back to environment stub",
			"provider", p.cfg.ID, "error", err)
		return p.loadStub(rc)
	}
	return secrets, nil
}

// resolveConfig combines provider settings with BWS_* environment variables
// and expands tokens in both.
func (p *BWSProvider) resolveConfig(rc *runtime.Context) BWSConfig {
	vaultURL := p.cfg.VaultURL.String()
	accessToken := p.cfg.AccessToken.String()
	if vaultURL == "" {
		vaultURL = rc.Env[envVaultURL]
	}
	if vaultURL == "" {
		vaultURL = DefaultVaultURL
	}
	if accessToken == "" {
		accessToken = rc.Env[envAccessToken]
	}

	engine := token.New(rc, nil)
	return BWSConfig{
		VaultURL:    engine.Expand(vaultURL),
		AccessToken: engine.Expand(accessToken),
	}
}

func (p *BWSProvider) loadStub(rc *runtime.Context) (runtime.ProviderMap, error) {
	raw := runtime.ProviderMap{}
	for key, value := range rc.Env {
		if strings.HasPrefix(key, "BWS_") || strings.Contains(strings.ToUpper(key), "SECRET") {
			raw[key] = value
		}
	}

	filtered, err := ApplyFilters(raw, p.cfg.FilterChain)
	if err != nil {
		return nil, err
	}

	secrets := make(runtime.ProviderMap, len(filtered))
	for key, value := range filtered {
		secrets[strings.ReplaceAll(strings.ToLower(key), "_", "-")] = value
	}
	return secrets, nil
}

func (p *BWSProvider) loadSecrets(ctx context.Context, rc *runtime.Context, cfg BWSConfig) (runtime.ProviderMap, error) {
	secrets := runtime.ProviderMap{}
	for _, id := range SecretIDs(rc.Env) {
		value, err := p.fetcher.FetchSecret(ctx, cfg, id)
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		if err != nil {
			p.logger.Warn("failed to fetch secret", "provider", p.cfg.ID, "secret", id, "error", err)
			continue
		}
		secrets[id] = value
	}
	return ApplyFilters(secrets, p.cfg.FilterChain)
}

// SecretIDs extracts secret ids from environment variables whose names
// mention BWS_SECRET or BITWARDEN. The result is sorted and de-duplicated.
func SecretIDs(env map[string]string) []string {
	var ids []string
	for key, value := range env {
		upper := strings.ToUpper(key)
		if strings.Contains(upper, "BWS_SECRET") || strings.Contains(upper, "BITWARDEN") {
			ids = append(ids, secretIDPattern.FindAllString(value, -1)...)
		}
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

// FetchSecret runs "bws secret get <id> --output json".
func (f *CLIFetcher) FetchSecret(ctx context.Context, cfg BWSConfig, id string) (string, error) {
	binary := f.Binary
	if binary == "" {
		binary = "bws"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return "", err
	}

	cmd := exec.CommandContext(ctx, path, "secret", "get", id, "--output", "json")
	cmd.Env = []string{envAccessToken + "=" + cfg.AccessToken}
	if cfg.VaultURL != "" && cfg.VaultURL != DefaultVaultURL {
		cmd.Env = append(cmd.Env, "BWS_SERVER_URL="+cfg.VaultURL)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("bws secret get %s: %w: %s", id, err, msg)
		}
		return "", fmt.Errorf("bws secret get %s: %w", id, err)
	}

	var secret bwsSecret
	if err := json.Unmarshal(stdout.Bytes(), &secret); err != nil {
		return "", fmt.Errorf("bws secret get %s: invalid output: %w", id, err)
	}
	return secret.Value, nil
}
