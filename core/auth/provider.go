package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

type ProviderConfig struct {
	Name        string
	Client      string
	Secret      string
	URL         string
	RedirectURL string
}

// Provider is an OpenID Connect identity provider used for social login.
type Provider struct {
	Name     string
	OAuth    *oauth2.Config
	Verifier *oidc.IDTokenVerifier
}

// MakeProviders discovers every configured provider. Providers without a
// client id are skipped.
func MakeProviders(ctx context.Context, cfgs []ProviderConfig) (map[string]Provider, error) {
	provs := make(map[string]Provider, len(cfgs))
	for _, cfg := range cfgs {
		if cfg.Client == "" {
			continue
		}

		op, err := oidc.NewProvider(ctx, cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("discovering %s: %w", cfg.Name, err)
		}

		provs[cfg.Name] = Provider{
			Name: cfg.Name,
			OAuth: &oauth2.Config{
				ClientID:     cfg.Client,
				ClientSecret: cfg.Secret,
				Endpoint:     op.Endpoint(),
				RedirectURL:  cfg.RedirectURL,
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
			Verifier: op.Verifier(&oidc.Config{ClientID: cfg.Client}),
		}
	}
	return provs, nil
}

// IDToken exchanges the authorization code and verifies the returned ID
// token against nonce. It returns the raw token.
func (p Provider) IDToken(ctx context.Context, code, nonce string) (string, error) {
	tok, err := p.OAuth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("exchanging code: %w", err)
	}

	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return "", errors.New("token response has no id_token")
	}

	idt, err := p.Verifier.Verify(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("verifying id token: %w", err)
	}
	if idt.Nonce != nonce {
		return "", errors.New("id token nonce mismatch")
	}
	return raw, nil
}
