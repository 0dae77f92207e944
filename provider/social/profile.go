package social

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"

	"github.com/kbukum/trustauth/errors"
)

// Profile is the part of a provider profile a login needs.
type Profile struct {
	ID    string
	Email string
	Name  string
}

const maxProfileBytes = 1 << 20

func (p *Provider) fetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	endpoint, err := url.Parse(p.cfg.ProfileURL)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("social: profile url: %w", err))
	}
	if len(p.cfg.Fields) > 0 {
		q := endpoint.Query()
		q.Set("fields", strings.Join(p.cfg.Fields, ","))
		endpoint.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), http.NoBody)
	if err != nil {
		return nil, errors.Internal(err)
	}
	req.Header.Set("Accept", "application/json")

	clientCtx := context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
	client := oauth2.NewClient(clientCtx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.ExternalServiceError(p.cfg.Name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, errors.InvalidCredentials()
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, errors.ExternalServiceError(p.cfg.Name, fmt.Errorf("profile request returned %d", resp.StatusCode))
	}

	dec := json.NewDecoder(io.LimitReader(resp.Body, maxProfileBytes))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.ExternalServiceError(p.cfg.Name, fmt.Errorf("decode profile: %w", err))
	}

	profile := &Profile{
		ID:    stringField(raw, p.cfg.IDField),
		Email: stringField(raw, p.cfg.EmailField),
		Name:  stringField(raw, p.cfg.NameField),
	}
	if profile.ID == "" {
		return nil, errors.ExternalServiceError(p.cfg.Name, fmt.Errorf("profile has no %q", p.cfg.IDField))
	}
	return profile, nil
}

// stringField reads string and numeric profile values; GitHub ids are numbers.
func stringField(raw map[string]any, key string) string {
	switch v := raw[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
