package provider_test

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/kbukum/trustauth/errors"
	"github.com/kbukum/trustauth/principal"
	"github.com/kbukum/trustauth/provider"
)

type stubProvider struct {
	name string
	user *principal.Principal
	err  error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Verify(context.Context, provider.Credential) (*principal.Principal, error) {
	return s.user, s.err
}

func TestRegistry_ResolveReturnsRegisteredInstance(t *testing.T) {
	reg := provider.NewRegistry()
	fb := &stubProvider{name: "facebook"}
	reg.Register("facebook", fb)

	got, err := reg.Resolve("facebook")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got != fb {
		t.Error("Resolve should return the exact registered instance")
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	reg := provider.NewRegistry()
	reg.Register("facebook", &stubProvider{name: "facebook"})

	got, err := reg.Resolve("twitter")
	if got != nil {
		t.Errorf("Resolve returned %v for an unknown id", got)
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeProviderNotSupported {
		t.Fatalf("err = %v, want PROVIDER_NOT_SUPPORTED", err)
	}
	if appErr.Details["provider"] != "twitter" {
		t.Errorf("details = %v", appErr.Details)
	}
}

func TestRegistry_LastWriteWins(t *testing.T) {
	reg := provider.NewRegistry()
	first := &stubProvider{name: "first"}
	second := &stubProvider{name: "second"}
	reg.Register("facebook", first)
	reg.Register("facebook", second)

	got, _ := reg.Resolve("facebook")
	if got != second {
		t.Error("re-registration should overwrite")
	}
	if names := reg.Names(); len(names) != 1 {
		t.Errorf("Names = %v", names)
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := provider.NewRegistry()
	for _, id := range []string{"local", "facebook", "google"} {
		reg.Register(id, &stubProvider{name: id})
	}
	if got := reg.Names(); !slices.Equal(got, []string{"facebook", "google", "local"}) {
		t.Errorf("Names = %v", got)
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	reg := provider.NewRegistry()
	reg.Register("facebook", &stubProvider{name: "facebook"})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			reg.Register(fmt.Sprintf("p%d", i), &stubProvider{name: "p"})
		}(i)
		go func() {
			defer wg.Done()
			if _, err := reg.Resolve("facebook"); err != nil {
				t.Errorf("Resolve: %v", err)
			}
		}()
	}
	wg.Wait()
	if len(reg.Names()) != 21 {
		t.Errorf("Names = %d, want 21", len(reg.Names()))
	}
}

func TestFunc(t *testing.T) {
	want := &principal.Principal{Username: "alice"}
	p := provider.Func{ID: "custom", Fn: func(_ context.Context, c provider.Credential) (*principal.Principal, error) {
		if c.AccessToken != "tok" {
			return nil, errors.InvalidCredentials()
		}
		return want, nil
	}}
	if p.Name() != "custom" {
		t.Errorf("Name = %q", p.Name())
	}
	got, err := p.Verify(context.Background(), provider.Credential{AccessToken: "tok"})
	if err != nil || got != want {
		t.Errorf("Verify = %v, %v", got, err)
	}
}

func TestFunc_Verify(t *testing.T) {
	alice := &principal.Principal{ID: "1", Username: "alice"}
	tests := []struct {
		name     string
		user     *principal.Principal
		err      error
		wantUser bool
		wantCode errors.ErrorCode
	}{
		{name: "principal", user: alice, wantUser: true},
		{name: "error", err: errors.InvalidCredentials(), wantCode: errors.ErrCodeInvalidCredentials},
		{name: "nil principal without error", wantCode: errors.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := provider.Func{ID: "fn", Fn: func(context.Context, provider.Credential) (*principal.Principal, error) {
				return tt.user, tt.err
			}}
			got, err := f.Verify(context.Background(), provider.Credential{})
			if tt.wantUser {
				if err != nil || got != alice {
					t.Fatalf("Verify = %v, %v", got, err)
				}
				return
			}
			if got != nil || !errors.HasCode(err, tt.wantCode) {
				t.Errorf("Verify = %v, %v; want code %s", got, err, tt.wantCode)
			}
		})
	}
}
