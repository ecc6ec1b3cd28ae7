package source

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// mockStore implements Store for testing.
type mockStore struct {
	groups []string
}

func (m *mockStore) ListGroups(_ context.Context) ([]string, error) {
	return m.groups, nil
}

func (m *mockStore) QueryEvents(_ context.Context, _ Query) (Page, error) {
	return Page{}, nil
}

func backendFor(name string, groups ...string) Backend {
	return Backend{
		Name: name,
		Open: func(_ context.Context, _ Options) (Store, error) {
			return &mockStore{groups: groups}, nil
		},
	}
}

func TestRegisterAndAll(t *testing.T) {
	// Save original registry and restore after test
	original := registry
	t.Cleanup(func() { registry = original })

	// Reset registry
	registry = nil

	Register(backendFor("zeta"))
	Register(backendFor("alpha"))

	all := All()
	if len(all) != 2 {
		t.Fatalf("All() returned %d backends, want 2", len(all))
	}
	if all[0].Name != "alpha" {
		t.Errorf("All()[0].Name = %q, want alpha", all[0].Name)
	}
	if all[1].Name != "zeta" {
		t.Errorf("All()[1].Name = %q, want zeta", all[1].Name)
	}
	if got := Names(); !reflect.DeepEqual(got, []string{"alpha", "zeta"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestByName(t *testing.T) {
	original := registry
	t.Cleanup(func() { registry = original })

	registry = nil

	Register(backendFor("alpha", "first"))
	Register(backendFor("beta"))
	Register(backendFor("alpha", "second"))

	tests := []struct {
		name   string
		lookup string
		wantOK bool
	}{
		{
			name:   "registered",
			lookup: "beta",
			wantOK: true,
		},
		{
			name:   "duplicate name",
			lookup: "alpha",
			wantOK: true,
		},
		{
			name:   "empty name",
			lookup: "",
			wantOK: false,
		},
		{
			name:   "non-existent backend",
			lookup: "gamma",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ByName(tt.lookup)
			if ok != tt.wantOK {
				t.Fatalf("ByName(%q) ok = %v, want %v", tt.lookup, ok, tt.wantOK)
			}
			if ok && got.Name != tt.lookup {
				t.Errorf("ByName(%q).Name = %q", tt.lookup, got.Name)
			}
		})
	}
}

func TestByName_FirstRegistrationWins(t *testing.T) {
	original := registry
	t.Cleanup(func() { registry = original })

	registry = nil

	Register(backendFor("alpha", "first"))
	Register(backendFor("alpha", "second"))

	b, ok := ByName("alpha")
	if !ok {
		t.Fatal("expected alpha to be registered")
	}
	store, err := b.Open(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	groups, _ := store.ListGroups(context.Background())
	if len(groups) != 1 || groups[0] != "first" {
		t.Errorf("groups = %v, want [first]", groups)
	}
}

func TestInitError(t *testing.T) {
	cause := errors.New("no credentials")
	var err error = &InitError{Backend: "cloudwatch", Err: cause}

	if got := err.Error(); got != "cloudwatch client: no credentials" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	var ie *InitError
	if !errors.As(err, &ie) || ie.Backend != "cloudwatch" {
		t.Errorf("errors.As failed: %v", ie)
	}
}
