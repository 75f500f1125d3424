package store

import (
	"errors"
	"testing"
)

func TestFSRoundTrip(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS() error = %v", err)
	}

	if _, err := s.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	if err := s.Set("pilot", []byte(`{"scenes": 42}`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, err := s.Get("pilot")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"scenes": 42}` {
		t.Errorf("Get() = %s", got)
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 1 || keys[0] != "pilot" {
		t.Errorf("Keys() = %v, want [pilot]", keys)
	}

	if err := s.Delete("pilot"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get("pilot"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete("pilot"); err != nil {
		t.Errorf("Delete(missing) error = %v, want nil", err)
	}
}

func TestJSONHelpers(t *testing.T) {
	s, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS() error = %v", err)
	}

	type payload struct {
		Title string `json:"title"`
		Days  int    `json:"days"`
	}
	in := payload{Title: "Harvest", Days: 9}
	if err := SetJSON(s, "harvest", in); err != nil {
		t.Fatalf("SetJSON() error = %v", err)
	}

	var out payload
	if err := GetJSON(s, "harvest", &out); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}

	var missing payload
	if err := GetJSON(s, "nope", &missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetJSON(missing) error = %v, want ErrNotFound", err)
	}
}
