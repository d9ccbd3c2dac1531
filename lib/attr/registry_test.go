package attr

import (
	"errors"
	"reflect"
	"testing"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if err := r.Register("point", func() Subject { return newPoint(0) }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register("labeledPoint", func() Subject { return newLabeledPoint() }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register("point", func() Subject { return newPoint(0) }); err == nil {
		t.Errorf("Register() of a duplicate type succeeded")
	}

	if got := r.Types(); !reflect.DeepEqual(got, []string{"labeledPoint", "point"}) {
		t.Errorf("Types() = %v", got)
	}

	s, err := r.Create("labeledPoint")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.TypeName() != "labeledPoint" || s.NumFields() != 4 {
		t.Errorf("Create() returned %s with %d fields", s.TypeName(), s.NumFields())
	}

	// every call returns a fresh instance
	s2, _ := r.Create("labeledPoint")
	if s == s2 {
		t.Errorf("Create() returned the same instance twice")
	}

	if _, err := r.Create("missing"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("Create(missing) error = %v, want ErrUnknownType", err)
	}
}
