package querylist

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ValentinKolb/dAttr/lib/attr"
	"github.com/ValentinKolb/dAttr/lib/codec"
)

func TestAddQuery(t *testing.T) {
	q := New()
	q.AddQuery("Volume", DatabaseQuery, WorldSpace)
	q.AddQuery("Pick", PointQuery, ScreenSpace)
	q.AddQuery("Pick", PointQuery, WorldSpace)

	tests := []struct {
		name string
		t    QueryType
		rep  CoordinateRepresentation
		want bool
	}{
		{"Volume", DatabaseQuery, WorldSpace, true},
		{"Volume", PointQuery, WorldSpace, false},
		{"Pick", PointQuery, ScreenSpace, true},
		{"Pick", PointQuery, WorldSpace, true},
		{"Lineout", LineQuery, WorldSpace, false},
	}
	for _, tt := range tests {
		if got := q.QueryExists(tt.name, tt.t, tt.rep); got != tt.want {
			t.Errorf("QueryExists(%s, %s, %s) = %v, want %v", tt.name, tt.t, tt.rep, got, tt.want)
		}
	}
	if q.NumQueries() != 3 || q.Selection().NumSelected() != 3 {
		t.Errorf("NumQueries() = %d, selected %d", q.NumQueries(), q.Selection().NumSelected())
	}
}

func TestSync(t *testing.T) {
	src := New()
	src.AddQuery("Volume", DatabaseQuery, WorldSpace)
	src.AddQuery("Lineout", LineQuery, WorldSpace)

	dst := New()
	if err := attr.Sync(dst, src); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if !dst.Equal(src) {
		t.Errorf("dst = %s, want %s", dst, src)
	}

	// only the representations changed
	src.SetCoordRep([]int{int(ScreenSpace), int(WorldSpace)})
	buf := codec.NewBuffer(64)
	if n := attr.WriteChanges(src, buf); n != 1 {
		t.Fatalf("WriteChanges() wrote %d fields, want 1", n)
	}
	if err := attr.ReadChanges(dst, buf); err != nil {
		t.Fatalf("ReadChanges() error = %v", err)
	}
	if !reflect.DeepEqual(dst.CoordRep(), []int{1, 0}) ||
		!reflect.DeepEqual(dst.Names(), []string{"Volume", "Lineout"}) {
		t.Errorf("dst = %s", dst)
	}
}

func TestValidate(t *testing.T) {
	q := New()
	q.AddQuery("Volume", DatabaseQuery, WorldSpace)
	if err := q.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	q.SetTypes(nil)
	if err := q.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate() with missing types error = %v, want ErrInvalid", err)
	}

	q.SetTypes([]int{9})
	if err := q.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("Validate() with unknown type error = %v, want ErrInvalid", err)
	}

	// a message that leaves the vectors inconsistent is reported by ReadChanges
	buf := codec.NewBuffer(32)
	buf.WriteInt(0)
	buf.WriteStringVector([]string{"a", "b"})
	if err := attr.ReadChanges(New(), buf); !errors.Is(err, ErrInvalid) {
		t.Errorf("ReadChanges() error = %v, want ErrInvalid", err)
	}
}

func TestEnums(t *testing.T) {
	for _, v := range []QueryType{DatabaseQuery, PointQuery, LineQuery} {
		if got, ok := QueryTypeFromString(v.String()); !ok || got != v {
			t.Errorf("QueryTypeFromString(%s) = %v, %v", v, got, ok)
		}
	}
	for _, v := range []CoordinateRepresentation{WorldSpace, ScreenSpace} {
		if got, ok := CoordinateRepresentationFromString(v.String()); !ok || got != v {
			t.Errorf("CoordinateRepresentationFromString(%s) = %v, %v", v, got, ok)
		}
	}
	if _, ok := QueryTypeFromString("Bogus"); ok {
		t.Errorf("QueryTypeFromString(Bogus) succeeded")
	}
	if QueryType(7).String() != "Unknown" {
		t.Errorf("QueryType(7).String() = %s", QueryType(7))
	}
}

func TestCopy(t *testing.T) {
	q := New()
	q.AddQuery("Volume", DatabaseQuery, WorldSpace)
	q.Selection().ClearAll()

	c := q.Copy()
	if !c.Equal(q) || c.Selection().NumSelected() != 3 {
		t.Fatalf("Copy() = %s with %d selected", c, c.Selection().NumSelected())
	}
	c.AddQuery("Pick", PointQuery, WorldSpace)
	if q.NumQueries() != 1 {
		t.Errorf("copy shares state with the original")
	}
}
