package attr

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/ValentinKolb/dAttr/lib/codec"
)

// --------------------------------------------------------------------------
// Test Subjects
// --------------------------------------------------------------------------

// point is a minimal subject with two int fields
type point struct {
	sel  *Selection
	x, y int
}

var pointSchema = NewSchema[*point]("point",
	Field[*point]{
		Name:   "x",
		Type:   FieldTypeInt,
		Write:  func(p *point, buf *codec.Buffer) { buf.WriteInt(p.x) },
		Read:   func(p *point, buf *codec.Buffer) (err error) { p.x, err = buf.ReadInt(); return },
		Equal:  func(a, b *point) bool { return a.x == b.x },
		Format: func(p *point, indent string) string { return FormatInt("x", p.x, indent) },
	},
	Field[*point]{
		Name:  "y",
		Type:  FieldTypeInt,
		Write: func(p *point, buf *codec.Buffer) { buf.WriteInt(p.y) },
		Read:  func(p *point, buf *codec.Buffer) (err error) { p.y, err = buf.ReadInt(); return },
	},
)

// newPoint creates a point with room for extra fields of composing subjects
func newPoint(moreFields int) *point {
	return &point{sel: NewSelection(pointSchema.NumFields() + moreFields)}
}

func (p *point) Selection() *Selection { return p.sel }
func (p *point) TypeName() string      { return pointSchema.TypeName() }
func (p *point) NumFields() int        { return pointSchema.NumFields() }
func (p *point) WriteField(i int, buf *codec.Buffer) {
	pointSchema.Write(i, p, buf)
}
func (p *point) ReadField(i int, buf *codec.Buffer) error {
	return pointSchema.Read(i, p, buf)
}

func (p *point) SetX(x int) { p.x = x; p.sel.Select(0) }
func (p *point) SetY(y int) { p.y = y; p.sel.Select(1) }

// labeledPoint composes a point and adds two fields of its own
type labeledPoint struct {
	*point
	label string
	tags  []string
}

var labeledPointSchema = NewSchema[*labeledPoint]("labeledPoint", append(
	Embed(pointSchema, func(l *labeledPoint) *point { return l.point }),
	Field[*labeledPoint]{
		Name:   "label",
		Type:   FieldTypeString,
		Write:  func(l *labeledPoint, buf *codec.Buffer) { buf.WriteString(l.label) },
		Read:   func(l *labeledPoint, buf *codec.Buffer) (err error) { l.label, err = buf.ReadString(); return },
		Equal:  func(a, b *labeledPoint) bool { return a.label == b.label },
		Format: func(l *labeledPoint, indent string) string { return FormatString("label", l.label, indent) },
	},
	Field[*labeledPoint]{
		Name:   "tags",
		Type:   FieldTypeStringVector,
		Write:  func(l *labeledPoint, buf *codec.Buffer) { buf.WriteStringVector(l.tags) },
		Read:   func(l *labeledPoint, buf *codec.Buffer) (err error) { l.tags, err = buf.ReadStringVector(); return },
		Equal:  func(a, b *labeledPoint) bool { return slices.Equal(a.tags, b.tags) },
		Format: func(l *labeledPoint, indent string) string { return FormatStringVector("tags", l.tags, indent) },
	},
)...)

func newLabeledPoint() *labeledPoint {
	return &labeledPoint{point: newPoint(2)}
}

func (l *labeledPoint) TypeName() string { return labeledPointSchema.TypeName() }
func (l *labeledPoint) NumFields() int   { return labeledPointSchema.NumFields() }
func (l *labeledPoint) WriteField(i int, buf *codec.Buffer) {
	labeledPointSchema.Write(i, l, buf)
}
func (l *labeledPoint) ReadField(i int, buf *codec.Buffer) error {
	return labeledPointSchema.Read(i, l, buf)
}

func (l *labeledPoint) SetLabel(label string) { l.label = label; l.sel.Select(2) }
func (l *labeledPoint) SetTags(tags []string) { l.tags = tags; l.sel.Select(3) }

// --------------------------------------------------------------------------
// Tests
// --------------------------------------------------------------------------

// TestWriteChangesSelective checks that only dirty fields are written, in ascending order
func TestWriteChangesSelective(t *testing.T) {
	p := newPoint(0)
	p.SetY(7)

	buf := codec.NewBuffer(16)
	if n := WriteChanges(p, buf); n != 1 {
		t.Fatalf("WriteChanges() wrote %d fields, want 1", n)
	}

	expected := codec.NewBuffer(16)
	expected.WriteInt(1)
	expected.WriteInt(7)
	if !reflect.DeepEqual(buf.Bytes(), expected.Bytes()) {
		t.Errorf("encoded %v, want %v", buf.Bytes(), expected.Bytes())
	}
	if p.Selection().NumSelected() != 0 {
		t.Errorf("selection not cleared after WriteChanges: %v", p.Selection().SelectedIndices())
	}

	// nothing changed -> nothing written
	buf.Reset()
	if n := WriteChanges(p, buf); n != 0 || buf.Len() != 0 {
		t.Errorf("second WriteChanges() wrote %d fields (%d bytes), want 0", n, buf.Len())
	}
}

// TestReadChangesTouchesOnlyReceivedFields checks that untouched fields of the receiver
// keep their value and that applied fields are marked dirty for relaying
func TestReadChangesTouchesOnlyReceivedFields(t *testing.T) {
	src := newPoint(0)
	src.SetX(3)

	dst := newPoint(0)
	dst.y = 99

	if err := Sync(dst, src); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if dst.x != 3 || dst.y != 99 {
		t.Errorf("dst = (%d, %d), want (3, 99)", dst.x, dst.y)
	}
	if got := dst.Selection().SelectedIndices(); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("dst selection = %v, want [0]", got)
	}
}

// TestComposedSchema checks that embedded fields form a prefix of the index space
func TestComposedSchema(t *testing.T) {
	if labeledPointSchema.NumFields() != 4 {
		t.Fatalf("NumFields() = %d, want 4", labeledPointSchema.NumFields())
	}
	names := []string{"x", "y", "label", "tags"}
	for i, name := range names {
		if got := labeledPointSchema.FieldName(i); got != name {
			t.Errorf("FieldName(%d) = %s, want %s", i, got, name)
		}
		if idx, ok := labeledPointSchema.FieldIndex(name); !ok || idx != i {
			t.Errorf("FieldIndex(%s) = %d, %v, want %d", name, idx, ok, i)
		}
	}
	if labeledPointSchema.FieldTypeName(3) != "stringVector" {
		t.Errorf("FieldTypeName(3) = %s", labeledPointSchema.FieldTypeName(3))
	}
	if labeledPointSchema.FieldName(4) != "invalid index" {
		t.Errorf("FieldName(4) = %s, want invalid index", labeledPointSchema.FieldName(4))
	}

	src := newLabeledPoint()
	src.SetX(1)
	src.SetTags([]string{"a", "b"})

	buf := codec.NewBuffer(64)
	if n := WriteChanges(src, buf); n != 2 {
		t.Fatalf("WriteChanges() wrote %d fields, want 2", n)
	}

	dst := newLabeledPoint()
	dst.label = "keep"
	if err := ReadChanges(dst, buf); err != nil {
		t.Fatalf("ReadChanges() error = %v", err)
	}
	if dst.x != 1 || dst.label != "keep" || !slices.Equal(dst.tags, []string{"a", "b"}) {
		t.Errorf("dst = %+v", dst)
	}
	if got := dst.Selection().SelectedIndices(); !reflect.DeepEqual(got, []int{0, 3}) {
		t.Errorf("dst selection = %v, want [0 3]", got)
	}
}

// TestProtocolMismatch checks that unknown slot indices are rejected before decoding
func TestProtocolMismatch(t *testing.T) {
	buf := codec.NewBuffer(16)
	buf.WriteInt(9)
	buf.WriteInt(1234)

	p := newPoint(0)
	p.x, p.y = 1, 2
	err := ReadChanges(p, buf)
	if !errors.Is(err, ErrProtocolMismatch) {
		t.Fatalf("ReadChanges() error = %v, want ErrProtocolMismatch", err)
	}
	if p.x != 1 || p.y != 2 || p.Selection().NumSelected() != 0 {
		t.Errorf("subject mutated by rejected message: %+v", p)
	}
}

// TestDecodeFaultKeepsEarlierFields checks the documented partial application behaviour
func TestDecodeFaultKeepsEarlierFields(t *testing.T) {
	buf := codec.NewBuffer(16)
	buf.WriteInt(0)
	buf.WriteInt(5)
	buf.WriteInt(1)
	_ = buf.WriteByte(0) // truncated int

	p := newPoint(0)
	err := ReadChanges(p, buf)
	if !errors.Is(err, codec.ErrDecode) {
		t.Fatalf("ReadChanges() error = %v, want ErrDecode", err)
	}
	if p.x != 5 {
		t.Errorf("x = %d, want 5 (applied before the fault)", p.x)
	}
	if p.Selection().IsSelected(1) {
		t.Errorf("field y marked dirty although decoding failed")
	}
}

// TestWriteAllReadAll checks the nested full encoding
func TestWriteAllReadAll(t *testing.T) {
	src := newLabeledPoint()
	src.x, src.y, src.label, src.tags = 1, 2, "l", []string{"t"}

	buf := codec.NewBuffer(64)
	WriteAll(src, buf)
	if src.Selection().NumSelected() != 0 {
		t.Errorf("WriteAll() modified the selection")
	}
	buf.WriteString("trailer")

	dst := newLabeledPoint()
	if err := ReadAll(dst, buf); err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !labeledPointSchema.Equal(src, dst) {
		t.Errorf("dst = %+v, want %+v", dst, src)
	}
	if s, err := buf.ReadString(); err != nil || s != "trailer" {
		t.Errorf("ReadAll() consumed too much: %q, %v", s, err)
	}
}

// TestFieldsEqualFallback checks that fields without Equal compare by encoding
func TestFieldsEqualFallback(t *testing.T) {
	a, b := newPoint(0), newPoint(0)
	a.y, b.y = 4, 4
	if !pointSchema.FieldsEqual(1, a, b) {
		t.Errorf("FieldsEqual(1) = false, want true")
	}
	b.y = 5
	if pointSchema.FieldsEqual(1, a, b) || pointSchema.Equal(a, b) {
		t.Errorf("FieldsEqual(1) = true, want false")
	}
}

// TestFormat checks the debug rendering
func TestDump(t *testing.T) {
	l := newLabeledPoint()
	l.x, l.label, l.tags = 3, "name", []string{"a", "b"}
	out := labeledPointSchema.Dump(l, "  ")
	for _, want := range []string{"  x = 3\n", "  y = <int>\n", "  label = \"name\"\n", "  tags = {\"a\", \"b\"}\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("Dump() = %q, missing %q", out, want)
		}
	}
}

// TestSelection checks the bulk operations and out of range handling
func TestSelection(t *testing.T) {
	s := NewSelection(3)
	s.Select(5)
	s.Select(-1)
	if s.NumSelected() != 0 {
		t.Fatalf("out of range Select() changed the selection")
	}
	s.SelectAll()
	if s.NumSelected() != 3 {
		t.Errorf("NumSelected() = %d after SelectAll, want 3", s.NumSelected())
	}
	s.ClearAll()
	if s.NumSelected() != 0 || s.IsSelected(0) {
		t.Errorf("ClearAll() left selected fields: %v", s.SelectedIndices())
	}
}
