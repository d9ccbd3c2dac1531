package colortable

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ValentinKolb/dAttr/lib/attr"
	"github.com/ValentinKolb/dAttr/lib/codec"
	"github.com/ValentinKolb/dAttr/lib/keyed"
)

// --------------------------------------------------------------------------
// ControlPoint
// --------------------------------------------------------------------------

// ControlPoint is one RGBA color at a position in [0, 1] of a color table
type ControlPoint struct {
	sel      *attr.Selection
	colors   [4]byte
	position float32
}

var controlPointSchema = attr.NewSchema[*ControlPoint]("ColorControlPoint",
	attr.Field[*ControlPoint]{
		Name: "colors",
		Type: attr.FieldTypeByteArray,
		Write: func(p *ControlPoint, buf *codec.Buffer) {
			buf.WriteByteVector(p.colors[:])
		},
		Read: func(p *ControlPoint, buf *codec.Buffer) error {
			c, err := buf.ReadByteVector()
			if err != nil {
				return err
			}
			if len(c) != len(p.colors) {
				return fmt.Errorf("%w: expected %d color components, got %d", codec.ErrDecode, len(p.colors), len(c))
			}
			copy(p.colors[:], c)
			return nil
		},
		Equal:  func(a, b *ControlPoint) bool { return a.colors == b.colors },
		Format: func(p *ControlPoint, indent string) string { return attr.FormatByteArray("colors", p.colors[:], indent) },
	},
	attr.Field[*ControlPoint]{
		Name:   "position",
		Type:   attr.FieldTypeFloat,
		Write:  func(p *ControlPoint, buf *codec.Buffer) { buf.WriteFloat(p.position) },
		Read:   func(p *ControlPoint, buf *codec.Buffer) (err error) { p.position, err = buf.ReadFloat(); return },
		Equal:  func(a, b *ControlPoint) bool { return a.position == b.position },
		Format: func(p *ControlPoint, indent string) string { return attr.FormatFloat("position", p.position, indent) },
	},
)

// NewControlPoint creates an opaque black control point at position 0
func NewControlPoint() *ControlPoint {
	return &ControlPoint{
		sel:    attr.NewSelection(controlPointSchema.NumFields()),
		colors: [4]byte{0, 0, 0, 255},
	}
}

// NewControlPointRGBA creates a control point with the given color and position
func NewControlPointRGBA(r, g, b, a byte, position float32) *ControlPoint {
	p := NewControlPoint()
	p.SetColors([4]byte{r, g, b, a})
	p.SetPosition(position)
	return p
}

// ParseControlPoint parses the textual form "r,g,b[,a]@position" used by the command line.
// The alpha component defaults to 255.
func ParseControlPoint(s string) (*ControlPoint, error) {
	rgba, pos, ok := strings.Cut(s, "@")
	if !ok {
		return nil, fmt.Errorf("invalid control point %q: missing @position", s)
	}
	parts := strings.Split(rgba, ",")
	if len(parts) != 3 && len(parts) != 4 {
		return nil, fmt.Errorf("invalid control point %q: expected 3 or 4 color components", s)
	}
	colors := [4]byte{0, 0, 0, 255}
	for i, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid control point %q: %v", s, err)
		}
		colors[i] = byte(v)
	}
	position, err := strconv.ParseFloat(strings.TrimSpace(pos), 32)
	if err != nil {
		return nil, fmt.Errorf("invalid control point %q: %v", s, err)
	}
	if position < 0 || position > 1 {
		return nil, fmt.Errorf("invalid control point %q: position must be in [0, 1]", s)
	}
	return NewControlPointRGBA(colors[0], colors[1], colors[2], colors[3], float32(position)), nil
}

func (p *ControlPoint) Colors() [4]byte   { return p.colors }
func (p *ControlPoint) Position() float32 { return p.position }

func (p *ControlPoint) SetColors(colors [4]byte) {
	p.colors = colors
	p.sel.Select(0)
}

func (p *ControlPoint) SetPosition(position float32) {
	p.position = position
	p.sel.Select(1)
}

// ------------------------------------------------------------------------------
// Interface Methods (docu see attr.Subject and attr.Entity)
// ------------------------------------------------------------------------------

func (p *ControlPoint) Selection() *attr.Selection { return p.sel }
func (p *ControlPoint) TypeName() string           { return controlPointSchema.TypeName() }
func (p *ControlPoint) NumFields() int             { return controlPointSchema.NumFields() }

func (p *ControlPoint) WriteField(index int, buf *codec.Buffer) {
	controlPointSchema.Write(index, p, buf)
}

func (p *ControlPoint) ReadField(index int, buf *codec.Buffer) error {
	return controlPointSchema.Read(index, p, buf)
}

func (p *ControlPoint) Write(buf *codec.Buffer)      { attr.WriteAll(p, buf) }
func (p *ControlPoint) Read(buf *codec.Buffer) error { return attr.ReadAll(p, buf) }

func (p *ControlPoint) Equal(other *ControlPoint) bool {
	return controlPointSchema.Equal(p, other)
}

func (p *ControlPoint) Copy() *ControlPoint {
	c := &ControlPoint{sel: attr.NewSelection(p.sel.Len()), colors: p.colors, position: p.position}
	c.sel.SelectAll()
	return c
}

func (p *ControlPoint) Dump(indent string) string {
	return strings.TrimSuffix(controlPointSchema.Dump(p, indent), "\n")
}

func (p *ControlPoint) String() string {
	return fmt.Sprintf("%d,%d,%d,%d@%g", p.colors[0], p.colors[1], p.colors[2], p.colors[3], p.position)
}

// --------------------------------------------------------------------------
// ControlPointList
// --------------------------------------------------------------------------

// SmoothingMethod selects how colors between two control points are interpolated
type SmoothingMethod int

const (
	SmoothingNone SmoothingMethod = iota
	SmoothingLinear
	SmoothingCubicSpline
)

func (m SmoothingMethod) String() string {
	switch m {
	case SmoothingNone:
		return "None"
	case SmoothingLinear:
		return "Linear"
	case SmoothingCubicSpline:
		return "CubicSpline"
	default:
		return "Unknown"
	}
}

// SmoothingMethodFromString parses the name returned by SmoothingMethod.String
func SmoothingMethodFromString(s string) (SmoothingMethod, bool) {
	for m := SmoothingNone; m <= SmoothingCubicSpline; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return SmoothingNone, false
}

// ControlPointList is one color table: a list of control points and its rendering flags
type ControlPointList struct {
	sel           *attr.Selection
	controlPoints []*ControlPoint
	smoothing     SmoothingMethod
	equalSpacing  bool
	discrete      bool
	external      bool
}

var controlPointListSchema = attr.NewSchema[*ControlPointList]("ColorControlPointList",
	attr.Field[*ControlPointList]{
		Name: "controlPoints",
		Type: attr.FieldTypeAttVector,
		Write: func(l *ControlPointList, buf *codec.Buffer) {
			buf.WriteInt(len(l.controlPoints))
			for _, p := range l.controlPoints {
				p.Write(buf)
			}
		},
		Read: func(l *ControlPointList, buf *codec.Buffer) error {
			n, err := buf.ReadCount()
			if err != nil {
				return err
			}
			points := make([]*ControlPoint, 0, min(n, buf.Remaining()))
			for j := 0; j < n; j++ {
				p := NewControlPoint()
				if err := p.Read(buf); err != nil {
					return fmt.Errorf("control point %d: %w", j, err)
				}
				points = append(points, p)
			}
			l.controlPoints = points
			return nil
		},
		Equal: func(a, b *ControlPointList) bool {
			return slices.EqualFunc(a.controlPoints, b.controlPoints, (*ControlPoint).Equal)
		},
		Format: func(l *ControlPointList, indent string) string {
			return attr.FormatEntities("controlPoints", l.controlPoints, indent)
		},
	},
	attr.Field[*ControlPointList]{
		Name:  "smoothing",
		Type:  attr.FieldTypeEnum,
		Write: func(l *ControlPointList, buf *codec.Buffer) { buf.WriteInt(int(l.smoothing)) },
		Read: func(l *ControlPointList, buf *codec.Buffer) error {
			v, err := buf.ReadInt()
			if err != nil {
				return err
			}
			if v < int(SmoothingNone) || v > int(SmoothingCubicSpline) {
				return fmt.Errorf("%w: invalid smoothing method %d", codec.ErrDecode, v)
			}
			l.smoothing = SmoothingMethod(v)
			return nil
		},
		Equal:  func(a, b *ControlPointList) bool { return a.smoothing == b.smoothing },
		Format: func(l *ControlPointList, indent string) string { return indent + "smoothing = " + l.smoothing.String() },
	},
	boolField("equalSpacingFlag", func(l *ControlPointList) *bool { return &l.equalSpacing }),
	boolField("discreteFlag", func(l *ControlPointList) *bool { return &l.discrete }),
	boolField("externalFlag", func(l *ControlPointList) *bool { return &l.external }),
)

func boolField(name string, value func(l *ControlPointList) *bool) attr.Field[*ControlPointList] {
	return attr.Field[*ControlPointList]{
		Name:   name,
		Type:   attr.FieldTypeBool,
		Write:  func(l *ControlPointList, buf *codec.Buffer) { buf.WriteBool(*value(l)) },
		Read:   func(l *ControlPointList, buf *codec.Buffer) (err error) { *value(l), err = buf.ReadBool(); return },
		Equal:  func(a, b *ControlPointList) bool { return *value(a) == *value(b) },
		Format: func(l *ControlPointList, indent string) string { return attr.FormatBool(name, *value(l), indent) },
	}
}

// NewControlPointList creates an empty, linearly smoothed color table
func NewControlPointList() *ControlPointList {
	return &ControlPointList{
		sel:       attr.NewSelection(controlPointListSchema.NumFields()),
		smoothing: SmoothingLinear,
	}
}

// NewControlPointListOf creates a color table from the given control points (the points are copied)
func NewControlPointListOf(points ...*ControlPoint) *ControlPointList {
	l := NewControlPointList()
	for _, p := range points {
		l.AddControlPoint(p)
	}
	return l
}

// AddControlPoint appends a copy of the control point
func (l *ControlPointList) AddControlPoint(p *ControlPoint) {
	l.controlPoints = append(l.controlPoints, p.Copy())
	l.sel.Select(0)
}

// RemoveControlPoint removes the control point at index. Indices out of range are ignored.
func (l *ControlPointList) RemoveControlPoint(index int) {
	if index < 0 || index >= len(l.controlPoints) {
		return
	}
	l.controlPoints = slices.Delete(l.controlPoints, index, index+1)
	l.sel.Select(0)
}

// ClearControlPoints removes all control points
func (l *ControlPointList) ClearControlPoints() {
	l.controlPoints = nil
	l.sel.Select(0)
}

// ControlPointAt returns the control point at index
func (l *ControlPointList) ControlPointAt(index int) (*ControlPoint, error) {
	if index < 0 || index >= len(l.controlPoints) {
		return nil, fmt.Errorf("%w: control point %d (len %d)", keyed.ErrIndex, index, len(l.controlPoints))
	}
	return l.controlPoints[index], nil
}

func (l *ControlPointList) NumControlPoints() int      { return len(l.controlPoints) }
func (l *ControlPointList) Smoothing() SmoothingMethod { return l.smoothing }
func (l *ControlPointList) EqualSpacing() bool         { return l.equalSpacing }
func (l *ControlPointList) Discrete() bool             { return l.discrete }
func (l *ControlPointList) External() bool             { return l.external }

func (l *ControlPointList) SetSmoothing(m SmoothingMethod) {
	l.smoothing = m
	l.sel.Select(1)
}

func (l *ControlPointList) SetEqualSpacing(v bool) {
	l.equalSpacing = v
	l.sel.Select(2)
}

func (l *ControlPointList) SetDiscrete(v bool) {
	l.discrete = v
	l.sel.Select(3)
}

func (l *ControlPointList) SetExternal(v bool) {
	l.external = v
	l.sel.Select(4)
}

// ------------------------------------------------------------------------------
// Interface Methods (docu see attr.Subject and attr.Entity)
// ------------------------------------------------------------------------------

func (l *ControlPointList) Selection() *attr.Selection { return l.sel }
func (l *ControlPointList) TypeName() string           { return controlPointListSchema.TypeName() }
func (l *ControlPointList) NumFields() int             { return controlPointListSchema.NumFields() }

func (l *ControlPointList) WriteField(index int, buf *codec.Buffer) {
	controlPointListSchema.Write(index, l, buf)
}

func (l *ControlPointList) ReadField(index int, buf *codec.Buffer) error {
	return controlPointListSchema.Read(index, l, buf)
}

func (l *ControlPointList) Write(buf *codec.Buffer)      { attr.WriteAll(l, buf) }
func (l *ControlPointList) Read(buf *codec.Buffer) error { return attr.ReadAll(l, buf) }

func (l *ControlPointList) Equal(other *ControlPointList) bool {
	return controlPointListSchema.Equal(l, other)
}

func (l *ControlPointList) Copy() *ControlPointList {
	c := &ControlPointList{
		sel:           attr.NewSelection(l.sel.Len()),
		controlPoints: make([]*ControlPoint, len(l.controlPoints)),
		smoothing:     l.smoothing,
		equalSpacing:  l.equalSpacing,
		discrete:      l.discrete,
		external:      l.external,
	}
	for i, p := range l.controlPoints {
		c.controlPoints[i] = p.Copy()
	}
	c.sel.SelectAll()
	return c
}

func (l *ControlPointList) Dump(indent string) string {
	return strings.TrimSuffix(controlPointListSchema.Dump(l, indent), "\n")
}

func (l *ControlPointList) String() string {
	return l.Dump("")
}
