package attr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ValentinKolb/dAttr/lib/codec"
)

// --------------------------------------------------------------------------
// Field Types
// --------------------------------------------------------------------------

// FieldType describes the kind of value stored in a field slot
type FieldType uint8

const (
	FieldTypeUnknown      FieldType = iota
	FieldTypeInt                    // int
	FieldTypeBool                   // bool
	FieldTypeFloat                  // float32
	FieldTypeString                 // string
	FieldTypeEnum                   // int backed enumeration
	FieldTypeStringVector           // []string
	FieldTypeIntVector              // []int
	FieldTypeByteArray              // fixed size []byte
	FieldTypeAtt                    // nested subject
	FieldTypeAttVector              // sequence of nested subjects
)

// String returns the name of the field type as used in debug output
func (t FieldType) String() string {
	switch t {
	case FieldTypeInt:
		return "int"
	case FieldTypeBool:
		return "bool"
	case FieldTypeFloat:
		return "float"
	case FieldTypeString:
		return "string"
	case FieldTypeEnum:
		return "enum"
	case FieldTypeStringVector:
		return "stringVector"
	case FieldTypeIntVector:
		return "intVector"
	case FieldTypeByteArray:
		return "ucharArray"
	case FieldTypeAtt:
		return "att"
	case FieldTypeAttVector:
		return "attVector"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Field Descriptor
// --------------------------------------------------------------------------

// Field describes one slot of a subject type S.
// Read must only update the value, the schema marks the slot dirty after a successful read.
type Field[S any] struct {
	Name   string
	Type   FieldType
	Write  func(s S, buf *codec.Buffer)
	Read   func(s S, buf *codec.Buffer) error
	Equal  func(a, b S) bool
	Format func(s S, indent string) string
}

// --------------------------------------------------------------------------
// Debug Rendering Helpers
// --------------------------------------------------------------------------

// FormatString renders a string field
func FormatString(name, value, indent string) string {
	return indent + name + " = " + strconv.Quote(value)
}

// FormatInt renders an int field
func FormatInt(name string, value int, indent string) string {
	return indent + name + " = " + strconv.Itoa(value)
}

// FormatBool renders a bool field
func FormatBool(name string, value bool, indent string) string {
	return indent + name + " = " + strconv.FormatBool(value)
}

// FormatFloat renders a float field
func FormatFloat(name string, value float32, indent string) string {
	return indent + name + " = " + strconv.FormatFloat(float64(value), 'g', -1, 32)
}

// FormatStringVector renders a string vector field
func FormatStringVector(name string, values []string, indent string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = strconv.Quote(v)
	}
	return indent + name + " = {" + strings.Join(quoted, ", ") + "}"
}

// FormatIntVector renders an int vector field
func FormatIntVector(name string, values []int, indent string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return indent + name + " = {" + strings.Join(parts, ", ") + "}"
}

// FormatByteArray renders a byte array field
func FormatByteArray(name string, values []byte, indent string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(int(v))
	}
	return indent + name + " = {" + strings.Join(parts, ", ") + "}"
}

// FormatEntities renders a sequence of nested entities, each one indented one level deeper
func FormatEntities[T interface{ Dump(indent string) string }](name string, values []T, indent string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s%s = {\n", indent, name))
	for i, v := range values {
		sb.WriteString(v.Dump(indent + "    "))
		if i < len(values)-1 {
			sb.WriteString(", ")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(indent + "}")
	return sb.String()
}
