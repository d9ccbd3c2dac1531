// Package querylist provides the QueryList subject, the list of queries a viewer offers
// together with their query type and coordinate representation.
package querylist

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/ValentinKolb/dAttr/lib/attr"
	"github.com/ValentinKolb/dAttr/lib/codec"
)

// TypeName is the subject type name of the query list
const TypeName = "QueryList"

// ErrInvalid is returned by Validate if the parallel vectors disagree
var ErrInvalid = errors.New("invalid query list")

func init() {
	attr.Register(TypeName, func() attr.Subject { return New() })
}

// --------------------------------------------------------------------------
// Enumerations
// --------------------------------------------------------------------------

type QueryType int

const (
	DatabaseQuery QueryType = iota
	PointQuery
	LineQuery
)

var queryTypeNames = []string{"DatabaseQuery", "PointQuery", "LineQuery"}

func (t QueryType) String() string {
	if t < 0 || int(t) >= len(queryTypeNames) {
		return "Unknown"
	}
	return queryTypeNames[t]
}

// QueryTypeFromString parses the name returned by QueryType.String
func QueryTypeFromString(s string) (QueryType, bool) {
	i := slices.Index(queryTypeNames, s)
	return QueryType(max(i, 0)), i >= 0
}

type CoordinateRepresentation int

const (
	WorldSpace CoordinateRepresentation = iota
	ScreenSpace
)

var coordRepNames = []string{"WorldSpace", "ScreenSpace"}

func (r CoordinateRepresentation) String() string {
	if r < 0 || int(r) >= len(coordRepNames) {
		return "Unknown"
	}
	return coordRepNames[r]
}

// CoordinateRepresentationFromString parses the name returned by CoordinateRepresentation.String
func CoordinateRepresentationFromString(s string) (CoordinateRepresentation, bool) {
	i := slices.Index(coordRepNames, s)
	return CoordinateRepresentation(max(i, 0)), i >= 0
}

// --------------------------------------------------------------------------
// QueryList
// --------------------------------------------------------------------------

// QueryList holds three parallel vectors: query names, query types and coordinate representations
type QueryList struct {
	sel      *attr.Selection
	names    []string
	types    []int
	coordRep []int
}

var schema = attr.NewSchema[*QueryList](TypeName,
	attr.Field[*QueryList]{
		Name:   "names",
		Type:   attr.FieldTypeStringVector,
		Write:  func(q *QueryList, buf *codec.Buffer) { buf.WriteStringVector(q.names) },
		Read:   func(q *QueryList, buf *codec.Buffer) (err error) { q.names, err = buf.ReadStringVector(); return },
		Equal:  func(a, b *QueryList) bool { return slices.Equal(a.names, b.names) },
		Format: func(q *QueryList, indent string) string { return attr.FormatStringVector("names", q.names, indent) },
	},
	intVectorField("types", func(q *QueryList) *[]int { return &q.types }),
	intVectorField("coordRep", func(q *QueryList) *[]int { return &q.coordRep }),
)

func intVectorField(name string, value func(q *QueryList) *[]int) attr.Field[*QueryList] {
	return attr.Field[*QueryList]{
		Name:  name,
		Type:  attr.FieldTypeIntVector,
		Write: func(q *QueryList, buf *codec.Buffer) { buf.WriteIntVector(*value(q)) },
		Read: func(q *QueryList, buf *codec.Buffer) error {
			v, err := buf.ReadIntVector()
			if err != nil {
				return err
			}
			*value(q) = v
			return nil
		},
		Equal:  func(a, b *QueryList) bool { return slices.Equal(*value(a), *value(b)) },
		Format: func(q *QueryList, indent string) string { return attr.FormatIntVector(name, *value(q), indent) },
	}
}

// New creates an empty query list
func New() *QueryList {
	return &QueryList{sel: attr.NewSelection(schema.NumFields())}
}

// AddQuery appends a query. Queries are not unique by name, the same name may be offered
// with different types or representations.
func (q *QueryList) AddQuery(name string, t QueryType, rep CoordinateRepresentation) {
	q.names = append(q.names, name)
	q.types = append(q.types, int(t))
	q.coordRep = append(q.coordRep, int(rep))
	q.sel.SelectAll()
}

// QueryExists reports whether a query with the given name, type and representation exists
func (q *QueryList) QueryExists(name string, t QueryType, rep CoordinateRepresentation) bool {
	for i, n := range q.names {
		if n == name && i < len(q.types) && i < len(q.coordRep) &&
			q.types[i] == int(t) && q.coordRep[i] == int(rep) {
			return true
		}
	}
	return false
}

func (q *QueryList) Names() []string { return slices.Clone(q.names) }
func (q *QueryList) Types() []int    { return slices.Clone(q.types) }
func (q *QueryList) CoordRep() []int { return slices.Clone(q.coordRep) }
func (q *QueryList) NumQueries() int { return len(q.names) }

func (q *QueryList) SetNames(v []string) { q.names = slices.Clone(v); q.sel.Select(0) }
func (q *QueryList) SetTypes(v []int)    { q.types = slices.Clone(v); q.sel.Select(1) }
func (q *QueryList) SetCoordRep(v []int) { q.coordRep = slices.Clone(v); q.sel.Select(2) }

// --------------------------------------------------------------------------
// Interface Methods (docu see attr.Subject)
// --------------------------------------------------------------------------

func (q *QueryList) Selection() *attr.Selection { return q.sel }
func (q *QueryList) TypeName() string           { return TypeName }
func (q *QueryList) NumFields() int             { return schema.NumFields() }

func (q *QueryList) WriteField(index int, buf *codec.Buffer) {
	schema.Write(index, q, buf)
}

func (q *QueryList) ReadField(index int, buf *codec.Buffer) error {
	return schema.Read(index, q, buf)
}

// Validate checks that the three vectors have the same length and hold known enum values
func (q *QueryList) Validate() error {
	if len(q.names) != len(q.types) || len(q.names) != len(q.coordRep) {
		return fmt.Errorf("%w: %d names, %d types, %d representations",
			ErrInvalid, len(q.names), len(q.types), len(q.coordRep))
	}
	for i := range q.names {
		if QueryType(q.types[i]).String() == "Unknown" || CoordinateRepresentation(q.coordRep[i]).String() == "Unknown" {
			return fmt.Errorf("%w: query %q has type %d and representation %d", ErrInvalid, q.names[i], q.types[i], q.coordRep[i])
		}
	}
	return nil
}

func (q *QueryList) Equal(other *QueryList) bool {
	return schema.Equal(q, other)
}

// Copy returns a deep copy with all slots marked as changed
func (q *QueryList) Copy() *QueryList {
	c := &QueryList{
		sel:      attr.NewSelection(q.sel.Len()),
		names:    slices.Clone(q.names),
		types:    slices.Clone(q.types),
		coordRep: slices.Clone(q.coordRep),
	}
	c.sel.SelectAll()
	return c
}

func (q *QueryList) Dump(indent string) string {
	return schema.Dump(q, indent)
}

func (q *QueryList) String() string {
	var sb strings.Builder
	for i, n := range q.names {
		if i < len(q.types) && i < len(q.coordRep) {
			fmt.Fprintf(&sb, "%s (%s, %s)\n", n, QueryType(q.types[i]), CoordinateRepresentation(q.coordRep[i]))
		}
	}
	return sb.String()
}
