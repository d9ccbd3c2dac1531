package colortable

import (
	"strings"

	"github.com/ValentinKolb/dAttr/lib/attr"
	"github.com/ValentinKolb/dAttr/lib/codec"
	"github.com/ValentinKolb/dAttr/lib/keyed"
)

// TypeName is the subject type name of the color table registry
const TypeName = "ColorTableAttributes"

// Slot indices of Attributes. They are part of the wire format.
const (
	SlotNames = iota
	SlotColorTables
	SlotActiveContinuous
	SlotActiveDiscrete
)

// Default names of the active color tables of a new registry
const (
	DefaultContinuous = "hot"
	DefaultDiscrete   = "levels"
)

func init() {
	attr.Register(TypeName, func() attr.Subject { return NewAttributes() })
}

// Attributes is the registry of named color tables with an active continuous and an
// active discrete table
type Attributes struct {
	sel              *attr.Selection
	tables           *keyed.Collection[*ControlPointList]
	activeContinuous *keyed.Selector
	activeDiscrete   *keyed.Selector
}

var attributesSchema = attr.NewSchema[*Attributes](TypeName,
	keyed.NamesField("names", func(a *Attributes) *keyed.Collection[*ControlPointList] { return a.tables }),
	keyed.PayloadsField("colorTables", func(a *Attributes) *keyed.Collection[*ControlPointList] { return a.tables }),
	keyed.SelectorField("activeContinuous", func(a *Attributes) *keyed.Selector { return a.activeContinuous }),
	keyed.SelectorField("activeDiscrete", func(a *Attributes) *keyed.Selector { return a.activeDiscrete }),
)

// Schema returns the slot layout of Attributes. Subjects that embed the registry use it
// with attr.Embed.
func Schema() *attr.Schema[*Attributes] {
	return attributesSchema
}

// NewAttributes creates an empty registry. The active names default to "hot" and "levels"
// and stay pending until tables with these names are added.
func NewAttributes() *Attributes {
	return NewAttributesWithFields(0)
}

// NewAttributesWithFields creates an empty registry whose selection has room for
// moreFields additional slots of an embedding subject
func NewAttributesWithFields(moreFields int) *Attributes {
	a := &Attributes{sel: attr.NewSelection(attributesSchema.NumFields() + moreFields)}
	a.tables = keyed.New(a.sel, SlotNames, SlotColorTables, NewControlPointList)
	a.activeContinuous = a.tables.NewSelector(SlotActiveContinuous, DefaultContinuous)
	a.activeDiscrete = a.tables.NewSelector(SlotActiveDiscrete, DefaultDiscrete)
	return a
}

// --------------------------------------------------------------------------
// Color Tables
// --------------------------------------------------------------------------

// AddColorTable adds a copy of the color table under name, see keyed.Collection.Add
func (a *Attributes) AddColorTable(name string, table *ControlPointList) error {
	return a.tables.Add(name, table)
}

// UpdateColorTable replaces the color table stored under name
func (a *Attributes) UpdateColorTable(name string, table *ControlPointList) error {
	return a.tables.Update(name, table)
}

// RemoveColorTable removes the color table with the given name
func (a *Attributes) RemoveColorTable(name string) bool {
	return a.tables.RemoveByName(name)
}

// RemoveColorTableAt removes the color table at index, out of range indices are ignored
func (a *Attributes) RemoveColorTableAt(index int) bool {
	return a.tables.RemoveByIndex(index)
}

// ClearColorTables removes all color tables
func (a *Attributes) ClearColorTables() {
	a.tables.Clear()
}

// ColorTableIndex returns the index of the color table with the given name
func (a *Attributes) ColorTableIndex(name string) (int, error) {
	return a.tables.Lookup(name)
}

// ColorControlPoints returns a copy of the color table with the given name.
// Use UpdateColorTable to store changes.
func (a *Attributes) ColorControlPoints(name string) (*ControlPointList, error) {
	return a.tables.Get(name)
}

// ColorControlPointsAt returns a copy of the color table at index
func (a *Attributes) ColorControlPointsAt(index int) (*ControlPointList, error) {
	return a.tables.GetAt(index)
}

// ActiveColorControlPoints returns a copy of the active continuous color table
func (a *Attributes) ActiveColorControlPoints() (*ControlPointList, error) {
	return a.tables.ActivePayload(a.activeContinuous)
}

// ActiveDiscreteControlPoints returns a copy of the active discrete color table
func (a *Attributes) ActiveDiscreteControlPoints() (*ControlPointList, error) {
	return a.tables.ActivePayload(a.activeDiscrete)
}

// Names returns the table names in insertion order
func (a *Attributes) Names() []string { return a.tables.Names() }

// ColorTables returns copies of all color tables, parallel to Names
func (a *Attributes) ColorTables() []*ControlPointList { return a.tables.Payloads() }

// NumColorTables returns the number of registered tables
func (a *Attributes) NumColorTables() int { return a.tables.Len() }

// --------------------------------------------------------------------------
// Active Tables
// --------------------------------------------------------------------------

// ActiveContinuous returns the name of the active continuous table, "" if none
func (a *Attributes) ActiveContinuous() string { return a.activeContinuous.Name() }

// ActiveDiscrete returns the name of the active discrete table, "" if none
func (a *Attributes) ActiveDiscrete() string { return a.activeDiscrete.Name() }

// SetActiveContinuous selects the active continuous table ("" clears it)
func (a *Attributes) SetActiveContinuous(name string) error {
	return a.activeContinuous.Set(name)
}

// SetActiveDiscrete selects the active discrete table ("" clears it)
func (a *Attributes) SetActiveDiscrete(name string) error {
	return a.activeDiscrete.Set(name)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see attr.Subject)
// --------------------------------------------------------------------------

func (a *Attributes) Selection() *attr.Selection { return a.sel }
func (a *Attributes) TypeName() string           { return TypeName }
func (a *Attributes) NumFields() int             { return attributesSchema.NumFields() }

func (a *Attributes) WriteField(index int, buf *codec.Buffer) {
	attributesSchema.Write(index, a, buf)
}

func (a *Attributes) ReadField(index int, buf *codec.Buffer) error {
	return attributesSchema.Read(index, a, buf)
}

// Validate checks the collection invariants, it runs after every ReadChanges pass
func (a *Attributes) Validate() error {
	return a.tables.Validate()
}

// Equal reports whether both registries hold the same tables in the same order and
// have the same active names
func (a *Attributes) Equal(other *Attributes) bool {
	return attributesSchema.Equal(a, other)
}

// Copy returns a deep copy with all slots marked as changed
func (a *Attributes) Copy() *Attributes {
	c := NewAttributesWithFields(a.sel.Len() - attributesSchema.NumFields())
	c.tables.CopyFrom(a.tables)
	c.sel.SelectAll()
	return c
}

// Dump renders the registry for debug output
func (a *Attributes) Dump(indent string) string {
	return attributesSchema.Dump(a, indent)
}

func (a *Attributes) String() string {
	return strings.TrimSuffix(a.Dump(""), "\n")
}
