// Package colortable provides the color table registry subject (ColorTableAttributes)
// together with its nested subjects ColorControlPointList and ColorControlPoint.
//
// Slot layout of Attributes (wire contract):
//
//	0 names             string vector
//	1 colorTables       count followed by the full encoding of every table
//	2 activeContinuous  string
//	3 activeDiscrete    string
//
// A new registry is empty and names "hot" and "levels" as active tables. These defaults
// are pending until tables with these names are added, see keyed.Selector. The registry
// registers itself in attr.DefaultRegistry under TypeName.
package colortable
