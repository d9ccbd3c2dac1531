// Package keyed implements named collections inside attribute subjects. A collection
// stores parallel sequences of names and payloads and may be referenced by any number
// of active selectors, each living in its own slot.
//
// Key Components:
//
//   - Collection: The names and payloads of one collection. Add rejects duplicate names
//     without mutating anything, removals reassign every selector that referenced the
//     removed name to the new first entry (or "" if the collection is now empty).
//
//   - Selector: A string slot that names the active entry of a collection. A selector
//     created with a default name may reference an entry that does not exist yet. Such
//     a selector is pending until the name is added or the selector is set explicitly.
//
//   - NamesField, PayloadsField, SelectorField: attr.Field descriptors that place the
//     collection on the wire as a string vector, a count prefixed list of full payload
//     encodings and single strings respectively.
//
// All mutations mark the affected slots in the attr.Selection of the owning subject.
package keyed
