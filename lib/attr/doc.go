// Package attr implements the selective-field synchronization protocol shared by all
// attribute subjects. An attribute subject is a structured state object with a fixed,
// ordered set of field slots. Every slot has a stable index (the wire contract between
// replicas) and a dirty flag that marks it as changed since the last synchronization.
//
// The package focuses on:
//   - Tracking which fields of a subject changed (Selection)
//   - Describing the slot layout of a subject type once (Schema) and using it as the
//     dispatch table for per-slot encode, decode, equality and debug rendering
//   - Encoding only the dirty slots of a subject and replaying them on a remote replica
//   - A common contract for values nested inside subjects (Entity)
//
// Key Components:
//
//   - Selection: Per-instance dirty flags sized to the total slot count of a subject.
//     Subjects that embed another subject share one Selection with it, so the embedded
//     slots form a prefix of the index space.
//
//   - Schema: Ordered list of field descriptors built at type registration time.
//     Embed contributes the schema of a composed subject as a prefix.
//
//   - Subject: Interface every attribute subject implements. Concrete subjects mostly
//     forward to their Schema.
//
//   - WriteChanges / ReadChanges: Selective synchronization. WriteChanges emits
//     (index, payload) pairs for dirty slots in ascending order and clears their flags,
//     ReadChanges applies such pairs and marks the applied slots dirty again so that a
//     relaying replica propagates them further.
//
//   - WriteAll / ReadAll: Self-contained full encoding used when a subject is nested
//     in another subject.
//
//   - Registry: Subject factories by type name, used by servers to create replicas.
//
// Error Handling:
//
//	ReadChanges fails with ErrProtocolMismatch if a slot index is outside the declared
//	range of the receiving subject, and with codec.ErrDecode if the payload is malformed.
//	A failed pass keeps all slots applied before the fault. Callers that need atomic
//	application must copy the subject before decoding.
//
// Thread Safety:
//
//	Subjects are single-writer objects and are not safe for concurrent use. The
//	Registry is safe for concurrent use.
package attr
