// Package replica provides a high-level interface for hosting attribute subjects that are
// kept in sync with remote peers through change messages. It serves as the layer between
// the selective synchronization protocol of the attr package and the rpc server.
//
// The package focuses on:
//   - A unified interface (IReplica) for pushing, pulling and draining change messages
//   - Atomic application of change messages (a message is applied completely or not at all)
//   - A structured error type that survives the raft log and the rpc transport
//
// Key Components:
//
//   - IReplica Interface: The core abstraction. Push applies a change message written by
//     attr.WriteChanges, Pull returns the complete state, Drain returns everything that
//     changed since the last Drain. Since applied fields are marked as changed, a replica
//     relays pushed changes to its downstream consumer.
//
//   - Error System: Errors carry a RetCode and a message. Error.Unwrap maps the code back
//     to the sentinel errors of the protocol layer (codec.ErrDecode, attr.ErrProtocolMismatch),
//     so callers can use errors.Is regardless of where the error originated.
//
//   - SubjectFactory: Creates the hosted subject. FactoryFor resolves a factory from the
//     attr.DefaultRegistry by subject type name.
//
// Implementations:
//
//	- Local Replica (lreplica): Hosts the subject in memory, guarded by a mutex. Suitable
//	  for single-node deployments.
//	  Available in the "github.com/ValentinKolb/dAttr/lib/replica/lreplica" package.
//
//	- Distributed Replica (dreplica): Hosts the subject in a Dragonboat RAFT state machine.
//	  Push and Drain are proposed through the raft log, Pull is a linearizable read. Every
//	  node of the shard holds the same subject including its pending changes.
//	  Available in the "github.com/ValentinKolb/dAttr/lib/replica/dreplica" package.
package replica
