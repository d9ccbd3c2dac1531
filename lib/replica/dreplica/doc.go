// Package dreplica implements a distributed, fault-tolerant replica.IReplica using the
// Dragonboat RAFT consensus library. Every node of a shard hosts the same attribute
// subject, including the set of pending (not yet drained) changes.
//
// Architecture:
//
//   - Replica Client: Implements replica.IReplica and communicates with the RAFT cluster.
//     Push and Drain are serialized into commands and proposed with SyncPropose, Pull is a
//     linearizable SyncRead and Info a StaleRead.
//
//   - State Machine: A Dragonboat IConcurrentStateMachine that hosts the subject. Update
//     applies change messages atomically (replica.Apply) and answers drains with the
//     drained change message in the entry result.
//
//   - Communication Protocol: Defined in the internal package, Command and Query structures
//     with the binary encoding of commands.
//
// Error Handling and Retries:
//
//	When Dragonboat returns ErrSystemBusy the operation is retried after a short delay,
//	up to 5 attempts. Rejected change messages are reported with the replica.RetCode of the
//	failure, the subject of every node stays unchanged in that case.
//
// Snapshotting and Recovery:
//
//	Snapshots contain the full state of the subject, the pending slot indices and the
//	number of applied messages. They are captured in PrepareSnapshot (Update is blocked
//	during that call) and written in SaveSnapshot.
//
// Usage:
//
//	factory, _ := replica.FactoryFor(colortable.TypeName)
//	err := nh.StartConcurrentReplica(members, false, dreplica.CreateStateMachineFactory(factory), shardConfig)
//	if err != nil { ... }
//	r := dreplica.NewDistributedReplica(nh, shardID, colortable.TypeName, 5*time.Second)
package dreplica
