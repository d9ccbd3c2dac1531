// Package rpc provides the remote procedure call framework of the attribute
// replication system. It acts as the communication layer between clients that
// edit subjects and the servers hosting the authoritative replicas.
//
// The package is organized into several subpackages:
//
//   - common: Core data structures and utilities used across the RPC system,
//     including the Message protocol, configuration structures, and logging.
//
//   - transport: Network communication abstractions with pluggable implementations
//     (TCP, Unix sockets, HTTP).
//
//   - serializer: Message serialization with multiple format options (Binary, JSON, GOB)
//     for converting between Message objects and byte arrays.
//
//   - client: The RPC client implementing replica.IReplica, allowing applications
//     to publish and receive changes of remote subjects transparently.
//
//   - server: RPC server components that handle incoming requests and route them
//     to the replica of the addressed shard.
package rpc
