// Package common provides core data structures and utilities shared across
// the attribute replication system. It defines fundamental types,
// configuration structures, and protocol elements used by other packages.
//
// The package focuses on:
//   - Message protocol definition for inter-component communication
//   - Configuration structures for client and server components
//   - Custom logging implementation integrated with Dragonboat
//   - Utilities for Dragonboat (RAFT) integration
//
// Key Components:
//
//   - Message: Core data structure for all RPC communication between components.
//     Requests name the expected subject type, responses carry the change message
//     (or encoded replica.Info) together with the replica.RetCode of a failure,
//     so clients can reconstruct the *replica.Error of the server.
//
//   - MessageType: Enumeration defining all supported operations (push, pull,
//     drain, info) and the control messages (success, error).
//
//   - ServerConfig: Configuration for server nodes, including the served shards,
//     RAFT parameters, storage settings and the transport configuration.
//     ParseShards and ParseClusterMembers parse the command line representation.
//
//   - ClientConfig: Configuration for client components, controlling connection
//     parameters, timeouts, and retry behavior.
//
//   - Logger: Custom logging implementation that integrates with Dragonboat's
//     logging system while providing consistent formatting across the application.
package common
