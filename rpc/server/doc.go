// Package server implements the RPC server for the attribute replication system.
// It provides the adapter that translates RPC requests to replica operations,
// along with the core server implementation that manages shards and request routing.
//
// The package focuses on:
//   - Server-side RPC request handling for push, pull, drain and info operations
//   - Adapter pattern to decouple replica logic from RPC mechanisms
//   - Flexible shard configuration with support for local and distributed replicas
//   - Request metrics in the VictoriaMetrics format
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that processes incoming requests against a replica.IReplica.
//
//   - NewReplicaServerAdapter: Factory function creating the adapter for replica
//     operations. Requests addressing another subject type than the one the shard
//     hosts are rejected with RetCInvalidOperation.
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport and serializer mechanisms.
//
// Usage Example:
//
//	// Create server configuration
//	shards, _ := common.ParseShards("100=colortable,200=querylist")
//	config := common.ServerConfig{
//	  Shards:        shards,
//	  TimeoutSecond: 5,
//	  LogLevel:      "info",
//	  Transport:     common.ServerTransportConfig{Endpoint: "0.0.0.0:8080", WorkersPerConn: 16},
//	}
//
//	// Create and start the server
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPDefaultServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Each shard hosts exactly one subject and uses one of two replica types, which can be
// mixed within a single server:
//
//   - ShardTypeLocalReplica: An in-memory replica, suitable for single-node deployments
//     or development environments.
//
//   - ShardTypeRemoteReplica: A distributed replica using Raft consensus, so that all
//     nodes apply the same changes in the same order. When using this type,
//     RAFT configuration (RTTMillisecond, SnapshotEntries, CompactionOverhead,
//     DataDir, ReplicaID, and ClusterMembers) must be properly configured.
//
// Metrics:
//
//	dattr_requests_total, dattr_request_duration_seconds, dattr_change_bytes_total and
//	dattr_errors_total are labeled with the subject type. They are exposed on
//	GET /metrics of the http transport and of the MetricsEndpoint, if configured.
//
// Thread Safety:
//
//	The server implementation is thread-safe and can handle concurrent requests
//	across multiple connections. Each request is processed independently.
//	The Serve method is not thread-safe and should be called only once.
package server
