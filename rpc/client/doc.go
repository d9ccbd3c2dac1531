// Package client implements RPC clients for the attribute replication system.
// It provides an implementation of the replica.IReplica interface that
// forwards every operation to a remote server via RPC.
//
// The package focuses on:
//   - Transparent RPC access to the replica hosted by a server shard
//   - Integration with the transport and serialization layers
//   - Error conversion between RPC messages and replica errors
//
// Key Components:
//
//   - NewRPCReplica: Factory function that creates a client implementing the
//     replica.IReplica interface for one shard and one subject type. Errors
//     reported by the server are returned as *replica.Error carrying the code
//     of the server, so errors.Is(err, attr.ErrProtocolMismatch) works across
//     the network.
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  TimeoutSecond: 5,
//	  Transport: common.ClientTransportConfig{
//	    Endpoints:              []string{"localhost:8080"},
//	    RetryCount:             3,
//	    ConnectionsPerEndpoint: 1,
//	  },
//	}
//
//	// Create the remote replica of the color table registry on shard 100
//	r, _ := client.NewRPCReplica(100, colortable.TypeName, config,
//	  tcp.NewTCPClientTransport(), serializer.NewBinarySerializer())
//
//	// Publish local changes and receive the changes of other clients
//	tables := colortable.NewDefaultAttributes()
//	_ = replica.Publish(r, tables)
//	_ = replica.Receive(r, tables)
//
// Thread Safety:
//
//	The client is thread-safe and can be used concurrently from multiple
//	goroutines. The subjects passed to the replica helpers are not.
package client
