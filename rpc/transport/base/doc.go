// Package base implements the framed, multiplexed transport shared by the tcp and unix
// transports. Protocol specific parts (dialing, listening, socket options) are injected
// through connectors.
//
// Frame Format:
//
//	| shardID uint64 | requestID uint64 | length uint32 | payload |
//
// All header fields are big endian. The server answers with the shardID and requestID of
// the request, so one connection carries any number of concurrent requests. Payloads are
// bounded by maxFrameSize, larger lengths are treated as a corrupt stream.
//
// Key Components:
//
//   - IClientConnector/IServerConnector: Dial or listen and apply socket options to
//     every accepted or established connection.
//
//   - NewBaseClientTransport: Round-robin over ConnectionsPerEndpoint connections per
//     endpoint. A reader goroutine per connection matches responses to waiting requests.
//     If a connection breaks, all waiting requests fail at once and the connection is
//     reestablished. Send retries with exponential backoff and a new request ID per attempt.
//
//   - NewBaseServerTransport: One goroutine per connection reads frames, at most
//     WorkersPerConn requests of a connection are handled concurrently. Read buffers are
//     pooled. Idle connections are kept open, only writes have a deadline.
//
// Thread Safety:
//
//	Send may be called from any number of goroutines. Connect and Close must not run
//	concurrently with each other.
package base
