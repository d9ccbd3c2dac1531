package base

import (
	"fmt"
	"math/rand"
	"net"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/dAttr/rpc/common"
	"github.com/ValentinKolb/dAttr/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("transport/rpc")

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Connect establishes a single connection based on the provided configuration
	Connect(endpoint string) (net.Conn, error)

	// GetName returns the name of the transport type (e.g., "unix", "tcp")
	GetName() string

	// UpgradeConnection applies protocol-specific settings to an established connection
	UpgradeConnection(conn net.Conn, config common.ClientConfig) error
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// responseResult contains the result of a request
type responseResult struct {
	data []byte
	err  error
}

// clientConnection is a single multiplexed connection to one endpoint.
// Responses are matched to their requests by the request ID of the frame.
type clientConnection struct {
	endpoint string
	parent   *clientTransport
	stopCh   chan struct{} // Close signal for the reader goroutine
	pending  *xsync.MapOf[uint64, chan responseResult]

	connMu sync.Mutex // Protects conn and serializes writes
	conn   net.Conn
}

// clientTransport implements the core client transport functionality
// independent of the specific transport medium (unix, tcp, etc.)
type clientTransport struct {
	connector     IClientConnector
	config        common.ClientConfig
	connections   []*clientConnection
	connectionsMu sync.RWMutex
	nextConnIndex atomic.Uint64 // Round Robin counter
	nextRequestID atomic.Uint64 // Source of unique request IDs
	stopping      atomic.Bool
}

// -----------------------------------------------------------
// Transport Factory Method (used for tcp, unix, etc.)
// -----------------------------------------------------------

// NewBaseClientTransport creates a new base client transport with the specified connector
func NewBaseClientTransport(connector IClientConnector) transport.IRPCClientTransport {
	return &clientTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	if len(config.Transport.Endpoints) == 0 {
		return fmt.Errorf("no endpoints provided")
	}

	// Close all existing connections
	t.closeConnections()
	t.config = config
	t.stopping.Store(false)

	connectionsPerEP := max(config.Transport.ConnectionsPerEndpoint, 1)
	connections := make([]*clientConnection, 0, len(config.Transport.Endpoints)*connectionsPerEP)

	for _, endpoint := range config.Transport.Endpoints {
		for i := 0; i < connectionsPerEP; i++ {
			c := &clientConnection{
				endpoint: endpoint,
				parent:   t,
				stopCh:   make(chan struct{}),
				pending:  xsync.NewMapOf[uint64, chan responseResult](),
			}
			if err := c.reconnect(); err != nil {
				Logger.Warningf("Failed to connect to %s (connection %d/%d): %v", endpoint, i+1, connectionsPerEP, err)
				continue
			}
			Logger.Infof("Connected to %s (connection %d/%d)", endpoint, i+1, connectionsPerEP)
			connections = append(connections, c)
			go c.readResponses()
		}
	}

	if len(connections) == 0 {
		return fmt.Errorf("failed to connect to any endpoint")
	}

	t.connectionsMu.Lock()
	t.connections = connections
	t.connectionsMu.Unlock()

	Logger.Infof("Connected to %d out of %d connections to %d endpoints using %s transport",
		len(connections), len(config.Transport.Endpoints)*connectionsPerEP, len(config.Transport.Endpoints), t.connector.GetName())

	return nil
}

func (t *clientTransport) Send(shardId uint64, req []byte) (resp []byte, err error) {
	// We always try at least once
	attempts := max(t.config.Transport.RetryCount, 1)
	timeout := time.Duration(t.config.TimeoutSecond) * time.Second

	// Initial backoff duration in milliseconds
	backoffMs := 50

	var lastErr error
	for i := 0; i < attempts; i++ {
		c := t.getNextConnection()
		if c == nil {
			return nil, fmt.Errorf("no active connections available")
		}

		// every attempt gets a fresh request ID, so late answers of a failed attempt are dropped
		data, err := c.send(shardId, t.nextRequestID.Add(1), req, timeout)
		if err == nil {
			return data, nil
		}

		lastErr = err
		Logger.Debugf("Request attempt %d/%d to %s failed: %v", i+1, attempts, c.endpoint, err)

		if i < attempts-1 {
			// Exponential backoff with a small random jitter (+-10%)
			jitter := float64(backoffMs) * (0.9 + 0.2*rand.Float64())
			time.Sleep(time.Duration(jitter) * time.Millisecond)
			backoffMs *= 2
		}
	}

	return nil, fmt.Errorf("failed to send request after %d attempts: %w", attempts, lastErr)
}

func (t *clientTransport) Close() error {
	t.stopping.Store(true)
	t.closeConnections()
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// getNextConnection selects the next connection via Round Robin
func (t *clientTransport) getNextConnection() *clientConnection {
	if t.stopping.Load() {
		return nil
	}

	t.connectionsMu.RLock()
	defer t.connectionsMu.RUnlock()

	switch len(t.connections) {
	case 0:
		return nil
	case 1:
		return t.connections[0]
	default:
		return t.connections[t.nextConnIndex.Add(1)%uint64(len(t.connections))]
	}
}

// closeConnections closes all active connections
func (t *clientTransport) closeConnections() {
	t.connectionsMu.Lock()
	connections := t.connections
	t.connections = nil
	t.connectionsMu.Unlock()

	for _, c := range connections {
		close(c.stopCh)
		c.connMu.Lock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.connMu.Unlock()
		c.failPending(net.ErrClosed)
	}
}

// dropConnection removes a connection that could not be restored, so Send no longer picks it
func (t *clientTransport) dropConnection(c *clientConnection) {
	t.connectionsMu.Lock()
	defer t.connectionsMu.Unlock()
	t.connections = slices.DeleteFunc(t.connections, func(other *clientConnection) bool { return other == c })
}

// send writes one request frame and waits for the matching response
func (c *clientConnection) send(shardId, requestID uint64, req []byte, timeout time.Duration) ([]byte, error) {
	respCh := make(chan responseResult, 1)
	c.pending.Store(requestID, respCh)
	defer c.pending.Delete(requestID)

	c.connMu.Lock()
	if c.conn == nil {
		c.connMu.Unlock()
		return nil, fmt.Errorf("connection to %s is closed", c.endpoint)
	}
	if timeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(timeout))
	}
	err := writeFrame(c.conn, shardId, requestID, req)
	c.connMu.Unlock()
	if err != nil {
		return nil, err
	}

	// Wait for response or timeout
	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case result := <-respCh:
		return result.data, result.err
	case <-timeoutCh:
		return nil, fmt.Errorf("request %d timed out after %s", requestID, timeout)
	}
}

// failPending answers all waiting requests of the connection with err
func (c *clientConnection) failPending(err error) {
	c.pending.Range(func(requestID uint64, respCh chan responseResult) bool {
		select {
		case respCh <- responseResult{nil, err}:
		default:
		}
		c.pending.Delete(requestID)
		return true
	})
}

// readResponses reads responses in a loop and distributes them to waiting requests.
// The reader blocks without a deadline, request timeouts are handled by send.
// A broken connection fails all waiting requests and is reestablished.
// If that is not possible the connection is removed from the transport.
func (c *clientConnection) readResponses() {
	buffer := make([]byte, 4096)
	for {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		shardID, requestID, data, err := readFrame(conn, buffer)

		// A closed transport ends the reader
		select {
		case <-c.stopCh:
			return
		default:
		}

		if err != nil {
			Logger.Warningf("Connection to %s broken: %v", c.endpoint, err)
			c.failPending(fmt.Errorf("error reading response: %w", err))
			if err := c.reconnectWithBackoff(); err != nil {
				Logger.Errorf("Failed to reconnect to %s, dropping connection: %v", c.endpoint, err)
				c.parent.dropConnection(c)
				return
			}
			continue
		}

		respCh, found := c.pending.Load(requestID)
		if !found {
			Logger.Warningf("Received response for unknown request ID %d with shard ID %d", requestID, shardID)
			continue
		}

		// the frame buffer is reused by the next read
		respCh <- responseResult{append([]byte(nil), data...), nil}
	}
}

// reconnectWithBackoff calls reconnect up to RetryCount times with exponential backoff.
// It gives up early if the transport is closed.
func (c *clientConnection) reconnectWithBackoff() error {
	attempts := max(c.parent.config.Transport.RetryCount, 1)
	backoff := 50 * time.Millisecond

	var err error
	for i := 0; i < attempts; i++ {
		if err = c.reconnect(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		Logger.Debugf("Reconnect attempt %d/%d to %s failed: %v", i+1, attempts, c.endpoint, err)
		select {
		case <-c.stopCh:
			return net.ErrClosed
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

// reconnect establishes or restores the connection to the endpoint
func (c *clientConnection) reconnect() error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	// Close the old connection if it exists
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}

	conn, err := c.parent.connector.Connect(c.endpoint)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %v", c.endpoint, err)
	}

	// Upgrade the connection with protocol-specific settings
	if err := c.parent.connector.UpgradeConnection(conn, c.parent.config); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to upgrade connection to %s: %v", c.endpoint, err)
	}

	c.conn = conn
	return nil
}
