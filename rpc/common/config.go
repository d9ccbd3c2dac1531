package common

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ValentinKolb/dAttr/lib/attr"
	"github.com/ValentinKolb/dAttr/lib/colortable"
	"github.com/ValentinKolb/dAttr/lib/querylist"
	"github.com/cespare/xxhash/v2"
	"github.com/lni/dragonboat/v4/config"
)

// --------------------------------------------------------------------------
// helper functions for to interface with Dragonboat (for the server util)
// --------------------------------------------------------------------------

// Dragonboat uses RTT (Round Trip Time) to determine the timing of elections and heartbeats.
// These default values are selected according to the RAFT Paper
const (
	electionRTTFactor  = 10
	heartbeatRTTFactor = 1
)

// ToDragonboatConfig converts the ServerConfig to Dragonboat Config
func (c *ServerConfig) ToDragonboatConfig(shardId uint64) config.Config {
	return config.Config{
		ReplicaID:          c.ReplicaID,
		ShardID:            shardId,
		ElectionRTT:        electionRTTFactor,  // = c.RTTMillisecond * 10
		HeartbeatRTT:       heartbeatRTTFactor, // = c.RTTMillisecond * 2
		CheckQuorum:        true,
		SnapshotEntries:    c.SnapshotEntries,
		CompactionOverhead: c.CompactionOverhead,
		MaxInMemLogSize:    0,
	}
}

// ToNodeHostConfig creates a NodeHostConfig for Dragonboat
func (c *ServerConfig) ToNodeHostConfig() config.NodeHostConfig {
	return config.NodeHostConfig{
		WALDir:         c.DataDir,
		NodeHostDir:    c.DataDir,
		RTTMillisecond: c.RTTMillisecond,
		RaftAddress:    c.ClusterMembers[c.ReplicaID],
	}
}

// --------------------------------------------------------------------------
// Transport configuration structs (shared by client and server)
// --------------------------------------------------------------------------

// SocketConf holds the socket buffer sizes of stream transports
type SocketConf struct {
	WriteBufferSize int
	ReadBufferSize  int
}

// TCPConf holds the TCP specific socket options
type TCPConf struct {
	TCPNoDelay      bool
	TCPKeepAliveSec int
	TCPLingerSec    int
}

// ServerTransportConfig holds the transport parameters of the server
type ServerTransportConfig struct {
	// Endpoint is the address the server listens on (host:port or socket path)
	Endpoint string
	// WorkersPerConn limits the concurrent requests of one connection
	WorkersPerConn int
	SocketConf
	TCPConf
}

// ClientTransportConfig holds the transport parameters of the client
type ClientTransportConfig struct {
	Endpoints              []string
	RetryCount             int
	ConnectionsPerEndpoint int
	SocketConf
	TCPConf
}

// --------------------------------------------------------------------------
// RPC server configuration struct
// --------------------------------------------------------------------------

type ServerShardType string

const (
	ShardTypeLocalReplica  ServerShardType = "local replica"
	ShardTypeRemoteReplica ServerShardType = "remote replica"
)

type ServerShard struct {
	// ShardID is the ID of the shard
	ShardID uint64
	// Type decides whether the subject is hosted in memory or replicated with RAFT
	Type ServerShardType
	// Subject is the registered type name of the hosted subject (e.g. ColorTableAttributes)
	Subject string
}

// subjectAliases are the short names accepted by ParseShards
var subjectAliases = map[string]string{
	"colortable": colortable.TypeName,
	"querylist":  querylist.TypeName,
}

// ParseShards parses a comma separated shard list of the form ID=SUBJECT or ID=SUBJECT(IMPL).
// SUBJECT is a registered type name or one of the aliases colortable and querylist,
// IMPL is lreplica (default) or dreplica.
func ParseShards(list string) ([]ServerShard, error) {
	var shards []ServerShard
	seen := make(map[uint64]bool)
	for _, shardConfig := range strings.Split(list, ",") {
		parts := strings.Split(shardConfig, "=")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid shard format: %s (expected ID=SUBJECT)", shardConfig)
		}

		// Parse shard ID
		shardID, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid shard ID %s: %v", parts[0], err)
		}
		if seen[shardID] {
			return nil, fmt.Errorf("duplicate shard ID %d", shardID)
		}
		seen[shardID] = true

		// Parse implementation suffix
		subject := strings.TrimSpace(parts[1])
		shardType := ShardTypeLocalReplica
		if open := strings.Index(subject, "("); open >= 0 {
			if !strings.HasSuffix(subject, ")") {
				return nil, fmt.Errorf("invalid shard type: %s (expected SUBJECT(IMPL))", subject)
			}
			switch impl := subject[open+1 : len(subject)-1]; impl {
			case "lreplica":
				shardType = ShardTypeLocalReplica
			case "dreplica":
				shardType = ShardTypeRemoteReplica
			default:
				return nil, fmt.Errorf("invalid replica implementation: %s (expected one of: lreplica, dreplica)", impl)
			}
			subject = subject[:open]
		}

		// Parse subject type
		if alias, ok := subjectAliases[strings.ToLower(subject)]; ok {
			subject = alias
		}
		if _, err := attr.Create(subject); err != nil {
			return nil, fmt.Errorf("invalid subject %q: %w", subject, err)
		}

		shards = append(shards, ServerShard{
			ShardID: shardID,
			Type:    shardType,
			Subject: subject,
		})
	}
	return shards, nil
}

// ServerConfig holds all configuration parameters for the RAFT cluster.
type ServerConfig struct {
	// the shards served by this node
	Shards []ServerShard

	// Dragonboat parameters
	RTTMillisecond     uint64
	SnapshotEntries    uint64
	CompactionOverhead uint64
	DataDir            string
	ReplicaID          uint64
	ClusterMembers     map[uint64]string

	// remote replica parameters
	TimeoutSecond int64

	// Transport settings
	Transport ServerTransportConfig

	// MetricsEndpoint is the address of the metrics listener, empty to disable it
	MetricsEndpoint string

	// Logging configuration
	LogLevel string
}

// HasRemoteShard checks if the configuration contains any remote shards
func (c *ServerConfig) HasRemoteShard() bool {
	for _, shard := range c.Shards {
		if shard.Type == ShardTypeRemoteReplica {
			return true
		}
	}
	return false
}

// String returns a formatted string representation of the configuration
func (c *ServerConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// RPC settings
	addSection("RPC Server")
	addField("Endpoint", c.Transport.Endpoint)
	addField("Workers Per Conn", strconv.Itoa(c.Transport.WorkersPerConn))
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	if c.MetricsEndpoint != "" {
		addField("Metrics", c.MetricsEndpoint)
	}

	// Logging configuration
	addSection("Logging")
	addField("Log Level", c.LogLevel)

	// Shards
	addSection("Shards")
	for _, shard := range c.Shards {
		addField(strconv.FormatUint(shard.ShardID, 10), fmt.Sprintf("%s (%s)", shard.Subject, shard.Type))
	}

	if c.HasRemoteShard() {
		// Node Identity
		addSection("Node Identity")
		addField("RAFT Address", c.ClusterMembers[c.ReplicaID])
		addField("Node ID", strconv.FormatUint(c.ReplicaID, 10))

		// RAFT parameters
		addSection("RAFT Parameters")
		addField("Round Trip Time (ms)", fmt.Sprintf("%d ms", c.RTTMillisecond))
		addField("Election RTT (ms)", fmt.Sprintf("%d", c.RTTMillisecond*electionRTTFactor))
		addField("Heartbeat RTT (ms)", fmt.Sprintf("%d", c.RTTMillisecond*heartbeatRTTFactor))
		addField("Check Quorum", fmt.Sprintf("%t", true))
		addField("Snapshot Entries", fmt.Sprintf("%d", c.SnapshotEntries))
		addField("Compaction Overhead", fmt.Sprintf("%d", c.CompactionOverhead))

		// Storage
		addSection("Storage")
		addField("Data Directory", c.DataDir)

		// Cluster configuration
		addSection("Cluster")
		sb.WriteString("  Initial Cluster Members:\n")

		// Sort keys for consistent output
		var keys []uint64
		for k := range c.ClusterMembers {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("    Node %d: %s\n", k, c.ClusterMembers[k]))
		}
	}
	return sb.String()
}

// --------------------------------------------------------------------------
// RPC client configuration struct
// --------------------------------------------------------------------------

type ClientConfig struct {
	TimeoutSecond int
	Transport     ClientTransportConfig
}

// String returns a formatted string representation of the client configuration
func (c *ClientConfig) String() string {
	var sb strings.Builder

	// Create helper functions for consistent formatting
	addSection := func(title string) {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%s\n", strings.ToUpper(title)))
	}

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	// General Client Settings
	addSection("Client Configuration")
	addField("Timeout", fmt.Sprintf("%d sec", c.TimeoutSecond))
	addField("Retry Count", strconv.Itoa(c.Transport.RetryCount))
	addField("Connections Per Endpoint", strconv.Itoa(int(math.Max(1, float64(c.Transport.ConnectionsPerEndpoint)))))

	// Endpoints
	addSection("Endpoints")
	for i, endpoint := range c.Transport.Endpoints {
		addField(strconv.Itoa(i), endpoint)
	}

	return sb.String()
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ReplicaIDFromName maps a human readable node name (e.g. node-1) to a dragonboat replica ID.
// The ID is never zero since dragonboat reserves it.
func ReplicaIDFromName(name string) uint64 {
	id := xxhash.Sum64String(name)
	if id == 0 {
		id = 1
	}
	return id
}

// ParseClusterMembers parses a comma separated list of NAME=ADDRESS pairs
func ParseClusterMembers(list string) (map[uint64]string, error) {
	members := make(map[uint64]string)
	for _, member := range strings.Split(list, ",") {
		parts := strings.Split(member, "=")
		if len(parts) != 2 || parts[1] == "" {
			return nil, fmt.Errorf("invalid cluster member format: %s (expected ID=address)", member)
		}
		members[ReplicaIDFromName(strings.TrimSpace(parts[0]))] = strings.TrimSpace(parts[1])
	}
	return members, nil
}
