package server

import (
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/ValentinKolb/dAttr/lib/replica"
	"github.com/ValentinKolb/dAttr/lib/replica/dreplica"
	"github.com/ValentinKolb/dAttr/lib/replica/lreplica"
	"github.com/ValentinKolb/dAttr/rpc/common"
	"github.com/ValentinKolb/dAttr/rpc/serializer"
	"github.com/ValentinKolb/dAttr/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("rpc")

// serverShard is a struct that represents a shard in the RPC server
// It contains the replica it encapsulates and the adapter
// that handles requests for the replica
type serverShard struct {
	Replica replica.IReplica
	Adapter IRPCServerAdapter
}

// NewRPCServer creates a new RPC server
// It takes a config, transport and serializer as parameters
//
// Usage:
//
//	s := server.NewRPCServer(
//		*config,
//		http.NewHttpServerTransport(),
//		serializer.NewJSONSerializer(),
//	)
//
//	if err := s.Serve(); err != nil {
//		panic(err)
//	 }
func NewRPCServer(
	config common.ServerConfig,
	transport transport.IRPCServerTransport,
	serializer serializer.IRPCSerializer,
) *RPCServer {
	// https://github.com/golang/go/issues/17393
	if runtime.GOOS == "darwin" {
		signal.Ignore(syscall.Signal(0xd))
	}

	Logger.Infof("Created RPC Server")
	Logger.Infof("%s", config.String())

	// Create the RPC server
	return &RPCServer{
		config:     config,
		transport:  transport,
		serializer: serializer,
		shards:     xsync.NewMapOf[uint64, serverShard](),
	}
}

// RPCServer serves the replicas of all configured shards over one transport
type RPCServer struct {
	config     common.ServerConfig
	transport  transport.IRPCServerTransport
	serializer serializer.IRPCSerializer
	shards     *xsync.MapOf[uint64, serverShard]
	nodeHost   *dragonboat.NodeHost
	metrics    *http.Server
}

// handle decodes a request, lets the adapter of the shard handle it and encodes the response
func (s *RPCServer) handle(shardId uint64, req []byte) []byte {
	var msg common.Message
	var respMsg common.Message

	// Get appropriate shard
	shard, ok := s.shards.Load(shardId)

	// Case shard does not exist -> error
	if !ok {
		respMsg = *common.NewErrorResponse(replica.RetCInvalidOperation, fmt.Sprintf("shard %d not found", shardId))
	} else if err := s.serializer.Deserialize(req, &msg); err != nil {
		respMsg = *common.NewErrorResponse(replica.RetCInternalError, fmt.Sprintf("failed to deserialize request: %s", err))
	} else {
		// Let the adapter handle the request
		respMsg = *shard.Adapter.Handle(&msg, shard.Replica)
	}

	// Return result
	val, err := s.serializer.Serialize(respMsg)
	if err != nil {
		Logger.Errorf("failed to serialize response: %v", err)
		val, _ = s.serializer.Serialize(*common.NewErrorResponse(
			replica.RetCInternalError,
			fmt.Sprintf("failed to serialize response: %s", err),
		))
	}
	return val
}

func (s *RPCServer) init() error {
	// Init logger
	if err := common.InitLoggers(s.config.LogLevel); err != nil {
		return err
	}

	// Create the Dragonboat NodeHost
	if s.config.HasRemoteShard() {
		// Only create the NodeHost if we have remote shards
		nodeHost, err := dragonboat.NewNodeHost(s.config.ToNodeHostConfig())
		if err != nil {
			return fmt.Errorf("failed to create node host: %w", err)
		}
		s.nodeHost = nodeHost
	}

	// Configure the timeout for the distributed replicas
	timeout := time.Duration(s.config.TimeoutSecond) * time.Second

	// CREATE SHARDS

	/*
		Note: A single RPC Server can have any number of remote and or local shards.
		Each shard hosts exactly one subject of a registered type. The following loop
		creates all the shards and stores them for the RPC server.
	*/

	for _, shardConfig := range s.config.Shards {
		factory, err := replica.FactoryFor(shardConfig.Subject)
		if err != nil {
			return fmt.Errorf("shard %d: %w", shardConfig.ShardID, err)
		}

		var r replica.IReplica
		switch shardConfig.Type {
		case common.ShardTypeLocalReplica:
			r = lreplica.NewLocalReplica(factory)
			Logger.Infof("created local replica of %s for shard %d", shardConfig.Subject, shardConfig.ShardID)

		case common.ShardTypeRemoteReplica:
			if s.nodeHost == nil {
				return fmt.Errorf("node host is nil, cannot create remote replica")
			}

			// Start Raft for the shard
			if err := s.nodeHost.StartConcurrentReplica(
				s.config.ClusterMembers,
				false,
				dreplica.CreateStateMachineFactory(factory),
				s.config.ToDragonboatConfig(shardConfig.ShardID),
			); err != nil {
				return fmt.Errorf("failed to start shard %d: %w", shardConfig.ShardID, err)
			}
			r = dreplica.NewDistributedReplica(s.nodeHost, shardConfig.ShardID, shardConfig.Subject, timeout)
			Logger.Infof("started distributed replica of %s for shard %d", shardConfig.Subject, shardConfig.ShardID)

		default:
			return fmt.Errorf("invalid shard type: %s", shardConfig.Type)
		}

		s.shards.Store(shardConfig.ShardID, serverShard{
			Replica: r,
			Adapter: NewReplicaServerAdapter(),
		})
	}

	Logger.Infof("dAttr setup completed successfully")

	// Configure the transport layer
	s.transport.RegisterHandler(s.handle)

	return nil
}

// serveMetrics exposes the VictoriaMetrics default set on the configured metrics endpoint
func (s *RPCServer) serveMetrics() {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, _ *http.Request) {
		metrics.WritePrometheus(w, true)
	})
	s.metrics = &http.Server{Addr: s.config.MetricsEndpoint, Handler: mux}

	go func() {
		Logger.Infof("Starting metrics server on %s", s.config.MetricsEndpoint)
		if err := s.metrics.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			Logger.Errorf("metrics server failed: %v", err)
		}
	}()
}

// Serve starts the RPC server
// This function will also initialize the server plus the shards and start the transport layer
func (s *RPCServer) Serve() error {
	err := s.init()
	if err != nil {
		return err
	}
	if s.config.MetricsEndpoint != "" {
		s.serveMetrics()
	}
	return s.transport.Listen(s.config)
}

// Shutdown stops the transport, the metrics listener and the RAFT node host
func (s *RPCServer) Shutdown() error {
	err := s.transport.Shutdown()
	if s.metrics != nil {
		err = errors.Join(err, s.metrics.Close())
	}
	if s.nodeHost != nil {
		s.nodeHost.Close()
	}
	return err
}
