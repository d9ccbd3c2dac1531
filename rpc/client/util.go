package client

import (
	"fmt"

	"github.com/ValentinKolb/dAttr/lib/replica"
	"github.com/ValentinKolb/dAttr/rpc/common"
	"github.com/ValentinKolb/dAttr/rpc/serializer"
	"github.com/ValentinKolb/dAttr/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("rpc")
)

// rpcClientAdapter is a struct that stores all data needed for an implementation of an RPC client
// Used by the RPCReplica with composition pattern
type rpcClientAdapter struct {
	shardId    uint64
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// invokeRPCRequest is a helper function used for all RPC Clients to send requests
// It takes a shard ID, a request message, a transport layer and a serializer as parameters
// It returns a response message and an error if any occurs
// This method also checks if the response is an error response and if the type of the response is the expected type.
// Errors reported by the server are returned as *replica.Error with the code of the server.
func invokeRPCRequest(shardId uint64, req *common.Message, transport transport.IRPCClientTransport, serializer serializer.IRPCSerializer) (*common.Message, error) {
	// Serialize the request
	reqBytes, err := serializer.Serialize(*req)
	if err != nil {
		return nil, replica.NewError(replica.RetCInternalError, err.Error())
	}

	// Send the request
	respBytes, err := transport.Send(shardId, reqBytes)
	if err != nil {
		return nil, replica.NewError(replica.RetCInternalError, err.Error())
	}

	// Deserialize the response
	resp := &common.Message{}
	if err := serializer.Deserialize(respBytes, resp); err != nil {
		return nil, replica.NewError(replica.RetCInternalError, fmt.Sprintf("RPC ReplicaAdapter - invalid response: %s", err))
	}

	// Check if the response is an error response
	if err := resp.Failure(); err != nil {
		Logger.Debugf("shard %d answered %s with %v", shardId, req.MsgType, err)
		return nil, err
	}

	// Check if the type of the response is the expected type
	if resp.MsgType != req.MsgType {
		return nil, replica.NewError(replica.RetCInternalError,
			fmt.Sprintf("RPC ReplicaAdapter - Unexpected message type: %s, expected %s", resp.MsgType, req.MsgType))
	}

	// Return the response
	return resp, nil
}
