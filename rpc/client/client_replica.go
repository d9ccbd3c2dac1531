package client

import (
	"github.com/ValentinKolb/dAttr/lib/replica"
	"github.com/ValentinKolb/dAttr/rpc/common"
	"github.com/ValentinKolb/dAttr/rpc/serializer"
	"github.com/ValentinKolb/dAttr/rpc/transport"
)

// NewRPCReplica creates a new RPC replica of the subject type hosted by the given shard
// The function takes a shard ID, the subject type name, a config, a transport and a serializer as parameters
// It returns a replica.IReplica and an error
func NewRPCReplica(
	shardId uint64,
	subject string,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (replica.IReplica, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	// Create a new RPC replica
	r := rpcReplica{
		rpcClientAdapter: rpcClientAdapter{
			shardId:    shardId,
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
		subject: subject,
	}

	// Return the RPC replica
	return &r, nil
}

type rpcReplica struct {
	rpcClientAdapter
	subject string
}

// --------------------------------------------------------------------------
// Interface Methods (docs see replica/interface.go)
// --------------------------------------------------------------------------

func (i *rpcReplica) TypeName() string {
	return i.subject
}

func (i *rpcReplica) Push(changes []byte) (err error) {
	req := common.NewPushRequest(i.subject, changes)
	_, err = invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	return err
}

func (i *rpcReplica) Pull() (state []byte, err error) {
	req := common.NewPullRequest(i.subject)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}

func (i *rpcReplica) Drain() (changes []byte, err error) {
	req := common.NewDrainRequest(i.subject)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return nil, err
	}
	return resp.Value, nil
}

func (i *rpcReplica) Info() (info replica.Info, err error) {
	req := common.NewInfoRequest(i.subject)
	resp, err := invokeRPCRequest(i.shardId, req, i.transport, i.serializer)
	if err != nil {
		return replica.Info{}, err
	}
	info, err = replica.UnmarshalInfo(resp.Value)
	if err != nil {
		return replica.Info{}, replica.ErrorFrom(err)
	}
	return info, nil
}
