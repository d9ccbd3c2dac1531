package server

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/dAttr/lib/replica"
	"github.com/ValentinKolb/dAttr/rpc/common"
	"github.com/VictoriaMetrics/metrics"
)

// NewReplicaServerAdapter creates an adapter that translates RPC requests to replica.IReplica calls.
// Every handled request is counted in the VictoriaMetrics default set.
func NewReplicaServerAdapter() IRPCServerAdapter {
	return &replicaServerAdapterImpl{}
}

type replicaServerAdapterImpl struct{}

func (adapter *replicaServerAdapterImpl) Handle(req *common.Message, r replica.IReplica) *common.Message {
	// Check for nil replica
	if r == nil {
		return common.NewErrorResponse(replica.RetCInternalError, "handler: replica is nil")
	}

	subject := r.TypeName()
	if req.Subject != "" && req.Subject != subject {
		countError(subject, replica.RetCInvalidOperation)
		return common.NewErrorResponse(
			replica.RetCInvalidOperation,
			fmt.Sprintf("shard hosts %s, request addresses %s", subject, req.Subject),
		)
	}

	start := time.Now()
	defer func() {
		requestDuration(subject, req.MsgType).UpdateDuration(start)
	}()

	var resp *common.Message
	switch req.MsgType {
	case common.MsgTPush:
		err := r.Push(req.Value)
		if err == nil {
			bytesCounter(subject, "in").Add(len(req.Value))
		}
		resp = common.NewPushResponse(subject, err)
	case common.MsgTPull:
		state, err := r.Pull()
		bytesCounter(subject, "out").Add(len(state))
		resp = common.NewPullResponse(subject, state, err)
	case common.MsgTDrain:
		changes, err := r.Drain()
		if err == nil && changes == nil {
			changes = []byte{}
		}
		bytesCounter(subject, "out").Add(len(changes))
		resp = common.NewDrainResponse(subject, changes, err)
	case common.MsgTInfo:
		info, err := r.Info()
		resp = common.NewInfoResponse(subject, info, err)
	default:
		countError(subject, replica.RetCInvalidOperation)
		return common.NewErrorResponse(
			replica.RetCInvalidOperation,
			fmt.Sprintf("RPC ReplicaAdapter - Unsupported message type: %s", req.MsgType),
		)
	}

	requestCounter(subject, req.MsgType).Inc()
	if !resp.Ok {
		countError(subject, replica.RetCode(resp.Code))
	}
	return resp
}

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

func requestCounter(subject string, t common.MessageType) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`dattr_requests_total{subject=%q,op=%q}`, subject, t))
}

func requestDuration(subject string, t common.MessageType) *metrics.Histogram {
	return metrics.GetOrCreateHistogram(fmt.Sprintf(`dattr_request_duration_seconds{subject=%q,op=%q}`, subject, t))
}

func bytesCounter(subject, direction string) *metrics.Counter {
	return metrics.GetOrCreateCounter(fmt.Sprintf(`dattr_change_bytes_total{subject=%q,direction=%q}`, subject, direction))
}

func countError(subject string, code replica.RetCode) {
	metrics.GetOrCreateCounter(fmt.Sprintf(`dattr_errors_total{subject=%q,code=%q}`, subject, code)).Inc()
}
