package dreplica

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ValentinKolb/dAttr/lib/replica"
	"github.com/ValentinKolb/dAttr/lib/replica/dreplica/internal"
	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/client"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	retries = 5
	log     = logger.GetLogger("replica")
)

// replicaImpl is the distributed implementation of replica.IReplica.
// It encapsulates a Dragonboat NodeHost which is used to communicate with the state machine.
type replicaImpl struct {
	nh       *dragonboat.NodeHost
	shardID  uint64
	cs       *client.Session
	timeout  time.Duration
	typeName string
}

// NewDistributedReplica creates a new distributed replica of a subject of the given type.
// The shard must have been started with CreateStateMachineFactory for the same type.
func NewDistributedReplica(nh *dragonboat.NodeHost, shardID uint64, typeName string, timeout time.Duration) replica.IReplica {
	return &replicaImpl{
		nh:       nh,
		shardID:  shardID,
		cs:       nh.GetNoOPSession(shardID),
		timeout:  timeout,
		typeName: typeName,
	}
}

// --------------------------------------------------------------------------
// Internal write and read operations (used by interface methods)
// --------------------------------------------------------------------------

// write proposes a Command via SyncPropose and returns the result data.
// It returns a *replica.Error if an error occurs.
func (r *replicaImpl) write(cmd internal.Command) ([]byte, error) {
	for i := 0; i < retries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		res, err := r.nh.SyncPropose(ctx, r.cs, cmd.Serialize())
		cancel()

		if errors.Is(err, dragonboat.ErrSystemBusy) {
			log.Infof("SyncPropose: System busy, retrying (%d/%d)...", i+1, retries)
			time.Sleep(r.timeout / 10)
			continue
		}
		if err != nil {
			return nil, replica.NewError(replica.RetCInternalError, err.Error())
		}
		if res.Value != uint64(replica.RetCSuccess) {
			return nil, replica.NewError(replica.RetCode(res.Value), string(res.Data))
		}
		return res.Data, nil
	}
	return nil, replica.NewError(replica.RetCInternalError, "timeout")
}

// read queries the state machine and converts the response into the expected type R.
// Linearizable reads use SyncRead, stale reads use StaleRead.
func read[R any](r *replicaImpl, q internal.Query, stale bool) (R, error) {
	var zero R
	for i := 0; i < retries; i++ {
		var res interface{}
		var err error

		if stale {
			res, err = r.nh.StaleRead(r.shardID, q)
		} else {
			ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
			res, err = r.nh.SyncRead(ctx, r.shardID, q)
			cancel()
		}

		if errors.Is(err, dragonboat.ErrSystemBusy) {
			log.Infof("SyncRead: System busy, retrying (%d/%d)...", i+1, retries)
			time.Sleep(r.timeout / 10)
			continue
		}
		if err != nil {
			var re *replica.Error
			if errors.As(err, &re) {
				return zero, re
			}
			return zero, replica.NewError(replica.RetCInternalError, err.Error())
		}

		casted, ok := res.(R)
		if !ok {
			return zero, replica.NewError(replica.RetCInternalError,
				fmt.Sprintf("unexpected type: received %T, expected %T", res, zero))
		}
		return casted, nil
	}
	return zero, replica.NewError(replica.RetCInternalError, "timeout")
}

// --------------------------------------------------------------------------
// Interface Methods (docs see replica/interface.go)
// --------------------------------------------------------------------------

func (r *replicaImpl) TypeName() string {
	return r.typeName
}

func (r *replicaImpl) Push(changes []byte) error {
	_, err := r.write(internal.Command{
		Type:  internal.CommandTPush,
		Value: changes,
	})
	return err
}

func (r *replicaImpl) Pull() ([]byte, error) {
	return read[[]byte](r, internal.Query{Type: internal.QueryTPull}, false)
}

func (r *replicaImpl) Drain() ([]byte, error) {
	return r.write(internal.Command{Type: internal.CommandTDrain})
}

func (r *replicaImpl) Info() (replica.Info, error) {
	return read[replica.Info](
		r,
		internal.Query{Type: internal.QueryTInfo},
		true, // Note: allow for stale reads
	)
}
