package dreplica

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ValentinKolb/dAttr/lib/attr"
	"github.com/ValentinKolb/dAttr/lib/codec"
	"github.com/ValentinKolb/dAttr/lib/replica"
	"github.com/ValentinKolb/dAttr/lib/replica/dreplica/internal"
	sm "github.com/lni/dragonboat/v4/statemachine"
)

// --------------------------------------------------------------------------
// State Machine Implementation
// --------------------------------------------------------------------------

// SubjectStateMachine is a state machine implementation for Dragonboat RAFT that hosts
// one attribute subject. The pending changes of the subject are part of the replicated
// state, so Drain yields the same message on every node.
type SubjectStateMachine struct {
	replicaID uint64
	shardID   uint64
	factory   replica.SubjectFactory

	mu      sync.RWMutex // Update is exclusive, Lookup may run concurrently
	subject attr.Subject
	applied uint64
}

// CreateStateMachineFactory returns a function that can be used by dragonboat to create a new state machine for a node host.
// The factory pattern is used to enable the caller to pass an interchangeable subject factory
func CreateStateMachineFactory(factory replica.SubjectFactory) func(shardID uint64, replicaID uint64) sm.IConcurrentStateMachine {
	return func(shardID uint64, replicaID uint64) sm.IConcurrentStateMachine {
		return &SubjectStateMachine{
			replicaID: replicaID,
			shardID:   shardID,
			factory:   factory,
			subject:   factory(),
		}
	}
}

// Lookup handles read-only queries
func (fsm *SubjectStateMachine) Lookup(itf interface{}) (interface{}, error) {
	q, ok := itf.(internal.Query)
	if !ok {
		return nil, replica.NewError(replica.RetCInternalError, fmt.Sprintf("invalid Query type: %T", itf))
	}

	fsm.mu.RLock()
	defer fsm.mu.RUnlock()

	switch q.Type {
	case internal.QueryTPull:
		return replica.State(fsm.subject), nil
	case internal.QueryTInfo:
		return replica.InfoOf(fsm.subject, fsm.applied), nil
	default:
		return nil, replica.NewError(replica.RetCInvalidOperation, fmt.Sprintf("unknown Query operation: %s", q.Type))
	}
}

// Update applies pushes and drains to the subject.
// The result code of every entry is stored in Result.Value, Result.Data holds the error
// message or, for a drain, the drained change message.
func (fsm *SubjectStateMachine) Update(entries []sm.Entry) ([]sm.Entry, error) {
	if len(entries) == 0 {
		return entries, nil
	}

	start := time.Now()
	fsm.mu.Lock()
	defer fsm.mu.Unlock()

	for idx, e := range entries {
		if len(e.Cmd) == 0 {
			entries[idx].Result = sm.Result{Value: uint64(replica.RetCInvalidOperation), Data: []byte("empty command ignored")}
			continue
		}
		cmd := internal.Command{}
		if err := cmd.Deserialize(e.Cmd); err != nil {
			entries[idx].Result = sm.Result{Value: uint64(replica.RetCInternalError), Data: []byte(fmt.Sprintf("failed to deserialize command: %v", err))}
			continue
		}

		switch cmd.Type {
		case internal.CommandTPush:
			entries[idx].Result = fsm.push(cmd.Value)
		case internal.CommandTDrain:
			entries[idx].Result = sm.Result{
				Value: uint64(replica.RetCSuccess),
				Data:  replica.Changes(fsm.subject),
			}
		default:
			entries[idx].Result = sm.Result{
				Value: uint64(replica.RetCInvalidOperation),
				Data:  []byte(fmt.Sprintf("unknown Command operation: %s", cmd.Type)),
			}
		}
	}

	if elapsed := time.Since(start); elapsed > time.Millisecond {
		log.Infof("State machine took long to update. Batch updated %d entries, took %.2fms:", len(entries), float64(elapsed)/float64(time.Millisecond))
	}
	return entries, nil
}

func (fsm *SubjectStateMachine) push(changes []byte) sm.Result {
	if err := replica.Apply(fsm.subject, fsm.factory, changes); err != nil {
		code := replica.RetCInternalError
		var re *replica.Error
		if errors.As(err, &re) {
			code = re.Code
		}
		log.Warningf("shard %d rejected change message: %v", fsm.shardID, err)
		return sm.Result{Value: uint64(code), Data: []byte(err.Error())}
	}
	fsm.applied++
	return sm.Result{Value: uint64(replica.RetCSuccess)}
}

// --------------------------------------------------------------------------
// Snapshots
// --------------------------------------------------------------------------

// Snapshot format (codec encoding):
//
//	byte vector  full state of the subject (change message of all slots)
//	int vector   pending slot indices
//	int, int     number of applied change messages (high and low 32 bits)

// PrepareSnapshot captures the snapshot while Update is blocked
func (fsm *SubjectStateMachine) PrepareSnapshot() (interface{}, error) {
	fsm.mu.RLock()
	defer fsm.mu.RUnlock()

	buf := codec.NewBuffer(512)
	buf.WriteByteVector(replica.State(fsm.subject))
	buf.WriteIntVector(fsm.subject.Selection().SelectedIndices())
	buf.WriteInt(int(int32(fsm.applied >> 32)))
	buf.WriteInt(int(int32(uint32(fsm.applied))))
	return buf.Bytes(), nil
}

// SaveSnapshot writes the snapshot captured by PrepareSnapshot
func (fsm *SubjectStateMachine) SaveSnapshot(ctx interface{}, writer io.Writer, _ sm.ISnapshotFileCollection, _ <-chan struct{}) error {
	data, ok := ctx.([]byte)
	if !ok {
		return fmt.Errorf("invalid snapshot context type: %T", ctx)
	}
	_, err := writer.Write(data)
	return err
}

// RecoverFromSnapshot replaces the subject with the state from the snapshot
func (fsm *SubjectStateMachine) RecoverFromSnapshot(r io.Reader, _ []sm.SnapshotFile, _ <-chan struct{}) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	buf := codec.FromBytes(data)
	state, err := buf.ReadByteVector()
	if err != nil {
		return fmt.Errorf("snapshot state: %w", err)
	}
	pending, err := buf.ReadIntVector()
	if err != nil {
		return fmt.Errorf("snapshot pending slots: %w", err)
	}
	hi, err := buf.ReadInt()
	if err != nil {
		return fmt.Errorf("snapshot applied count: %w", err)
	}
	lo, err := buf.ReadInt()
	if err != nil {
		return fmt.Errorf("snapshot applied count: %w", err)
	}

	subject := fsm.factory()
	if err := attr.ReadChanges(subject, codec.FromBytes(state)); err != nil {
		return fmt.Errorf("snapshot state: %w", err)
	}
	subject.Selection().ClearAll()
	for _, i := range pending {
		subject.Selection().Select(i)
	}

	fsm.mu.Lock()
	defer fsm.mu.Unlock()
	fsm.subject = subject
	fsm.applied = uint64(uint32(hi))<<32 | uint64(uint32(lo))
	return nil
}

// Close performs any necessary cleanup.
func (fsm *SubjectStateMachine) Close() error {
	return nil
}
