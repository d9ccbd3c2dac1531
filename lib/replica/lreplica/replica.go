// Package lreplica implements a local, non-distributed replica.IReplica that hosts its
// subject in memory.
package lreplica

import (
	"sync"

	"github.com/ValentinKolb/dAttr/lib/attr"
	"github.com/ValentinKolb/dAttr/lib/replica"
)

type replicaImpl struct {
	mu      sync.Mutex
	factory replica.SubjectFactory
	subject attr.Subject
	applied uint64
}

// NewLocalReplica creates a new local replica instance.
// This replica implementation is not distributed and only works on a single node.
func NewLocalReplica(factory replica.SubjectFactory) replica.IReplica {
	return &replicaImpl{
		factory: factory,
		subject: factory(),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see replica/interface.go)
// --------------------------------------------------------------------------

func (r *replicaImpl) TypeName() string {
	return r.subject.TypeName()
}

func (r *replicaImpl) Push(changes []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := replica.Apply(r.subject, r.factory, changes); err != nil {
		return err
	}
	r.applied++
	return nil
}

func (r *replicaImpl) Pull() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return replica.State(r.subject), nil
}

func (r *replicaImpl) Drain() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return replica.Changes(r.subject), nil
}

func (r *replicaImpl) Info() (replica.Info, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return replica.InfoOf(r.subject, r.applied), nil
}
