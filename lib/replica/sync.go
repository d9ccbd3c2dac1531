package replica

import (
	"fmt"

	"github.com/ValentinKolb/dAttr/lib/attr"
	"github.com/ValentinKolb/dAttr/lib/codec"
)

// --------------------------------------------------------------------------
// Subject Helpers (work with every IReplica implementation)
// --------------------------------------------------------------------------

// Publish pushes the pending changes of subject to r.
// If the push fails the changes stay pending, so a later Publish sends them again.
func Publish(r IReplica, subject attr.Subject) error {
	if err := checkType(r, subject); err != nil {
		return err
	}
	pending := subject.Selection().SelectedIndices()
	if len(pending) == 0 {
		return nil
	}

	buf := codec.NewBuffer(256)
	attr.WriteChanges(subject, buf)
	if err := r.Push(buf.Bytes()); err != nil {
		for _, i := range pending {
			subject.Selection().Select(i)
		}
		return err
	}
	return nil
}

// Fetch replaces the state of subject with the state of r.
// Changes received this way do not count as local changes of subject.
func Fetch(r IReplica, subject attr.Subject) error {
	if err := checkType(r, subject); err != nil {
		return err
	}
	state, err := r.Pull()
	if err != nil {
		return err
	}
	return applyRemote(subject, state)
}

// Receive drains r and applies the drained changes to subject.
// Received changes do not count as local changes of subject.
func Receive(r IReplica, subject attr.Subject) error {
	if err := checkType(r, subject); err != nil {
		return err
	}
	changes, err := r.Drain()
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return nil
	}
	return applyRemote(subject, changes)
}

// applyRemote applies msg atomically and restores the dirty flags of subject afterwards
func applyRemote(subject attr.Subject, msg []byte) error {
	factory, err := FactoryFor(subject.TypeName())
	if err != nil {
		return ErrorFrom(err)
	}
	pending := subject.Selection().SelectedIndices()
	if err := Apply(subject, factory, msg); err != nil {
		return err
	}
	subject.Selection().ClearAll()
	for _, i := range pending {
		subject.Selection().Select(i)
	}
	return nil
}

func checkType(r IReplica, subject attr.Subject) error {
	if r.TypeName() != subject.TypeName() {
		return NewError(RetCInvalidOperation, fmt.Sprintf("replica hosts %s, subject is %s", r.TypeName(), subject.TypeName()))
	}
	return nil
}
