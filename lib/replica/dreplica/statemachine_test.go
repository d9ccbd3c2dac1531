package dreplica

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/ValentinKolb/dAttr/lib/attr"
	"github.com/ValentinKolb/dAttr/lib/codec"
	"github.com/ValentinKolb/dAttr/lib/querylist"
	"github.com/ValentinKolb/dAttr/lib/replica"
	"github.com/ValentinKolb/dAttr/lib/replica/dreplica/internal"
	sm "github.com/lni/dragonboat/v4/statemachine"
)

func newStateMachine(t *testing.T) *SubjectStateMachine {
	t.Helper()
	factory, err := replica.FactoryFor(querylist.TypeName)
	if err != nil {
		t.Fatalf("FactoryFor() error = %v", err)
	}
	return CreateStateMachineFactory(factory)(1, 1).(*SubjectStateMachine)
}

func entry(index uint64, cmd internal.Command) sm.Entry {
	return sm.Entry{Index: index, Cmd: cmd.Serialize()}
}

func pushOf(q *querylist.QueryList) internal.Command {
	buf := codec.NewBuffer(128)
	attr.WriteChanges(q, buf)
	return internal.Command{Type: internal.CommandTPush, Value: buf.Bytes()}
}

func TestUpdate(t *testing.T) {
	fsm := newStateMachine(t)

	q := querylist.New()
	q.AddQuery("Volume", querylist.DatabaseQuery, querylist.WorldSpace)
	first := pushOf(q)
	q.AddQuery("Pick", querylist.PointQuery, querylist.ScreenSpace)
	second := pushOf(q)

	bad := internal.Command{Type: internal.CommandTPush, Value: []byte{0, 0, 0, 7}}

	entries, err := fsm.Update([]sm.Entry{
		entry(1, first),
		entry(2, bad),
		entry(3, second),
		entry(4, internal.Command{Type: internal.CommandTDrain}),
		{Index: 5},
		entry(6, internal.Command{Type: 42}),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	codes := make([]replica.RetCode, len(entries))
	for i, e := range entries {
		codes[i] = replica.RetCode(e.Result.Value)
	}
	want := []replica.RetCode{
		replica.RetCSuccess,
		replica.RetCProtocolMismatch,
		replica.RetCSuccess,
		replica.RetCSuccess,
		replica.RetCInvalidOperation,
		replica.RetCInvalidOperation,
	}
	if !reflect.DeepEqual(codes, want) {
		t.Errorf("result codes = %v, want %v", codes, want)
	}

	// the drain returns all slots of the pushes
	drained := querylist.New()
	if err := attr.ReadChanges(drained, codec.FromBytes(entries[3].Result.Data)); err != nil {
		t.Fatalf("ReadChanges(drained) error = %v", err)
	}
	if !drained.Equal(q) {
		t.Errorf("drained = %s, want %s", drained, q)
	}

	res, err := fsm.Lookup(internal.Query{Type: internal.QueryTInfo})
	if err != nil {
		t.Fatalf("Lookup(Info) error = %v", err)
	}
	info := res.(replica.Info)
	if info.Applied != 2 || len(info.Pending) != 0 || info.TypeName != querylist.TypeName {
		t.Errorf("Info = %s", info)
	}
}

func TestLookupErrors(t *testing.T) {
	fsm := newStateMachine(t)
	if _, err := fsm.Lookup("pull"); err == nil {
		t.Errorf("Lookup() with invalid query type succeeded")
	}
	_, err := fsm.Lookup(internal.Query{Type: 99})
	var re *replica.Error
	if !errors.As(err, &re) || re.Code != replica.RetCInvalidOperation {
		t.Errorf("Lookup(99) error = %v", err)
	}
}

func TestSnapshot(t *testing.T) {
	fsm := newStateMachine(t)
	q := querylist.New()
	q.AddQuery("Lineout", querylist.LineQuery, querylist.WorldSpace)
	_, _ = fsm.Update([]sm.Entry{entry(1, pushOf(q))})

	ctx, err := fsm.PrepareSnapshot()
	if err != nil {
		t.Fatalf("PrepareSnapshot() error = %v", err)
	}
	var snapshot bytes.Buffer
	if err := fsm.SaveSnapshot(ctx, &snapshot, nil, nil); err != nil {
		t.Fatalf("SaveSnapshot() error = %v", err)
	}

	recovered := newStateMachine(t)
	if err := recovered.RecoverFromSnapshot(&snapshot, nil, nil); err != nil {
		t.Fatalf("RecoverFromSnapshot() error = %v", err)
	}

	for _, query := range []internal.Query{{Type: internal.QueryTPull}, {Type: internal.QueryTInfo}} {
		a, _ := fsm.Lookup(query)
		b, _ := recovered.Lookup(query)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Lookup(%s) differs after recovery: %v vs %v", query.Type, a, b)
		}
	}

	// pending changes survive the snapshot, both nodes drain the same message
	drain := []sm.Entry{entry(2, internal.Command{Type: internal.CommandTDrain})}
	a, _ := fsm.Update(drain)
	aData := a[0].Result.Data
	b, _ := recovered.Update([]sm.Entry{entry(2, internal.Command{Type: internal.CommandTDrain})})
	if len(aData) == 0 || !bytes.Equal(aData, b[0].Result.Data) {
		t.Errorf("drains differ after recovery: %v vs %v", aData, b[0].Result.Data)
	}

	if err := recovered.RecoverFromSnapshot(bytes.NewReader([]byte{0, 0}), nil, nil); err == nil {
		t.Errorf("RecoverFromSnapshot() with corrupt data succeeded")
	}
}
