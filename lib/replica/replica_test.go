package replica_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ValentinKolb/dAttr/lib/attr"
	"github.com/ValentinKolb/dAttr/lib/codec"
	"github.com/ValentinKolb/dAttr/lib/colortable"
	"github.com/ValentinKolb/dAttr/lib/querylist"
	"github.com/ValentinKolb/dAttr/lib/replica"
	"github.com/ValentinKolb/dAttr/lib/replica/lreplica"
)

func newReplica(t *testing.T, typeName string) replica.IReplica {
	t.Helper()
	factory, err := replica.FactoryFor(typeName)
	if err != nil {
		t.Fatalf("FactoryFor(%s) error = %v", typeName, err)
	}
	return lreplica.NewLocalReplica(factory)
}

// failingReplica rejects every push
type failingReplica struct {
	replica.IReplica
}

func (f failingReplica) Push([]byte) error {
	return replica.NewError(replica.RetCInternalError, "unavailable")
}

func TestFactoryFor(t *testing.T) {
	if _, err := replica.FactoryFor("Histogram"); !errors.Is(err, attr.ErrUnknownType) {
		t.Errorf("FactoryFor(Histogram) error = %v, want ErrUnknownType", err)
	}
	factory, _ := replica.FactoryFor(querylist.TypeName)
	if a, b := factory(), factory(); a == b || a.TypeName() != querylist.TypeName {
		t.Errorf("factory does not create fresh %s subjects", querylist.TypeName)
	}
}

func TestErrorFrom(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code replica.RetCode
		is   error
	}{
		{"decode", codec.ErrDecode, replica.RetCDecodeError, codec.ErrDecode},
		{"protocol mismatch", attr.ErrProtocolMismatch, replica.RetCProtocolMismatch, attr.ErrProtocolMismatch},
		{"unknown type", attr.ErrUnknownType, replica.RetCUnknownType, attr.ErrUnknownType},
		{"invariant", errors.New("names and payloads differ"), replica.RetCRejected, nil},
		{"replica error", replica.NewError(replica.RetCInvalidOperation, "x"), replica.RetCInvalidOperation, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := replica.ErrorFrom(tt.err)
			var re *replica.Error
			if !errors.As(err, &re) || re.Code != tt.code {
				t.Fatalf("ErrorFrom(%v) = %v, want code %s", tt.err, err, tt.code)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("ErrorFrom(%v) does not unwrap to %v", tt.err, tt.is)
			}
		})
	}
	if replica.ErrorFrom(nil) != nil {
		t.Errorf("ErrorFrom(nil) != nil")
	}
}

func TestInfoEncoding(t *testing.T) {
	info := replica.Info{TypeName: colortable.TypeName, NumFields: 4, Pending: []int{1, 3}, Applied: 1<<33 + 7}
	got, err := replica.UnmarshalInfo(replica.MarshalInfo(info))
	if err != nil {
		t.Fatalf("UnmarshalInfo() error = %v", err)
	}
	if !reflect.DeepEqual(got, info) {
		t.Errorf("UnmarshalInfo() = %v, want %v", got, info)
	}
	if _, err := replica.UnmarshalInfo([]byte{0, 0}); !errors.Is(err, codec.ErrDecode) {
		t.Errorf("UnmarshalInfo(truncated) error = %v", err)
	}
}

func TestPublishFetchReceive(t *testing.T) {
	r := newReplica(t, colortable.TypeName)

	source := colortable.NewDefaultAttributes()
	if err := replica.Publish(r, source); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if n := source.Selection().NumSelected(); n != 0 {
		t.Errorf("%d fields pending after Publish()", n)
	}

	fetched := colortable.NewAttributes()
	if err := replica.Fetch(r, fetched); err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if !fetched.Equal(source) {
		t.Errorf("fetched = %s\nwant %s", fetched, source)
	}
	if n := fetched.Selection().NumSelected(); n != 0 {
		t.Errorf("fetched state counts as %d local changes", n)
	}

	received := colortable.NewAttributes()
	if err := replica.Receive(r, received); err != nil {
		t.Fatalf("Receive() error = %v", err)
	}
	if !received.Equal(source) {
		t.Errorf("received = %s\nwant %s", received, source)
	}

	// nothing left to drain
	if err := replica.Receive(r, received); err != nil {
		t.Errorf("second Receive() error = %v", err)
	}
}

func TestPublishKeepsChangesOnFailure(t *testing.T) {
	source := colortable.NewDefaultAttributes()
	_ = source.SetActiveContinuous("gray")
	before := source.Selection().SelectedIndices()

	err := replica.Publish(failingReplica{newReplica(t, colortable.TypeName)}, source)
	if err == nil {
		t.Fatalf("Publish() to failing replica succeeded")
	}
	if after := source.Selection().SelectedIndices(); !reflect.DeepEqual(before, after) {
		t.Errorf("pending slots after failed Publish() = %v, want %v", after, before)
	}
}

func TestTypeMismatch(t *testing.T) {
	r := newReplica(t, colortable.TypeName)
	q := querylist.New()
	q.AddQuery("Volume", querylist.DatabaseQuery, querylist.WorldSpace)

	for name, op := range map[string]func(replica.IReplica, attr.Subject) error{
		"Publish": replica.Publish,
		"Fetch":   replica.Fetch,
		"Receive": replica.Receive,
	} {
		err := op(r, q)
		var re *replica.Error
		if !errors.As(err, &re) || re.Code != replica.RetCInvalidOperation {
			t.Errorf("%s() error = %v, want code InvalidOperation", name, err)
		}
	}
}
