package common

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/ValentinKolb/dAttr/lib/attr"
	"github.com/ValentinKolb/dAttr/lib/colortable"
	"github.com/ValentinKolb/dAttr/lib/querylist"
	"github.com/ValentinKolb/dAttr/lib/replica"
)

func TestParseShards(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []ServerShard
		wantErr bool
	}{
		{
			name:  "aliases and implementations",
			input: "100=colortable, 200=querylist(dreplica)",
			want: []ServerShard{
				{ShardID: 100, Type: ShardTypeLocalReplica, Subject: colortable.TypeName},
				{ShardID: 200, Type: ShardTypeRemoteReplica, Subject: querylist.TypeName},
			},
		},
		{
			name:  "registered type name",
			input: "7=ColorTableAttributes(lreplica)",
			want:  []ServerShard{{ShardID: 7, Type: ShardTypeLocalReplica, Subject: colortable.TypeName}},
		},
		{name: "missing subject", input: "100", wantErr: true},
		{name: "invalid id", input: "abc=colortable", wantErr: true},
		{name: "duplicate id", input: "1=colortable,1=querylist", wantErr: true},
		{name: "unknown subject", input: "1=histogram", wantErr: true},
		{name: "unknown implementation", input: "1=colortable(dstore)", wantErr: true},
		{name: "unterminated implementation", input: "1=colortable(dreplica", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseShards(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseShards(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseShards(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseClusterMembers(t *testing.T) {
	members, err := ParseClusterMembers("node-1=localhost:63001,node-2=localhost:63002")
	if err != nil {
		t.Fatalf("ParseClusterMembers() error = %v", err)
	}
	if members[ReplicaIDFromName("node-2")] != "localhost:63002" || len(members) != 2 {
		t.Errorf("ParseClusterMembers() = %v", members)
	}
	if _, err := ParseClusterMembers("node-1"); err == nil {
		t.Errorf("ParseClusterMembers() without address succeeded")
	}
	if ReplicaIDFromName("node-1") == ReplicaIDFromName("node-2") {
		t.Errorf("ReplicaIDFromName() collides")
	}
}

func TestServerConfigString(t *testing.T) {
	c := ServerConfig{
		Shards:         []ServerShard{{ShardID: 100, Type: ShardTypeRemoteReplica, Subject: colortable.TypeName}},
		ReplicaID:      1,
		ClusterMembers: map[uint64]string{1: "localhost:63001"},
		Transport:      ServerTransportConfig{Endpoint: "localhost:8080"},
	}
	out := c.String()
	for _, want := range []string{"localhost:8080", "ColorTableAttributes (remote replica)", "RAFT PARAMETERS", "Node 1: localhost:63001"} {
		if !strings.Contains(out, want) {
			t.Errorf("String() does not contain %q:\n%s", want, out)
		}
	}
}

func TestResponseErrors(t *testing.T) {
	tests := []struct {
		name     string
		msg      *Message
		wantCode replica.RetCode
		wantIs   error
	}{
		{
			name:     "protocol mismatch keeps the sentinel",
			msg:      NewPushResponse(colortable.TypeName, replica.ErrorFrom(attr.ErrProtocolMismatch)),
			wantCode: replica.RetCProtocolMismatch,
			wantIs:   attr.ErrProtocolMismatch,
		},
		{
			name:     "plain error is rejected",
			msg:      NewPushResponse(colortable.TypeName, errors.New("boom")),
			wantCode: replica.RetCRejected,
		},
		{
			name:     "error response without code",
			msg:      NewErrorResponse(replica.RetCSuccess, "shard not found"),
			wantCode: replica.RetCInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Failure()
			var re *replica.Error
			if !errors.As(err, &re) || re.Code != tt.wantCode {
				t.Fatalf("Failure() = %v, want code %s", err, tt.wantCode)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("Failure() = %v, want errors.Is %v", err, tt.wantIs)
			}
		})
	}

	if err := NewPullResponse(colortable.TypeName, []byte{1}, nil).Failure(); err != nil {
		t.Errorf("Failure() of successful response = %v", err)
	}
}

func TestInfoResponse(t *testing.T) {
	info := replica.Info{TypeName: querylist.TypeName, NumFields: 3, Pending: []int{0, 2}, Applied: 1<<40 + 5}
	msg := NewInfoResponse(querylist.TypeName, info, nil)
	got, err := replica.UnmarshalInfo(msg.Value)
	if err != nil {
		t.Fatalf("UnmarshalInfo() error = %v", err)
	}
	if !reflect.DeepEqual(got, info) {
		t.Errorf("UnmarshalInfo() = %v, want %v", got, info)
	}
}

func TestInitLoggers(t *testing.T) {
	if err := InitLoggers("warn"); err != nil {
		t.Errorf("InitLoggers(warn) error = %v", err)
	}
	if err := InitLoggers("verbose"); err == nil {
		t.Errorf("InitLoggers(verbose) succeeded")
	}
}

func TestInitLoggersRepeated(t *testing.T) {
	for _, level := range []string{"info", "error", "debug"} {
		t.Run(level, func(t *testing.T) {
			// a second factory registration would panic inside dragonboat
			if err := InitLoggers(level); err != nil {
				t.Fatalf("InitLoggers(%s) error = %v", level, err)
			}
		})
	}
}
