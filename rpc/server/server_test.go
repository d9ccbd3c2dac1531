package server

import (
	"errors"
	"testing"

	"github.com/ValentinKolb/dAttr/lib/attr"
	"github.com/ValentinKolb/dAttr/lib/codec"
	"github.com/ValentinKolb/dAttr/lib/colortable"
	"github.com/ValentinKolb/dAttr/lib/querylist"
	"github.com/ValentinKolb/dAttr/lib/replica"
	"github.com/ValentinKolb/dAttr/rpc/common"
	"github.com/ValentinKolb/dAttr/rpc/serializer"
	"github.com/ValentinKolb/dAttr/rpc/transport"
)

// recordingTransport only stores the registered handler
type recordingTransport struct {
	handler transport.ServerHandleFunc
}

func (r *recordingTransport) RegisterHandler(handler transport.ServerHandleFunc) { r.handler = handler }
func (r *recordingTransport) Listen(common.ServerConfig) error                 { return nil }
func (r *recordingTransport) Shutdown() error                                  { return nil }

func newTestServer(t *testing.T) (*RPCServer, *recordingTransport) {
	t.Helper()
	shards, err := common.ParseShards("100=colortable,200=querylist")
	if err != nil {
		t.Fatalf("ParseShards() error = %v", err)
	}
	tr := &recordingTransport{}
	s := NewRPCServer(common.ServerConfig{Shards: shards, TimeoutSecond: 5, LogLevel: "error"}, tr, serializer.NewBinarySerializer())
	if err := s.init(); err != nil {
		t.Fatalf("init() error = %v", err)
	}
	if tr.handler == nil {
		t.Fatalf("init() did not register a handler")
	}
	return s, tr
}

func call(t *testing.T, s *RPCServer, shardId uint64, req *common.Message) *common.Message {
	t.Helper()
	reqBytes, err := s.serializer.Serialize(*req)
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	resp := &common.Message{}
	if err := s.serializer.Deserialize(s.handle(shardId, reqBytes), resp); err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}
	return resp
}

func TestTwoServersInOneProcess(t *testing.T) {
	first, _ := newTestServer(t)
	second, _ := newTestServer(t)

	for i, s := range []*RPCServer{first, second} {
		if err := call(t, s, 100, common.NewInfoRequest(colortable.TypeName)).Failure(); err != nil {
			t.Errorf("server %d: info failed: %v", i, err)
		}
	}
}

func TestServerRoutesShards(t *testing.T) {
	s, _ := newTestServer(t)

	buf := codec.NewBuffer(256)
	attr.WriteChanges(colortable.NewDefaultAttributes(), buf)
	if resp := call(t, s, 100, common.NewPushRequest(colortable.TypeName, buf.Bytes())); resp.Failure() != nil {
		t.Fatalf("push failed: %v", resp.Failure())
	}

	resp := call(t, s, 100, common.NewInfoRequest(colortable.TypeName))
	info, err := replica.UnmarshalInfo(resp.Value)
	if err != nil || info.TypeName != colortable.TypeName || info.Applied != 1 {
		t.Errorf("info of shard 100 = %s, %v", info, err)
	}

	resp = call(t, s, 200, common.NewInfoRequest(querylist.TypeName))
	info, err = replica.UnmarshalInfo(resp.Value)
	if err != nil || info.TypeName != querylist.TypeName || info.Applied != 0 {
		t.Errorf("info of shard 200 = %s, %v", info, err)
	}
}

func TestServerErrors(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name    string
		shardId uint64
		req     *common.Message
		code    replica.RetCode
		is      error
	}{
		{"unknown shard", 300, common.NewPullRequest(colortable.TypeName), replica.RetCInvalidOperation, nil},
		{"wrong subject", 200, common.NewPullRequest(colortable.TypeName), replica.RetCInvalidOperation, nil},
		{"unsupported type", 100, &common.Message{MsgType: common.MsgTSuccess}, replica.RetCInvalidOperation, nil},
		{"undecodable changes", 100, common.NewPushRequest(colortable.TypeName, []byte{1}), replica.RetCDecodeError, codec.ErrDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := call(t, s, tt.shardId, tt.req).Failure()
			var re *replica.Error
			if !errors.As(err, &re) || re.Code != tt.code {
				t.Fatalf("response error = %v, want code %s", err, tt.code)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("response error %v does not unwrap to %v", err, tt.is)
			}
		})
	}

	// a request that cannot be decoded at all
	resp := &common.Message{}
	if err := s.serializer.Deserialize(s.handle(100, []byte{0xff}), resp); err != nil {
		t.Fatalf("Deserialize() error = %v", err)
	}
	if resp.Failure() == nil {
		t.Errorf("garbage request succeeded")
	}
}

func TestServeRequiresKnownSubjects(t *testing.T) {
	s := NewRPCServer(common.ServerConfig{
		Shards:   []common.ServerShard{{ShardID: 1, Type: common.ShardTypeLocalReplica, Subject: "Histogram"}},
		LogLevel: "error",
	}, &recordingTransport{}, serializer.NewBinarySerializer())
	if err := s.Serve(); !errors.Is(err, attr.ErrUnknownType) {
		t.Errorf("Serve() error = %v, want ErrUnknownType", err)
	}
}
