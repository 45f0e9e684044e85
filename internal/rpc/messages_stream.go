package rpc

import (
	"github.com/golang/protobuf/proto"
)

// ChunkKind identifies the role of a StreamChunk
type ChunkKind int32

const (
	// ChunkUnknown is the zero value and never sent
	ChunkUnknown ChunkKind = 0
	// ChunkHeader opens a stream and carries a StreamHeaderProto
	ChunkHeader ChunkKind = 1
	// ChunkData carries a slice of the payload
	ChunkData ChunkKind = 2
	// ChunkSync asks the peer to acknowledge once everything before it is consumed
	ChunkSync ChunkKind = 3
	// ChunkSyncBack acknowledges a ChunkSync
	ChunkSyncBack ChunkKind = 4
	// ChunkEOS marks the end of the payload
	ChunkEOS ChunkKind = 5
	// ChunkCancel aborts the stream from either side
	ChunkCancel ChunkKind = 6
	// ChunkError aborts the stream with an ErrorProto
	ChunkError ChunkKind = 7
	// ChunkResult carries the final response of an upload
	ChunkResult ChunkKind = 8
)

var chunkKindNames = map[ChunkKind]string{
	ChunkUnknown:  "UNKNOWN",
	ChunkHeader:   "HEADER",
	ChunkData:     "DATA",
	ChunkSync:     "SYNC",
	ChunkSyncBack: "SYNC_BACK",
	ChunkEOS:      "EOS",
	ChunkCancel:   "CANCEL",
	ChunkError:    "ERROR",
	ChunkResult:   "RESULT",
}

func (k ChunkKind) String() string {
	if name, ok := chunkKindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// StreamChunk is the single message type exchanged on every Marmot stream
type StreamChunk struct {
	Kind     ChunkKind   `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Header   []byte      `protobuf:"bytes,2,opt,name=header,proto3" json:"header,omitempty"`
	Data     []byte      `protobuf:"bytes,3,opt,name=data,proto3" json:"data,omitempty"`
	Sync     int32       `protobuf:"varint,4,opt,name=sync,proto3" json:"sync,omitempty"`
	Error    *ErrorProto `protobuf:"bytes,5,opt,name=error,proto3" json:"error,omitempty"`
	Result   []byte      `protobuf:"bytes,6,opt,name=result,proto3" json:"result,omitempty"`
	Checksum uint64      `protobuf:"varint,7,opt,name=checksum,proto3" json:"checksum,omitempty"`
}

func (m *StreamChunk) Reset()         { *m = StreamChunk{} }
func (m *StreamChunk) String() string { return proto.CompactTextString(m) }
func (*StreamChunk) ProtoMessage()    {}

// GetKind returns the chunk kind, or ChunkUnknown for a nil StreamChunk
func (m *StreamChunk) GetKind() ChunkKind {
	if m != nil {
		return m.Kind
	}
	return ChunkUnknown
}

// GetError returns the carried error, if any
func (m *StreamChunk) GetError() *ErrorProto {
	if m != nil {
		return m.Error
	}
	return nil
}

// StreamHeaderProto opens a stream: the codec applied to the payload, and an
// RPC-specific request message
type StreamHeaderProto struct {
	Codec   string `protobuf:"bytes,1,opt,name=codec,proto3" json:"codec,omitempty"`
	Payload []byte `protobuf:"bytes,2,opt,name=payload,proto3" json:"payload,omitempty"`
}

func (m *StreamHeaderProto) Reset()         { *m = StreamHeaderProto{} }
func (m *StreamHeaderProto) String() string { return proto.CompactTextString(m) }
func (*StreamHeaderProto) ProtoMessage()    {}
