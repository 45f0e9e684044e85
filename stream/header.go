package stream

import (
	"fmt"

	pb "github.com/go-marmot/marmot/internal/rpc"
	"github.com/golang/protobuf/proto"
)

// Header is the opening message of a stream: the codec applied to the
// payload, and an RPC-specific request
type Header struct {
	Codec   string
	payload []byte
}

// Unmarshal decodes the RPC-specific request into m
func (h *Header) Unmarshal(m proto.Message) error {
	return proto.Unmarshal(h.payload, m)
}

func encodeHeader(codec string, request proto.Message) (*pb.StreamChunk, error) {
	var payload []byte
	if request != nil {
		var err error
		if payload, err = proto.Marshal(request); err != nil {
			return nil, err
		}
	}
	data, err := proto.Marshal(&pb.StreamHeaderProto{Codec: codec, Payload: payload})
	if err != nil {
		return nil, err
	}
	return &pb.StreamChunk{Kind: pb.ChunkHeader, Header: data}, nil
}

func decodeHeader(chunk *pb.StreamChunk) (*Header, error) {
	if chunk.GetKind() != pb.ChunkHeader {
		return nil, fmt.Errorf("Expected a HEADER chunk, got %s", chunk.GetKind())
	}
	hdr := &pb.StreamHeaderProto{}
	if err := proto.Unmarshal(chunk.Header, hdr); err != nil {
		return nil, err
	}
	return &Header{Codec: hdr.Codec, payload: hdr.Payload}, nil
}
