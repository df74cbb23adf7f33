package api

import (
	"fmt"

	"github.com/dmitrijs2005/moodiary/internal/domain"
	"google.golang.org/grpc/encoding"
	grpcproto "google.golang.org/grpc/encoding/proto"
	"google.golang.org/protobuf/proto"
)

// CodecName is the gRPC content subtype the service is served with. The
// codec replaces grpc's default proto codec and hands generated messages
// back to the protobuf runtime, so other services on the same server keep
// working.
const CodecName = grpcproto.Name

type wireCodec struct{}

func (wireCodec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case wireMessage:
		return m.appendWire(nil), nil
	case *domain.ChangeEvent:
		return appendChangeEvent(nil, m), nil
	case proto.Message:
		return proto.Marshal(m)
	}
	return nil, fmt.Errorf("api: cannot marshal %T", v)
}

func (wireCodec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case wireMessage:
		return m.decodeWire(data)
	case *domain.ChangeEvent:
		return decodeChangeEvent(data, m)
	case proto.Message:
		return proto.Unmarshal(data, m)
	}
	return fmt.Errorf("api: cannot unmarshal into %T", v)
}

func (wireCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(wireCodec{})
}
