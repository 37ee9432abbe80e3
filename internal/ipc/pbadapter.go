package ipc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mithrel/quill/internal/ipc/transport"
)

// pbHandler adapts a Message handler to google.protobuf.Struct frames.
type pbHandler struct {
	fn func(context.Context, Message) Response
}

func (h pbHandler) ProtoTypes() (proto.Message, proto.Message) {
	return &structpb.Struct{}, &structpb.Struct{}
}

func (h pbHandler) Handle(ctx context.Context, req any) (any, error) {
	var m Message
	if err := fromStruct(req.(*structpb.Struct), &m); err != nil {
		return toStruct(Response{OK: false, Msg: "bad request"})
	}
	return toStruct(h.fn(ctx, m))
}

// PBHandler builds a transport.Handler around a Message handler.
func PBHandler(fn func(context.Context, Message) Response) transport.Handler {
	return pbHandler{fn: fn}
}

// toStruct converts v through its JSON form so the struct tags above are
// also the field names on the socket.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return s, nil
}

func fromStruct(s *structpb.Struct, v any) error {
	b, err := json.Marshal(s.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
