package ipc

import (
	"context"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mithrel/quill/internal/ipc/transport"
)

// Request sends a Message to the host over the control socket and waits
// for its Response.
func Request(ctx context.Context, path string, m Message) (Response, error) {
	var r Response
	req, err := toStruct(m)
	if err != nil {
		return r, err
	}
	c := transport.NewUnixClient(path)
	out, err := c.Do(transport.WithResp(ctx, &structpb.Struct{}), req)
	if err != nil {
		return r, err
	}
	s, ok := out.(*structpb.Struct)
	if !ok {
		return r, fmt.Errorf("unexpected response type %T", out)
	}
	if err := fromStruct(s, &r); err != nil {
		return r, err
	}
	return r, nil
}
