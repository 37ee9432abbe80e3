package transport

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
)

// MaxFrameSize bounds one frame. Documents travel whole, so it is generous.
const MaxFrameSize = 16 << 20

// ErrFrameTooLarge is returned for frames above MaxFrameSize.
var ErrFrameTooLarge = errors.New("transport: frame too large")

type byteReader interface {
	io.Reader
	io.ByteReader
}

// writeProto writes m as one varint length-prefixed frame in a single write.
func writeProto(w io.Writer, m proto.Message) error {
	payload, err := proto.Marshal(m)
	if err != nil {
		return err
	}
	if len(payload) > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(payload))
	}
	frame := protowire.AppendVarint(make([]byte, 0, len(payload)+binary.MaxVarintLen64), uint64(len(payload)))
	_, err = w.Write(append(frame, payload...))
	return err
}

// readProto reads one frame into dst. Readers that are already buffered are
// used as is so consecutive frames are not swallowed by read-ahead.
func readProto(r io.Reader, dst proto.Message) error {
	br, ok := r.(byteReader)
	if !ok {
		br = bufio.NewReader(r)
	}
	n, err := binary.ReadUvarint(br)
	if err != nil {
		return err
	}
	if n > MaxFrameSize {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(br, buf); err != nil {
		return err
	}
	return proto.Unmarshal(buf, dst)
}
