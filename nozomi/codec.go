package nozomi

import (
	"encoding/binary"
	"fmt"
)

// ErrTruncated reports a posting-list payload whose length is not a
// multiple of the 4-byte record size.
type ErrTruncated struct {
	Length int
}

func (e *ErrTruncated) Error() string {
	return fmt.Sprintf("nozomi: truncated posting list (%d bytes)", e.Length)
}

// ParseIDs decodes a posting list: a sequence of big-endian signed 32-bit
// content IDs. It is pure; the only failure mode is a truncated payload.
func ParseIDs(data []byte) ([]int32, error) {
	if len(data)%4 != 0 {
		return nil, &ErrTruncated{Length: len(data)}
	}
	ids := make([]int32, 0, len(data)/4)
	for i := 0; i < len(data); i += 4 {
		ids = append(ids, int32(binary.BigEndian.Uint32(data[i:i+4])))
	}
	return ids, nil
}

// AppendIDs encodes ids in posting-list wire format, appending to dst.
// AppendIDs(nil, ParseIDs(b)) reproduces b for any well-formed b.
func AppendIDs(dst []byte, ids []int32) []byte {
	for _, id := range ids {
		dst = binary.BigEndian.AppendUint32(dst, uint32(id))
	}
	return dst
}
