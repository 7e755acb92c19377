package codec

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// MsgPackSerializer 结构体按 json 标签编码，与 JSONSerializer 输出相同的键
type MsgPackSerializer[T any] struct{}

func NewMsgPackSerializer[T any]() *MsgPackSerializer[T] {
	return &MsgPackSerializer[T]{}
}

func (s *MsgPackSerializer[T]) Serialize(from T) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(from); err != nil {
		return nil, errors.Wrap(err, "msgpack encode failed")
	}
	return buf.Bytes(), nil
}

// Deserialize 整数统一解码为 int64/uint64，浮点数为 float64
func (s *MsgPackSerializer[T]) Deserialize(to []byte) (T, error) {
	var result T
	dec := msgpack.NewDecoder(bytes.NewReader(to))
	dec.SetCustomStructTag("json")
	dec.UseLooseInterfaceDecoding(true)
	if err := dec.Decode(&result); err != nil {
		return result, errors.Wrap(err, "msgpack decode failed")
	}
	return result, nil
}
