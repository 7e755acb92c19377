package codec

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProtobufSerializer 以 google.protobuf.Struct 编码任意的 map
type ProtobufSerializer struct{}

func NewProtobufSerializer() *ProtobufSerializer {
	return &ProtobufSerializer{}
}

func (s *ProtobufSerializer) Serialize(from map[string]any) ([]byte, error) {
	m, _ := Normalize(from).(map[string]any)
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, errors.Wrap(err, "structpb.NewStruct failed")
	}
	return proto.Marshal(st)
}

func (s *ProtobufSerializer) Deserialize(to []byte) (map[string]any, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(to, &st); err != nil {
		return nil, errors.Wrap(err, "proto.Unmarshal failed")
	}
	return st.AsMap(), nil
}
