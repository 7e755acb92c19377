package codec

import (
	"fmt"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/hatlonely/typedef/datasource"
	"github.com/hatlonely/typedef/valid"
)

type Serializer[T any] interface {
	Serialize(from T) ([]byte, error)
	Deserialize(to []byte) (T, error)
}

// Options 线上编码格式
type Options struct {
	Format string `cfg:"format" def:"json" validate:"omitempty,oneof=json msgpack bson protobuf"`
}

var validate = validator.New()

// NewSerializerWithOptions 创建用于错误结构和查询描述的编码器，默认 json
func NewSerializerWithOptions(options *Options) (Serializer[map[string]any], error) {
	if options == nil {
		options = &Options{}
	}
	if err := validate.Struct(options); err != nil {
		return nil, errors.Wrap(err, "invalid codec options")
	}
	switch options.Format {
	case "", "json":
		return NewJSONSerializer[map[string]any](), nil
	case "msgpack":
		return NewMsgPackSerializer[map[string]any](), nil
	case "bson":
		return NewBSONSerializer[map[string]any](), nil
	case "protobuf":
		return NewProtobufSerializer(), nil
	}
	return nil, errors.Errorf("unsupported format: %s", options.Format)
}

// Normalize 把值转换为各种格式都能表达的形状
//
// 数字统一为 float64，列表为 []any，字符串键的 map 与 bson 文档为 map[string]any，
// 时间为 RFC3339 字符串，其他实现了 fmt.Stringer 的值取其字符串
func Normalize(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case bool, string, float64:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case bson.D:
		m := make(map[string]any, len(x))
		for _, e := range x {
			m[e.Key] = Normalize(e.Value)
		}
		return m
	case *valid.Error:
		return Normalize(x.Out())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		if s, ok := v.(fmt.Stringer); ok {
			return s.String()
		}
		return Normalize(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Normalize(iter.Value().Interface())
		}
		return out
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}

// EncodeError 把校验失败编码为 {"errors": 失败结构}
func EncodeError(s Serializer[map[string]any], err error) ([]byte, error) {
	var out any
	if err != nil {
		out = Normalize(valid.From(err).Out())
	}
	return s.Serialize(map[string]any{"errors": out})
}

// EncodeSQLInfo 编码查询分析结果的描述
func EncodeSQLInfo(s Serializer[map[string]any], info *datasource.SQLInfo) ([]byte, error) {
	if info == nil {
		return nil, errors.New("sql info is nil")
	}
	m, _ := Normalize(datasource.Describe(info)).(map[string]any)
	return s.Serialize(m)
}

// Decode 解码并规范化，不同格式解码出的结果可以直接比较
func Decode(s Serializer[map[string]any], data []byte) (map[string]any, error) {
	m, err := s.Deserialize(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode failed")
	}
	out, _ := Normalize(m).(map[string]any)
	return out, nil
}
