package valid

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Kind 校验失败的类别
type Kind int

const (
	KindNull Kind = iota + 1
	KindInvalid
	KindConvert
	KindNested
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInvalid:
		return "invalid"
	case KindConvert:
		return "convert"
	case KindNested:
		return "nested"
	default:
		return "unknown"
	}
}

var (
	// ErrNull 必填的值缺失
	ErrNull = errors.New("null value")
	// ErrInvalidType 值存在但类型或形态不对
	ErrInvalidType = errors.New("invalid type")
	// ErrConvert 值的形态正确但转换失败
	ErrConvert = errors.New("convert failed")
)

// Error 结构化的校验失败，要么是一条消息，要么是按字段名或 @index[N] 组织的嵌套失败
type Error struct {
	kind     Kind
	msg      string
	children map[string]*Error
}

func newLeaf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Null 构造必填缺失错误
func Null(field string, value any) *Error {
	return newLeaf(KindNull, "%s is required, but value is %v", field, value)
}

func Invalid(format string, args ...any) *Error {
	return newLeaf(KindInvalid, format, args...)
}

func Convert(format string, args ...any) *Error {
	return newLeaf(KindConvert, format, args...)
}

// Nested 构造嵌套错误，nil 子错误会被忽略
func Nested(children map[string]*Error) *Error {
	e := &Error{kind: KindNested, children: make(map[string]*Error, len(children))}
	for k, v := range children {
		if v != nil {
			e.children[k] = v
		}
	}
	return e
}

// IndexKey 列表元素在错误映射中的键
func IndexKey(i int) string {
	return fmt.Sprintf("@index[%d]", i)
}

// Index 把元素错误包装到 @index[i] 之下
func Index(i int, err error) *Error {
	return Nested(map[string]*Error{IndexKey(i): From(err)})
}

// From 把任意 error 转为 *Error，非结构化错误按 invalid 处理
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Invalid("%s", err.Error())
}

func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Message() string {
	return e.msg
}

func (e *Error) IsNested() bool {
	return e.kind == KindNested
}

// Get 返回某个键下的子错误
func (e *Error) Get(key string) *Error {
	if e.children == nil {
		return nil
	}
	return e.children[key]
}

// Keys 返回排序后的子错误键
func (e *Error) Keys() []string {
	keys := make([]string, 0, len(e.children))
	for k := range e.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Out 输出错误的线上格式：叶子是字符串，嵌套是 map[string]any
func (e *Error) Out() any {
	if e.kind != KindNested {
		return e.msg
	}
	out := make(map[string]any, len(e.children))
	for k, v := range e.children {
		out[k] = v.Out()
	}
	return out
}

func (e *Error) Error() string {
	if e.kind != KindNested {
		return e.msg
	}
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e.Out()); err != nil {
		return fmt.Sprintf("%v", e.Out())
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// Is 让 errors.Is 可以按类别匹配，嵌套错误只要有一个后代匹配即可
func (e *Error) Is(target error) bool {
	var kind Kind
	switch target {
	case ErrNull:
		kind = KindNull
	case ErrInvalidType:
		kind = KindInvalid
	case ErrConvert:
		kind = KindConvert
	default:
		return false
	}
	return e.has(kind)
}

func (e *Error) has(kind Kind) bool {
	if e.kind == kind {
		return true
	}
	for _, c := range e.children {
		if c.has(kind) {
			return true
		}
	}
	return false
}

func (e *Error) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Out())
}

func IsNull(err error) bool {
	return errors.Is(err, ErrNull)
}

func IsInvalidType(err error) bool {
	return errors.Is(err, ErrInvalidType)
}

func IsConvert(err error) bool {
	return errors.Is(err, ErrConvert)
}

// Collector 聚合子元素的校验失败，不做短路
type Collector struct {
	children map[string]*Error
}

func (c *Collector) Add(key string, err error) {
	if err == nil {
		return
	}
	if c.children == nil {
		c.children = map[string]*Error{}
	}
	c.children[key] = From(err)
}

func (c *Collector) AddIndex(i int, err error) {
	c.Add(IndexKey(i), err)
}

func (c *Collector) Len() int {
	return len(c.children)
}

// Err 没有失败时返回 nil
func (c *Collector) Err() error {
	if len(c.children) == 0 {
		return nil
	}
	return Nested(c.children)
}
