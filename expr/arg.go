package expr

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Arg 对外部调用参数的延迟引用，构造时不求值
//
// Arg 是一条由后向前链接的路径，每个节点有一个键和可选的下标
type Arg struct {
	key  string
	prev *Arg
	nth  *int
}

func NewArg(key string) *Arg {
	return &Arg{key: key}
}

// Attr 访问下一级属性
func (a *Arg) Attr(key string) *Arg {
	return &Arg{key: key, prev: a}
}

// Nth 访问当前节点的第 n 个元素
func (a *Arg) Nth(n int) *Arg {
	c := *a
	c.nth = &n
	return &c
}

func (a *Arg) Key() string {
	return a.key
}

func (a *Arg) Prev() *Arg {
	return a.prev
}

func (a *Arg) Index() (int, bool) {
	if a.nth == nil {
		return 0, false
	}
	return *a.nth, true
}

// Root 路径的第一个节点
func (a *Arg) Root() *Arg {
	r := a
	for r.prev != nil {
		r = r.prev
	}
	return r
}

// Nodes 从根到当前的所有节点
func (a *Arg) Nodes() []*Arg {
	var nodes []*Arg
	for n := a; n != nil; n = n.prev {
		nodes = append(nodes, n)
	}
	for i, j := 0, len(nodes)-1; i < j; i, j = i+1, j-1 {
		nodes[i], nodes[j] = nodes[j], nodes[i]
	}
	return nodes
}

// Path 从根到当前的键
func (a *Arg) Path() []string {
	nodes := a.Nodes()
	keys := make([]string, len(nodes))
	for i, n := range nodes {
		keys[i] = n.key
	}
	return keys
}

// Expr 形如 a.b[0].c 的路径表达式
func (a *Arg) Expr() string {
	var sb strings.Builder
	for i, n := range a.Nodes() {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(n.key)
		if n.nth != nil {
			sb.WriteByte('[')
			sb.WriteString(strconv.Itoa(*n.nth))
			sb.WriteByte(']')
		}
	}
	return sb.String()
}

func (a *Arg) String() string {
	return "args." + a.Expr()
}

// ParseArg 解析 a.b[0].c 形式的路径，允许 args. 前缀
func ParseArg(expr string) (*Arg, error) {
	expr = strings.TrimPrefix(strings.TrimSpace(expr), "args.")
	if expr == "" {
		return nil, errors.Wrap(ErrInvalidExpr, "empty argument path")
	}

	var (
		arg       *Arg
		current   strings.Builder
		inBracket bool
		prev      rune
	)
	push := func() {
		if current.Len() == 0 {
			return
		}
		if arg == nil {
			arg = NewArg(current.String())
		} else {
			arg = arg.Attr(current.String())
		}
		current.Reset()
	}

	for _, ch := range expr {
		// 下标之后只能接 . 或 [
		if prev == ']' && ch != '.' && ch != '[' {
			return nil, errors.Wrapf(ErrInvalidExpr, "unexpected %q after index in %q", ch, expr)
		}
		switch {
		case ch == '.' && !inBracket:
			if current.Len() == 0 && prev != ']' {
				return nil, errors.Wrapf(ErrInvalidExpr, "empty segment in %q", expr)
			}
			push()
		case ch == '[':
			if inBracket {
				return nil, errors.Wrapf(ErrInvalidExpr, "nested bracket in %q", expr)
			}
			push()
			if arg == nil || arg.nth != nil {
				return nil, errors.Wrapf(ErrInvalidExpr, "index without key in %q", expr)
			}
			inBracket = true
		case ch == ']':
			if !inBracket {
				return nil, errors.Wrapf(ErrInvalidExpr, "unexpected ']' in %q", expr)
			}
			n, err := strconv.Atoi(current.String())
			if err != nil || n < 0 {
				return nil, errors.Wrapf(ErrInvalidExpr, "invalid index %q in %q", current.String(), expr)
			}
			current.Reset()
			arg = arg.Nth(n)
			inBracket = false
		default:
			current.WriteRune(ch)
		}
		prev = ch
	}
	if inBracket {
		return nil, errors.Wrapf(ErrInvalidExpr, "unclosed bracket in %q", expr)
	}
	if current.Len() == 0 && prev != ']' {
		return nil, errors.Wrapf(ErrInvalidExpr, "empty segment in %q", expr)
	}
	push()
	return arg, nil
}

// Resolve 给外部求值器使用：在 map、切片和结构体组成的参数里按路径取值
func (a *Arg) Resolve(args any) (any, bool) {
	current := args
	for _, n := range a.Nodes() {
		v, ok := lookup(current, n.key)
		if !ok {
			return nil, false
		}
		if n.nth != nil {
			if v, ok = lookup(v, strconv.Itoa(*n.nth)); !ok {
				return nil, false
			}
		}
		current = v
	}
	return current, true
}

func lookup(data any, key string) (any, bool) {
	if data == nil {
		return nil, false
	}
	rv := reflect.ValueOf(data)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	case reflect.Struct:
		if f := rv.FieldByName(key); f.IsValid() && f.CanInterface() {
			return f.Interface(), true
		}
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			if tag := rt.Field(i).Tag.Get("json"); rt.Field(i).IsExported() && tag != "" && strings.Split(tag, ",")[0] == key {
				return rv.Field(i).Interface(), true
			}
		}
	}
	return nil, false
}
