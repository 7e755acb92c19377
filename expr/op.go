package expr

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidExpr 非法的表达式节点
var ErrInvalidExpr = errors.New("invalid expression")

// FieldRef 绑定到模型的字段引用
type FieldRef interface {
	ModelName() string
	ColumnName() string
	Alias() string
}

// Op 不可变的二叉表达式节点，组合时总是包一层新节点
type Op struct {
	tag   OpTag
	left  any
	right any
}

func isLogicalNode(v any) bool {
	o, ok := v.(*Op)
	return ok && o != nil && o.tag.IsLogical()
}

// Compare 构造比较节点，两边不能同时是逻辑节点
func Compare(tag OpTag, left, right any) (*Op, error) {
	if !tag.IsOperator() {
		return nil, errors.Wrapf(ErrInvalidExpr, "%q is not a comparison", tag)
	}
	if isLogicalNode(left) && isLogicalNode(right) {
		return nil, errors.Wrapf(ErrInvalidExpr, "both operands of %q are logical nodes", tag)
	}
	if tag == OpIn || tag == OpNotIn {
		if _, ok := right.(*Arg); !ok && !isList(right) {
			return nil, errors.Wrapf(ErrInvalidExpr, "right operand of %q must be a list or an argument, got %T", tag, right)
		}
	}
	return &Op{tag: tag, left: left, right: right}, nil
}

// Logic 构造 and/or 节点
func Logic(tag OpTag, left, right *Op) (*Op, error) {
	if !tag.IsLogical() {
		return nil, errors.Wrapf(ErrInvalidExpr, "%q is not a logical combinator", tag)
	}
	if left == nil || right == nil {
		return nil, errors.Wrapf(ErrInvalidExpr, "operand of %q is nil", tag)
	}
	return &Op{tag: tag, left: left, right: right}, nil
}

// Empty 恒真条件 1 = 1
func Empty() *Op {
	return &Op{tag: OpEq, left: 1, right: 1}
}

func (o *Op) And(other *Op) *Op {
	return &Op{tag: OpAnd, left: o, right: other}
}

func (o *Op) Or(other *Op) *Op {
	return &Op{tag: OpOr, left: o, right: other}
}

func (o *Op) Tag() OpTag {
	return o.tag
}

func (o *Op) Left() any {
	return o.left
}

func (o *Op) Right() any {
	return o.right
}

func (o *Op) IsLogical() bool {
	return o.tag.IsLogical()
}

func (o *Op) IsOperator() bool {
	return o.tag.IsOperator()
}

func (o *Op) IsEmpty() bool {
	return o.tag == OpEq && o.left == 1 && o.right == 1
}

// Walk 前序遍历，fn 返回 false 时不再进入子树
func (o *Op) Walk(fn func(*Op) bool) {
	if o == nil || !fn(o) {
		return
	}
	if l, ok := o.left.(*Op); ok {
		l.Walk(fn)
	}
	if r, ok := o.right.(*Op); ok {
		r.Walk(fn)
	}
}

// Fields 按出现顺序返回树中引用的字段
func (o *Op) Fields() []FieldRef {
	var refs []FieldRef
	o.Walk(func(n *Op) bool {
		for _, side := range []any{n.left, n.right} {
			if f, ok := side.(FieldRef); ok {
				refs = append(refs, f)
			}
		}
		return true
	})
	return refs
}

func (o *Op) String() string {
	if o == nil {
		return ""
	}
	if o.tag.IsLogical() {
		return fmt.Sprintf("(%s) %s (%s)", branch(o.left), o.tag.Symbol(), branch(o.right))
	}
	return fmt.Sprintf("%s %s %s", Render(o.left), o.tag.Symbol(), Render(o.right))
}

func branch(v any) string {
	if o, ok := v.(*Op); ok {
		return o.String()
	}
	return Render(v)
}

// Render 把操作数渲染为可读文本
func Render(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case *Op:
		return "(" + x.String() + ")"
	case FieldRef:
		return x.ModelName() + "." + x.ColumnName()
	case fmt.Stringer:
		return x.String()
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	}
	if isList(v) {
		rv := reflect.ValueOf(v)
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = Render(rv.Index(i).Interface())
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return fmt.Sprint(v)
}

func isList(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	if k == reflect.Slice && reflect.TypeOf(v).Elem().Kind() == reflect.Uint8 {
		return false
	}
	return k == reflect.Slice || k == reflect.Array
}

// JoinCond 连接条件，两边都必须是字段引用
type JoinCond struct {
	op *Op
}

func On(tag OpTag, left, right FieldRef) (*JoinCond, error) {
	switch tag {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
	default:
		return nil, errors.Wrapf(ErrInvalidExpr, "%q can not be used in a join condition", tag)
	}
	if isNilRef(left) || isNilRef(right) {
		return nil, errors.Wrap(ErrInvalidExpr, "join condition needs two fields")
	}
	return &JoinCond{op: &Op{tag: tag, left: left, right: right}}, nil
}

// isNilRef 接口内装的 nil 指针也视为 nil
func isNilRef(f FieldRef) bool {
	if f == nil {
		return true
	}
	rv := reflect.ValueOf(f)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

func (j *JoinCond) Op() *Op {
	return j.op
}

func (j *JoinCond) Left() FieldRef {
	return j.op.left.(FieldRef)
}

func (j *JoinCond) Right() FieldRef {
	return j.op.right.(FieldRef)
}

func (j *JoinCond) String() string {
	return j.op.String()
}
