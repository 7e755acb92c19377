package datasource

import (
	"reflect"

	"github.com/pkg/errors"

	"github.com/hatlonely/typedef/expr"
)

// Loop 对集合的有限次迭代，集合可以是字面量列表或参数引用
//
// 每次迭代把当前元素和下标以 Item、Index 指定的名字提供给循环体
type Loop struct {
	over    any
	item    string
	index   string
	skip    int
	steps   []Step
	collect bool
}

func NewLoop(over any) *Loop {
	return &Loop{over: over, skip: 1}
}

func (l *Loop) isStep() {}

// Item 当前元素在循环体中的参数名
func (l *Loop) Item(name string) *Loop {
	l.item = name
	return l
}

// Index 当前下标在循环体中的参数名
func (l *Loop) Index(name string) *Loop {
	l.index = name
	return l
}

// Skip 步长，默认为 1，即遍历所有元素
func (l *Loop) Skip(n int) *Loop {
	l.skip = n
	return l
}

// It 追加循环体
func (l *Loop) It(steps ...Step) *Loop {
	l.steps = append(l.steps, steps...)
	return l
}

// Collect 把每次迭代的结果收集为列表
func (l *Loop) Collect() *Loop {
	l.collect = true
	return l
}

func (l *Loop) Over() any {
	return l.over
}

func (l *Loop) ItemName() string {
	return l.item
}

func (l *Loop) IndexName() string {
	return l.index
}

func (l *Loop) Stride() int {
	return l.skip
}

func (l *Loop) Steps() []Step {
	return append([]Step(nil), l.steps...)
}

func (l *Loop) Collected() bool {
	return l.collect
}

func (l *Loop) Validate() error {
	if l.skip < 1 {
		return errors.Wrapf(ErrInvalidDefinition, "loop skip must be at least 1, got %d", l.skip)
	}
	if l.item != "" && l.item == l.index {
		return errors.Wrapf(ErrInvalidDefinition, "loop item and index share the name %q", l.item)
	}
	switch v := l.over.(type) {
	case *expr.Arg:
		if v == nil {
			return errors.Wrap(ErrInvalidDefinition, "loop over a nil argument")
		}
	default:
		if !isList(l.over) {
			return errors.Wrapf(ErrInvalidDefinition, "loop over %T, need a list or an argument", l.over)
		}
	}
	if len(l.steps) == 0 {
		return errors.Wrap(ErrInvalidDefinition, "loop has no body")
	}
	for _, s := range l.steps {
		if err := validateStep(s, map[string]int{}); err != nil {
			return errors.WithMessage(err, "loop body")
		}
	}
	return nil
}

// Iteration 一次迭代绑定的参数
type Iteration struct {
	Index int
	Item  any
	Args  map[string]any
}

// Expand 按步长展开迭代，集合是参数引用时从 args 中求值
func (l *Loop) Expand(args any) ([]Iteration, error) {
	if l.skip < 1 {
		return nil, errors.Wrapf(ErrInvalidDefinition, "loop skip must be at least 1, got %d", l.skip)
	}
	over := l.over
	if a, ok := over.(*expr.Arg); ok {
		v, found := a.Resolve(args)
		if !found {
			return nil, errors.Wrapf(ErrInvalidDefinition, "loop argument %s not found", a)
		}
		over = v
	}
	if over == nil {
		return nil, nil
	}
	if !isList(over) {
		return nil, errors.Wrapf(ErrInvalidDefinition, "loop over %T, need a list", over)
	}
	rv := reflect.ValueOf(over)
	out := make([]Iteration, 0, (rv.Len()+l.skip-1)/l.skip)
	for i := 0; i < rv.Len(); i += l.skip {
		it := Iteration{Index: i, Item: rv.Index(i).Interface(), Args: map[string]any{}}
		if l.item != "" {
			it.Args[l.item] = it.Item
		}
		if l.index != "" {
			it.Args[l.index] = i
		}
		out = append(out, it)
	}
	return out, nil
}

func isList(v any) bool {
	if v == nil {
		return false
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}
