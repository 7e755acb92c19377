package expr

import "strings"

// Func 数据源侧的函数调用，例如 now() 或 count(x)
type Func struct {
	name string
	args []any
}

func NewFunc(name string, args ...any) *Func {
	return &Func{name: name, args: append([]any(nil), args...)}
}

// Now 当前时间
func Now() *Func {
	return NewFunc("now")
}

func Count(operand any) *Func {
	return NewFunc("count", operand)
}

func (f *Func) Name() string {
	return f.name
}

func (f *Func) Args() []any {
	return append([]any(nil), f.args...)
}

func (f *Func) String() string {
	parts := make([]string, len(f.args))
	for i, a := range f.args {
		parts[i] = Render(a)
	}
	return f.name + "(" + strings.Join(parts, ", ") + ")"
}
