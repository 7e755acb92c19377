package datasource

import (
	"github.com/hatlonely/typedef/expr"
	"github.com/hatlonely/typedef/model"
)

// JoinMode 连接方式
type JoinMode int

const (
	JoinLeft JoinMode = iota + 1
	JoinInner
	JoinOuter
)

func (m JoinMode) String() string {
	switch m {
	case JoinLeft:
		return "left"
	case JoinInner:
		return "inner"
	case JoinOuter:
		return "outer"
	default:
		return "unknown"
	}
}

// Select 初始状态，记录要查询的模型、字段和子查询
//
// 可以进入 Filter、Join、Paging 和 Alias 状态
type Select struct {
	state
	items []any
}

func (s *Select) Kind() Kind {
	return KindSelect
}

// Select 追加查询项：*model.Model 展开为全部列字段，*model.ModelField，或作为子查询的 *Alias
func (s *Select) Select(items ...any) *Select {
	if len(items) == 0 && len(s.items) == 0 {
		s.src.failf("select needs at least one model or field")
	}
	for _, item := range items {
		switch v := item.(type) {
		case *model.Model:
			if v == nil {
				s.src.failf("select a nil model")
				continue
			}
			if len(v.Columns()) == 0 {
				s.src.failf("model %s has no column, can not select from it", v.Name())
				continue
			}
		case *model.ModelField:
			if v == nil {
				s.src.failf("select a nil field")
				continue
			}
		case *Alias:
			if v == nil || v.src == s.src {
				s.src.failf("sub query must come from another data source")
				continue
			}
		default:
			s.src.failf("can not select %T", item)
			continue
		}
		s.items = append(s.items, item)
	}
	return s
}

// Items 按声明顺序返回查询项
func (s *Select) Items() []any {
	return append([]any(nil), s.items...)
}

func (s *Select) Filter(p *expr.Op) *Filter {
	return s.src.newFilter(p)
}

// Join 默认使用左连接
func (s *Select) Join(conds ...*expr.JoinCond) *Join {
	return s.src.newJoin().Join(conds...)
}

func (s *Select) JoinWith(mode JoinMode, conds ...*expr.JoinCond) *Join {
	return s.src.newJoin().JoinWith(mode, conds...)
}

func (s *Select) Skip(n any) *Paging {
	return s.src.newPaging().Skip(n)
}

func (s *Select) Take(n any) *Paging {
	return s.src.newPaging().Take(n)
}

func (s *Select) First() *Paging {
	return s.src.newPaging().First()
}

func (s *Select) Paging(page, size int) *Paging {
	return s.src.newPaging().Paging(page, size)
}

func (s *Select) Alias(name string) *Alias {
	return s.src.newAlias(name)
}

// Filter 过滤条件，And/Or 把已有条件包在左边，不会替换
type Filter struct {
	state
	ops *expr.Op
}

func (f *Filter) Kind() Kind {
	return KindFilter
}

func (f *Filter) combine(tag expr.OpTag, p *expr.Op) *Filter {
	if p == nil {
		f.src.failf("%s with a nil condition", tag)
		return f
	}
	if f.ops == nil {
		f.ops = p
		return f
	}
	op, err := expr.Logic(tag, f.ops, p)
	if err != nil {
		f.src.fail(err)
		return f
	}
	f.ops = op
	return f
}

func (f *Filter) And(p *expr.Op) *Filter {
	return f.combine(expr.OpAnd, p)
}

func (f *Filter) Or(p *expr.Op) *Filter {
	return f.combine(expr.OpOr, p)
}

// Quote 返回当前条件树，用于嵌套到其他条件中
func (f *Filter) Quote() *expr.Op {
	if f.ops == nil {
		return expr.Empty()
	}
	return f.ops
}

func (f *Filter) Skip(n any) *Paging {
	return f.src.newPaging().Skip(n)
}

func (f *Filter) Take(n any) *Paging {
	return f.src.newPaging().Take(n)
}

func (f *Filter) First() *Paging {
	return f.src.newPaging().First()
}

func (f *Filter) Paging(page, size int) *Paging {
	return f.src.newPaging().Paging(page, size)
}

// Join 联表条件，两边都是字段
type Join struct {
	state
	conds []*expr.JoinCond
	mode  JoinMode
}

func (j *Join) Kind() Kind {
	return KindJoin
}

func (j *Join) Join(conds ...*expr.JoinCond) *Join {
	return j.JoinWith(JoinLeft, conds...)
}

// JoinWith 追加连接条件并设置连接方式，多次调用时最后一次的方式生效
func (j *Join) JoinWith(mode JoinMode, conds ...*expr.JoinCond) *Join {
	if mode < JoinLeft || mode > JoinOuter {
		j.src.failf("unknown join mode %d", mode)
		return j
	}
	if len(conds) == 0 {
		j.src.failf("join needs at least one condition")
		return j
	}
	for _, c := range conds {
		if c == nil {
			j.src.failf("join with a nil condition")
			return j
		}
	}
	j.conds = append(j.conds, conds...)
	j.mode = mode
	return j
}

func (j *Join) Mode() JoinMode {
	return j.mode
}

func (j *Join) Conds() []*expr.JoinCond {
	return append([]*expr.JoinCond(nil), j.conds...)
}

func (j *Join) Filter(p *expr.Op) *Filter {
	return j.src.newFilter(p)
}

func (j *Join) Skip(n any) *Paging {
	return j.src.newPaging().Skip(n)
}

func (j *Join) Take(n any) *Paging {
	return j.src.newPaging().Take(n)
}

func (j *Join) First() *Paging {
	return j.src.newPaging().First()
}

func (j *Join) Paging(page, size int) *Paging {
	return j.src.newPaging().Paging(page, size)
}

func (j *Join) Alias(name string) *Alias {
	return j.src.newAlias(name)
}

// Paging 分页，数量可以是非负整数、参数引用或其他表的字段
type Paging struct {
	state
	skip   any
	take   any
	single bool
}

func (p *Paging) Kind() Kind {
	return KindPaging
}

func (p *Paging) count(name string, n any) (any, bool) {
	switch v := n.(type) {
	case int:
		if v < 0 {
			p.src.failf("%s must not be negative, got %d", name, v)
			return nil, false
		}
		return v, true
	case *expr.Arg:
		if v != nil {
			return v, true
		}
	case *model.ModelField:
		if v != nil {
			return v, true
		}
	}
	p.src.failf("%s must be an int, an argument or a field, got %T", name, n)
	return nil, false
}

func (p *Paging) Skip(n any) *Paging {
	if v, ok := p.count("skip", n); ok {
		p.skip = v
	}
	return p
}

func (p *Paging) Take(n any) *Paging {
	if v, ok := p.count("take", n); ok {
		p.take = v
	}
	return p
}

// First 只取第一条，结果按单个对象而不是列表处理
func (p *Paging) First() *Paging {
	p.take = 1
	p.single = true
	return p
}

// Paging page 从 1 开始
func (p *Paging) Paging(page, size int) *Paging {
	if page < 1 || size < 1 {
		p.src.failf("page and size must be positive, got page %d size %d", page, size)
		return p
	}
	return p.Skip((page - 1) * size).Take(size)
}

func (p *Paging) Single() bool {
	return p.single
}

func (p *Paging) Alias(name string) *Alias {
	return p.src.newAlias(name)
}

// Alias 子查询别名，只能作为终止状态
type Alias struct {
	state
	name string
}

func (a *Alias) Kind() Kind {
	return KindAlias
}

func (a *Alias) Name() string {
	return a.name
}
