package datasource

import (
	"github.com/hatlonely/typedef/expr"
	"github.com/hatlonely/typedef/model"
)

// Updater 更新赋值，赋值列表与过滤条件相互独立
type Updater struct {
	state
	assignments []*expr.Op
	model       string
}

func (u *Updater) Kind() Kind {
	return KindUpdate
}

// assignment 检查 op 是 field = value 形式，返回左边的字段
func assignment(d *DataSource, op *expr.Op) (*model.ModelField, bool) {
	if op == nil {
		d.failf("nil assignment")
		return nil, false
	}
	if op.Tag() != expr.OpEq {
		d.failf("assignment must be an eq expression, got %s", op.Tag())
		return nil, false
	}
	f, ok := op.Left().(*model.ModelField)
	if !ok || f == nil {
		d.failf("left side of assignment %s must be a field", op)
		return nil, false
	}
	return f, true
}

// Update 追加赋值，所有字段必须来自同一个模型
func (u *Updater) Update(assignments ...*expr.Op) *Updater {
	if len(assignments) == 0 && len(u.assignments) == 0 {
		u.src.failf("update needs at least one assignment")
	}
	for _, op := range assignments {
		f, ok := assignment(u.src, op)
		if !ok {
			continue
		}
		if u.model == "" {
			u.model = f.ModelName()
		} else if u.model != f.ModelName() {
			u.src.failf("update fields must come from one model, got %s and %s", u.model, f.ModelName())
			continue
		}
		u.assignments = append(u.assignments, op)
	}
	return u
}

func (u *Updater) Assignments() []*expr.Op {
	return append([]*expr.Op(nil), u.assignments...)
}

func (u *Updater) Filter(p *expr.Op) *Filter {
	return u.src.newFilter(p)
}

// Saver 向模型写入一条记录，可以指定写入后返回的字段
type Saver struct {
	state
	model     *model.Model
	values    []*expr.Op
	returning []*model.ModelField
}

func (s *Saver) Kind() Kind {
	return KindSave
}

func (s *Saver) Model() *model.Model {
	return s.model
}

func (s *Saver) owns(f *model.ModelField) bool {
	return s.model != nil && f.ModelName() == s.model.Name()
}

// Values 追加 field = value 形式的赋值
func (s *Saver) Values(assignments ...*expr.Op) *Saver {
	for _, op := range assignments {
		f, ok := assignment(s.src, op)
		if !ok {
			continue
		}
		if !s.owns(f) {
			s.src.failf("field %s does not belong to the saved model", f)
			continue
		}
		s.values = append(s.values, op)
	}
	return s
}

// ValuesFrom 每个参数按最后一级的键名写入同名列
func (s *Saver) ValuesFrom(args ...*expr.Arg) *Saver {
	if s.model == nil {
		return s
	}
	for _, a := range args {
		if a == nil {
			s.src.failf("nil argument")
			continue
		}
		f, err := s.model.Field(a.Key())
		if err != nil {
			s.src.failf("value from %s: %v", a, err)
			continue
		}
		s.values = append(s.values, f.Eq(a))
	}
	return s
}

// Result 写入后返回的字段
func (s *Saver) Result(fields ...*model.ModelField) *Saver {
	for _, f := range fields {
		if f == nil || !s.owns(f) {
			s.src.failf("result field must belong to the saved model")
			continue
		}
		s.returning = append(s.returning, f)
	}
	return s
}
