package datasource

import (
	"github.com/pkg/errors"

	"github.com/hatlonely/typedef/expr"
	"github.com/hatlonely/typedef/model"
)

var (
	// ErrDataSourceEmpty 没有任何操作的数据源
	ErrDataSourceEmpty = errors.New("data source has no operator")
	// ErrDataSourceInvalid 分析完成但没有任何输出（select、update 或 values）
	ErrDataSourceInvalid = errors.New("data source has no select, update or values")
	// ErrInvalidDefinition 构建阶段的非法调用，例如负数分页、空别名
	ErrInvalidDefinition = errors.New("invalid data source definition")
)

// Kind 状态类型
type Kind string

const (
	KindSelect Kind = "select"
	KindFilter Kind = "filter"
	KindJoin   Kind = "join"
	KindPaging Kind = "paging"
	KindAlias  Kind = "alias"
	KindUpdate Kind = "update"
	KindSave   Kind = "save"
)

// Step Pipe 中可以出现的步骤：任意状态、*Loop 或 *Pipe
type Step interface {
	isStep()
}

// Operator 状态机中的一个状态，创建时注册到所属的 DataSource
type Operator interface {
	Step
	Kind() Kind
	Source() *DataSource
	analyse(a *analysis) error
}

// DataSource 数据操作定义的入口，按调用顺序记录所有状态
//
// DataSource 不是并发安全的，应在一个调用栈内构建完成后再交给外部读取
type DataSource struct {
	ops []Operator
	err error
}

func New() *DataSource {
	return &DataSource{}
}

func (d *DataSource) add(op Operator) {
	d.ops = append(d.ops, op)
}

// fail 只保留第一个构建错误
func (d *DataSource) fail(err error) {
	if d.err == nil && err != nil {
		d.err = err
	}
}

func (d *DataSource) failf(format string, args ...any) {
	d.fail(errors.Wrapf(ErrInvalidDefinition, format, args...))
}

// Err 构建过程中的第一个错误
func (d *DataSource) Err() error {
	return d.err
}

// Operators 按注册顺序返回所有状态
func (d *DataSource) Operators() []Operator {
	return append([]Operator(nil), d.ops...)
}

func (d *DataSource) Len() int {
	return len(d.ops)
}

func (d *DataSource) Select(items ...any) *Select {
	s := &Select{state: state{src: d}}
	d.add(s)
	return s.Select(items...)
}

func (d *DataSource) Filter(p *expr.Op) *Filter {
	return d.newFilter(p)
}

func (d *DataSource) Update(assignments ...*expr.Op) *Updater {
	u := &Updater{state: state{src: d}}
	d.add(u)
	return u.Update(assignments...)
}

// Save 向 m 写入数据
func (d *DataSource) Save(m *model.Model) *Saver {
	s := &Saver{state: state{src: d}, model: m}
	d.add(s)
	switch {
	case m == nil:
		d.failf("save needs a model")
	case len(m.Columns()) == 0:
		d.failf("model %s has no column, can not save to it", m.Name())
	}
	return s
}

func (d *DataSource) newFilter(p *expr.Op) *Filter {
	f := &Filter{state: state{src: d}, ops: p}
	d.add(f)
	return f
}

func (d *DataSource) newJoin() *Join {
	j := &Join{state: state{src: d}, mode: JoinLeft}
	d.add(j)
	return j
}

func (d *DataSource) newPaging() *Paging {
	p := &Paging{state: state{src: d}, skip: 0, take: 0}
	d.add(p)
	return p
}

func (d *DataSource) newAlias(name string) *Alias {
	a := &Alias{state: state{src: d}, name: name}
	d.add(a)
	if name == "" {
		d.failf("alias name is empty")
	}
	return a
}

// state 所有状态共有的部分
type state struct {
	src *DataSource
}

func (s *state) Source() *DataSource {
	return s.src
}

func (s *state) isStep() {}

// Analyse 分析任意状态所属的数据源
func Analyse(op Operator) (*SQLInfo, error) {
	if op == nil || op.Source() == nil {
		return nil, errors.WithStack(ErrDataSourceEmpty)
	}
	return op.Source().SQLInfo()
}
