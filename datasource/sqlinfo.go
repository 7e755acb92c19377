package datasource

import (
	"github.com/pkg/errors"

	"github.com/hatlonely/typedef/expr"
	"github.com/hatlonely/typedef/log"
	"github.com/hatlonely/typedef/model"
)

// SubQuery 作为查询项的子查询
type SubQuery struct {
	Alias string
	Info  *SQLInfo
}

// SQLInfo 数据源的分析结果，外部生成器据此生成真正的查询
type SQLInfo struct {
	Select     []*model.ModelField
	SubQueries []*SubQuery
	Where      *expr.Op
	Join       []*expr.Op
	JoinMode   JoinMode
	Skip       any
	Take       any
	Single     bool
	Alias      string
	Updates    []*expr.Op
	Values     []*expr.Op
	Returning  []*model.ModelField
}

// Paging 返回 (skip, take)，未分页时为 (0, 0)
func (i *SQLInfo) Paging() (any, any) {
	return i.Skip, i.Take
}

func (i *SQLInfo) hasOutput() bool {
	return len(i.Select) > 0 || len(i.SubQueries) > 0 || len(i.Updates) > 0 || len(i.Values) > 0
}

// analysis 分析过程的中间状态
//
// 状态按注册的逆序分析：列表类的结果插到前面以保持声明顺序，单值的结果由最近的状态决定
type analysis struct {
	info       *SQLInfo
	whereSet   bool
	pagingSet  bool
	joinSet    bool
	aliasSet   bool
	subQueries map[*DataSource]bool
}

// SQLInfo 分析全部状态，不会修改数据源
func (d *DataSource) SQLInfo() (*SQLInfo, error) {
	return d.analyse(map[*DataSource]bool{})
}

func (d *DataSource) analyse(visiting map[*DataSource]bool) (*SQLInfo, error) {
	if d.err != nil {
		return nil, d.err
	}
	if len(d.ops) == 0 {
		return nil, errors.Wrap(ErrDataSourceEmpty, "can not analyse data source without operator")
	}
	if visiting[d] {
		return nil, errors.Wrap(ErrInvalidDefinition, "data source refers to itself as a sub query")
	}
	visiting[d] = true
	defer delete(visiting, d)

	a := &analysis{
		info:       &SQLInfo{Skip: 0, Take: 0},
		subQueries: visiting,
	}
	for i := len(d.ops) - 1; i >= 0; i-- {
		if err := d.ops[i].analyse(a); err != nil {
			return nil, err
		}
	}
	if a.info.Where == nil {
		a.info.Where = expr.Empty()
	}
	if !a.info.hasOutput() {
		return nil, errors.Wrap(ErrDataSourceInvalid, "can not configure the data source without select, update or values")
	}
	log.Default().Debug("data source analysed", "operators", len(d.ops), "select", len(a.info.Select), "join", len(a.info.Join))
	return a.info, nil
}

func (s *Select) analyse(a *analysis) error {
	var fields []*model.ModelField
	var subs []*SubQuery
	for _, item := range s.items {
		switch v := item.(type) {
		case *model.Model:
			fields = append(fields, v.ColumnFields()...)
		case *model.ModelField:
			fields = append(fields, v)
		case *Alias:
			info, err := v.src.analyse(a.subQueries)
			if err != nil {
				return errors.WithMessagef(err, "sub query %s", v.name)
			}
			subs = append(subs, &SubQuery{Alias: v.name, Info: info})
		}
	}
	a.info.Select = append(fields, a.info.Select...)
	a.info.SubQueries = append(subs, a.info.SubQueries...)
	return nil
}

func (f *Filter) analyse(a *analysis) error {
	if a.whereSet || f.ops == nil {
		return nil
	}
	a.info.Where = f.ops
	a.whereSet = true
	return nil
}

func (j *Join) analyse(a *analysis) error {
	ops := make([]*expr.Op, 0, len(j.conds))
	for _, c := range j.conds {
		ops = append(ops, c.Op())
	}
	a.info.Join = append(ops, a.info.Join...)
	if !a.joinSet {
		a.info.JoinMode = j.mode
		a.joinSet = true
	}
	return nil
}

func (p *Paging) analyse(a *analysis) error {
	if a.pagingSet {
		return nil
	}
	a.info.Skip, a.info.Take, a.info.Single = p.skip, p.take, p.single
	a.pagingSet = true
	return nil
}

func (al *Alias) analyse(a *analysis) error {
	if !a.aliasSet {
		a.info.Alias = al.name
		a.aliasSet = true
	}
	return nil
}

func (u *Updater) analyse(a *analysis) error {
	a.info.Updates = append(append([]*expr.Op(nil), u.assignments...), a.info.Updates...)
	return nil
}

func (s *Saver) analyse(a *analysis) error {
	a.info.Values = append(append([]*expr.Op(nil), s.values...), a.info.Values...)
	a.info.Returning = append(append([]*model.ModelField(nil), s.returning...), a.info.Returning...)
	return nil
}

// Describe 转为只含基础类型的结构，便于编码输出
func Describe(info *SQLInfo) map[string]any {
	if info == nil {
		return nil
	}
	out := map[string]any{
		"select":  fieldNames(info.Select),
		"where":   info.Where.String(),
		"join":    opStrings(info.Join),
		"skip":    describeCount(info.Skip),
		"take":    describeCount(info.Take),
		"single":  info.Single,
		"updates": opStrings(info.Updates),
		"values":  opStrings(info.Values),
	}
	if len(info.Join) > 0 {
		out["joinMode"] = info.JoinMode.String()
	}
	if info.Alias != "" {
		out["alias"] = info.Alias
	}
	if len(info.Returning) > 0 {
		out["returning"] = fieldNames(info.Returning)
	}
	if len(info.SubQueries) > 0 {
		subs := make([]any, 0, len(info.SubQueries))
		for _, s := range info.SubQueries {
			subs = append(subs, map[string]any{"alias": s.Alias, "info": Describe(s.Info)})
		}
		out["subQueries"] = subs
	}
	return out
}

func fieldNames(fields []*model.ModelField) []any {
	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.String())
	}
	return out
}

func opStrings(ops []*expr.Op) []any {
	out := make([]any, 0, len(ops))
	for _, op := range ops {
		out = append(out, op.String())
	}
	return out
}

func describeCount(n any) any {
	switch v := n.(type) {
	case int:
		return int64(v)
	case nil:
		return int64(0)
	default:
		return expr.Render(v)
	}
}
