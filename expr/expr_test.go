package expr

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

type testField struct {
	model, column, alias string
}

func (f testField) ModelName() string  { return f.model }
func (f testField) ColumnName() string { return f.column }
func (f testField) Alias() string      { return f.alias }

func TestOpTag(t *testing.T) {
	Convey("测试 OpTag 分类", t, func() {
		for _, tag := range []OpTag{OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpIn, OpNotIn, OpLike} {
			So(tag.IsOperator(), ShouldBeTrue)
			So(tag.IsLogical(), ShouldBeFalse)
		}
		So(OpAnd.IsLogical(), ShouldBeTrue)
		So(OpOr.IsOperator(), ShouldBeFalse)
		So(OpNotIn.Symbol(), ShouldEqual, "NOT IN")
		So(OpTag("xx").Valid(), ShouldBeFalse)
	})
}

func TestOp(t *testing.T) {
	id := testField{"user", "id", ""}
	name := testField{"user", "name", ""}

	Convey("测试 Op 构造", t, func() {
		p1, err := Compare(OpEq, id, 1)
		So(err, ShouldBeNil)
		p2, _ := Compare(OpLike, name, "%a%")
		p3, _ := Compare(OpIn, id, []int{1, 2})

		Convey("组合总是包一层新节点", func() {
			and := p1.And(p2)
			So(and.Tag(), ShouldEqual, OpAnd)
			So(and.Left(), ShouldEqual, p1)
			So(and.Right(), ShouldEqual, p2)
			So(p1.Tag(), ShouldEqual, OpEq)

			or := and.Or(p3)
			So(or.Left(), ShouldEqual, and)
			So(or.String(), ShouldEqual, "((user.id = 1) AND (user.name LIKE '%a%')) OR (user.id IN (1, 2))")
		})

		Convey("两边都是逻辑节点的比较被拒绝", func() {
			_, err := Compare(OpEq, p1.And(p2), p2.Or(p3))
			So(errors.Is(err, ErrInvalidExpr), ShouldBeTrue)

			_, err = Compare(OpEq, p1.And(p2), 1)
			So(err, ShouldBeNil)
		})

		Convey("标签与构造函数不匹配", func() {
			_, err := Compare(OpAnd, id, 1)
			So(err, ShouldNotBeNil)
			_, err = Logic(OpEq, p1, p2)
			So(err, ShouldNotBeNil)
			_, err = Logic(OpOr, p1, nil)
			So(err, ShouldNotBeNil)
			_, err = Compare(OpIn, id, 1)
			So(err, ShouldNotBeNil)
			_, err = Compare(OpIn, id, NewArg("ids"))
			So(err, ShouldBeNil)
		})

		Convey("Empty", func() {
			So(Empty().IsEmpty(), ShouldBeTrue)
			So(Empty().String(), ShouldEqual, "1 = 1")
			So(p1.IsEmpty(), ShouldBeFalse)
		})

		Convey("Walk 与 Fields", func() {
			tree := p1.And(p2).Or(p3)
			var tags []OpTag
			tree.Walk(func(o *Op) bool {
				tags = append(tags, o.Tag())
				return true
			})
			So(tags, ShouldResemble, []OpTag{OpOr, OpAnd, OpEq, OpLike, OpIn})
			So(tree.Fields(), ShouldResemble, []FieldRef{id, name, id})
		})
	})
}

func TestJoinCond(t *testing.T) {
	Convey("测试 JoinCond", t, func() {
		j, err := On(OpEq, testField{"user", "id", ""}, testField{"order", "user_id", ""})
		So(err, ShouldBeNil)
		So(j.String(), ShouldEqual, "user.id = order.user_id")
		So(j.Left().ColumnName(), ShouldEqual, "id")
		So(j.Right().ModelName(), ShouldEqual, "order")

		_, err = On(OpLike, testField{}, testField{})
		So(err, ShouldNotBeNil)
		_, err = On(OpEq, nil, testField{})
		So(err, ShouldNotBeNil)

		Convey("接口中的 nil 指针同样被拒绝", func() {
			var missing *testField
			_, err := On(OpEq, testField{"user", "id", ""}, missing)
			So(errors.Is(err, ErrInvalidExpr), ShouldBeTrue)
			_, err = On(OpEq, missing, testField{"user", "id", ""})
			So(errors.Is(err, ErrInvalidExpr), ShouldBeTrue)
		})
	})
}

func TestArg(t *testing.T) {
	Convey("测试 Arg", t, func() {
		a := NewArg("user").Attr("tags").Nth(1).Attr("name")
		So(a.String(), ShouldEqual, "args.user.tags[1].name")
		So(a.Path(), ShouldResemble, []string{"user", "tags", "name"})
		So(a.Root().Key(), ShouldEqual, "user")

		Convey("Nth 不修改原节点", func() {
			base := NewArg("ids")
			_ = base.Nth(3)
			_, ok := base.Index()
			So(ok, ShouldBeFalse)
		})

		Convey("ParseArg", func() {
			p, err := ParseArg("args.user.tags[1].name")
			So(err, ShouldBeNil)
			So(p.Expr(), ShouldEqual, a.Expr())

			p, err = ParseArg("list[0]")
			So(err, ShouldBeNil)
			n, ok := p.Index()
			So(ok, ShouldBeTrue)
			So(n, ShouldEqual, 0)

			for _, bad := range []string{"", "a..b", ".a", "a.", "[0]", "a[x]", "a[0][1]", "a[0", "a]", "a[0]..b", "a[0]b", "a[0]."} {
				_, err := ParseArg(bad)
				So(err, ShouldNotBeNil)
			}
		})

		Convey("Resolve", func() {
			type tag struct {
				Name string `json:"name"`
			}
			args := map[string]any{
				"user": map[string]any{
					"tags": []tag{{Name: "a"}, {Name: "b"}},
				},
			}
			v, ok := a.Resolve(args)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, "b")

			_, ok = NewArg("user").Attr("missing").Resolve(args)
			So(ok, ShouldBeFalse)
			_, ok = NewArg("user").Attr("tags").Nth(5).Resolve(args)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestFunc(t *testing.T) {
	Convey("测试 Func", t, func() {
		So(Now().String(), ShouldEqual, "now()")
		So(Count(testField{"user", "id", ""}).String(), ShouldEqual, "count(user.id)")
		So(Count(NewArg("x")).Args(), ShouldHaveLength, 1)
	})
}
