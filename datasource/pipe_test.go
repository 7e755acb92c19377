package datasource

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/hatlonely/typedef/expr"
)

func userQuery() *Filter {
	return New().Select(user, info.F("age")).
		Join(info.F("uid").On(user.F("id"))).
		Filter(user.F("id").Eq(1))
}

func TestPipe(t *testing.T) {
	Convey("测试 Pipe", t, func() {
		op := userQuery()

		Convey("节点按追加顺序排列", func() {
			p := NewPipe(op).ResultAs("user").Next(op).Next(op, op).Logic(LogicOr)
			nodes := p.Nodes()
			So(nodes, ShouldHaveLength, 3)
			So(nodes[0].ResultAs, ShouldEqual, "user")
			So(nodes[0].Logic, ShouldEqual, LogicAnd)
			So(nodes[2].Steps, ShouldHaveLength, 2)
			So(nodes[2].Logic, ShouldEqual, LogicOr)
			So(p.Validate(), ShouldBeNil)
		})

		Convey("Nodes 返回副本", func() {
			p := NewPipe(op)
			nodes := p.Nodes()
			nodes[0].ResultAs = "x"
			So(p.Nodes()[0].ResultAs, ShouldEqual, "")
		})

		Convey("结果名不能重复", func() {
			p := NewPipe(op).ResultAs("a").Next(op).ResultAs("a")
			So(errors.Is(p.Validate(), ErrInvalidDefinition), ShouldBeTrue)
		})

		Convey("步骤必须能通过分析", func() {
			bad := New()
			bad.Filter(user.F("id").Eq(1))
			err := NewPipe(op).Next(bad.Operators()[0]).Validate()
			So(errors.Is(err, ErrDataSourceInvalid), ShouldBeTrue)

			So(NewPipe().Validate(), ShouldNotBeNil)
			So(NewPipe(op).Logic(Logic(9)).Validate(), ShouldNotBeNil)
			So(NewPipe(nil).Validate(), ShouldNotBeNil)
		})

		Convey("嵌套 Pipe 与 Loop", func() {
			inner := NewPipe(op).ResultAs("inner")
			loop := NewLoop([]int{1, 2}).Item("n").It(op)
			So(NewPipe(inner, loop).Validate(), ShouldBeNil)
			So(NewPipe(inner).Next(NewPipe(op).ResultAs("inner")).Validate(), ShouldNotBeNil)
		})
	})
}

func TestLoop(t *testing.T) {
	Convey("测试 Loop", t, func() {
		save := New().Save(user).ValuesFrom(expr.NewArg("id"))

		Convey("默认参数", func() {
			l := NewLoop([]int{1, 2, 3})
			So(l.Stride(), ShouldEqual, 1)
			So(l.Collected(), ShouldBeFalse)
			So(l.Validate(), ShouldNotBeNil)
			So(l.It(save).Validate(), ShouldBeNil)
		})

		Convey("字面量列表按步长展开", func() {
			l := NewLoop([]string{"a", "b", "c", "d", "e"}).Item("v").Index("i").Skip(2).It(save).Collect()
			its, err := l.Expand(nil)
			So(err, ShouldBeNil)
			So(its, ShouldHaveLength, 3)
			So(its[1].Index, ShouldEqual, 2)
			So(its[1].Item, ShouldEqual, "c")
			So(its[2].Args, ShouldResemble, map[string]any{"v": "e", "i": 4})
			So(l.Collected(), ShouldBeTrue)
		})

		Convey("参数引用在展开时求值", func() {
			l := NewLoop(expr.NewArg("body").Attr("ids")).Item("id").It(save)
			So(l.Validate(), ShouldBeNil)
			its, err := l.Expand(map[string]any{"body": map[string]any{"ids": []any{7, 8}}})
			So(err, ShouldBeNil)
			So(its, ShouldHaveLength, 2)
			So(its[0].Args, ShouldResemble, map[string]any{"id": 7})

			_, err = l.Expand(map[string]any{})
			So(err, ShouldNotBeNil)
			_, err = l.Expand(map[string]any{"body": map[string]any{"ids": 3}})
			So(err, ShouldNotBeNil)
		})

		Convey("非法的循环", func() {
			So(NewLoop([]int{1}).Skip(0).It(save).Validate(), ShouldNotBeNil)
			So(NewLoop(3).It(save).Validate(), ShouldNotBeNil)
			So(NewLoop([]int{1}).Item("x").Index("x").It(save).Validate(), ShouldNotBeNil)
			_, err := NewLoop([]int{1}).Skip(-1).Expand(nil)
			So(err, ShouldNotBeNil)
		})
	})
}
