package model

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/hatlonely/typedef/expr"
	"github.com/hatlonely/typedef/field"
)

func TestModelField(t *testing.T) {
	Convey("测试 ModelField", t, func() {
		m := newUser()

		Convey("取列字段", func() {
			id := m.F("id")
			So(id.ModelName(), ShouldEqual, "user")
			So(id.ColumnName(), ShouldEqual, "id")
			So(id.Column().PrimaryKey, ShouldBeTrue)
			So(id.Type().Tag(), ShouldEqual, field.TagInteger)
			So(id.Label(), ShouldEqual, "id")

			_, err := m.Field("token")
			So(err, ShouldNotBeNil)
			_, err = m.Field("missing")
			So(err, ShouldNotBeNil)
			So(func() { m.F("token") }, ShouldPanic)

			So(m.ColumnFields(), ShouldHaveLength, 3)
		})

		Convey("别名与聚合返回副本", func() {
			id := m.F("id")
			c := id.Count().As("c")
			So(c.String(), ShouldEqual, "count(user.id) AS c")
			So(c.Label(), ShouldEqual, "c")
			So(c.Mode(), ShouldEqual, ModeCount)
			So(id.String(), ShouldEqual, "user.id")
			So(id.Sum().String(), ShouldEqual, "sum(user.id)")

			So(id.Same(m.F("id")), ShouldBeTrue)
			So(id.Same(id.As("x")), ShouldBeFalse)
			So(id.As("x").Same(m.F("id").As("x")), ShouldBeTrue)
			So(id.Same(m.F("name")), ShouldBeFalse)
			So(id.Same(m.Rename("member").F("id")), ShouldBeFalse)
			So(id.Same(nil), ShouldBeFalse)
		})

		Convey("比较表达式", func() {
			So(m.F("id").Eq(1).String(), ShouldEqual, "user.id = 1")
			So(m.F("age").Ge(18).Tag(), ShouldEqual, expr.OpGe)
			So(m.F("name").Like("%a%").String(), ShouldEqual, "user.name LIKE '%a%'")
			So(m.F("id").In(1, 2).String(), ShouldEqual, "user.id IN (1, 2)")
			So(m.F("id").In([]int{1, 2}).String(), ShouldEqual, "user.id IN (1, 2)")
			So(m.F("id").NotIn(expr.NewArg("ids")).Right(), ShouldHaveSameTypeAs, &expr.Arg{})
			So(m.F("name").Set("tom").Tag(), ShouldEqual, expr.OpEq)
		})

		Convey("连接条件", func() {
			other := MustNew("order", []Def{
				{Name: "user_id", Type: field.Must(field.NewInteger(field.Column()))},
			})
			j := m.F("id").On(other.F("user_id"))
			So(j.String(), ShouldEqual, "user.id = order.user_id")
			So(j.Left().ModelName(), ShouldEqual, "user")
			So(j.Right().ModelName(), ShouldEqual, "order")

			So(func() { m.F("id").On(nil) }, ShouldPanic)
			var missing *ModelField
			So(func() { missing.On(other.F("user_id")) }, ShouldPanic)
		})
	})
}
