package field

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/hatlonely/typedef/valid"
)

func TestOptionsRejectedAtConstruction(t *testing.T) {
	Convey("测试不支持的配置在构造时被拒绝", t, func() {
		cases := []struct {
			name string
			fn   func() (Type, error)
		}{
			{"整数不支持长度", func() (Type, error) { return NewInteger(MinLength(1)) }},
			{"字符串不支持数值边界", func() (Type, error) { return NewString(Min(1)) }},
			{"字符串不支持时间格式", func() (Type, error) { return NewString(InFormat("2006")) }},
			{"日期不支持时区", func() (Type, error) { return NewDate(Timezone("UTC")) }},
			{"下界大于上界", func() (Type, error) { return NewInteger(Min(10), Max(1)) }},
			{"负的长度", func() (Type, error) { return NewString(MinLength(-1)) }},
			{"未知时区", func() (Type, error) { return NewDateTime(Timezone("Mars/Olympus")) }},
			{"边界与枚举值同时设置", func() (Type, error) { return NewInteger(Min(1), Choices(1, 2)) }},
			{"空的枚举值", func() (Type, error) { return NewString(Choices()) }},
			{"列表不支持列信息", func() (Type, error) { return NewList(Must(NewInteger()), Column()) }},
			{"非法来源", func() (Type, error) { return NewString(FromSource("COOKIE")) }},
		}
		for _, c := range cases {
			Convey(c.name, func() {
				_, err := c.fn()
				So(err, ShouldNotBeNil)
				So(errors.Is(err, ErrInvalidOption), ShouldBeTrue)
			})
		}
	})

	Convey("测试合法配置", t, func() {
		i, err := NewInteger(Description("age"), Min(0), Max(100), Default(18), FromSource(SourceBody))
		So(err, ShouldBeNil)
		So(i.Required(), ShouldBeTrue)
		So(i.Default(), ShouldEqual, 18)
		So(i.Description(), ShouldEqual, "age")
		So(i.Source(), ShouldEqual, SourceBody)
		So(i.Validator(), ShouldHaveSameTypeAs, &valid.Range{})

		s, err := NewString(Optional())
		So(err, ShouldBeNil)
		So(s.Required(), ShouldBeFalse)
	})

	Convey("测试 Must", t, func() {
		So(func() { Must(NewInteger(Min(2), Max(1))) }, ShouldPanic)
		So(func() { Must(NewInteger()) }, ShouldNotPanic)
	})
}

func TestTag(t *testing.T) {
	Convey("测试 Tag", t, func() {
		So(TagDateTime.String(), ShouldEqual, "datetime")
		So(Tag(99).String(), ShouldEqual, "unknown")
		So(TagInteger.IsNumeric(), ShouldBeTrue)
		So(TagString.IsNumeric(), ShouldBeFalse)
		So(TagList.IsComposite(), ShouldBeTrue)
		So(TagBool.IsBase(), ShouldBeTrue)
		So(TagEnum.IsBase(), ShouldBeFalse)

		tag, ok := ParseTag("double")
		So(ok, ShouldBeTrue)
		So(tag, ShouldEqual, TagDouble)
		_, ok = ParseTag("complex")
		So(ok, ShouldBeFalse)
	})
}

func TestColumn(t *testing.T) {
	Convey("测试列信息", t, func() {
		i := Must(NewBigInteger(Column(PrimaryKey(), Indexed())))
		col, ok := i.Column()
		So(ok, ShouldBeTrue)
		So(col.PrimaryKey, ShouldBeTrue)
		So(col.Index, ShouldBeTrue)
		So(col.Type, ShouldEqual, "BigInteger")

		Convey("显式存储类型优先", func() {
			s := Must(NewString(Column(StorageType("VARCHAR"), Length(32))))
			col, _ := s.Column()
			So(col.Type, ShouldEqual, "VARCHAR")
			So(*col.Length, ShouldEqual, 32)
		})

		Convey("读取返回副本", func() {
			col.Name = "changed"
			again, _ := i.Column()
			So(again.Name, ShouldEqual, "")
		})

		Convey("Update 只覆盖非零属性", func() {
			c := ColumnInfo{Type: "Integer", Unique: true}
			c.Update(ColumnInfo{Nullable: true, Foreign: "user.id"})
			So(c.Unique, ShouldBeTrue)
			So(c.Nullable, ShouldBeTrue)
			So(c.Foreign, ShouldEqual, "user.id")
			So(c.Type, ShouldEqual, "Integer")
		})

		Convey("WithoutColumn 和 WithColumn 不修改原类型", func() {
			stripped := WithoutColumn(i)
			So(stripped.Meta().IsColumn(), ShouldBeFalse)
			So(i.IsColumn(), ShouldBeTrue)

			added := WithColumn(Must(NewString()), Unique())
			col, ok := added.Meta().Column()
			So(ok, ShouldBeTrue)
			So(col.Unique, ShouldBeTrue)
		})
	})
}
