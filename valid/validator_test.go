package valid

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func ptr[T any](v T) *T {
	return &v
}

func TestNewBound(t *testing.T) {
	Convey("测试 NewBound 组合校验器", t, func() {
		Convey("没有边界时不校验", func() {
			v, err := NewBound(nil, nil, true)
			So(err, ShouldBeNil)
			So(v, ShouldHaveSameTypeAs, Empty{})
			So(v.Valid(-1000), ShouldBeNil)
		})

		Convey("只有下界", func() {
			v, err := NewBound(ptr(10.0), nil, true)
			So(err, ShouldBeNil)
			So(v.Valid(10), ShouldBeNil)
			So(v.Valid(9), ShouldNotBeNil)
			So(v.GenInvalid(), ShouldEqual, int64(9))
		})

		Convey("只有上界", func() {
			v, err := NewBound(nil, ptr(10.5), false)
			So(err, ShouldBeNil)
			So(v.Valid(10.5), ShouldBeNil)
			So(v.Valid(11), ShouldNotBeNil)
			So(v.GenInvalid(), ShouldEqual, 11.5)
		})

		Convey("上下界", func() {
			v, err := NewBound(ptr(0.0), ptr(100.0), true)
			So(err, ShouldBeNil)
			So(v, ShouldHaveSameTypeAs, &Range{})
			So(v.Valid(0), ShouldBeNil)
			So(v.Valid(100), ShouldBeNil)
			So(v.Valid(101).Error(), ShouldEqual, "101 is out of range [0, 100]")
		})

		Convey("下界大于上界", func() {
			_, err := NewBound(ptr(10.0), ptr(1.0), true)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestGenInvalid(t *testing.T) {
	Convey("测试 GenInvalid 生成的值必然校验失败", t, func() {
		validators := []Validator{
			&Greater{N: 3},
			&Greater{N: 3, Inclusive: true, Integral: true},
			&Greater{N: 0, Inclusive: true, Integral: true},
			&Less{N: 3},
			&Less{N: 2.5, Inclusive: true},
			&Range{Min: 10, Max: 20, Integral: true},
			&Range{Min: -1.5, Max: 1.5},
			&Range{Min: 0, Max: 1e17, Integral: true},
			&Range{Min: 0, Max: 1e17},
			&Greater{N: -1e17, Inclusive: true, Integral: true},
			&Greater{N: -1e17, Inclusive: true},
			&Less{N: 1e17, Inclusive: true, Integral: true},
			&Less{N: 1e17, Inclusive: true},
			&Choice{N: 1, Data: []any{"a", "b"}},
			&Choice{N: 1, Data: []any{1, 2, 3}},
			&Choice{N: 1, Data: []any{true}},
			&Choice{N: 1, Data: []any{true, false}},
			&Choice{N: 2, Data: []any{"a", "b", "c"}},
			&Length{Min: ptr(3)},
			&Length{Max: ptr(5)},
		}
		for _, v := range validators {
			for i := 0; i < 3; i++ {
				So(v.Valid(v.GenInvalid()), ShouldNotBeNil)
			}
		}
	})
}

func TestGenInvalidLargeBound(t *testing.T) {
	Convey("测试超过 2^53 的边界", t, func() {
		Convey("整数边界取下一个可表示的整数", func() {
			r := &Range{Min: 0, Max: 1e17, Integral: true}
			v := r.GenInvalid()
			So(v, ShouldHaveSameTypeAs, int64(0))
			So(v.(int64), ShouldBeGreaterThan, int64(1e17))
			So(r.Valid(v), ShouldNotBeNil)

			g := &Greater{N: -1e17, Inclusive: true, Integral: true}
			So(g.GenInvalid().(int64), ShouldBeLessThan, int64(-1e17))
		})

		Convey("浮点边界取相邻浮点数", func() {
			r := &Range{Min: 0, Max: 1e17}
			So(r.GenInvalid(), ShouldEqual, 1e17+16)
			So(r.Valid(r.GenInvalid()), ShouldNotBeNil)
		})

		Convey("小边界保持加减一", func() {
			So((&Range{Min: 0, Max: 20, Integral: true}).GenInvalid(), ShouldEqual, int64(21))
			So((&Less{N: 2.5, Inclusive: true}).GenInvalid(), ShouldEqual, 3.5)
		})
	})
}

func TestChoice(t *testing.T) {
	Convey("测试 Choice 校验器", t, func() {
		Convey("单个值", func() {
			c, err := NewChoice(1, "red", "green")
			So(err, ShouldBeNil)
			So(c.Valid("red"), ShouldBeNil)
			So(c.Valid("blue"), ShouldNotBeNil)
		})

		Convey("数值跨类型比较", func() {
			c, err := NewChoice(1, 1, 2)
			So(err, ShouldBeNil)
			So(c.Valid(int64(2)), ShouldBeNil)
			So(c.Valid(2.0), ShouldBeNil)
			So(c.Valid("2"), ShouldNotBeNil)
		})

		Convey("多个值", func() {
			c, err := NewChoice(2, "a", "b", "c")
			So(err, ShouldBeNil)
			So(c.Valid([]any{"a", "c"}), ShouldBeNil)
			So(c.Valid([]string{"a", "a"}), ShouldNotBeNil)
			So(c.Valid([]any{"a"}), ShouldNotBeNil)
			So(c.Valid("a"), ShouldNotBeNil)
		})

		Convey("非法参数", func() {
			_, err := NewChoice(0, "a")
			So(err, ShouldNotBeNil)
			_, err = NewChoice(1)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLength(t *testing.T) {
	Convey("测试 Length 校验器", t, func() {
		l, err := NewLength(ptr(1), ptr(3))
		So(err, ShouldBeNil)
		So(l.Valid("ab"), ShouldBeNil)
		So(l.Valid("中文字"), ShouldBeNil)
		So(l.Valid(""), ShouldNotBeNil)
		So(l.Valid([]int{1, 2, 3, 4}), ShouldNotBeNil)
		So(l.Valid(12), ShouldNotBeNil)
		So(l.GenInvalid(), ShouldEqual, "")

		_, err = NewLength(nil, nil)
		So(err, ShouldNotBeNil)
		_, err = NewLength(ptr(-1), nil)
		So(err, ShouldNotBeNil)
		_, err = NewLength(ptr(5), ptr(2))
		So(err, ShouldNotBeNil)
	})
}
