package codec

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/hatlonely/typedef/datasource"
	"github.com/hatlonely/typedef/field"
	"github.com/hatlonely/typedef/model"
	"github.com/hatlonely/typedef/valid"
)

var formats = []string{"json", "msgpack", "bson", "protobuf"}

func TestNewSerializerWithOptions(t *testing.T) {
	Convey("测试 NewSerializerWithOptions", t, func() {
		s, err := NewSerializerWithOptions(nil)
		So(err, ShouldBeNil)
		So(s, ShouldHaveSameTypeAs, &JSONSerializer[map[string]any]{})

		s, err = NewSerializerWithOptions(&Options{Format: "protobuf"})
		So(err, ShouldBeNil)
		So(s, ShouldHaveSameTypeAs, &ProtobufSerializer{})

		_, err = NewSerializerWithOptions(&Options{Format: "xml"})
		So(err, ShouldNotBeNil)
	})
}

func TestNormalize(t *testing.T) {
	Convey("测试 Normalize", t, func() {
		ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		So(Normalize(map[string]any{
			"i":    int8(3),
			"u":    uint(4),
			"l":    []string{"a", "b"},
			"m":    map[string]int{"x": 1},
			"t":    ts,
			"b":    []byte("raw"),
			"nil":  nil,
			"bool": true,
		}), ShouldResemble, map[string]any{
			"i":    float64(3),
			"u":    float64(4),
			"l":    []any{"a", "b"},
			"m":    map[string]any{"x": float64(1)},
			"t":    "2024-01-02T03:04:05Z",
			"b":    "raw",
			"nil":  nil,
			"bool": true,
		})
	})
}

func TestEncodeError(t *testing.T) {
	Convey("测试校验失败的编码", t, func() {
		c := &valid.Collector{}
		c.Add("id", valid.Null("id", nil))
		c.AddIndex(2, valid.Convert("bad value"))
		err := c.Err()
		want := map[string]any{"errors": Normalize(valid.From(err).Out())}

		for _, format := range formats {
			Convey(format+" 编码后解码保持失败结构", func() {
				s, e := NewSerializerWithOptions(&Options{Format: format})
				So(e, ShouldBeNil)
				buf, e := EncodeError(s, err)
				So(e, ShouldBeNil)
				got, e := Decode(s, buf)
				So(e, ShouldBeNil)
				So(got, ShouldResemble, want)
			})
		}

		Convey("nil 错误", func() {
			s := NewJSONSerializer[map[string]any]()
			buf, e := EncodeError(s, nil)
			So(e, ShouldBeNil)
			So(string(buf), ShouldEqual, `{"errors":null}`)
		})
	})
}

func TestEncodeSQLInfo(t *testing.T) {
	Convey("测试查询描述的编码", t, func() {
		user := model.MustNew("user", []model.Def{
			{Name: "id", Type: field.Must(field.NewInteger(field.Column(field.PrimaryKey())))},
			{Name: "name", Type: field.Must(field.NewString(field.Column()))},
		})
		ds := datasource.New()
		ds.Select(user).Filter(user.F("id").Eq(1)).Skip(0).Take(10)
		info, err := ds.SQLInfo()
		So(err, ShouldBeNil)
		want := Normalize(datasource.Describe(info))

		for _, format := range formats {
			Convey(format, func() {
				s, e := NewSerializerWithOptions(&Options{Format: format})
				So(e, ShouldBeNil)
				buf, e := EncodeSQLInfo(s, info)
				So(e, ShouldBeNil)
				got, e := Decode(s, buf)
				So(e, ShouldBeNil)
				So(got, ShouldResemble, want)
				So(got["take"], ShouldEqual, float64(10))
			})
		}

		_, err = EncodeSQLInfo(NewJSONSerializer[map[string]any](), nil)
		So(err, ShouldNotBeNil)
	})
}
