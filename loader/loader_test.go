package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/hatlonely/typedef/field"
	"github.com/hatlonely/typedef/model"
)

var yamlDoc = `
models:
  - name: user
    description: 用户
    storage: mysql
    fields:
      - name: id
        type: integer
        minimum: 1
        column: {primaryKey: true}
      - name: name
        type: string
        maxLength: 8
        default: guest
        column: {length: 32}
      - name: gender
        type: enum
        optional: true
        column: {nullable: true}
        items:
          - {name: male, type: integer, default: 1}
          - {name: female, type: integer, default: 2}
      - name: birthday
        type: date
        optional: true
        outFormat: "2006/01/02"
      - name: level
        type: integer
        choices: [1, 2, 3]
        default: 1
    indexes:
      - columns: [name, gender]
        kind: btree
  - name: group
    fields:
      - name: id
        type: integer
        column: {primaryKey: true}
      - name: members
        type: list
        model: user
        maxItems: 10
      - name: tags
        type: list
        optional: true
        elem: {type: string, maxLength: 4}
      - name: owner
        type: dict
        model: user
        optional: true
      - name: extra
        type: dict
        optional: true
        fields:
          - {name: note, type: text, optional: true}
`

var tomlDoc = `
[[models]]
name = "user"
description = "用户"
storage = "mysql"

  [[models.fields]]
  name = "id"
  type = "integer"
  minimum = 1.0
  column = { primaryKey = true }

  [[models.fields]]
  name = "name"
  type = "string"
  maxLength = 8
  default = "guest"
  column = { length = 32 }

  [[models.fields]]
  name = "gender"
  type = "enum"
  optional = true
  column = { nullable = true }
  items = [
    { name = "male", type = "integer", default = 1 },
    { name = "female", type = "integer", default = 2 },
  ]

  [[models.fields]]
  name = "birthday"
  type = "date"
  optional = true
  outFormat = "2006/01/02"

  [[models.fields]]
  name = "level"
  type = "integer"
  choices = [1, 2, 3]
  default = 1

  [[models.indexes]]
  columns = ["name", "gender"]
  kind = "btree"

[[models]]
name = "group"

  [[models.fields]]
  name = "id"
  type = "integer"
  column = { primaryKey = true }

  [[models.fields]]
  name = "members"
  type = "list"
  model = "user"
  maxItems = 10

  [[models.fields]]
  name = "tags"
  type = "list"
  optional = true
  elem = { type = "string", maxLength = 4 }

  [[models.fields]]
  name = "owner"
  type = "dict"
  model = "user"
  optional = true

  [[models.fields]]
  name = "extra"
  type = "dict"
  optional = true
  fields = [{ name = "note", type = "text", optional = true }]
`

var jsonDoc = `{
  "models": [
    {
      "name": "user",
      "description": "用户",
      "storage": "mysql",
      "fields": [
        {"name": "id", "type": "integer", "minimum": 1, "column": {"primaryKey": true}},
        {"name": "name", "type": "string", "maxLength": 8, "default": "guest", "column": {"length": 32}},
        {"name": "gender", "type": "enum", "optional": true, "column": {"nullable": true}, "items": [
          {"name": "male", "type": "integer", "default": 1},
          {"name": "female", "type": "integer", "default": 2}
        ]},
        {"name": "birthday", "type": "date", "optional": true, "outFormat": "2006/01/02"},
        {"name": "level", "type": "integer", "choices": [1, 2, 3], "default": 1}
      ],
      "indexes": [{"columns": ["name", "gender"], "kind": "btree"}]
    },
    {
      "name": "group",
      "fields": [
        {"name": "id", "type": "integer", "column": {"primaryKey": true}},
        {"name": "members", "type": "list", "model": "user", "maxItems": 10},
        {"name": "tags", "type": "list", "optional": true, "elem": {"type": "string", "maxLength": 4}},
        {"name": "owner", "type": "dict", "model": "user", "optional": true},
        {"name": "extra", "type": "dict", "optional": true, "fields": [{"name": "note", "type": "text", "optional": true}]}
      ]
    }
  ]
}`

func TestLoad(t *testing.T) {
	Convey("测试 Load", t, func() {
		docs := map[Format]string{
			FormatYAML: yamlDoc,
			FormatTOML: tomlDoc,
			FormatJSON: jsonDoc,
		}
		formats := []Format{FormatYAML, FormatTOML, FormatJSON}
		schemas := map[Format]*Schema{}
		for _, format := range formats {
			s, err := Load([]byte(docs[format]), format)
			So(err, ShouldBeNil)
			schemas[format] = s
		}

		for _, format := range formats {
			s := schemas[format]
			Convey(string(format)+" 构造的模型", func() {
				So(s.Names(), ShouldResemble, []string{"user", "group"})
				So(s.Models(), ShouldHaveLength, 2)

				user, ok := s.Model("user")
				So(ok, ShouldBeTrue)
				So(user.Description(), ShouldEqual, "用户")
				So(user.Storage(), ShouldEqual, model.StorageMySQL)
				So(user.Names(), ShouldResemble, []string{"id", "name", "gender", "birthday", "level"})
				So(user.Indexes(), ShouldHaveLength, 1)
				So(user.Indexes()[0].Name, ShouldEqual, "ind_name_gender")

				name, _ := user.Type("name")
				So(name.Meta().Default(), ShouldEqual, "guest")

				level, _ := user.Type("level")
				So(level.Meta().Default(), ShouldEqual, int64(1))
				So(level.Check(int64(2)), ShouldBeNil)
				So(level.Check(int64(4)), ShouldNotBeNil)

				gender, _ := user.Type("gender")
				enum, ok := gender.(*field.Enum)
				So(ok, ShouldBeTrue)
				So(enum.ItemNames(), ShouldResemble, []string{"male", "female"})
				v, _ := enum.ItemValue("female")
				So(v, ShouldEqual, int64(2))

				cols := user.Columns()
				So(cols, ShouldHaveLength, 3)
				So(cols[0].PrimaryKey, ShouldBeTrue)
				So(*cols[1].Length, ShouldEqual, 32)
				So(cols[2].Nullable, ShouldBeTrue)

				group, ok := s.Model("group")
				So(ok, ShouldBeTrue)
				So(group.Storage(), ShouldEqual, model.StorageMySQL)
				members, _ := group.Type("members")
				elem := members.(*field.List).Elem().(*field.Dict)
				So(elem.Names(), ShouldResemble, user.Names())
				for _, e := range elem.Entries() {
					_, isColumn := e.Type.Meta().Column()
					So(isColumn, ShouldBeFalse)
				}

				payload := map[string]any{
					"id":      1,
					"members": []any{map[string]any{"id": 2, "name": "tom", "level": 3}},
					"tags":    []any{"a", "toolong"},
				}
				So(group.Valid(payload), ShouldBeNil)
				out, err := group.Deserialize(payload)
				So(err, ShouldBeNil)
				So(group.Check(out), ShouldNotBeNil)
			})
		}

		Convey("三种格式等价", func() {
			y, to, j := schemas[FormatYAML], schemas[FormatTOML], schemas[FormatJSON]
			for _, name := range []string{"user", "group"} {
				my, _ := y.Model(name)
				mt, _ := to.Model(name)
				mj, _ := j.Model(name)
				So(mt.Names(), ShouldResemble, my.Names())
				So(mj.Names(), ShouldResemble, my.Names())
				So(mt.Columns(), ShouldResemble, my.Columns())
				So(mj.Columns(), ShouldResemble, my.Columns())
				So(mt.Indexes(), ShouldResemble, my.Indexes())
				So(mj.Indexes(), ShouldResemble, my.Indexes())
			}
		})
	})
}

func TestLoadError(t *testing.T) {
	Convey("测试非法文档", t, func() {
		Convey("未知类型", func() {
			_, err := Load([]byte(`{"models": [{"name": "a", "fields": [{"name": "x", "type": "uuid"}]}]}`), FormatJSON)
			So(errors.Is(err, ErrUnknownType), ShouldBeTrue)
		})

		Convey("未知格式", func() {
			_, err := Load([]byte(`models: []`), Format("xml"))
			So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
			_, err = FormatOf("schema.ini")
			So(errors.Is(err, ErrUnknownFormat), ShouldBeTrue)
		})

		Convey("引用后面声明的模型", func() {
			_, err := Load([]byte(`
models:
  - name: a
    fields:
      - {name: bs, type: list, model: b}
  - name: b
    fields:
      - {name: id, type: integer}
`), FormatYAML)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "not defined before use")
		})

		Convey("文档校验失败", func() {
			_, err := Load([]byte(`{"models": [{"name": "a", "storage": "oracle", "fields": [{"name": "x", "type": "integer"}]}]}`), FormatJSON)
			So(err, ShouldNotBeNil)
			_, err = Load([]byte(`{"models": []}`), FormatJSON)
			So(err, ShouldNotBeNil)
			_, err = Load([]byte(``), FormatYAML)
			So(err, ShouldNotBeNil)
		})

		Convey("未知字段", func() {
			_, err := Load([]byte(`
models:
  - name: a
    fields:
      - {name: x, type: integer, minimun: 1}
`), FormatYAML)
			So(err, ShouldNotBeNil)
			_, err = Load([]byte(`
[[models]]
name = "a"
  [[models.fields]]
  name = "x"
  type = "integer"
  minimun = 1
`), FormatTOML)
			So(err, ShouldNotBeNil)
		})

		Convey("字段配置与类型不匹配", func() {
			_, err := Load([]byte(`{"models": [{"name": "a", "fields": [{"name": "x", "type": "bool", "maxLength": 3}]}]}`), FormatJSON)
			So(errors.Is(err, field.ErrInvalidOption), ShouldBeTrue)
			_, err = Load([]byte(`{"models": [{"name": "a", "fields": [{"name": "x", "type": "integer", "default": "abc"}]}]}`), FormatJSON)
			So(errors.Is(err, field.ErrInvalidOption), ShouldBeTrue)
		})

		Convey("重复的模型", func() {
			_, err := Load([]byte(`
models:
  - {name: a, fields: [{name: x, type: integer}]}
  - {name: a, fields: [{name: y, type: integer}]}
`), FormatYAML)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestRegister(t *testing.T) {
	Convey("测试 Register", t, func() {
		So(Types(), ShouldContain, "datetime")
		So(Register("integer", scalar(field.NewInteger)), ShouldNotBeNil)
		So(Register(" ", scalar(field.NewInteger)), ShouldNotBeNil)
		So(Register("loader_test_nil", nil), ShouldNotBeNil)
		So(func() { MustRegister("INTEGER", scalar(field.NewInteger)) }, ShouldPanic)

		So(Register("loader_test_email", func(_ *Builder, _ *FieldSpec, opts []field.Option) (field.Type, error) {
			return field.NewString(append([]field.Option{field.MinLength(3)}, opts...)...)
		}), ShouldBeNil)
		s, err := Load([]byte(`{"models": [{"name": "a", "fields": [{"name": "mail", "type": "Loader_Test_Email"}]}]}`), FormatJSON)
		So(err, ShouldBeNil)
		a, _ := s.Model("a")
		mail, _ := a.Type("mail")
		So(mail.Tag(), ShouldEqual, field.TagString)
		So(mail.Check("ab"), ShouldNotBeNil)
		So(mail.Check("abc"), ShouldBeNil)
	})
}

func TestLoadFile(t *testing.T) {
	Convey("测试 LoadFile", t, func() {
		dir := t.TempDir()
		for _, name := range []string{"schema.yml", "schema.toml", "schema.json"} {
			doc := map[string]string{"schema.yml": yamlDoc, "schema.toml": tomlDoc, "schema.json": jsonDoc}[name]
			path := filepath.Join(dir, name)
			So(os.WriteFile(path, []byte(doc), 0644), ShouldBeNil)
			s, err := LoadFile(path)
			So(err, ShouldBeNil)
			So(s.Names(), ShouldResemble, []string{"user", "group"})
		}

		_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
		So(err, ShouldNotBeNil)
	})
}
