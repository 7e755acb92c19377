package loader

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/hatlonely/typedef/field"
	"github.com/hatlonely/typedef/log"
	"github.com/hatlonely/typedef/model"
)

// ErrUnknownFormat 无法识别的文档格式
var ErrUnknownFormat = errors.New("unknown document format")

type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

var validate = validator.New()

// FormatOf 根据文件扩展名判断格式
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "file %s", path)
}

// Decode 解析并校验文档，不构造模型
func Decode(data []byte, format Format) (*Document, error) {
	doc := &Document{}
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "failed to decode YAML")
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), doc)
		if err != nil {
			return nil, errors.Wrap(err, "failed to decode TOML")
		}
		if keys := md.Undecoded(); len(keys) > 0 {
			return nil, errors.Errorf("failed to decode TOML: unknown keys %v", keys)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(doc); err != nil {
			return nil, errors.Wrap(err, "failed to decode JSON")
		}
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, errors.Wrap(err, "invalid document")
	}
	return doc, nil
}

// Load 解析文档并按声明顺序构造其中的模型
func Load(data []byte, format Format) (*Schema, error) {
	doc, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	s, err := Build(doc)
	if err != nil {
		return nil, err
	}
	log.Default().Info("schema loaded", "format", string(format), "models", s.Names())
	return s, nil
}

// LoadFile 读取文件，格式由扩展名决定
func LoadFile(path string) (*Schema, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	s, err := Load(data, format)
	if err != nil {
		return nil, errors.WithMessagef(err, "load %s", path)
	}
	return s, nil
}

// Schema 一个文档中定义的全部模型
type Schema struct {
	models []*model.Model
	byName map[string]*model.Model
}

// Models 按声明顺序返回
func (s *Schema) Models() []*model.Model {
	return append([]*model.Model(nil), s.models...)
}

func (s *Schema) Model(name string) (*model.Model, bool) {
	m, ok := s.byName[name]
	return m, ok
}

func (s *Schema) Names() []string {
	names := make([]string, 0, len(s.models))
	for _, m := range s.models {
		names = append(names, m.Name())
	}
	return names
}

// Builder 构造文档中的模型，记录已经构造好的模型供后面的 model 引用
type Builder struct {
	schema *Schema
}

// Build 按声明顺序构造模型，model 引用只能指向前面已声明的模型
func Build(doc *Document) (*Schema, error) {
	if doc == nil {
		return nil, errors.New("document is nil")
	}
	b := &Builder{schema: &Schema{byName: map[string]*model.Model{}}}
	for i, ms := range doc.Models {
		m, err := b.buildModel(ms)
		if err != nil {
			return nil, errors.WithMessagef(err, "models[%d]", i)
		}
		if _, ok := b.schema.byName[m.Name()]; ok {
			return nil, errors.Errorf("models[%d]: duplicate model %q", i, m.Name())
		}
		b.schema.models = append(b.schema.models, m)
		b.schema.byName[m.Name()] = m
	}
	return b.schema, nil
}

func (b *Builder) buildModel(ms *ModelSpec) (*model.Model, error) {
	defs := make([]model.Def, 0, len(ms.Fields))
	for i, fs := range ms.Fields {
		if fs.Name == "" {
			return nil, errors.Errorf("model %s: fields[%d] has no name", ms.Name, i)
		}
		t, err := b.Build(fs)
		if err != nil {
			return nil, errors.WithMessagef(err, "model %s: field %s", ms.Name, fs.Name)
		}
		defs = append(defs, model.Def{Name: fs.Name, Type: t})
	}

	var opts []model.Option
	if ms.Description != "" {
		opts = append(opts, model.WithDescription(ms.Description))
	}
	if ms.Storage != "" {
		opts = append(opts, model.WithStorage(model.Storage(ms.Storage)))
	}
	for _, is := range ms.Indexes {
		var iopts []model.IndexOption
		if is.Name != "" {
			iopts = append(iopts, model.WithIndexName(is.Name))
		}
		if is.Kind != "" {
			iopts = append(iopts, model.WithIndexKind(model.IndexKind(is.Kind)))
		}
		if is.Prefix != "" {
			iopts = append(iopts, model.WithIndexPrefix(is.Prefix))
		}
		opts = append(opts, model.WithIndexes(model.NewIndex(is.Columns, iopts...)))
	}
	return model.New(ms.Name, defs, opts...)
}

// Build 构造一个字段类型
//
// default 和 choices 先经过不带它们的字段类型解析，不同格式解码出的值因此得到相同的内部表示
func (b *Builder) Build(spec *FieldSpec) (field.Type, error) {
	if spec == nil {
		return nil, errors.New("field spec is nil")
	}
	ctor, err := lookup(spec.Type)
	if err != nil {
		return nil, err
	}
	opts := spec.options()
	t, err := ctor(b, spec, opts)
	if err != nil {
		return nil, err
	}
	if spec.Default == nil && len(spec.Choices) == 0 {
		return t, nil
	}

	if len(spec.Choices) > 0 {
		choices := make([]any, 0, len(spec.Choices))
		for _, c := range spec.Choices {
			v, err := t.Deserialize(c)
			if err != nil {
				return nil, errors.Wrapf(field.ErrInvalidOption, "%s: choice %v: %v", spec.Name, c, err)
			}
			choices = append(choices, v)
		}
		opts = append(opts, field.Choices(choices...))
	}
	if spec.Default != nil {
		v, err := t.Deserialize(spec.Default)
		if err != nil {
			return nil, errors.Wrapf(field.ErrInvalidOption, "%s: default %v: %v", spec.Name, spec.Default, err)
		}
		opts = append(opts, field.Default(v))
	}
	t, err = ctor(b, spec, opts)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Model 返回前面已经构造的模型
func (b *Builder) Model(name string) (*model.Model, bool) {
	return b.schema.Model(name)
}

// modelDict 把引用的模型转为不带列信息的 Dict
func (b *Builder) modelDict(name string, opts ...field.Option) (*field.Dict, error) {
	m, ok := b.Model(name)
	if !ok {
		return nil, errors.Errorf("model %q is not defined before use", name)
	}
	entries := m.Fields().Entries()
	for i := range entries {
		entries[i].Type = field.WithoutColumn(entries[i].Type)
	}
	return field.NewDict(entries, opts...)
}
