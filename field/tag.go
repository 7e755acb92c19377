package field

// Tag 字段类型标签，封闭枚举，分派只依赖它而不依赖字符串比较
type Tag int

const (
	TagVoid Tag = iota
	TagBool
	TagInteger
	TagFloat
	TagDouble
	TagString
	TagTime
	TagDate
	TagDateTime
	TagList
	TagDict
	TagEnum
)

var tagNames = [...]string{
	TagVoid:     "void",
	TagBool:     "bool",
	TagInteger:  "integer",
	TagFloat:    "float",
	TagDouble:   "double",
	TagString:   "string",
	TagTime:     "time",
	TagDate:     "date",
	TagDateTime: "datetime",
	TagList:     "list",
	TagDict:     "dict",
	TagEnum:     "enum",
}

func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return "unknown"
	}
	return tagNames[t]
}

// ParseTag 按名称查找标签
func ParseTag(name string) (Tag, bool) {
	for i, n := range tagNames {
		if n == name {
			return Tag(i), true
		}
	}
	return TagVoid, false
}

// IsBase 标量类型
func (t Tag) IsBase() bool {
	switch t {
	case TagBool, TagInteger, TagFloat, TagDouble, TagString, TagTime, TagDate, TagDateTime:
		return true
	default:
		return false
	}
}

func (t Tag) IsNumeric() bool {
	return t == TagInteger || t == TagFloat || t == TagDouble
}

func (t Tag) IsComposite() bool {
	return t == TagList || t == TagDict || t == TagEnum
}

// ArgSource 参数来源
type ArgSource string

const (
	SourceUnknown ArgSource = "UNKNOWN"
	SourceHeader  ArgSource = "HEADER"
	SourceBody    ArgSource = "BODY"
	SourceParams  ArgSource = "PARAMS"
	SourcePath    ArgSource = "PATH"
	SourceRPC     ArgSource = "RPC"
)
