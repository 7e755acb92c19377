package field

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hatlonely/typedef/valid"
)

var defaultLayouts = map[Tag]string{
	TagTime:     "15:04:05",
	TagDate:     "2006-01-02",
	TagDateTime: time.RFC3339,
}

var timeColumnTypes = map[Tag]string{
	TagTime:     "TIME",
	TagDate:     "Date",
	TagDateTime: "DateTime",
}

// Time 时间类型，Time/Date/DateTime 三种标签共享实现
type Time struct {
	Base
	tag       Tag
	inFormat  string
	outFormat string
	location  *time.Location
}

func newTime(tag Tag, opts []Option) (*Time, error) {
	o := newOptions(opts)
	allowed := groupFormat | groupColumn
	if tag == TagDateTime {
		allowed |= groupTimezone
	}
	if err := o.check(tag.String(), allowed); err != nil {
		return nil, err
	}
	t := &Time{
		Base:      newBase(o, timeColumnTypes[tag]),
		tag:       tag,
		inFormat:  o.InFormat,
		outFormat: o.OutFormat,
		location:  time.UTC,
	}
	if o.Timezone != "" {
		loc, err := time.LoadLocation(o.Timezone)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidOption, "datetime: unknown timezone %q", o.Timezone)
		}
		t.location = loc
	}
	t.validator = o.Validator
	return t, nil
}

func NewTime(opts ...Option) (*Time, error) {
	return newTime(TagTime, opts)
}

func NewDate(opts ...Option) (*Time, error) {
	return newTime(TagDate, opts)
}

// NewDateTime 反序列化后的值统一转换到 Timezone，默认 UTC
func NewDateTime(opts ...Option) (*Time, error) {
	return newTime(TagDateTime, opts)
}

func (t *Time) Tag() Tag {
	return t.tag
}

func (t *Time) InFormat() string {
	if t.inFormat == "" {
		return defaultLayouts[t.tag]
	}
	return t.inFormat
}

func (t *Time) OutFormat() string {
	if t.outFormat == "" {
		return defaultLayouts[t.tag]
	}
	return t.outFormat
}

func (t *Time) Location() *time.Location {
	return t.location
}

func (t *Time) Valid(name string, v any) error {
	if done, err := t.validNull(name, v); done {
		return err
	}
	_, err := t.Deserialize(v)
	return err
}

func (t *Time) Serialize(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return x, nil
	case time.Time:
		return x.Format(t.OutFormat()), nil
	case *time.Time:
		if x == nil {
			return nil, nil
		}
		return x.Format(t.OutFormat()), nil
	default:
		return nil, valid.Invalid("a valid %s is required but got type: %T", t.tag, v)
	}
}

func (t *Time) Deserialize(v any) (any, error) {
	var tm time.Time
	switch x := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		tm = x
	case *time.Time:
		if x == nil {
			return nil, nil
		}
		tm = *x
	case string:
		var err error
		if t.tag == TagDateTime {
			tm, err = time.ParseInLocation(t.InFormat(), x, t.location)
		} else {
			tm, err = time.Parse(t.InFormat(), x)
		}
		if err != nil {
			return nil, valid.Convert("a valid %s is required but got %q", t.tag, x)
		}
	default:
		return nil, valid.Invalid("a valid %s is required but got type: %T", t.tag, v)
	}

	switch t.tag {
	case TagDate:
		h, m, s := tm.Clock()
		if h != 0 || m != 0 || s != 0 || tm.Nanosecond() != 0 {
			return nil, valid.Invalid("a valid date is required but got a datetime %s", tm.Format(time.RFC3339))
		}
		return tm, nil
	case TagDateTime:
		return tm.In(t.location), nil
	default:
		return tm, nil
	}
}

func (t *Time) Clone() Type {
	c := *t
	c.Base = t.Base.clone()
	return &c
}
