package field

// Void 空类型，用于没有返回值的接口
type Void struct {
	Base
}

func NewVoid(opts ...Option) (*Void, error) {
	o := newOptions(append([]Option{Optional()}, opts...))
	if err := o.check("void", 0); err != nil {
		return nil, err
	}
	return &Void{Base: newBase(o, "")}, nil
}

func (t *Void) Tag() Tag {
	return TagVoid
}

// Valid 默认可选，只有显式设为必填时才拒绝空值
func (t *Void) Valid(name string, v any) error {
	_, err := t.validNull(name, v)
	return err
}

func (t *Void) Serialize(v any) (any, error) {
	return "null", nil
}

func (t *Void) Deserialize(v any) (any, error) {
	return nil, nil
}

func (t *Void) Clone() Type {
	return &Void{Base: t.Base.clone()}
}
