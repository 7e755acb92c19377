package expr

// OpTag 表达式节点的类型
type OpTag string

const (
	OpEq    OpTag = "eq"
	OpNe    OpTag = "ne"
	OpLt    OpTag = "l"
	OpLe    OpTag = "le"
	OpGt    OpTag = "g"
	OpGe    OpTag = "ge"
	OpIn    OpTag = "in"
	OpNotIn OpTag = "ni"
	OpLike  OpTag = "like"
	OpAnd   OpTag = "and"
	OpOr    OpTag = "or"
)

var symbols = map[OpTag]string{
	OpEq:    "=",
	OpNe:    "!=",
	OpLt:    "<",
	OpLe:    "<=",
	OpGt:    ">",
	OpGe:    ">=",
	OpIn:    "IN",
	OpNotIn: "NOT IN",
	OpLike:  "LIKE",
	OpAnd:   "AND",
	OpOr:    "OR",
}

func (t OpTag) IsLogical() bool {
	return t == OpAnd || t == OpOr
}

// IsOperator 比较类节点，包含 in/ni/like
func (t OpTag) IsOperator() bool {
	switch t {
	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe, OpIn, OpNotIn, OpLike:
		return true
	default:
		return false
	}
}

func (t OpTag) Valid() bool {
	_, ok := symbols[t]
	return ok
}

func (t OpTag) Symbol() string {
	return symbols[t]
}
