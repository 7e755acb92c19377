package datasource

import (
	"github.com/pkg/errors"
)

// Logic 管道节点与前一个节点结果的组合方式
type Logic int

const (
	LogicAnd Logic = iota + 1
	LogicOr
)

func (l Logic) String() string {
	switch l {
	case LogicAnd:
		return "and"
	case LogicOr:
		return "or"
	default:
		return "unknown"
	}
}

// Node 管道中的一步，包含一组互相独立的步骤
type Node struct {
	Steps    []Step
	Logic    Logic
	ResultAs string
}

// Pipe 按追加顺序执行的一系列节点
//
// 设置了 ResultAs 的节点，其结果以该名字提供给后续节点中的参数引用
type Pipe struct {
	nodes []*Node
}

func NewPipe(steps ...Step) *Pipe {
	return (&Pipe{}).Next(steps...)
}

func (p *Pipe) isStep() {}

// Next 追加一个节点，默认逻辑为 and
func (p *Pipe) Next(steps ...Step) *Pipe {
	p.nodes = append(p.nodes, &Node{Steps: append([]Step(nil), steps...), Logic: LogicAnd})
	return p
}

func (p *Pipe) last() *Node {
	if len(p.nodes) == 0 {
		p.Next()
	}
	return p.nodes[len(p.nodes)-1]
}

// Logic 设置最后一个节点的逻辑
func (p *Pipe) Logic(l Logic) *Pipe {
	p.last().Logic = l
	return p
}

// ResultAs 设置最后一个节点结果的名字
func (p *Pipe) ResultAs(name string) *Pipe {
	p.last().ResultAs = name
	return p
}

func (p *Pipe) Nodes() []Node {
	out := make([]Node, len(p.nodes))
	for i, n := range p.nodes {
		out[i] = Node{Steps: append([]Step(nil), n.Steps...), Logic: n.Logic, ResultAs: n.ResultAs}
	}
	return out
}

// Validate 检查节点非空、结果名不重复，并且每个步骤都能通过分析
func (p *Pipe) Validate() error {
	return p.validate(map[string]int{})
}

func (p *Pipe) validate(names map[string]int) error {
	if len(p.nodes) == 0 {
		return errors.Wrap(ErrInvalidDefinition, "pipe has no node")
	}
	for i, n := range p.nodes {
		if len(n.Steps) == 0 {
			return errors.Wrapf(ErrInvalidDefinition, "pipe node %d has no step", i)
		}
		if n.Logic != LogicAnd && n.Logic != LogicOr {
			return errors.Wrapf(ErrInvalidDefinition, "pipe node %d has unknown logic %d", i, n.Logic)
		}
		if n.ResultAs != "" {
			if j, ok := names[n.ResultAs]; ok {
				return errors.Wrapf(ErrInvalidDefinition, "pipe node %d reuses result name %q of node %d", i, n.ResultAs, j)
			}
			names[n.ResultAs] = i
		}
		for _, s := range n.Steps {
			if err := validateStep(s, names); err != nil {
				return errors.WithMessagef(err, "pipe node %d", i)
			}
		}
	}
	return nil
}

func validateStep(s Step, names map[string]int) error {
	switch v := s.(type) {
	case nil:
		return errors.Wrap(ErrInvalidDefinition, "nil step")
	case *Pipe:
		return v.validate(names)
	case *Loop:
		return v.Validate()
	case Operator:
		_, err := Analyse(v)
		return err
	default:
		return errors.Wrapf(ErrInvalidDefinition, "unknown step %T", s)
	}
}
