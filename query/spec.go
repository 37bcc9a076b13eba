package query

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Scope names accepted in a Spec.
const (
	ScopeAnywhere = "anywhere"
	ScopeTopLevel = "top-level"
)

// Spec is the YAML form of a pattern. Exactly one of Query, Function,
// Variable, Class or Search must be set.
//
//	class: {name: Widget}
//	scope: top-level
//	contents:
//	  - query: "init:void()"
type Spec struct {
	Query    string        `yaml:"query,omitempty"`
	Function *FunctionSpec `yaml:"function,omitempty"`
	Variable *VariableSpec `yaml:"variable,omitempty"`
	Class    *ClassSpec    `yaml:"class,omitempty"`
	Search   *string       `yaml:"search,omitempty"`

	Qualifiers []string `yaml:"qualifiers,omitempty"`
	Scope      string   `yaml:"scope,omitempty"`
	Contents   []Spec   `yaml:"contents,omitempty"`
}

type FunctionSpec struct {
	Name       string      `yaml:"name,omitempty"`
	ReturnType string      `yaml:"return_type,omitempty"`
	Parameters []ParamSpec `yaml:"parameters,omitempty"`
}

type VariableSpec struct {
	Name string `yaml:"name,omitempty"`
	Type string `yaml:"type,omitempty"`
}

type ClassSpec struct {
	Name string `yaml:"name,omitempty"`
}

// ParamSpec is either a {name, type} mapping or the scalar "...".
type ParamSpec struct {
	Name     string `yaml:"name,omitempty"`
	Type     string `yaml:"type,omitempty"`
	Ellipsis bool   `yaml:"-"`
}

func (p *ParamSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Value != "..." {
			return fmt.Errorf("line %d: parameter must be a mapping or \"...\", got %q", node.Line, node.Value)
		}
		*p = ParamSpec{Ellipsis: true}
		return nil
	}
	type plain ParamSpec
	var v plain
	if err := node.Decode(&v); err != nil {
		return err
	}
	*p = ParamSpec(v)
	return nil
}

func (p ParamSpec) MarshalYAML() (any, error) {
	if p.Ellipsis {
		return "...", nil
	}
	type plain ParamSpec
	return plain(p), nil
}

// ParseSpec decodes a single YAML spec.
func ParseSpec(data []byte) (*Spec, error) {
	var s Spec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode spec: %w", err)
	}
	return &s, nil
}

// Compile builds the pattern described by s.
func (s *Spec) Compile() (Pattern, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	contents := make([]Pattern, 0, len(s.Contents))
	for i := range s.Contents {
		c, err := s.Contents[i].Compile()
		if err != nil {
			return nil, fmt.Errorf("contents[%d]: %w", i, err)
		}
		contents = append(contents, c)
	}

	if s.Query != "" {
		p, err := Compile(s.Query)
		if err != nil {
			return nil, err
		}
		b := p.base()
		if s.Scope == ScopeTopLevel {
			if b.qualifiers.Len() > 0 {
				return nil, errors.New("top-level scope cannot be combined with qualifiers")
			}
			b.qualifiers = TopLevel()
		}
		b.contents = contents
		return p, nil
	}

	scope, err := s.scope()
	if err != nil {
		return nil, err
	}
	opts := []Option{WithQualifiers(scope), WithContents(contents...)}

	var p Pattern
	switch {
	case s.Function != nil:
		params := make([]Param, 0, len(s.Function.Parameters))
		for i, ps := range s.Function.Parameters {
			if ps.Ellipsis {
				params = append(params, Ellipsis{})
				continue
			}
			v, err := NewVariable(ps.Name, ps.Type)
			if err != nil {
				return nil, fmt.Errorf("parameters[%d]: %w", i, err)
			}
			params = append(params, v)
		}
		p, err = NewFunction(s.Function.Name, s.Function.ReturnType, params, opts...)
	case s.Variable != nil:
		p, err = NewVariable(s.Variable.Name, s.Variable.Type, opts...)
	case s.Class != nil:
		p, err = NewClass(s.Class.Name, opts...)
	default:
		p, err = NewSearch(*s.Search, opts...)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Spec) validate() error {
	set := 0
	if s.Query != "" {
		set++
	}
	for _, ok := range []bool{s.Function != nil, s.Variable != nil, s.Class != nil, s.Search != nil} {
		if ok {
			set++
		}
	}
	switch {
	case set == 0:
		return errors.New("spec must set one of query, function, variable, class or search")
	case set > 1:
		return errors.New("spec must set only one of query, function, variable, class or search")
	case s.Query != "" && len(s.Qualifiers) > 0:
		return errors.New("qualifiers of a text query must be written inline")
	case s.Scope != "" && s.Scope != ScopeAnywhere && s.Scope != ScopeTopLevel:
		return fmt.Errorf("unknown scope %q", s.Scope)
	case s.Scope == ScopeTopLevel && len(s.Qualifiers) > 0:
		return errors.New("top-level scope cannot be combined with qualifiers")
	}
	return nil
}

func (s *Spec) scope() (Qualifiers, error) {
	if s.Scope == ScopeTopLevel {
		return TopLevel(), nil
	}
	chain := make([]*Regex, 0, len(s.Qualifiers))
	for i, q := range s.Qualifiers {
		r, err := CompileRegex(q)
		if err != nil {
			return Qualifiers{}, fmt.Errorf("qualifiers[%d]: %w", i, err)
		}
		chain = append(chain, r)
	}
	return Chain(chain...), nil
}
