package typescript

import (
	"fmt"
	"strings"

	"github.com/teranos/modelexport/typegen"
	"github.com/teranos/modelexport/typegen/util"
)

// DefaultInterfacePrefix marks projected structs as structural contracts
const DefaultInterfacePrefix = "I"

// Generator implements typegen.Generator for TypeScript
type Generator struct {
	prefix   string
	jsonTags bool
	header   bool
	comments bool
}

// Option configures a Generator
type Option func(*Generator)

// WithInterfacePrefix sets the prefix of interface identifiers
func WithInterfacePrefix(prefix string) Option {
	return func(g *Generator) { g.prefix = prefix }
}

// WithJSONTags names members after their json tag and skips json:"-"
func WithJSONTags(enabled bool) Option {
	return func(g *Generator) { g.jsonTags = enabled }
}

// WithHeader toggles the generated-file header
func WithHeader(enabled bool) Option {
	return func(g *Generator) { g.header = enabled }
}

// WithComments emits field comments as JSDoc blocks above members
func WithComments(enabled bool) Option {
	return func(g *Generator) { g.comments = enabled }
}

// NewGenerator creates a new TypeScript generator
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{prefix: DefaultInterfacePrefix, header: true}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Language returns "typescript"
func (g *Generator) Language() string {
	return "typescript"
}

// FileExtension returns "ts"
func (g *Generator) FileExtension() string {
	return "ts"
}

// Header returns the lint and generated-code notice lines
func (g *Generator) Header() []string {
	if !g.header {
		return nil
	}
	return []string{
		"/* eslint-disable */",
		"// Code generated by modelexport from Go source. DO NOT EDIT.",
	}
}

// Identifier returns the TypeScript name of rt. Interfaces carry the
// prefix; enums and aliases keep the Go name.
func (g *Generator) Identifier(rt *typegen.ResolvedType) string {
	if rt.Kind == typegen.KindInterface {
		return g.prefix + rt.Name
	}
	return rt.Name
}

// Project renders one resolved type (implements typegen.Generator)
func (g *Generator) Project(rt *typegen.ResolvedType, index *typegen.Resolved) typegen.ProjectedDeclaration {
	var text string
	switch rt.Kind {
	case typegen.KindEnum:
		text = g.generateEnum(rt)
	case typegen.KindInterface:
		text = g.generateInterface(rt, index)
	default:
		text = g.generateAlias(rt, index)
	}
	return typegen.ProjectedDeclaration{
		Identifier: g.Identifier(rt),
		Text:       text,
		Source:     rt,
	}
}

// generateEnum emits every member with its explicit value
func (g *Generator) generateEnum(rt *typegen.ResolvedType) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("export enum %s {\n", g.Identifier(rt)))
	for _, m := range rt.EnumMembers {
		sb.WriteString(fmt.Sprintf("  %s = %s,\n", m.Name, m.Value))
	}
	sb.WriteString("}")
	return sb.String()
}

// generateInterface emits one line per member in resolver order
func (g *Generator) generateInterface(rt *typegen.ResolvedType, index *typegen.Resolved) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("export interface %s {\n", g.Identifier(rt)))
	for _, m := range rt.Members {
		name, typ, skip := g.member(m.Name, m.Type, m.Tag, index)
		if skip {
			continue
		}
		if g.comments && m.Doc != "" {
			sb.WriteString(fmt.Sprintf("  /** %s */\n", util.SanitizeDocComment(m.Doc)))
		}
		sb.WriteString(fmt.Sprintf("  %s: %s;\n", name, typ))
	}
	sb.WriteString("}")
	return sb.String()
}

func (g *Generator) generateAlias(rt *typegen.ResolvedType, index *typegen.Resolved) string {
	target := unknownType
	if rt.Underlying != nil {
		target = g.mapType(rt.Underlying, index)
	}
	return fmt.Sprintf("export type %s = %s;", g.Identifier(rt), target)
}
