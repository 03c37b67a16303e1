package typegen

import (
	"strings"
)

// Result is the outcome of one export run.
// This is language-agnostic - Content is whatever the Generator produced.
type Result struct {
	// RunID identifies the run in logs
	RunID string

	// FileName is the output base name with extension (e.g., "SharedModels.ts")
	FileName string

	// Declarations are the projected blocks in resolution order
	Declarations []ProjectedDeclaration

	// Content is the assembled file
	Content []byte

	// Wanted is the final wanted set, sorted
	Wanted []string

	// Retained lists the files the closure kept, in retention order
	Retained []string

	// Passes is the number of closure passes run
	Passes int
}

// Identifiers returns the declared names in output order
func (r *Result) Identifiers() []string {
	ids := make([]string, len(r.Declarations))
	for i, d := range r.Declarations {
		ids[i] = d.Identifier
	}
	return ids
}

// Assemble concatenates the header and declaration blocks, separated by
// blank lines, with a trailing newline. A run that resolved nothing yields
// only the header.
func Assemble(header []string, decls []ProjectedDeclaration) []byte {
	var sb strings.Builder

	for _, line := range header {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if len(header) > 0 && len(decls) > 0 {
		sb.WriteString("\n")
	}

	for i, d := range decls {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(d.Text)
	}
	if len(decls) > 0 {
		sb.WriteString("\n")
	}

	return []byte(sb.String())
}

// Project runs gen over every resolved type in order
func Project(gen Generator, resolved *Resolved) []ProjectedDeclaration {
	if resolved == nil {
		return nil
	}
	decls := make([]ProjectedDeclaration, 0, len(resolved.Types))
	for _, rt := range resolved.Types {
		decls = append(decls, gen.Project(rt, resolved))
	}
	return decls
}
