package util

import (
	"go/ast"
	"strings"
)

// ExtractFieldComment returns the comment of a struct field as one line.
// A doc comment above the field wins over a line comment after it.
func ExtractFieldComment(field *ast.Field) string {
	if field == nil {
		return ""
	}
	if text := commentLine(field.Doc); text != "" {
		return text
	}
	return commentLine(field.Comment)
}

// commentLine joins the text of a comment group with single spaces,
// dropping the comment markers and any directives like //go:generate
func commentLine(group *ast.CommentGroup) string {
	if group == nil {
		return ""
	}
	return strings.Join(strings.Fields(group.Text()), " ")
}

// SanitizeDocComment makes text safe to embed in a /** */ block
func SanitizeDocComment(text string) string {
	return strings.ReplaceAll(text, "*/", "*\\/")
}
