package typegen

// Generator projects resolved types into one target language.
// Each target (typescript, ...) implements this interface.
type Generator interface {
	// Language returns the target language name (e.g., "typescript")
	Language() string

	// FileExtension returns the output file extension without the dot
	FileExtension() string

	// Header returns the lines written before the first declaration.
	// An empty result writes no header.
	Header() []string

	// Project renders one resolved type. index holds every type resolved in
	// the same run, for naming references to them.
	Project(rt *ResolvedType, index *Resolved) ProjectedDeclaration
}

// ProjectedDeclaration is the target-language text of one resolved type
type ProjectedDeclaration struct {
	// Identifier is the declared name in the target language (e.g., "IOrder")
	Identifier string

	// Text is the full declaration block without a trailing newline
	Text string

	Source *ResolvedType
}
