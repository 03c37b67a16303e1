package typegen

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visitSource(t *testing.T, wanted WantedSet, src string) Dependencies {
	t.Helper()
	unit := ParseUnit(token.NewFileSet(), "/mem/models.go", []byte(src))
	return Visit(wanted, unit)
}

func TestVisit_MemberShapes(t *testing.T) {
	tests := []struct {
		name   string
		fields string
		want   []string
	}{
		{"primitive", "A string", []string{"string"}},
		{"named", "A Address", []string{"Address"}},
		{"qualified", "A uuid.UUID", []string{"UUID"}},
		{"slice", "A []OrderLine", []string{"OrderLine"}},
		{"fixed array", "A [3]Point", []string{"Point"}},
		{"nested slice", "A [][]Cell", []string{"Cell"}},
		{"pointer", "A *Address", []string{"Address"}},
		{"slice of pointers", "A []*Address", []string{"Address"}},
		{"map", "A map[string]Tag", []string{"Tag", "string"}},
		{"generic one arg", "A List[Item]", []string{"Item"}},
		{"generic two args", "A Pair[Key, Value]", []string{"Key", "Value"}},
		{"generic of pointer", "A Box[*Thing]", []string{"Thing"}},
		{"generic of slice", "A Box[[]Thing]", []string{"Thing"}},
		{"qualified generic", "A sql.Null[int64]", []string{"int64"}},
		{"anonymous struct", "A struct{ B Inner; C []Leaf }", []string{"Inner", "Leaf"}},
		{"embedded", "Base", []string{"Base"}},
		{"embedded pointer", "*Base", []string{"Base"}},
		{"interface member", "A any", []string{"any"}},
		{"func member", "A func() error", []string{"func() error"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "package m\n\ntype Order struct {\n\t" + tt.fields + "\n}\n"
			deps := visitSource(t, NewWantedSet("Order"), src)

			assert.Equal(t, tt.want, names(deps.Required))
			assert.Equal(t, []TypeName{"Order"}, deps.Defines)
		})
	}
}

func TestVisit_NestedGenericsTerminate(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  []string
	}{
		{"doubly nested", "V List[List[int]]", []string{"int"}},
		{"triply nested", "V Outer[Middle[Inner[Leaf]]]", []string{"Leaf"}},
		{"nested in map", "V map[string]List[Pair[A, B]]", []string{"A", "B", "string"}},
		{"mixed arity", "V Pair[List[A], Map[B, List[C]]]", []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "package m\n\ntype W struct {\n\t" + tt.field + "\n}\n"
			deps := visitSource(t, NewWantedSet("W"), src)
			assert.Equal(t, tt.want, names(deps.Required))
		})
	}
}

func TestVisit_OnlyWantedTypes(t *testing.T) {
	src := `package m

type Order struct {
	Lines []OrderLine
}

type Unrelated struct {
	X Secret
}
`
	deps := visitSource(t, NewWantedSet("Order"), src)

	assert.Equal(t, []string{"OrderLine"}, names(deps.Required))
	assert.NotContains(t, names(deps.Required), "Secret")
}

func TestVisit_NoWantedTypes(t *testing.T) {
	deps := visitSource(t, NewWantedSet("Order"), "package m\n\ntype Other struct{ A B }\n")
	assert.True(t, deps.Empty())
}

func TestVisit_NonStructDeclarations(t *testing.T) {
	src := `package m

type OrderStatus int

const (
	Pending OrderStatus = iota
	Shipped
)

type Labels map[string]Label

type Empty struct{}
`
	deps := visitSource(t, NewWantedSet("OrderStatus", "Labels", "Empty"), src)

	assert.Equal(t, []TypeName{"OrderStatus", "Labels", "Empty"}, deps.Defines)
	assert.Equal(t, []string{"Label", "int", "string"}, names(deps.Required))
}

func TestVisit_TypeParamsAreNotRequired(t *testing.T) {
	src := `package m

type Page[T any] struct {
	Items []T
	Total int
}
`
	deps := visitSource(t, NewWantedSet("Page"), src)
	assert.Equal(t, []string{"int"}, names(deps.Required))
}

func TestVisit_NonGoContent(t *testing.T) {
	unit := ParseUnit(token.NewFileSet(), "/mem/README.md", []byte("# Order\n\ntype Order struct { X Y }\n"))
	require.NotNil(t, unit.File)
	assert.Error(t, unit.Err)

	deps := Visit(NewWantedSet("Order"), unit)
	assert.True(t, deps.Empty())
}

func TestVisit_DoesNotMutateWanted(t *testing.T) {
	wanted := NewWantedSet("Order")
	visitSource(t, wanted, "package m\n\ntype Order struct{ A Address }\n")

	assert.Equal(t, []string{"Order"}, wanted.Strings())
}

func TestVisit_NilUnit(t *testing.T) {
	assert.True(t, Visit(NewWantedSet("Order"), nil).Empty())
}

func TestWantedSet(t *testing.T) {
	ws := NewWantedSet("B", "A", "", "A")
	assert.Equal(t, []string{"A", "B"}, ws.Strings())

	assert.True(t, ws.Add("C"))
	assert.False(t, ws.Add("C"))

	added := ws.Merge(NewWantedSet("C", "D", "E"))
	assert.Equal(t, 2, added)
	assert.Equal(t, []TypeName{"A", "B", "C", "D", "E"}, ws.Sorted())
}
