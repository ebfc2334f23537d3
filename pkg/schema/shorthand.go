package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var shorthandLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Tag", Pattern: `(?:not\s+empty|not\s+null|not\s+equal|less\s+than|greater\s+than|between|matches|equal|empty|null|true|false)\b`},
	{Name: "Pattern", Pattern: `/(?:\\.|[^/\\])+/`},
	{Name: "String", Pattern: `("(\\"|[^"])*")|('(\\'|[^'])*')`},
	{Name: "Number", Pattern: `[-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_$][\w$-]*`},
	{Name: "Punct", Pattern: `[\[\],.]`},
	{Name: "Whitespace", Pattern: `[ \r\n\t]+`},
})

var shorthandParser = participle.MustBuild[conditionAST](
	participle.Lexer(shorthandLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

type conditionAST struct {
	Field   []string    `parser:"@Ident ( '.' @Ident )*"`
	Tag     string      `parser:"@Tag"`
	Operand *operandAST `parser:"@@?"`
}

type operandAST struct {
	List   *listAST   `parser:"  @@"`
	Scalar *scalarAST `parser:"| @@"`
}

type listAST struct {
	Open  bool         `parser:"@'['"`
	Items []*scalarAST `parser:"( @@ ( ',' @@ )* )? ']'"`
}

type scalarAST struct {
	Pattern *string  `parser:"  @Pattern"`
	Number  *float64 `parser:"| @Number"`
	String  *string  `parser:"| @String"`
	Bool    *string  `parser:"| @( 'true' | 'false' )"`
	Null    bool     `parser:"| @'null'"`
	Ident   *string  `parser:"| @Ident"`
}

var tagSpaces = regexp.MustCompile(`\s+`)

// ParseCondition parses the shorthand condition form
//
//	<field> <tag> [operand]
//
// where operand is a number, a quoted string, true/false/null, a bare word,
// a /pattern/ or a bracketed list of those. The field may be a dotted path.
func ParseCondition(text string) (Condition, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Condition{}, fmt.Errorf("schema: empty condition")
	}

	ast, err := shorthandParser.ParseString("condition", trimmed)
	if err != nil {
		return Condition{}, fmt.Errorf("schema: parse condition %q: %w", text, err)
	}

	cond := Condition{
		Field: strings.Join(ast.Field, "."),
		When:  ConditionTag(tagSpaces.ReplaceAllString(ast.Tag, " ")),
	}
	if ast.Operand != nil {
		cond.Value = ast.Operand.value()
	}
	return cond, nil
}

// MustParseCondition is ParseCondition for literals known to be valid.
func MustParseCondition(text string) Condition {
	cond, err := ParseCondition(text)
	if err != nil {
		panic(err)
	}
	return cond
}

func (o *operandAST) value() any {
	if o.List != nil {
		items := make([]any, 0, len(o.List.Items))
		for _, item := range o.List.Items {
			items = append(items, item.value())
		}
		return items
	}
	if o.Scalar != nil {
		return o.Scalar.value()
	}
	return nil
}

func (s *scalarAST) value() any {
	switch {
	case s.Pattern != nil:
		raw := strings.TrimSuffix(strings.TrimPrefix(*s.Pattern, "/"), "/")
		return strings.ReplaceAll(raw, `\/`, "/")
	case s.Number != nil:
		return *s.Number
	case s.String != nil:
		return *s.String
	case s.Bool != nil:
		return *s.Bool == "true"
	case s.Null:
		return nil
	case s.Ident != nil:
		return *s.Ident
	default:
		return nil
	}
}
