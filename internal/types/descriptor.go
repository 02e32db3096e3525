package types

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Descriptor is a parsed type descriptor: a bare name, or a generic
// application like List[int] or Dict[str, int].
type Descriptor struct {
	Name string        `parser:"@Ident"`
	Args []*Descriptor `parser:"('[' @@ (',' @@)* ']')?"`
}

func (d *Descriptor) String() string {
	if len(d.Args) == 0 {
		return d.Name
	}
	args := make([]string, len(d.Args))
	for i, arg := range d.Args {
		args[i] = arg.String()
	}
	return d.Name + "[" + strings.Join(args, ", ") + "]"
}

var descriptorLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Punct", Pattern: `[\[\],]`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

var descriptorParser = participle.MustBuild[Descriptor](
	participle.Lexer(descriptorLexer),
	participle.Elide("Whitespace"),
)

// ParseDescriptor parses a type descriptor string.
func ParseDescriptor(descriptor string) (*Descriptor, error) {
	return descriptorParser.ParseString("", descriptor)
}

// Normalize canonicalizes a descriptor's spelling ("Dict[str,int]" →
// "Dict[str, int]"). Externally sourced hints arrive with inconsistent
// spacing; name/type comparisons downstream rely on one spelling. Strings
// that do not parse are returned unchanged rather than rejected.
func Normalize(descriptor string) string {
	parsed, err := ParseDescriptor(descriptor)
	if err != nil {
		return descriptor
	}
	return parsed.String()
}
