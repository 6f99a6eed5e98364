package genome

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// rankingExpr is the parsed form of a priority string such as
// "food > empty > opposite > same > poison".
type rankingExpr struct {
	Items []*rankingItem `@@ ( (">" | ",") @@ )*`
}

type rankingItem struct {
	Pos  lexer.Position
	Name string `@Ident`
}

var priorityLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "Ident", Pattern: `[a-zA-Z][a-zA-Z_-]*`},
	{Name: "Punct", Pattern: `[>,]`},
})

var priorityParser = participle.MustBuild[rankingExpr](
	participle.Lexer(priorityLexer),
	participle.Elide("Whitespace"),
)

// categoryAliases maps accepted spellings to categories.
var categoryAliases = map[string]Category{
	"empty":    CategoryEmpty,
	"food":     CategoryFood,
	"poison":   CategoryPoison,
	"same":     CategorySameGender,
	"rival":    CategorySameGender,
	"opposite": CategoryOppositeGender,
	"diff":     CategoryOppositeGender,
	"partner":  CategoryOppositeGender,
}

// ParsePriority parses a preference ranking, highest first, separated by
// '>' or ','. Names are case-insensitive; each category may appear once.
func ParsePriority(s string) ([]Category, error) {
	expr, err := priorityParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("parsing priority %q: %w", s, err)
	}

	order := make([]Category, 0, len(expr.Items))
	var seen [Size]bool
	for _, item := range expr.Items {
		c, ok := categoryAliases[strings.ToLower(item.Name)]
		if !ok {
			return nil, fmt.Errorf("%s: unknown category %q", item.Pos, item.Name)
		}
		if seen[c] {
			return nil, fmt.Errorf("%s: category %q listed twice", item.Pos, c)
		}
		seen[c] = true
		order = append(order, c)
	}
	return order, nil
}

// ParseGenome is ParsePriority followed by FromPriority.
func ParseGenome(s string) (Genome, error) {
	order, err := ParsePriority(s)
	if err != nil {
		return Genome{}, err
	}
	return FromPriority(order), nil
}
