package intcode

import (
	"errors"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Program is an Intcode program image: the initial memory contents.
type Program []int64

// programText is the comma-separated textual form of a program.
type programText struct {
	Words []string `parser:"( @Int ( \",\" @Int )* )?"`
}

var programLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Int", Pattern: `[-+]?[0-9]+`},
	{Name: "Punct", Pattern: `,`},
})

var programParser = participle.MustBuild[programText](
	participle.Lexer(programLexer),
	participle.Elide("Whitespace"),
)

// ParseProgram parses the comma-separated decimal form of a program.
func ParseProgram(text string) (prog Program, err error) {
	if len(strings.TrimSpace(text)) == 0 {
		prog = Program{}
		return
	}

	ast, err := programParser.ParseString("", text)
	if err != nil {
		err = errors.Join(ErrProgramSyntax, err)
		return
	}

	return ast.program()
}

// ReadProgram reads and parses a program from a stream.
func ReadProgram(input io.Reader) (prog Program, err error) {
	text, err := io.ReadAll(input)
	if err != nil {
		return
	}

	return ParseProgram(string(text))
}

func (pt *programText) program() (prog Program, err error) {
	prog = make(Program, 0, len(pt.Words))
	for _, word := range pt.Words {
		var value int64
		value, err = strconv.ParseInt(word, 10, 64)
		if err != nil {
			err = errors.Join(ErrProgramSyntax, ErrParseNumber(word))
			return
		}
		prog = append(prog, value)
	}

	return
}

// Clone returns an independent copy of the program.
func (prog Program) Clone() Program {
	return slices.Clone(prog)
}

// String returns the comma-separated form of the program.
func (prog Program) String() string {
	words := make([]string, len(prog))
	for n, value := range prog {
		words[n] = strconv.FormatInt(value, 10)
	}
	return strings.Join(words, ",")
}
