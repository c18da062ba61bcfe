// Package command parses one line template commands of the form
//
//	#name positional key=value ...
//
// Tokens are separated by whitespace, there is no quoting or escaping. A token
// with a single '=' is a keyword argument, any other token is positional.
// Every argument has to be consumed by the caller before Finalize, which
// catches misspelled options instead of silently ignoring them.
package command

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Marker starts every command.
const Marker = "#"

// ErrSyntax is matched by all errors produced by this package.
var ErrSyntax = errors.New("command syntax error")

// SyntaxError describes problem with particular command string.
type SyntaxError struct {
	Command string
	Msg     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("command '%s': %s", e.Command, e.Msg)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

var (
	commandLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Eq", Pattern: `=`},
		{Name: "Text", Pattern: `[^\s=]+`},
	})

	commandParser = participle.MustBuild[commandAST](
		participle.Lexer(commandLexer),
	)
)

type commandAST struct {
	Head *argAST   `parser:"@@"`
	Args []*argAST `parser:"( Whitespace @@ )*"`
}

// argAST is a single whitespace delimited token split around '='.
type argAST struct {
	Pos   lexer.Position
	Parts []string `parser:"@( Text | Eq )+"`
}

func (a *argAST) raw() string {
	return strings.Join(a.Parts, "")
}

func (a *argAST) assignments() int {
	n := 0
	for _, p := range a.Parts {
		if p == "=" {
			n++
		}
	}
	return n
}

// Command is a parsed command with argument access tracking. It is meant to
// be consumed once by a single caller and discarded.
type Command struct {
	text       string
	name       string
	positional []string
	keywords   map[string]string
	order      []string

	usedPositional map[int]struct{}
	usedKeywords   map[string]struct{}
}

// Parse parses command string.
func Parse(text string) (*Command, error) {
	ast, err := commandParser.ParseString("", strings.TrimSpace(text))
	if err != nil {
		return nil, &SyntaxError{Command: text, Msg: err.Error()}
	}

	head := ast.Head.raw()
	if !strings.HasPrefix(head, Marker) {
		return nil, &SyntaxError{Command: text, Msg: fmt.Sprintf("first element '%s' does not start with '%s'", head, Marker)}
	}

	cmd := &Command{
		text:           text,
		name:           strings.TrimPrefix(head, Marker),
		keywords:       make(map[string]string),
		usedPositional: make(map[int]struct{}),
		usedKeywords:   make(map[string]struct{}),
	}

	for _, arg := range ast.Args {
		raw := arg.raw()
		switch arg.assignments() {
		case 0:
			cmd.positional = append(cmd.positional, raw)
		case 1:
			key, value, _ := strings.Cut(raw, "=")
			if _, exists := cmd.keywords[key]; exists {
				return nil, &SyntaxError{Command: text, Msg: fmt.Sprintf("redefined keyword argument '%s' at column %d", key, arg.Pos.Column)}
			}
			cmd.keywords[key] = value
			cmd.order = append(cmd.order, key)
		default:
			return nil, &SyntaxError{Command: text, Msg: fmt.Sprintf("keyword argument '%s' at column %d must have exactly one '='", raw, arg.Pos.Column)}
		}
	}
	return cmd, nil
}

// Is reports whether text is a command with the given name. It does not
// validate the rest of the command.
func Is(text, name string) bool {
	fields := strings.Fields(text)
	return len(fields) > 0 && fields[0] == Marker+name
}

func (c *Command) String() string { return c.text }

func (c *Command) Name() string { return c.name }

func (c *Command) NumPositional() int { return len(c.positional) }

// KeywordKeys returns keyword argument names in order of appearance.
func (c *Command) KeywordKeys() []string {
	return slices.Clone(c.order)
}

// Positional returns required positional argument, desc names it in the
// error message.
func (c *Command) Positional(index int, desc string) (string, error) {
	if index < 0 || index >= len(c.positional) {
		return "", &SyntaxError{Command: c.text, Msg: fmt.Sprintf("missing argument %d (%s)", index, desc)}
	}
	c.usedPositional[index] = struct{}{}
	return c.positional[index], nil
}

// Keyword returns required keyword argument.
func (c *Command) Keyword(key, desc string) (string, error) {
	v, ok := c.keywords[key]
	if !ok {
		return "", &SyntaxError{Command: c.text, Msg: fmt.Sprintf("missing required keyword argument '%s' (%s)", key, desc)}
	}
	c.usedKeywords[key] = struct{}{}
	return v, nil
}

// KeywordDefault returns optional keyword argument or def when absent.
func (c *Command) KeywordDefault(key, desc, def string) string {
	v, ok := c.keywords[key]
	if !ok {
		return def
	}
	c.usedKeywords[key] = struct{}{}
	return v
}

// HasKeyword reports presence of keyword argument without consuming it.
func (c *Command) HasKeyword(key string) bool {
	_, ok := c.keywords[key]
	return ok
}

// Finalize fails if any argument has not been read.
func (c *Command) Finalize() error {
	var unusedPos []string
	for i := range c.positional {
		if _, ok := c.usedPositional[i]; !ok {
			unusedPos = append(unusedPos, strconv.Itoa(i))
		}
	}
	if len(unusedPos) > 0 {
		return &SyntaxError{Command: c.text, Msg: fmt.Sprintf("unused positional arguments [%s]", strings.Join(unusedPos, ", "))}
	}

	var unusedKw []string
	for _, k := range c.order {
		if _, ok := c.usedKeywords[k]; !ok {
			unusedKw = append(unusedKw, k)
		}
	}
	if len(unusedKw) > 0 {
		return &SyntaxError{Command: c.text, Msg: fmt.Sprintf("unused keyword arguments [%s]", strings.Join(unusedKw, ", "))}
	}
	return nil
}
