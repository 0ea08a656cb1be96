// Package command turns text lines into engine operations and renders their
// results the way the console prints them.
package command

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mattn/go-shellwords"

	"github.com/fulldump/inmemdb/engine"
	"github.com/fulldump/inmemdb/utils"
)

type Kind string

const (
	KindSet        Kind = "SET"
	KindGet        Kind = "GET"
	KindUnset      Kind = "UNSET"
	KindNumEqualTo Kind = "NUMEQUALTO"
	KindBegin      Kind = "BEGIN"
	KindRollback   Kind = "ROLLBACK"
	KindCommit     Kind = "COMMIT"
	KindEnd        Kind = "END"
)

const (
	OutputNull          = "NULL"
	OutputNoTransaction = "NO TRANSACTION"
	OutputNotFound      = "Command not found"
)

// arity is the number of arguments each command takes.
var arity = map[Kind]int{
	KindSet:        2,
	KindGet:        1,
	KindUnset:      1,
	KindNumEqualTo: 1,
	KindBegin:      0,
	KindRollback:   0,
	KindCommit:     0,
	KindEnd:        0,
}

var ErrUnknownCommand = errors.New("command not found")
var ErrEmptyLine = errors.New("empty line")

type ArityError struct {
	Kind Kind
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	switch e.Want {
	case 0:
		return fmt.Sprintf("%s takes no arguments", e.Kind)
	case 1:
		return fmt.Sprintf("%s takes 1 argument", e.Kind)
	}
	return fmt.Sprintf("%s takes %d arguments", e.Kind, e.Want)
}

// Command is a validated operation with its arguments.
type Command struct {
	Kind Kind
	Args []string
}

func Kinds() []string {
	return utils.GetKeys(arity)
}

func ParseKind(name string) (Kind, error) {
	kind := Kind(strings.ToUpper(name))
	if _, exists := arity[kind]; !exists {
		return "", fmt.Errorf("%w: '%s', available commands %v", ErrUnknownCommand, name, Kinds())
	}
	return kind, nil
}

// New validates the argument count for kind.
func New(kind Kind, args ...string) (*Command, error) {
	want, exists := arity[kind]
	if !exists {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownCommand, kind)
	}
	if len(args) != want {
		return nil, &ArityError{Kind: kind, Want: want, Got: len(args)}
	}
	return &Command{Kind: kind, Args: args}, nil
}

// Parse tokenizes a line. Quoted tokens may contain spaces.
func Parse(line string) (*Command, error) {

	words, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyLine
	}

	kind, err := ParseKind(words[0])
	if err != nil {
		return nil, err
	}

	return New(kind, words[1:]...)
}

func (c *Command) String() string {
	return strings.TrimSpace(string(c.Kind) + " " + strings.Join(c.Args, " "))
}

// Execute runs the command against e. Engine protocol errors come back as
// error values, output is the text a console prints (possibly empty).
func (c *Command) Execute(e *engine.Engine) (output string, err error) {

	switch c.Kind {
	case KindSet:
		return "", e.Set(c.Args[0], c.Args[1])
	case KindGet:
		value, found := e.Get(c.Args[0])
		if !found {
			return OutputNull, nil
		}
		return value, nil
	case KindUnset:
		return "", e.Unset(c.Args[0])
	case KindNumEqualTo:
		return strconv.Itoa(e.NumEqualTo(c.Args[0])), nil
	case KindBegin:
		e.Begin()
		return "", nil
	case KindRollback:
		return "", e.Rollback()
	case KindCommit:
		return "", e.Commit()
	case KindEnd:
		return "", nil
	}

	return "", fmt.Errorf("%w: '%s'", ErrUnknownCommand, c.Kind)
}

// Render converts an execution error into the text shown to a user.
func Render(output string, err error) string {

	if err == nil {
		return output
	}

	var arityErr *ArityError
	switch {
	case errors.Is(err, engine.ErrNoTransaction):
		return OutputNoTransaction
	case errors.Is(err, ErrUnknownCommand):
		return OutputNotFound
	case errors.As(err, &arityErr):
		return arityErr.Error()
	}

	return "ERROR: " + err.Error()
}

// Run parses and executes one line, returning the rendered output.
func Run(e *engine.Engine, line string) (output string, kind Kind) {

	c, err := Parse(line)
	if err == ErrEmptyLine {
		return "", ""
	}
	if err != nil {
		return Render("", err), ""
	}

	return Render(c.Execute(e)), c.Kind
}
