package compiler

import (
	"errors"
	"fmt"
)

var (
	ErrLexOverflow             = errors.New("numeric literal out of range")
	ErrUnrecognizedCharacter   = errors.New("unrecognized character")
	ErrUnexpectedTopLevelToken = errors.New("unexpected token at start of statement")
	ErrUnexpectedTokenInClause = errors.New("unexpected token in clause")
)

// ErrorKind is the category of an Error.
type ErrorKind int

const (
	LexOverflow ErrorKind = iota + 1
	LexUnrecognizedCharacter
	UnexpectedTopLevelToken
	UnexpectedTokenInClause
)

var kindSentinels = map[ErrorKind]error{
	LexOverflow:              ErrLexOverflow,
	LexUnrecognizedCharacter: ErrUnrecognizedCharacter,
	UnexpectedTopLevelToken:  ErrUnexpectedTopLevelToken,
	UnexpectedTokenInClause:  ErrUnexpectedTokenInClause,
}

// Error is a positioned lex or parse failure. It unwraps to one of the Err
// sentinels so callers can use errors.Is on the kind.
type Error struct {
	Kind ErrorKind
	// Offset is the byte offset in the input where the error was found.
	Offset int
	// TokenIndex is the index of the offending token. It is -1 for lex errors
	// since no token was produced.
	TokenIndex int
	// Clause names the part of the statement being parsed, for example
	// "projection". It is empty for lex errors and top level errors.
	Clause string
	// Expected describes what the grammar wanted. It is empty for lex errors.
	Expected string
	// Found is the offending text.
	Found string
}

const (
	lexErrFmt    = "%s %q at offset %d"
	parseErrFmt  = "%s: expected %s but got %s at offset %d"
	clauseErrFmt = "%s in %s: expected %s but got %s at offset %d"
)

func (e *Error) Error() string {
	sentinel := kindSentinels[e.Kind]
	switch e.Kind {
	case LexOverflow, LexUnrecognizedCharacter:
		return fmt.Sprintf(lexErrFmt, sentinel, e.Found, e.Offset)
	}
	if e.Clause != "" {
		return fmt.Sprintf(clauseErrFmt, sentinel, e.Clause, e.Expected, e.Found, e.Offset)
	}
	return fmt.Sprintf(parseErrFmt, sentinel, e.Expected, e.Found, e.Offset)
}

func (e *Error) Unwrap() error {
	return kindSentinels[e.Kind]
}

func newLexError(kind ErrorKind, offset int, found string) *Error {
	return &Error{
		Kind:       kind,
		Offset:     offset,
		TokenIndex: -1,
		Found:      found,
	}
}
