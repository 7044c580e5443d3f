package compiler

import "strings"

// TokenType classifies a token.
type TokenType int

const (
	// TkWord is an identifier or keyword. For example SELECT or foo.
	TkWord TokenType = iota + 1
	// TkNumber is an unsigned base 10 integer that fits in an int64.
	TkNumber
	TkLeftParen
	TkRightParen
	TkPlus
	TkMinus
	TkAsterisk
	TkSlash
	TkComma
	TkEq
	TkNotEq
	TkLt
	TkLtEq
	TkGt
	TkGtEq
	// TkWhitespace is one or more spaces, tabs, or newlines collapsed into a
	// single token.
	TkWhitespace
	// TkEOF (End of file) is the end of input.
	TkEOF
)

var tokenTypeNames = map[TokenType]string{
	TkWord:       "word",
	TkNumber:     "number",
	TkLeftParen:  "(",
	TkRightParen: ")",
	TkPlus:       "+",
	TkMinus:      "-",
	TkAsterisk:   "*",
	TkSlash:      "/",
	TkComma:      ",",
	TkEq:         "=",
	TkNotEq:      "<>",
	TkLt:         "<",
	TkLtEq:       "<=",
	TkGt:         ">",
	TkGtEq:       ">=",
	TkWhitespace: "whitespace",
	TkEOF:        "end of input",
}

func (t TokenType) String() string {
	if n, ok := tokenTypeNames[t]; ok {
		return n
	}
	return "unknown"
}

// Keyword is the classification carried by every word token. Words that are
// not keywords are NoKeyword.
type Keyword int

const (
	NoKeyword Keyword = iota
	KwSelect
	KwFrom
	KwWhere
	KwGroup
	KwOrder
	KwHaving
)

// keywords is the lookup table for words. GROUP and ORDER are reserved in the
// Keyword enumeration but are not matched until GROUP BY and ORDER BY are
// lexed as a pair.
var keywords = map[string]Keyword{
	"SELECT": KwSelect,
	"FROM":   KwFrom,
	"WHERE":  KwWhere,
	"HAVING": KwHaving,
}

var keywordNames = map[Keyword]string{
	NoKeyword: "",
	KwSelect:  "SELECT",
	KwFrom:    "FROM",
	KwWhere:   "WHERE",
	KwGroup:   "GROUP",
	KwOrder:   "ORDER",
	KwHaving:  "HAVING",
}

func (k Keyword) String() string {
	return keywordNames[k]
}

// lookupKeyword returns the keyword for w. The match is case insensitive.
func lookupKeyword(w string) Keyword {
	return keywords[strings.ToUpper(w)]
}

// Token is a classified piece of the input. Tokens are values and are never
// modified after the lexer produces them.
type Token struct {
	Type TokenType
	// Value is the canonical text of the token. Words are uppercased and
	// whitespace is always a single space.
	Value string
	// Keyword is only meaningful for TkWord.
	Keyword Keyword
	// Number is only meaningful for TkNumber.
	Number int64
	// Pos is the byte offset of the token in the input.
	Pos int
}

// IsKeyword reports whether t is a word classified as k.
func (t Token) IsKeyword(k Keyword) bool {
	return t.Type == TkWord && t.Keyword == k
}

// describe is how a token is named in error messages.
func (t Token) describe() string {
	switch t.Type {
	case TkWord, TkNumber:
		return t.Value
	case TkEOF:
		return "end of input"
	case TkWhitespace:
		return "whitespace"
	}
	return t.Value
}
