// lexer creates tokens from a sql string. The tokens are fed into the parser.
package compiler

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// scanner holds the cursor for a single pass over src. Each call to scan
// classifies the character at end and advances end past the token.
type scanner struct {
	src   string
	start int
	end   int
}

func (s *scanner) peek(pos int) (rune, int) {
	if len(s.src) <= pos {
		return 0, 0
	}
	return utf8.DecodeRuneInString(s.src[pos:])
}

// scanWhile advances the cursor while pred holds for the next character.
func (s *scanner) scanWhile(pred func(rune) bool) {
	for {
		r, w := s.peek(s.end)
		if w == 0 || !pred(r) {
			return
		}
		s.end += w
	}
}

func (s *scanner) scan() (Token, error) {
	s.start = s.end
	r, w := s.peek(s.start)
	switch {
	case w == 0:
		return Token{Type: TkEOF, Pos: s.start}, nil
	case isLetter(r):
		return s.scanWord(), nil
	case isDigit(r):
		return s.scanNumber()
	case isWhiteSpace(r):
		return s.scanWhiteSpace(), nil
	}
	if t, ok := s.scanPunctuation(r); ok {
		return t, nil
	}
	s.end += w
	return Token{}, newLexError(LexUnrecognizedCharacter, s.start, s.src[s.start:s.end])
}

func (s *scanner) scanWord() Token {
	s.scanWhile(isWordChar)
	value := strings.ToUpper(s.src[s.start:s.end])
	return Token{
		Type:    TkWord,
		Value:   value,
		Keyword: lookupKeyword(value),
		Pos:     s.start,
	}
}

func (s *scanner) scanNumber() (Token, error) {
	s.scanWhile(isDigit)
	text := s.src[s.start:s.end]
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, newLexError(LexOverflow, s.start, text)
	}
	return Token{Type: TkNumber, Value: text, Number: n, Pos: s.start}, nil
}

func (s *scanner) scanWhiteSpace() Token {
	s.scanWhile(isWhiteSpace)
	return Token{Type: TkWhitespace, Value: " ", Pos: s.start}
}

var singleCharTokens = map[rune]TokenType{
	'(': TkLeftParen,
	')': TkRightParen,
	'+': TkPlus,
	'-': TkMinus,
	'*': TkAsterisk,
	'/': TkSlash,
	',': TkComma,
	'=': TkEq,
}

func (s *scanner) scanPunctuation(r rune) (Token, bool) {
	tt, ok := singleCharTokens[r]
	if ok {
		s.end++
		return s.punctuation(tt), true
	}
	next, _ := s.peek(s.start + 1)
	switch {
	case r == '<' && next == '=':
		s.end += 2
		return s.punctuation(TkLtEq), true
	case r == '<' && next == '>':
		s.end += 2
		return s.punctuation(TkNotEq), true
	case r == '<':
		s.end++
		return s.punctuation(TkLt), true
	case r == '>' && next == '=':
		s.end += 2
		return s.punctuation(TkGtEq), true
	case r == '>':
		s.end++
		return s.punctuation(TkGt), true
	case r == '!' && next == '=':
		s.end += 2
		return s.punctuation(TkNotEq), true
	}
	return Token{}, false
}

func (s *scanner) punctuation(tt TokenType) Token {
	return Token{Type: tt, Value: s.src[s.start:s.end], Pos: s.start}
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r)
}

// isDigit only accepts ASCII digits since numbers are parsed in base 10.
func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isWordChar(r rune) bool {
	return isLetter(r) || isDigit(r) || r == '_'
}

func isWhiteSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Lexer turns a sql string into tokens. A Lexer may be reused for new input by
// calling Init. It must not be shared between concurrent parses.
type Lexer struct {
	src string
	// permissive drops unrecognized characters instead of failing. Each
	// dropped character is kept in diagnostics.
	permissive  bool
	diagnostics []error
}

func NewLexer(src string) *Lexer {
	l := &Lexer{}
	l.Init(src)
	return l
}

// NewPermissiveLexer creates a lexer that skips characters it does not
// recognize rather than returning an error. Numeric overflow is still an error.
func NewPermissiveLexer(src string) *Lexer {
	l := NewLexer(src)
	l.permissive = true
	return l
}

// Init binds src to the lexer and discards all state from previous input.
func (l *Lexer) Init(src string) {
	l.src = src
	l.diagnostics = nil
}

// Tokenize lexes the entire input. The returned tokens always end with a
// single TkEOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	l.diagnostics = nil
	s := scanner{src: l.src}
	ret := []Token{}
	for {
		t, err := s.scan()
		if err != nil {
			if l.skip(err) {
				continue
			}
			return nil, err
		}
		ret = append(ret, t)
		if t.Type == TkEOF {
			return ret, nil
		}
	}
}

// TokenizeIncremental returns a stream that lexes one token per call to Next.
// The stream does not yield TkEOF. A finished stream cannot be restarted,
// instead call TokenizeIncremental again.
func (l *Lexer) TokenizeIncremental() *TokenStream {
	l.diagnostics = nil
	return &TokenStream{lexer: l, s: scanner{src: l.src}}
}

// Diagnostics returns the characters skipped by a permissive lexer during the
// last tokenization.
func (l *Lexer) Diagnostics() []error {
	return l.diagnostics
}

func (l *Lexer) skip(err error) bool {
	if !l.permissive || !errors.Is(err, ErrUnrecognizedCharacter) {
		return false
	}
	l.diagnostics = append(l.diagnostics, err)
	return true
}

// TokenStream pulls tokens from the input one at a time. It is used like
// bufio.Scanner:
//
//	ts := NewLexer(sql).TokenizeIncremental()
//	for ts.Next() {
//		t := ts.Token()
//	}
//	if err := ts.Err(); err != nil {
//	}
type TokenStream struct {
	lexer *Lexer
	s     scanner
	tok   Token
	err   error
	done  bool
}

// Next advances to the next token. It returns false when the input is
// exhausted or an error occurred.
func (ts *TokenStream) Next() bool {
	if ts.done {
		return false
	}
	for {
		t, err := ts.s.scan()
		if err != nil {
			if ts.lexer.skip(err) {
				continue
			}
			ts.err = err
			ts.done = true
			return false
		}
		if t.Type == TkEOF {
			ts.done = true
			return false
		}
		ts.tok = t
		return true
	}
}

// Token is the token produced by the last call to Next.
func (ts *TokenStream) Token() Token {
	return ts.tok
}

// Err is the error that stopped the stream, if any.
func (ts *TokenStream) Err() error {
	return ts.err
}
