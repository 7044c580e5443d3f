package compiler

import (
	"errors"
	"reflect"
	"strconv"
	"testing"
)

type tc struct {
	sql      string
	expected []Token
}

func word(v string, k Keyword, pos int) Token {
	return Token{Type: TkWord, Value: v, Keyword: k, Pos: pos}
}

func ws(pos int) Token {
	return Token{Type: TkWhitespace, Value: " ", Pos: pos}
}

func num(v int64, pos int) Token {
	return Token{Type: TkNumber, Value: strconv.FormatInt(v, 10), Number: v, Pos: pos}
}

func punct(tt TokenType, v string, pos int) Token {
	return Token{Type: tt, Value: v, Pos: pos}
}

func eof(pos int) Token {
	return Token{Type: TkEOF, Pos: pos}
}

func TestLexSelect(t *testing.T) {
	cases := []tc{
		{
			sql: "select a, b from t",
			expected: []Token{
				word("SELECT", KwSelect, 0),
				ws(6),
				word("A", NoKeyword, 7),
				punct(TkComma, ",", 8),
				ws(9),
				word("B", NoKeyword, 10),
				ws(11),
				word("FROM", KwFrom, 12),
				ws(16),
				word("T", NoKeyword, 17),
				eof(18),
			},
		},
		{
			sql: "select )(+-*",
			expected: []Token{
				word("SELECT", KwSelect, 0),
				ws(6),
				punct(TkRightParen, ")", 7),
				punct(TkLeftParen, "(", 8),
				punct(TkPlus, "+", 9),
				punct(TkMinus, "-", 10),
				punct(TkAsterisk, "*", 11),
				eof(12),
			},
		},
		{
			sql: "1234 + 4567",
			expected: []Token{
				num(1234, 0),
				ws(4),
				punct(TkPlus, "+", 5),
				ws(6),
				num(4567, 7),
				eof(11),
			},
		},
		{
			sql: "select somecol + 1 from sometable",
			expected: []Token{
				word("SELECT", KwSelect, 0),
				ws(6),
				word("SOMECOL", NoKeyword, 7),
				ws(14),
				punct(TkPlus, "+", 15),
				ws(16),
				num(1, 17),
				ws(18),
				word("FROM", KwFrom, 19),
				ws(23),
				word("SOMETABLE", NoKeyword, 24),
				eof(33),
			},
		},
		{
			sql: "select hi from table_1 where 1 = 1",
			expected: []Token{
				word("SELECT", KwSelect, 0),
				ws(6),
				word("HI", NoKeyword, 7),
				ws(9),
				word("FROM", KwFrom, 10),
				ws(14),
				word("TABLE_1", NoKeyword, 15),
				ws(22),
				word("WHERE", KwWhere, 23),
				ws(28),
				num(1, 29),
				ws(30),
				punct(TkEq, "=", 31),
				ws(32),
				num(1, 33),
				eof(34),
			},
		},
		{
			sql: "a<b<=c<>d!=e>f>=g/h",
			expected: []Token{
				word("A", NoKeyword, 0),
				punct(TkLt, "<", 1),
				word("B", NoKeyword, 2),
				punct(TkLtEq, "<=", 3),
				word("C", NoKeyword, 5),
				punct(TkNotEq, "<>", 6),
				word("D", NoKeyword, 8),
				punct(TkNotEq, "!=", 9),
				word("E", NoKeyword, 11),
				punct(TkGt, ">", 12),
				word("F", NoKeyword, 13),
				punct(TkGtEq, ">=", 14),
				word("G", NoKeyword, 16),
				punct(TkSlash, "/", 17),
				word("H", NoKeyword, 18),
				eof(19),
			},
		},
		{
			sql: "count(*)",
			expected: []Token{
				word("COUNT", NoKeyword, 0),
				punct(TkLeftParen, "(", 5),
				punct(TkAsterisk, "*", 6),
				punct(TkRightParen, ")", 7),
				eof(8),
			},
		},
		{
			sql: "123abc",
			expected: []Token{
				num(123, 0),
				word("ABC", NoKeyword, 3),
				eof(6),
			},
		},
		{
			sql: "group order having",
			expected: []Token{
				word("GROUP", NoKeyword, 0),
				ws(5),
				word("ORDER", NoKeyword, 6),
				ws(11),
				word("HAVING", KwHaving, 12),
				eof(18),
			},
		},
		{
			sql: "ünï_1",
			expected: []Token{
				word("ÜNÏ_1", NoKeyword, 0),
				eof(7),
			},
		},
		{
			sql:      "",
			expected: []Token{eof(0)},
		},
	}
	for _, c := range cases {
		t.Run(c.sql, func(t *testing.T) {
			ret, err := NewLexer(c.sql).Tokenize()
			if err != nil {
				t.Fatalf("want no err got %s", err)
			}
			if !reflect.DeepEqual(ret, c.expected) {
				t.Errorf("got %#v want %#v", ret, c.expected)
			}
		})
	}
}

func TestLexWhitespaceCollapse(t *testing.T) {
	cases := []string{
		"a b",
		"a  b",
		"a          b",
		"a \t\n\r b",
	}
	for _, c := range cases {
		t.Run(strconv.Quote(c), func(t *testing.T) {
			ret, err := NewLexer(c).Tokenize()
			if err != nil {
				t.Fatalf("want no err got %s", err)
			}
			if len(ret) != 4 {
				t.Fatalf("want 4 tokens got %d: %#v", len(ret), ret)
			}
			if ret[1] != ws(1) {
				t.Errorf("got %#v want %#v", ret[1], ws(1))
			}
		})
	}
}

func TestLexKeywordCaseInsensitive(t *testing.T) {
	for _, sql := range []string{"select", "SELECT", "SeLeCt"} {
		t.Run(sql, func(t *testing.T) {
			ret, err := NewLexer(sql).Tokenize()
			if err != nil {
				t.Fatalf("want no err got %s", err)
			}
			want := word("SELECT", KwSelect, 0)
			if ret[0] != want {
				t.Errorf("got %#v want %#v", ret[0], want)
			}
		})
	}
}

func TestLexIdempotent(t *testing.T) {
	sql := "select a, b from t where a >= 10"
	l := NewLexer(sql)
	first, err := l.Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	l.Init(sql)
	second, err := l.Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("got %#v want %#v", second, first)
	}
}

func TestLexReinit(t *testing.T) {
	l := NewLexer("select a")
	if _, err := l.Tokenize(); err != nil {
		t.Fatal(err)
	}
	l.Init("1")
	ret, err := l.Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	want := []Token{num(1, 0), eof(1)}
	if !reflect.DeepEqual(ret, want) {
		t.Errorf("got %#v want %#v", ret, want)
	}
}

func TestLexNumberBoundary(t *testing.T) {
	t.Run("max int64", func(t *testing.T) {
		ret, err := NewLexer("9223372036854775807").Tokenize()
		if err != nil {
			t.Fatalf("want no err got %s", err)
		}
		if ret[0].Type != TkNumber || ret[0].Number != 9223372036854775807 {
			t.Errorf("got %#v", ret[0])
		}
	})
	t.Run("max int64 with extra digit", func(t *testing.T) {
		_, err := NewLexer("select 92233720368547758070").Tokenize()
		if !errors.Is(err, ErrLexOverflow) {
			t.Fatalf("want overflow err got %v", err)
		}
		var lexErr *Error
		if !errors.As(err, &lexErr) {
			t.Fatalf("want *Error got %T", err)
		}
		if lexErr.Offset != 7 {
			t.Errorf("want offset 7 got %d", lexErr.Offset)
		}
		if lexErr.Found != "92233720368547758070" {
			t.Errorf("want found to be the literal got %s", lexErr.Found)
		}
	})
}

func TestLexUnrecognizedCharacter(t *testing.T) {
	t.Run("strict", func(t *testing.T) {
		_, err := NewLexer("select a; b").Tokenize()
		if !errors.Is(err, ErrUnrecognizedCharacter) {
			t.Fatalf("want unrecognized err got %v", err)
		}
		var lexErr *Error
		errors.As(err, &lexErr)
		if lexErr.Offset != 8 || lexErr.Found != ";" {
			t.Errorf("got offset %d found %q", lexErr.Offset, lexErr.Found)
		}
	})
	t.Run("permissive", func(t *testing.T) {
		l := NewPermissiveLexer("a;b")
		ret, err := l.Tokenize()
		if err != nil {
			t.Fatalf("want no err got %s", err)
		}
		want := []Token{
			word("A", NoKeyword, 0),
			word("B", NoKeyword, 2),
			eof(3),
		}
		if !reflect.DeepEqual(ret, want) {
			t.Errorf("got %#v want %#v", ret, want)
		}
		if len(l.Diagnostics()) != 1 {
			t.Fatalf("want 1 diagnostic got %d", len(l.Diagnostics()))
		}
		if !errors.Is(l.Diagnostics()[0], ErrUnrecognizedCharacter) {
			t.Errorf("got %v", l.Diagnostics()[0])
		}
	})
	t.Run("permissive overflow is fatal", func(t *testing.T) {
		_, err := NewPermissiveLexer("99999999999999999999").Tokenize()
		if !errors.Is(err, ErrLexOverflow) {
			t.Fatalf("want overflow err got %v", err)
		}
	})
}

func TestTokenizeIncremental(t *testing.T) {
	l := NewLexer("abc 123")
	ts := l.TokenizeIncremental()
	got := []Token{}
	for ts.Next() {
		got = append(got, ts.Token())
	}
	if err := ts.Err(); err != nil {
		t.Fatalf("want no err got %s", err)
	}
	want := []Token{
		word("ABC", NoKeyword, 0),
		ws(3),
		num(123, 4),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v want %#v", got, want)
	}
	if ts.Next() {
		t.Error("want finished stream to stay finished")
	}

	t.Run("matches batch", func(t *testing.T) {
		sql := "select a, b from t where x <> 2"
		batch, err := NewLexer(sql).Tokenize()
		if err != nil {
			t.Fatal(err)
		}
		ts := NewLexer(sql).TokenizeIncremental()
		streamed := []Token{}
		for ts.Next() {
			streamed = append(streamed, ts.Token())
		}
		if !reflect.DeepEqual(streamed, batch[:len(batch)-1]) {
			t.Errorf("got %#v want %#v", streamed, batch[:len(batch)-1])
		}
	})

	t.Run("stops on error", func(t *testing.T) {
		ts := NewLexer("a ? b").TokenizeIncremental()
		n := 0
		for ts.Next() {
			n++
		}
		if n != 2 {
			t.Errorf("want 2 tokens before error got %d", n)
		}
		if !errors.Is(ts.Err(), ErrUnrecognizedCharacter) {
			t.Errorf("want unrecognized err got %v", ts.Err())
		}
		if ts.Next() {
			t.Error("want stream to stay stopped after error")
		}
	})

	t.Run("restart after init", func(t *testing.T) {
		l := NewLexer("a")
		ts := l.TokenizeIncremental()
		for ts.Next() {
		}
		l.Init("b")
		ts = l.TokenizeIncremental()
		if !ts.Next() {
			t.Fatal("want a token")
		}
		if got := ts.Token(); got != word("B", NoKeyword, 0) {
			t.Errorf("got %#v", got)
		}
	})
}
