package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/urfave/cli"
)

type runResult struct {
	stdout string
	stderr string
	code   int
}

func run(t *testing.T, args ...string) runResult {
	t.Helper()
	color.NoColor = true
	var stdout, stderr bytes.Buffer
	res := runResult{}
	oldExiter, oldErrWriter := cli.OsExiter, cli.ErrWriter
	cli.OsExiter = func(code int) { res.code = code }
	cli.ErrWriter = &stderr
	defer func() {
		cli.OsExiter, cli.ErrWriter = oldExiter, oldErrWriter
	}()
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Run(append([]string{"sqlfront", "--history", ""}, args...))
	res.stdout = stdout.String()
	res.stderr = stderr.String()
	return res
}

func TestParseText(t *testing.T) {
	res := run(t, "parse", "select col from table_1")
	e := "" +
		" clause     | value   \n" +
		"------------+---------\n" +
		" projection | COL     \n" +
		" from       | TABLE_1 \n" +
		" where      | NULL    \n"
	if res.stdout != e {
		t.Errorf("\nwant\n%s\ngot\n%s\n", e, res.stdout)
	}
	if res.code != 0 {
		t.Errorf("want exit code 0 got %d", res.code)
	}
}

func TestParseJSON(t *testing.T) {
	res := run(t, "parse", "--format", "json", "select", "a")
	if !strings.Contains(res.stdout, `"type": "select"`) {
		t.Errorf("want json output got %s", res.stdout)
	}
}

func TestParseError(t *testing.T) {
	res := run(t, "parse", "select a b")
	if res.code != 1 {
		t.Errorf("want exit code 1 got %d", res.code)
	}
	e := "" +
		"unexpected token in clause in projection: expected ',' or FROM or WHERE or end of input but got B at offset 9\n" +
		"select a b\n" +
		"         ^\n"
	if res.stderr != e {
		t.Errorf("\nwant\n%s\ngot\n%s\n", e, res.stderr)
	}
}

func TestParsePermissiveWarns(t *testing.T) {
	res := run(t, "--permissive", "parse", "select a + b")
	if res.code != 0 {
		t.Errorf("want exit code 0 got %d", res.code)
	}
	if !strings.HasPrefix(res.stderr, "warning: unexpected token in clause") {
		t.Errorf("want warning got %s", res.stderr)
	}
}

func TestParseNoSQL(t *testing.T) {
	res := run(t, "parse")
	if res.code != 2 {
		t.Errorf("want exit code 2 got %d", res.code)
	}
}

func TestTokens(t *testing.T) {
	res := run(t, "tokens", "select 1")
	e := "" +
		"0\tword\t\"SELECT\"\tSELECT\n" +
		"6\twhitespace\t\" \"\t\n" +
		"7\tnumber\t\"1\"\t\n"
	if res.stdout != e {
		t.Errorf("\nwant\n%q\ngot\n%q\n", e, res.stdout)
	}
}

func TestTokensError(t *testing.T) {
	res := run(t, "tokens", "select 99999999999999999999")
	if res.code != 1 {
		t.Errorf("want exit code 1 got %d", res.code)
	}
	if !strings.HasPrefix(res.stderr, "numeric literal out of range") {
		t.Errorf("want overflow err got %s", res.stderr)
	}
}

func TestBulk(t *testing.T) {
	for i := 0; i < 100; i += 1 {
		res := run(t, "parse", "SELECT id, junk FROM test WHERE id > 10")
		if res.code != 0 {
			t.Fatal(res.stderr)
		}
	}
}
