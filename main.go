package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chirst/sqlfront/compiler"
	"github.com/chirst/sqlfront/export"
	"github.com/chirst/sqlfront/frontend"
	"github.com/chirst/sqlfront/repl"
	"github.com/urfave/cli"
)

var errNoSQL = errors.New("no sql given")

func newFrontend(c *cli.Context) (*frontend.Frontend, error) {
	return frontend.New(frontend.Config{
		CacheSize:  c.GlobalInt("cache-size"),
		Permissive: c.GlobalBool("permissive"),
	})
}

func sqlArg(c *cli.Context) (string, error) {
	sql := strings.Join(c.Args(), " ")
	if strings.TrimSpace(sql) == "" {
		return "", errNoSQL
	}
	return sql, nil
}

func replCommand(c *cli.Context) error {
	f, err := newFrontend(c)
	if err != nil {
		return err
	}
	repl.New(f, c.GlobalString("history")).Run()
	return nil
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

func parseCommand(c *cli.Context) error {
	format, err := export.ParseFormat(c.String("format"))
	if err != nil {
		return cli.NewExitError(Red(err.Error()), 2)
	}
	sql, err := sqlArg(c)
	if err != nil {
		return cli.NewExitError(Red(err.Error()), 2)
	}
	f, err := newFrontend(c)
	if err != nil {
		return err
	}
	result := f.Parse(sql)
	if result.Err != nil {
		return cli.NewExitError(Red(describeErr(sql, result.Err)), 1)
	}
	for _, d := range result.Diagnostics {
		fmt.Fprintln(errWriter(c), Yellow("warning: "+d.Error()))
	}
	log.Debugf("parsed in %s", result.Duration)
	return export.Write(c.App.Writer, result.Stmt, format)
}

// describeErr points at the offending position of sql when err has one.
func describeErr(sql string, err error) string {
	var cerr *compiler.Error
	if !errors.As(err, &cerr) || cerr.Offset > len(sql) {
		return err.Error()
	}
	return fmt.Sprintf("%s\n%s\n%s^", err, sql, strings.Repeat(" ", len([]rune(sql[:cerr.Offset]))))
}

// tokensCommand streams tokens so output starts before the whole input is
// lexed.
func tokensCommand(c *cli.Context) error {
	sql, err := sqlArg(c)
	if err != nil {
		return cli.NewExitError(Red(err.Error()), 2)
	}
	l := compiler.NewLexer(sql)
	if c.GlobalBool("permissive") {
		l = compiler.NewPermissiveLexer(sql)
	}
	ts := l.TokenizeIncremental()
	for ts.Next() {
		t := ts.Token()
		fmt.Fprintf(c.App.Writer, "%d\t%s\t%q\t%s\n", t.Pos, t.Type, t.Value, t.Keyword)
	}
	for _, d := range l.Diagnostics() {
		fmt.Fprintln(errWriter(c), Yellow("warning: "+d.Error()))
	}
	if err := ts.Err(); err != nil {
		return cli.NewExitError(Red(describeErr(sql, err)), 1)
	}
	return nil
}

func defaultHistoryPath() string {
	dir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, ".sqlfront_history")
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "sqlfront"
	app.Usage = "lex and parse SQL SELECT statements"
	app.Version = version.String()
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "CRITICAL, ERROR, WARNING, NOTICE, INFO or DEBUG",
			Value:  "WARNING",
			EnvVar: "SQLFRONT_LOG_LEVEL",
		},
		cli.IntFlag{
			Name:   "cache-size",
			Usage:  "number of parsed statements to keep, negative to disable",
			Value:  frontend.DefaultCacheSize,
			EnvVar: "SQLFRONT_CACHE_SIZE",
		},
		cli.BoolFlag{
			Name:   "permissive",
			Usage:  "skip input that does not parse instead of failing",
			EnvVar: "SQLFRONT_PERMISSIVE",
		},
		cli.StringFlag{
			Name:   "history",
			Usage:  "repl history file, empty to disable",
			Value:  defaultHistoryPath(),
			EnvVar: "SQLFRONT_HISTORY",
		},
	}
	app.Before = func(c *cli.Context) error {
		return setupLogging(c.GlobalString("log-level"))
	}
	app.Commands = []cli.Command{
		{
			Name:   "repl",
			Usage:  "Start an interactive session",
			Action: replCommand,
		},
		{
			Name:      "parse",
			Usage:     "Parse a statement and print its syntax tree",
			ArgsUsage: "<sql>",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "format, f",
					Usage: "text, json or proto",
					Value: string(export.FormatText),
				},
			},
			Action: parseCommand,
		},
		{
			Name:      "tokens",
			Usage:     "Print the tokens of a statement",
			ArgsUsage: "<sql>",
			Action:    tokensCommand,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
