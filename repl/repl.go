// repl (read eval print loop) adapts frontend to the command line.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"

	"github.com/chirst/sqlfront/export"
	"github.com/chirst/sqlfront/frontend"
	"golang.org/x/term"
)

const (
	// prompt is the prompt.
	prompt = "sqlfront> "
	// promptContinued is the prompt when it is pending termination for example
	// by a semi colon.
	promptContinued = "...> "
	// tokensCommand prints the tokens of the sql following it.
	tokensCommand = ".tokens "
)

type repl struct {
	frontend    *frontend.Frontend
	terminal    *term.Terminal
	historyPath string
}

// New creates a repl reading from stdin. History is not kept when historyPath
// is empty.
func New(f *frontend.Frontend, historyPath string) *repl {
	r := &repl{
		frontend:    f,
		terminal:    term.NewTerminal(os.Stdin, prompt),
		historyPath: historyPath,
	}
	r.loadHistory()
	return r
}

func (r *repl) Run() {
	r.writeLn("Welcome to sqlfront. Type .exit to exit")
	if r.frontend.Permissive() {
		r.writeWarning("WARN permissive mode skips input that does not parse")
	}

	// When the terminal is in raw mode the signals are caught by readline as
	// bytes. When the terminal is not in raw mode the signals are caught by the
	// following channel.
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		r.exitGracefully()
	}()

	previousInput := ""
	for {
		line := r.readLine(previousInput)
		input := previousInput + line
		if len(strings.TrimSpace(input)) == 0 {
			previousInput = ""
			continue
		}
		if input[0] == '.' {
			if input == ".exit" {
				r.exitGracefully()
			}
			r.writeLn(r.command(input))
			continue
		}
		if !frontend.IsTerminated(input) {
			previousInput = input + "\n"
			continue
		}
		previousInput = ""
		r.writeLn(r.eval(input))
	}
}

// eval parses every statement in input and describes the results.
func (r *repl) eval(input string) string {
	out := []string{}
	for _, statement := range frontend.Split(input) {
		result := r.frontend.Parse(statement)
		if result.Err != nil {
			out = append(out, "Err: "+result.Err.Error())
			continue
		}
		for _, d := range result.Diagnostics {
			out = append(out, "Warn: "+d.Error())
		}
		header, rows := export.Rows(result.Stmt)
		out = append(out, export.RenderTable(header, rows))
		out = append(out, "Time: "+result.Duration.String())
	}
	return strings.Join(out, "\n")
}

func (r *repl) command(input string) string {
	if !strings.HasPrefix(input, tokensCommand) {
		return "Command not supported"
	}
	res := r.frontend.Tokenize(strings.TrimPrefix(input, tokensCommand))
	if res.Err != nil {
		return "Err: " + res.Err.Error()
	}
	out := []string{}
	for _, d := range res.Diagnostics {
		out = append(out, "Warn: "+d.Error())
	}
	rows := [][]*string{}
	for _, t := range res.Tokens {
		var kw *string
		if t.Keyword.String() != "" {
			kw = str(t.Keyword.String())
		}
		rows = append(rows, []*string{
			str(strconv.Itoa(t.Pos)),
			str(t.Type.String()),
			str(t.Value),
			kw,
		})
	}
	out = append(out, export.RenderTable([]string{"pos", "type", "value", "keyword"}, rows))
	return strings.Join(out, "\n")
}

func str(s string) *string {
	return &s
}

func (r *repl) readLine(previousInput string) string {
	oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		panic(err)
	}
	defer term.Restore(int(os.Stdin.Fd()), oldState)
	if previousInput == "" {
		r.terminal.SetPrompt(prompt)
	} else {
		r.terminal.SetPrompt(promptContinued)
	}
	line, err := r.terminal.ReadLine()
	if err != nil {
		if err == io.EOF {
			term.Restore(int(os.Stdin.Fd()), oldState)
			r.exitGracefully()
		}
		panic("err reading line: " + err.Error())
	}
	return line
}

func (r *repl) writeLn(text string) {
	r.terminal.Write(([]byte)(text + "\n"))
}

func (r *repl) writeWarning(text string) {
	r.terminal.Write(r.terminal.Escape.Yellow)
	r.writeLn(text)
	r.terminal.Write(r.terminal.Escape.Reset)
}

func (r *repl) exitGracefully() {
	r.saveHistory()
	os.Exit(0)
}

func (r *repl) loadHistory() {
	if r.historyPath == "" {
		return
	}
	contents, err := os.ReadFile(r.historyPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return
		}
		r.writeWarning("failed to load history " + err.Error())
		return
	}
	lines := strings.Split((string)(contents), "\n")
	slices.Reverse(lines)
	for _, line := range lines {
		if line == "" {
			continue
		}
		r.terminal.History.Add(line)
	}
}

func (r *repl) saveHistory() {
	if r.historyPath == "" {
		return
	}
	history := []byte{}
	for i := range r.terminal.History.Len() {
		entry := r.terminal.History.At(i)
		history = append(history, ([]byte)(entry+"\n")...)
	}
	if err := os.WriteFile(r.historyPath, history, 0644); err != nil {
		r.writeWarning(fmt.Sprintf("failed to write history %s", err))
	}
}
