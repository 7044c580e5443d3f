// frontend serves as an interface for the parser where raw SQL goes in and
// statements come out. frontend is intended to be consumed by things like a
// repl (read eval print loop), a program, or a command line tool.
package frontend

import (
	"slices"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/chirst/sqlfront/compiler"
	"github.com/golang/groupcache/lru"
	hlru "github.com/hashicorp/golang-lru"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("frontend")

// DefaultCacheSize is used when Config.CacheSize is zero.
const DefaultCacheSize = 128

// terminator ends a statement. It is not part of the dialect so it is removed
// before lexing.
const terminator = ";"

type Config struct {
	// CacheSize is the number of statements and token lists kept. A negative
	// value disables caching.
	CacheSize int
	// Permissive parses with a best effort parser that reports skipped input
	// as diagnostics rather than failing.
	Permissive bool
}

// Result is the outcome of parsing one statement.
type Result struct {
	Stmt compiler.Stmt
	Err  error
	// Diagnostics is only populated in permissive mode.
	Diagnostics []error
	Duration    time.Duration
	// Cached is true when the statement came from the statement cache.
	Cached bool
}

// TokensResult is the outcome of lexing one statement.
type TokensResult struct {
	// Tokens is owned by the caller.
	Tokens []compiler.Token
	Err    error
	// Diagnostics lists the characters a permissive lexer skipped.
	Diagnostics []error
}

type cachedTokens struct {
	tokens      []compiler.Token
	diagnostics []error
}

type cachedStmt struct {
	stmt        compiler.Stmt
	diagnostics []error
}

// Frontend is safe for concurrent use. Every parse gets its own parser so only
// the caches are shared.
type Frontend struct {
	config Config
	mu     sync.Mutex
	// stmts is keyed by normalized sql. Statements are never modified after
	// parsing so cached values are shared between callers.
	stmts  *lru.Cache
	tokens *hlru.Cache
}

func New(config Config) (*Frontend, error) {
	if config.CacheSize == 0 {
		config.CacheSize = DefaultCacheSize
	}
	f := &Frontend{config: config}
	if config.CacheSize < 0 {
		return f, nil
	}
	tokens, err := hlru.New(config.CacheSize)
	if err != nil {
		return nil, err
	}
	f.tokens = tokens
	f.stmts = lru.New(config.CacheSize)
	f.stmts.OnEvicted = func(key lru.Key, _ interface{}) {
		log.Debugf("evicted statement %q", key)
	}
	return f, nil
}

func (f *Frontend) Permissive() bool {
	return f.config.Permissive
}

// Parse parses a single statement. A trailing terminator is allowed.
func (f *Frontend) Parse(sql string) Result {
	start := time.Now()
	key := Normalize(sql)
	if cached, ok := f.getStmt(key); ok {
		log.Debugf("statement cache hit %q", key)
		return Result{
			Stmt:        cached.stmt,
			Diagnostics: cached.diagnostics,
			Duration:    time.Since(start),
			Cached:      true,
		}
	}
	p := compiler.NewParser()
	if f.config.Permissive {
		p = compiler.NewPermissiveParser()
	}
	stmt, err := p.Parse(key)
	res := Result{
		Stmt:        stmt,
		Err:         err,
		Diagnostics: p.Diagnostics(),
		Duration:    time.Since(start),
	}
	if err != nil {
		log.Infof("parse failed %q: %s", key, err)
		return res
	}
	for _, d := range res.Diagnostics {
		log.Warningf("skipped input %q: %s", key, d)
	}
	f.addStmt(key, cachedStmt{stmt: stmt, diagnostics: res.Diagnostics})
	return res
}

// Tokenize lexes a single statement.
func (f *Frontend) Tokenize(sql string) TokensResult {
	key := Normalize(sql)
	if f.tokens != nil {
		if v, ok := f.tokens.Get(key); ok {
			c := v.(cachedTokens)
			return TokensResult{Tokens: slices.Clone(c.tokens), Diagnostics: c.diagnostics}
		}
	}
	l := compiler.NewLexer(key)
	if f.config.Permissive {
		l = compiler.NewPermissiveLexer(key)
	}
	tokens, err := l.Tokenize()
	if err != nil {
		log.Infof("tokenize failed %q: %s", key, err)
		return TokensResult{Err: err}
	}
	diagnostics := l.Diagnostics()
	for _, d := range diagnostics {
		log.Warningf("skipped input %q: %s", key, d)
	}
	if f.tokens != nil {
		f.tokens.Add(key, cachedTokens{tokens: slices.Clone(tokens), diagnostics: diagnostics})
	}
	return TokensResult{Tokens: tokens, Diagnostics: diagnostics}
}

func (f *Frontend) getStmt(key string) (cachedStmt, bool) {
	if f.stmts == nil {
		return cachedStmt{}, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.stmts.Get(key)
	if !ok {
		return cachedStmt{}, false
	}
	return v.(cachedStmt), true
}

func (f *Frontend) addStmt(key string, c cachedStmt) {
	if f.stmts == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stmts.Add(key, c)
}

// Normalize trims trailing whitespace and a single trailing terminator.
// Leading whitespace is kept so error offsets match the caller's input.
func Normalize(sql string) string {
	s := strings.TrimRightFunc(sql, unicode.IsSpace)
	s = strings.TrimSuffix(s, terminator)
	return strings.TrimRightFunc(s, unicode.IsSpace)
}

// Split separates input into statements on the terminator. Empty statements
// are dropped. The dialect has no quoted text so every terminator ends a
// statement.
func Split(input string) []string {
	ret := []string{}
	for _, s := range strings.Split(input, terminator) {
		if strings.TrimSpace(s) == "" {
			continue
		}
		ret = append(ret, strings.TrimSpace(s))
	}
	return ret
}

// IsTerminated reports whether input ends with a terminated statement.
func IsTerminated(input string) bool {
	s := strings.TrimSpace(input)
	return strings.HasSuffix(s, terminator) && len(Split(s)) > 0
}
