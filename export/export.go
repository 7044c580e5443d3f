// export converts parsed statements into forms other tools can read. The
// structured forms are built on a protobuf Struct so json and binary output
// share one shape.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chirst/sqlfront/compiler"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatProto Format = "proto"
)

var errUnknownFormat = errors.New("unknown format")

// ParseFormat returns the format named s.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatProto:
		return f, nil
	}
	return "", fmt.Errorf("%w %q", errUnknownFormat, s)
}

// Write encodes stmt to w in format.
func Write(w io.Writer, stmt compiler.Stmt, format Format) error {
	switch format {
	case FormatText:
		header, rows := Rows(stmt)
		_, err := io.WriteString(w, RenderTable(header, rows)+"\n")
		return err
	case FormatJSON, FormatProto:
		s, err := Struct(stmt)
		if err != nil {
			return err
		}
		var b []byte
		if format == FormatJSON {
			b, err = protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(s)
			b = append(b, '\n')
		} else {
			b, err = proto.Marshal(s)
		}
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("%w %q", errUnknownFormat, format)
}

// Struct converts stmt to a protobuf Struct. Numbers are kept as strings since
// a Struct number is a float64 and cannot hold every int64.
func Struct(stmt compiler.Stmt) (*structpb.Struct, error) {
	return structpb.NewStruct(stmtMap(stmt))
}

func stmtMap(stmt compiler.Stmt) map[string]interface{} {
	switch s := stmt.(type) {
	case *compiler.SelectStmt:
		projection := []interface{}{}
		for _, item := range s.Projection {
			projection = append(projection, itemMap(item))
		}
		m := map[string]interface{}{
			"type":       "select",
			"projection": projection,
			"from":       nil,
			"selection":  nil,
		}
		if s.From != nil {
			m["from"] = tableMap(s.From)
		}
		if s.Selection != nil {
			m["selection"] = exprMap(s.Selection)
		}
		return m
	}
	return map[string]interface{}{"type": "none"}
}

func itemMap(item compiler.SelectItem) map[string]interface{} {
	switch i := item.(type) {
	case *compiler.UnnamedExpr:
		return map[string]interface{}{"type": "unnamed_expr", "expr": exprMap(i.Expr)}
	case *compiler.Wildcard:
		return map[string]interface{}{"type": "wildcard"}
	}
	return map[string]interface{}{"type": "unknown"}
}

func tableMap(t *compiler.Table) map[string]interface{} {
	m := map[string]interface{}{"name": t.Name}
	if t.Schema != nil {
		m["schema"] = *t.Schema
	}
	if t.Alias != nil {
		m["alias"] = *t.Alias
	}
	return m
}

func exprMap(e compiler.Expr) map[string]interface{} {
	switch x := e.(type) {
	case *compiler.Identifier:
		return map[string]interface{}{"type": "identifier", "value": x.Ident.Value}
	case *compiler.NumberLit:
		return map[string]interface{}{"type": "number", "value": strconv.FormatInt(x.Value, 10)}
	case *compiler.BinaryExpr:
		return map[string]interface{}{
			"type":     "binary",
			"operator": x.Operator,
			"left":     exprMap(x.Left),
			"right":    exprMap(x.Right),
		}
	case *compiler.CallExpr:
		args := []interface{}{}
		for _, a := range x.Args {
			args = append(args, exprMap(a))
		}
		return map[string]interface{}{"type": "call", "name": x.Name, "args": args}
	case *compiler.ParenExpr:
		return map[string]interface{}{"type": "paren", "inner": exprMap(x.Inner)}
	case *compiler.WildcardArg:
		return map[string]interface{}{"type": "wildcard"}
	}
	return map[string]interface{}{"type": "unknown"}
}
