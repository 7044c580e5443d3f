package export

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/chirst/sqlfront/compiler"
)

const (
	// emptyValue is printed for a clause the statement does not have.
	emptyValue = "NULL"
	// emptyHeaderValue is printed when the cell in a header is the empty string
	emptyHeaderValue = "<anonymous>"
)

var header = []string{"clause", "value"}

// Rows describes stmt as one row per projected column followed by the from
// and where clauses.
func Rows(stmt compiler.Stmt) ([]string, [][]*string) {
	s, ok := stmt.(*compiler.SelectStmt)
	if !ok {
		return header, [][]*string{{str("statement"), nil}}
	}
	rows := [][]*string{}
	for _, item := range s.Projection {
		rows = append(rows, []*string{str("projection"), str(itemText(item))})
	}
	from := []*string{str("from"), nil}
	if s.From != nil {
		from[1] = str(s.From.Name)
	}
	where := []*string{str("where"), nil}
	if s.Selection != nil {
		where[1] = str(ExprText(s.Selection))
	}
	return header, append(rows, from, where)
}

func str(s string) *string {
	return &s
}

func itemText(item compiler.SelectItem) string {
	switch i := item.(type) {
	case *compiler.UnnamedExpr:
		return ExprText(i.Expr)
	case *compiler.Wildcard:
		return "*"
	}
	return ""
}

// ExprText renders e as sql.
func ExprText(e compiler.Expr) string {
	switch x := e.(type) {
	case *compiler.Identifier:
		return x.Ident.Value
	case *compiler.NumberLit:
		return strconv.FormatInt(x.Value, 10)
	case *compiler.BinaryExpr:
		return ExprText(x.Left) + " " + x.Operator + " " + ExprText(x.Right)
	case *compiler.CallExpr:
		args := []string{}
		for _, a := range x.Args {
			args = append(args, ExprText(a))
		}
		return x.Name + "(" + strings.Join(args, ", ") + ")"
	case *compiler.ParenExpr:
		return "(" + ExprText(x.Inner) + ")"
	case *compiler.WildcardArg:
		return "*"
	}
	return ""
}

// RenderTable aligns header and rows into columns separated by pipes.
func RenderTable(header []string, rows [][]*string) string {
	widths := getWidths(header, rows)
	ret := printHeader(header, widths)
	for _, row := range rows {
		ret = ret + "\n" + printRow(row, widths)
	}
	return ret
}

// getWidths counts runes since fmt pads %s by runes.
func getWidths(header []string, rows [][]*string) []int {
	widths := make([]int, len(header))
	for i, hCol := range header {
		size := len(emptyHeaderValue)
		if hCol != "" {
			size = utf8.RuneCountInString(hCol)
		}
		widths[i] = size
	}
	for _, row := range rows {
		for i, column := range row {
			size := len(emptyValue)
			if column != nil {
				size = utf8.RuneCountInString(*column)
			}
			if widths[i] < size {
				widths[i] = size
			}
		}
	}
	return widths
}

func printHeader(row []string, widths []int) string {
	ret := ""
	for i, column := range row {
		v := emptyHeaderValue
		if column != "" {
			v = column
		}
		ret = ret + fmt.Sprintf(" %-*s ", widths[i], v)
		if i != len(row)-1 {
			ret = ret + "|"
		}
	}
	ret = ret + "\n"
	for i := range row {
		ret = ret + fmt.Sprintf("-%s-", strings.Repeat("-", widths[i]))
		if i != len(row)-1 {
			ret = ret + "+"
		}
	}
	return ret
}

func printRow(row []*string, widths []int) string {
	ret := ""
	for i, column := range row {
		v := emptyValue
		if column != nil {
			v = *column
		}
		ret = ret + fmt.Sprintf(" %-*s ", widths[i], v)
		if i != len(row)-1 {
			ret = ret + "|"
		}
	}
	return ret
}
