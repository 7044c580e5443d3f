// compiler is composed of a lexer and parser. These modules work in order to
// generate an AST (abstract syntax tree) from a SQL SELECT string. Errors from
// either stage are *Error values carrying the offset of the problem.
package compiler
