// Package escape turns raw strings into literals for Neovim's command line
// and expression evaluator.
//
// Every filename or literal value that crosses into a remote command or
// expression goes through exactly one of these functions, exactly once.
package escape

import "strings"

// commandSpecial are the characters the Ex command line treats specially in
// a file argument: argument separators, wildcards, expansions (%, #, $, `),
// the command separator | and both quote characters.
const commandSpecial = " \t\n*?[{`$\\%#'\"|!<"

// QuoteForCommand escapes raw so an Ex command such as :edit receives it as a
// single literal argument. Each special character is preceded by a backslash,
// matching Vim's fnameescape(). A leading "+" or ">" and a lone "-" are
// escaped too, since Ex would read them as options or redirections.
func QuoteForCommand(raw string) string {
	if raw == "-" {
		return `\-`
	}
	var b strings.Builder
	b.Grow(len(raw) + 8)
	for i, r := range raw {
		if i == 0 && (r == '+' || r == '>') {
			b.WriteByte('\\')
		} else if strings.ContainsRune(commandSpecial, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// QuoteForExpression returns raw as a single-quoted Vim string literal.
// Inside single quotes nothing is special except the quote itself, which is
// doubled.
func QuoteForExpression(raw string) string {
	return "'" + strings.ReplaceAll(raw, "'", "''") + "'"
}
