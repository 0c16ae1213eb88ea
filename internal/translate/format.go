package translate

import (
	"math"
	"strconv"
	"strings"

	"github.com/cristianoliveira/nvr/internal/escape"
	"github.com/cristianoliveira/nvr/internal/session"
)

// FormatResult renders an expression value for stdout. Strings are printed
// as they are; everything else uses the editor's string() notation.
func FormatResult(v session.Value) string {
	if v.Kind == session.KindString {
		return v.Str
	}
	return literal(v)
}

func literal(v session.Value) string {
	switch v.Kind {
	case session.KindString:
		return escape.QuoteForExpression(v.Str)
	case session.KindInt:
		return strconv.FormatInt(v.Int, 10)
	case session.KindFloat:
		return formatFloat(v.Float)
	case session.KindBool:
		if v.Bool {
			return "v:true"
		}
		return "v:false"
	case session.KindList:
		items := make([]string, len(v.List))
		for i, item := range v.List {
			items[i] = literal(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case session.KindDict:
		keys := v.Keys()
		items := make([]string, len(keys))
		for i, key := range keys {
			items[i] = escape.QuoteForExpression(key) + ": " + literal(v.Dict[key])
		}
		return "{" + strings.Join(items, ", ") + "}"
	default:
		return "v:null"
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// trimExecuteOutput drops the line break execute() puts before captured output.
func trimExecuteOutput(v session.Value) string {
	if v.Kind != session.KindString {
		return FormatResult(v)
	}
	return strings.TrimPrefix(v.Str, "\n")
}
