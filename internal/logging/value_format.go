package logging

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
)

// attrString renders v without quoting, for values used as line prefixes.
func attrString(v slog.Value) string {
	return plainValue(v.Resolve())
}

// formatValue renders v for a key=value pair, quoting when the text would
// be ambiguous on a console line.
func formatValue(v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindBool, slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindDuration:
		return plainValue(v)
	}
	s := plainValue(v)
	if needsQuotes(s) {
		return strconv.Quote(s)
	}
	return s
}

func plainValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindFloat64:
		return strconv.FormatFloat(v.Float64(), 'f', -1, 64)
	case slog.KindTime:
		return v.Time().UTC().Format(timeLayout)
	case slog.KindAny:
		switch a := v.Any().(type) {
		case error:
			return a.Error()
		case json.RawMessage:
			// mpv payloads
			if len(a) == 0 {
				return "null"
			}
			return string(a)
		default:
			return fmt.Sprint(a)
		}
	default:
		return v.String()
	}
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if r <= ' ' || r == '=' || r == '"' {
			return true
		}
	}
	return false
}

func sourceLabel(src *slog.Source) string {
	if src == nil {
		return ""
	}
	return filepath.Base(src.File) + ":" + strconv.Itoa(src.Line)
}
