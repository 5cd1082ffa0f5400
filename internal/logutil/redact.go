package logutil

import (
	"io"
	"regexp"
	"strings"
)

type (
	// Redactor masks the values of sensitive fields in every write
	Redactor struct {
		out       io.Writer
		json      *regexp.Regexp
		text      *regexp.Regexp
		redaction string
	}
)

const Redaction = "***"

// FilterDatum replaces the value of every field=value pair in message,
// pairs are terminated by separator.
func FilterDatum(fields []string, redaction, message, separator string) string {
	if len(fields) == 0 {
		return message
	}
	return textPattern(fields, separator, "").ReplaceAllString(message, "${1}="+escapeReplacement(redaction+separator))
}

func NewRedactor(out io.Writer, fields []string) *Redactor {
	r := &Redactor{out: out, redaction: Redaction}
	if len(fields) > 0 {
		r.json = jsonPattern(fields)
		// text values never cross a json string boundary
		r.text = textPattern(fields, ";", `"\n`)
	}
	return r
}

// Write always reports len(p) on success, even when the redacted output
// has a different size.
func (r *Redactor) Write(p []byte) (int, error) {
	if r.json == nil {
		return r.out.Write(p)
	}
	buf := r.json.ReplaceAll(p, []byte(`"${1}":"`+escapeReplacement(r.redaction)+`"`))
	buf = r.text.ReplaceAll(buf, []byte("${1}="+escapeReplacement(r.redaction)+";"))
	if _, err := r.out.Write(buf); err != nil {
		return 0, err
	}
	return len(p), nil
}

func quoted(fields []string) string {
	q := make([]string, len(fields))
	for i, f := range fields {
		q[i] = regexp.QuoteMeta(f)
	}
	return strings.Join(q, "|")
}

func jsonPattern(fields []string) *regexp.Regexp {
	return regexp.MustCompile(`"(` + quoted(fields) + `)"\s*:\s*"(?:[^"\\]|\\.)*"`)
}

// textPattern matches field=value up to the first separator. stop lists
// characters a value may not contain.
func textPattern(fields []string, separator, stop string) *regexp.Regexp {
	value := `.*?`
	if stop != "" {
		value = `[^` + stop + `]*?`
	}
	return regexp.MustCompile(`\b(` + quoted(fields) + `)=` + value + regexp.QuoteMeta(separator))
}

func escapeReplacement(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
