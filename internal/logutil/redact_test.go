package logutil

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestFilterDatum(t *testing.T) {
	type testCase struct {
		name      string
		fields    []string
		message   string
		separator string
		expected  string
	}
	for _, tc := range []testCase{
		{
			name:      "semicolon",
			fields:    []string{"password", "date_of_birth"},
			message:   "name=egg;email=eggmin@eggsample.com;password=eggcellent;date_of_birth=12/12/1986;",
			separator: ";",
			expected:  "name=egg;email=eggmin@eggsample.com;password=xxx;date_of_birth=xxx;",
		},
		{
			name:      "other separator",
			fields:    []string{"email"},
			message:   "name=bob|email=bob@dylan.com|",
			separator: "|",
			expected:  "name=bob|email=xxx|",
		},
		{
			name:      "multi character separator",
			fields:    []string{"password", "email"},
			message:   "email=a,b@x.com, password=p,w;d, ssn=123, ",
			separator: ", ",
			expected:  "email=xxx, password=xxx, ssn=123, ",
		},
		{
			name:      "regexp characters in separator",
			fields:    []string{"password"},
			message:   "password=a.b|*|name=c|*|",
			separator: "|*|",
			expected:  "password=xxx|*|name=c|*|",
		},
		{
			name:      "no fields",
			fields:    nil,
			message:   "password=abc;",
			separator: ";",
			expected:  "password=abc;",
		},
		{
			name:      "suffix is not a match",
			fields:    []string{"name"},
			message:   "username=abc;name=def;",
			separator: ";",
			expected:  "username=abc;name=xxx;",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := FilterDatum(tc.fields, "xxx", tc.message, tc.separator)
			if got != tc.expected {
				t.Fatalf("Expecting: %v\nGot: %v", tc.expected, got)
			}
		})
	}
}

func TestLoggerRedactsJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "debug", "json", nil)
	if err != nil {
		t.Fatal(err)
	}
	log.Info().Str("email", `bob"@x.com`).Str("user_id", "u-1").Msg("User registered")
	out := buf.String()
	if strings.Contains(out, "x.com") {
		t.Fatalf("email should be redacted: %v", out)
	}
	if !strings.Contains(out, `"email":"***"`) || !strings.Contains(out, `"user_id":"u-1"`) {
		t.Fatalf("unexpected output: %v", out)
	}
}

func TestLoggerRedactsConsole(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info", "console", []string{"password"})
	if err != nil {
		t.Fatal(err)
	}
	log.Info().Str("password", "hunter2").Msg("password=hunter2;")
	if strings.Contains(buf.String(), "hunter2") {
		t.Fatalf("password should be redacted: %v", buf.String())
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	if _, err := New(&bytes.Buffer{}, "loud", "json", nil); err == nil {
		t.Fatal("invalid level should fail")
	}
	if _, err := New(&bytes.Buffer{}, "info", "xml", nil); err == nil {
		t.Fatal("invalid format should fail")
	}
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info", "json", nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx := WithLogger(context.Background(), log)
	logger := GetOrDefault(ctx)
	logger.Info().Msg("hello")
	if !strings.Contains(buf.String(), `"message":"hello"`) {
		t.Fatalf("context logger should be used, got %v", buf.String())
	}
}
