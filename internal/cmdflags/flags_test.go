package cmdflags

import (
	"strings"
	"testing"
)

func TestReadSecret(t *testing.T) {
	secret, err := ReadSecret(strings.NewReader("  hunter2 \nignored\n"))
	if err != nil {
		t.Fatal(err)
	} else if secret != "hunter2" {
		t.Fatalf("Expecting hunter2 got %q", secret)
	}
	for _, input := range []string{"", "\n", "   \nx"} {
		if _, err := ReadSecret(strings.NewReader(input)); err == nil {
			t.Fatalf("input %q should be rejected", input)
		}
	}
}
