package certificate

import (
	"regexp"
	"strings"
	"testing"
	"time"
)

var numberPattern = regexp.MustCompile(`^CPR-\d{6}-[A-Z0-9]{6}$`)

func TestNewNumber_Format(t *testing.T) {
	now := time.UnixMilli(1741944413123)
	for i := 0; i < 50; i++ {
		n := NewNumber("CPR", now)
		if !numberPattern.MatchString(n) {
			t.Fatalf("malformed number %q", n)
		}
	}
}

func TestNewNumber_TimestampSuffix(t *testing.T) {
	// last six digits of the millisecond timestamp
	now := time.UnixMilli(1741944413123)
	n := NewNumber("CPR", now)
	if !strings.HasPrefix(n, "CPR-413123-") {
		t.Fatalf("number %q does not carry timestamp digits 413123", n)
	}
}

func TestNewNumber_CustomPrefix(t *testing.T) {
	n := NewNumber("AED", time.UnixMilli(5))
	if !strings.HasPrefix(n, "AED-000005-") {
		t.Fatalf("got %q, want AED-000005- prefix", n)
	}
}
