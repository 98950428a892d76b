package interp

import (
	"reflect"
	"testing"
)

// TestQuote_PlainWordUnchanged verifies simple tokens pass through bare.
func TestQuote_PlainWordUnchanged(t *testing.T) {
	if got := Quote("button"); got != "button" {
		t.Errorf("Quote(button) = %q", got)
	}
}

// TestQuote_EmptyBraced verifies the empty element renders as {}.
func TestQuote_EmptyBraced(t *testing.T) {
	if got := Quote(""); got != "{}" {
		t.Errorf("Quote(\"\") = %q", got)
	}
}

// TestQuote_SpacesBraced verifies elements with spaces are braced.
func TestQuote_SpacesBraced(t *testing.T) {
	if got := Quote("hello world"); got != "{hello world}" {
		t.Errorf("Quote = %q", got)
	}
}

// TestQuote_UnbalancedBraceEscaped verifies fallback to backslash escaping.
func TestQuote_UnbalancedBraceEscaped(t *testing.T) {
	if got := Quote("a{b"); got != `a\{b` {
		t.Errorf("Quote = %q", got)
	}
}

// TestSplitList_Elements exercises the list grammar on representative inputs.
func TestSplitList_Elements(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"a b c", []string{"a", "b", "c"}},
		{"{hello world} c", []string{"hello world", "c"}},
		{`"hello world" c`, []string{"hello world", "c"}},
		{"{a {b c}} d", []string{"a {b c}", "d"}},
		{`a\ b c`, []string{"a b", "c"}},
		{`"a\nb"`, []string{"a\nb"}},
		{"{}", []string{""}},
	}
	for _, tc := range cases {
		got, err := SplitList(tc.in)
		if err != nil {
			t.Errorf("SplitList(%q) error: %v", tc.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SplitList(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
}

// TestSplitList_UnmatchedBrace verifies malformed lists are rejected.
func TestSplitList_UnmatchedBrace(t *testing.T) {
	if _, err := SplitList("{a b"); err == nil {
		t.Error("expected error for unmatched brace")
	}
	if _, err := SplitList(`"a b`); err == nil {
		t.Error("expected error for unmatched quote")
	}
	if _, err := SplitList("{a}b"); err == nil {
		t.Error("expected error for brace followed by non-space")
	}
}

// TestQuoteSplit_RoundTrip verifies Quote output parses back to the input.
func TestQuoteSplit_RoundTrip(t *testing.T) {
	tokens := []string{"button", ".root!button.", "-text", "hello world", "", "a{b", "x\ny"}
	got, err := SplitList(QuoteList(tokens...))
	if err != nil {
		t.Fatalf("SplitList error: %v", err)
	}
	if !reflect.DeepEqual(got, tokens) {
		t.Errorf("round trip = %#v, want %#v", got, tokens)
	}
}
