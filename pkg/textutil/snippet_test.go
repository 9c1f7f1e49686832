package textutil

import "testing"

func TestSnippet(t *testing.T) {
	cases := []struct {
		name   string
		html   string
		maxLen int
		want   string
	}{
		{"bound from tagged length", "<b>Hello</b> world", 5, "Hello"},
		{"short input keeps whole text", "<p>Hi</p>", 100, "Hi"},
		{"empty", "", 100, ""},
		{"self closing and malformed", "a<br/>b<img src='x'>c<oops", 100, "abc<oops"},
		{"zero length", "<b>x</b>", 0, ""},
		{"multibyte", "<i>héllo wörld</i>", 4, "héll"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Snippet(tc.html, tc.maxLen); got != tc.want {
				t.Fatalf("Snippet(%q, %d) = %q, want %q", tc.html, tc.maxLen, got, tc.want)
			}
		})
	}
}

func TestSnippet_DefaultLength(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "<p>word</p>"
	}
	got := Snippet(long, DefaultSnippetLength)
	if len(got) != 100 {
		t.Fatalf("expected 100 characters, got %d", len(got))
	}
}
