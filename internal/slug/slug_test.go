package slug

import "testing"

// TestGenerate exercises the slug generator with typical titles, special
// characters, and boundary conditions.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple two words", "Hello World", "hello-world"},
		{"title with year", "Hello World 2026", "hello-world-2026"},
		{"already lowercase", "already lowercase", "already-lowercase"},
		{"punctuation marks", "Hello, World! How's it going?", "hello-world-hows-it-going"},
		{"ampersand and at sign", "Rock & Roll @ the Arena", "rock-roll-the-arena"},
		{"parentheses and brackets", "Version (2.0) [Beta]", "version-20-beta"},
		{"hash and dollar", "Issue #42 costs $100", "issue-42-costs-100"},
		{"leading and trailing spaces", "  hello world  ", "hello-world"},
		{"multiple hyphens between words", "hello---world", "hello-world"},
		{"single hyphen preserved", "well-known fact", "well-known-fact"},
		{"hyphens and spaces mixed", "  --hello -- world--  ", "hello-world"},
		{"empty string", "", ""},
		{"only special characters", "!@#$%^&*()", ""},
		{"only hyphens", "-----", ""},
		{"date-like string", "2026-02-25", "2026-02-25"},
		{"colon separated title", "Go: The Complete Developer Guide", "go-the-complete-developer-guide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that generating a slug from an already
// valid slug produces the same result.
func TestGenerate_Idempotent(t *testing.T) {
	for _, s := range []string{"hello-world", "my-blog-post-2026", "a", "123"} {
		t.Run(s, func(t *testing.T) {
			if got := Generate(s); got != s {
				t.Errorf("Generate(%q) = %q, want idempotent result", s, got)
			}
		})
	}
}

func TestValid(t *testing.T) {
	valid := []string{"hello-world", "a", "123", "2026-02-25", "go-guide"}
	for _, s := range valid {
		if !Valid(s) {
			t.Errorf("Valid(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "-leading", "trailing-", "double--hyphen", "Upper-Case", "with space", "München"}
	for _, s := range invalid {
		if Valid(s) {
			t.Errorf("Valid(%q) = true, want false", s)
		}
	}
}

// TestGenerateValid: whatever Generate produces (non-empty) must pass Valid.
func TestGenerateValid(t *testing.T) {
	inputs := []string{"Hello, World!", "  --a -- b--  ", "Issue #42", "Go: A Guide"}
	for _, in := range inputs {
		s := Generate(in)
		if s != "" && !Valid(s) {
			t.Errorf("Generate(%q) = %q which fails Valid", in, s)
		}
	}
}
