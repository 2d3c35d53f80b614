package repositories

import "testing"

func TestAccountKey(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"user@example.com", "user@example_com"},
		{"first.last@example.com", "first_last@example_com"},
		{"odd#key$[x]/y@example.com", "odd_key__x__y@example_com"},
		{"plain@nodots", "plain@nodots"},
	}

	for _, tc := range cases {
		if got := AccountKey(tc.email); got != tc.want {
			t.Errorf("AccountKey(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

func TestAccountKeyIsStable(t *testing.T) {
	a := AccountKey("user@example.com")
	b := AccountKey("user@example.com")
	if a != b {
		t.Errorf("same email produced different keys: %q vs %q", a, b)
	}
}
