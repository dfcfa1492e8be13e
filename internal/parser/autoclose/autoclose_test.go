package autoclose

import "testing"

func TestClosingTagOmitted(t *testing.T) {
	tests := []struct {
		current string
		next    string
		want    bool
	}{
		{"li", "li", true},
		{"li", "div", false},
		{"p", "div", true},
		{"p", "p", true},
		{"p", "span", false},
		{"dt", "dd", true},
		{"dd", "dt", true},
		{"td", "th", true},
		{"tr", "tbody", true},
		{"thead", "tbody", true},
		{"option", "optgroup", true},
		{"div", "div", false},
		// empty next means end-of-parent
		{"p", "", true},
		{"li", "", true},
		{"div", "", false},
		// unknown tags never auto-close
		{"custom-el", "custom-el", false},
	}
	for _, tt := range tests {
		if got := ClosingTagOmitted(tt.current, tt.next); got != tt.want {
			t.Errorf("ClosingTagOmitted(%q, %q) = %v, want %v", tt.current, tt.next, got, tt.want)
		}
	}
}

func TestIsVoid(t *testing.T) {
	for _, name := range []string{"br", "img", "input", "hr", "meta", "link", "wbr"} {
		if !IsVoid(name) {
			t.Errorf("IsVoid(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"div", "span", "p", "li"} {
		if IsVoid(name) {
			t.Errorf("IsVoid(%q) = true, want false", name)
		}
	}
}
