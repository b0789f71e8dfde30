package romanize

import (
	"errors"
	"testing"
)

func TestRomanize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"han text", "你好世界", "ni hao shi jie"},
		{"han adjacent to latin", "我abc", "wo abc"},
		{"latin before han", "abc你好", "abc ni hao"},
		{"lrc timestamps preserved", "[00:12.30]你好 world", "[00:12.30]ni hao world"},
		{"diacritics folded", "Café Zaïre - Señor", "Cafe Zaire - Senor"},
		{"ascii passthrough", "plain old text", "plain old text"},
		{"empty", "", ""},
		{"multiline", "第一\n第二", "di yi\ndi er"},
	}

	r := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Romanize(tt.input)
			if err != nil {
				t.Fatalf("Romanize(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Romanize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRomanizeUnsupportedScripts(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"hangul", "가사"},
		{"kana", "こんにちは"},
		{"cyrillic", "привет"},
		{"mixed han and hangul", "你好 가사"},
	}

	r := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Romanize(tt.input); !errors.Is(err, ErrUnsupported) {
				t.Errorf("Romanize(%q) err = %v, want ErrUnsupported", tt.input, err)
			}
		})
	}
}
