package parse

import "testing"

func TestPrice(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1 768 ₽", 1768},
		{"2 999₽", 2999},
		{"149", 149},
		{"₽", 0},
		{"", 0},
		{"   ", 0},
		{"цена: 12 345 руб.", 12345},
	}

	for _, tt := range tests {
		if got := Price(tt.raw); got != tt.want {
			t.Errorf("Price(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestRating(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"4,8 · 120 оценок", 4.8, true},
		{"Rating 3.5 stars", 3.5, true},
		{"нет оценок", 0, false},
		{"", 0, false},
		{"5 из 5", 0, false}, // integer only, no decimal pattern
	}

	for _, tt := range tests {
		got, ok := Rating(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Rating(%q) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestReviewCount(t *testing.T) {
	tests := []struct {
		raw    string
		want   int
		wantOK bool
	}{
		{"Оценок: (12) · 28 купили", 12, true},
		{"Оценок: (2.7K) · 10.1K купили", 2700, true},
		{"(2,7k)", 2700, true},
		{"(1 024)", 1024, true},
		{"(K)", 0, false},
		{"нет отзывов", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ReviewCount(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ReviewCount(%q) = (%v, %v), want (%v, %v)", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCleanText(t *testing.T) {
	if got := CleanText("  Кроссовки\n мужские\t Nike  "); got != "Кроссовки мужские Nike" {
		t.Errorf("CleanText returned %q", got)
	}
	if got := CleanText(""); got != "" {
		t.Errorf("CleanText(\"\") = %q, want empty", got)
	}
}
