package format

import "testing"

func TestDayForm(t *testing.T) {
	tests := []struct {
		count int
		want  PluralForm
	}{
		{0, FormMany},
		{1, FormOne},
		{2, FormFew},
		{3, FormFew},
		{4, FormFew},
		{5, FormMany},
		{10, FormMany},
		{11, FormMany},
		{12, FormMany},
		{14, FormMany},
		{19, FormMany},
		{20, FormMany},
		{21, FormOne},
		{22, FormFew},
		{25, FormMany},
		{100, FormMany},
		{101, FormOne},
		{104, FormFew},
		{111, FormMany},
		{121, FormOne},
	}

	for _, tt := range tests {
		if got := DayForm(tt.count); got != tt.want {
			t.Errorf("DayForm(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestDays(t *testing.T) {
	if got := Days(1); got != "1 day" {
		t.Errorf("Days(1) = %q, want %q", got, "1 day")
	}
	if got := Days(5); got != "5 days" {
		t.Errorf("Days(5) = %q, want %q", got, "5 days")
	}
}

func TestDaysWith(t *testing.T) {
	one, few, many := "день", "дня", "дней"

	tests := []struct {
		count int
		want  string
	}{
		{1, "1 день"},
		{2, "2 дня"},
		{5, "5 дней"},
		{11, "11 дней"},
		{21, "21 день"},
		{0, "0 дней"},
	}

	for _, tt := range tests {
		if got := DaysWith(tt.count, one, few, many); got != tt.want {
			t.Errorf("DaysWith(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}
