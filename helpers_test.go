package rango

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Random Category String", "random-category-string"},
		{"Python", "python"},
		{"PYTHON", "python"},
		{"  Other Frameworks  ", "other-frameworks"},
		{"C++ / Systems", "c-systems"},
		{"a--b", "a-b"},
		{"---", ""},
		{"", ""},
		{"42 things", "42-things"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func suggestNames(t *testing.T, names ...string) []Category {
	t.Helper()
	cats := make([]Category, len(names))
	for i, n := range names {
		cats[i] = Category{ID: int64(i + 1), Name: n}
	}
	return cats
}

func TestSuggest(t *testing.T) {
	cats := suggestNames(t, "Alpha", "Alphabet", "AI", "Aliens", "Spam", "Eggs", "FooBar")

	t.Run("uncapped prefix match", func(t *testing.T) {
		got := Suggest(cats, "Al", 0)
		want := []string{"Alpha", "Alphabet", "Aliens"}
		if len(got) != len(want) {
			t.Fatalf("got %d matches, want %d", len(got), len(want))
		}
		for i, n := range want {
			if got[i].Name != n {
				t.Errorf("match %d = %q, want %q", i, got[i].Name, n)
			}
		}
	})

	t.Run("case insensitive", func(t *testing.T) {
		got := Suggest(cats, "al", 0)
		if len(got) != 3 {
			t.Errorf("got %d matches, want 3", len(got))
		}
	})

	t.Run("truncates to max", func(t *testing.T) {
		got := Suggest(cats, "A", 2)
		if len(got) != 2 {
			t.Fatalf("got %d matches, want 2", len(got))
		}
		if got[0].Name != "Alpha" || got[1].Name != "Alphabet" {
			t.Errorf("truncation changed order: %q, %q", got[0].Name, got[1].Name)
		}
	})

	t.Run("empty prefix matches nothing", func(t *testing.T) {
		if got := Suggest(cats, "", 5); got != nil {
			t.Errorf("empty prefix returned %d matches", len(got))
		}
		if got := Suggest(cats, "   ", 5); got != nil {
			t.Errorf("blank prefix returned %d matches", len(got))
		}
	})

	t.Run("no match", func(t *testing.T) {
		if got := Suggest(cats, "zzz", 0); got != nil {
			t.Errorf("got %d matches, want none", len(got))
		}
	})
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		segs []string
		want string
	}{
		{"https://example.com", []string{"category", "python"}, "https://example.com/category/python/"},
		{"https://example.com/", []string{"about"}, "https://example.com/about/"},
		{"https://example.com", nil, "https://example.com"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segs...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segs, got, tt.want)
		}
	}
}

func TestValidPageURL(t *testing.T) {
	valid := []string{
		"https://go.dev/doc/",
		"http://example.com",
		"  https://example.com/path?q=1  ",
	}
	for _, u := range valid {
		if !ValidPageURL(u) {
			t.Errorf("ValidPageURL(%q) = false, want true", u)
		}
	}
	invalid := []string{
		"",
		"example.com",
		"/relative/path",
		"ftp://example.com",
		"javascript:alert(1)",
		"https://",
	}
	for _, u := range invalid {
		if ValidPageURL(u) {
			t.Errorf("ValidPageURL(%q) = true, want false", u)
		}
	}
}
