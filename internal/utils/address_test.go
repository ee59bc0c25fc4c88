package utils

import "testing"

func TestSplitStreet(t *testing.T) {
	cases := []struct {
		street  string
		street2 string
		wantStr string
		wantNum string
		wantSuf string
	}{
		{"Keizersgracht 123", "", "Keizersgracht", "123", ""},
		{"Keizersgracht 123 bis", "", "Keizersgracht", "123", "bis"},
		{"Keizersgracht, 123", "", "Keizersgracht", "123", ""},
		{"Keizersgracht", "123", "Keizersgracht", "123", ""},
		// Lazy street group: the first trailing number wins
		{"Plein 1945 12", "", "Plein", "1945", "12"},
		{"Keizersgracht", "", "Keizersgracht", "", ""},
		{"", "", "", "", ""},
	}
	for _, c := range cases {
		str, num, suf := SplitStreet(c.street, c.street2)
		if str != c.wantStr || num != c.wantNum || suf != c.wantSuf {
			t.Errorf("SplitStreet(%q, %q) = (%q, %q, %q), want (%q, %q, %q)",
				c.street, c.street2, str, num, suf, c.wantStr, c.wantNum, c.wantSuf)
		}
	}
}
