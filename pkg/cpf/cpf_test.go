package cpf

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"529.982.247-25":   "52998224725",
		"52998224725":      "52998224725",
		" 111.444.777-35 ": "11144477735",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsValid(t *testing.T) {
	valid := []string{
		"529.982.247-25",
		"52998224725",
		"111.444.777-35",
	}
	for _, c := range valid {
		if !IsValid(c) {
			t.Errorf("IsValid(%q) = false, want true", c)
		}
	}

	invalid := []string{
		"",
		"123",
		"529.982.247-26", // wrong check digit
		"111.111.111-11", // repeated digits
		"000.000.000-00",
		"529.982.247-2a",
		"5299822472555",
	}
	for _, c := range invalid {
		if IsValid(c) {
			t.Errorf("IsValid(%q) = true, want false", c)
		}
	}
}
