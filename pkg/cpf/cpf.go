// Package cpf validates Brazilian CPF numbers (the customer tax id
// collected on customer and user records).
package cpf

import "strings"

// Normalize strips formatting characters, keeping only digits.
func Normalize(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValid reports whether value is a valid CPF. Accepts formatted
// (000.000.000-00) or bare digit input. Sequences of a single repeated
// digit pass the checksum but are not valid CPFs and are rejected.
func IsValid(value string) bool {
	digits := Normalize(value)
	if len(digits) != 11 {
		return false
	}

	allSame := true
	for i := 1; i < 11; i++ {
		if digits[i] != digits[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	if checkDigit(digits, 9) != int(digits[9]-'0') {
		return false
	}
	return checkDigit(digits, 10) == int(digits[10]-'0')
}

// checkDigit computes the verification digit over the first n digits.
// Weights run from n+1 down to 2; the digit is (sum*10) mod 11, with 10
// mapped to 0.
func checkDigit(digits string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(digits[i]-'0') * (n + 1 - i)
	}
	d := (sum * 10) % 11
	if d == 10 {
		d = 0
	}
	return d
}
