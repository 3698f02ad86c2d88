package resolver

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize quita tildes, pliega mayúsculas/minúsculas y recorta espacios,
// para comparar claves que llegan escritas distinto desde cada colección.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(cases.Fold().String(out)), " ")
}

// EqualFold compara dos claves normalizadas; vacías nunca coinciden.
func EqualFold(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	return na != "" && na == nb
}

// AlphaPrefix parte inicial no numérica de la clave, sin separadores ("PI-2024-007" → "pi").
func AlphaPrefix(s string) string {
	n := Normalize(s)
	i := strings.IndexFunc(n, unicode.IsDigit)
	if i >= 0 {
		n = n[:i]
	}
	return strings.Trim(n, " -_/#.")
}

// Digits concatena todos los dígitos de la clave ("PI-2024-007" → "2024007").
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
