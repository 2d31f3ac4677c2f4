package texto

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var quitarDiacriticos = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalizar prepara un texto para comparaciones: quita tildes, pasa a
// minúsculas, trata guiones y guiones bajos como espacios y descarta
// todo lo que no sea letra, dígito o espacio. Los espacios repetidos se
// colapsan a uno.
func Normalizar(s string) string {
	limpio, _, err := transform.String(quitarDiacriticos, s)
	if err != nil {
		limpio = s
	}
	limpio = strings.ToLower(limpio)

	var b strings.Builder
	b.Grow(len(limpio))
	for _, r := range limpio {
		switch {
		case r == '-' || r == '_':
			b.WriteRune(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ':
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Coinciden compara dos textos ya ignorando tildes, mayúsculas y
// puntuación.
func Coinciden(a, b string) bool {
	return Normalizar(a) == Normalizar(b)
}

// Contiene informa si la versión normalizada de s contiene a la de sub.
func Contiene(s, sub string) bool {
	return strings.Contains(Normalizar(s), Normalizar(sub))
}
