package sim

import (
	"log"
	"strings"
	"unicode"
)

// NameMustBeValid panics if the name does not follow the naming convention.
// A name is a series of dot-separated tokens, for example "Run.Relaxation".
// Every token must be non-empty and start with a capital letter.
func NameMustBeValid(name string) {
	for _, token := range strings.Split(name, ".") {
		if token == "" {
			log.Panicf("name %q is not valid: empty token", name)
		}

		if !unicode.IsUpper([]rune(token)[0]) {
			log.Panicf("name %q is not valid: token %q is not capitalized",
				name, token)
		}
	}
}
