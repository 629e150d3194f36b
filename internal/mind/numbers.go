package mind

import (
	"strconv"
	"strings"
)

// Number words in English and transliterated Hindi. Tens and units can be
// combined ("fifty five", "pachaas paanch" is not idiomatic Hindi but the
// English compound form is accepted).
var unitWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ek": 1, "do": 2, "teen": 3, "char": 4, "chaar": 4, "paanch": 5,
	"panch": 5, "chhe": 6, "saat": 7, "aath": 8, "nau": 9,
}

var teenWords = map[string]int{
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18,
	"nineteen": 19,
	"das": 10, "gyarah": 11, "barah": 12, "pandrah": 15,
}

var tensWords = map[string]int{
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50, "sixty": 60,
	"seventy": 70, "eighty": 80, "ninety": 90,
	"bees": 20, "tees": 30, "chalis": 40, "chaalis": 40, "pachaas": 50,
	"pachas": 50, "sath": 60, "sattar": 70, "assi": 80, "nabbe": 90,
}

var hundredWords = map[string]int{
	"hundred": 100, "sau": 100,
}

// ExtractNumber finds the first number-bearing token in text: digits,
// English number words or Hindi transliterations. Returns false when no
// such token exists ("volume up", "just text").
func ExtractNumber(text string) (int, bool) {
	tokens := strings.Fields(strings.ToLower(text))
	for i, tok := range tokens {
		tok = strings.Trim(tok, ".,!?%")
		if n, err := strconv.Atoi(tok); err == nil {
			return n, true
		}
		if n, ok := hundredWords[tok]; ok {
			return n, true
		}
		if n, ok := teenWords[tok]; ok {
			return n, true
		}
		if n, ok := tensWords[tok]; ok {
			// Compound form: "fifty five" -> 55.
			if i+1 < len(tokens) {
				next := strings.Trim(tokens[i+1], ".,!?%")
				if u, uok := unitWords[next]; uok && u > 0 {
					return n + u, true
				}
			}
			return n, true
		}
		if n, ok := unitWords[tok]; ok {
			// Compound hundreds: "ek sau" / "one hundred" -> 100.
			if i+1 < len(tokens) {
				next := strings.Trim(tokens[i+1], ".,!?%")
				if h, hok := hundredWords[next]; hok {
					return n * h, true
				}
			}
			return n, true
		}
	}
	return 0, false
}
