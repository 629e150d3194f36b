package mind

import (
	"strings"
	"unicode"
)

// Transliterated Hindi words that mark Latin-script input as Hinglish.
// Kept short on purpose: one marker is enough to tag the utterance as
// mixed, and these words are rare in plain English.
var hinglishMarkers = map[string]bool{
	"karo": true, "kar": true, "kya": true, "hai": true, "nahi": true,
	"nahin": true, "haan": true, "batao": true, "kholo": true, "baja": true,
	"bajao": true, "badhao": true, "badha": true, "kam": true,
	"awaaz": true, "awaz": true, "yaar": true, "abhi": true, "mujhe": true,
	"chalao": true, "dhoondo": true, "dhundo": true, "ko": true, "mein": true,
	"jaldi": true, "thoda": true, "kaise": true, "namaste": true, "theek": true,
}

// DetectLanguage tags an utterance as "en", "hi" or "mixed".
// Devanagari-only text is Hindi; Devanagari plus Latin, or Latin text
// containing transliterated Hindi markers, is mixed; otherwise English.
func DetectLanguage(text string) string {
	var devanagari, latin bool
	for _, r := range text {
		switch {
		case r >= 0x0900 && r <= 0x097F:
			devanagari = true
		case unicode.IsLetter(r) && r < 0x0250:
			latin = true
		}
	}
	if devanagari && latin {
		return "mixed"
	}
	if devanagari {
		return "hi"
	}
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if hinglishMarkers[strings.Trim(tok, ".,!?")] {
			return "mixed"
		}
	}
	return "en"
}
