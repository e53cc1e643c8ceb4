// Package languages holds the fixed set of target languages offered to users.
package languages

import "strings"

// Language is one selectable translation target.
type Language struct {
	Code string
	Name string
	// Accuracy is the estimated translation quality shown to users, in percent.
	Accuracy int
}

// DefaultAccuracy is reported for codes missing from the table.
const DefaultAccuracy = 70

var all = []Language{
	{Code: "hi", Name: "Hindi", Accuracy: 90},
	{Code: "bn", Name: "Bengali", Accuracy: 87},
	{Code: "te", Name: "Telugu", Accuracy: 75},
	{Code: "mr", Name: "Marathi", Accuracy: 85},
	{Code: "ta", Name: "Tamil", Accuracy: 85},
	{Code: "gu", Name: "Gujarati", Accuracy: 80},
	{Code: "kn", Name: "Kannada", Accuracy: 75},
	{Code: "ml", Name: "Malayalam", Accuracy: 75},
	{Code: "pa", Name: "Punjabi", Accuracy: 80},
	{Code: "ur", Name: "Urdu", Accuracy: 90},
	{Code: "as", Name: "Assamese", Accuracy: 65},
	{Code: "or", Name: "Odia", Accuracy: 70},
	{Code: "sa", Name: "Sanskrit", Accuracy: 60},
	{Code: "en", Name: "English", Accuracy: 95},
}

// All returns the supported languages in menu order.
func All() []Language {
	out := make([]Language, len(all))
	copy(out, all)
	return out
}

// Codes returns the supported language codes in menu order.
func Codes() []string {
	out := make([]string, len(all))
	for i, l := range all {
		out[i] = l.Code
	}
	return out
}

// Lookup resolves a code or an English name, case-insensitively.
func Lookup(s string) (Language, bool) {
	s = strings.TrimSpace(s)
	for _, l := range all {
		if strings.EqualFold(l.Code, s) || strings.EqualFold(l.Name, s) {
			return l, true
		}
	}
	return Language{}, false
}

// Valid reports whether code is a supported target.
func Valid(code string) bool {
	_, ok := Lookup(code)
	return ok
}

// Accuracy returns the estimate for code, or DefaultAccuracy.
func Accuracy(code string) int {
	if l, ok := Lookup(code); ok {
		return l.Accuracy
	}
	return DefaultAccuracy
}
