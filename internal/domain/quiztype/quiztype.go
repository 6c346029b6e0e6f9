package quiztype

import (
	"fmt"
	"sort"
	"strings"
)

// Config maps a user-facing quiz type onto the (category, subcategory)
// pair the catalog is queried with. ImageFolder is set only for quiz
// types whose questions carry illustrations.
type Config struct {
	Category    string
	Subcategory string
	ImageFolder string
	Label       string
}

// registry is the static quiz-type table. The surrounding application can
// extend it without touching the selection engine.
var registry = map[string]Config{
	"flag":          {Category: "geography", Subcategory: "flag", ImageFolder: "flags", Label: "Flags"},
	"capital":       {Category: "geography", Subcategory: "capital", Label: "Capitals"},
	"currency":      {Category: "geography", Subcategory: "currency", Label: "Currencies"},
	"continent":     {Category: "geography", Subcategory: "continent", Label: "Continents"},
	"us_capital":    {Category: "geography", Subcategory: "us_capital", Label: "US State Capitals"},
	"biology":       {Category: "science", Subcategory: "biology", Label: "Biology"},
	"chemistry":     {Category: "science", Subcategory: "chemistry", Label: "Chemistry"},
	"famous_people": {Category: "history", Subcategory: "famous_people", ImageFolder: "famous", Label: "Famous People"},
	"wonders":       {Category: "history", Subcategory: "wonders", ImageFolder: "wonders", Label: "World Wonders"},
	"k5_math":       {Category: "math", Subcategory: "k5_math", ImageFolder: "math_images", Label: "K-5 Math"},
}

// UnknownTypeError is returned when a quiz type has no registry entry.
// Its message names the offending type and lists every valid one.
type UnknownTypeError struct {
	QuizType string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown quiz type: %s. Available types: %s", e.QuizType, strings.Join(Types(), ", "))
}

// Lookup resolves a quiz type to its configuration.
func Lookup(quizType string) (Config, error) {
	cfg, ok := registry[quizType]
	if !ok {
		return Config{}, &UnknownTypeError{QuizType: quizType}
	}
	return cfg, nil
}

// Types returns all registered quiz types, sorted.
func Types() []string {
	types := make([]string, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// TypesByCategory returns the quiz types whose configured category matches.
func TypesByCategory(category string) []string {
	var types []string
	for t, cfg := range registry {
		if cfg.Category == category {
			types = append(types, t)
		}
	}
	sort.Strings(types)
	return types
}

// DisplayName returns the human-readable label for a quiz type. Unknown
// types fall back to title-casing the identifier.
func DisplayName(quizType string) string {
	if cfg, ok := registry[quizType]; ok && cfg.Label != "" {
		return cfg.Label
	}
	words := strings.Split(quizType, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
