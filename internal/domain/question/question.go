package question

import (
	"math/rand/v2"
	"path"
)

// Question is a catalog record. Questions are immutable once authored;
// every other table references them by id.
type Question struct {
	ID            int64
	Text          string
	CorrectAnswer string
	Distractors   [3]string
	CategoryID    int64
	SubcategoryID *int64
	Difficulty    string
	Points        int
	FunFact       string
	Image         string
	Active        bool
}

// Category is a taxonomy grouping key.
type Category struct {
	ID          int64
	Name        string
	DisplayName string
	Active      bool
}

// Subcategory optionally belongs to exactly one category.
type Subcategory struct {
	ID          int64
	CategoryID  *int64
	Name        string
	DisplayName string
	Active      bool
}

// Selected is a catalog row as the selector fetches it: the question plus
// its taxonomy names and cumulative times-asked count.
type Selected struct {
	Question
	CategoryName    string
	SubcategoryName string
	TimesAsked      int64
}

// Formatted is a question prepared for presentation: options shuffled,
// correct index recomputed from the shuffled list.
type Formatted struct {
	ID          int64    `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Difficulty  string   `json:"difficulty"`
	Points      int      `json:"points"`
	FunFact     string   `json:"fun_fact"`
	Image       string   `json:"image,omitempty"`
}

// Format builds the presentation form of a selected question. The four
// options are a uniform permutation of the three distractors plus the
// correct answer; Correct is always recomputed as the index of the
// correct-answer text after the shuffle, never assumed.
func Format(sq Selected, imageFolder string) Formatted {
	options := []string{sq.Distractors[0], sq.Distractors[1], sq.Distractors[2], sq.CorrectAnswer}
	rand.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	correct := 0
	for i, opt := range options {
		if opt == sq.CorrectAnswer {
			correct = i
			break
		}
	}

	return Formatted{
		ID:          sq.ID,
		Question:    sq.Text,
		Options:     options,
		Correct:     correct,
		Type:        sq.CategoryName + "_quiz",
		Category:    sq.CategoryName,
		Subcategory: sq.SubcategoryName,
		Difficulty:  sq.Difficulty,
		Points:      sq.Points,
		FunFact:     sq.FunFact,
		Image:       BuildImagePath(sq.Image, imageFolder),
	}
}

// BuildImagePath returns "assets/<folder>/<image>", or "" when either the
// image or the folder is unset.
func BuildImagePath(image, folder string) string {
	if image == "" || folder == "" {
		return ""
	}
	return path.Join("assets", folder, image)
}
