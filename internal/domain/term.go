package domain

import "time"

// Vocabulary identifies one of the three independent taxonomies a camp can be
// tagged with.
type Vocabulary string

const (
	VocabType     Vocabulary = "type"
	VocabWeek     Vocabulary = "week"
	VocabActivity Vocabulary = "activity"
)

// Vocabularies lists every vocabulary in a fixed order.
var Vocabularies = []Vocabulary{VocabType, VocabWeek, VocabActivity}

// ParseVocabulary accepts the singular or plural vocabulary name.
func ParseVocabulary(s string) (Vocabulary, bool) {
	switch s {
	case "type", "types":
		return VocabType, true
	case "week", "weeks":
		return VocabWeek, true
	case "activity", "activities":
		return VocabActivity, true
	}
	return "", false
}

// Term is a named tag within one vocabulary.
// Identity within the vocabulary is the Slug; Name keeps the spelling supplied
// when the term was first created.
type Term struct {
	ID         int64
	Vocabulary Vocabulary
	Name       string
	Slug       string
	Active     bool
	SortOrder  int
	CreatedAt  time.Time
}
