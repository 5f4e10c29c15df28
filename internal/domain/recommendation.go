package domain

type RecommendationCategory string

const (
	CategoryMusic    RecommendationCategory = "music"
	CategoryFood     RecommendationCategory = "food"
	CategoryActivity RecommendationCategory = "activity"
)

// RecommendationItem is one suggestion inside a category.
type RecommendationItem struct {
	Category    RecommendationCategory
	Title       string
	Description string
	Link        string
}

// RecommendationSet holds the categorized suggestions produced for one
// emotion. Replaced wholesale whenever a new detection triggers a
// fetch, cleared on reset.
type RecommendationSet struct {
	Emotion  Emotion
	Music    []RecommendationItem
	Food     []RecommendationItem
	Activity []RecommendationItem
}

// Items returns the slice for one category.
func (s *RecommendationSet) Items(cat RecommendationCategory) []RecommendationItem {
	switch cat {
	case CategoryMusic:
		return s.Music
	case CategoryFood:
		return s.Food
	case CategoryActivity:
		return s.Activity
	default:
		return nil
	}
}

// PopularRecommendation is one row of the admin click leaderboard.
type PopularRecommendation struct {
	Emotion    Emotion
	Category   RecommendationCategory
	Title      string
	ClickCount int
}
