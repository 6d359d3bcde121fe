package story

// Item represents a single personalized children's story.
type Item struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	AudioURL    string `json:"audio_url,omitempty"`
	Category    string `json:"category"`
	AgeGroup    string `json:"age_group"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}
