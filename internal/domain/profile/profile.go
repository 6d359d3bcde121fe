package profile

// Profile holds the questionnaire answers collected for a child. It drives
// story generation and question difficulty.
type Profile struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Age         int      `json:"age"`
	Personality string   `json:"personality"`
	Interests   []string `json:"interests"`
	Dislikes    []string `json:"dislikes"`
}
