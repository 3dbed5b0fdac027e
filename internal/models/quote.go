package models

// Quote is a single entry in the quote library. Seed quotes come from the
// bundled quote pack; user-created ones are flagged so they can be deleted.
type Quote struct {
	ID              int    `json:"id" db:"id"`
	Text            string `json:"text" db:"text"`
	Author          string `json:"author" db:"author"`
	Anime           string `json:"anime" db:"anime"`
	Mood            string `json:"mood" db:"mood"`
	IsFavorite      bool   `json:"is_favorite" db:"is_favorite"`
	IsUserCreated   bool   `json:"is_user_created" db:"is_user_created"`
	BackgroundImage string `json:"background_image" db:"background_image"`
	FontStyle       string `json:"font_style" db:"font_style"`
}

// QuoteFilter narrows quote listing by anime and/or mood.
type QuoteFilter struct {
	Anime string `json:"anime"`
	Mood  string `json:"mood"`
}

// CreateQuoteRequest is the payload for a user-created quote.
type CreateQuoteRequest struct {
	Text            string `json:"text" validate:"required,min=1"`
	Author          string `json:"author" validate:"required,min=1"`
	Mood            string `json:"mood"`
	BackgroundImage string `json:"background_image"`
	FontStyle       string `json:"font_style"`
}

// FavoriteStats aggregates the user's favorites by anime and mood.
type FavoriteStats struct {
	TotalFavorites int            `json:"total_favorites"`
	AnimeStats     map[string]int `json:"anime_stats"`
	MoodStats      map[string]int `json:"mood_stats"`
}
