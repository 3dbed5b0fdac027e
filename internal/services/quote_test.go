package services

import (
	"testing"

	"github.com/mulvri/nindo/internal/models"
)

func seededQuoteService(t *testing.T) *QuoteService {
	t.Helper()
	s := NewQuoteService(newTestDB(t))

	pack := &QuotePack{Name: "test pack"}
	pack.Quotes = []struct {
		Text   string `json:"text"`
		Author string `json:"author"`
		Anime  string `json:"anime"`
		Mood   string `json:"mood"`
	}{
		{"Never give up", "Naruto Uzumaki", "Naruto", "determination"},
		{"I will be king of the pirates", "Monkey D. Luffy", "One Piece", "courage"},
		{"A lesson without pain is meaningless", "Edward Elric", "Fullmetal Alchemist", "wisdom"},
	}

	if err := s.Seed(pack); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	return s
}

func TestSeedIsIdempotent(t *testing.T) {
	s := seededQuoteService(t)

	pack := &QuotePack{Name: "second pack"}
	pack.Quotes = []struct {
		Text   string `json:"text"`
		Author string `json:"author"`
		Anime  string `json:"anime"`
		Mood   string `json:"mood"`
	}{
		{"Extra", "Nobody", "None", "calm"},
	}
	if err := s.Seed(pack); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	quotes, err := s.List(models.QuoteFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(quotes) != 3 {
		t.Errorf("reseeding a non-empty table must be a no-op, got %d quotes", len(quotes))
	}
}

func TestListFilters(t *testing.T) {
	s := seededQuoteService(t)

	quotes, err := s.List(models.QuoteFilter{Anime: "Naruto"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(quotes) != 1 || quotes[0].Author != "Naruto Uzumaki" {
		t.Errorf("unexpected anime filter result: %+v", quotes)
	}

	quotes, err = s.List(models.QuoteFilter{Mood: "wisdom"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(quotes) != 1 || quotes[0].Anime != "Fullmetal Alchemist" {
		t.Errorf("unexpected mood filter result: %+v", quotes)
	}
}

func TestToggleFavoriteAndStats(t *testing.T) {
	s := seededQuoteService(t)

	if err := s.ToggleFavorite(1, true); err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if err := s.ToggleFavorite(999, true); err == nil {
		t.Error("expected an error for an unknown quote id")
	}

	favorites, err := s.Favorites()
	if err != nil {
		t.Fatalf("Favorites failed: %v", err)
	}
	if len(favorites) != 1 || favorites[0].ID != 1 {
		t.Errorf("unexpected favorites: %+v", favorites)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalFavorites != 1 || stats.AnimeStats["Naruto"] != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestCustomQuoteLifecycle(t *testing.T) {
	s := seededQuoteService(t)

	quote, err := s.CreateCustom(&models.CreateQuoteRequest{Text: "My own words", Author: "Me"})
	if err != nil {
		t.Fatalf("CreateCustom failed: %v", err)
	}
	if !quote.IsUserCreated || quote.Anime != "Custom" {
		t.Errorf("unexpected custom quote: %+v", quote)
	}
	if quote.Mood != "determination" {
		t.Errorf("expected default mood, got %q", quote.Mood)
	}

	// Seed quotes cannot be deleted
	if err := s.DeleteCustom(1); err == nil {
		t.Error("expected an error deleting a seed quote")
	}

	if err := s.DeleteCustom(quote.ID); err != nil {
		t.Fatalf("DeleteCustom failed: %v", err)
	}

	custom, err := s.UserCreated()
	if err != nil {
		t.Fatalf("UserCreated failed: %v", err)
	}
	if len(custom) != 0 {
		t.Errorf("expected no custom quotes left, got %+v", custom)
	}
}

func TestSearchFindsCloseMatches(t *testing.T) {
	s := seededQuoteService(t)

	results, err := s.Search("never giv up", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected at least one search result")
	}
	if results[0].Text != "Never give up" {
		t.Errorf("expected the close match first, got %q", results[0].Text)
	}
}
