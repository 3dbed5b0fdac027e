package services

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/schollz/closestmatch"

	"github.com/mulvri/nindo/internal/database"
	"github.com/mulvri/nindo/internal/logger"
	"github.com/mulvri/nindo/internal/models"
)

// QuotePack is the on-disk seed format: a JSON file bundling quotes with
// their source attribution.
type QuotePack struct {
	Name    string `json:"name"`
	Sources []struct {
		Anime  string `json:"anime"`
		Credit string `json:"credit"`
	} `json:"sources"`
	Quotes []struct {
		Text   string `json:"text"`
		Author string `json:"author"`
		Anime  string `json:"anime"`
		Mood   string `json:"mood"`
	} `json:"quotes"`
}

// LoadQuotePack reads and parses a quote pack JSON file.
func LoadQuotePack(path string) (*QuotePack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read quote pack: %w", err)
	}

	var pack QuotePack
	if err := json.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("failed to parse quote pack %s: %w", path, err)
	}
	return &pack, nil
}

type QuoteService struct {
	db *database.DB

	mu      sync.Mutex
	matcher *closestmatch.ClosestMatch
	byKey   map[string]int // search key -> quote id
}

func NewQuoteService(db *database.DB) *QuoteService {
	return &QuoteService{db: db}
}

// Seed inserts the pack's quotes when the table is empty. Subsequent starts
// are a no-op so user edits survive.
func (s *QuoteService) Seed(pack *QuotePack) error {
	var count int
	if err := s.db.Get(&count, `SELECT COUNT(*) FROM quotes`); err != nil {
		return fmt.Errorf("failed to count quotes: %w", err)
	}
	if count > 0 {
		return nil
	}

	logger.New().Info(fmt.Sprintf("Seeding %d quotes from pack %q", len(pack.Quotes), pack.Name))

	query := `INSERT INTO quotes (text, author, anime, mood) VALUES (?, ?, ?, ?)`
	for _, q := range pack.Quotes {
		if _, err := s.db.Exec(query, q.Text, q.Author, q.Anime, q.Mood); err != nil {
			return fmt.Errorf("failed to seed quote: %w", err)
		}
	}

	return nil
}

// List returns quotes matching the filter; zero-value filter fields match
// everything.
func (s *QuoteService) List(filter models.QuoteFilter) ([]models.Quote, error) {
	query := `SELECT * FROM quotes WHERE 1=1`
	args := []interface{}{}

	if filter.Anime != "" {
		query += ` AND anime = ?`
		args = append(args, filter.Anime)
	}
	if filter.Mood != "" {
		query += ` AND mood = ?`
		args = append(args, filter.Mood)
	}

	var quotes []models.Quote
	if err := s.db.Select(&quotes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	return quotes, nil
}

// Get returns a single quote by id.
func (s *QuoteService) Get(id int) (*models.Quote, error) {
	var quote models.Quote
	if err := s.db.Get(&quote, `SELECT * FROM quotes WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("quote not found: %w", err)
	}
	return &quote, nil
}

// Favorites returns all quotes marked as favorite.
func (s *QuoteService) Favorites() ([]models.Quote, error) {
	var quotes []models.Quote
	if err := s.db.Select(&quotes, `SELECT * FROM quotes WHERE is_favorite = TRUE`); err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return quotes, nil
}

// ToggleFavorite sets a quote's favorite flag.
func (s *QuoteService) ToggleFavorite(id int, favorite bool) error {
	result, err := s.db.Exec(`UPDATE quotes SET is_favorite = ? WHERE id = ?`, favorite, id)
	if err != nil {
		return fmt.Errorf("failed to toggle favorite: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("quote %d not found", id)
	}
	return nil
}

// UserCreated returns the user's own quotes, newest first.
func (s *QuoteService) UserCreated() ([]models.Quote, error) {
	var quotes []models.Quote
	query := `SELECT * FROM quotes WHERE is_user_created = TRUE ORDER BY id DESC`
	if err := s.db.Select(&quotes, query); err != nil {
		return nil, fmt.Errorf("failed to list user quotes: %w", err)
	}
	return quotes, nil
}

// CreateCustom inserts a user-created quote.
func (s *QuoteService) CreateCustom(req *models.CreateQuoteRequest) (*models.Quote, error) {
	if req.Text == "" || req.Author == "" {
		return nil, fmt.Errorf("quote text and author are required")
	}

	mood := req.Mood
	if mood == "" {
		mood = "determination"
	}
	fontStyle := req.FontStyle
	if fontStyle == "" {
		fontStyle = "default"
	}

	query := `INSERT INTO quotes (text, author, anime, mood, is_user_created, background_image, font_style)
			  VALUES (?, ?, 'Custom', ?, TRUE, ?, ?)`
	result, err := s.db.Exec(query, req.Text, req.Author, mood, req.BackgroundImage, fontStyle)
	if err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get quote ID: %w", err)
	}

	s.invalidateMatcher()
	return s.Get(int(id))
}

// DeleteCustom removes a quote, but only if the user created it. Seed quotes
// are not deletable.
func (s *QuoteService) DeleteCustom(id int) error {
	result, err := s.db.Exec(`DELETE FROM quotes WHERE id = ? AND is_user_created = TRUE`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("quote %d is not a user-created quote", id)
	}

	s.invalidateMatcher()
	return nil
}

// Stats aggregates the user's favorites by anime and mood.
func (s *QuoteService) Stats() (*models.FavoriteStats, error) {
	favorites, err := s.Favorites()
	if err != nil {
		return nil, err
	}

	stats := &models.FavoriteStats{
		TotalFavorites: len(favorites),
		AnimeStats:     make(map[string]int),
		MoodStats:      make(map[string]int),
	}
	for _, q := range favorites {
		stats.AnimeStats[q.Anime]++
		stats.MoodStats[q.Mood]++
	}
	return stats, nil
}

// Search fuzzy-matches quotes by text and author.
func (s *QuoteService) Search(q string, limit int) ([]models.Quote, error) {
	if limit <= 0 {
		limit = 10
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.matcher == nil {
		if err := s.buildMatcher(); err != nil {
			return nil, err
		}
	}

	var out []models.Quote
	for _, key := range s.matcher.ClosestN(q, limit) {
		id, ok := s.byKey[key]
		if !ok {
			continue
		}
		quote, err := s.Get(id)
		if err != nil {
			continue
		}
		out = append(out, *quote)
	}
	return out, nil
}

func (s *QuoteService) buildMatcher() error {
	quotes, err := s.List(models.QuoteFilter{})
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(quotes))
	s.byKey = make(map[string]int, len(quotes))
	for _, q := range quotes {
		key := q.Text + " - " + q.Author
		keys = append(keys, key)
		s.byKey[key] = q.ID
	}

	s.matcher = closestmatch.New(keys, []int{2, 3, 4})
	return nil
}

func (s *QuoteService) invalidateMatcher() {
	s.mu.Lock()
	s.matcher = nil
	s.byKey = nil
	s.mu.Unlock()
}
