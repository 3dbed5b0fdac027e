package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mulvri/nindo/internal/logger"
	"github.com/mulvri/nindo/internal/models"
	"github.com/mulvri/nindo/internal/notify"
	"github.com/mulvri/nindo/internal/services"
)

type Handler struct {
	quotes        *services.QuoteService
	streak        *services.StreakService
	mood          *services.MoodService
	achievements  *services.AchievementService
	reminders     *services.ReminderService
	prefs         *services.PrefsService
	notifications *services.NotificationService
	scheduler     *notify.Scheduler
	notifier      notify.Notifier
	log           *logger.Log
}

func NewHandler(
	quotes *services.QuoteService,
	streak *services.StreakService,
	mood *services.MoodService,
	achievements *services.AchievementService,
	reminders *services.ReminderService,
	prefs *services.PrefsService,
	notifications *services.NotificationService,
	scheduler *notify.Scheduler,
	notifier notify.Notifier,
	log *logger.Log,
) *Handler {
	return &Handler{
		quotes:        quotes,
		streak:        streak,
		mood:          mood,
		achievements:  achievements,
		reminders:     reminders,
		prefs:         prefs,
		notifications: notifications,
		scheduler:     scheduler,
		notifier:      notifier,
		log:           log,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(mux.Vars(r)["id"])
}

func queryInt(r *http.Request, name string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(name))
	return n
}

// GET /api/v1/quotes - List quotes, optionally filtered by anime or mood
func (h *Handler) ListQuotes(w http.ResponseWriter, r *http.Request) {
	filter := models.QuoteFilter{
		Anime: r.URL.Query().Get("anime"),
		Mood:  r.URL.Query().Get("mood"),
	}

	quotes, err := h.quotes.List(filter)
	if err != nil {
		http.Error(w, "Failed to list quotes", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quotes": quotes})
}

// GET /api/v1/quotes/search?q=... - Fuzzy search by text and author
func (h *Handler) SearchQuotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		http.Error(w, "Missing query parameter q", http.StatusBadRequest)
		return
	}

	quotes, err := h.quotes.Search(q, queryInt(r, "limit"))
	if err != nil {
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quotes": quotes})
}

// GET /api/v1/quotes/favorites
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quotes.Favorites()
	if err != nil {
		http.Error(w, "Failed to list favorites", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quotes": quotes})
}

// GET /api/v1/quotes/custom - Quotes the user wrote themselves
func (h *Handler) ListCustomQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quotes.UserCreated()
	if err != nil {
		http.Error(w, "Failed to list custom quotes", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"quotes": quotes})
}

// GET /api/v1/quotes/stats
func (h *Handler) QuoteStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.quotes.Stats()
	if err != nil {
		http.Error(w, "Failed to get quote stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GET /api/v1/quotes/{id}
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid quote id", http.StatusBadRequest)
		return
	}

	quote, err := h.quotes.Get(id)
	if err != nil {
		http.Error(w, "Quote not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// POST /api/v1/quotes - Create a user quote
func (h *Handler) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req models.CreateQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "Quote text is required", http.StatusBadRequest)
		return
	}

	quote, err := h.quotes.CreateCustom(&req)
	if err != nil {
		http.Error(w, "Failed to create quote", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, quote)
}

// DELETE /api/v1/quotes/{id} - Delete a user quote
func (h *Handler) DeleteQuote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid quote id", http.StatusBadRequest)
		return
	}

	if err := h.quotes.DeleteCustom(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/quotes/{id}/favorite
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid quote id", http.StatusBadRequest)
		return
	}

	var req struct {
		IsFavorite bool `json:"is_favorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.quotes.ToggleFavorite(id, req.IsFavorite); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_favorite": req.IsFavorite})
}

// POST /api/v1/streak/open - Record an app opening
func (h *Handler) RecordOpening(w http.ResponseWriter, r *http.Request) {
	result, newly, err := h.streak.RecordOpening()
	if err != nil {
		http.Error(w, "Failed to record opening", http.StatusInternalServerError)
		return
	}

	for _, m := range newly {
		err := h.notifier.Send(notify.Notification{
			Title: fmt.Sprintf("%s %s", m.Icon, m.Title),
			Body:  m.Desc,
			Type:  models.NotifTypeMilestone,
		})
		if err != nil {
			h.log.WithError(err).Error("Failed to send milestone notification")
		}
	}

	prefs, err := h.prefs.Get()
	if err != nil {
		http.Error(w, "Failed to load progress", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result":       result,
		"new_unlocks":  newly,
		"streak_count": prefs.StreakCount,
		"best_streak":  prefs.BestStreak,
		"xp":           prefs.XP,
	})
}

// GET /api/v1/streak/history?days=7
func (h *Handler) StreakHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.streak.History(queryInt(r, "days"))
	if err != nil {
		http.Error(w, "Failed to get streak history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"history": history})
}

// POST /api/v1/mood - Record today's mood
func (h *Handler) SelectMood(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mood   string `json:"mood"`
		Source string `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.mood.SelectDaily(req.Mood, req.Source); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mood": req.Mood})
}

// GET /api/v1/mood/today
func (h *Handler) TodayMood(w http.ResponseWriter, r *http.Request) {
	mood, err := h.mood.Today()
	if err != nil {
		http.Error(w, "Failed to get today's mood", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"mood": mood})
}

// GET /api/v1/mood/should-ask - Whether the mood selector should pop up
func (h *Handler) ShouldAskMood(w http.ResponseWriter, r *http.Request) {
	ask, err := h.mood.ShouldAskToday()
	if err != nil {
		http.Error(w, "Failed to evaluate mood prompt", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"should_ask": ask})
}

// GET /api/v1/mood/history?days=30
func (h *Handler) MoodHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.mood.History(queryInt(r, "days"))
	if err != nil {
		http.Error(w, "Failed to get mood history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"history": history})
}

// GET /api/v1/mood/stats?days=30
func (h *Handler) MoodStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.mood.Stats(queryInt(r, "days"))
	if err != nil {
		http.Error(w, "Failed to get mood stats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GET /api/v1/mood/trend?days=30
func (h *Handler) MoodTrend(w http.ResponseWriter, r *http.Request) {
	trend, err := h.mood.Trend(queryInt(r, "days"))
	if err != nil {
		http.Error(w, "Failed to get mood trend", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"trend": trend})
}

// GET /api/v1/achievements - All milestones with unlock state
func (h *Handler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	views, err := h.achievements.List()
	if err != nil {
		http.Error(w, "Failed to list achievements", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"achievements": views})
}

// GET /api/v1/achievements/unnotified
func (h *Handler) UnnotifiedAchievements(w http.ResponseWriter, r *http.Request) {
	pending, err := h.achievements.Unnotified()
	if err != nil {
		http.Error(w, "Failed to list unnotified achievements", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"achievements": pending})
}

// POST /api/v1/achievements/{id}/notified
func (h *Handler) MarkAchievementNotified(w http.ResponseWriter, r *http.Request) {
	achievementID := mux.Vars(r)["id"]
	if _, ok := services.MilestoneByID(achievementID); !ok {
		http.Error(w, "Unknown achievement", http.StatusNotFound)
		return
	}

	if err := h.achievements.MarkNotified(achievementID); err != nil {
		http.Error(w, "Failed to mark achievement notified", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/reminders
func (h *Handler) ListReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.reminders.List()
	if err != nil {
		http.Error(w, "Failed to list reminders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"reminders": reminders})
}

// GET /api/v1/reminders/{id}
func (h *Handler) GetReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid reminder id", http.StatusBadRequest)
		return
	}

	reminder, err := h.reminders.Get(id)
	if err != nil {
		http.Error(w, "Reminder not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

// POST /api/v1/reminders
func (h *Handler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var req models.ReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reminder, err := h.reminders.Create(&req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.resync()
	writeJSON(w, http.StatusCreated, reminder)
}

// PUT /api/v1/reminders/{id}
func (h *Handler) UpdateReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid reminder id", http.StatusBadRequest)
		return
	}

	var req models.ReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	reminder, err := h.reminders.Update(id, &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.resync()
	writeJSON(w, http.StatusOK, reminder)
}

// DELETE /api/v1/reminders/{id}
func (h *Handler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid reminder id", http.StatusBadRequest)
		return
	}

	if err := h.reminders.Delete(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	h.resync()
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/reminders/sync - Rebuild the notification queue
func (h *Handler) SyncReminders(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.Sync(); err != nil {
		http.Error(w, "Failed to sync reminders", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"pending": len(h.notifier.Pending())})
}

// resync rebuilds the queue after a reminder change. Failures are logged;
// the reminder write itself already succeeded.
func (h *Handler) resync() {
	if err := h.scheduler.Sync(); err != nil {
		h.log.WithError(err).Error("Failed to resync notifications")
	}
}

// GET /api/v1/notifications?limit=50
func (h *Handler) NotificationHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.notifications.History(queryInt(r, "limit"))
	if err != nil {
		http.Error(w, "Failed to get notification history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notifications": history})
}

// GET /api/v1/notifications/unread-count
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notifications.UnreadCount()
	if err != nil {
		http.Error(w, "Failed to count unread notifications", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"unread": count})
}

// POST /api/v1/notifications/{id}/read
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid notification id", http.StatusBadRequest)
		return
	}

	if err := h.notifications.MarkRead(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/notifications/read-all
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.MarkAllRead(); err != nil {
		http.Error(w, "Failed to mark notifications read", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/v1/notifications/{id}
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "Invalid notification id", http.StatusBadRequest)
		return
	}

	if err := h.notifications.Delete(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /api/v1/notifications
func (h *Handler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.Clear(); err != nil {
		http.Error(w, "Failed to clear notifications", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/preferences
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.prefs.Get()
	if err != nil {
		http.Error(w, "Failed to get preferences", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// PUT /api/v1/preferences - Partial update; only present fields change
func (h *Handler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	var req models.SavePreferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.prefs.Save(&req); err != nil {
		http.Error(w, "Failed to save preferences", http.StatusInternalServerError)
		return
	}

	prefs, err := h.prefs.Get()
	if err != nil {
		http.Error(w, "Failed to reload preferences", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

// POST /api/v1/preferences/reset - Wipe all user data
func (h *Handler) ResetPreferences(w http.ResponseWriter, r *http.Request) {
	if err := h.prefs.Reset(); err != nil {
		http.Error(w, "Failed to reset preferences", http.StatusInternalServerError)
		return
	}

	h.resync()
	prefs, err := h.prefs.Get()
	if err != nil {
		http.Error(w, "Failed to reload preferences", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func RegisterRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/quotes", h.ListQuotes).Methods("GET")
	r.HandleFunc("/quotes", h.CreateQuote).Methods("POST")
	r.HandleFunc("/quotes/search", h.SearchQuotes).Methods("GET")
	r.HandleFunc("/quotes/favorites", h.ListFavorites).Methods("GET")
	r.HandleFunc("/quotes/custom", h.ListCustomQuotes).Methods("GET")
	r.HandleFunc("/quotes/stats", h.QuoteStats).Methods("GET")
	r.HandleFunc("/quotes/{id:[0-9]+}", h.GetQuote).Methods("GET")
	r.HandleFunc("/quotes/{id:[0-9]+}", h.DeleteQuote).Methods("DELETE")
	r.HandleFunc("/quotes/{id:[0-9]+}/favorite", h.ToggleFavorite).Methods("POST")

	r.HandleFunc("/streak/open", h.RecordOpening).Methods("POST")
	r.HandleFunc("/streak/history", h.StreakHistory).Methods("GET")

	r.HandleFunc("/mood", h.SelectMood).Methods("POST")
	r.HandleFunc("/mood/today", h.TodayMood).Methods("GET")
	r.HandleFunc("/mood/should-ask", h.ShouldAskMood).Methods("GET")
	r.HandleFunc("/mood/history", h.MoodHistory).Methods("GET")
	r.HandleFunc("/mood/stats", h.MoodStats).Methods("GET")
	r.HandleFunc("/mood/trend", h.MoodTrend).Methods("GET")

	r.HandleFunc("/achievements", h.ListAchievements).Methods("GET")
	r.HandleFunc("/achievements/unnotified", h.UnnotifiedAchievements).Methods("GET")
	r.HandleFunc("/achievements/{id}/notified", h.MarkAchievementNotified).Methods("POST")

	r.HandleFunc("/reminders", h.ListReminders).Methods("GET")
	r.HandleFunc("/reminders", h.CreateReminder).Methods("POST")
	r.HandleFunc("/reminders/sync", h.SyncReminders).Methods("POST")
	r.HandleFunc("/reminders/{id:[0-9]+}", h.GetReminder).Methods("GET")
	r.HandleFunc("/reminders/{id:[0-9]+}", h.UpdateReminder).Methods("PUT")
	r.HandleFunc("/reminders/{id:[0-9]+}", h.DeleteReminder).Methods("DELETE")

	r.HandleFunc("/notifications", h.NotificationHistory).Methods("GET")
	r.HandleFunc("/notifications", h.ClearNotifications).Methods("DELETE")
	r.HandleFunc("/notifications/unread-count", h.UnreadCount).Methods("GET")
	r.HandleFunc("/notifications/read-all", h.MarkAllNotificationsRead).Methods("POST")
	r.HandleFunc("/notifications/{id:[0-9]+}/read", h.MarkNotificationRead).Methods("POST")
	r.HandleFunc("/notifications/{id:[0-9]+}", h.DeleteNotification).Methods("DELETE")

	r.HandleFunc("/preferences", h.GetPreferences).Methods("GET")
	r.HandleFunc("/preferences", h.SavePreferences).Methods("PUT")
	r.HandleFunc("/preferences/reset", h.ResetPreferences).Methods("POST")
}
