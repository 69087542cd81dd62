package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mindgrid-games/mindgrid-web/internal/auth"
	"github.com/mindgrid-games/mindgrid-web/internal/logger"
	"github.com/mindgrid-games/mindgrid-web/internal/models"
	"github.com/mindgrid-games/mindgrid-web/internal/services"
	"github.com/mindgrid-games/mindgrid-web/internal/websocket"
)

type PuzzleHandler struct {
	puzzles   *services.PuzzleService
	analytics *services.AnalyticsService
	hub       *websocket.Hub
	log       *logger.Log
}

func NewPuzzleHandler(puzzles *services.PuzzleService, analytics *services.AnalyticsService, hub *websocket.Hub) *PuzzleHandler {
	return &PuzzleHandler{
		puzzles:   puzzles,
		analytics: analytics,
		hub:       hub,
		log:       logger.New(),
	}
}

// RegisterRoutes wires the puzzle and analytics endpoints onto the router.
func RegisterRoutes(r *mux.Router, puzzles *services.PuzzleService, analytics *services.AnalyticsService, hub *websocket.Hub) *PuzzleHandler {
	h := NewPuzzleHandler(puzzles, analytics, hub)

	r.HandleFunc("/puzzle/daily", h.DailyPuzzle).Methods("GET")
	r.HandleFunc("/puzzle/submit", h.Submit).Methods("POST")
	r.HandleFunc("/hint", h.RequestHint).Methods("POST")
	r.HandleFunc("/hint/usage", h.HintUsage).Methods("GET")
	r.HandleFunc("/analytics/retention", h.Retention).Methods("GET")
	r.HandleFunc("/analytics/insights", h.Insights).Methods("GET")
	r.HandleFunc("/analytics/summary", h.Summary).Methods("GET")

	return h
}

// GET /api/v1/puzzle/daily?date=YYYY-MM-DD - today's puzzle for the player
func (h *PuzzleHandler) DailyPuzzle(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if !validDateParam(w, date) {
		return
	}

	p, decision, err := h.puzzles.GenerateDailyPuzzle(auth.UID(r), date)
	if err != nil {
		http.Error(w, "Failed to generate puzzle: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]interface{}{
		"puzzle": p.View(),
		"decision": map[string]interface{}{
			"difficulty":        decision.Difficulty,
			"puzzle_type":       decision.PuzzleType,
			"performance_score": decision.PerformanceScore,
			"trend":             decision.Trend,
			"reason":            decision.Reason,
		},
	})
}

// POST /api/v1/puzzle/submit - check an answer and record the attempt
func (h *PuzzleHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date      string         `json:"date"`
		Answer    *int           `json:"answer"`
		Cells     map[string]int `json:"cells"`
		TimeTaken int            `json:"time_taken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !validDateParam(w, req.Date) {
		return
	}
	if req.TimeTaken < 0 {
		http.Error(w, "time_taken must be non-negative", http.StatusBadRequest)
		return
	}
	cells, ok := parseCells(w, req.Cells)
	if !ok {
		return
	}

	uid := auth.UID(r)
	result, err := h.puzzles.Submit(uid, req.Date, req.Answer, cells, req.TimeTaken)
	if err != nil {
		http.Error(w, "Failed to submit answer: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if result.Correct && result.Score > 0 {
		retention := h.analytics.Retention(uid)
		summary := h.analytics.Summary(uid)
		h.hub.BroadcastSolve(websocket.SolveEvent{
			UID:        uid,
			Date:       req.Date,
			Difficulty: summary.Difficulty,
			Score:      result.Score,
			Streak:     retention.Summary.CurrentStreak,
		})
	}

	writeJSON(w, result)
}

// POST /api/v1/hint - spend one hint from today's budget
func (h *PuzzleHandler) RequestHint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date  string         `json:"date"`
		Guess *int           `json:"guess"`
		Cells map[string]int `json:"cells"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !validDateParam(w, req.Date) {
		return
	}
	cells, ok := parseCells(w, req.Cells)
	if !ok {
		return
	}

	result, err := h.puzzles.RequestHint(auth.UID(r), req.Date, req.Guess, cells)
	if err != nil {
		http.Error(w, "Failed to get hint: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, result)
}

// GET /api/v1/hint/usage?date=YYYY-MM-DD - today's hint budget and usage
func (h *PuzzleHandler) HintUsage(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if !validDateParam(w, date) {
		return
	}
	usage, err := h.puzzles.HintUsage(auth.UID(r), date)
	if err != nil {
		http.Error(w, "Failed to get hint usage: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, usage)
}

// GET /api/v1/analytics/retention - streaks, weekly windows, heatmap
func (h *PuzzleHandler) Retention(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.analytics.Retention(auth.UID(r)))
}

// GET /api/v1/analytics/insights - performance trends and personal bests
func (h *PuzzleHandler) Insights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.analytics.Insights(auth.UID(r)))
}

// GET /api/v1/analytics/summary - the difficulty engine's current decision
func (h *PuzzleHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.analytics.Summary(auth.UID(r)))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// validDateParam rejects malformed dates up front; empty means today and is
// fine.
func validDateParam(w http.ResponseWriter, date string) bool {
	if date == "" {
		return true
	}
	if _, err := models.ParseDate(date); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func parseCells(w http.ResponseWriter, raw map[string]int) (map[int]int, bool) {
	if raw == nil {
		return nil, true
	}
	cells := make(map[int]int, len(raw))
	for key, val := range raw {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx > 15 {
			http.Error(w, "Invalid cell index: "+key, http.StatusBadRequest)
			return nil, false
		}
		cells[idx] = val
	}
	return cells, true
}
