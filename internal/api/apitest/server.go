// Package apitest runs an in-memory SereniTree backend for tests.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

const Token = "test-token"

const stamp = "2006-01-02T15:04:05.000000Z07:00"

// Server is a fake backend rooted at /api. Records are kept as plain maps in
// the backend's snake_case wire shape.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	token    string
	nextID   int
	moods    []map[string]any
	journal  []map[string]any
	insights []map[string]any
	payments []map[string]any
	settings map[string]any
	hits     map[string]int

	// BeforeMoodCreate runs inside the create handler before the entry is
	// stored. Tests use it to hold a save in flight.
	BeforeMoodCreate func()
	failChat bool
	declines map[string]string
}

func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		token:    Token,
		hits:     map[string]int{},
		declines: map[string]string{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", s.login)
	mux.HandleFunc("POST /api/auth/register", s.register)
	mux.HandleFunc("GET /api/auth/profile", s.auth(s.profile))
	mux.HandleFunc("PUT /api/auth/change-password", s.auth(s.ok))

	mux.HandleFunc("GET /api/mood/entries", s.auth(s.listMoods))
	mux.HandleFunc("POST /api/mood/entries", s.auth(s.createMood))
	mux.HandleFunc("GET /api/mood/entries/{id}", s.auth(s.getMood))
	mux.HandleFunc("PUT /api/mood/entries/{id}", s.auth(s.updateMood))
	mux.HandleFunc("DELETE /api/mood/entries/{id}", s.auth(s.deleteMood))
	mux.HandleFunc("GET /api/mood/today", s.auth(s.todayMood))
	mux.HandleFunc("GET /api/mood/stats", s.auth(s.moodStats))

	mux.HandleFunc("GET /api/journal/entries", s.auth(s.listJournal))
	mux.HandleFunc("POST /api/journal/entries", s.auth(s.createJournal))
	mux.HandleFunc("GET /api/journal/entries/{id}", s.auth(s.getJournal))
	mux.HandleFunc("PUT /api/journal/entries/{id}", s.auth(s.updateJournal))
	mux.HandleFunc("DELETE /api/journal/entries/{id}", s.auth(s.deleteJournal))

	mux.HandleFunc("POST /api/chat/message", s.auth(s.chat))
	mux.HandleFunc("GET /api/chat/proactive-check-in", s.auth(s.checkIn))
	mux.HandleFunc("POST /api/sentiment/analyze", s.auth(s.analyze))
	mux.HandleFunc("GET /api/sentiment/trends", s.auth(s.trends))

	mux.HandleFunc("GET /api/insights", s.auth(s.listInsights))
	mux.HandleFunc("GET /api/insights/daily", s.auth(s.dailyInsight))
	mux.HandleFunc("GET /api/insights/urgent", s.auth(s.urgentInsights))
	mux.HandleFunc("PUT /api/insights/{id}/read", s.auth(s.readInsight))
	mux.HandleFunc("PUT /api/insights/{id}/dismiss", s.auth(s.dismissInsight))

	mux.HandleFunc("POST /api/payments/{provider}/initialize", s.auth(s.initPayment))
	mux.HandleFunc("GET /api/payments/{provider}/verify/{tx}", s.auth(s.verifyPayment))
	mux.HandleFunc("GET /api/payments/history", s.auth(s.paymentHistory))
	mux.HandleFunc("POST /api/payments/subscription/cancel", s.auth(s.cancelSubscription))

	mux.HandleFunc("GET /api/user/settings", s.auth(s.getSettings))
	mux.HandleFunc("PUT /api/user/settings", s.auth(s.putSettings))
	mux.HandleFunc("PUT /api/user/profile", s.auth(s.profile))
	mux.HandleFunc("GET /api/user/export-data", s.auth(s.export))
	mux.HandleFunc("DELETE /api/user/account", s.auth(s.ok))

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to hand to api.Config.
func (s *Server) BaseURL() string { return s.URL + "/api" }

// Hits counts requests for "METHOD /api/path".
func (s *Server) Hits(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[key]
}

func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

// FailChat makes /chat/message answer 503.
func (s *Server) FailChat(fail bool) {
	s.mu.Lock()
	s.failChat = fail
	s.mu.Unlock()
}

// Decline makes the provider's initialize endpoint answer 400 with msg.
func (s *Server) Decline(provider, msg string) {
	s.mu.Lock()
	s.declines[provider] = msg
	s.mu.Unlock()
}

// ExpireToken makes every authenticated endpoint answer 401.
func (s *Server) ExpireToken() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}

func (s *Server) AddInsight(insightType, priority, text string, read bool) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newID()
	s.insights = append(s.insights, map[string]any{
		"id":           id,
		"insight_type": insightType,
		"priority":     priority,
		"insight_text": text,
		"is_read":      read,
		"created_at":   time.Now().UTC().Format(time.RFC3339),
	})
	return id
}

func (s *Server) AddJournal(title, content string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.newID()
	oid := fmt.Sprintf("%024x", s.nextID)
	now := time.Now().UTC().Format(time.RFC3339)
	s.journal = append(s.journal, map[string]any{
		"_id":        map[string]any{"$oid": oid},
		"title":      title,
		"content":    content,
		"is_private": true,
		"tags":       []string{},
		"created_at": now,
		"updated_at": now,
	})
	return oid
}

func (s *Server) newID() string {
	s.nextID++
	return strconv.Itoa(s.nextID)
}

func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		want := s.token
		s.mu.Unlock()
		if want == "" || r.Header.Get("Authorization") != "Bearer "+want {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Token is invalid or expired"})
			return
		}
		next(w, r)
	}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in map[string]string
	_ = json.NewDecoder(r.Body).Decode(&in)
	if in["password"] != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Invalid email or password"})
		return
	}
	s.mu.Lock()
	s.token = Token
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": Token,
		"user":         map[string]any{"id": "u1", "email": in["email"], "first_name": "Ada", "last_name": "Lovelace"},
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in map[string]any
	_ = json.NewDecoder(r.Body).Decode(&in)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "User created", "user": in})
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{
		"id": "u1", "email": "ada@example.com", "firstName": "Ada", "lastName": "Lovelace", "isPremium": false,
	}})
}

func (s *Server) ok(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})
}

func (s *Server) listMoods(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	s.mu.Lock()
	entries := append([]map[string]any(nil), s.moods...)
	s.mu.Unlock()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i]["created_at"].(string) > entries[j]["created_at"].(string)
	})
	total := len(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "total": total})
}

func (s *Server) createMood(w http.ResponseWriter, r *http.Request) {
	var in map[string]any
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
		return
	}
	if s.BeforeMoodCreate != nil {
		s.BeforeMoodCreate()
	}
	level, _ := in["moodLevel"].(float64)
	if level < 1 || level > 5 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Mood level must be between 1 and 5"})
		return
	}
	s.mu.Lock()
	now := time.Now().UTC().Add(time.Duration(s.nextID) * time.Millisecond).Format(stamp)
	entry := map[string]any{
		"id":         s.newID(),
		"user_id":    "u1",
		"mood_level": int(level),
		"emoji":      in["emoji"],
		"note":       in["note"],
		"triggers":   in["triggers"],
		"created_at": now,
		"updated_at": now,
	}
	s.moods = append(s.moods, entry)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Mood entry created", "entry": entry})
}

func (s *Server) findMood(id string) (int, map[string]any) {
	for i, m := range s.moods {
		if m["id"] == id {
			return i, m
		}
	}
	return -1, nil
}

func (s *Server) getMood(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, m := s.findMood(r.PathValue("id"))
	if m == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Mood entry not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entry": m})
}

func (s *Server) updateMood(w http.ResponseWriter, r *http.Request) {
	var in map[string]any
	_ = json.NewDecoder(r.Body).Decode(&in)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, m := s.findMood(r.PathValue("id"))
	if m == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Mood entry not found"})
		return
	}
	if v, ok := in["moodLevel"]; ok {
		m["mood_level"] = v
	}
	for _, k := range []string{"emoji", "note", "triggers"} {
		if v, ok := in[k]; ok {
			m[k] = v
		}
	}
	m["updated_at"] = time.Now().UTC().Add(time.Second).Format(stamp)
	writeJSON(w, http.StatusOK, map[string]any{"entry": m})
}

func (s *Server) deleteMood(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, m := s.findMood(r.PathValue("id"))
	if m == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Mood entry not found"})
		return
	}
	s.moods = append(s.moods[:i], s.moods[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Mood entry deleted"})
}

func (s *Server) todayMood(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := time.Now().UTC().Format("2006-01-02")
	var latest map[string]any
	for _, m := range s.moods {
		if strings.HasPrefix(m["created_at"].(string), today) {
			latest = m
		}
	}
	if latest == nil {
		writeJSON(w, http.StatusOK, map[string]any{"entry": nil, "hasEntry": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entry": latest, "hasEntry": true})
}

func (s *Server) moodStats(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	s.mu.Lock()
	defer s.mu.Unlock()
	dist := map[string]int{}
	triggers := map[string]int{}
	sum := 0.0
	for _, m := range s.moods {
		level := toInt(m["mood_level"])
		dist[strconv.Itoa(level)]++
		sum += float64(level)
		if list, ok := m["triggers"].([]any); ok {
			for _, t := range list {
				triggers[fmt.Sprint(t)]++
			}
		}
	}
	common := []map[string]any{}
	for name, count := range triggers {
		common = append(common, map[string]any{"trigger": name, "count": count})
	}
	avg := 0.0
	if len(s.moods) > 0 {
		avg = sum / float64(len(s.moods))
	}
	writeJSON(w, http.StatusOK, map[string]any{"stats": map[string]any{
		"totalEntries":     len(s.moods),
		"averageMood":      avg,
		"moodDistribution": dist,
		"commonTriggers":   common,
		"period":           days,
	}})
}

func (s *Server) listJournal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, append([]map[string]any{}, s.journal...))
}

func (s *Server) findJournal(id string) (int, map[string]any) {
	for i, e := range s.journal {
		oid, _ := e["_id"].(map[string]any)
		if oid != nil && oid["$oid"] == id {
			return i, e
		}
	}
	return -1, nil
}

func (s *Server) createJournal(w http.ResponseWriter, r *http.Request) {
	var in map[string]any
	_ = json.NewDecoder(r.Body).Decode(&in)
	title, _ := in["title"].(string)
	content, _ := in["content"].(string)
	id := s.AddJournal(title, content)
	s.mu.Lock()
	_, e := s.findJournal(id)
	if p, ok := in["isPrivate"].(bool); ok {
		e["is_private"] = p
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"entry": e})
}

func (s *Server) getJournal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, e := s.findJournal(r.PathValue("id"))
	if e == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Journal entry not found"})
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) updateJournal(w http.ResponseWriter, r *http.Request) {
	var in map[string]any
	_ = json.NewDecoder(r.Body).Decode(&in)
	s.mu.Lock()
	defer s.mu.Unlock()
	_, e := s.findJournal(r.PathValue("id"))
	if e == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Journal entry not found"})
		return
	}
	for _, k := range []string{"title", "content"} {
		if v, ok := in[k]; ok {
			e[k] = v
		}
	}
	if v, ok := in["isPrivate"]; ok {
		e["is_private"] = v
	}
	e["updated_at"] = time.Now().UTC().Format(time.RFC3339)
	writeJSON(w, http.StatusOK, map[string]any{"entry": e})
}

func (s *Server) deleteJournal(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, e := s.findJournal(r.PathValue("id"))
	if e == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "Journal entry not found"})
		return
	}
	s.journal = append(s.journal[:i], s.journal[i+1:]...)
	writeJSON(w, http.StatusOK, map[string]any{"message": "Journal entry deleted"})
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	fail := s.failChat
	s.mu.Unlock()
	if fail {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "AI service unavailable"})
		return
	}
	var in map[string]string
	_ = json.NewDecoder(r.Body).Decode(&in)
	conv := in["conversation_id"]
	if conv == "" {
		conv = "conv-1"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conversation_id": conv,
		"chat_id":         "chat-" + strconv.Itoa(s.Hits("POST /api/chat/message")),
		"ai_response":     "I hear you. Tell me more about " + in["message"],
		"sentiment":       "neutral",
	})
}

func (s *Server) checkIn(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"message": "How are you feeling today?"})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var in map[string]string
	_ = json.NewDecoder(r.Body).Decode(&in)
	crisis := strings.Contains(strings.ToLower(in["text"]), "want to die")
	label := "neutral"
	if crisis {
		label = "negative"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sentiment": map[string]any{
			"sentiment_label":  label,
			"sentiment_scores": map[string]float64{"positive": 0.1, "neutral": 0.6, "negative": 0.3},
			"crisis_flag":      crisis,
		},
		"insights": []any{},
	})
}

func (s *Server) trends(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("days") == "7" {
		writeJSON(w, http.StatusOK, map[string]any{"message": "Not enough data for trend analysis", "trend": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"trend_analysis":         map[string]any{"trend": "improving", "risk_level": "low", "average_score": 0.4},
		"sentiment_distribution": map[string]int{"positive": 5, "neutral": 3, "negative": 1},
	})
}

func (s *Server) listInsights(w http.ResponseWriter, r *http.Request) {
	unread := r.URL.Query().Get("unread_only") == "true"
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []map[string]any{}
	for _, in := range s.insights {
		if unread && in["is_read"] == true {
			continue
		}
		out = append(out, in)
	}
	writeJSON(w, http.StatusOK, map[string]any{"insights": out})
}

func (s *Server) dailyInsight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"insight": map[string]any{"id": "daily", "insight_type": "daily_tip", "insight_text": "Take a short walk."},
		"is_new":  true,
	})
}

func (s *Server) urgentInsights(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []map[string]any{}
	for _, in := range s.insights {
		if in["priority"] == "urgent" {
			out = append(out, in)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"urgent_insights": out})
}

func (s *Server) setInsight(w http.ResponseWriter, id, field string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, in := range s.insights {
		if in["id"] == id {
			in[field] = true
			writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"error": "Insight not found"})
}

func (s *Server) readInsight(w http.ResponseWriter, r *http.Request) {
	s.setInsight(w, r.PathValue("id"), "is_read")
}

// dismissInsight only flags the record; the list endpoint keeps returning it.
func (s *Server) dismissInsight(w http.ResponseWriter, r *http.Request) {
	s.setInsight(w, r.PathValue("id"), "dismissed")
}

func (s *Server) initPayment(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")
	s.mu.Lock()
	msg, declined := s.declines[provider]
	s.mu.Unlock()
	if declined {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": msg})
		return
	}
	var in map[string]any
	_ = json.NewDecoder(r.Body).Decode(&in)
	s.mu.Lock()
	s.payments = append(s.payments, map[string]any{
		"id": s.newID(), "amount": in["amount"], "currency": "usd", "status": "PENDING",
		"payment_method": provider, "plan_name": in["planId"], "created_at": time.Now().UTC().Format(time.RFC3339),
	})
	s.mu.Unlock()
	switch provider {
	case "flutterwave":
		writeJSON(w, http.StatusOK, map[string]any{"paymentUrl": "https://pay.example/flw", "transactionId": "flw-1"})
	case "paystack":
		writeJSON(w, http.StatusOK, map[string]any{"authorizationUrl": "https://pay.example/ps", "reference": "ps-1"})
	case "stripe":
		writeJSON(w, http.StatusOK, map[string]any{"checkoutUrl": "https://pay.example/st", "sessionId": "cs_1"})
	case "mpesa":
		writeJSON(w, http.StatusOK, map[string]any{"checkoutRequestId": "ws_CO_1"})
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Unknown provider"})
	}
}

func (s *Server) verifyPayment(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "status": "SUCCESSFUL", "message": "Payment verified"})
}

func (s *Server) paymentHistory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"payments": append([]map[string]any{}, s.payments...)})
}

func (s *Server) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"message": "Subscription cancelled"})
}

func (s *Server) getSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		writeJSON(w, http.StatusOK, map[string]any{"settings": map[string]any{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"settings": s.settings})
}

func (s *Server) putSettings(w http.ResponseWriter, r *http.Request) {
	var in map[string]any
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
		return
	}
	s.mu.Lock()
	s.settings = in
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"message": "Settings updated", "settings": in})
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"user":         map[string]any{"id": "u1"},
		"mood_entries": append([]map[string]any{}, s.moods...),
		"exported_at":  time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
