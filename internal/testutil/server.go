// Package testutil поднимает поддельный бэкенд маркетплейса внутри процесса.
//
// Сервер реализует контракт REST-поверхности, на которую рассчитан клиент:
// аутентификацию с настоящими JWT, профиль, каталог объявлений, заявки и
// кампании. Тесты API-клиента, сессии и сервисов гоняют запросы через него
// вместо моков транспорта.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/estatery/realty-client/internal/lib/jwt"
	"github.com/estatery/realty-client/internal/models"
)

// Учётные данные, заведённые на сервере по умолчанию.
const (
	UserEmail     = "user@example.com"
	UserPassword  = "secret123"
	AdminEmail    = "admin@example.com"
	AdminPassword = "admin123"
)

type account struct {
	user     models.User
	password string
}

// Server — поддельный бэкенд. Встраивает httptest.Server; адрес —
// в поле URL.
type Server struct {
	*httptest.Server
	maker jwt.Maker

	mu         sync.Mutex
	accounts   map[string]*account // email → учётная запись
	properties map[string]models.Property
	campaigns  map[string]models.Campaign
	contacts   []map[string]any
	events     []models.CampaignEvent
	revoked    bool
	nextID     int
}

// NewServer запускает сервер с двумя учётными записями (обычной и
// административной). Останавливать сервер должен вызывающий (s.Close).
func NewServer() *Server {
	s := &Server{
		maker:      jwt.NewMaker("testutil_secret_key", time.Hour),
		accounts:   make(map[string]*account),
		properties: make(map[string]models.Property),
		campaigns:  make(map[string]models.Campaign),
		nextID:     1,
	}
	s.accounts[UserEmail] = &account{
		user:     models.User{ID: "1", Email: UserEmail, Name: "Test User", Role: models.RoleUser},
		password: UserPassword,
	}
	s.accounts[AdminEmail] = &account{
		user:     models.User{ID: "2", Email: AdminEmail, Name: "Test Admin", Role: models.RoleAdmin},
		password: AdminPassword,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/register", s.handleRegister)
	r.Post("/contact", s.handleContact)
	r.Get("/properties", s.handlePropertyList)
	r.Get("/properties/search", s.handlePropertySearch)
	r.Get("/properties/{id}", s.handlePropertyGet)

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/auth/me", s.handleMe)
		r.Put("/user/profile", s.handleProfileUpdate)
		r.Post("/properties", s.handlePropertyCreate)
		r.Put("/properties/{id}", s.handlePropertyUpdate)
		r.Delete("/properties/{id}", s.handlePropertyDelete)
		r.Get("/campaigns", s.handleCampaignList)
		r.Get("/campaigns/{id}", s.handleCampaignGet)
		r.Post("/campaigns/track", s.handleCampaignTrack)
	})

	s.Server = httptest.NewServer(r)
	return s
}

// RevokeAll делает недействительными все выданные токены: любой
// аутентифицированный запрос начинает получать 401.
func (s *Server) RevokeAll() {
	s.mu.Lock()
	s.revoked = true
	s.mu.Unlock()
}

// AddProperty кладёт объявление в каталог и возвращает его идентификатор.
func (s *Server) AddProperty(p models.Property) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		p.ID = s.allocID()
	}
	s.properties[p.ID] = p
	return p.ID
}

// AddCampaign кладёт кампанию и возвращает её идентификатор.
func (s *Server) AddCampaign(c models.Campaign) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = s.allocID()
	}
	s.campaigns[c.ID] = c
	return c.ID
}

// Contacts возвращает принятые заявки в порядке поступления.
func (s *Server) Contacts() []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, len(s.contacts))
	copy(out, s.contacts)
	return out
}

// Events возвращает принятые трекинговые события.
func (s *Server) Events() []models.CampaignEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CampaignEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *Server) allocID() string {
	id := strconv.Itoa(s.nextID)
	s.nextID++
	return id
}

func renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	w.WriteHeader(status)
	render.JSON(w, r, map[string]string{"error": msg})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	acc, ok := s.accounts[req.Email]
	s.mu.Unlock()
	if !ok || acc.password != req.Password {
		renderError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := s.maker.GenerateToken(acc.user.ID, acc.user.Email, acc.user.Role)
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "failed to issue token")
		return
	}
	render.JSON(w, r, map[string]any{"user": acc.user, "token": token})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		renderError(w, r, http.StatusUnprocessableEntity, "email and password are required")
		return
	}

	s.mu.Lock()
	if _, exists := s.accounts[req.Email]; exists {
		s.mu.Unlock()
		renderError(w, r, http.StatusConflict, "user already exists")
		return
	}
	user := models.User{
		ID:    s.allocID(),
		Email: req.Email,
		Name:  req.Name,
		Role:  models.RoleUser,
	}
	s.accounts[req.Email] = &account{user: user, password: req.Password}
	s.mu.Unlock()

	token, err := s.maker.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		renderError(w, r, http.StatusInternalServerError, "failed to issue token")
		return
	}
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, map[string]any{"user": user, "token": token})
}

type ctxKey string

const userKey ctxKey = "user"

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			renderError(w, r, http.StatusUnauthorized, "missing bearer token")
			return
		}

		s.mu.Lock()
		revoked := s.revoked
		s.mu.Unlock()
		if revoked {
			renderError(w, r, http.StatusUnauthorized, "token revoked")
			return
		}

		claims, err := s.maker.ParseToken(token)
		if err != nil {
			renderError(w, r, http.StatusUnauthorized, "invalid token")
			return
		}

		s.mu.Lock()
		acc, ok := s.accounts[claims.Email]
		s.mu.Unlock()
		if !ok {
			renderError(w, r, http.StatusUnauthorized, "unknown user")
			return
		}

		ctx := contextWithUser(r.Context(), acc.user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())
	render.JSON(w, r, map[string]any{"user": user})
}

func (s *Server) handleProfileUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := userFromContext(r.Context())

	var patch models.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	acc := s.accounts[user.Email]
	if patch.Name != nil {
		acc.user.Name = *patch.Name
	}
	if patch.Avatar != nil {
		acc.user.Avatar = *patch.Avatar
	}
	updated := acc.user
	s.mu.Unlock()

	render.JSON(w, r, map[string]any{"user": updated})
}

func (s *Server) handlePropertyList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Property, 0, len(s.properties))
	for _, p := range s.properties {
		if city := q.Get("city"); city != "" && p.City != city {
			continue
		}
		if typ := q.Get("type"); typ != "" && p.Type != typ {
			continue
		}
		if raw := q.Get("min_price"); raw != "" {
			if min, err := strconv.ParseInt(raw, 10, 64); err == nil && p.Price < min {
				continue
			}
		}
		if raw := q.Get("max_price"); raw != "" {
			if max, err := strconv.ParseInt(raw, 10, 64); err == nil && p.Price > max {
				continue
			}
		}
		if raw := q.Get("bedrooms"); raw != "" {
			if rooms, err := strconv.Atoi(raw); err == nil && p.Bedrooms != rooms {
				continue
			}
		}
		out = append(out, p)
	}
	render.JSON(w, r, map[string]any{"properties": out})
}

func (s *Server) handlePropertySearch(w http.ResponseWriter, r *http.Request) {
	query := strings.ToLower(r.URL.Query().Get("q"))

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Property, 0)
	for _, p := range s.properties {
		if strings.Contains(strings.ToLower(p.Title), query) ||
			strings.Contains(strings.ToLower(p.Description), query) {
			out = append(out, p)
		}
	}
	render.JSON(w, r, map[string]any{"properties": out})
}

func (s *Server) handlePropertyGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	p, ok := s.properties[id]
	s.mu.Unlock()
	if !ok {
		renderError(w, r, http.StatusNotFound, "property not found")
		return
	}
	render.JSON(w, r, map[string]any{"property": p})
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	user, _ := userFromContext(r.Context())
	if !user.IsAdmin() {
		renderError(w, r, http.StatusForbidden, "admin role required")
		return false
	}
	return true
}

func (s *Server) handlePropertyCreate(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	var draft models.PropertyDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	p := propertyFromDraft(s.allocID(), draft)
	s.properties[p.ID] = p
	s.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, map[string]any{"property": p})
}

func (s *Server) handlePropertyUpdate(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id := chi.URLParam(r, "id")

	var draft models.PropertyDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	if _, ok := s.properties[id]; !ok {
		s.mu.Unlock()
		renderError(w, r, http.StatusNotFound, "property not found")
		return
	}
	p := propertyFromDraft(id, draft)
	s.properties[id] = p
	s.mu.Unlock()

	render.JSON(w, r, map[string]any{"property": p})
}

func (s *Server) handlePropertyDelete(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	delete(s.properties, id)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	s.contacts = append(s.contacts, payload)
	id := s.allocID()
	s.mu.Unlock()

	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, map[string]string{"id": id})
}

func (s *Server) handleCampaignList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]models.Campaign, 0, len(s.campaigns))
	for _, c := range s.campaigns {
		out = append(out, c)
	}
	s.mu.Unlock()
	render.JSON(w, r, map[string]any{"campaigns": out})
}

func (s *Server) handleCampaignGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	c, ok := s.campaigns[id]
	s.mu.Unlock()
	if !ok {
		renderError(w, r, http.StatusNotFound, "campaign not found")
		return
	}
	render.JSON(w, r, map[string]any{"campaign": c})
}

func (s *Server) handleCampaignTrack(w http.ResponseWriter, r *http.Request) {
	var event models.CampaignEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		renderError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func propertyFromDraft(id string, draft models.PropertyDraft) models.Property {
	status := draft.Status
	if status == "" {
		status = models.PropertyStatusActive
	}
	return models.Property{
		ID:          id,
		Title:       draft.Title,
		Description: draft.Description,
		Price:       draft.Price,
		Currency:    draft.Currency,
		Type:        draft.Type,
		Status:      status,
		Bedrooms:    draft.Bedrooms,
		Bathrooms:   draft.Bathrooms,
		Area:        draft.Area,
		City:        draft.City,
		District:    draft.District,
		Images:      draft.Images,
		CreatedAt:   time.Now().UTC(),
	}
}
