package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"jelpapharm/server/domain"
	"jelpapharm/server/internal/auth"
	"jelpapharm/server/internal/loyalty"
	"jelpapharm/server/internal/sales"
	"jelpapharm/server/internal/sequence"
	"jelpapharm/server/internal/stock"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	db      *sqlx.DB
	secret  string
	authz   auth.Authorizer
	engine  *sales.Engine
	stock   *stock.Ledger
	loyalty *loyalty.Ledger
	seq     *sequence.Generator
}

// New constructs a Handler.
func New(db *sqlx.DB, secret string, authz auth.Authorizer, engine *sales.Engine, st *stock.Ledger, lo *loyalty.Ledger, seq *sequence.Generator) *Handler {
	return &Handler{db: db, secret: secret, authz: authz, engine: engine, stock: st, loyalty: lo, seq: seq}
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Group(func(protected chi.Router) {
			protected.Use(auth.Middleware(h.secret))
			protected.Post("/reset-password", h.resetPassword)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.Middleware(h.secret))

		pr.Route("/inventory", func(r chi.Router) {
			r.Post("/", h.addItem)
			r.Get("/search", h.searchItems)
			r.Get("/alerts/low-stock", h.lowStockAlerts)
			r.Get("/alerts/expiry", h.expiryAlerts)
			r.Put("/{id}", h.updateItem)
			r.Post("/{id}/restock", h.restockItem)
			r.Post("/{id}/status", h.setItemStatus)
		})

		pr.Route("/sales", func(r chi.Router) {
			r.Post("/", h.createSale)
			r.Get("/", h.listSales)
			r.Get("/{id}", h.getSale)
			r.Post("/{id}/void", h.voidSale)
		})

		pr.Route("/customers", func(r chi.Router) {
			r.Post("/", h.createCustomer)
			r.Get("/", h.listCustomers)
			r.Put("/{id}", h.updateCustomer)
			r.Get("/{id}/loyalty", h.loyaltyHistory)
			r.Post("/{id}/redeem", h.redeemPoints)
		})

		pr.Route("/numbers", func(r chi.Router) {
			r.Post("/prescription", h.mintPrescriptionNumber)
			r.Post("/order", h.mintOrderNumber)
		})

		pr.Route("/reports", func(r chi.Router) {
			r.Get("/sales/daily", h.dailySales)
			r.Get("/sales/monthly", h.monthlySales)
		})
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// allow gates a handler on the permission table. Writes the error response
// itself and returns false when the principal is not permitted.
func (h *Handler) allow(w http.ResponseWriter, r *http.Request, resource, action string) (auth.Principal, bool) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing principal")
		return auth.Principal{}, false
	}
	if !h.authz.Authorize(p, resource, action) {
		respondError(w, http.StatusForbidden, "insufficient permissions")
		return auth.Principal{}, false
	}
	return p, true
}

// Auth handlers

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		respondError(w, http.StatusBadRequest, "username, email, password and role are required")
		return
	}
	if req.Role != domain.RoleAdmin && req.Role != domain.RolePharmacist && req.Role != domain.RoleCashier {
		respondError(w, http.StatusBadRequest, "role must be admin, pharmacist or cashier")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Username:  req.Username,
		Email:     strings.ToLower(req.Email),
		Role:      req.Role,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	q := h.db.Rebind(`INSERT INTO users (id, username, email, password, role, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if _, err := h.db.Exec(q, user.ID, user.Username, user.Email, hashed, user.Role, user.CreatedAt); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") || strings.Contains(err.Error(), "duplicate key") {
			respondError(w, http.StatusConflict, "email already exists")
		} else {
			respondError(w, http.StatusInternalServerError, "unable to create user")
		}
		return
	}

	token, err := auth.GenerateToken(h.secret, auth.Principal{UserID: user.ID, Username: user.Username, Role: user.Role})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	respondJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var user domain.User
	q := h.db.Rebind(`SELECT id, username, email, password, role, created_at FROM users WHERE email = ?`)
	if err := h.db.Get(&user, q, strings.ToLower(req.Email)); err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.secret, auth.Principal{UserID: user.ID, Username: user.Username, Role: user.Role})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to generate token")
		return
	}
	user.Password = ""
	respondJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing principal")
		return
	}
	var payload struct {
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "new_password is required")
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to secure password")
		return
	}
	q := h.db.Rebind(`UPDATE users SET password = ? WHERE id = ?`)
	if _, err := h.db.Exec(q, hashed, p.UserID); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update password")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}

// Inventory handlers

type itemRequest struct {
	Name                 string          `json:"name"`
	Brand                string          `json:"brand"`
	Category             string          `json:"category"`
	Quantity             int64           `json:"quantity"`
	CostPrice            decimal.Decimal `json:"cost_price"`
	SalePrice            decimal.Decimal `json:"sale_price"`
	ReorderLevel         int64           `json:"reorder_level"`
	ExpiryDate           string          `json:"expiry_date"`
	PrescriptionRequired bool            `json:"prescription_required"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceInventory, auth.ActionCreate); !ok {
		return
	}
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Quantity < 0 || req.CostPrice.IsNegative() || req.SalePrice.IsNegative() {
		respondError(w, http.StatusBadRequest, "quantity and prices must not be negative")
		return
	}
	item, err := h.stock.Create(r.Context(), domain.InventoryItem{
		Name:                 req.Name,
		Brand:                req.Brand,
		Category:             req.Category,
		Quantity:             req.Quantity,
		CostPrice:            req.CostPrice,
		SalePrice:            req.SalePrice,
		ReorderLevel:         req.ReorderLevel,
		ExpiryDate:           nullIfEmpty(req.ExpiryDate),
		PrescriptionRequired: req.PrescriptionRequired,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to add item")
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceInventory, auth.ActionUpdate); !ok {
		return
	}
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	err := h.stock.Update(r.Context(), domain.InventoryItem{
		ID:                   chi.URLParam(r, "id"),
		Name:                 req.Name,
		Brand:                req.Brand,
		Category:             req.Category,
		CostPrice:            req.CostPrice,
		SalePrice:            req.SalePrice,
		ReorderLevel:         req.ReorderLevel,
		ExpiryDate:           nullIfEmpty(req.ExpiryDate),
		PrescriptionRequired: req.PrescriptionRequired,
	})
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) restockItem(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceInventory, auth.ActionUpdate); !ok {
		return
	}
	var payload struct {
		Quantity int64 `json:"quantity"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}
	if err := h.stock.Restock(r.Context(), chi.URLParam(r, "id"), payload.Quantity); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "restocked"})
}

func (h *Handler) setItemStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceInventory, auth.ActionUpdate); !ok {
		return
	}
	var payload struct {
		Status domain.ItemStatus `json:"status"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.stock.SetStatus(r.Context(), chi.URLParam(r, "id"), payload.Status); err != nil {
		if errors.Is(err, stock.ErrBadTransition) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) searchItems(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceInventory, auth.ActionRead); !ok {
		return
	}
	items, err := h.stock.Search(r.Context(), strings.TrimSpace(r.URL.Query().Get("query")), 25)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to search inventory")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) lowStockAlerts(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceInventory, auth.ActionRead); !ok {
		return
	}
	items, err := h.stock.LowStock(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch alerts")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *Handler) expiryAlerts(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceInventory, auth.ActionRead); !ok {
		return
	}
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
	items, err := h.stock.ExpiringBefore(r.Context(), cutoff)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch alerts")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Sales handlers

func (h *Handler) createSale(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing principal")
		return
	}
	var cart sales.Cart
	if err := decodeJSON(r, &cart); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sale, err := h.engine.CommitSale(r.Context(), cart, p)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sale)
}

func (h *Handler) voidSale(w http.ResponseWriter, r *http.Request) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing principal")
		return
	}
	var payload struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(payload.Reason) == "" {
		respondError(w, http.StatusBadRequest, "reason is required")
		return
	}
	sale, err := h.engine.VoidSale(r.Context(), chi.URLParam(r, "id"), payload.Reason, p)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

func (h *Handler) getSale(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceSales, auth.ActionRead); !ok {
		return
	}
	id := chi.URLParam(r, "id")
	sale, err := h.engine.GetSale(r.Context(), id)
	if errors.Is(err, sales.ErrSaleNotFound) {
		// Fall back to receipt number lookup.
		sale, err = h.engine.GetSaleByReceipt(r.Context(), id)
	}
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sale)
}

func (h *Handler) listSales(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceSales, auth.ActionRead); !ok {
		return
	}
	from, err := dateBound(r.URL.Query().Get("start_date"), false)
	if err != nil {
		respondError(w, http.StatusBadRequest, "start_date must be in YYYY-MM-DD format")
		return
	}
	to, err := dateBound(r.URL.Query().Get("end_date"), true)
	if err != nil {
		respondError(w, http.StatusBadRequest, "end_date must be in YYYY-MM-DD format")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	list, err := h.engine.ListSales(r.Context(), from, to, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list sales")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// Customer handlers

type customerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceCustomers, auth.ActionCreate); !ok {
		return
	}
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.FirstName == "" {
		respondError(w, http.StatusBadRequest, "first_name is required")
		return
	}
	c, err := h.loyalty.Create(r.Context(), domain.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     strings.ToLower(req.Email),
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create customer")
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceCustomers, auth.ActionUpdate); !ok {
		return
	}
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	err := h.loyalty.Update(r.Context(), domain.Customer{
		ID:        chi.URLParam(r, "id"),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     strings.ToLower(req.Email),
	})
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceCustomers, auth.ActionRead); !ok {
		return
	}
	list, err := h.loyalty.List(r.Context(), strings.TrimSpace(r.URL.Query().Get("query")), 25)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to list customers")
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handler) loyaltyHistory(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceCustomers, auth.ActionRead); !ok {
		return
	}
	entries, err := h.loyalty.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load loyalty history")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func (h *Handler) redeemPoints(w http.ResponseWriter, r *http.Request) {
	p, ok := h.allow(w, r, auth.ResourceCustomers, auth.ActionUpdate)
	if !ok {
		return
	}
	var payload struct {
		Points      int64  `json:"points"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &payload); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if payload.Points <= 0 {
		respondError(w, http.StatusBadRequest, "points must be positive")
		return
	}
	entry, err := h.loyalty.Redeem(r.Context(), chi.URLParam(r, "id"), payload.Points, payload.Description, p.UserID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// Number minting

// mintPrescriptionNumber hands a pharmacist a fresh prescription identifier
// to attach to a dispensing sale.
func (h *Handler) mintPrescriptionNumber(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceSales, auth.ActionUpdate); !ok {
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"prescription_number": h.seq.NextPrescriptionNumber()})
}

func (h *Handler) mintOrderNumber(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceInventory, auth.ActionUpdate); !ok {
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"order_number": h.seq.NextOrderNumber()})
}

// Reports

func (h *Handler) dailySales(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceReports, auth.ActionRead); !ok {
		return
	}
	start := time.Now().UTC().Truncate(24 * time.Hour).Format(time.RFC3339)
	h.revenueSince(w, r, start)
}

func (h *Handler) monthlySales(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.allow(w, r, auth.ResourceReports, auth.ActionRead); !ok {
		return
	}
	n := time.Now().UTC()
	start := time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	h.revenueSince(w, r, start)
}

func (h *Handler) revenueSince(w http.ResponseWriter, r *http.Request, since string) {
	var (
		revenue sql.NullFloat64
		count   int64
	)
	q := h.db.Rebind(`SELECT COALESCE(SUM(total_amount), 0), COUNT(*) FROM sales WHERE is_void = ? AND created_at >= ?`)
	if err := h.db.QueryRowContext(r.Context(), q, false, since).Scan(&revenue, &count); err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch sales report")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"revenue": revenue.Float64, "sales_count": count})
}

// Helpers

// respondEngineError maps engine and ledger errors onto HTTP statuses.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sales.ErrForbidden):
		respondError(w, http.StatusForbidden, "insufficient permissions")
	case sales.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case sales.IsClientError(err):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func dateBound(val string, endOfDay bool) (string, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return "", nil
	}
	d, err := time.Parse("2006-01-02", val)
	if err != nil {
		return "", err
	}
	if endOfDay {
		d = d.AddDate(0, 0, 1).Add(-time.Second)
	}
	return d.UTC().Format(time.RFC3339), nil
}

func nullIfEmpty(val string) *string {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
