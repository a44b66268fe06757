package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"wayfarer/internal/config"
	"wayfarer/internal/database"
	"wayfarer/internal/domain"
	"wayfarer/internal/export"
	"wayfarer/internal/metrics"
	"wayfarer/internal/models"
	"wayfarer/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingLimiter throttles booking attempts per caller. The session
// stores implement it; a nil limiter disables the throttle.
type BookingLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// HTTPServer exposes the public REST API: the destination catalog, the
// currency widget, and the booking workflow.
type HTTPServer struct {
	cfg      config.APIConfig
	catalog  domain.CatalogService
	rates    domain.RateConverter
	workflow domain.BookingWorkflow
	exporter *export.ExcelExporter
	limits   BookingLimiter
	server   *http.Server
	auth     *HTTPAuth
	logger   *zerolog.Logger
}

func NewHTTPServer(
	cfg config.APIConfig,
	catalog domain.CatalogService,
	rates domain.RateConverter,
	workflow domain.BookingWorkflow,
	exporter *export.ExcelExporter,
	limits BookingLimiter,
	logger *zerolog.Logger,
) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:      cfg,
		catalog:  catalog,
		rates:    rates,
		workflow: workflow,
		exporter: exporter,
		limits:   limits,
		logger:   logger,
	}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("/api/v1/cities/search", srv.handleSearchCities)
	mux.HandleFunc("/api/v1/cities", srv.handleCities)
	mux.HandleFunc("/api/v1/hotels/", srv.handleHotelByID)
	mux.HandleFunc("/api/v1/hotels", srv.handleHotels)
	mux.HandleFunc("/api/v1/rates", srv.handleRates)
	mux.HandleFunc("/api/v1/convert", srv.handleConvert)
	mux.HandleFunc("/api/v1/bookings", srv.handleBookings)
	mux.HandleFunc("/api/v1/export/bookings.xlsx", srv.handleExport)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the routed handler, used by tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) handleCities(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("cities")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cities, err := s.catalog.Cities(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list cities")
		writeError(w, http.StatusInternalServerError, "failed to load cities")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"cities": cities})
}

func (s *HTTPServer) handleSearchCities(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("cities_search")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	term := r.URL.Query().Get("q")
	cities, err := s.catalog.SearchCities(r.Context(), term)
	if err != nil {
		s.logger.Error().Err(err).Str("term", term).Msg("City search failed")
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"cities": cities})
}

func (s *HTTPServer) handleHotels(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("hotels")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cityID := strings.TrimSpace(r.URL.Query().Get("city_id"))
	hotels, err := s.catalog.Hotels(r.Context(), cityID)
	if err != nil {
		s.logger.Error().Err(err).Str("city_id", cityID).Msg("Failed to list hotels")
		writeError(w, http.StatusInternalServerError, "failed to load hotels")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"hotels": hotels})
}

func (s *HTTPServer) handleHotelByID(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("hotel")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	const prefix = "/api/v1/hotels/"
	id := strings.TrimPrefix(r.URL.Path, prefix)
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "hotel id is required")
		return
	}

	hotel, err := s.catalog.HotelByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrHotelNotFound) {
			writeError(w, http.StatusNotFound, "hotel not found")
			return
		}
		s.logger.Error().Err(err).Str("hotel_id", id).Msg("Hotel lookup failed")
		writeError(w, http.StatusInternalServerError, "failed to load hotel")
		return
	}

	writeJSON(w, http.StatusOK, hotel)
}

func (s *HTTPServer) handleRates(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("rates")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"rates": s.rates.Rates()})
}

func (s *HTTPServer) handleConvert(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("convert")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()
	amount := strings.TrimSpace(q.Get("amount"))
	from := strings.TrimSpace(q.Get("from"))
	to := strings.TrimSpace(q.Get("to"))

	if amount == "" {
		writeError(w, http.StatusUnprocessableEntity, "amount is required")
		return
	}
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to currencies are required")
		return
	}
	if !models.IsSupportedCurrency(from) || !models.IsSupportedCurrency(to) {
		writeError(w, http.StatusBadRequest, "unsupported currency code")
		return
	}

	result, ok := s.rates.Convert(amount, from, to)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "amount is not a number")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"amount": amount,
		"from":   from,
		"to":     to,
		"result": result,
	})
}

type bookingRequest struct {
	HotelID  string `json:"hotel_id"`
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleCreateBooking(w, r)
	case http.MethodGet:
		s.handleListBookings(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_create")

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	var body bookingRequest
	if err := decoder.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(body.HotelID) == "" {
		writeError(w, http.StatusBadRequest, "hotel_id is required")
		return
	}

	stay, err := parseStay(body.CheckIn, body.CheckOut)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token := bearerToken(r)
	if !s.allowBooking(r.Context(), token) {
		writeError(w, http.StatusTooManyRequests, "too many booking attempts")
		return
	}

	outcome := s.workflow.AttemptBooking(r.Context(), token, body.HotelID, stay)
	metrics.IncBookingOutcome(outcome.Kind)

	switch outcome.Kind {
	case models.OutcomeCreated:
		writeJSON(w, http.StatusCreated, outcome)
	case models.OutcomeUnauthenticated:
		// A routing signal, not an error payload: where to send the user.
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error":       outcome.Message,
			"sign_in_url": outcome.SignInURL,
		})
	default:
		status := http.StatusInternalServerError
		if outcome.Message == database.ErrInvalidStay.Error() || outcome.Message == database.ErrHotelNotFound.Error() {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, outcome)
	}
}

// allowBooking enforces the per-caller booking throttle. Anonymous
// requests skip it (they never reach submission); limiter errors fail
// open.
func (s *HTTPServer) allowBooking(ctx context.Context, token string) bool {
	if s.limits == nil || token == "" {
		return true
	}

	allowed, err := s.limits.CheckRateLimit(ctx, "booking:"+token, models.RateLimitRequests, models.RateLimitWindow*time.Second)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Booking rate limit check failed")
		return true
	}
	return allowed
}

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings_list")

	bookings, err := s.workflow.UserBookings(r.Context(), bearerToken(r))
	if err != nil {
		if errors.Is(err, service.ErrNotSignedIn) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error": "sign in to view your bookings",
			})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to list bookings")
		writeError(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("export")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start, end, err := parsePeriod(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := s.exporter.Generate(r.Context(), start, end)
	if err != nil {
		s.logger.Error().Err(err).Msg("Export generation failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="bookings.xlsx"`)
	if err := f.Write(w); err != nil {
		s.logger.Error().Err(err).Msg("Export write failed")
	}
}

// parseStay turns optional YYYY-MM-DD dates into a Stay. Both empty is
// fine; the workflow fills in the default stay.
func parseStay(checkIn, checkOut string) (models.Stay, error) {
	if checkIn == "" && checkOut == "" {
		return models.Stay{}, nil
	}
	if checkIn == "" || checkOut == "" {
		return models.Stay{}, fmt.Errorf("check_in and check_out must be set together")
	}

	in, err := time.Parse("2006-01-02", checkIn)
	if err != nil {
		return models.Stay{}, fmt.Errorf("invalid check_in; expected YYYY-MM-DD")
	}
	out, err := time.Parse("2006-01-02", checkOut)
	if err != nil {
		return models.Stay{}, fmt.Errorf("invalid check_out; expected YYYY-MM-DD")
	}

	return models.Stay{CheckIn: in, CheckOut: out}, nil
}

// parsePeriod defaults to the coming week when no bounds were given.
func parsePeriod(startStr, endStr string) (time.Time, time.Time, error) {
	start := time.Now()
	end := start.AddDate(0, 0, 7)

	var err error
	if startStr != "" {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start; expected YYYY-MM-DD")
		}
		end = start.AddDate(0, 0, 7)
	}
	if endStr != "" {
		end, err = time.Parse("2006-01-02", endStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end; expected YYYY-MM-DD")
		}
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end must not be before start")
	}

	return start, end, nil
}

// bearerToken extracts the session token from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	base := s.logger.With().Str("component", "http").Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		base.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
