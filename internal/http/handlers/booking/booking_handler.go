package booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/diagnosis/lighthouse-point/internal/http/response"
	"github.com/diagnosis/lighthouse-point/internal/inquiry"
	"github.com/diagnosis/lighthouse-point/pkg/logger"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 32 << 10

type Config struct {
	Mode          inquiry.Mode
	NotifyTimeout time.Duration
	LookAhead     int
	Clock         inquiry.Clock
	References    *inquiry.ReferenceGenerator
}

// Handler serves the booking inquiry API. Every request builds its own draft; nothing is kept between requests.
type Handler struct {
	catalog  *inquiry.Catalog
	notifier inquiry.Notifier
	cfg      Config
	inflight sync.WaitGroup
}

func NewHandler(catalog *inquiry.Catalog, notifier inquiry.Notifier, cfg Config) *Handler {
	if catalog == nil {
		catalog = inquiry.DefaultCatalog()
	}
	if cfg.LookAhead == 0 {
		cfg.LookAhead = inquiry.LookAhead
	}
	if cfg.References == nil {
		cfg.References = inquiry.NewReferenceGenerator(nil)
	}
	return &Handler{catalog: catalog, notifier: notifier, cfg: cfg}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/rooms", h.listRooms)

	r.Route("/booking", func(r chi.Router) {
		r.Get("/defaults", h.defaults)
		r.Post("/summary", h.summary)
		r.Post("/progress", h.progress)
		r.Post("/inquiries", h.submit)
	})

	return r
}

// Drain waits for background notifications to finish or ctx to end.
func (h *Handler) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type roomsResponse struct {
	Rooms []inquiry.RoomOption `json:"rooms"`
	Count int                  `json:"count"`
}

func (h *Handler) listRooms(w http.ResponseWriter, r *http.Request) {
	order, err := inquiry.ParseSortOrder(r.URL.Query().Get("sort"))
	if err != nil {
		response.BadRequest(w, "sort must be 'price_asc' or 'price_desc'")
		return
	}

	rooms := h.catalog.Filter(r.URL.Query().Get("view"))
	inquiry.SortRooms(rooms, order)
	if rooms == nil {
		rooms = []inquiry.RoomOption{}
	}

	response.WriteJSON(w, http.StatusOK, roomsResponse{Rooms: rooms, Count: len(rooms)})
}

type defaultsResponse struct {
	Draft       inquiry.Fields     `json:"draft"`
	CheckInMin  inquiry.Date       `json:"checkInMin"`
	CheckOutMin inquiry.Date       `json:"checkOutMin"`
	Occasions   []inquiry.Occasion `json:"occasions"`
	Limits      limits             `json:"limits"`
}

type limits struct {
	MinAdults   int `json:"minAdults"`
	MaxAdults   int `json:"maxAdults"`
	MinChildren int `json:"minChildren"`
	MaxChildren int `json:"maxChildren"`
}

func (h *Handler) defaults(w http.ResponseWriter, r *http.Request) {
	d := inquiry.NewDraft(h.catalog)
	today := inquiry.Today(h.cfg.Clock)

	response.WriteJSON(w, http.StatusOK, defaultsResponse{
		Draft:       d.Fields(),
		CheckInMin:  d.CheckInMin(today),
		CheckOutMin: d.CheckOutMin(today),
		Occasions:   inquiry.Occasions(),
		Limits: limits{
			MinAdults:   inquiry.MinAdults,
			MaxAdults:   inquiry.MaxAdults,
			MinChildren: inquiry.MinChildren,
			MaxChildren: inquiry.MaxChildren,
		},
	})
}

type summaryResponse struct {
	Summary     inquiry.Summary `json:"summary"`
	Draft       inquiry.Fields  `json:"draft"`
	CheckInMin  inquiry.Date    `json:"checkInMin"`
	CheckOutMin inquiry.Date    `json:"checkOutMin"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	d, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}
	today := inquiry.Today(h.cfg.Clock)

	response.WriteJSON(w, http.StatusOK, summaryResponse{
		Summary:     d.Summary(),
		Draft:       d.Fields(),
		CheckInMin:  d.CheckInMin(today),
		CheckOutMin: d.CheckOutMin(today),
	})
}

type progressRequest struct {
	ScrollY int             `json:"scrollY"`
	Anchors inquiry.Anchors `json:"anchors"`
}

type progressResponse struct {
	Step inquiry.Step `json:"step"`
}

func (h *Handler) progress(w http.ResponseWriter, r *http.Request) {
	var in progressRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		response.BadRequest(w, "invalid json")
		return
	}

	// A one-shot tracker fed by the single offset in the request.
	tracker := inquiry.NewTrackerWithLookAhead(in.Anchors, h.cfg.LookAhead)
	unmount, err := tracker.Mount(singleOffset(in.ScrollY))
	if err != nil {
		response.InternalError(w, "step tracker unavailable")
		return
	}
	unmount()

	response.WriteJSON(w, http.StatusOK, progressResponse{Step: tracker.Step()})
}

// singleOffset is a scroll source that reports one offset on subscribe.
type singleOffset int

func (s singleOffset) Subscribe(fn func(int)) func() {
	fn(int(s))
	return func() {}
}

type confirmationView struct {
	inquiry.Confirmation
	Message string `json:"message"`
}

type submitResponse struct {
	ReferenceCode string           `json:"referenceCode"`
	Status        inquiry.State    `json:"status"`
	Confirmation  confirmationView `json:"confirmation"`
	Summary       inquiry.Summary  `json:"summary"`
	SubmittedAt   time.Time        `json:"submittedAt"`
}

type failedResponse struct {
	Error         string        `json:"error"`
	Code          string        `json:"code"`
	Status        inquiry.State `json:"status"`
	ReferenceCode string        `json:"referenceCode"`
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	d, ok := h.decodeDraft(w, r)
	if !ok {
		return
	}

	flow := inquiry.NewFlow(d, h.notifier, inquiry.Options{
		Mode:          h.cfg.Mode,
		NotifyTimeout: h.cfg.NotifyTimeout,
		Clock:         h.cfg.Clock,
		References:    h.cfg.References,
		InFlight:      &h.inflight,
	})

	res, err := flow.Submit(r.Context())
	switch {
	case err == nil:
	case inquiry.IsValidationError(err) != nil:
		response.ValidationFailed(w, inquiry.IsValidationError(err).Fields())
		return
	case errors.Is(err, inquiry.ErrNotificationFailed) && res != nil:
		response.WriteJSON(w, http.StatusBadGateway, failedResponse{
			Error:         "We could not pass your inquiry to our reservations team. Please try again or call us.",
			Code:          response.CodeNotifyFailed,
			Status:        flow.State(),
			ReferenceCode: res.ReferenceCode,
		})
		return
	default:
		logger.ErrorContext(r.Context(), "Inquiry submission failed", "error", err)
		response.InternalError(w, "could not submit inquiry")
		return
	}

	response.WriteJSON(w, http.StatusCreated, submitResponse{
		ReferenceCode: res.ReferenceCode,
		Status:        flow.State(),
		Confirmation: confirmationView{
			Confirmation: res.Confirmation,
			Message:      res.Confirmation.Message(),
		},
		Summary:     d.Summary(),
		SubmittedAt: res.SubmittedAt,
	})
}
