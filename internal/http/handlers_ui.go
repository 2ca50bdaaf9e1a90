package http

import (
	"bytes"
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"memorizer/internal/core"
	applog "memorizer/internal/log"
	"memorizer/internal/view"
)

type indexData struct {
	Page          view.Page
	Today         string
	ConfirmPayout string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := s.page(r.Context())
	if err != nil {
		applog.LogError(r.Context(), "Failed to load ledger", err, applog.ComponentHTTP, applog.OpRender)
		http.Error(w, "Не удалось загрузить данные", http.StatusInternalServerError)
		return
	}
	data := indexData{
		Page:          page,
		Today:         Today(s.now()).String(),
		ConfirmPayout: view.ConfirmPayout,
	}
	s.render(w, r, "index", data)
}

// page rebuilds the whole view from fresh collections and stats.
func (s *Server) page(ctx context.Context) (view.Page, error) {
	shifts, songs, err := s.ledger.Entries(ctx)
	if err != nil {
		return view.Page{}, err
	}
	stats, err := s.ledger.Earnings(ctx)
	if err != nil {
		return view.Page{}, err
	}
	return view.Render(s.layout, shifts, songs, stats), nil
}

func (s *Server) handleUIEntries(w http.ResponseWriter, r *http.Request) {
	shifts, songs, err := s.ledger.Entries(r.Context())
	if err != nil {
		s.uiError(w, r, applog.OpList, err)
		return
	}
	s.render(w, r, "entries", view.Render(s.layout, shifts, songs, core.EarningsStats{}))
}

func (s *Server) handleUIStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ledger.Earnings(r.Context())
	if err != nil {
		s.uiError(w, r, applog.OpStats, err)
		return
	}
	s.render(w, r, "stats", view.RenderStats(stats))
}

func (s *Server) handleUIQuickEntry(w http.ResponseWriter, r *http.Request) {
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		BadRequestError("Неверный формат запроса").Write(w)
		return
	}
	entry, err := ParseQuickEntry(p, Today(s.now()))
	if err != nil {
		s.uiError(w, r, applog.OpCreate, err)
		return
	}
	applog.FromContext(r.Context()).DebugContext(r.Context(), "Quick entry parsed",
		applog.FieldEntryType, entry.Kind,
		"json_body", p.IsJSON())

	var (
		id   int64
		cost core.Rubles
		msg  string
	)
	switch entry.Kind {
	case core.KindShift:
		created, err := s.ledger.CreateShift(r.Context(), entry.Shift)
		if err != nil {
			s.uiError(w, r, applog.OpCreate, err)
			return
		}
		id, cost, msg = created.ID, created.Cost, "Смена добавлена"
	case core.KindSong:
		created, err := s.ledger.CreateSong(r.Context(), entry.Song)
		if err != nil {
			s.uiError(w, r, applog.OpCreate, err)
			return
		}
		id, cost, msg = created.ID, created.Cost, "Песня добавлена"
	}

	s.metrics.entryCreated(entry.Kind)
	applog.LogEntryCreated(r.Context(), string(entry.Kind), id, int64(cost))
	NewHTMXResponse().
		TriggerEntriesChanged().
		TriggerSuccessNotification(msg).
		Write(w)
}

func (s *Server) handleUIDelete(kind core.EntryKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := ParseID(chi.URLParam(r, "id"))
		if err != nil {
			s.uiError(w, r, applog.OpDelete, err)
			return
		}
		if err := s.remove(r, kind, id); err != nil {
			s.uiError(w, r, applog.OpDelete, err)
			return
		}
		NewHTMXResponse().TriggerEntriesChanged().Write(w)
	}
}

func (s *Server) handleUIPayout(w http.ResponseWriter, r *http.Request) {
	if err := s.payout(r); err != nil {
		s.uiError(w, r, applog.OpPayout, err)
		return
	}
	NewHTMXResponse().
		TriggerEntriesChanged().
		TriggerSuccessNotification(view.PayoutMessage).
		Write(w)
}

// uiError answers with an error fragment; the cause of a 500 is logged, never shown.
func (s *Server) uiError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := statusFor(err)
	switch status {
	case http.StatusBadRequest:
		BadRequestError(msg).Write(w)
	case http.StatusNotFound:
		NotFoundError(msg).Write(w)
	case http.StatusUnprocessableEntity:
		UnprocessableEntityError(msg).Write(w)
	case http.StatusInternalServerError:
		applog.LogError(r.Context(), "Ledger operation failed", err, applog.ComponentHTTP, op)
		InternalServerError("Ошибка сервера, попробуйте ещё раз").Write(w)
	default:
		ErrorResponse(status, msg).Write(w)
	}
}

// render executes into a buffer so a template error never leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		applog.FromContext(r.Context()).WithComponent(applog.ComponentTemplate).ErrorContext(r.Context(),
			"Template render failed", "template", name, applog.FieldError, err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
