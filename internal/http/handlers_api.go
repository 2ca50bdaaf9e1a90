package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"memorizer/internal/core"
	applog "memorizer/internal/log"
)

type shiftRequest struct {
	WorkerName string `json:"workerName" validate:"required,max=100"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime  string `json:"startTime" validate:"required"`
	EndTime    string `json:"endTime" validate:"required"`
}

func (req shiftRequest) toShift() (core.Shift, error) {
	d, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Shift{}, err
	}
	start, err := core.ParseClock(req.StartTime)
	if err != nil {
		return core.Shift{}, fmt.Errorf("startTime: %w", err)
	}
	end, err := core.ParseClock(req.EndTime)
	if err != nil {
		return core.Shift{}, fmt.Errorf("endTime: %w", err)
	}
	return core.Shift{
		WorkerName: sanitizeInput(req.WorkerName),
		Date:       d,
		StartTime:  start,
		EndTime:    end,
	}, nil
}

type songRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Artist  string `json:"artist" validate:"required,max=200"`
	AddedBy string `json:"addedBy" validate:"required,max=200"`
}

func (req songRequest) toSong() core.Song {
	return core.Song{
		Title:   sanitizeInput(req.Title),
		Artist:  sanitizeInput(req.Artist),
		AddedBy: sanitizeInput(req.AddedBy),
	}
}

func (s *Server) handleListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := s.ledger.ListShifts(r.Context())
	if err != nil {
		writeServiceError(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, r, http.StatusOK, shifts)
}

func (s *Server) handleCreateShift(w http.ResponseWriter, r *http.Request) {
	var req shiftRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	shift, err := req.toShift()
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}

	created, err := s.ledger.CreateShift(r.Context(), shift)
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	s.metrics.entryCreated(core.KindShift)
	applog.LogEntryCreated(r.Context(), string(core.KindShift), created.ID, int64(created.Cost))
	writeJSON(w, r, http.StatusOK, created)
}

func (s *Server) handleDeleteShift(w http.ResponseWriter, r *http.Request) {
	s.deleteEntry(w, r, core.KindShift)
}

func (s *Server) handleListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := s.ledger.ListSongs(r.Context())
	if err != nil {
		writeServiceError(w, r, applog.OpList, err)
		return
	}
	writeJSON(w, r, http.StatusOK, songs)
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	var req songRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}

	created, err := s.ledger.CreateSong(r.Context(), req.toSong())
	if err != nil {
		writeServiceError(w, r, applog.OpCreate, err)
		return
	}
	s.metrics.entryCreated(core.KindSong)
	applog.LogEntryCreated(r.Context(), string(core.KindSong), created.ID, int64(created.Cost))
	writeJSON(w, r, http.StatusOK, created)
}

func (s *Server) handleDeleteSong(w http.ResponseWriter, r *http.Request) {
	s.deleteEntry(w, r, core.KindSong)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request, kind core.EntryKind) {
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, applog.OpDelete, err)
		return
	}
	if err := s.remove(r, kind, id); err != nil {
		writeServiceError(w, r, applog.OpDelete, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// remove deletes one entry of kind; the API and the UI share it.
func (s *Server) remove(r *http.Request, kind core.EntryKind, id int64) error {
	var err error
	if kind == core.KindShift {
		err = s.ledger.DeleteShift(r.Context(), id)
	} else {
		err = s.ledger.DeleteSong(r.Context(), id)
	}
	if err != nil {
		return err
	}
	s.metrics.entryDeleted(kind)
	applog.FromContext(r.Context()).WithComponent(applog.ComponentLedger).InfoContext(r.Context(),
		"Entry deleted",
		applog.NewFields().WithOperation(applog.OpDelete).WithEntry(string(kind), id, 0).ToSlice()...)
	return nil
}

func (s *Server) handleEarnings(w http.ResponseWriter, r *http.Request) {
	stats, err := s.ledger.Earnings(r.Context())
	if err != nil {
		writeServiceError(w, r, applog.OpStats, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handlePayout(w http.ResponseWriter, r *http.Request) {
	if err := s.payout(r); err != nil {
		writeServiceError(w, r, applog.OpPayout, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) payout(r *http.Request) error {
	res, err := s.ledger.Payout(r.Context())
	if err != nil {
		return err
	}
	s.metrics.payout(res.Amount)
	applog.FromContext(r.Context()).WithComponent(applog.ComponentLedger).InfoContext(r.Context(),
		"Payout completed",
		applog.FieldOperation, applog.OpPayout,
		"shifts", res.Shifts,
		"songs", res.Songs,
		applog.FieldCost, int64(res.Amount))
	return nil
}
