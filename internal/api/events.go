package api

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/modsentry/spamscan/internal/chread"
)

// handleListEvents implements GET /v1/events.
// Query params: site, spam, reason, username, page, page_size.
func (d *Dependencies) handleListEvents(w http.ResponseWriter, r *http.Request) {
	if d.Reader == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResp{Detail: "event storage not configured"})
		return
	}

	q := r.URL.Query()
	params := chread.ListEventsParams{
		Site:     q.Get("site"),
		Page:     1,
		PageSize: 50,
	}
	if v := q.Get("spam"); v != "" {
		spam := v == "true" || v == "1"
		params.Spam = &spam
	}
	if v := q.Get("reason"); v != "" {
		params.Reason = &v
	}
	if v := q.Get("username"); v != "" {
		params.Username = &v
	}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		params.Page = v
	}
	if v, err := strconv.Atoi(q.Get("page_size")); err == nil && v > 0 && v <= 500 {
		params.PageSize = v
	}

	events, total, err := d.Reader.ListEvents(r.Context(), params)
	if err != nil {
		d.Logger.Error("list events failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Detail: "query failed"})
		return
	}

	resp := EventListResp{
		Events:   make([]EventResp, 0, len(events)),
		Total:    total,
		Page:     params.Page,
		PageSize: params.PageSize,
	}
	for i := range events {
		resp.Events = append(resp.Events, toEventResp(&events[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetEvent implements GET /v1/events/{request_id}.
func (d *Dependencies) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	if d.Reader == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResp{Detail: "event storage not configured"})
		return
	}

	requestID := r.PathValue("request_id")
	event, err := d.Reader.GetEvent(r.Context(), requestID)
	if err != nil {
		d.Logger.Error("get event failed", zap.String("request_id", requestID), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Detail: "query failed"})
		return
	}
	if event == nil {
		writeJSON(w, http.StatusNotFound, ErrorResp{Detail: "event not found"})
		return
	}
	writeJSON(w, http.StatusOK, toEventResp(event))
}

// handleGetAnalytics implements GET /v1/analytics?days=N.
func (d *Dependencies) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	if d.Reader == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResp{Detail: "event storage not configured"})
		return
	}

	days := 7
	if v, err := strconv.Atoi(r.URL.Query().Get("days")); err == nil && v > 0 && v <= 90 {
		days = v
	}

	result, err := d.Reader.GetAnalytics(r.Context(), days)
	if err != nil {
		d.Logger.Error("analytics failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResp{Detail: "query failed"})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func toEventResp(e *chread.EventRow) EventResp {
	return EventResp{
		RequestID:    e.RequestID,
		Timestamp:    e.Timestamp,
		Site:         e.Site,
		PostID:       e.PostID,
		IsAnswer:     e.IsAnswer == 1,
		Username:     e.Username,
		OwnerRep:     e.OwnerRep,
		Score:        e.Score,
		TitlePreview: e.TitlePreview,
		BodyPreview:  e.BodyPreview,
		Spam:         e.Spam == 1,
		Reasons:      e.Reasons,
		Why:          e.Why,
		LatencyMs:    e.LatencyMs,
		Source:       e.Source,
	}
}
