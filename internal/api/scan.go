package api

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/modsentry/spamscan/internal/engine"
	"github.com/modsentry/spamscan/internal/storage"
)

// handleScan implements POST /v1/scan.
// Auth middleware has already validated the Bearer token.
func (d *Dependencies) handleScan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ScanRequest
	if err := readJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "Invalid JSON body"})
		return
	}
	if req.Post == nil {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "post is required"})
		return
	}
	if req.Post.Site == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResp{Detail: "post.site is required"})
		return
	}

	post := toEnginePost(req.Post)
	verdict := d.Engine.Scan(post)

	requestID := uuid.New().String()
	latencyMs := float64(time.Since(start)) / float64(time.Millisecond)

	// Fire-and-forget: persist the scan event.
	d.writeScanEvent(req.Post, requestID, verdict, float32(latencyMs))

	reasons := verdict.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	writeJSON(w, http.StatusOK, ScanResponse{
		Spam:      verdict.Spam(),
		Reasons:   reasons,
		Why:       verdict.Why,
		RequestID: requestID,
		LatencyMs: latencyMs,
	})
}

// toEnginePost converts the wire shape into an engine post, wiring the
// parent question and sibling answers so whole-post rules can see them.
func toEnginePost(p *PostReq) *engine.Post {
	post := &engine.Post{
		ID:            p.ID,
		Title:         p.Title,
		Body:          p.Body,
		Username:      p.Username,
		Site:          p.Site,
		OwnerRep:      p.OwnerRep,
		Score:         p.Score,
		IsAnswer:      p.IsAnswer,
		BodyIsSummary: p.BodyIsSummary,
	}
	if p.Parent != nil {
		post.Parent = toEnginePost(p.Parent)
	}
	for _, s := range p.Siblings {
		if s == nil {
			continue
		}
		post.Siblings = append(post.Siblings, toEnginePost(s))
	}
	return post
}

// writeScanEvent builds a ScanEvent and fires it to the async writer.
func (d *Dependencies) writeScanEvent(p *PostReq, requestID string, v engine.Verdict, latencyMs float32) {
	hash := sha256.Sum256([]byte(p.Body))

	d.Writer.Write(&storage.ScanEvent{
		RequestID:    requestID,
		Timestamp:    time.Now(),
		Site:         p.Site,
		PostID:       p.ID,
		IsAnswer:     p.IsAnswer,
		Username:     p.Username,
		OwnerRep:     int32(p.OwnerRep),
		Score:        int32(p.Score),
		TitlePreview: storage.TruncateText(p.Title, storage.PreviewLength),
		BodyPreview:  storage.TruncateText(p.Body, storage.PreviewLength),
		BodyHash:     hex.EncodeToString(hash[:]),
		BodySize:     uint32(len(p.Body)),
		Spam:         v.Spam(),
		Reasons:      v.Reasons,
		Why:          v.Why,
		LatencyMs:    latencyMs,
		Source:       "api",
	})
}
