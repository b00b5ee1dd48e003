package api

import "time"

// PostReq is one post in a scan request. Parent and Siblings carry the
// question context that whole-post rules need; they are never scanned
// themselves.
type PostReq struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Username      string     `json:"username"`
	Site          string     `json:"site"`
	OwnerRep      int        `json:"owner_rep"`
	Score         int        `json:"score"`
	IsAnswer      bool       `json:"is_answer"`
	BodyIsSummary bool       `json:"body_is_summary,omitempty"`
	Parent        *PostReq   `json:"parent,omitempty"`
	Siblings      []*PostReq `json:"siblings,omitempty"`
}

// ScanRequest is the JSON body for POST /v1/scan.
type ScanRequest struct {
	Post *PostReq `json:"post"`
}

// ScanResponse is the verdict for one post.
type ScanResponse struct {
	Spam      bool     `json:"spam"`
	Reasons   []string `json:"reasons"`
	Why       string   `json:"why"`
	RequestID string   `json:"request_id"`
	LatencyMs float64  `json:"latency_ms"`
}

// EventResp is one persisted scan event.
type EventResp struct {
	RequestID    string    `json:"request_id"`
	Timestamp    time.Time `json:"timestamp"`
	Site         string    `json:"site"`
	PostID       int64     `json:"post_id"`
	IsAnswer     bool      `json:"is_answer"`
	Username     string    `json:"username"`
	OwnerRep     int32     `json:"owner_rep"`
	Score        int32     `json:"score"`
	TitlePreview string    `json:"title_preview"`
	BodyPreview  string    `json:"body_preview"`
	Spam         bool      `json:"spam"`
	Reasons      []string  `json:"reasons"`
	Why          string    `json:"why"`
	LatencyMs    float32   `json:"latency_ms"`
	Source       string    `json:"source"`
}

// EventListResp is a page of scan events.
type EventListResp struct {
	Events   []EventResp `json:"events"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

// ErrorResp is a standard error response body.
type ErrorResp struct {
	Detail string `json:"detail"`
}
