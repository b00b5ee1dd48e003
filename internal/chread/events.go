package chread

import (
	"context"
	"crypto/tls"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"
)

// Reader provides read access to the ClickHouse scan_events table.
type Reader struct {
	conn   driver.Conn
	logger *zap.Logger
}

// NewReader opens a ClickHouse connection for read queries.
func NewReader(dsn string, logger *zap.Logger) (*Reader, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("NewReader: %w", err)
	}
	if opts.TLS == nil {
		opts.TLS = &tls.Config{}
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("NewReader: %w", err)
	}
	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("NewReader: %w", err)
	}

	return &Reader{conn: conn, logger: logger}, nil
}

// Close closes the ClickHouse connection.
func (r *Reader) Close() error {
	return r.conn.Close()
}

// EventRow represents a single row from the scan_events table.
type EventRow struct {
	RequestID    string
	Timestamp    time.Time
	Site         string
	PostID       int64
	IsAnswer     uint8
	Username     string
	OwnerRep     int32
	Score        int32
	TitlePreview string
	BodyPreview  string
	Spam         uint8
	Reasons      []string
	Why          string
	LatencyMs    float32
	Source       string
}

// ListEventsParams holds filters and pagination for event listing.
type ListEventsParams struct {
	Site      string
	Spam      *bool
	Reason    *string
	Username  *string
	StartTime *time.Time
	EndTime   *time.Time
	Page      int
	PageSize  int
}

const eventColumns = "request_id, timestamp, site, post_id, is_answer, " +
	"username, owner_rep, score, title_preview, body_preview, " +
	"spam, reasons, why, latency_ms, source"

// ListEvents returns paginated, filtered scan events and the total count.
func (r *Reader) ListEvents(ctx context.Context, params ListEventsParams) ([]EventRow, int, error) {
	conditions := []string{"1 = 1"}
	var args []any

	if params.Site != "" {
		conditions = append(conditions, "site = @site")
		args = append(args, clickhouse.Named("site", params.Site))
	}
	if params.Spam != nil {
		var v uint8
		if *params.Spam {
			v = 1
		}
		conditions = append(conditions, "spam = @spam")
		args = append(args, clickhouse.Named("spam", v))
	}
	if params.Reason != nil {
		conditions = append(conditions, "has(reasons, @reason)")
		args = append(args, clickhouse.Named("reason", *params.Reason))
	}
	if params.Username != nil {
		conditions = append(conditions, "username = @username")
		args = append(args, clickhouse.Named("username", *params.Username))
	}
	if params.StartTime != nil {
		conditions = append(conditions, "timestamp >= @start_time")
		args = append(args, clickhouse.Named("start_time", *params.StartTime))
	}
	if params.EndTime != nil {
		conditions = append(conditions, "timestamp <= @end_time")
		args = append(args, clickhouse.Named("end_time", *params.EndTime))
	}

	where := strings.Join(conditions, " AND ")
	offset := (params.Page - 1) * params.PageSize

	var total uint64
	countQuery := fmt.Sprintf("SELECT count() FROM scan_events WHERE %s", where)
	if err := r.conn.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ListEvents count: %w", err)
	}

	dataQuery := fmt.Sprintf(
		"SELECT %s FROM scan_events WHERE %s ORDER BY timestamp DESC LIMIT @limit OFFSET @offset",
		eventColumns, where,
	)
	args = append(args,
		clickhouse.Named("limit", uint32(params.PageSize)),
		clickhouse.Named("offset", uint32(offset)),
	)

	rows, err := r.conn.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ListEvents query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []EventRow
	for rows.Next() {
		var e EventRow
		if err := scanEventRow(rows, &e); err != nil {
			return nil, 0, fmt.Errorf("ListEvents scan: %w", err)
		}
		events = append(events, e)
	}

	return events, int(total), rows.Err()
}

// GetEvent returns a single event by request ID, or nil if not found.
func (r *Reader) GetEvent(ctx context.Context, requestID string) (*EventRow, error) {
	row := r.conn.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM scan_events WHERE request_id = @request_id", eventColumns),
		clickhouse.Named("request_id", requestID),
	)

	var e EventRow
	if err := scanEventRow(row, &e); err != nil {
		// ClickHouse does not return sql.ErrNoRows; an empty result scans
		// into zero values.
		return nil, fmt.Errorf("GetEvent: %w", err)
	}
	if e.RequestID == "" {
		return nil, nil
	}
	return &e, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEventRow(row rowScanner, e *EventRow) error {
	return row.Scan(
		&e.RequestID, &e.Timestamp, &e.Site, &e.PostID, &e.IsAnswer,
		&e.Username, &e.OwnerRep, &e.Score, &e.TitlePreview, &e.BodyPreview,
		&e.Spam, &e.Reasons, &e.Why, &e.LatencyMs, &e.Source,
	)
}

// SummaryStats holds aggregate counts.
type SummaryStats struct {
	TotalScans int `json:"total_scans"`
	Flagged    int `json:"flagged"`
	Clean      int `json:"clean"`
}

// TimeSeriesBucket holds an hourly count.
type TimeSeriesBucket struct {
	Hour  string `json:"hour"`
	Count int    `json:"count"`
}

// ReasonCount holds a verdict reason and its count.
type ReasonCount struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// SiteCount holds a site and its flagged-post count.
type SiteCount struct {
	Site  string `json:"site"`
	Count int    `json:"count"`
}

// LatencyStats holds latency percentiles.
type LatencyStats struct {
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

// AnalyticsResult holds all analytics aggregations.
type AnalyticsResult struct {
	Summary            SummaryStats       `json:"summary"`
	FlagsOverTime      []TimeSeriesBucket `json:"flags_over_time"`
	TopReasons         []ReasonCount      `json:"top_reasons"`
	TopSites           []SiteCount        `json:"top_sites"`
	LatencyPercentiles LatencyStats       `json:"latency_percentiles"`
}

// GetAnalytics returns aggregated scan analytics over the given number of days.
func (r *Reader) GetAnalytics(ctx context.Context, days int) (*AnalyticsResult, error) {
	now := time.Now().UTC()
	rangeStart := now.Add(-time.Duration(days) * 24 * time.Hour)
	dayStart := now.Add(-24 * time.Hour)

	baseArgs := []any{
		clickhouse.Named("range_start", rangeStart),
	}

	result := &AnalyticsResult{}

	var total, flagged, clean uint64
	err := r.conn.QueryRow(ctx,
		"SELECT count() as total, "+
			"countIf(spam = 1) as flagged, "+
			"countIf(spam = 0) as clean "+
			"FROM scan_events WHERE timestamp >= @range_start",
		baseArgs...,
	).Scan(&total, &flagged, &clean)
	if err != nil {
		return nil, fmt.Errorf("GetAnalytics summary: %w", err)
	}
	result.Summary = SummaryStats{
		TotalScans: int(total),
		Flagged:    int(flagged),
		Clean:      int(clean),
	}

	fotRows, err := r.conn.Query(ctx,
		"SELECT toStartOfHour(timestamp) as hour, count() as count "+
			"FROM scan_events "+
			"WHERE spam = 1 AND timestamp >= @range_start "+
			"GROUP BY hour ORDER BY hour",
		baseArgs...,
	)
	if err != nil {
		return nil, fmt.Errorf("GetAnalytics flags_over_time: %w", err)
	}
	defer func() { _ = fotRows.Close() }()
	for fotRows.Next() {
		var hour time.Time
		var count uint64
		if err := fotRows.Scan(&hour, &count); err != nil {
			return nil, fmt.Errorf("GetAnalytics flags_over_time scan: %w", err)
		}
		result.FlagsOverTime = append(result.FlagsOverTime, TimeSeriesBucket{
			Hour:  hour.Format(time.RFC3339),
			Count: int(count),
		})
	}

	reasonRows, err := r.conn.Query(ctx,
		"SELECT arrayJoin(reasons) as reason, count() as count "+
			"FROM scan_events "+
			"WHERE spam = 1 AND timestamp >= @range_start "+
			"GROUP BY reason ORDER BY count DESC LIMIT 10",
		baseArgs...,
	)
	if err != nil {
		return nil, fmt.Errorf("GetAnalytics top_reasons: %w", err)
	}
	defer func() { _ = reasonRows.Close() }()
	for reasonRows.Next() {
		var reason string
		var count uint64
		if err := reasonRows.Scan(&reason, &count); err != nil {
			return nil, fmt.Errorf("GetAnalytics top_reasons scan: %w", err)
		}
		result.TopReasons = append(result.TopReasons, ReasonCount{
			Reason: reason, Count: int(count),
		})
	}

	siteRows, err := r.conn.Query(ctx,
		"SELECT site, count() as count "+
			"FROM scan_events "+
			"WHERE spam = 1 AND timestamp >= @range_start "+
			"GROUP BY site ORDER BY count DESC LIMIT 10",
		baseArgs...,
	)
	if err != nil {
		return nil, fmt.Errorf("GetAnalytics top_sites: %w", err)
	}
	defer func() { _ = siteRows.Close() }()
	for siteRows.Next() {
		var site string
		var count uint64
		if err := siteRows.Scan(&site, &count); err != nil {
			return nil, fmt.Errorf("GetAnalytics top_sites scan: %w", err)
		}
		result.TopSites = append(result.TopSites, SiteCount{
			Site: site, Count: int(count),
		})
	}

	var p50, p95, p99 float64
	err = r.conn.QueryRow(ctx,
		"SELECT quantile(0.5)(latency_ms) as p50, "+
			"quantile(0.95)(latency_ms) as p95, "+
			"quantile(0.99)(latency_ms) as p99 "+
			"FROM scan_events WHERE timestamp >= @day_start",
		clickhouse.Named("day_start", dayStart),
	).Scan(&p50, &p95, &p99)
	if err != nil {
		return nil, fmt.Errorf("GetAnalytics latency: %w", err)
	}
	result.LatencyPercentiles = LatencyStats{
		P50: safeFloat(p50), P95: safeFloat(p95), P99: safeFloat(p99),
	}

	if result.FlagsOverTime == nil {
		result.FlagsOverTime = []TimeSeriesBucket{}
	}
	if result.TopReasons == nil {
		result.TopReasons = []ReasonCount{}
	}
	if result.TopSites == nil {
		result.TopSites = []SiteCount{}
	}

	return result, nil
}

// safeFloat replaces NaN/Inf with 0.0.
// ClickHouse returns NaN for quantile() on empty result sets.
func safeFloat(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0.0
	}
	return f
}
