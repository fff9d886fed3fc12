package cron

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gorm.io/datatypes"

	"realty_gateway/pkg/email"
)

// DigestSource is the read side of the gateway the digest needs.
type DigestSource interface {
	FetchEnquiries(ctx context.Context) []datatypes.JSONMap
	FetchNewsletterSubscriptions(ctx context.Context) []datatypes.JSONMap
}

type DigestSender interface {
	SendDailyDigest(ctx context.Context, data email.DailyDigestData) error
}

// DailyDigest mails the agent the enquiries and newsletter signups of the
// current day. It sends at most once per 23 hours.
type DailyDigest struct {
	source DigestSource
	sender DigestSender
	log    *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	lastRun time.Time
}

func NewDailyDigest(source DigestSource, sender DigestSender, log *slog.Logger) *DailyDigest {
	return &DailyDigest{source: source, sender: sender, log: log, now: time.Now}
}

func (d *DailyDigest) Name() string {
	return "daily_digest"
}

func (d *DailyDigest) Run(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if !d.lastRun.IsZero() && now.Sub(d.lastRun) < 23*time.Hour {
		d.log.Info("Daily digest already sent, skipping")
		return nil
	}

	day := now.UTC().Format("2006-01-02")
	data := email.DailyDigestData{Date: now}

	for _, e := range d.source.FetchEnquiries(ctx) {
		if !sameDay(e["created_at"], day) {
			continue
		}
		summary := email.EnquirySummary{
			Name:  fmt.Sprint(e["name"]),
			Email: fmt.Sprint(e["email"]),
		}
		if details, ok := e["property_details"].(map[string]interface{}); ok {
			if label, ok := details["property"].(string); ok {
				summary.Property = label
			}
		}
		data.Enquiries = append(data.Enquiries, summary)
	}
	for _, s := range d.source.FetchNewsletterSubscriptions(ctx) {
		if sameDay(s["subscribed_at"], day) {
			data.NewSubscribers++
		}
	}

	if len(data.Enquiries) == 0 && data.NewSubscribers == 0 {
		d.log.Info("Nothing new today, digest not sent")
		d.lastRun = now
		return nil
	}

	if err := d.sender.SendDailyDigest(ctx, data); err != nil {
		return fmt.Errorf("send daily digest: %w", err)
	}
	d.lastRun = now
	return nil
}

// sameDay compares the UTC date of an ISO-8601 timestamp with day.
func sameDay(v interface{}, day string) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC().Format("2006-01-02") == day
	}
	return strings.HasPrefix(s, day)
}
