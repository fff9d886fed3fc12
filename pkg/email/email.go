package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"realty_gateway/internal/model"
	"realty_gateway/pkg/config"
)

const DefaultEndpoint = "https://api.resend.com/emails"

var ErrNoRecipient = errors.New("no agent email configured")

type EmailService struct {
	apiKey     string
	from       string
	agentEmail string
	endpoint   string
	client     *http.Client
	templates  *template.Template
	log        *slog.Logger
}

type EmailData struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Html    string `json:"html"`
	ReplyTo string `json:"reply_to,omitempty"`
}

type EnquiryNotificationData struct {
	PropertyLabel string
	PropertyID    string
	Name          string
	Email         string
	Phone         string
	Message       string
}

type EnquirySummary struct {
	Name     string
	Email    string
	Property string
}

type DailyDigestData struct {
	Date           time.Time
	NewSubscribers int
	Enquiries      []EnquirySummary
}

type Option func(*EmailService)

// WithEndpoint points the service at another Resend-compatible API.
func WithEndpoint(url string) Option {
	return func(s *EmailService) {
		s.endpoint = url
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *EmailService) {
		s.client = c
	}
}

func NewEmailService(cfg config.EmailConfig, log *slog.Logger, opts ...Option) (*EmailService, error) {
	if cfg.ResendAPIKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, fmt.Errorf("error loading email templates: %w", err)
	}

	s := &EmailService{
		apiKey:     cfg.ResendAPIKey,
		from:       cfg.From,
		agentEmail: cfg.AgentEmail,
		endpoint:   DefaultEndpoint,
		client:     &http.Client{Timeout: 10 * time.Second},
		templates:  templates,
		log:        log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *EmailService) sendTemplateEmail(ctx context.Context, msg EmailData, templateName string, data interface{}) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}
	msg.From = s.from
	msg.Html = body.String()

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("error marshaling email data: %w", err)
	}

	s.log.Debug("Sending email", "to", msg.To, "template", templateName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("error sending email: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("resend API error (status %d): %s", resp.StatusCode, respBody)
	}

	s.log.Debug("Email sent", "to", msg.To, "status", resp.StatusCode)
	return nil
}

// NotifyEnquiry emails the agent about a new enquiry. Replies go straight to
// the visitor.
func (s *EmailService) NotifyEnquiry(ctx context.Context, e model.EnquiryData) error {
	if s.agentEmail == "" {
		return ErrNoRecipient
	}

	data := EnquiryNotificationData{
		Name:  e.Name,
		Email: e.Email,
		Phone: e.Phone,
	}
	if e.Property != nil {
		data.PropertyLabel = *e.Property
	}
	if e.PropertyID != nil {
		data.PropertyID = *e.PropertyID
	}
	if e.Message != nil {
		data.Message = *e.Message
	}

	subject := "New enquiry"
	if data.PropertyLabel != "" {
		subject = "New enquiry: " + data.PropertyLabel
	}

	return s.sendTemplateEmail(ctx, EmailData{
		To:      s.agentEmail,
		Subject: subject,
		ReplyTo: e.Email,
	}, templateEnquiryNotification, data)
}

// SendDailyDigest emails the agent the day's new subscribers and enquiries.
func (s *EmailService) SendDailyDigest(ctx context.Context, data DailyDigestData) error {
	if s.agentEmail == "" {
		return ErrNoRecipient
	}
	return s.sendTemplateEmail(ctx, EmailData{
		To:      s.agentEmail,
		Subject: fmt.Sprintf("Daily summary: %d enquiries, %d new subscribers", len(data.Enquiries), data.NewSubscribers),
	}, templateDailyDigest, data)
}
