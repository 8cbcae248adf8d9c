// Package email renders the digest as an HTML newsletter and delivers it
// via Gmail SMTP or the SendGrid mail API.
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"gopkg.in/gomail.v2"

	"mortgagebrief/internal/config"
	"mortgagebrief/internal/core"
	"mortgagebrief/internal/logger"
	"mortgagebrief/internal/render"
)

const (
	senderName      = "Mortgage AI Briefing"
	gmailSMTPHost   = "smtp.gmail.com"
	gmailSMTPPort   = 587
	sendGridMailURL = "https://api.sendgrid.com/v3/mail/send"
)

// EmailData contains all data needed for rendering the newsletter.
type EmailData struct {
	Title            string
	Date             string
	ExecutiveSummary string
	TLDR             []string
	Items            []ItemView
}

// ItemView is one ranked item prepared for display.
type ItemView struct {
	Index    int
	Title    string
	Source   string
	Category string
	What     string
	Action   string
	URL      string
}

// Service sends the digest by email. Gmail SMTP is preferred when both
// Gmail and SendGrid are configured.
type Service struct {
	from             string
	to               string
	gmailAppPassword string
	sendGridAPIKey   string
	sendGridURL      string
	httpClient       *http.Client
	dialAndSend      func(*gomail.Message) error
}

// NewService creates an email service from the email configuration.
func NewService(cfg config.Email) *Service {
	s := &Service{
		from:             cfg.From,
		to:               cfg.To,
		gmailAppPassword: cfg.GmailAppPassword,
		sendGridAPIKey:   cfg.SendGridAPIKey,
		sendGridURL:      sendGridMailURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	s.dialAndSend = func(m *gomail.Message) error {
		dialer := gomail.NewDialer(gmailSMTPHost, gmailSMTPPort, s.from, s.gmailAppPassword)
		return dialer.DialAndSend(m)
	}
	return s
}

// SendNewsletter renders and delivers the digest.
func (s *Service) SendNewsletter(digest core.Digest, dateStr string) error {
	subject := fmt.Sprintf("Mortgage AI Briefing - %s", dateStr)
	htmlBody, err := RenderHTML(digest, dateStr)
	if err != nil {
		return fmt.Errorf("failed to render newsletter HTML: %w", err)
	}
	plainBody := render.PlainNewsletter(digest)

	if s.gmailAppPassword != "" {
		return s.sendGmail(subject, plainBody, htmlBody)
	}
	if s.sendGridAPIKey != "" {
		return s.sendSendGrid(subject, plainBody, htmlBody)
	}
	return fmt.Errorf("no email delivery method configured")
}

// sendGmail delivers via Gmail SMTP with an app password.
func (s *Service) sendGmail(subject, plain, html string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, senderName)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plain)
	m.AddAlternative("text/html", html)

	if err := s.dialAndSend(m); err != nil {
		return fmt.Errorf("gmail send failed: %w", err)
	}

	logger.Get().Info().Str("to", s.to).Msg("Newsletter email sent via Gmail")
	return nil
}

type sendGridRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// sendSendGrid delivers via the SendGrid v3 mail API.
func (s *Service) sendSendGrid(subject, plain, html string) error {
	payload := sendGridRequest{
		Personalizations: []sendGridPersonalization{
			{To: []sendGridAddress{{Email: s.to}}},
		},
		From:    sendGridAddress{Email: s.from, Name: senderName},
		Subject: subject,
		Content: []sendGridContent{
			{Type: "text/plain", Value: plain},
			{Type: "text/html", Value: html},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode SendGrid request: %w", err)
	}

	req, err := http.NewRequest("POST", s.sendGridURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create SendGrid request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.sendGridAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("SendGrid request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("SendGrid returned status %d: %s", resp.StatusCode, respBody)
	}

	logger.Get().Info().Str("to", s.to).Msg("Newsletter email sent via SendGrid")
	return nil
}

// RenderHTML renders the digest as the HTML newsletter body.
func RenderHTML(digest core.Digest, dateStr string) (string, error) {
	data := EmailData{
		Title:            "Mortgage AI Briefing",
		Date:             dateStr,
		ExecutiveSummary: digest.ExecutiveSummary,
		TLDR:             digest.TLDR,
		Items:            buildItemViews(digest.Items),
	}

	var buf bytes.Buffer
	if err := newsletterTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// buildItemViews splits each summary into the what/action pair and resolves
// display categories.
func buildItemViews(items []core.RankedItem) []ItemView {
	views := make([]ItemView, 0, len(items))
	for i, item := range items {
		view := ItemView{
			Index:    i + 1,
			Title:    item.Title,
			Source:   item.Source,
			Category: render.CategoryLabel(item.Category),
			URL:      item.URL,
		}

		if item.Summary != "" {
			sentences := render.SplitSentences(item.Summary)
			if len(sentences) > 0 {
				view.What = sentences[0]
			}
			if len(sentences) > 1 {
				view.Action = sentences[1]
			}
		} else {
			view.What = item.Description
		}

		views = append(views, view)
	}
	return views
}

var newsletterTemplate = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, 'Helvetica Neue', Arial, sans-serif; background-color: #f5f5f5;">
  <table width="100%" cellpadding="0" cellspacing="0" style="background-color: #f5f5f5; padding: 20px 0;">
    <tr>
      <td align="center">
        <table width="600" cellpadding="0" cellspacing="0" style="background-color: #ffffff; border-radius: 8px; overflow: hidden;">
          <tr>
            <td style="background: linear-gradient(135deg, #1a365d 0%, #2c5282 100%); padding: 30px 40px;">
              <h1 style="margin: 0; color: #ffffff; font-size: 24px; font-weight: 600;">{{.Title}}</h1>
              <p style="margin: 8px 0 0 0; color: #a0c4ff; font-size: 14px;">{{.Date}} &middot; Workflow &bull; Leads &bull; Clean Files</p>
            </td>
          </tr>
          <tr>
            <td style="padding: 30px 40px; background-color: #f8fafc;">
              <h2 style="margin: 0 0 12px 0; color: #1a365d; font-size: 14px; text-transform: uppercase; letter-spacing: 1px;">Strategic Summary</h2>
              <p style="margin: 0; color: #333; font-size: 15px; line-height: 1.6;">{{.ExecutiveSummary}}</p>
            </td>
          </tr>
{{if .TLDR}}
          <tr>
            <td style="padding: 20px 40px 0 40px;">
              <h2 style="margin: 0 0 12px 0; color: #1a365d; font-size: 14px; text-transform: uppercase; letter-spacing: 1px;">TL;DR</h2>
              <ul style="margin: 0; padding-left: 20px; color: #333; font-size: 14px; line-height: 1.6;">
{{range .TLDR}}                <li>{{.}}</li>
{{end}}              </ul>
            </td>
          </tr>
{{end}}
          <tr>
            <td style="padding: 20px 40px;">
              <h2 style="margin: 0 0 20px 0; color: #1a365d; font-size: 14px; text-transform: uppercase; letter-spacing: 1px;">Top Actionable Items</h2>
              <table width="100%" cellpadding="0" cellspacing="0">
{{range .Items}}
                <tr>
                  <td style="padding: 20px 0; border-bottom: 1px solid #e0e0e0;">
                    <h3 style="margin: 0 0 8px 0; color: #1a1a1a; font-size: 16px;">{{.Index}}. {{.Title}}</h3>
                    <p style="margin: 0 0 12px 0; color: #666; font-size: 13px;">{{.Source}} &middot; {{.Category}}</p>
                    <p style="margin: 0 0 8px 0; color: #333; font-size: 14px; line-height: 1.5;">{{.What}}</p>
{{if .Action}}                    <p style="margin: 0 0 12px 0; color: #0066cc; font-size: 14px; font-weight: 500;">&rarr; {{.Action}}</p>
{{end}}                    <a href="{{.URL}}" style="color: #0066cc; font-size: 13px; text-decoration: none;">Read more &rarr;</a>
                  </td>
                </tr>
{{end}}
              </table>
            </td>
          </tr>
          <tr>
            <td style="padding: 20px 40px; background-color: #f8fafc; text-align: center;">
              <p style="margin: 0; color: #666; font-size: 12px;">Curated daily for mortgage technology leaders</p>
            </td>
          </tr>
        </table>
      </td>
    </tr>
  </table>
</body>
</html>
`))
