// Package notion implements the document-database sink against the Notion
// REST API. Only the one call the bridge needs is covered: creating a page
// (one per message) inside a database.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/camerodev/wabridge/internal/bridge_service/domain"
)

const (
	apiVersion = "2022-06-28"

	// maxContentLength bounds the Contenido property, including the
	// ellipsis marker appended on truncation.
	maxContentLength = 2000
	ellipsis         = "..."
)

// Client talks to the Notion pages API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient builds a client for the given API base URL
// (e.g. "https://api.notion.com/v1"). Notion can be slow on large
// databases; the generous timeout matches what the deployment ran with.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 120 * time.Second},
		baseURL:    baseURL,
		logger:     logger.With("component", "notion_client"),
	}
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type textContent struct {
	Content string `json:"content"`
}

type richText struct {
	Text textContent `json:"text"`
}

type titleProperty struct {
	Title []richText `json:"title"`
}

type richTextProperty struct {
	RichText []richText `json:"rich_text"`
}

type selectProperty struct {
	Select selectOption `json:"select"`
}

type selectOption struct {
	Name string `json:"name"`
}

type dateProperty struct {
	Date dateValue `json:"date"`
}

type dateValue struct {
	Start string `json:"start"`
}

type pageCreateRequest struct {
	Parent     pageParent     `json:"parent"`
	Properties map[string]any `json:"properties"`
}

type pageCreateResponse struct {
	ID string `json:"id"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func title(s string) titleProperty {
	return titleProperty{Title: []richText{{Text: textContent{Content: s}}}}
}

func text(s string) richTextProperty {
	return richTextProperty{RichText: []richText{{Text: textContent{Content: s}}}}
}

// CreatePage creates one database entry for the resolved message using the
// given binding (credential + destination database).
func (c *Client) CreatePage(ctx context.Context, binding domain.SinkBinding, record *domain.ResolvedMessage) error {
	payload := pageCreateRequest{
		Parent: pageParent{DatabaseID: binding.DatabaseID},
		Properties: map[string]any{
			"Remitente":               title(orDefault(record.SenderName, domain.SentinelUnknown)),
			"Destinatario":            text(orDefault(record.RecipientName, domain.SentinelUnknown)),
			"Tipo":                    selectProperty{Select: selectOption{Name: record.Direction.String()}},
			"Fecha de Contacto":       dateProperty{Date: dateValue{Start: record.ISOTimestamp()}},
			"Contenido":               text(orDefault(Truncate(record.Body), domain.SentinelEmptyBody)),
			"Teléfono remitente":      text(orDefault(record.SenderPhone, domain.SentinelNoPhone)),
			"Teléfono destinatario":   text(orDefault(record.RecipientPhone, domain.SentinelNoPhone)),
			"Proyecto":                text(orDefault(record.ProjectID, domain.SentinelNoProject)),
			"Grupo":                   text(record.GroupName),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal page payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build page request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+binding.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("create page: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("notion API error (status %d, code %s): %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("notion API error (status %d)", resp.StatusCode)
	}

	var created pageCreateResponse
	if err := json.Unmarshal(respBody, &created); err == nil && created.ID != "" {
		c.logger.InfoContext(ctx, "Entry added to Notion", "page_id", created.ID, "database_id", binding.DatabaseID)
	}
	return nil
}

// Truncate bounds content to maxContentLength, replacing the tail with an
// ellipsis marker when it exceeds the limit. The final length, marker
// included, never exceeds the limit.
func Truncate(content string) string {
	runes := []rune(content)
	if len(runes) <= maxContentLength {
		return content
	}
	return string(runes[:maxContentLength-len(ellipsis)]) + ellipsis
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
