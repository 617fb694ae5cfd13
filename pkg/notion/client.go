package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"

	// notionVersion pins the API revision; property item shapes change
	// between revisions.
	notionVersion = "2022-06-28"
)

var ErrMissingToken = errors.New("notion token is required")

// Client talks to the Notion REST API. It exposes the record store surface
// the summarizer needs: list records as flat string maps, read a database
// schema, and write string values back through the property codec.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	logger     *zap.Logger
}

// NewClient creates a Notion client authenticated with the given integration
// token.
func NewClient(token string, logger *zap.Logger) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		token:      token,
		logger:     logger,
	}, nil
}

// SetBaseURL overrides the API endpoint. Used by tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimRight(base, "/")
}

// page is the subset of a page object the client reads. On a page retrieve
// the properties carry full values; on a database query they at least carry
// the property id needed for the per-property item fetch.
type page struct {
	ID         string                   `json:"id"`
	Properties map[string]PropertyValue `json:"properties"`
}

type queryResponse struct {
	Results []page `json:"results"`
}

type database struct {
	ID         string                   `json:"id"`
	Properties map[string]PropertyValue `json:"properties"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", notionVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// getDatabaseContent returns the pages of a database in query order.
func (c *Client) getDatabaseContent(ctx context.Context, databaseID string) ([]page, error) {
	var resp queryResponse
	if err := c.do(ctx, http.MethodPost, "/databases/"+url.PathEscape(databaseID)+"/query", map[string]any{}, &resp); err != nil {
		return nil, fmt.Errorf("query database %s: %w", databaseID, err)
	}
	return resp.Results, nil
}

// GetPageProperties fetches every property of a page and renders it through
// the display codec, returning a flat name -> string map.
func (c *Client) GetPageProperties(ctx context.Context, pageID string) (map[string]string, error) {
	var pg page
	if err := c.do(ctx, http.MethodGet, "/pages/"+url.PathEscape(pageID), nil, &pg); err != nil {
		return nil, fmt.Errorf("retrieve page %s: %w", pageID, err)
	}

	properties := make(map[string]string, len(pg.Properties))
	for name, prop := range pg.Properties {
		var value PropertyValue
		path := "/pages/" + url.PathEscape(pageID) + "/properties/" + url.PathEscape(prop.ID)
		if err := c.do(ctx, http.MethodGet, path, nil, &value); err != nil {
			return nil, fmt.Errorf("retrieve property %q of page %s: %w", name, pageID, err)
		}
		properties[name] = value.DisplayString()
	}
	return properties, nil
}

// GetPagePropertiesFromDatabase lists every record of a database as a flat
// property map, preserving the store's query order. Each map carries the raw
// page id under the "ID" key so callers can correlate writes.
func (c *Client) GetPagePropertiesFromDatabase(ctx context.Context, databaseID string) ([]map[string]string, error) {
	pages, err := c.getDatabaseContent(ctx, databaseID)
	if err != nil {
		return nil, err
	}

	records := make([]map[string]string, 0, len(pages))
	for _, pg := range pages {
		properties, err := c.GetPageProperties(ctx, pg.ID)
		if err != nil {
			return nil, err
		}
		properties["ID"] = pg.ID
		records = append(records, properties)
	}
	c.logger.Debug("listed database records",
		zap.String("database_id", databaseID),
		zap.Int("count", len(records)))
	return records, nil
}

// GetDatabaseSchema returns the property name -> type mapping of a database.
func (c *Client) GetDatabaseSchema(ctx context.Context, databaseID string) (map[string]PropertyType, error) {
	var db database
	if err := c.do(ctx, http.MethodGet, "/databases/"+url.PathEscape(databaseID), nil, &db); err != nil {
		return nil, fmt.Errorf("retrieve database %s: %w", databaseID, err)
	}
	schema := make(map[string]PropertyType, len(db.Properties))
	for name, prop := range db.Properties {
		schema[name] = prop.Type
	}
	return schema, nil
}

// UpdatePageProperties writes string values into a page. Property names are
// matched case-insensitively against the database schema (or, when the schema
// comes back empty, against the page's own properties); unmatched names and
// values the codec cannot format are dropped with a warning. Returns false
// when nothing could be written or the write itself failed; transport errors
// are logged, never propagated.
func (c *Client) UpdatePageProperties(ctx context.Context, databaseID, pageID string, properties map[string]string) bool {
	schema, err := c.GetDatabaseSchema(ctx, databaseID)
	if err != nil {
		c.logger.Error("retrieve database schema failed", zap.String("database_id", databaseID), zap.Error(err))
		return false
	}
	if len(schema) == 0 {
		c.logger.Warn("database has no properties, falling back to page properties",
			zap.String("database_id", databaseID))
		var pg page
		if err := c.do(ctx, http.MethodGet, "/pages/"+url.PathEscape(pageID), nil, &pg); err != nil {
			c.logger.Error("retrieve page schema failed", zap.String("page_id", pageID), zap.Error(err))
			return false
		}
		schema = make(map[string]PropertyType, len(pg.Properties))
		for name, prop := range pg.Properties {
			schema[name] = prop.Type
		}
	}

	// Lowercase lookup built once per write, not per field.
	nameByLower := make(map[string]string, len(schema))
	for name := range schema {
		nameByLower[strings.ToLower(name)] = name
	}

	formatted := make(map[string]any)
	for name, value := range properties {
		declared, ok := nameByLower[strings.ToLower(name)]
		if !ok {
			c.logger.Warn("property not found in database schema", zap.String("property", name))
			continue
		}
		payload, err := BuildPayload(schema[declared], value)
		if err != nil {
			c.logger.Warn("failed to format property value",
				zap.String("property", declared),
				zap.String("type", string(schema[declared])),
				zap.Error(err))
			continue
		}
		if payload == nil {
			continue
		}
		formatted[declared] = payload
	}

	if len(formatted) == 0 {
		c.logger.Warn("no valid properties to update", zap.String("page_id", pageID))
		return false
	}

	body := map[string]any{"properties": formatted}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+url.PathEscape(pageID), body, nil); err != nil {
		c.logger.Error("update page failed", zap.String("page_id", pageID), zap.Error(err))
		return false
	}
	return true
}

// CreatePage adds a record to a database with its URL and, when known, its
// title. The database schema decides the concrete property names: the single
// title-type property holds the title, and a url-type property (preferring
// one literally named "url") holds the link.
func (c *Client) CreatePage(ctx context.Context, databaseID, videoURL, title string) error {
	schema, err := c.GetDatabaseSchema(ctx, databaseID)
	if err != nil {
		return err
	}

	var titleProp, urlProp string
	for name, propType := range schema {
		switch propType {
		case TypeTitle:
			titleProp = name
		case TypeURL:
			if urlProp == "" || strings.EqualFold(name, "url") {
				urlProp = name
			}
		}
	}
	if urlProp == "" {
		return fmt.Errorf("database %s has no url property", databaseID)
	}

	properties := make(map[string]any)
	if payload, err := BuildPayload(TypeURL, videoURL); err == nil && payload != nil {
		properties[urlProp] = payload
	}
	if titleProp != "" {
		if payload, err := BuildPayload(TypeTitle, title); err == nil && payload != nil {
			properties[titleProp] = payload
		}
	}
	if len(properties) == 0 {
		return fmt.Errorf("nothing to create for %q", videoURL)
	}

	body := map[string]any{
		"parent":     map[string]any{"database_id": databaseID},
		"properties": properties,
	}
	if err := c.do(ctx, http.MethodPost, "/pages", body, nil); err != nil {
		return fmt.Errorf("create page for %q: %w", videoURL, err)
	}
	c.logger.Info("created database record", zap.String("url", videoURL))
	return nil
}
