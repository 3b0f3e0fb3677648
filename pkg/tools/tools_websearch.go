package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
)

// defaultSearchEndpoint is the Exa search API.
const defaultSearchEndpoint = "https://api.exa.ai/search"

const (
	defaultSearchResults = 5
	maxSearchResults     = 10
)

type webSearchTool struct {
	ctx Context
}

func (t *webSearchTool) name() string {
	return "web_search"
}

func (t *webSearchTool) definition() openai.ChatCompletionToolParam {
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        "web_search",
			Description: openai.String("Search the web for current information"),
			Parameters: openai.FunctionParameters{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search query.",
					},
					"num_results": map[string]any{
						"type":        "integer",
						"description": "Number of results to return (max 10, default 5).",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

type searchRequest struct {
	Query         string `json:"query"`
	NumResults    int    `json:"num_results"`
	UseAutoprompt bool   `json:"use_autoprompt"`
}

type searchResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Text  string `json:"text"`
	} `json:"results"`
}

func (t *webSearchTool) execute(argText string) (string, error) {
	var args struct {
		Query      string `json:"query"`
		NumResults int    `json:"num_results"`
	}
	if err := json.Unmarshal([]byte(argText), &args); err != nil {
		return marshalToolResponse("web_search", nil, err)
	}
	t.ctx.debugf("[verbose] web_search: query=%q, num_results=%d", args.Query, args.NumResults)

	if strings.TrimSpace(args.Query) == "" {
		return marshalToolResponse("web_search", nil, errors.New("query is required"))
	}
	// No key means no call is attempted at all.
	if t.ctx.SearchAPIKey == "" {
		return marshalToolResponse("web_search", nil, ErrSearchUnavailable)
	}

	numResults := args.NumResults
	if numResults <= 0 {
		numResults = defaultSearchResults
	}
	if numResults > maxSearchResults {
		numResults = maxSearchResults
	}

	results, err := t.search(args.Query, numResults)
	if err != nil {
		t.ctx.debugf("[verbose] web_search: %v", err)
		return marshalToolResponse("web_search", nil, err)
	}
	t.ctx.debugf("[verbose] web_search: %d result(s)", len(results.Results))

	type searchHit struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Snippet string `json:"snippet"`
	}
	hits := make([]searchHit, 0, len(results.Results))
	for _, item := range results.Results {
		snippet := item.Text
		if len(snippet) > 150 {
			snippet = snippet[:150] + "..."
		}
		hits = append(hits, searchHit{Title: item.Title, URL: item.URL, Snippet: snippet})
	}

	result := struct {
		Query   string      `json:"query"`
		Count   int         `json:"count"`
		Results []searchHit `json:"results"`
	}{
		Query:   args.Query,
		Count:   len(hits),
		Results: hits,
	}
	return marshalToolResponse("web_search", result, nil)
}

func (t *webSearchTool) search(query string, numResults int) (*searchResponse, error) {
	endpoint := t.ctx.SearchEndpoint
	if endpoint == "" {
		endpoint = defaultSearchEndpoint
	}
	client := t.ctx.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	body, err := json.Marshal(searchRequest{
		Query:         query,
		NumResults:    numResults,
		UseAutoprompt: true,
	})
	if err != nil {
		return nil, err
	}

	reqCtx := t.ctx.Ctx
	if reqCtx == nil {
		reqCtx = context.Background()
	}
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", t.ctx.SearchAPIKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}
	return &parsed, nil
}
