package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// extractRequest mirrors the dashboard extraction request model.
type extractRequest struct {
	URL     string `json:"url"`
	Source  string `json:"source"`
	Scroll  *bool  `json:"scroll,omitempty"`
	Timeout int    `json:"timeout,omitempty"`
}

// reportRequest mirrors the dashboard report-build request model.
type reportRequest struct {
	Title        string   `json:"title,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	SmartLinkURL string   `json:"smartlink_url,omitempty"`
	AnalyticsURL string   `json:"analytics_url,omitempty"`
	ArticleURLs  []string `json:"article_urls,omitempty"`
	PlaylistURLs []string `json:"playlist_urls,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// extractResponse mirrors the dashboard extraction response model.
type extractResponse struct {
	Success bool            `json:"success"`
	Source  string          `json:"source"`
	Data    json.RawMessage `json:"data"`
	Error   *errorDetail    `json:"error"`
}

// sectionMirror mirrors one report section.
type sectionMirror struct {
	SourceURL string          `json:"source_url"`
	Result    json.RawMessage `json:"result"`
	Error     *errorDetail    `json:"error"`
}

// reportMirror mirrors the dashboard report model.
type reportMirror struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	CreatedAt string          `json:"created_at"`
	SmartLink *sectionMirror  `json:"smartlink"`
	Analytics *sectionMirror  `json:"analytics"`
	Articles  []sectionMirror `json:"articles"`
	Playlists []sectionMirror `json:"playlists"`
	Error     *errorDetail    `json:"error"`
}

// reportListResponse mirrors the dashboard report list model.
type reportListResponse struct {
	Reports []struct {
		ID             string `json:"id"`
		Title          string `json:"title"`
		CreatedAt      string `json:"created_at"`
		SectionsOK     int    `json:"sections_ok"`
		SectionsFailed int    `json:"sections_failed"`
	} `json:"reports"`
	Total int          `json:"total"`
	Error *errorDetail `json:"error"`
}

// verifyResponse mirrors the dashboard verify response model.
type verifyResponse struct {
	Success      bool         `json:"success"`
	StatusCode   int          `json:"status_code"`
	FinalURL     string       `json:"final_url"`
	Title        string       `json:"title"`
	NeedsBrowser bool         `json:"needs_browser"`
	Error        *errorDetail `json:"error"`
}

func main() {
	apiURL := os.Getenv("PROMO_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	// Empty is fine against an instance running without a password.
	password := os.Getenv("PROMO_DASH_PASSWORD")

	s := server.NewMCPServer(
		"promoreport",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	extractPageTool := mcp.NewTool("extract_page",
		mcp.WithDescription("Extract structured promo data from one rendered page: a smart-link, an analytics dashboard, a press article or a playlist page. Uses a headless browser, so JS-rendered pages work."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page to extract from"),
		),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("Extraction pipeline to run: 'smartlink' (release links page), 'analytics' (link analytics dashboard), 'article' (press coverage), or 'playlist' (streaming playlist page)"),
			mcp.Enum("smartlink", "analytics", "article", "playlist"),
		),
		mcp.WithBoolean("scroll",
			mcp.Description("Force the lazy-load scroll pass on or off (default: on for analytics only)"),
		),
		mcp.WithNumber("timeout",
			mcp.Description("Navigation deadline in seconds (default: 30, max: 120)"),
		),
	)
	s.AddTool(extractPageTool, handleExtractPage(apiURL, password))

	createReportTool := mcp.NewTool("create_report",
		mcp.WithDescription("Build and store a full promo report from source URLs. All URLs are optional but at least one is required; failed sections are recorded on the report without failing it."),
		mcp.WithString("title",
			mcp.Description("Report title (defaults to the extracted release title)"),
		),
		mcp.WithString("smartlink_url",
			mcp.Description("Release smart-link page URL"),
		),
		mcp.WithString("analytics_url",
			mcp.Description("Link analytics dashboard URL"),
		),
		mcp.WithArray("article_urls",
			mcp.Description("Press article URLs"),
		),
		mcp.WithArray("playlist_urls",
			mcp.Description("Streaming playlist page URLs"),
		),
	)
	s.AddTool(createReportTool, handleCreateReport(apiURL, password))

	getReportTool := mcp.NewTool("get_report",
		mcp.WithDescription("Fetch one stored promo report by id, with all extracted sections."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The report id"),
		),
	)
	s.AddTool(getReportTool, handleGetReport(apiURL, password))

	listReportsTool := mcp.NewTool("list_reports",
		mcp.WithDescription("List stored promo reports, newest first."),
	)
	s.AddTool(listReportsTool, handleListReports(apiURL, password))

	verifyURLTool := mcp.NewTool("verify_url",
		mcp.WithDescription("Preflight a URL without spending a browser on it: HTTP status, final URL after redirects, page title, and whether extraction will need JS rendering."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL to check"),
		),
	)
	s.AddTool(verifyURLTool, handleVerifyURL(apiURL, password))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// apiPost sends a POST to the dashboard API and returns the response body.
func apiPost(ctx context.Context, client *http.Client, apiURL, password, path string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if password != "" {
		req.Header.Set("Authorization", "Bearer "+password)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// apiGet sends a GET to the dashboard API and returns the response body.
func apiGet(ctx context.Context, client *http.Client, apiURL, password, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if password != "" {
		req.Header.Set("Authorization", "Bearer "+password)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func handleExtractPage(apiURL, password string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 180 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}
		source, err := request.RequireString("source")
		if err != nil {
			return mcp.NewToolResultError("source is required"), nil
		}

		reqBody := extractRequest{URL: url, Source: source}
		args := request.GetArguments()
		if v, ok := args["scroll"].(bool); ok {
			reqBody.Scroll = &v
		}
		if v, ok := args["timeout"].(float64); ok {
			reqBody.Timeout = int(v)
		}

		respBody, err := apiPost(ctx, client, apiURL, password, "/api/v1/extract", reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("extract request failed: %v", err)), nil
		}

		var extResp extractResponse
		if err := json.Unmarshal(respBody, &extResp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse extract response: %v", err)), nil
		}

		if !extResp.Success {
			errMsg := "extraction failed"
			if extResp.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", extResp.Error.Code, extResp.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, extResp.Data, "", "  "); err != nil {
			pretty.Write(extResp.Data)
		}
		return mcp.NewToolResultText(fmt.Sprintf("Source: %s\n\n%s", extResp.Source, pretty.String())), nil
	}
}

func handleCreateReport(apiURL, password string) server.ToolHandlerFunc {
	// Building a report realizes every source page sequentially.
	client := &http.Client{Timeout: 600 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()

		reqBody := reportRequest{
			Title:        request.GetString("title", ""),
			SmartLinkURL: request.GetString("smartlink_url", ""),
			AnalyticsURL: request.GetString("analytics_url", ""),
		}
		reqBody.ArticleURLs = stringSliceArg(args, "article_urls")
		reqBody.PlaylistURLs = stringSliceArg(args, "playlist_urls")

		if reqBody.SmartLinkURL == "" && reqBody.AnalyticsURL == "" &&
			len(reqBody.ArticleURLs) == 0 && len(reqBody.PlaylistURLs) == 0 {
			return mcp.NewToolResultError("at least one source URL is required"), nil
		}

		respBody, err := apiPost(ctx, client, apiURL, password, "/api/v1/reports", reqBody)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("report request failed: %v", err)), nil
		}

		var rep reportMirror
		if err := json.Unmarshal(respBody, &rep); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse report response: %v", err)), nil
		}
		if rep.ID == "" {
			errMsg := "report creation failed"
			if rep.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", rep.Error.Code, rep.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		return mcp.NewToolResultText(formatReport(&rep)), nil
	}
}

func handleGetReport(apiURL, password string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		respBody, err := apiGet(ctx, client, apiURL, password, "/api/v1/reports/"+id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("report request failed: %v", err)), nil
		}

		var rep reportMirror
		if err := json.Unmarshal(respBody, &rep); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse report response: %v", err)), nil
		}
		if rep.ID == "" {
			errMsg := "report not found"
			if rep.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", rep.Error.Code, rep.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		var pretty bytes.Buffer
		if err := json.Indent(&pretty, respBody, "", "  "); err != nil {
			pretty.Write(respBody)
		}
		return mcp.NewToolResultText(formatReport(&rep) + "\n\nFull report:\n" + pretty.String()), nil
	}
}

func handleListReports(apiURL, password string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 30 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		respBody, err := apiGet(ctx, client, apiURL, password, "/api/v1/reports")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list request failed: %v", err)), nil
		}

		var list reportListResponse
		if err := json.Unmarshal(respBody, &list); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse list response: %v", err)), nil
		}
		if list.Error != nil {
			return mcp.NewToolResultError(fmt.Sprintf("[%s] %s", list.Error.Code, list.Error.Message)), nil
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("%d report(s):\n\n", list.Total))
		for _, r := range list.Reports {
			sb.WriteString(fmt.Sprintf("%s  %s  (%d ok / %d failed)  %s\n",
				r.ID, r.Title, r.SectionsOK, r.SectionsFailed, r.CreatedAt))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

func handleVerifyURL(apiURL, password string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 60 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		respBody, err := apiPost(ctx, client, apiURL, password, "/api/v1/verify", map[string]string{"url": url})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("verify request failed: %v", err)), nil
		}

		var ver verifyResponse
		if err := json.Unmarshal(respBody, &ver); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to parse verify response: %v", err)), nil
		}
		if !ver.Success {
			errMsg := "verify failed"
			if ver.Error != nil {
				errMsg = fmt.Sprintf("[%s] %s", ver.Error.Code, ver.Error.Message)
			}
			return mcp.NewToolResultError(errMsg), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf(
			"Status: %d\nFinal URL: %s\nTitle: %s\nNeeds browser: %v",
			ver.StatusCode, ver.FinalURL, ver.Title, ver.NeedsBrowser,
		)), nil
	}
}

// stringSliceArg reads an optional string-array argument.
func stringSliceArg(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// formatReport renders a one-line-per-section summary.
func formatReport(rep *reportMirror) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Report %s: %s\n", rep.ID, rep.Title))

	line := func(label string, sec *sectionMirror) {
		if sec == nil {
			return
		}
		if sec.Error != nil {
			sb.WriteString(fmt.Sprintf("  %s: FAILED [%s] %s  (%s)\n", label, sec.Error.Code, sec.Error.Message, sec.SourceURL))
			return
		}
		sb.WriteString(fmt.Sprintf("  %s: ok  (%s)\n", label, sec.SourceURL))
	}

	line("smartlink", rep.SmartLink)
	line("analytics", rep.Analytics)
	for i := range rep.Articles {
		line(fmt.Sprintf("article %d", i+1), &rep.Articles[i])
	}
	for i := range rep.Playlists {
		line(fmt.Sprintf("playlist %d", i+1), &rep.Playlists[i])
	}
	return sb.String()
}
