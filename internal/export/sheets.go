package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
)

const sheetsAPIBase = "https://sheets.googleapis.com/v4/spreadsheets"

// SheetsClient appends rows to the shared dashboard spreadsheet through
// the Sheets v4 REST API, authenticating with a service-account JWT.
type SheetsClient struct {
	http          *http.Client
	spreadsheetID string
	log           zerolog.Logger
}

func NewSheetsClient(ctx context.Context, credentialsJSON []byte, spreadsheetID string, log zerolog.Logger) (*SheetsClient, error) {
	cfg, err := google.JWTConfigFromJSON(credentialsJSON, "https://www.googleapis.com/auth/spreadsheets")
	if err != nil {
		return nil, fmt.Errorf("parsing service account credentials: %w", err)
	}
	return &SheetsClient{
		http:          cfg.Client(ctx),
		spreadsheetID: spreadsheetID,
		log:           log.With().Str("component", "sheets").Logger(),
	}, nil
}

// EnsureSheet creates the worksheet with its header row when it does not
// exist yet. Existing worksheets are left untouched.
func (c *SheetsClient) EnsureSheet(ctx context.Context, title string, header []string) error {
	titles, err := c.sheetTitles(ctx)
	if err != nil {
		return err
	}
	for _, t := range titles {
		if t == title {
			return nil
		}
	}

	addReq := map[string]any{
		"requests": []any{
			map[string]any{
				"addSheet": map[string]any{
					"properties": map[string]any{"title": title},
				},
			},
		},
	}
	if err := c.post(ctx, c.spreadsheetID+":batchUpdate", addReq, nil); err != nil {
		return fmt.Errorf("adding worksheet %s: %w", title, err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	body := map[string]any{"values": []any{headerRow}}
	rng := url.PathEscape(title + "!A1")
	if err := c.put(ctx, c.spreadsheetID+"/values/"+rng+"?valueInputOption=RAW", body); err != nil {
		return fmt.Errorf("writing header of %s: %w", title, err)
	}
	c.log.Info().Str("sheet", title).Msg("worksheet created")
	return nil
}

// AppendRow appends one snapshot row at the bottom of the worksheet.
func (c *SheetsClient) AppendRow(ctx context.Context, title string, row []any) error {
	return c.AppendRows(ctx, title, [][]any{row})
}

// AppendRows bulk-appends snapshot rows at the bottom of the worksheet.
func (c *SheetsClient) AppendRows(ctx context.Context, title string, rows [][]any) error {
	values := make([]any, len(rows))
	for i, r := range rows {
		values[i] = r
	}
	body := map[string]any{"values": values}
	rng := url.PathEscape(title + "!A1")
	path := c.spreadsheetID + "/values/" + rng + ":append?valueInputOption=USER_ENTERED&insertDataOption=INSERT_ROWS"
	if err := c.post(ctx, path, body, nil); err != nil {
		return fmt.Errorf("appending to %s: %w", title, err)
	}
	return nil
}

// Overwrite clears the worksheet and rewrites header plus rows. Used by
// exports that recompute their whole series each run.
func (c *SheetsClient) Overwrite(ctx context.Context, title string, header []string, rows [][]any) error {
	rng := url.PathEscape(title)
	if err := c.post(ctx, c.spreadsheetID+"/values/"+rng+":clear", map[string]any{}, nil); err != nil {
		return fmt.Errorf("clearing %s: %w", title, err)
	}
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	values := []any{headerRow}
	for _, r := range rows {
		values = append(values, r)
	}
	body := map[string]any{"values": values}
	writeRng := url.PathEscape(title + "!A1")
	if err := c.put(ctx, c.spreadsheetID+"/values/"+writeRng+"?valueInputOption=USER_ENTERED", body); err != nil {
		return fmt.Errorf("rewriting %s: %w", title, err)
	}
	return nil
}

func (c *SheetsClient) sheetTitles(ctx context.Context) ([]string, error) {
	u := sheetsAPIBase + "/" + c.spreadsheetID + "?fields=sheets.properties.title"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	var meta struct {
		Sheets []struct {
			Properties struct {
				Title string `json:"title"`
			} `json:"properties"`
		} `json:"sheets"`
	}
	if err := c.do(req, &meta); err != nil {
		return nil, fmt.Errorf("reading spreadsheet metadata: %w", err)
	}
	titles := make([]string, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		titles = append(titles, s.Properties.Title)
	}
	return titles, nil
}

func (c *SheetsClient) post(ctx context.Context, path string, body, out any) error {
	return c.send(ctx, http.MethodPost, path, body, out)
}

func (c *SheetsClient) put(ctx context.Context, path string, body any) error {
	return c.send(ctx, http.MethodPut, path, body, nil)
}

func (c *SheetsClient) send(ctx context.Context, method, path string, body, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, sheetsAPIBase+"/"+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *SheetsClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sheets api status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
