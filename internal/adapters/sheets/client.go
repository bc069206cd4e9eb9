// internal/adapters/sheets/client.go
package sheets

import (
	"context"
	crand "crypto/rand"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"golang.org/x/time/rate"

	"restorank/internal/domain"
)

// Client fetches spreadsheet feeds. An http(s) ref is downloaded as a CSV
// export with client-side rate limiting and bounded retries; any other ref
// is treated as a local workbook path ("fixtures/ranking.xlsx#Presencial").
type Client struct {
	hc *http.Client
	rl *rate.Limiter
}

func New(rps int, timeout time.Duration) *Client {
	if rps <= 0 {
		rps = 5
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		hc: &http.Client{Timeout: timeout},
		rl: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

var (
	ErrNotFound     = errors.New("sheets: not found")
	ErrUnauthorized = errors.New("sheets: unauthorized")
	ErrForbidden    = errors.New("sheets: forbidden")
)

// editSuffix rewrites a pasted spreadsheet /edit link into its CSV export
// form, matching what the sheet owners tend to paste into config.
var editSuffix = regexp.MustCompile(`/edit.*$`)

func (c *Client) Fetch(ctx context.Context, ref domain.SourceRef) (domain.Table, error) {
	s := string(ref)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return fetchWorkbook(s)
	}
	if strings.Contains(s, "/edit") {
		s = editSuffix.ReplaceAllString(s, "/export?format=csv")
	}
	return c.get(ctx, s)
}

// get performs a GET with client-side rate limiting and retries on 429 and
// transient 5xx, honoring Retry-After when provided. A 200 body is decoded
// as CSV regardless of content type: private sheets answer 200 with an HTML
// login page, and detecting that is the validator's job, not the client's.
func (c *Client) get(ctx context.Context, url string) (domain.Table, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return domain.Table{}, err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return domain.Table{}, err
		}
		req.Header.Set("Accept", "text/csv")
		req.Header.Set("User-Agent", "restorank/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return domain.Table{}, ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return domain.Table{}, lastErr
		}

		switch resp.StatusCode {
		case http.StatusOK:
			t, err := decodeCSV(resp.Body)
			resp.Body.Close()
			return t, err

		case http.StatusNotFound:
			resp.Body.Close()
			return domain.Table{}, ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return domain.Table{}, ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return domain.Table{}, ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return domain.Table{}, ctx.Err()
			}
			return domain.Table{}, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return domain.Table{}, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return domain.Table{}, lastErr
}

func decodeCSV(r io.Reader) (domain.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	// HTML error pages must survive parsing so the validator can classify them
	cr.LazyQuotes = true
	records, err := cr.ReadAll()
	if err != nil {
		return domain.Table{}, fmt.Errorf("decode csv: %w", err)
	}
	return tableFromRecords(records), nil
}

func fetchWorkbook(ref string) (domain.Table, error) {
	path, sheet, _ := strings.Cut(ref, "#")
	f, err := excelize.OpenFile(path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.Table{}, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	return tableFromRecords(rows), nil
}

// tableFromRecords turns a header row plus data rows into keyed rows.
// Blank header cells get a positional name so their values are not lost.
func tableFromRecords(records [][]string) domain.Table {
	if len(records) == 0 {
		return domain.Table{}
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		headers[i] = h
	}

	rows := make([]domain.RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(domain.RawRow, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}
	return domain.Table{Headers: headers, Rows: rows}
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// Base doubles each attempt (200ms, 400ms, 800ms...), with up to +50% random
// jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
