package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"budgetflow/internal/core"
	"budgetflow/internal/sheets"
)

// valuesAppender is the slice of the Sheets API the exporter needs.
type valuesAppender interface {
	Append(ctx context.Context, spreadsheetID, rng string, rows [][]any) (updatedRange string, err error)
}

type Client struct {
	values        valuesAppender
	spreadsheetID string
	// Base name without year (e.g. "Reports"); the report year is prefixed.
	sheetBase string
}

var _ sheets.ReportWriter = (*Client)(nil)

// Options configures the exporter. Credentials come from CredentialsJSON
// when set, otherwise from CredentialsFile, otherwise from
// GOOGLE_APPLICATION_CREDENTIALS.
type Options struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

// New creates a Sheets client using a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	base := strings.TrimSpace(opts.SheetName)
	if base == "" {
		base = "Reports"
	}

	svc, err := newSheetsService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		values:        apiValues{svc: svc},
		spreadsheetID: spreadsheetID,
		sheetBase:     base,
	}, nil
}

func newSheetsService(ctx context.Context, opts Options) (*gsheet.Service, error) {
	inline := strings.TrimSpace(opts.CredentialsJSON)
	file := strings.TrimSpace(opts.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(inline)
	case file != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_JSON, GOOGLE_CREDENTIALS_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created successfully")
	return service, nil
}

type apiValues struct {
	svc *gsheet.Service
}

func (a apiValues) Append(ctx context.Context, spreadsheetID, rng string, rows [][]any) (string, error) {
	vr := &gsheet.ValueRange{Values: rows}
	resp, err := a.svc.Spreadsheets.Values.Append(spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", err
	}
	if resp.Updates == nil {
		return rng, nil
	}
	return resp.Updates.UpdatedRange, nil
}

// WriteReport appends the report as flat rows to the "<year> <sheet>" tab.
func (c *Client) WriteReport(ctx context.Context, r sheets.Report) (string, error) {
	if c.values == nil {
		return "", errors.New("sheets service not initialized")
	}
	if !r.Aggregate.Period.Valid() {
		return "", errors.New("report has no period")
	}

	sheetName := yearPrefixedName(c.sheetBase, r.Aggregate.RangeStart.Year())
	rng := fmt.Sprintf("%s!A:J", sheetName)
	rows := reportRows(r)

	ref, err := c.values.Append(ctx, c.spreadsheetID, rng, rows)
	if err != nil {
		return "", fmt.Errorf("append report to %s: %w", sheetName, err)
	}
	slog.InfoContext(ctx, "Report exported",
		"sheet", sheetName,
		"period", r.Aggregate.Period,
		"rows", len(rows),
		"range", ref)
	return ref, nil
}

// reportRows flattens a report into sheet rows. Every row starts with the
// generation timestamp and the window so the tab can be filtered freely.
// Columns: generated, period, from, to, section, category, then four
// section-specific values.
func reportRows(r sheets.Report) [][]any {
	agg := r.Aggregate
	// the sheet shows the inclusive last day
	prefix := []any{
		r.GeneratedAt.UTC().Format("2006-01-02 15:04:05"),
		string(agg.Period),
		agg.RangeStart.String(),
		agg.RangeEnd.AddDays(-1).String(),
	}
	row := func(cols ...any) []any {
		out := make([]any, 0, len(prefix)+len(cols))
		out = append(out, prefix...)
		return append(out, cols...)
	}

	rows := make([][]any, 0, 1+len(r.Ranks)+len(r.Insights))
	rows = append(rows, row("summary", "",
		major(agg.TotalIncome, r.Decimals),
		major(agg.TotalExpense, r.Decimals),
		major(agg.NetSavings, r.Decimals),
		agg.TransactionCount))

	for _, cr := range r.Ranks {
		rows = append(rows, row("category", cr.Category,
			major(cr.Amount, r.Decimals),
			cr.PercentageOfTotal.Mul(decimal.NewFromInt(100)).StringFixed(1),
			cr.ChangePercent.StringFixed(1),
			string(cr.Trend)))
	}
	for _, in := range r.Insights {
		rows = append(rows, row("insight", in.RelatedCategory,
			major(in.Amount, r.Decimals),
			in.Severity.String(),
			in.Rule,
			in.Message))
	}
	return rows
}

// major renders minor units as a plain decimal string, e.g. 12345 with two
// decimals becomes "123.45". USER_ENTERED lets the sheet parse it as a number.
func major(m core.Money, decimals int) string {
	if decimals <= 0 {
		return m.String()
	}
	return decimal.New(m.Minor, int32(-decimals)).StringFixed(int32(decimals))
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
