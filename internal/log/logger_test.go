package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestLoggerStampsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Format: "json", Component: ComponentAnalytics, Output: &buf})

	l.WithComponent(ComponentPlanned).InfoContext(context.Background(), "Planned items listed", FieldStatus, "overdue")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if rec[FieldComponent] != ComponentPlanned {
		t.Errorf("component = %v, want %s", rec[FieldComponent], ComponentPlanned)
	}
	if rec[FieldStatus] != "overdue" {
		t.Errorf("status = %v", rec[FieldStatus])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestContextRoundTrip(t *testing.T) {
	l := New(Config{Component: ComponentWorker, Output: &bytes.Buffer{}})
	ctx := NewContext(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Errorf("FromContext returned a different logger")
	}
	if got := FromContext(context.Background()); got.Component() != "unknown" {
		t.Errorf("fallback component = %q", got.Component())
	}
}

func TestLogFields(t *testing.T) {
	f := NewFields().
		WithOperation(OpMarkPaid).
		WithPlannedItem("rent", "Rent", "completed").
		WithError(errors.New("boom")).
		WithError(nil)
	if f[FieldOperation] != OpMarkPaid || f[FieldError] != "boom" || f[FieldTitle] != "Rent" {
		t.Errorf("unexpected fields: %v", f)
	}
	if len(f.ToSlice()) != 2*len(f) {
		t.Errorf("ToSlice length mismatch")
	}
}
