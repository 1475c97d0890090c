package errors

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/verity-lang/verity/internal/schema"
	"github.com/verity-lang/verity/testutil"
)

func TestNewTypecheck(t *testing.T) {
	err := NewTypecheck("N#42", TYC002, "Type mismatch", nil)

	if err.Schema != schema.ErrorV1 {
		t.Errorf("expected schema %s, got %s", schema.ErrorV1, err.Schema)
	}
	if err.Phase != "typecheck" {
		t.Errorf("expected phase typecheck, got %s", err.Phase)
	}
	if err.Code != TYC002 {
		t.Errorf("expected code %s, got %s", TYC002, err.Code)
	}
	if err.SID != "N#42" {
		t.Errorf("expected SID N#42, got %s", err.SID)
	}

	err2 := NewTypecheck("", TYC001, "Unbound name", nil)
	if err2.SID != "unknown" {
		t.Errorf("expected SID unknown for empty input, got %s", err2.SID)
	}
}

func TestWithFix(t *testing.T) {
	err := NewTypecheck("N#1", TYC009, "Argument type mismatch", nil)
	err = err.WithFix("Add type annotation: x: Int", 0.9)

	if err.Fix.Suggestion != "Add type annotation: x: Int" {
		t.Errorf("expected fix suggestion, got %s", err.Fix.Suggestion)
	}
	if err.Fix.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %f", err.Fix.Confidence)
	}
}

func TestWithSourceSpan(t *testing.T) {
	err := NewTypecheck("N#2", TYC003, "Subtyping check failed", nil)
	err = err.WithSourceSpan("main.vy:10:5")

	if err.SourceSpan != "main.vy:10:5" {
		t.Errorf("expected source span main.vy:10:5, got %s", err.SourceSpan)
	}
}

func TestWithMeta(t *testing.T) {
	meta := map[string]string{
		"hint":     "Check the receiver's declared trait bounds",
		"severity": "error",
	}

	err := NewTypecheck("N#3", TYC011, "Missing trait implementation", nil)
	err = err.WithMeta(meta)

	if err.Meta == nil {
		t.Error("expected meta to be set")
	}
}

func TestToJSON(t *testing.T) {
	ctx := ErrorContext{
		Constraints: []string{"T <: Ord", "T = Nat"},
		Decisions:   []string{"resolved T -> Nat"},
	}

	err := NewTypecheck("N#42", TYC014, "Argument passed both positionally and by keyword", ctx).
		WithFix("Add explicit type annotation", 0.85).
		WithSourceSpan("test.vy:5:10")

	jsonData, jsonErr := err.ToJSON()
	if jsonErr != nil {
		t.Fatalf("ToJSON failed: %v", jsonErr)
	}

	var result map[string]interface{}
	if parseErr := json.Unmarshal(jsonData, &result); parseErr != nil {
		t.Fatalf("failed to parse JSON: %v", parseErr)
	}

	if result["schema"] != schema.ErrorV1 {
		t.Errorf("expected schema %s, got %v", schema.ErrorV1, result["schema"])
	}
	if result["phase"] != "typecheck" {
		t.Errorf("expected phase typecheck, got %v", result["phase"])
	}
	if result["code"] != TYC014 {
		t.Errorf("expected code %s, got %v", TYC014, result["code"])
	}
	if _, ok := result["fix"]; !ok {
		t.Error("fix field should always be present")
	}
}

func TestEncodedGolden(t *testing.T) {
	enc := NewTypecheck("S#1", TYC003, "Int is not a subtype of Str", nil).
		WithSourceSpan("demo.vt:1:1")
	testutil.CompareWithGolden(t, "errors", "typecheck_encoded", enc)
}

func TestSafeEncodeError(t *testing.T) {
	result := SafeEncodeError(nil, "typecheck")
	if result != nil {
		t.Error("expected nil for nil error")
	}

	testErr := &testError{msg: "cache corruption detected"}
	result = SafeEncodeError(testErr, "typecheck")

	var parsed map[string]interface{}
	if err := json.Unmarshal(result, &parsed); err != nil {
		t.Fatalf("failed to parse result: %v", err)
	}
	if parsed["phase"] != "typecheck" {
		t.Errorf("expected phase typecheck, got %v", parsed["phase"])
	}
	if !strings.Contains(parsed["message"].(string), "cache corruption detected") {
		t.Errorf("expected message to contain original error, got %v", parsed["message"])
	}
}

func TestFormatSourceSpan(t *testing.T) {
	tests := []struct {
		file     string
		line     int
		col      int
		expected string
	}{
		{"main.vy", 10, 5, "main.vy:10:5"},
		{"test.vy", 1, 1, "test.vy:1:1"},
		{"/path/to/file.vy", 100, 25, "/path/to/file.vy:100:25"},
	}

	for _, tt := range tests {
		result := FormatSourceSpan(tt.file, tt.line, tt.col)
		if result != tt.expected {
			t.Errorf("FormatSourceSpan(%s, %d, %d) = %s, want %s",
				tt.file, tt.line, tt.col, result, tt.expected)
		}
	}
}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
