package errors

import (
	"testing"

	"github.com/verity-lang/verity/internal/types"
)

func TestFromCheckErrorRoundTripsThroughAsReport(t *testing.T) {
	loc := types.SourceLoc{File: "demo.vt", Line: 3, Col: 7}
	subErr := types.NewSubtypingError(loc, types.Int, types.Str)

	rep := FromCheckError("typecheck", "sid-123", subErr)
	if rep.Code != TYC003 {
		t.Fatalf("code = %s, want %s", rep.Code, TYC003)
	}
	if rep.Span == nil || rep.Span.Start.Line != 3 || rep.Span.Start.Column != 7 {
		t.Fatalf("span not carried from SourceLoc: %+v", rep.Span)
	}
	if rep.Data["sub"] != "Int" {
		t.Errorf("data[sub] = %v, want Int", rep.Data["sub"])
	}
	if rep.Data["sid"] != "sid-123" {
		t.Errorf("data[sid] = %v, want sid-123", rep.Data["sid"])
	}

	wrapped := WrapReport(rep)
	got, ok := AsReport(wrapped)
	if !ok {
		t.Fatal("AsReport failed to unwrap a wrapped Report")
	}
	if got != rep {
		t.Error("AsReport did not return the same Report that was wrapped")
	}
}

func TestFromErrorListPreservesOrder(t *testing.T) {
	list := types.NewErrorList()
	list.Add(types.NewNameError(types.SourceLoc{}, "foo", "bar"))
	list.Add(types.NewFeatureError(types.SourceLoc{}, "TypeApp"))

	reports := FromErrorList("typecheck", "", list)
	if len(reports) != 2 {
		t.Fatalf("len(reports) = %d, want 2", len(reports))
	}
	if reports[0].Code != TYC001 || reports[1].Code != TYC015 {
		t.Errorf("codes out of order: %s, %s", reports[0].Code, reports[1].Code)
	}
}

func TestFromErrorListNilIsEmpty(t *testing.T) {
	if reports := FromErrorList("typecheck", "", nil); reports != nil {
		t.Errorf("expected nil for a nil ErrorList, got %v", reports)
	}
}
