package diag

import (
	"testing"

	"bsharp/internal/source"
)

func TestBag_LimitAndSort(t *testing.T) {
	b := NewBag(3)
	b.Add(NewError(SynExpectSemicolon, source.Span{Start: 10, End: 11}, "b"))
	b.Add(New(SevWarning, LexUnexpectedSymbol, source.Span{Start: 2, End: 3}, "a"))
	b.Add(NewError(LexUnexpectedSymbol, source.Span{Start: 2, End: 3}, "a"))
	if b.Add(NewError(UnknownCode, source.Span{}, "overflow")) {
		t.Fatal("bag accepted diagnostic past its limit")
	}
	b.Sort()
	got := b.Items()
	if got[0].Severity != SevError || got[1].Severity != SevWarning || got[2].Code != SynExpectSemicolon {
		t.Fatalf("unexpected order: %+v", got)
	}
	if !b.HasErrors() || !b.HasWarnings() {
		t.Fatal("HasErrors/HasWarnings mismatch")
	}
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("Dedup left %d items, want 2", b.Len())
	}
}

func TestBag_Unlimited(t *testing.T) {
	b := NewBag(0)
	for range 100 {
		b.Add(NewError(UnknownCode, source.Span{}, "x"))
	}
	if b.Len() != 100 {
		t.Fatalf("Len = %d", b.Len())
	}
}

func TestReportBuilder_KeepsExpected(t *testing.T) {
	bag := NewBag(10)
	ReportError(BagReporter{Bag: bag}, SynUnexpectedToken, source.Span{Start: 1, End: 2}, "unexpected '}'").
		WithExpected(";", "identifier").
		Emit()
	var nop NopReporter
	ReportError(nop, SynUnexpectedToken, source.Span{}, "dropped").Emit()

	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("got %d diagnostics", len(items))
	}
	if len(items[0].Expected) != 2 || items[0].Expected[0] != ";" {
		t.Fatalf("Expected = %v", items[0].Expected)
	}
}

func TestCodeID(t *testing.T) {
	tests := map[Code]string{
		LexUnexpectedSymbol:  "LEX1001",
		SynExpectSemicolon:   "SYN2002",
		IOLoadFileError:      "IO4001",
		ProjManifestError:    "PRJ5001",
		ObsRoundTripMismatch: "OBS6001",
		UnknownCode:          "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if Code(1999).Title() != "Unknown error" {
		t.Fatal("unknown code must fall back to the generic title")
	}
}
