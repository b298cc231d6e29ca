package parser_test

import (
	"testing"

	"github.com/rajatpathak/TenderMatchXLS-sub001/internal/parser"
)

var gemHeaders = []string{
	"Bid Number", "Item Title", "Ministry", "Organisation",
	"Bid End Date", "EMD Amount", "Eligibility Criteria",
	"Turnover Requirement", "MSME Exemption", "Startup Exemption",
}

var nonGemHeaders = []string{
	"Tender ID", "Tender Title", "Department", "Organisation",
	"Closing Date", "EMD", "Eligibility Criteria", "Estimated Value",
}

func TestRecognizeGemSheet(t *testing.T) {
	t.Parallel()

	rec := parser.NewSheetRecognizer()
	result := rec.Recognize("GEM Bids", gemHeaders)
	if result.SheetType != parser.SheetTypeGem {
		t.Fatalf("type = %s, want %s (confidence %.2f)", result.SheetType, parser.SheetTypeGem, result.Confidence)
	}
}

func TestRecognizeNonGemSheet(t *testing.T) {
	t.Parallel()

	rec := parser.NewSheetRecognizer()
	result := rec.Recognize("Non-GEM Tenders", nonGemHeaders)
	if result.SheetType != parser.SheetTypeNonGem {
		t.Fatalf("type = %s, want %s (confidence %.2f)", result.SheetType, parser.SheetTypeNonGem, result.Confidence)
	}
}

// A sheet literally named "Non-GEM" must never be claimed by the GEM
// recognizer even when the headers are ambiguous.
func TestNonGemNameNeverWinsGem(t *testing.T) {
	t.Parallel()

	rec := parser.NewSheetRecognizer()
	result := rec.Recognize("Non-GEM", gemHeaders)
	if result.SheetType == parser.SheetTypeGem {
		t.Fatalf("sheet named Non-GEM recognized as GEM")
	}
}

func TestRecognizeUnknownSheet(t *testing.T) {
	t.Parallel()

	rec := parser.NewSheetRecognizer()
	result := rec.Recognize("Summary", []string{"Month", "Count", "Remarks"})
	if result.SheetType != parser.SheetTypeUnknown {
		t.Fatalf("type = %s, want %s", result.SheetType, parser.SheetTypeUnknown)
	}
}
