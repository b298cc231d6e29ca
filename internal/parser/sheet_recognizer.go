package parser

import "strings"

// SheetRecognizer identifies GEM vs Non-GEM sheets from the sheet name and
// header row
type SheetRecognizer struct{}

// NewSheetRecognizer creates a recognizer
func NewSheetRecognizer() *SheetRecognizer {
	return &SheetRecognizer{}
}

// Recognize identifies the sheet type
func (r *SheetRecognizer) Recognize(sheetName string, columnNames []string) SheetRecognitionResult {
	normalized := make([]string, len(columnNames))
	for i, col := range columnNames {
		normalized[i] = NormalizeHeader(col)
	}

	if result := r.recognizeGem(sheetName, normalized); result.Confidence >= 0.5 {
		return result
	}

	if result := r.recognizeNonGem(sheetName, normalized); result.Confidence >= 0.5 {
		return result
	}

	return SheetRecognitionResult{
		SheetName:  sheetName,
		SheetType:  SheetTypeUnknown,
		Confidence: 0,
	}
}

// recognizeGem GEM bid export sheets
func (r *SheetRecognizer) recognizeGem(sheetName string, columns []string) SheetRecognitionResult {
	keyFields := [][]string{
		{"bid number", "bid no"},
		{"item", "title", "bid title"},
		{"ministry", "department"},
		{"organisation", "organization"},
		{"bid end date", "end date"},
		{"emd"},
		{"eligibility"},
	}

	name := strings.ToLower(sheetName)
	if strings.Contains(name, "non") {
		// a "Non-GEM" name never wins the GEM score, whatever the headers say
		return SheetRecognitionResult{
			SheetName:  sheetName,
			SheetType:  SheetTypeUnknown,
			Confidence: 0,
		}
	}

	confidence := matchRatio(keyFields, columns)

	nameBoost := 0.0
	if strings.Contains(name, "gem") {
		nameBoost = 0.2
	}

	result := SheetRecognitionResult{
		SheetName:  sheetName,
		SheetType:  SheetTypeGem,
		Confidence: confidence + nameBoost,
	}
	if result.Confidence < 0.5 {
		result.SheetType = SheetTypeUnknown
	}
	return result
}

// recognizeNonGem departmental/portal tender sheets
func (r *SheetRecognizer) recognizeNonGem(sheetName string, columns []string) SheetRecognitionResult {
	keyFields := [][]string{
		{"tender id", "tender no", "tender ref"},
		{"tender title", "title", "work description"},
		{"department"},
		{"organisation", "organization"},
		{"submission deadline", "closing date", "due date"},
		{"emd"},
		{"eligibility"},
	}

	confidence := matchRatio(keyFields, columns)

	name := strings.ToLower(sheetName)
	nameBoost := 0.0
	if strings.Contains(name, "non") {
		nameBoost = 0.2
	} else if strings.Contains(name, "gem") {
		nameBoost = -0.3
	} else if strings.Contains(name, "tender") {
		nameBoost = 0.1
	}

	result := SheetRecognitionResult{
		SheetName:  sheetName,
		SheetType:  SheetTypeNonGem,
		Confidence: confidence + nameBoost,
	}
	if result.Confidence < 0.5 {
		result.SheetType = SheetTypeUnknown
	}
	return result
}

// matchRatio fraction of key fields with at least one matching column
func matchRatio(keyFields [][]string, columns []string) float64 {
	matchCount := 0
	for _, alternatives := range keyFields {
		for _, col := range columns {
			if ContainsAny(col, alternatives) {
				matchCount++
				break
			}
		}
	}
	return float64(matchCount) / float64(len(keyFields))
}
