package domain

// AnalysisResult is the immutable artifact set of one engine run. A run
// either produces the complete set or fails with an error; no partial
// results are ever returned.
type AnalysisResult struct {
	Ledger          []LedgerBucket
	Forecast        Forecast
	Gaps            []GapEvent
	Risks           []RiskScore
	Recommendations []Recommendation
}
