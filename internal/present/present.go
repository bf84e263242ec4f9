// Package present turns a scoring result into the strings the page template
// renders: fixed-precision numbers, the risk badge, and the optional stats
// and explanations sections.
package present

import (
	"strconv"

	"github.com/fraudlens/fraudlens-go/internal/risk"
	"github.com/fraudlens/fraudlens-go/internal/scoring"
)

// FeatureRow is one entry in the stats grid.
type FeatureRow struct {
	Label string
	Value string
}

// ExplanationRow is one entry in the model-explanation list, in the order the
// service ranked them.
type ExplanationRow struct {
	Feature string
	Impact  string
}

// ResultView is the fully formatted result. Features and Explanations are nil
// when the result carries no such data; templates skip the section entirely.
type ResultView struct {
	Address          string
	Verdict          string
	RiskLabel        string
	RiskColor        risk.Color
	ConfidencePct    string
	TransactionCount int
	Features         []FeatureRow
	Explanations     []ExplanationRow
}

// featureOrder fixes the stats grid layout. Keys missing from a result are
// skipped, not rendered blank.
var featureOrder = []struct {
	key   string
	label string
}{
	{scoring.FeatureSentTx, "Sent Transactions"},
	{scoring.FeatureReceivedTx, "Received Transactions"},
	{scoring.FeatureTotalSent, "Total Ether Sent"},
	{scoring.FeatureTotalReceived, "Total Ether Received"},
	{scoring.FeatureTotalBalance, "Ether Balance"},
}

// Percent formats a 0–1 confidence as a percentage with one decimal place.
func Percent(v float64) string {
	return strconv.FormatFloat(v*100, 'f', 1, 64)
}

// Metric formats a feature or impact value with four decimal places.
func Metric(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Build assembles the view for one result.
func Build(res *scoring.Result) ResultView {
	level := risk.Classify(res.Verdict, res.Confidence)

	view := ResultView{
		Address:          res.Address,
		Verdict:          res.Verdict,
		RiskLabel:        level.Label,
		RiskColor:        level.Color,
		ConfidencePct:    Percent(res.Confidence),
		TransactionCount: res.TransactionCount,
	}

	for _, f := range featureOrder {
		if v, ok := res.Features[f.key]; ok {
			view.Features = append(view.Features, FeatureRow{Label: f.label, Value: Metric(v)})
		}
	}

	for _, e := range res.Explanations {
		view.Explanations = append(view.Explanations, ExplanationRow{
			Feature: e.Feature,
			Impact:  Metric(e.Impact),
		})
	}

	return view
}
