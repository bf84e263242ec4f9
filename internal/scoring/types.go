package scoring

import (
	"encoding/json"
	"fmt"
)

// Verdict strings as the scoring service emits them.
const (
	VerdictFlagged    = "flagged"
	VerdictNotFlagged = "not flagged"
)

// Feature keys the service reports in the features map. The names are the
// model's own column labels, quirky spacing included, so they must match
// byte-for-byte.
const (
	FeatureSentTx        = "Sent tnx"
	FeatureReceivedTx    = "Received Tnx"
	FeatureTotalSent     = "total Ether sent"
	FeatureTotalReceived = "total ether received"
	FeatureTotalBalance  = "total ether balance"
)

// Explanation is one (feature, impact) pair from the model's ranked
// attribution output. On the wire it is a 2-element array: ["Sent tnx", 0.42].
type Explanation struct {
	Feature string
	Impact  float64
}

func (e *Explanation) UnmarshalJSON(data []byte) error {
	var pair []any
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("explanation: want [name, impact] pair, got %d elements", len(pair))
	}
	name, ok := pair[0].(string)
	if !ok {
		return fmt.Errorf("explanation: name is %T, want string", pair[0])
	}
	impact, ok := pair[1].(float64)
	if !ok {
		return fmt.Errorf("explanation: impact is %T, want number", pair[1])
	}
	e.Feature = name
	e.Impact = impact
	return nil
}

func (e Explanation) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Feature, e.Impact})
}

// Result is the analysis payload for one address. Features and Explanations
// are optional: the service omits them for error verdicts and fresh accounts,
// so consumers must branch on presence.
type Result struct {
	Address          string             `json:"address"`
	Verdict          string             `json:"verdict"`
	Confidence       float64            `json:"confidence"`
	TransactionCount int                `json:"transaction_count"`
	Features         map[string]float64 `json:"features,omitempty"`
	Explanations     []Explanation      `json:"explanations,omitempty"`
}
