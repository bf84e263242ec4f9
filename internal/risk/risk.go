// Package risk maps the scoring service's (verdict, confidence) pair onto the
// risk level shown to the user.
package risk

import "github.com/fraudlens/fraudlens-go/internal/scoring"

// Color is the presentation bucket for a risk level.
type Color string

const (
	ColorAlert   Color = "red"    // flagged
	ColorSafe    Color = "green"  // not flagged
	ColorWarning Color = "orange" // verdict we don't recognize
)

// Level is a classified risk: the label text and the color it renders in.
type Level struct {
	Label string
	Color Color
}

// highConfidence is the cutoff above which a verdict is treated as decisive.
// Exactly 0.8 falls on the Medium Risk side.
const highConfidence = 0.8

// Classify derives the displayed risk level from a verdict and its
// confidence. Unrecognized verdicts get a warning level rather than an error;
// the service should only ever send the two known verdicts, but a model
// update must not break the page.
func Classify(verdict string, confidence float64) Level {
	switch verdict {
	case scoring.VerdictFlagged:
		if confidence > highConfidence {
			return Level{Label: "High Risk", Color: ColorAlert}
		}
		return Level{Label: "Medium Risk", Color: ColorAlert}
	case scoring.VerdictNotFlagged:
		if confidence > highConfidence {
			return Level{Label: "Low Risk", Color: ColorSafe}
		}
		return Level{Label: "Medium Risk", Color: ColorSafe}
	default:
		return Level{Label: "Unknown", Color: ColorWarning}
	}
}
