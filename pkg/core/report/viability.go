package report

import (
	"fmt"

	"gd_valuation/pkg/core/projection"
)

// Viability bands
const (
	LabelExcellent = "Excelente"
	LabelGood      = "Bom"
	LabelFair      = "Razoável"
	LabelRisky     = "Arriscado"
)

// Viability is the 0-100 attractiveness score shown next to the indicators
type Viability struct {
	Viable bool   `json:"viable"` // NPV > 0 and IRR > 0
	Score  int    `json:"score"`
	Label  string `json:"label"`
	Color  string `json:"color"` // green / amber / red
}

// ScoreViability scores NPV sign (30), IRR band (up to 40) and payback
// speed (up to 30). A non-converged IRR or an unreached payback earns no
// points for that component.
func ScoreViability(res projection.CalculationResults) Viability {
	irrOK := res.IRRConverged && isFinite(res.IRR)

	score := 0
	if res.NPV > 0 {
		score += 30
	}

	if irrOK {
		switch {
		case res.IRR > 15:
			score += 40
		case res.IRR > 10:
			score += 30
		case res.IRR > 5:
			score += 20
		}
	}

	if res.PaybackAchieved {
		switch {
		case res.PaybackYear < 5:
			score += 30
		case res.PaybackYear < 8:
			score += 20
		case res.PaybackYear < 12:
			score += 10
		}
	}

	if score > 100 {
		score = 100
	}

	v := Viability{
		Viable: res.NPV > 0 && irrOK && res.IRR > 0,
		Score:  score,
	}

	switch {
	case score >= 70:
		v.Label = LabelExcellent
	case score >= 50:
		v.Label = LabelGood
	case score >= 30:
		v.Label = LabelFair
	default:
		v.Label = LabelRisky
	}

	switch {
	case score >= 70:
		v.Color = "green"
	case score >= 40:
		v.Color = "amber"
	default:
		v.Color = "red"
	}

	return v
}

// PaybackText is the human-readable payback indicator
func PaybackText(res projection.CalculationResults) string {
	if !res.PaybackAchieved {
		return "Além do período analisado"
	}
	if res.PaybackYear == 1 {
		return "1 ano"
	}
	return fmt.Sprintf("%d anos", res.PaybackYear)
}
