package pricing

import "ktmobile/internal/domain"

// ConditionInfo is the shopper-facing description of a grade.
type ConditionInfo struct {
	Grade       domain.Grade
	Label       string
	Screen      string
	Body        string
	Expectation string
}

var conditionInfo = map[domain.Grade]ConditionInfo{
	domain.Excellent: {
		Grade:       domain.Excellent,
		Label:       "Excellent",
		Screen:      "Flawless, no visible scratches",
		Body:        "Like new, may show micro-marks under close inspection",
		Expectation: "Looks and works like a brand new phone",
	},
	domain.Good: {
		Grade:       domain.Good,
		Label:       "Good",
		Screen:      "Light scratches, invisible when the screen is on",
		Body:        "Light signs of use on the frame and back",
		Expectation: "Well kept phone with minor cosmetic wear",
	},
	domain.Fair: {
		Grade:       domain.Fair,
		Label:       "Fair",
		Screen:      "Visible scratches, no cracks or dead pixels",
		Body:        "Noticeable scuffs and small dents",
		Expectation: "Fully functional with obvious signs of use",
	},
}

// Describe returns the description for g; ok is false for unknown grades.
func Describe(g domain.Grade) (ConditionInfo, bool) {
	ci, ok := conditionInfo[g]
	return ci, ok
}

// Conditions lists descriptions from best to worst grade.
func Conditions() []ConditionInfo {
	out := make([]ConditionInfo, 0, len(domain.Grades))
	for _, g := range domain.Grades {
		out = append(out, conditionInfo[g])
	}
	return out
}
