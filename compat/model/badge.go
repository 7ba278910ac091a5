package model

// BaselineBadge is the display form of a Baseline classification.
type BaselineBadge struct {
	Text string
	Icon string
}

// Badge returns the badge for b. There is no badge for BaselineNone.
func (b Baseline) Badge() (BaselineBadge, bool) {
	switch b {
	case BaselineHigh:
		return BaselineBadge{Text: "Widely available", Icon: "baseline-widely.svg"}, true
	case BaselineLow:
		return BaselineBadge{Text: "Newly available", Icon: "baseline-newly.svg"}, true
	case BaselineLimited:
		return BaselineBadge{Text: "Limited availability", Icon: "baseline-limited.svg"}, true
	}
	return BaselineBadge{}, false
}
