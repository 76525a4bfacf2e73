package segmentation

// The eight segment labels.
const (
	SegmentLoyal              = "Loyal"
	SegmentPromising          = "Promising"
	SegmentPotentialHighValue = "Potential High Value"
	SegmentPotentialLowValue  = "Potential Low Value"
	SegmentDefaultHighValue   = "Likely to Default (High Value)"
	SegmentDefaultLowValue    = "Likely to Default (Low Value)"
	SegmentHighValueAttention = "High Value - Needs Attention"
	SegmentRequiresAttention  = "Requires Attention"
)

// Labels returns all segment labels in rule priority order.
func Labels() []string {
	labels := make([]string, 0, len(segmentRules)+1)
	for _, r := range segmentRules {
		labels = append(labels, r.label)
	}
	return append(labels, SegmentRequiresAttention)
}

type segmentRule struct {
	label string
	match func(r, f, m int) bool
}

// segmentRules is the ordered decision table over (R, F, M). Rules are
// evaluated top to bottom; the first match wins.
var segmentRules = []segmentRule{
	{SegmentLoyal, func(r, f, m int) bool { return r >= 4 && f >= 4 && m >= 4 }},
	{SegmentPromising, func(r, f, m int) bool { return r >= 3 && f >= 3 && m >= 3 }},
	{SegmentPotentialHighValue, func(r, f, m int) bool { return r >= 3 && f <= 2 && m >= 3 }},
	{SegmentPotentialLowValue, func(r, f, m int) bool { return r >= 3 && f <= 2 && m < 3 }},
	{SegmentDefaultHighValue, func(r, f, m int) bool { return r <= 2 && f >= 3 && m >= 3 }},
	{SegmentDefaultLowValue, func(r, f, m int) bool { return r <= 2 && f >= 3 && m < 3 }},
	{SegmentHighValueAttention, func(r, f, m int) bool { return m >= 4 }},
}

// AssignSegment maps an (R, F, M) score triple to its segment label.
func AssignSegment(r, f, m int) string {
	for _, rule := range segmentRules {
		if rule.match(r, f, m) {
			return rule.label
		}
	}
	return SegmentRequiresAttention
}
