// Package dataset defines the two input tables of the reminder optimizer
// and their providers: a seeded synthetic generator, a CSV loader, and a
// Postgres-backed repository.
package dataset

import "fmt"

// Channel labels a reminder can be delivered over.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
	ChannelPush     = "push"
	ChannelPhone    = "phone"
)

// Channels returns the fixed set of contact channel labels.
func Channels() []string {
	return []string{ChannelWhatsApp, ChannelEmail, ChannelPush, ChannelPhone}
}

// CustomerRecord is one row of the customer behavioral table.
// The segmentation engine appends the R/F/M scores and segment label in
// place; every other consumer treats the record as immutable.
type CustomerRecord struct {
	CustomerID          string  `json:"customer_id"`
	DaysSinceLastPay    float64 `json:"days_since_last_payment"`
	PaymentFrequency    float64 `json:"payment_frequency"`
	AvgPaymentAmount    float64 `json:"avg_payment_amount"`
	LatePaymentRate     float64 `json:"late_payment_rate"`
	Satisfaction        float64 `json:"customer_satisfaction"`
	CurrentReminderFreq int     `json:"current_reminder_freq"`
	PaymentResponseRate float64 `json:"payment_response_rate"`
	ComplaintRate       float64 `json:"complaint_rate"`
	MonthsOfHistory     int     `json:"months_of_history"`

	// Appended by the segmentation engine.
	RScore  int    `json:"r_score,omitempty"`
	FScore  int    `json:"f_score,omitempty"`
	MScore  int    `json:"m_score,omitempty"`
	Segment string `json:"segment,omitempty"`
}

// InteractionRecord is one row of the channel-interaction table,
// joined 1:1 to CustomerRecord by customer ID.
type InteractionRecord struct {
	CustomerID       string  `json:"customer_id"`
	Age              float64 `json:"age"`
	IncomeBracket    float64 `json:"income_bracket"`
	AppUsageScore    float64 `json:"app_usage_score"`
	EmailEngagement  float64 `json:"email_engagement"`
	WhatsAppRespHist float64 `json:"whatsapp_response_hist"`
	BestChannel      string  `json:"best_channel"`
}

// FeatureNames returns the interaction feature columns in their canonical
// order (everything except the customer ID and the label).
func FeatureNames() []string {
	return []string{"age", "income_bracket", "app_usage_score", "email_engagement", "whatsapp_response_hist"}
}

// Features returns the record's feature values in FeatureNames order.
func (r InteractionRecord) Features() []float64 {
	return []float64{r.Age, r.IncomeBracket, r.AppUsageScore, r.EmailEngagement, r.WhatsAppRespHist}
}

// MergedRecord is a segmented customer row joined with its interaction row.
type MergedRecord struct {
	Customer    CustomerRecord
	Interaction InteractionRecord
}

// Merge joins segmented customers with their interaction rows by customer ID.
// Every customer must have exactly one interaction row.
func Merge(customers []CustomerRecord, interactions []InteractionRecord) ([]MergedRecord, error) {
	byID := make(map[string]InteractionRecord, len(interactions))
	for _, ir := range interactions {
		if _, dup := byID[ir.CustomerID]; dup {
			return nil, fmt.Errorf("merge tables: duplicate interaction row for customer %s", ir.CustomerID)
		}
		byID[ir.CustomerID] = ir
	}

	merged := make([]MergedRecord, 0, len(customers))
	for _, c := range customers {
		ir, ok := byID[c.CustomerID]
		if !ok {
			return nil, fmt.Errorf("merge tables: no interaction row for customer %s", c.CustomerID)
		}
		merged = append(merged, MergedRecord{Customer: c, Interaction: ir})
	}
	return merged, nil
}
