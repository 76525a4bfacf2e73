package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// LoadCustomersCSV reads the customer behavioral table from a headered CSV
// file with columns in the canonical order:
// customer_id, days_since_last_payment, payment_frequency, avg_payment_amount,
// late_payment_rate, customer_satisfaction, current_reminder_freq,
// payment_response_rate, complaint_rate, months_of_history.
func LoadCustomersCSV(path string) ([]CustomerRecord, error) {
	rows, err := readCSV(path, 10)
	if err != nil {
		return nil, err
	}

	out := make([]CustomerRecord, 0, len(rows))
	for i, row := range rows {
		c := CustomerRecord{CustomerID: row[0]}
		fields := []*float64{
			&c.DaysSinceLastPay, &c.PaymentFrequency, &c.AvgPaymentAmount,
			&c.LatePaymentRate, &c.Satisfaction,
		}
		for j, dst := range fields {
			v, err := strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d col %d: %w", path, i+2, j+2, err)
			}
			*dst = v
		}
		if c.CurrentReminderFreq, err = strconv.Atoi(row[6]); err != nil {
			return nil, fmt.Errorf("%s line %d: reminder freq: %w", path, i+2, err)
		}
		if c.PaymentResponseRate, err = strconv.ParseFloat(row[7], 64); err != nil {
			return nil, fmt.Errorf("%s line %d: response rate: %w", path, i+2, err)
		}
		if c.ComplaintRate, err = strconv.ParseFloat(row[8], 64); err != nil {
			return nil, fmt.Errorf("%s line %d: complaint rate: %w", path, i+2, err)
		}
		if c.MonthsOfHistory, err = strconv.Atoi(row[9]); err != nil {
			return nil, fmt.Errorf("%s line %d: months of history: %w", path, i+2, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// LoadInteractionsCSV reads the channel-interaction table from a headered
// CSV file with columns:
// customer_id, age, income_bracket, app_usage_score, email_engagement,
// whatsapp_response_hist, best_channel.
func LoadInteractionsCSV(path string) ([]InteractionRecord, error) {
	rows, err := readCSV(path, 7)
	if err != nil {
		return nil, err
	}

	out := make([]InteractionRecord, 0, len(rows))
	for i, row := range rows {
		ir := InteractionRecord{CustomerID: row[0], BestChannel: row[6]}
		fields := []*float64{
			&ir.Age, &ir.IncomeBracket, &ir.AppUsageScore,
			&ir.EmailEngagement, &ir.WhatsAppRespHist,
		}
		for j, dst := range fields {
			v, err := strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d col %d: %w", path, i+2, j+2, err)
			}
			*dst = v
		}
		out = append(out, ir)
	}
	return out, nil
}

func readCSV(path string, wantCols int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = wantCols

	// Skip header
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%s: empty file", path)
		}
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: read rows: %w", path, err)
	}
	return rows, nil
}
