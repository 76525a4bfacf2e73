package dataset

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Repo loads the customer and interaction tables from PostgreSQL.
type Repo struct{ db *sql.DB }

// NewRepo creates a Postgres-backed dataset repository.
func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

// Open connects to Postgres and verifies the connection.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Customers loads the full customer behavioral table.
func (r *Repo) Customers(ctx context.Context) ([]CustomerRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT customer_id, days_since_last_payment, payment_frequency,
		       avg_payment_amount, late_payment_rate, customer_satisfaction,
		       current_reminder_freq, payment_response_rate, complaint_rate,
		       months_of_history
		FROM customer_behavior
		ORDER BY customer_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var out []CustomerRecord
	for rows.Next() {
		var c CustomerRecord
		if err := rows.Scan(
			&c.CustomerID, &c.DaysSinceLastPay, &c.PaymentFrequency,
			&c.AvgPaymentAmount, &c.LatePaymentRate, &c.Satisfaction,
			&c.CurrentReminderFreq, &c.PaymentResponseRate, &c.ComplaintRate,
			&c.MonthsOfHistory,
		); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Interactions loads the full channel-interaction table.
func (r *Repo) Interactions(ctx context.Context) ([]InteractionRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT customer_id, age, income_bracket, app_usage_score,
		       email_engagement, whatsapp_response_hist, best_channel
		FROM channel_interactions
		ORDER BY customer_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var out []InteractionRecord
	for rows.Next() {
		var ir InteractionRecord
		if err := rows.Scan(
			&ir.CustomerID, &ir.Age, &ir.IncomeBracket, &ir.AppUsageScore,
			&ir.EmailEngagement, &ir.WhatsAppRespHist, &ir.BestChannel,
		); err != nil {
			return nil, fmt.Errorf("scan interaction row: %w", err)
		}
		out = append(out, ir)
	}
	return out, rows.Err()
}
