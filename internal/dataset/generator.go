package dataset

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Generator produces seeded synthetic customer and interaction tables with
// realistic marginal distributions, for pipeline runs without a live data
// source and for end-to-end tests.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator with a fixed seed so repeated runs
// produce identical tables.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(uint64(seed)))}
}

// Generate returns n customers and their matching interaction rows.
func (g *Generator) Generate(n int) ([]CustomerRecord, []InteractionRecord) {
	src := g.rng

	recency := distuv.Exponential{Rate: 1.0 / 15.0, Src: src}
	payFreq := distuv.Gamma{Alpha: 2, Beta: 0.5, Src: src} // shape 2, scale 2
	payAmount := distuv.LogNormal{Mu: 5, Sigma: 0.8, Src: src}
	lateRate := distuv.Beta{Alpha: 2, Beta: 8, Src: src}
	satisfaction := distuv.Normal{Mu: 3.5, Sigma: 0.8, Src: src}
	responseRate := distuv.Beta{Alpha: 3, Beta: 7, Src: src}
	complaintRate := distuv.Beta{Alpha: 1, Beta: 20, Src: src}

	age := distuv.Normal{Mu: 40, Sigma: 15, Src: src}
	appUsage := distuv.Beta{Alpha: 2, Beta: 3, Src: src}
	emailEng := distuv.Beta{Alpha: 3, Beta: 4, Src: src}
	whatsappHist := distuv.Beta{Alpha: 4, Beta: 3, Src: src}

	customers := make([]CustomerRecord, n)
	interactions := make([]InteractionRecord, n)

	for i := 0; i < n; i++ {
		id := fmt.Sprintf("CUST_%04d", i)

		customers[i] = CustomerRecord{
			CustomerID:          id,
			DaysSinceLastPay:    clip(recency.Rand(), 1, 90),
			PaymentFrequency:    clip(payFreq.Rand(), 0.1, 20),
			AvgPaymentAmount:    clip(payAmount.Rand(), 50, 5000),
			LatePaymentRate:     lateRate.Rand(),
			Satisfaction:        clip(satisfaction.Rand(), 1, 5),
			CurrentReminderFreq: 1 + src.Intn(5),
			PaymentResponseRate: responseRate.Rand(),
			ComplaintRate:       complaintRate.Rand(),
			MonthsOfHistory:     6 + src.Intn(30),
		}

		interactions[i] = InteractionRecord{
			CustomerID:       id,
			Age:              clip(age.Rand(), 18, 80),
			IncomeBracket:    float64(1 + src.Intn(5)),
			AppUsageScore:    appUsage.Rand(),
			EmailEngagement:  emailEng.Rand(),
			WhatsAppRespHist: whatsappHist.Rand(),
			BestChannel:      g.pickChannel(),
		}
	}

	return customers, interactions
}

// pickChannel draws a channel label with the observed historical priors:
// whatsapp 50%, email 30%, push 15%, phone 5%.
func (g *Generator) pickChannel() string {
	u := g.rng.Float64()
	switch {
	case u < 0.50:
		return ChannelWhatsApp
	case u < 0.80:
		return ChannelEmail
	case u < 0.95:
		return ChannelPush
	default:
		return ChannelPhone
	}
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
