package deal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	dealsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "saltmarket_deals_created_total",
		Help: "Deals recorded, labelled by their initial status.",
	}, []string{"status"})

	offersPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "saltmarket_offers_published_total",
		Help: "Seller offers published.",
	})
)
