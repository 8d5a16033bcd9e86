package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	notificationsDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "saltmarket_notifications_delivered_total",
		Help: "Notifications persisted by the delivery worker.",
	})

	notificationsPruned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "saltmarket_notifications_pruned_total",
		Help: "Notifications removed by the retention worker.",
	})
)
