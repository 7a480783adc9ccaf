package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cartHydrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_hydrations_total",
			Help: "Cart hydrations from storage by result (loaded, empty, error).",
		},
		[]string{"result"},
	)

	cartWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_cart_writes_total",
			Help: "Cart snapshot writes by result (ok, error, superseded).",
		},
		[]string{"result"},
	)

	cartLines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_cart_lines",
			Help: "Number of distinct products currently in the cart.",
		},
	)

	checkouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_checkouts_total",
			Help: "Simulated checkouts confirmed.",
		},
	)
)
