package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK      = "ok"
	resultIgnored = "ignored"
	resultError   = "error"
)

var (
	galleryOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_operations_total",
			Help: "Total number of gallery operations by outcome",
		},
		[]string{"operation", "result"},
	)

	galleryUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gallery_uploads_total",
			Help: "Total number of uploaded files by outcome",
		},
		[]string{"outcome"},
	)
)
