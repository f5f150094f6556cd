package domain

import "math"

type UsageStatus string

const (
	StatusNormal  UsageStatus = "normal"
	StatusWarning UsageStatus = "warning"
	StatusAlert   UsageStatus = "alert"
)

// StatusFor grades usage against a limit: warning from 90%, alert from 120%.
func StatusFor(usage, limit float64) UsageStatus {
	if limit <= 0 {
		return StatusNormal
	}
	ratio := usage / limit
	switch {
	case ratio >= 1.2:
		return StatusAlert
	case ratio >= 0.9:
		return StatusWarning
	default:
		return StatusNormal
	}
}

// UsageAlert reports a metric that went over its weekly limit.
type UsageAlert struct {
	Metric      string      `json:"metric"`
	Usage       float64     `json:"usage"`
	Limit       float64     `json:"limit"`
	Unit        string      `json:"unit"`
	PercentOver int         `json:"percentOver"`
	Status      UsageStatus `json:"status"`
}

// ThresholdAlerts lists the metrics of entry that exceed the limits in s.
// Nothing is reported when either is missing or threshold alerts are off.
func ThresholdAlerts(entry *UsageEntry, s *Settings) []UsageAlert {
	alerts := []UsageAlert{}
	if entry == nil || s == nil || !s.ThresholdAlerts {
		return alerts
	}
	elecLimit, waterLimit := s.Limits()
	if a, ok := overLimit("electricity", entry.Electricity(), elecLimit, s.ElectricityUnit); ok {
		alerts = append(alerts, a)
	}
	if a, ok := overLimit("water", entry.Water(), waterLimit, s.WaterUnit); ok {
		alerts = append(alerts, a)
	}
	return alerts
}

func overLimit(metric string, usage, limit float64, unit string) (UsageAlert, bool) {
	if limit <= 0 || usage <= limit {
		return UsageAlert{}, false
	}
	return UsageAlert{
		Metric:      metric,
		Usage:       usage,
		Limit:       limit,
		Unit:        unit,
		PercentOver: int(math.Round((usage - limit) / limit * 100)),
		Status:      StatusFor(usage, limit),
	}, true
}
