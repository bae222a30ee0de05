package metrics

// StandardMetrics returns the full standard measures suite in its
// conventional order. Metrics are independent; order only affects
// failure reporting, never values.
func StandardMetrics() []Metric {
	return []Metric{
		&DegreeMetric{},
		&DensityMetric{},
		&StrengthMetric{},
		&BetweennessMetric{},
		&DistanceMetric{},
		&CharPathMetric{},
		&GlobalEfficiencyMetric{},
		&LocalEfficiencyMetric{},
		&ClusteringMetric{},
		&TransitivityMetric{},
	}
}
