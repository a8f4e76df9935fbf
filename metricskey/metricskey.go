package metricskey

import "github.com/effective-security/metrics"

// Perf
var (
	// PerfJoseOperation is perf metric
	PerfJoseOperation = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_jose",
		Help:         "perf_jose provides the sample metrics of token operations",
		RequiredTags: []string{"alg", "action"},
	}

	// PerfProviderOperation is perf metric
	PerfProviderOperation = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_jose_provider",
		Help:         "perf_jose_provider provides the sample metrics of issuer operations",
		RequiredTags: []string{"issuer", "action"},
	}
)

// Metrics returns slice of metrics from this repo
var Metrics = []*metrics.Describe{
	&PerfJoseOperation,
	&PerfProviderOperation,
}
