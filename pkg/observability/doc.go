/*
Package observability turns model hooks into prometheus metrics and structured log lines.

Both are plain model.Hooks values and can be merged:

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	f := formbind.New(values,
		formbind.WithHooks(metrics.Hooks()),
		formbind.WithHooks(observability.LogHooks(logger)),
	)
*/
package observability
