// Package observability wires OpenTelemetry tracing and metrics for the
// dispatcher.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("logctl"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("logctl"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewDispatchMetrics(observability.Meter("logctl"))
//	d, err := httpclient.New(transport, cfg, httpclient.WithMetrics(metrics))
package observability
