// Package resilience holds the fault-tolerance primitives used by the log
// service client:
//
//   - Backoff: deterministic exponential delays between dispatch attempts
//   - CircuitBreaker: fails sends fast while an endpoint keeps failing
//
// Retry looping itself lives in the httpclient dispatcher; this package only
// supplies the timing and the breaker state machine.
//
//	b := resilience.DefaultBackoff()
//	b.Delay(1) // 100ms
//	b.Delay(3) // 400ms
package resilience
