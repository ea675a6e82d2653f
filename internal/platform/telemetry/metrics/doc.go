// Package metrics provides operational and gameplay metrics in Prometheus format.
//
// # gRPC Interceptor
//
// The interceptor records per method:
//   - Request count by status code
//   - Request latency
//   - Requests in flight
//
// # Gameplay counters
//
// Games started, games finished by status, lifelines used by kind, and prize
// money paid out.
//
// # Exposure
//
// Handler serves the registry on an HTTP listener for scraping.
package metrics
