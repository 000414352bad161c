// Package batch contains the Batch aggregate: a weight-capped, region-scoped
// collection of approved orders, its lifecycle state machine
// (Collecting -> Ready -> Assigned -> InTransit -> Delivered, with Cancelled
// reachable before transit), and the configured batching Policy.
package batch
