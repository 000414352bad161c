// Package order contains the Order aggregate as seen by the batch
// assignment engine: the delivery-address snapshot, line items, the cached
// region key, the frozen batching weight, the approval status state
// machine, and the batch reference.
//
// The aggregate enforces the engine's core order-side invariants: the
// batching weight is frozen once per approval cycle, the batch reference
// is set exactly once per approval cycle, and status transitions follow
// the rules defined on Status.
package order
