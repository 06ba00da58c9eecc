// Provides error wrapping helpers used across the daemon.
//
// Each package declares sentinel errors for its failure classes and wraps
// underlying causes with [Wrap] or [Wrapf]. Callers match against the
// sentinels with errors.Is while the original cause stays in the chain.
package fault
