// Package registry provides a thread-safe generic registry.
//
// spyglass uses it for the process-wide spy registry: every spy created
// without opting out registers itself here so debugging tools can enumerate
// live bindings. The registry is never consulted on the dispatch path.
//
// The default instance grows for the lifetime of the process unless entries
// are removed explicitly; callers who do not want that register spies with
// spyglass.WithoutRegistry or inject their own instance.
package registry
