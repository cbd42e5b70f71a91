// Package pipeline merges CI pipeline definitions.
//
// A pipeline is a set of resource types, resources and jobs. Jobs are built from a recursive tree of steps: Get and
// Put bind a pipeline resource under a local handle, Task runs a container, Do runs its children in order and
// InParallel fans them out. Merge folds a second pipeline into a first one and returns a brand-new pipeline that keeps
// every identifier of the first pipeline untouched.
//
// Resource types, resources and jobs of the second pipeline that are structurally identical to an entity already
// present (ignoring names) are folded into the existing entity. Entities whose name collides with a different entity
// are renamed to the first free "name-NNN" variant, and every reference to them from the second pipeline is rewritten.
// When deep merging is requested, same-named jobs are instead combined step by step: leaf steps must match exactly, Do
// sequences are paired positionally and InParallel blocks are unioned.
//
// Inputs are never modified and the output never shares a node with either input, so independent merges can run
// concurrently without synchronisation. A merge either returns a complete pipeline or an error, never a partial result.
package pipeline
