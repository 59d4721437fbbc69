// Package taskgraph runs named tasks in dependency order.
//
// A Graph is a registry mapping task names to a run function and the names of
// the tasks it depends on. Running a target resolves the target's transitive
// dependencies into a single linear order, then executes that order strictly
// sequentially, each task at most once, stopping at the first failure.
//
// Ordering is deterministic for a given graph: dependencies are visited in the
// order they were declared, so two runs of the same graph always execute tasks
// in the same sequence.
package taskgraph
