// Package rewind contains types and abstraction to allow you to write
// Event-sourced application, without having to take care of the infrastructure
// setup necessary to run such an architecture.
//
// The library contains multiple packages, you might want to start from `aggregate`
// to implement your Aggregate types, and `command` to implement the Command Handlers
// to interact with or update your Aggregates.
//
// `snapshot` allows you to checkpoint Aggregate state periodically, so that
// loading an Aggregate does not require replaying its whole Event Stream.
package rewind
