// Package service contains the task board use cases. Services apply
// ownership rules, normalise listing requests and set transaction
// boundaries, delegating persistence to the interfaces in internal/store.
//
// Services receive their dependencies through constructor injection and
// never depend on a concrete storage implementation.
package service
