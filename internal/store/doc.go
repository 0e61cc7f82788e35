// Package store defines interfaces for data persistence operations.
// Implementations live under internal/platform; the interfaces here keep
// services and handlers independent of the database in use.
package store
