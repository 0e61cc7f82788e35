// Package postgres provides the PostgreSQL implementations of the store
// interfaces, the embedded goose migrations that create their tables, and
// the mapping of driver errors onto store sentinels.
package postgres
