// Package auth provides password hashing, signed session tokens and the
// login flow that combines them.
package auth
