// Package domain defines the task board entities (users, threads and tasks),
// their validation rules, and the paging and search value types used by
// task listings.
package domain
