// Package model holds the domain entities and read projections
// shared by the repository, service and handler layers.
package model
