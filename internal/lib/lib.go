// Package lib groups modules that do not fit strictly into another layer:
// background job processing (Asynq over Redis) and small shared helpers.
package lib
