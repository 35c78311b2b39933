// Package api implements the HTTP handlers, request/response models, and
// error mapping for the task tracker's REST surface.
package api
