// Package mocks provides centralized mock implementations for testing.
//
// Instead of defining inline mocks in individual test files, the mock
// structs here are shared across test packages. Each mock exposes
// function fields (CreateFn, GetByIDFn, ...) that tests set to override
// behavior per-case; when a function field is nil the mock falls back to
// a simple in-memory default.
package mocks
