// Package scoping contains rules about declaration visibility and ordering.
// They are built on the resolution engine in pkg/lint/scope.
package scoping
