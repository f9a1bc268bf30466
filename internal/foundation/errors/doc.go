// Package errors provides the classified error primitives used across docsnap.
//
// Errors carry a category (config, descriptor, filesystem, transform, ...), a severity
// and a retry strategy so the CLI can choose an exit code and a log level without
// inspecting message text. Errors are built with a fluent builder:
//
//	err := errors.NewError(errors.CategoryDescriptor, "descriptor not found").
//		Fatal().
//		WithContext("path", descriptorPath).
//		WithCause(statErr).
//		Build()
package errors
