package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "docsnap.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		if err.Message() != "invalid configuration" {
			t.Errorf("expected message 'invalid configuration', got %s", err.Message())
		}

		file, exists := err.Context().GetString("file")
		if !exists || file != "docsnap.yaml" {
			t.Errorf("expected context file=docsnap.yaml, got %v", file)
		}
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		err := DescriptorError("descriptor not found").Build()
		wrapped := fmt.Errorf("sync: %w", err)

		if !IsClassified(wrapped) {
			t.Error("expected wrapped error to be classified")
		}
		if !HasCategory(wrapped, CategoryDescriptor) {
			t.Error("expected descriptor category")
		}
		if !HasSeverity(wrapped, SeverityFatal) {
			t.Error("expected fatal severity")
		}
	})

	t.Run("Error string", func(t *testing.T) {
		cause := errors.New("permission denied")
		err := WrapError(cause, CategoryFileSystem, "write failed").Build()
		want := "[filesystem:error] write failed: permission denied"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
		if !errors.Is(err, cause) {
			t.Error("expected error to wrap cause")
		}
	})

	t.Run("WithContext does not mutate the original", func(t *testing.T) {
		base := TransformError("stage failed").Build()
		derived := base.WithContext("stage", "links")

		if _, ok := base.Context().Get("stage"); ok {
			t.Error("base error context was mutated")
		}
		if v, _ := derived.Context().GetString("stage"); v != "links" {
			t.Errorf("expected stage=links, got %q", v)
		}
	})
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
		severity ErrorSeverity
	}{
		{"ConfigError", ConfigError("test"), CategoryConfig, SeverityFatal},
		{"ValidationError", ValidationError("test"), CategoryValidation, SeverityFatal},
		{"DescriptorError", DescriptorError("test"), CategoryDescriptor, SeverityFatal},
		{"FileSystemError", FileSystemError("test"), CategoryFileSystem, SeverityFatal},
		{"TransformError", TransformError("test"), CategoryTransform, SeverityFatal},
		{"DriftError", DriftError("test"), CategoryDrift, SeverityError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Build()
			if err.Category() != tt.category {
				t.Errorf("expected category %s, got %s", tt.category, err.Category())
			}
			if err.Severity() != tt.severity {
				t.Errorf("expected severity %s, got %s", tt.severity, err.Severity())
			}
		})
	}
}

func TestErrorContext(t *testing.T) {
	ctx1 := make(ErrorContext)
	ctx1 = ctx1.Set("key1", "value1")
	ctx1 = ctx1.Set("shared", "original")

	ctx2 := make(ErrorContext)
	ctx2 = ctx2.Set("key2", "value2")
	ctx2 = ctx2.Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)

	value1, _ := merged.GetString("key1")
	value2, _ := merged.GetString("key2")
	shared, _ := merged.GetString("shared")

	if value1 != "value1" {
		t.Errorf("expected key1=value1, got %s", value1)
	}
	if value2 != "value2" {
		t.Errorf("expected key2=value2, got %s", value2)
	}
	if shared != "overridden" {
		t.Errorf("expected shared=overridden, got %s", shared)
	}

	if _, ok := merged.Get("missing"); ok {
		t.Error("expected missing key to be absent")
	}
}
