package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptySchemaPath indicates a missing input schema path
	ErrEmptySchemaPath = errors.New("empty schema path")

	// ErrEmptyOutputPath indicates a missing output path
	ErrEmptyOutputPath = errors.New("empty output path")

	// ErrSameInputOutput indicates the output would overwrite the schema
	ErrSameInputOutput = errors.New("output path equals schema path")

	// ErrInvalidKeyword indicates a declaration keyword that is not an identifier
	ErrInvalidKeyword = errors.New("invalid declaration keyword")

	// ErrInvalidDebounce indicates a negative watch debounce
	ErrInvalidDebounce = errors.New("invalid watch debounce")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateSchema(&cfg.Schema); err != nil {
		errs = append(errs, err)
	}

	if err := validateExtract(&cfg.Extract); err != nil {
		errs = append(errs, err)
	}

	if err := validateWatch(&cfg.Watch); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateSchema(cfg *SchemaConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Path) == "" {
		errs = append(errs, fmt.Errorf("%w: schema.path is required", ErrEmptySchemaPath))
	}

	if strings.TrimSpace(cfg.Output) == "" {
		errs = append(errs, fmt.Errorf("%w: schema.output is required", ErrEmptyOutputPath))
	}

	if cfg.Path != "" && cfg.Output != "" && filepath.Clean(cfg.Path) == filepath.Clean(cfg.Output) {
		errs = append(errs, fmt.Errorf("%w: '%s'", ErrSameInputOutput, cfg.Path))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateExtract(cfg *ExtractConfig) error {
	var errs []error

	for _, kw := range append(append([]string{}, cfg.TableKeywords...), cfg.ViewKeywords...) {
		if !isIdentifier(kw) {
			errs = append(errs, fmt.Errorf("%w: '%s'", ErrInvalidKeyword, kw))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateWatch(cfg *WatchConfig) error {
	// Zero disables debouncing
	if cfg.DebounceMs < 0 {
		return fmt.Errorf("%w: debounce_ms cannot be negative, got %d", ErrInvalidDebounce, cfg.DebounceMs)
	}
	return nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
