package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
)

// Validate checks the configuration for values no sync run could work with.
// The first problem found is returned as a classified validation error.
func (c *Config) Validate() error {
	if err := validateRelative("descriptor", c.Descriptor); err != nil {
		return err
	}
	if err := validateRelative("docs_dir", c.DocsDir); err != nil {
		return err
	}
	if err := validateRelative("packages.destination_dir", c.Packages.DestinationDir); err != nil {
		return err
	}
	if strings.ContainsAny(c.Packages.Readme, `/\`) {
		return errors.ValidationError("packages.readme must be a file name").
			WithContext("value", c.Packages.Readme).
			Build()
	}

	sources := make(map[string]struct{}, len(c.RootDocuments))
	destinations := make(map[string]struct{}, len(c.RootDocuments))
	for i, doc := range c.RootDocuments {
		field := fmt.Sprintf("root_documents[%d]", i)
		if doc.Source == "" || doc.Destination == "" {
			return errors.ValidationError(field + " requires source and destination").Build()
		}
		if err := validateRelative(field+".destination", doc.Destination); err != nil {
			return err
		}
		src := filepath.ToSlash(filepath.Clean(doc.Source))
		if _, dup := sources[src]; dup {
			return errors.ValidationError("duplicate root document source").
				WithContext("source", doc.Source).
				Build()
		}
		sources[src] = struct{}{}
		dst := filepath.ToSlash(filepath.Clean(doc.Destination))
		if _, dup := destinations[dst]; dup {
			return errors.ValidationError("duplicate root document destination").
				WithContext("destination", doc.Destination).
				Build()
		}
		destinations[dst] = struct{}{}
	}

	for i, p := range c.AssetPrefixes {
		if p.From == "" {
			return errors.ValidationError(fmt.Sprintf("asset_prefixes[%d].from must not be empty", i)).Build()
		}
		// A replacement containing its own pattern would grow on every run.
		if strings.Contains(p.To, p.From) {
			return errors.ValidationError(fmt.Sprintf("asset_prefixes[%d].to must not contain from", i)).
				WithContext("from", p.From).
				Build()
		}
	}
	for _, label := range c.Badges.RemoveLabels {
		if strings.TrimSpace(label) == "" {
			return errors.ValidationError("badges.remove_labels must not contain empty labels").Build()
		}
	}
	return nil
}

// validateRelative rejects empty, absolute and escaping paths.
func validateRelative(field, value string) error {
	if value == "" {
		return errors.ValidationError(field + " must not be empty").Build()
	}
	if filepath.IsAbs(value) {
		return errors.ValidationError(field+" must be relative to the repository root").
			WithContext("value", value).
			Build()
	}
	cleaned := filepath.ToSlash(filepath.Clean(value))
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return errors.ValidationError(field+" must not leave the repository root").
			WithContext("value", value).
			Build()
	}
	return nil
}
