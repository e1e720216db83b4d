// BRL+
// Copyright (c) 2026 The BRL+ Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of BRL+.
//
// BRL+ is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// BRL+ is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with BRL+.  If not, see <http://www.gnu.org/licenses/>.

// Package printopts parses the per-request print options accepted by the
// API and the spool: loose string maps decoded into a typed struct and
// validated against the tables and layouts actually installed.
package printopts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
)

// Input formats a print request can carry.
const (
	FormatText = "text"
	FormatBRF  = "brf"
)

// Options are the request knobs. Empty fields mean "use the configured
// default"; resolution happens in the job manager, not here.
type Options struct {
	Table  string `printopt:"table"  validate:"omitempty,table"`
	Layout string `printopt:"layout" validate:"omitempty,layout"`
	Format string `printopt:"format" validate:"omitempty,oneof=text brf"`
	Copies int    `printopt:"copies" validate:"omitempty,min=1,max=99"`
}

// contextKey is an unexported type for context keys to avoid collisions.
type contextKey struct{}

// parseCtxKey is the context key for ParseContext.
var parseCtxKey = contextKey{}

// Parser handles parsing and validation of print options.
type Parser struct {
	validate *validator.Validate
}

// NewParser creates a new Parser with registered custom validators.
func NewParser() *Parser {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Registering with valid tags never errors
	_ = v.RegisterValidationCtx("table", validateTable)
	_ = v.RegisterValidationCtx("layout", validateLayout)

	return &Parser{validate: v}
}

// DefaultParser is a convenience parser for simple use cases.
var DefaultParser = NewParser()

// ParseContext provides runtime context for validation.
type ParseContext struct {
	Tables  []string
	Layouts []string
}

// Parse decodes raw options into a typed struct and validates them.
// Returns an error if decoding or validation fails.
func (p *Parser) Parse(raw map[string]string, dest any, ctx *ParseContext) error {
	decoderConfig := &mapstructure.DecoderConfig{
		Result:           dest,
		TagName:          "printopt",
		WeaklyTypedInput: true,
		ErrorUnused:      true, // Fail on unknown options (catches typos like "lyout")
	}

	decoder, err := mapstructure.NewDecoder(decoderConfig)
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("failed to decode options: %w", err)
	}

	ctxVal := context.WithValue(context.Background(), parseCtxKey, ctx)
	if err := p.validate.StructCtx(ctxVal, dest); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var errMsgs []string
			for _, fe := range validationErrors {
				errMsgs = append(errMsgs, formatValidationError(fe))
			}
			return fmt.Errorf("invalid options: %s", strings.Join(errMsgs, "; "))
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return nil
}

// Parse is a convenience function using the default parser.
func Parse(raw map[string]string, dest any, ctx *ParseContext) error {
	return DefaultParser.Parse(raw, dest, ctx)
}

// formatValidationError creates a human-readable message for one failure.
func formatValidationError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "table":
		return fmt.Sprintf("table %q not found", fe.Value())
	case "layout":
		return fmt.Sprintf("layout %q not found", fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// validateTable checks a table name against the installed tables.
// Comparison is case-insensitive since table names are user-facing.
func validateTable(ctx context.Context, fl validator.FieldLevel) bool {
	return knownName(ctx, fl.Field().String(), func(pc *ParseContext) []string {
		return pc.Tables
	})
}

// validateLayout checks a layout name against the installed profiles.
func validateLayout(ctx context.Context, fl validator.FieldLevel) bool {
	return knownName(ctx, fl.Field().String(), func(pc *ParseContext) []string {
		return pc.Layouts
	})
}

func knownName(ctx context.Context, name string, pick func(*ParseContext) []string) bool {
	if name == "" {
		return true // omitempty handles empty case
	}

	parseCtx, ok := ctx.Value(parseCtxKey).(*ParseContext)
	if !ok || parseCtx == nil {
		// No context means we can't validate - allow it through
		// (will fail at runtime if invalid)
		return true
	}

	for _, known := range pick(parseCtx) {
		if strings.EqualFold(known, name) {
			return true
		}
	}
	return false
}
