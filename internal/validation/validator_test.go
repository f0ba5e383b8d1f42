// Atelier - AI-Powered Interior Design Storefront
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/atelier

package validation

import (
	"strings"
	"testing"

	"github.com/tomtom215/atelier/internal/models"
)

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateRecommendRequest(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		wantTag string
	}{
		{"valid", "modern sofa", ""},
		{"empty", "", "required"},
		{"whitespace", "   \t", "notblank"},
		{"too long", strings.Repeat("a", 501), "max"},
		{"at limit", strings.Repeat("a", 500), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&models.RecommendRequest{Prompt: tt.prompt})
			if tt.wantTag == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("expected validation error")
			}
			if len(verr.Fields) != 1 || verr.Fields[0].Tag != tt.wantTag {
				t.Fatalf("fields = %+v, want tag %s", verr.Fields, tt.wantTag)
			}
			if verr.Fields[0].Field != "prompt" {
				t.Errorf("field = %q, want json name", verr.Fields[0].Field)
			}
		})
	}
}

func TestToAPIErrorSingle(t *testing.T) {
	verr := ValidateStruct(&models.RecommendRequest{})
	apiErr := verr.ToAPIError()
	if apiErr.Code != CodeValidation || apiErr.Message != "prompt is required" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if apiErr.Details["field"] != "prompt" {
		t.Errorf("details = %v", apiErr.Details)
	}
}

type multi struct {
	Name  string `json:"name" validate:"required"`
	Count int    `json:"count" validate:"min=1"`
	Kind  string `json:"kind" validate:"oneof=a b"`
}

func TestToAPIErrorMultiple(t *testing.T) {
	verr := ValidateStruct(&multi{Kind: "c"})
	if verr == nil || len(verr.Fields) != 3 {
		t.Fatalf("verr = %v", verr)
	}
	apiErr := verr.ToAPIError()
	fields, ok := apiErr.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Fatalf("details = %v", apiErr.Details)
	}
	for _, want := range []string{"name is required", "count must be at least 1", "kind must be one of: a b"} {
		if !strings.Contains(apiErr.Message, want) {
			t.Errorf("message %q missing %q", apiErr.Message, want)
		}
	}
}

func TestEmptyRequestValidationError(t *testing.T) {
	ve := &RequestValidationError{}
	if ve.Error() != "validation failed" || ve.ToAPIError().Message != "Validation failed" {
		t.Errorf("empty error = %q / %+v", ve.Error(), ve.ToAPIError())
	}
}
