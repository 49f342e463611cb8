package controllers

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestExtractFormPayloadAppliesExtractionRules(t *testing.T) {
	fields := []FormFieldPayload{
		{Kind: "text", Name: "reason", Value: "supplier change"},
		{Kind: "text", Name: "cost_estimate", Value: "derived", Disabled: true},
		{Kind: "checkbox", Name: "urgent", Checked: true},
		{Kind: "radio", Name: "impact", Value: "low"},
		{Kind: "radio", Name: "impact", Value: "high", Checked: true},
		{Kind: "multi-select", Name: "plants", Selected: []string{"mx1", "mx2"}},
		{Kind: "submit", Name: "save", Value: "Save"},
	}

	raw, err := extractFormPayload(fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	want := map[string]interface{}{
		"reason": "supplier change",
		"urgent": true,
		"impact": "high",
		"plants": []interface{}{"mx1", "mx2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
	if _, ok := got["cost_estimate"]; ok {
		t.Fatal("disabled field must not be captured")
	}
}

func TestExtractFormPayloadEmptyFieldsLeaveDataUntouched(t *testing.T) {
	raw, err := extractFormPayload(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if raw != nil {
		t.Fatalf("expected nil payload, got %s", raw)
	}
}

func TestExtractFormPayloadRejectsUnknownKind(t *testing.T) {
	_, err := extractFormPayload([]FormFieldPayload{
		{Kind: "slider", Name: "volume", Value: "5"},
	})
	if err == nil {
		t.Fatal("expected an error for unknown field kind")
	}
}
