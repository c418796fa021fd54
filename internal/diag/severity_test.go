package diag

import "testing"

func TestSeverityNames(t *testing.T) {
	tests := []struct {
		sev          Severity
		upper, lower string
		valid, isErr bool
	}{
		{SevInfo, "INFO", "info", true, false},
		{SevWarning, "WARNING", "warning", true, false},
		{SevError, "ERROR", "error", true, true},
		{Severity(7), "UNKNOWN", "unknown", false, true},
	}
	for _, tt := range tests {
		if tt.sev.String() != tt.upper || tt.sev.Label() != tt.lower {
			t.Errorf("%d: String %q Label %q", tt.sev, tt.sev.String(), tt.sev.Label())
		}
		if tt.sev.Valid() != tt.valid || tt.sev.IsError() != tt.isErr {
			t.Errorf("%d: Valid %v IsError %v", tt.sev, tt.sev.Valid(), tt.sev.IsError())
		}
	}
}
