package payload

import "testing"

func TestParseWithUnitsRow(t *testing.T) {
	raw := "Job Time,Treating Pressure,Slurry Rate\n" +
		"(none),(psi),(bpm)\n" +
		"01/02/24 10:00:00,5000,90.5\n" +
		"01/02/24 10:00:01,5010,90.7\n"

	table, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(table.Labels) != 3 || table.Labels[1] != "Treating Pressure" {
		t.Errorf("Labels = %v", table.Labels)
	}
	if table.Units == nil || table.Units[2] != "(bpm)" {
		t.Errorf("Units = %v", table.Units)
	}
	if len(table.Rows) != 2 || table.Rows[1][1] != "5010" {
		t.Errorf("Rows = %v", table.Rows)
	}
}

func TestParseWithoutUnitsRow(t *testing.T) {
	raw := "Job Time,Pressure\n" +
		"01/02/24 10:00:00,5000\n"

	table, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if table.Units != nil {
		t.Errorf("Units = %v, want nil", table.Units)
	}
	if len(table.Rows) != 1 {
		t.Errorf("got %d rows, want 1", len(table.Rows))
	}
}

func TestParseHeaderOnly(t *testing.T) {
	table, err := Parse("Job Time,Pressure\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if table.Units != nil || len(table.Rows) != 0 {
		t.Errorf("table = %+v, want empty body", table)
	}
}

func TestParseEmptyPayload(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Fatal("Parse(\"\") succeeded, want error")
	}
}

func TestIsUnitsRow(t *testing.T) {
	tests := []struct {
		name     string
		row      []string
		expected bool
	}{
		{"all parenthesized", []string{"(none)", "(psi)", "(bpm)"}, true},
		{"empty cells tolerated", []string{"", "(psi)", ""}, true},
		{"data row", []string{"01/02/24 10:00:00", "5000"}, false},
		{"mixed row", []string{"(psi)", "5000"}, false},
		{"all empty", []string{"", ""}, false},
		{"empty row", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUnitsRow(tt.row); got != tt.expected {
				t.Errorf("isUnitsRow(%v) = %v, want %v", tt.row, got, tt.expected)
			}
		})
	}
}
