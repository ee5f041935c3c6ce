package patient

import (
	"testing"

	"github.com/frontdesk/frontdesk/internal/platform/apperr"
	"github.com/frontdesk/frontdesk/pkg/numeric"
)

func intPtr(v int) *numeric.Int { n := numeric.Int(v); return &n }
func strPtr(s string) *string   { return &s }

func validInput() *Input {
	return &Input{
		Name:    "Ali Khan",
		Age:     intPtr(42),
		Gender:  "Male",
		Contact: "0300-1234567",
		Address: "Lahore",
	}
}

func TestInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *Input)
		wantErr bool
	}{
		{"valid", func(in *Input) {}, false},
		{"age zero", func(in *Input) { in.Age = intPtr(0) }, false},
		{"age 150", func(in *Input) { in.Age = intPtr(150) }, false},
		{"missing name", func(in *Input) { in.Name = " " }, true},
		{"missing age", func(in *Input) { in.Age = nil }, true},
		{"negative age", func(in *Input) { in.Age = intPtr(-1) }, true},
		{"age 151", func(in *Input) { in.Age = intPtr(151) }, true},
		{"missing gender", func(in *Input) { in.Gender = "" }, true},
		{"missing contact", func(in *Input) { in.Contact = "" }, true},
		{"missing address", func(in *Input) { in.Address = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(in)
			err := in.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apperr.Is(err, apperr.KindValidation) {
				t.Errorf("expected validation kind, got %v", err)
			}
		})
	}
}

func TestInput_Apply_BlankOptionalsBecomeNil(t *testing.T) {
	in := validInput()
	in.MRID = strPtr("  ")
	in.DoctorName = strPtr(" Dr. Ahmed ")
	in.Department = strPtr("")

	var p Patient
	in.Apply(&p)

	if p.MRID != nil {
		t.Errorf("expected nil MRID, got %q", *p.MRID)
	}
	if p.DoctorName == nil || *p.DoctorName != "Dr. Ahmed" {
		t.Errorf("expected trimmed doctor name, got %v", p.DoctorName)
	}
	if p.Department != nil {
		t.Error("expected nil department")
	}
	if p.Age != 42 {
		t.Errorf("expected age 42, got %d", p.Age)
	}
}
