package staffcsv

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spec-kit/staff-policy-service/internal/domain"
)

const sampleRoster = `Sl,Name,Designation,Type,Dept,Status,DOB,Emp ID,DOE,Bank Acct No,Tax ID,National ID,Phone,Mail ID
1,Asha Verma,Lecturer,TEACHING,Mathematics,IN_SERVICE,1980-04-12,E1,2005-06-01,1234567890,TX01,N01,9876543210,asha@example.com
2,,,,,,,,,,,,,
3,Binod Rao,Clerk,NON_TEACHING,Office,IN_SERVICE,,E2,,,,,,
`

func TestParseRoster(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleRoster))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("parsed %d records, want 2 (empty row skipped)", len(records))
	}

	first := records[0]
	if first.EmpID != "E1" || first.Name != "Asha Verma" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if first.Type != domain.StaffTypeTeaching {
		t.Fatalf("type = %q", first.Type)
	}
	if first.Email == nil || *first.Email != "asha@example.com" {
		t.Fatalf("email not parsed: %v", first.Email)
	}

	second := records[1]
	if second.DateOfBirth != nil {
		t.Fatalf("blank optional column should stay nil")
	}
}

func TestParseRejectsMissingEmpID(t *testing.T) {
	const roster = `Sl,Name,Designation,Type,Dept,Status,DOB,Emp ID
1,Asha Verma,Lecturer,TEACHING,Mathematics,IN_SERVICE,,
`
	_, err := Parse(strings.NewReader(roster))
	if err == nil {
		t.Fatalf("row without employee id accepted")
	}
	if !strings.Contains(err.Error(), "Asha Verma") {
		t.Fatalf("error does not name the offending row: %v", err)
	}
}

func TestParseRejectsEmptyFile(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Fatalf("empty file accepted")
	}
}

func TestWriteParseRoundTrip(t *testing.T) {
	phone := "9876543210"
	in := []domain.StaffRecord{
		{Serial: "1", Name: "Asha Verma", EmpID: "E1", Type: domain.StaffTypeTeaching, Phone: &phone},
		{Serial: "2", Name: "Binod Rao", EmpID: "E2", Type: domain.StaffTypeNonTeaching},
	}

	var buf bytes.Buffer
	if err := Write(&buf, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := Parse(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("round trip lost records: %d", len(out))
	}
	if out[0].EmpID != "E1" || out[1].EmpID != "E2" {
		t.Fatalf("emp ids mangled: %+v", out)
	}
	if out[0].Phone == nil || *out[0].Phone != phone {
		t.Fatalf("phone mangled: %v", out[0].Phone)
	}
}
