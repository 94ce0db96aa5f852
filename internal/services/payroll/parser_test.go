package payroll

import (
	"testing"
)

// headerPage mimics the job information block on the first page of a
// certified payroll register.
const headerPage = `Certified Payroll Register
Job
MAIN STREET BRIDGE REHAB
Job Number: 4077-02-71
Week Ending: 04/15/2023
Payroll # 14
Contractor
STAFF ELECTRIC CO INC
Customer
ACME BUILDERS INC
`

// employeePage mimics one employee page. The "Name / Address" and
// "Hours Worked This Job" markers are what qualify a page for parsing.
const employeePage = `Payroll Register
Name / Address
JOHN A SMITH ***-**-1234
N52W13821 BOBOLINK AVE MILWAUKEE WI 53224
Class Inside Wireman ELECTRICIAN Male
Married 2
Hours Worked This Job
R: 40.00 O: 4.50
52.50 2362.50 354.38 1534.19
AMF 494 0.35 15.58
ANNUITY 5.00 118.13
H&W 9.43 419.67
PENSION 3.79 168.68
VAC/HOL 2.00 89.00
DUES 23.63
Total 828.31
`

const secondEmployeePage = `Payroll Register
Name / Address
JANE B DOE ***-**-9876
1200 OAK ST MADISON WI 53703
Class Inside Wireman ELECTRICIAN Male
Single 1
Hours Worked This Job
R: 38.00 O: 0.00
52.50 1995.00 299.25 1395.75
ANNUITY 5.00 99.75
DUES 19.95
Total 599.25
`

func TestParseRegisterJobInfo(t *testing.T) {
	reg := ParseRegister([]string{headerPage, employeePage})

	want := map[string]string{
		"job_name":        "MAIN STREET BRIDGE REHAB",
		"job_number":      "4077-02-71",
		"week_ending":     "04/15/2023",
		"payroll_number":  "14",
		"contractor_name": "STAFF ELECTRIC CO INC",
		"customer_name":   "ACME BUILDERS INC",
	}
	for k, v := range want {
		if got := reg.JobInfo[k]; got != v {
			t.Errorf("JobInfo[%q] = %q, want %q", k, got, v)
		}
	}
}

func TestParseRegisterEmployee(t *testing.T) {
	reg := ParseRegister([]string{headerPage, employeePage})

	if len(reg.Employees) != 1 {
		t.Fatalf("got %d employees, want 1", len(reg.Employees))
	}
	emp := reg.Employees[0]

	tests := []struct {
		field string
		want  string
	}{
		{"name", "JOHN A SMITH"},
		{"ssn", "***-**-1234"},
		{"address", "N52W13821 BOBOLINK AVE"},
		{"city", "MILWAUKEE"},
		{"state", "WI"},
		{"zip", "53224"},
		{"job_class", "ELECTRICIAN"},
		{"marital_status", "Married"},
		{"regular_hours", "40.00"},
		{"overtime_hours", "4.50"},
		{"pay_rate", "52.50"},
		{"gross_pay", "2362.50"},
		{"federal_tax", "354.38"},
		{"net_pay", "1534.19"},
		{"amf_494_rate", "0.35"},
		{"amf_494_amount", "15.58"},
		{"annuity_rate", "5.00"},
		{"annuity_amount", "118.13"},
		{"h_and_w_rate", "9.43"},
		{"h_and_w_amount", "419.67"},
		{"pension_rate", "3.79"},
		{"pension_amount", "168.68"},
		{"vac_hol_rate", "2.00"},
		{"vac_hol_amount", "89.00"},
		{"dues_amount", "23.63"},
		{"total_deductions", "828.31"},
		// Job header fields are merged into every employee record.
		{"job_number", "4077-02-71"},
		{"week_ending", "04/15/2023"},
		{"job_name", "MAIN STREET BRIDGE REHAB"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := emp[tt.field]; got != tt.want {
				t.Errorf("emp[%q] = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestParseRegisterMultipleEmployees(t *testing.T) {
	reg := ParseRegister([]string{headerPage, employeePage, secondEmployeePage})

	if len(reg.Employees) != 2 {
		t.Fatalf("got %d employees, want 2", len(reg.Employees))
	}

	second := reg.Employees[1]
	if second["name"] != "JANE B DOE" {
		t.Errorf("second employee name = %q, want %q", second["name"], "JANE B DOE")
	}
	if second["marital_status"] != "Single" {
		t.Errorf("second employee marital_status = %q, want Single", second["marital_status"])
	}
	if second["overtime_hours"] != "0.00" {
		t.Errorf("second employee overtime_hours = %q, want 0.00", second["overtime_hours"])
	}
	// Fringe lines absent from the page stay absent from the record.
	if _, ok := second["pension_rate"]; ok {
		t.Error("second employee has pension_rate, want field absent")
	}
}

func TestParseRegisterSkipsNonEmployeePages(t *testing.T) {
	reg := ParseRegister([]string{headerPage, "Totals and certification page\nTotal 1427.56"})

	if len(reg.Employees) != 0 {
		t.Fatalf("got %d employees from a register without employee pages, want 0", len(reg.Employees))
	}
}

func TestParseRegisterEmptyInput(t *testing.T) {
	reg := ParseRegister(nil)
	if len(reg.Employees) != 0 {
		t.Fatalf("got %d employees from empty input, want 0", len(reg.Employees))
	}
	// Job info keys exist with empty values so callers can range over them.
	if _, ok := reg.JobInfo["job_number"]; !ok {
		t.Error("JobInfo missing job_number key on empty input")
	}
}

func TestFieldNamesCoverParserOutput(t *testing.T) {
	known := make(map[string]bool, len(FieldNames))
	for _, f := range FieldNames {
		known[f] = true
	}

	reg := ParseRegister([]string{headerPage, employeePage})
	if len(reg.Employees) == 0 {
		t.Fatal("no employees parsed")
	}
	for field := range reg.Employees[0] {
		if !known[field] {
			t.Errorf("parser emitted field %q that is not in FieldNames", field)
		}
	}
}
