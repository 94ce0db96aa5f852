// Package payroll parses certified payroll register text into named fields.
//
// The input is per-page plain text from the pdf service. Certified payroll
// registers put job information in the header of the first page and one
// employee per page, so the parser works in two passes: job info from page
// one, then an employee record from every page that carries the register's
// column markers. Extraction is heuristic (regex over semi-structured text);
// fields that don't match are simply absent from the record — downstream
// mapping tolerates missing fields and renders blank cells.
package payroll

import (
	"regexp"
	"strings"

	"github.com/Shimizu-Technology/payroll-extractor-api/internal/models"
)

// FieldNames is the canonical vocabulary of extractor field names. Mapping
// files reference these names; anything else resolves to a blank cell.
var FieldNames = []string{
	// Employee identity
	"name", "ssn", "address", "city", "state", "zip",
	"job_class", "marital_status",
	// Hours and pay
	"regular_hours", "overtime_hours",
	"pay_rate", "gross_pay", "federal_tax", "net_pay", "total_deductions",
	// Fringe benefits (rate + amount pairs)
	"amf_494_rate", "amf_494_amount",
	"annuity_rate", "annuity_amount",
	"h_and_w_rate", "h_and_w_amount",
	"jatc_494_rate", "jatc_494_amount",
	"lmcc_494_rate", "lmcc_494_amount",
	"nebf_494_rate", "nebf_494_amount",
	"neca_494_rate", "neca_494_amount",
	"neif_494_rate", "neif_494_amount",
	"pension_rate", "pension_amount",
	"vac_hol_rate", "vac_hol_amount",
	"dues_amount",
	// Job header fields (merged into every employee record)
	"job_name", "job_number", "week_ending", "payroll_number",
	"contractor_name", "customer_name",
}

// Register is everything parsed from one payroll PDF.
type Register struct {
	JobInfo   map[string]string
	Employees []models.ExtractedRecord
}

// Patterns for the job information block on the first page.
var jobPatterns = map[string]*regexp.Regexp{
	"job_name":        regexp.MustCompile(`Job\s*\n([^\n]+)`),
	"job_number":      regexp.MustCompile(`Job Number:\s*([^\n]+)`),
	"week_ending":     regexp.MustCompile(`Week Ending:\s*([^\n]+)`),
	"payroll_number":  regexp.MustCompile(`Payroll #\s*([^\n]+)`),
	"contractor_name": regexp.MustCompile(`Contractor\s*\n([^\n]+)`),
	"customer_name":   regexp.MustCompile(`Customer\s*\n([^\n]+)`),
}

// Patterns for per-employee fields. An employee page is identified by the
// register's column markers before any of these run.
var (
	nameRe    = regexp.MustCompile(`([A-Z\s]+[A-Z])\s+(\*\*\*-\*\*-\d{4})`)
	addressRe = regexp.MustCompile(`([A-Z0-9\s]+)\s+([A-Z]+)\s+(\w+)\s+(\d+)`)
	classRe   = regexp.MustCompile(`Class\s+.+\s+([A-Z]+)\s+Male`)
	maritalRe = regexp.MustCompile(`(Single|Married)\s+\d+`)
	hoursRe   = regexp.MustCompile(`R:\s+(\d+\.\d+).*O:\s+(\d+\.\d+)`)
	// Anchored to a full line: a bare run of four decimals elsewhere on the
	// page (say, hours followed by the pay line) must not win the match.
	payRe = regexp.MustCompile(`(?m)^\s*(\d+\.\d+)\s+(\d+\.\d+)\s+(\d+\.\d+)\s+(\d+\.\d+)\s*$`)
	fringeRe  = regexp.MustCompile(`(AMF 494|ANNUITY|H&W|JATC 494|LMCC 494|NEBF 494|NECA-494|NEIF-494|PENSION|VAC/HOL)\s+(\d+\.\d+)\s+(\d+\.\d+)`)
	duesRe    = regexp.MustCompile(`DUES\s+(\d+\.\d+)`)
	totalRe   = regexp.MustCompile(`Total\s+(\d+\.\d+)`)
)

// fringeKey normalizes a benefit label into a canonical field name stem:
// "AMF 494" -> "amf_494", "H&W" -> "h_and_w", "VAC/HOL" -> "vac_hol".
var fringeKey = strings.NewReplacer(" ", "_", "&", "_and_", "-", "_", "/", "_")

// ParseRegister extracts job information and employee records from the
// per-page text of a certified payroll register. Pages without the
// register's column markers are skipped; a register with no recognizable
// employee pages yields an empty Employees slice, not an error.
func ParseRegister(pages []string) *Register {
	reg := &Register{
		JobInfo: parseJobInfo(pages),
	}

	for _, page := range pages {
		// Only pages with the register's column headings hold employee data.
		if !strings.Contains(page, "Name / Address") || !strings.Contains(page, "Hours Worked This Job") {
			continue
		}

		emp := parseEmployee(page)
		if emp == nil {
			continue
		}

		// The job header applies to every employee on the register.
		for k, v := range reg.JobInfo {
			if v != "" {
				emp[k] = v
			}
		}
		reg.Employees = append(reg.Employees, emp)
	}

	return reg
}

// parseJobInfo reads the job header fields from the first page.
// Fields that don't match are present with an empty value so callers can
// distinguish "register had no header" from "field unknown".
func parseJobInfo(pages []string) map[string]string {
	firstPage := ""
	if len(pages) > 0 {
		firstPage = pages[0]
	}

	info := make(map[string]string, len(jobPatterns))
	for key, re := range jobPatterns {
		if m := re.FindStringSubmatch(firstPage); m != nil {
			info[key] = strings.TrimSpace(m[1])
		} else {
			info[key] = ""
		}
	}
	return info
}

// parseEmployee extracts one employee record from a page of register text.
// Returns nil when the page has no recognizable employee (no name/SSN pair).
func parseEmployee(page string) models.ExtractedRecord {
	emp := models.ExtractedRecord{}

	// Name and masked SSN anchor the record. Without them this is not an
	// employee page, whatever the markers said.
	loc := nameRe.FindStringSubmatchIndex(page)
	if loc == nil {
		return nil
	}
	emp["name"] = strings.TrimSpace(page[loc[2]:loc[3]])
	emp["ssn"] = page[loc[4]:loc[5]]

	// The address lines follow the name/SSN line, so search after it —
	// otherwise the last four SSN digits can win the leftmost match.
	if m := addressRe.FindStringSubmatch(page[loc[1]:]); m != nil {
		emp["address"] = strings.TrimSpace(m[1])
		emp["city"] = strings.TrimSpace(m[2])
		emp["state"] = strings.TrimSpace(m[3])
		emp["zip"] = strings.TrimSpace(m[4])
	}

	if m := classRe.FindStringSubmatch(page); m != nil {
		emp["job_class"] = strings.TrimSpace(m[1])
	}

	if m := maritalRe.FindStringSubmatch(page); m != nil {
		emp["marital_status"] = strings.TrimSpace(m[1])
	}

	if m := hoursRe.FindStringSubmatch(page); m != nil {
		emp["regular_hours"] = m[1]
		emp["overtime_hours"] = m[2]
	}

	// The pay line is a bare run of four decimals:
	// rate, gross, federal withholding, net.
	if m := payRe.FindStringSubmatch(page); m != nil {
		emp["pay_rate"] = m[1]
		emp["gross_pay"] = m[2]
		emp["federal_tax"] = m[3]
		emp["net_pay"] = m[4]
	}

	for _, m := range fringeRe.FindAllStringSubmatch(page, -1) {
		stem := strings.ToLower(fringeKey.Replace(m[1]))
		emp[stem+"_rate"] = m[2]
		emp[stem+"_amount"] = m[3]
	}

	if m := duesRe.FindStringSubmatch(page); m != nil {
		emp["dues_amount"] = m[1]
	}

	if m := totalRe.FindStringSubmatch(page); m != nil {
		emp["total_deductions"] = m[1]
	}

	return emp
}
