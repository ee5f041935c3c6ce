// Package placeholder fills report templates with patient details.
//
// Supported tokens are replaced literally wherever they occur. There is no
// escaping: text matching a token is always substituted. Replacement is a
// single left-to-right pass, so a substituted value that happens to contain
// a token is emitted as-is.
package placeholder

import (
	"strconv"
	"strings"
	"time"

	"github.com/frontdesk/frontdesk/pkg/pktime"
)

const (
	TokenPatientName   = "[PATIENT_NAME]"
	TokenPatientAge    = "[PATIENT_AGE]"
	TokenPatientGender = "[PATIENT_GENDER]"
	TokenDate          = "[DATE]"
)

// Token describes a supported placeholder for template editors.
type Token struct {
	Token       string `json:"token"`
	Description string `json:"description"`
}

var tokens = []Token{
	{TokenPatientName, "Patient full name"},
	{TokenPatientAge, "Patient age in years"},
	{TokenPatientGender, "Patient gender"},
	{TokenDate, "Report date (dd-MM-yyyy, PKT)"},
}

// Tokens lists the supported placeholders in display order.
func Tokens() []Token {
	out := make([]Token, len(tokens))
	copy(out, tokens)
	return out
}

// Subject is the patient snapshot a template is rendered against.
type Subject struct {
	Name   string
	Age    int
	Gender string
}

// Render substitutes every supported token in tmpl. The output depends only on
// its inputs.
func Render(tmpl string, s Subject, asOf time.Time) string {
	r := strings.NewReplacer(
		TokenPatientName, s.Name,
		TokenPatientAge, strconv.Itoa(s.Age),
		TokenPatientGender, s.Gender,
		TokenDate, pktime.FormatDate(asOf),
	)
	return r.Replace(tmpl)
}

// Contains reports whether tmpl uses at least one supported token.
func Contains(tmpl string) bool {
	for _, t := range tokens {
		if strings.Contains(tmpl, t.Token) {
			return true
		}
	}
	return false
}
