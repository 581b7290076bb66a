// Package metadata parses the publication header printed at the top of each
// job-publication page into a fixed record of named fields.
package metadata

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Field identifies one metadata column
type Field int

// Fields in output column order
const (
	UMCode Field = iota
	UMLabel
	DUMCode
	DUMLabel
	SDUMCode
	SDUMLabel
	FSDUMCode
	FSDUMLabel
	Job
	Workplace
	PublishedUnder
	JobCount
	ClosingDate
	Reason
	Position
	PublicationGF
	CERNE
	MyHRReference

	fieldCount
)

var fieldNames = [fieldCount]string{
	"UM_code", "UM_char",
	"DUM_code", "DUM_char",
	"SDUM_code", "SDUM_char",
	"FSDUM_code", "FSDUM_char",
	"Emploi_candidature", "Lieu_de_travail", "Publié_sous_le",
	"Nombre_demploi", "Date_de_forclusion",
	"Motif", "Position", "GF_de_publication",
	"CERNE", "Reference_My_HR",
}

// String returns the column name of the field
func (f Field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// Names returns the column names of every field, in order
func Names() []string {
	return append([]string(nil), fieldNames[:]...)
}

// Record holds one page's metadata. Every field is optional; unset fields
// render as "".
type Record struct {
	values [fieldCount]string
	set    [fieldCount]bool
}

// Get returns a field's value and whether it was found on the page
func (r *Record) Get(f Field) (string, bool) {
	if f < 0 || f >= fieldCount {
		return "", false
	}
	return r.values[f], r.set[f]
}

// Values returns every field value in column order
func (r *Record) Values() []string {
	return append([]string(nil), r.values[:]...)
}

// IsEmpty reports whether no field was found
func (r *Record) IsEmpty() bool {
	for _, s := range r.set {
		if s {
			return false
		}
	}
	return true
}

func (r *Record) put(f Field, v string) {
	r.values[f] = v
	r.set[f] = true
}

var (
	jobPattern    = regexp.MustCompile(`Emploi\s*:\s*(.*?)\s*Lieu de travail\s*(.*?)\s*Publié sous le n°\s*(.+)`)
	reasonPattern = regexp.MustCompile(`Motif\s*(.*?)\s*Position\s*(.*?)\s*GF de publication\s*(.+)`)
	cernePattern  = regexp.MustCompile(`CERNE\s*:\s*(.*?)\s+Référence MyHR\s+(.+)`)
	spaces        = regexp.MustCompile(`\s+`)
)

const closingDateMarker = "Date de forclusion"

type lineRule struct {
	prefix string
	parse  func(r *Record, line string)
}

// rules are tried in order and the first matching prefix consumes the line.
var rules = []lineRule{
	{"UM :", codeAndLabel(UMCode, UMLabel)},
	{"DUM :", codeAndLabel(DUMCode, DUMLabel)},
	{"SDUM :", codeAndLabel(SDUMCode, SDUMLabel)},
	{"FSDUM :", codeAndLabel(FSDUMCode, FSDUMLabel)},
	{"Emploi :", parseJob},
	{"Nombre d'emploi(s)", parseJobCount},
	{"Nombre d’emploi(s)", parseJobCount},
	{"Motif", parseReason},
	{"CERNE :", parseCERNE},
}

// Parse reads the metadata lines of a page. Lines matching no prefix are
// ignored.
func Parse(text string) *Record {
	r := &Record{}
	for _, line := range strings.Split(norm.NFC.String(text), "\n") {
		line = strings.TrimSpace(line)
		for _, rule := range rules {
			if strings.HasPrefix(line, rule.prefix) {
				rule.parse(r, line)
				break
			}
		}
	}
	return r
}

// codeAndLabel handles "UM : <code> <label...>" lines
func codeAndLabel(code, label Field) func(*Record, string) {
	return func(r *Record, line string) {
		parts := strings.Fields(line)
		if len(parts) < 3 {
			return
		}
		r.put(code, parts[2])
		if len(parts) > 3 {
			r.put(label, strings.Join(parts[3:], " "))
		}
	}
}

func parseJob(r *Record, line string) {
	m := jobPattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	r.put(Job, strings.TrimSpace(m[1]))
	r.put(Workplace, strings.TrimSpace(m[2]))
	r.put(PublishedUnder, strings.TrimSpace(m[3]))
}

// parseJobCount handles "Nombre d'emploi(s) <n> [<workplace tail> Date de
// forclusion <date>]". The workplace often wraps onto this line, so the text
// before the date marker extends the workplace read from the job line.
func parseJobCount(r *Record, line string) {
	parts := strings.Fields(line)
	if len(parts) < 3 {
		return
	}
	r.put(JobCount, parts[2])
	if len(parts) == 3 {
		return
	}

	remaining := strings.Join(parts[3:], " ")
	before, after, found := strings.Cut(remaining, closingDateMarker)
	if !found {
		return
	}

	if location := strings.TrimSpace(before); location != "" {
		if current, ok := r.Get(Workplace); ok && current != "" {
			location = current + " " + location
		}
		r.put(Workplace, location)
	}
	r.put(ClosingDate, strings.TrimSpace(after))
}

func parseReason(r *Record, line string) {
	m := reasonPattern.FindStringSubmatch(line)
	if m == nil {
		return
	}
	r.put(Reason, strings.TrimSpace(m[1]))
	r.put(Position, strings.TrimSpace(m[2]))
	r.put(PublicationGF, strings.TrimSpace(m[3]))
}

func parseCERNE(r *Record, line string) {
	cleaned := strings.ReplaceAll(line, "\u00a0", " ")
	cleaned = spaces.ReplaceAllString(cleaned, " ")

	m := cernePattern.FindStringSubmatch(cleaned)
	if m == nil {
		return
	}
	r.put(CERNE, strings.TrimSpace(m[1]))
	r.put(MyHRReference, strings.TrimSpace(m[2]))
}
