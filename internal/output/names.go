package output

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxFilenameLength  = 50
	maxSheetNameLength = 31
	sheetNameEllipsis  = "..."

	// GlobalPrefix starts the name of the consolidated batch file
	GlobalPrefix = "extraction_globale_consolidee_"
	// GlobalTimeLayout formats the timestamp of the consolidated file name
	GlobalTimeLayout = "20060102_150405"
)

var (
	filenameForbidden  = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun      = regexp.MustCompile(`\s+`)
	sheetNameForbidden = regexp.MustCompile(`[\\/?*\[\]:]`)
)

// SanitizeFilename makes a document base name safe as a file name stem.
// The result is at most 50 characters; "document" replaces an empty result.
func SanitizeFilename(name string) string {
	sanitized := filenameForbidden.ReplaceAllString(name, "_")
	sanitized = whitespaceRun.ReplaceAllString(sanitized, "_")
	sanitized = strings.Trim(sanitized, "._-")
	sanitized = truncate(sanitized, maxFilenameLength)
	if sanitized == "" {
		return "document"
	}
	return sanitized
}

// SanitizeSheetName makes a category label usable as a worksheet name.
// Names longer than 31 characters keep their first 28 followed by "...".
func SanitizeSheetName(name string) string {
	sanitized := strings.TrimSpace(sheetNameForbidden.ReplaceAllString(name, "_"))
	if utf8.RuneCountInString(sanitized) > maxSheetNameLength {
		sanitized = truncate(sanitized, maxSheetNameLength-len(sheetNameEllipsis)) + sheetNameEllipsis
	}
	if sanitized == "" {
		return "Feuille"
	}
	return sanitized
}

// uniqueSheetName suffixes name until it is not in used, staying within
// the worksheet name limit.
func uniqueSheetName(name string, used map[string]bool) string {
	if !used[strings.ToLower(name)] {
		return name
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate := truncate(name, maxSheetNameLength-len(suffix)) + suffix
		if !used[strings.ToLower(candidate)] {
			return candidate
		}
	}
}

// GlobalFilename names the consolidated CSV of a batch run
func GlobalFilename(now time.Time) string {
	return GlobalPrefix + now.Format(GlobalTimeLayout) + ".csv"
}

// DocumentFilename returns the output file name of a document for ext
func DocumentFilename(path, ext string) string {
	return documentStem(path) + "." + ext
}

func documentStem(path string) string {
	base := filepath.Base(path)
	if e := filepath.Ext(base); strings.EqualFold(e, ".pdf") {
		base = strings.TrimSuffix(base, e)
	}
	return SanitizeFilename(base)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
