package descriptions

import "sort"

// Tool descriptions with practical examples and use cases

// Tool names
const (
	ToolCategories = "bordereau_categories"
	ToolValidate   = "bordereau_validate"
	ToolLocate     = "bordereau_locate"
	ToolCoverage   = "bordereau_coverage"
	ToolExtract    = "bordereau_extract"
	ToolBatch      = "bordereau_batch"
)

const (
	CategoriesDescription = `List the bordereau categories searched in CAP documents.

**When to use:** Before locating or extracting, to know which keywords delimit the sections of a document and which label each section receives in the outputs.

**Why it's useful:** The category list comes from the active profile, so it shows exactly what the extraction will look for.

**Examples:**
• Check the configuration: "Which bordereaux does the extractor recognise?"
• Prepare a profile: "List the default categories before overriding them"

**Best practices:** Keyword order matters, a page belongs to the first category whose keyword it contains.`

	ValidateDescription = `Verify that a file is a readable, unencrypted PDF before extraction.

**When to use:** Before extracting an unknown file, especially files coming from a shared drive or an upload.

**Why it's useful:** Encrypted or damaged documents are rejected early with a clear message instead of failing halfway through the tables.

**Examples:**
• "Validate cap_mars_2024.pdf before processing it"
• "Check every file of /bordereaux/2024 is readable"

**Best practices:** The extraction tools validate on their own, use this tool to diagnose a failing file.`

	LocateDescription = `Find the pages of every bordereau category in a PDF.

**When to use:** To see where each bordereau starts and ends without extracting the tables.

**Why it's useful:** Returns one page range per category found, which is the first step of every extraction and the quickest way to check a document's layout.

**Examples:**
• "Where is the Bordereau A5 in cap_juin.pdf?"
• "Which categories are present in this document?"

**Common workflows:**
1. Locate → check the ranges → Extract
2. Locate → Coverage to find pages outside any bordereau

**Best practices:** Category pages that are missing from the result were not found in the document text.`

	CoverageDescription = `Report which pages of a PDF belong to a bordereau category.

**When to use:** To check that no page of a document was left out of the extraction.

**Why it's useful:** Gives processed and unprocessed pages with a coverage percentage, unprocessed pages usually hold cover letters or an unknown bordereau.

**Examples:**
• "What share of cap_mars.pdf is covered by known bordereaux?"
• "List the pages that no category claims"

**Best practices:** A low coverage often means a category keyword is missing from the profile.`

	ExtractDescription = `Extract the bordereau tables of a PDF into one consolidated dataset.

**When to use:** To turn one CAP document into a single table with one row per person, tagged with the document and the bordereau category.

**Why it's useful:** Locates every category, extracts and cleans its tables, repairs split headers, reads the A5 publication metadata and merges everything into one dataset.

**Examples:**
• "Extract cap_mars_2024.pdf"
• "Extract cap_juin.pdf and write the CSV and Excel files"

**Common workflows:**
1. Extract → review the per category results → Extract with write=true
2. Validate → Extract → Batch for the remaining files

**Best practices:** Check the warnings of the result, skipped filters and failed categories are reported there rather than failing the whole document.`

	BatchDescription = `Extract every PDF of a directory and write the outputs.

**When to use:** To process a month or a year of CAP documents at once.

**Why it's useful:** Writes one dataset per document and, on request, one consolidated file for the whole batch, a failing document does not stop the others.

**Examples:**
• "Process every PDF of /bordereaux/2024"
• "Process the files whose name contains 'mars' and write the consolidated CSV"

**Best practices:** Restrict a large directory with the query parameter first to check the results on a few files.`
)

// ToolDescriptions maps tool names to their descriptions
var ToolDescriptions = map[string]string{
	ToolCategories: CategoriesDescription,
	ToolValidate:   ValidateDescription,
	ToolLocate:     LocateDescription,
	ToolCoverage:   CoverageDescription,
	ToolExtract:    ExtractDescription,
	ToolBatch:      BatchDescription,
}

// GetToolDescription returns the description for a tool
func GetToolDescription(toolName string) string {
	if desc, exists := ToolDescriptions[toolName]; exists {
		return desc
	}
	return "Tool description not available"
}

// GetAllToolNames returns the sorted names of all available tools
func GetAllToolNames() []string {
	names := make([]string, 0, len(ToolDescriptions))
	for name := range ToolDescriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
