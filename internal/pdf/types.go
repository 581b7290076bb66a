package pdf

// FileInfo represents information about a PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// ValidateRequest represents a request to validate a PDF file
type ValidateRequest struct {
	Path string `json:"path"`
}

// ValidateResult represents the result of a PDF validation
type ValidateResult struct {
	Valid     bool   `json:"valid"`
	Path      string `json:"path"`
	Pages     int    `json:"pages,omitempty"`
	Version   string `json:"version,omitempty"`
	Encrypted bool   `json:"encrypted,omitempty"`
	Message   string `json:"message,omitempty"`
}

// SearchRequest represents a request to list PDF files in a directory
type SearchRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query"`
}

// SearchResult represents the result of a PDF search
type SearchResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}
