package model

// SourceType classifies where a file's transactions came from.
type SourceType string

const (
	SourceTable   SourceType = "table"
	SourceText    SourceType = "text"
	SourceMixed   SourceType = "mixed"
	SourceUnknown SourceType = "unknown"
	SourceError   SourceType = "error"
)

// FileRecord is one file as delivered by the upstream extraction engine.
type FileRecord struct {
	Filename string        `json:"filename"`
	Tables   [][]RawRecord `json:"extracted_tables"`
	Text     string        `json:"extracted_text"`
	Error    *string       `json:"error"`
}

// HasError reports whether the upstream engine failed on this file.
func (f FileRecord) HasError() bool {
	return f.Error != nil && *f.Error != ""
}

// Failure records one row that could not be normalized.
type Failure struct {
	Index        int       `json:"index"`
	OriginalData RawRecord `json:"original_data"`
	Error        string    `json:"error"`
	ErrorType    string    `json:"error_type"`
}

// FileSummary is the per-file processing summary.
type FileSummary struct {
	TotalTransactions int     `json:"total_transactions"`
	SuccessfulCount   int     `json:"successful_count"`
	FailedCount       int     `json:"failed_count"`
	SuccessRate       float64 `json:"success_rate"`
	Warning           string  `json:"warning,omitempty"`
}

// FileResult is one file's outcome.
type FileResult struct {
	Filename      string                    `json:"filename"`
	SourceType    SourceType                `json:"source_type"`
	Successes     []StandardizedTransaction `json:"successful_transactions"`
	Failures      []Failure                 `json:"failed_transactions"`
	Summary       FileSummary               `json:"processing_summary"`
	OriginalError string                    `json:"original_error,omitempty"`
}

// BatchSummary holds batch-wide rates and distributions.
type BatchSummary struct {
	TotalFiles             int                `json:"total_files"`
	SuccessfulFiles        int                `json:"successful_files"`
	FailedFiles            int                `json:"failed_files"`
	TotalTransactions      int                `json:"total_transactions"`
	SuccessfulTransactions int                `json:"successful_transactions"`
	FileSuccessRate        float64            `json:"file_success_rate"`
	TransactionSuccessRate float64            `json:"transaction_success_rate"`
	SourceTypeDistribution map[SourceType]int `json:"source_type_distribution"`
}

// BatchResult aggregates every FileResult of one run.
type BatchResult struct {
	TotalFiles             int          `json:"total_files"`
	SuccessfulFiles        int          `json:"successful_files"`
	FailedFiles            int          `json:"failed_files"`
	TotalTransactions      int          `json:"total_transactions"`
	SuccessfulTransactions int          `json:"successful_transactions"`
	Summary                BatchSummary `json:"processing_summary"`
	FileResults            []FileResult `json:"file_results"`
}
