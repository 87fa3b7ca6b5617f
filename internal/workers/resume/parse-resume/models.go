// internal/workers/resume/parse-resume/models.go
package parseresume

type Input struct {
	UserID   string `json:"userId"`
	ResumeID string `json:"resumeId,omitempty"`
	FilePath string `json:"filePath"`
	FileType string `json:"fileType"`
}

type Output struct {
	ResumeID   string                 `json:"resumeId,omitempty"`
	Parsed     bool                   `json:"parsed"`
	ParsedData map[string]interface{} `json:"parsedData"`
	TextLength int                    `json:"textLength"`
}
