// internal/models/resume.go
package models

import (
	"encoding/json"
	"time"
)

const (
	FileTypePDF  = "application/pdf"
	FileTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// Resume is the metadata row for an uploaded file.
type Resume struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	FileName   string          `json:"file_name"`
	FilePath   string          `json:"file_path"`
	FileType   string          `json:"file_type"`
	ResumeURL  string          `json:"resume_url"`
	ParsedData json.RawMessage `json:"parsed_data"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ResumeData is the structured extraction result. Absent values stay nil.
type ResumeData struct {
	PersonalInfo           *PersonalInfo    `json:"personal_info"`
	ProfessionalExperience []Experience     `json:"professional_experience"`
	Education              []Education      `json:"education"`
	TechnicalSkills        *TechnicalSkills `json:"technical_skills"`
	AdditionalInformation  []string         `json:"additional_information"`
	Projects               []Project        `json:"projects"`
}

type PersonalInfo struct {
	Name        *string `json:"name"`
	Title       *string `json:"title"`
	LinkedInURL *string `json:"linkedin_url"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Location    *string `json:"location"`
}

type Experience struct {
	Company          *string  `json:"company"`
	Location         *string  `json:"location"`
	Role             *string  `json:"role"`
	StartDate        *string  `json:"start_date"`
	EndDate          *string  `json:"end_date"`
	Responsibilities []string `json:"responsibilities"`
}

type Education struct {
	Institution *string `json:"institution"`
	Location    *string `json:"location"`
	Degree      *string `json:"degree"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

type TechnicalSkills struct {
	TechnicalSkills     []string `json:"technical_skills"`
	FrameworksLibraries []string `json:"frameworks_libraries"`
	Tools               []string `json:"tools"`
}

type Project struct {
	ProjectName *string  `json:"project_name"`
	Description *string  `json:"description"`
	TechStack   []string `json:"tech_stack"`
}
