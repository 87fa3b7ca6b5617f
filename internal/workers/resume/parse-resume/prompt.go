// internal/workers/resume/parse-resume/prompt.go
package parseresume

import "strings"

const resumeSchema = `{
  "personal_info": {
    "name": "string | null",
    "title": "string | null",
    "linkedin_url": "string | null",
    "email": "string | null",
    "phone": "string | null",
    "location": "string | null"
  },
  "professional_experience": [
    {
      "company": "string | null",
      "location": "string | null",
      "role": "string | null",
      "start_date": "string | null",
      "end_date": "string | null",
      "responsibilities": "list[string] | null"
    }
  ],
  "education": [
    {
      "institution": "string | null",
      "location": "string | null",
      "degree": "string | null",
      "start_date": "string | null",
      "end_date": "string | null"
    }
  ],
  "technical_skills": {
    "technical_skills": "list[string] | null",
    "frameworks_libraries": "list[string] | null",
    "tools": "list[string] | null"
  },
  "additional_information": "list[string] | null",
  "projects": [
    {
      "project_name": "string | null",
      "description": "string | null",
      "tech_stack": "list[string] | null"
    }
  ]
}`

// BuildPrompt asks for the explicitly stated resume fields only.
func BuildPrompt(resumeText string) string {
	var parts []string

	parts = append(parts, "Extract ONLY the information that is EXPLICITLY mentioned in the resume content provided below.")
	parts = append(parts, "DO NOT make any assumptions or inferences about missing information.")
	parts = append(parts, "If a piece of information is not explicitly stated in the resume, set it to null.")
	parts = append(parts, "Format the extracted information as a JSON object according to the schema provided.")

	parts = append(parts, "\nResume Content:")
	parts = append(parts, "```")
	parts = append(parts, resumeText)
	parts = append(parts, "```")

	parts = append(parts, "\nJSON Schema:")
	parts = append(parts, "```json")
	parts = append(parts, resumeSchema)
	parts = append(parts, "```")

	parts = append(parts, "\nImportant Rules:")
	parts = append(parts, "1. ONLY extract information that is EXPLICITLY stated in the resume")
	parts = append(parts, "2. DO NOT infer or guess values for any fields")
	parts = append(parts, "3. For dates, skills and responsibilities, only include what is clearly stated")
	parts = append(parts, "4. If a section is not present in the resume, set all its fields to null")

	parts = append(parts, "\nProject Extraction Rules:")
	parts = append(parts, "1. Look for projects in ANY section of the resume, not just dedicated project sections")
	parts = append(parts, "2. Each project should have a name (can be taken from the description if not explicitly stated)")
	parts = append(parts, "3. If a project has no description, set it to an empty string")
	parts = append(parts, "4. For each project, list the technologies mentioned for it as tech_stack, or an empty list")

	parts = append(parts, "\nEnsure that the JSON object is valid and all extracted information is placed in the correct fields.")
	parts = append(parts, "For lists, if no items are found, return an empty list.")

	return strings.Join(parts, "\n")
}
