package validation

// AnalysisSchema requires every top-level section and the value types of the
// fields the service reads back out of a report.
var AnalysisSchema = NewSchema("analysis", `{
  "type": "object",
  "required": [
    "executiveSummary", "ikigaiAlignment", "careerRecommendations",
    "skillAnalysis", "marketAnalysis", "actionPlan",
    "personalityInsights", "networkingStrategy", "compensationGuidance"
  ],
  "definitions": {
    "score": {"type": "number", "minimum": 0, "maximum": 100},
    "strings": {"type": "array", "items": {"type": "string"}},
    "steps": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["action"],
        "properties": {
          "action": {"type": "string"},
          "timeline": {"type": "string"},
          "priority": {"type": "string"}
        }
      }
    }
  },
  "properties": {
    "executiveSummary": {"type": "string", "minLength": 1},
    "ikigaiAlignment": {
      "type": "object",
      "properties": {
        "passionScore": {"$ref": "#/definitions/score"},
        "missionScore": {"$ref": "#/definitions/score"},
        "vocationScore": {"$ref": "#/definitions/score"},
        "professionScore": {"$ref": "#/definitions/score"},
        "overallAlignment": {"$ref": "#/definitions/score"},
        "strengthAreas": {"$ref": "#/definitions/strings"},
        "improvementAreas": {"$ref": "#/definitions/strings"}
      }
    },
    "careerRecommendations": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": {"type": "string"},
          "description": {"type": "string"},
          "matchScore": {"$ref": "#/definitions/score"},
          "requiredSkills": {"$ref": "#/definitions/strings"},
          "companies": {"$ref": "#/definitions/strings"}
        }
      }
    },
    "skillAnalysis": {
      "type": "object",
      "properties": {
        "currentStrengths": {"$ref": "#/definitions/strings"},
        "transferableSkills": {"$ref": "#/definitions/strings"},
        "skillGaps": {"$ref": "#/definitions/strings"},
        "prioritySkills": {"type": "array", "items": {"type": "object"}}
      }
    },
    "marketAnalysis": {
      "type": "object",
      "properties": {
        "industryTrends": {"$ref": "#/definitions/strings"},
        "opportunityAreas": {"$ref": "#/definitions/strings"},
        "geographicHotspots": {"$ref": "#/definitions/strings"}
      }
    },
    "actionPlan": {
      "type": "object",
      "properties": {
        "immediate": {"$ref": "#/definitions/steps"},
        "shortTerm": {"$ref": "#/definitions/steps"},
        "longTerm": {"$ref": "#/definitions/steps"}
      }
    },
    "personalityInsights": {"type": "object"},
    "networkingStrategy": {"type": "object"},
    "compensationGuidance": {"type": "object"}
  }
}`)

// ReportRequestSchema guards POST /api/reports bodies.
var ReportRequestSchema = NewSchema("report request", `{
  "type": "object",
  "required": ["userId", "reportData"],
  "properties": {
    "userId": {"type": "string", "minLength": 1},
    "reportType": {"type": "string", "minLength": 1, "maxLength": 64},
    "reportData": {"type": "object"}
  }
}`)

// AnalyzeRequestSchema guards POST /analyze bodies.
var AnalyzeRequestSchema = NewSchema("analyze request", `{
  "type": "object",
  "required": ["responses"],
  "properties": {
    "ikigaiResponseId": {"type": ["string", "null"]},
    "responses": {
      "type": "object",
      "required": ["love", "goodAt", "paidFor", "worldNeeds"],
      "properties": {
        "love": {"type": "string", "minLength": 1},
        "goodAt": {"type": "string", "minLength": 1},
        "paidFor": {"type": "string", "minLength": 1},
        "worldNeeds": {"type": "string", "minLength": 1}
      }
    }
  }
}`)

// ResumeSchema accepts the structured resume shape; every leaf may be null.
var ResumeSchema = NewSchema("resume", `{
  "type": "object",
  "definitions": {
    "text": {"type": ["string", "null"]},
    "texts": {"type": ["array", "null"], "items": {"type": ["string", "null"]}}
  },
  "properties": {
    "personal_info": {
      "type": ["object", "null"],
      "properties": {
        "name": {"$ref": "#/definitions/text"},
        "title": {"$ref": "#/definitions/text"},
        "linkedin_url": {"$ref": "#/definitions/text"},
        "email": {"$ref": "#/definitions/text"},
        "phone": {"$ref": "#/definitions/text"},
        "location": {"$ref": "#/definitions/text"}
      }
    },
    "professional_experience": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "company": {"$ref": "#/definitions/text"},
          "location": {"$ref": "#/definitions/text"},
          "role": {"$ref": "#/definitions/text"},
          "start_date": {"$ref": "#/definitions/text"},
          "end_date": {"$ref": "#/definitions/text"},
          "responsibilities": {"$ref": "#/definitions/texts"}
        }
      }
    },
    "education": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "institution": {"$ref": "#/definitions/text"},
          "location": {"$ref": "#/definitions/text"},
          "degree": {"$ref": "#/definitions/text"},
          "start_date": {"$ref": "#/definitions/text"},
          "end_date": {"$ref": "#/definitions/text"}
        }
      }
    },
    "technical_skills": {
      "type": ["object", "null"],
      "properties": {
        "technical_skills": {"$ref": "#/definitions/texts"},
        "frameworks_libraries": {"$ref": "#/definitions/texts"},
        "tools": {"$ref": "#/definitions/texts"}
      }
    },
    "additional_information": {"$ref": "#/definitions/texts"},
    "projects": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "project_name": {"$ref": "#/definitions/text"},
          "description": {"$ref": "#/definitions/text"},
          "tech_stack": {"$ref": "#/definitions/texts"}
        }
      }
    }
  }
}`)
