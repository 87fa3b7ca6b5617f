// Package testfixtures holds model outputs shared by package tests.
package testfixtures

// AnalysisJSON is a complete, schema-valid career analysis.
const AnalysisJSON = `{
  "executiveSummary": "A systems thinker who turns messy data into decisions.",
  "ikigaiAlignment": {
    "passionScore": 85,
    "missionScore": 78,
    "vocationScore": 90,
    "professionScore": 72,
    "overallAlignment": 81,
    "strengthAreas": ["Analytical thinking", "Teaching"],
    "improvementAreas": ["Public speaking"]
  },
  "careerRecommendations": [
    {
      "title": "Data Engineer",
      "description": "Builds pipelines that feed analytics teams.",
      "matchScore": 88,
      "industry": "Technology",
      "salaryRange": "$110,000 - $150,000",
      "growthProjection": "High",
      "requiredSkills": ["SQL", "Go"],
      "timeToEntry": "6 months",
      "companies": ["Acme"],
      "remoteOptions": "High"
    }
  ],
  "skillAnalysis": {
    "currentStrengths": ["Problem solving"],
    "transferableSkills": ["Mentoring"],
    "skillGaps": ["Cloud infrastructure"],
    "prioritySkills": [{"skill": "Kubernetes", "importance": "High", "timeToLearn": "3 months", "learningPath": "CKAD", "cost": "$300"}]
  },
  "marketAnalysis": {
    "industryTrends": ["Data platform consolidation"],
    "opportunityAreas": ["Climate analytics"],
    "competitorAnalysis": "Differentiate on domain knowledge.",
    "demandForecast": "Steady growth",
    "salaryTrends": "Rising",
    "geographicHotspots": ["Remote"]
  },
  "actionPlan": {
    "immediate": [{"action": "Publish a portfolio project", "timeline": "2 weeks", "priority": "High", "resources": ["GitHub"]}],
    "shortTerm": [{"action": "Earn a cloud certification", "timeline": "4 months", "priority": "Medium", "milestones": ["Pass exam"]}],
    "longTerm": [{"action": "Lead a data team", "timeline": "2 years", "priority": "High", "successMetrics": ["Team of 4"]}]
  },
  "personalityInsights": {"workStyle": "Deep focus", "motivationFactors": ["Impact"]},
  "networkingStrategy": {"targetConnections": ["Staff engineers"], "platforms": ["LinkedIn"]},
  "compensationGuidance": {"negotiationStrategies": ["Anchor high"], "benefitsToConsider": ["Learning budget"]}
}`

// ResumeJSON is a structured resume as returned by the extraction model.
const ResumeJSON = `{
  "personal_info": {"name": "Ada Lovelace", "title": "Engineer", "linkedin_url": null, "email": "ada@example.com", "phone": null, "location": "London"},
  "professional_experience": [{"company": "Analytical Engines", "location": null, "role": "Programmer", "start_date": "1842", "end_date": null, "responsibilities": ["Wrote the first algorithm"]}],
  "education": [],
  "technical_skills": {"technical_skills": ["Mathematics"], "frameworks_libraries": null, "tools": null},
  "additional_information": null,
  "projects": [{"project_name": "Note G", "description": "Bernoulli numbers", "tech_stack": ["Punch cards"]}]
}`
