// internal/workers/career-analysis/generate-analysis/prompt.go
package generateanalysis

import (
	"fmt"
	"strings"

	"github.com/Bhardwaj-Devesh/ikigai-career-builder/internal/models"
)

const (
	SystemPrompt = `You are an expert career analyst and executive coach.
Always respond with strictly valid JSON. Do not include markdown (like triple backticks), explanations, or comments.
Only respond with a single JSON object as output.`

	// StrictSystemPrompt is sent with the reformulated request after a reply failed to parse.
	StrictSystemPrompt = SystemPrompt + `
Make sure all JSON syntax is valid (no trailing commas, properly quoted keys, correct data types).

Example of valid response format:
{
  "executiveSummary": "A compelling summary",
  "ikigaiAlignment": {
    "passionScore": 85,
    "missionScore": 90
  }
}`

	RetryInstruction = "Please provide the career analysis in valid JSON format only."
)

const analysisStructure = `{
  "executiveSummary": "A compelling 4-5 sentence summary highlighting their unique value proposition and career potential. Make it inspiring and specific.",
  "ikigaiAlignment": {
    "passionScore": (0-100),
    "missionScore": (0-100),
    "vocationScore": (0-100),
    "professionScore": (0-100),
    "overallAlignment": (0-100),
    "strengthAreas": ["area1", "area2", "area3"],
    "improvementAreas": ["area1", "area2"]
  },
  "careerRecommendations": [
    {
      "title": "Specific Job Title",
      "description": "Detailed 3-4 sentence description of role and daily activities",
      "matchScore": (0-100),
      "industry": "Specific industry name",
      "salaryRange": "$X - $Y (realistic current market rates)",
      "growthProjection": "High/Medium/Low with specific % if available",
      "requiredSkills": ["skill1", "skill2", "skill3"],
      "timeToEntry": "X months/years with specific pathway",
      "companies": ["Company1", "Company2", "Company3"],
      "remoteOptions": "High/Medium/Low"
    }
  ],
  "skillAnalysis": {
    "currentStrengths": ["strength1", "strength2", "strength3"],
    "transferableSkills": ["skill1", "skill2", "skill3"],
    "skillGaps": ["gap1", "gap2", "gap3"],
    "prioritySkills": [
      {
        "skill": "Specific skill name",
        "importance": "Critical/High/Medium",
        "timeToLearn": "X months",
        "learningPath": "Specific courses, certifications, or methods",
        "cost": "$X or Free"
      }
    ]
  },
  "marketAnalysis": {
    "industryTrends": ["trend1 with specific data", "trend2 with growth %"],
    "opportunityAreas": ["emerging area1", "growing sector2"],
    "competitorAnalysis": "Specific insights about competition and differentiation strategies",
    "demandForecast": "Detailed forecast with specific projections for next 3-5 years",
    "salaryTrends": "Current and projected salary movements",
    "geographicHotspots": ["City1", "City2", "Remote"]
  },
  "actionPlan": {
    "immediate": [
      {"action": "Very specific actionable step", "timeline": "X weeks", "priority": "Critical/High/Medium", "resources": ["resource1", "resource2"]}
    ],
    "shortTerm": [
      {"action": "Specific 3-6 month goal", "timeline": "X months", "priority": "Critical/High/Medium", "milestones": ["milestone1", "milestone2"]}
    ],
    "longTerm": [
      {"action": "Specific 1-3 year strategic goal", "timeline": "X years", "priority": "High/Medium", "successMetrics": ["metric1", "metric2"]}
    ]
  },
  "personalityInsights": {
    "workStyle": "Detailed description of optimal work environment and style",
    "motivationFactors": ["intrinsic motivator1", "extrinsic motivator2"],
    "potentialChallenges": ["challenge1 with mitigation", "challenge2 with solution"],
    "idealWorkEnvironment": "Specific environment description",
    "leadershipStyle": "Natural leadership approach",
    "communicationPreferences": "Optimal communication methods"
  },
  "networkingStrategy": {
    "targetConnections": ["specific role1", "industry expert2", "mentor type3"],
    "platforms": ["LinkedIn with strategy", "platform2", "industry forum3"],
    "events": ["conference type1", "meetup type2", "workshop type3"],
    "contentStrategy": "Specific content creation recommendations",
    "mentorshipPlan": "How to find and approach mentors"
  },
  "compensationGuidance": {
    "negotiationStrategies": ["strategy1", "strategy2"],
    "benefitsToConsider": ["benefit1", "benefit2", "benefit3"],
    "equityConsiderations": "Advice on equity vs salary",
    "careerProgression": "Typical progression path and timeline"
  }
}`

// BuildPrompt embeds the four answers verbatim in the analysis request.
func BuildPrompt(r models.Responses) string {
	var parts []string

	parts = append(parts, "You are a team of world-class career analysts, executive coaches, and industry researchers with 20+ years of experience. Analyze the following Ikigai responses and create a comprehensive, actionable career analysis.")

	parts = append(parts, "\nIKIGAI RESPONSES:")
	parts = append(parts, fmt.Sprintf("- What they LOVE: %s", r.Love))
	parts = append(parts, fmt.Sprintf("- What they're GOOD AT: %s", r.GoodAt))
	parts = append(parts, fmt.Sprintf("- What they can be PAID FOR: %s", r.PaidFor))
	parts = append(parts, fmt.Sprintf("- What the world NEEDS: %s", r.WorldNeeds))

	parts = append(parts, "\nProvide a detailed analysis in JSON format with this exact structure:")
	parts = append(parts, analysisStructure)

	parts = append(parts, "\nConstraints:")
	parts = append(parts, "- Respond with a single JSON object and nothing else")
	parts = append(parts, "- No markdown, no code fences, no commentary")
	parts = append(parts, "- Scores are integers between 0 and 100")
	parts = append(parts, "- Be specific with numbers, companies, and actionable advice, personalized to the responses above")

	return strings.Join(parts, "\n")
}
