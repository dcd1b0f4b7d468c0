// Package guidance defines the structured clinical-guidance object
// produced by symptom analysis. The JSON field names are the wire
// contract shared by the AI provider response and the static fallback.
package guidance

// Probability tiers for differential diagnosis entries.
const (
	ProbabilityHigh     = "High"
	ProbabilityModerate = "Moderate"
	ProbabilityLow      = "Low"
)

// Severity levels.
const (
	SeverityMild     = "Mild"
	SeverityModerate = "Moderate"
	SeveritySevere   = "Severe"
)

// Diagnosis is one differential-diagnosis candidate.
type Diagnosis struct {
	Condition   string `json:"condition"`
	Probability string `json:"probability"`
	Explanation string `json:"explanation"`
}

// Severity is the overall severity assessment.
type Severity struct {
	Level           string   `json:"level"`
	EmergencyRisk   bool     `json:"emergencyRisk"`
	RedFlagSymptoms []string `json:"redFlagSymptoms"`
}

// Medication is a safe over-the-counter medication suggestion with full
// dosing and contraindication details.
type Medication struct {
	GenericName       string `json:"genericName"`
	BrandName         string `json:"brandName"`
	StandardDose      string `json:"standardDose"`
	Frequency         string `json:"frequency"`
	MaxDailyDose      string `json:"maxDailyDose"`
	Contraindications string `json:"contraindications"`
	SideEffects       string `json:"sideEffects"`
	AvoidIf           string `json:"avoidIf"`
}

// ImmediateCare holds home-care advice and OTC options.
type ImmediateCare struct {
	LifestyleRemedies []string     `json:"lifestyleRemedies"`
	OTCMedications    []Medication `json:"otcMedications"`
}

// Test is a recommended diagnostic test with its reason.
type Test struct {
	TestName string `json:"testName"`
	Reason   string `json:"reason"`
}

// Guidance is the complete clinical-guidance object.
type Guidance struct {
	ChiefComplaint        string        `json:"chiefComplaint"`
	DifferentialDiagnosis []Diagnosis   `json:"differentialDiagnosis"`
	SeverityAssessment    Severity      `json:"severityAssessment"`
	ImmediateCare         ImmediateCare `json:"immediateCare"`
	RecommendedTests      []Test        `json:"recommendedTests"`
	EmergencySigns        []string      `json:"emergencySigns"`
	PreventiveAdvice      []string      `json:"preventiveAdvice"`
	Specialist            string        `json:"specialist"`
	ConsultationReason    string        `json:"consultationReason"`
	Confidence            int           `json:"confidence"`
}
