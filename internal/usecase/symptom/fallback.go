package symptom

import (
	"strings"

	"github.com/healthagg/healthagg/internal/domain/guidance"
)

// fallbackEntry pairs a condition keyword with its curated template.
// Matching is ordered first-hit substring containment over the lowered
// symptom text.
type fallbackEntry struct {
	keyword  string
	guidance guidance.Guidance
}

// matchFallback returns the first template whose keyword appears in the
// symptom text, or the generic default.
func matchFallback(symptoms string) guidance.Guidance {
	lower := strings.ToLower(symptoms)
	for _, e := range fallbackDatabase {
		if strings.Contains(lower, e.keyword) {
			return e.guidance
		}
	}
	return defaultGuidance
}

// fallbackDatabase is the curated clinical lookup used when the AI
// provider is unavailable. Confidence values are fixed per template.
var fallbackDatabase = []fallbackEntry{
	{
		keyword: "headache",
		guidance: guidance.Guidance{
			ChiefComplaint: "Patient reports headache symptoms requiring clinical evaluation.",
			DifferentialDiagnosis: []guidance.Diagnosis{
				{
					Condition:   "Tension-type Headache",
					Probability: guidance.ProbabilityHigh,
					Explanation: "Most common type caused by muscle tension in neck and scalp, often stress-related.",
				},
				{
					Condition:   "Migraine",
					Probability: guidance.ProbabilityModerate,
					Explanation: "Neurovascular disorder with throbbing pain, often unilateral, with photophobia and nausea.",
				},
				{
					Condition:   "Sinusitis-related Headache",
					Probability: guidance.ProbabilityLow,
					Explanation: "Pain and pressure in frontal/maxillary regions due to sinus inflammation.",
				},
			},
			SeverityAssessment: guidance.Severity{
				Level:         guidance.SeverityMild,
				EmergencyRisk: false,
				RedFlagSymptoms: []string{
					"Sudden thunderclap onset",
					"Fever with stiff neck",
					"Vision changes",
					"Worst headache of life",
					"Confusion or weakness",
				},
			},
			ImmediateCare: guidance.ImmediateCare{
				LifestyleRemedies: []string{
					"Rest in a dark, quiet room",
					"Apply cold or warm compress to forehead/neck",
					"Stay hydrated (8+ glasses of water daily)",
					"Practice relaxation techniques",
					"Maintain regular sleep schedule (7-8 hours)",
				},
				OTCMedications: []guidance.Medication{
					{
						GenericName:       "Paracetamol (Acetaminophen)",
						BrandName:         "Crocin / Dolo 650",
						StandardDose:      "500-650 mg",
						Frequency:         "Every 4-6 hours as needed",
						MaxDailyDose:      "3000 mg (3g)",
						Contraindications: "Liver disease, chronic alcohol use",
						SideEffects:       "Nausea, rash (rare)",
						AvoidIf:           "Liver impairment, allergy to paracetamol",
					},
					{
						GenericName:       "Ibuprofen",
						BrandName:         "Brufen / Advil",
						StandardDose:      "200-400 mg",
						Frequency:         "Every 6-8 hours with food",
						MaxDailyDose:      "1200 mg (OTC limit)",
						Contraindications: "Peptic ulcer, kidney disease, aspirin allergy",
						SideEffects:       "Stomach upset, dizziness, heartburn",
						AvoidIf:           "Pregnancy (3rd trimester), GI bleeding history, renal impairment",
					},
				},
			},
			RecommendedTests: []guidance.Test{
				{
					TestName: "Blood Pressure Measurement",
					Reason:   "Hypertension is a common but often overlooked cause of chronic headaches.",
				},
				{
					TestName: "Complete Blood Count (CBC)",
					Reason:   "To rule out anemia or infection contributing to headache.",
				},
				{
					TestName: "Eye Examination",
					Reason:   "Refractive errors and eye strain are frequent headache triggers.",
				},
			},
			EmergencySigns: []string{
				"Sudden, severe headache unlike any before (thunderclap)",
				"Headache with fever, stiff neck, rash, or confusion",
				"Headache after head injury",
				"Progressive worsening over days/weeks",
				"Neurological symptoms (weakness, numbness, speech difficulty, vision loss)",
			},
			PreventiveAdvice: []string{
				"Maintain consistent sleep schedule",
				"Manage stress through regular exercise",
				"Limit caffeine to 200mg/day",
				"Stay well-hydrated throughout the day",
				"Take regular screen breaks (20-20-20 rule)",
				"Maintain good posture especially during desk work",
			},
			Specialist: "General Physician / Neurologist",
			ConsultationReason: "A primary care physician can perform a comprehensive neurological assessment, " +
				"differentiate between tension headaches, migraines, and secondary causes, rule out serious " +
				"conditions, and coordinate imaging (CT/MRI) if needed.",
			Confidence: 85,
		},
	},
	{
		keyword: "fever",
		guidance: guidance.Guidance{
			ChiefComplaint: "Patient reports elevated body temperature (fever) requiring clinical assessment.",
			DifferentialDiagnosis: []guidance.Diagnosis{
				{
					Condition:   "Viral Upper Respiratory Infection",
					Probability: guidance.ProbabilityHigh,
					Explanation: "Most common cause of acute fever, typically self-limiting within 3-7 days.",
				},
				{
					Condition:   "Bacterial Infection",
					Probability: guidance.ProbabilityModerate,
					Explanation: "UTI, strep throat, or other bacterial source requiring targeted antibiotic therapy.",
				},
				{
					Condition:   "COVID-19 / Influenza",
					Probability: guidance.ProbabilityModerate,
					Explanation: "Respiratory viral infections with systemic symptoms.",
				},
			},
			SeverityAssessment: guidance.Severity{
				Level:         guidance.SeverityModerate,
				EmergencyRisk: false,
				RedFlagSymptoms: []string{
					"Temperature above 103F persisting >3 days",
					"Difficulty breathing or chest pain",
					"Severe headache with stiff neck",
					"Confusion or altered consciousness",
					"Persistent vomiting",
				},
			},
			ImmediateCare: guidance.ImmediateCare{
				LifestyleRemedies: []string{
					"Rest adequately to support immune function",
					"Drink plenty of fluids (water, ORS, clear broths)",
					"Wear light, breathable clothing",
					"Tepid sponging for comfort",
					"Monitor temperature every 4-6 hours",
				},
				OTCMedications: []guidance.Medication{
					{
						GenericName:       "Paracetamol (Acetaminophen)",
						BrandName:         "Crocin / Dolo 650",
						StandardDose:      "500-650 mg",
						Frequency:         "Every 4-6 hours as needed",
						MaxDailyDose:      "3000 mg (3g)",
						Contraindications: "Liver disease, chronic alcohol use",
						SideEffects:       "Nausea, allergic reaction (rare)",
						AvoidIf:           "Liver impairment, allergy to paracetamol",
					},
					{
						GenericName:       "Ibuprofen",
						BrandName:         "Brufen",
						StandardDose:      "200-400 mg",
						Frequency:         "Every 6-8 hours with food",
						MaxDailyDose:      "1200 mg (OTC limit)",
						Contraindications: "Peptic ulcer, kidney disease",
						SideEffects:       "GI discomfort, dizziness",
						AvoidIf:           "Dengue suspected (increases bleeding risk), renal impairment, pregnancy",
					},
				},
			},
			RecommendedTests: []guidance.Test{
				{
					TestName: "Complete Blood Count (CBC)",
					Reason:   "To differentiate viral vs bacterial infection and check for dengue/malaria markers.",
				},
				{
					TestName: "Blood Culture",
					Reason:   "If fever persists >5 days to identify bacteremia.",
				},
				{
					TestName: "Urine Routine & Culture",
					Reason:   "To rule out urinary tract infection as a fever source.",
				},
			},
			EmergencySigns: []string{
				"High fever (>103F) not responding to medication",
				"Breathing difficulty or chest pain",
				"Severe headache, stiff neck, or rash",
				"Confusion, drowsiness, or seizures",
				"Signs of dehydration",
			},
			PreventiveAdvice: []string{
				"Maintain hand hygiene",
				"Stay up to date with vaccinations",
				"Avoid close contact with sick individuals",
				"Maintain a balanced diet rich in vitamins C and D",
				"Ensure adequate sleep for immune health",
			},
			Specialist: "General Physician",
			ConsultationReason: "A physician evaluates the source of fever through history, physical examination, " +
				"and targeted diagnostics. They differentiate viral from bacterial causes and assess for " +
				"dangerous tropical infections common in India.",
			Confidence: 88,
		},
	},
}

// defaultGuidance is returned when no condition keyword matches.
var defaultGuidance = guidance.Guidance{
	ChiefComplaint: "Patient reports symptoms requiring clinical evaluation and professional assessment.",
	DifferentialDiagnosis: []guidance.Diagnosis{
		{
			Condition:   "Requires Clinical Evaluation",
			Probability: guidance.ProbabilityHigh,
			Explanation: "The described symptoms need in-person assessment for accurate differential diagnosis.",
		},
	},
	SeverityAssessment: guidance.Severity{
		Level:         guidance.SeverityModerate,
		EmergencyRisk: false,
		RedFlagSymptoms: []string{
			"Sudden onset of severe symptoms",
			"Difficulty breathing",
			"Chest pain",
			"Loss of consciousness",
			"Uncontrolled bleeding",
		},
	},
	ImmediateCare: guidance.ImmediateCare{
		LifestyleRemedies: []string{
			"Rest and monitor symptoms closely",
			"Stay well-hydrated",
			"Maintain a symptom diary",
			"Avoid self-medication without professional guidance",
			"Ensure adequate nutrition and sleep",
		},
		OTCMedications: []guidance.Medication{
			{
				GenericName:       "Paracetamol (Acetaminophen)",
				BrandName:         "Crocin / Dolo 650",
				StandardDose:      "500 mg",
				Frequency:         "Every 6 hours if needed for pain/fever",
				MaxDailyDose:      "3000 mg",
				Contraindications: "Liver disease",
				SideEffects:       "Nausea (rare)",
				AvoidIf:           "Known allergy, liver conditions",
			},
		},
	},
	RecommendedTests: []guidance.Test{
		{
			TestName: "Complete Physical Examination",
			Reason:   "Comprehensive in-person assessment is the gold standard for accurate diagnosis.",
		},
		{
			TestName: "Basic Blood Panel (CBC, CMP)",
			Reason:   "Provides baseline health markers to identify infections, metabolic issues, or organ dysfunction.",
		},
	},
	EmergencySigns: []string{
		"Sudden severe pain",
		"Difficulty breathing or chest tightness",
		"Loss of consciousness or confusion",
		"Uncontrolled bleeding or vomiting blood",
		"Signs of stroke (face drooping, arm weakness, speech difficulty)",
	},
	PreventiveAdvice: []string{
		"Schedule regular health checkups",
		"Maintain a balanced diet and regular exercise",
		"Manage stress through mindfulness practices",
		"Get adequate sleep (7-8 hours)",
		"Stay up to date with preventive screenings",
	},
	Specialist: "General Physician",
	ConsultationReason: "A primary care physician provides comprehensive initial evaluation, takes your full " +
		"medical history, performs a physical examination, and orders relevant diagnostic tests.",
	Confidence: 70,
}
