package core

// Question is one step of the conversational intake form.
type Question struct {
	Key         string `json:"key"`
	Text        string `json:"text"`
	Conditional bool   `json:"conditional,omitempty"`
	DependsOn   string `json:"depends_on,omitempty"`
	ShowIf      string `json:"show_if,omitempty"`
}

// Questions is the intake flow in the order it is asked. Pregnancy history
// is only asked when gender is Female.
var Questions = []Question{
	{Key: "gender", Text: "First, what is your gender? (Male/Female)"},
	{Key: "age", Text: "What is your age?"},
	{Key: "pregnancies", Text: "How many times have you been pregnant?", Conditional: true, DependsOn: "gender", ShowIf: "Female"},
	{Key: "glucose", Text: "What is your Plasma Glucose concentration (mg/dl)?"},
	{Key: "bp", Text: "What is your Diastolic Blood Pressure (mm Hg)?"},
	{Key: "skin", Text: "What is your Triceps Skinfold Thickness (mm)?"},
	{Key: "insulin", Text: "What is your 2-Hour Serum Insulin (mu U/ml)?"},
	{Key: "bmi", Text: "What is your Body Mass Index (BMI)?"},
	{Key: "dpf", Text: "What is your Diabetes Pedigree Function value?"},
}

// Fixed bot lines framing every transcript.
const (
	GreetingMessage   = "Hello! I am MedAI, your personalised medical diagnosis agent designed to assist with preliminary diabetes diagnosis."
	DisclaimerMessage = "⚠️ Disclaimer: I am not a real doctor. This is an educational project. Please consult a medical professional for any health concerns."
	AnalyzingMessage  = "Thank you. Analyzing your data now..."
	ClosingDisclaimer = "This is an educational project. Please consult a real doctor for any health concerns."
)
