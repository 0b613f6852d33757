package sitesmith

// Step identifies one named phase of the server-side generation pipeline.
type Step string

const (
	StepBusinessGathering Step = "business_gathering"
	StepPlanning          Step = "planning"
	StepImageDescription  Step = "image_description"
	StepImageGeneration   Step = "image_generation"
	StepHTMLGeneration    Step = "html_generation"
	StepHTMLValidation    Step = "html_validation"
	StepFileStorage       Step = "file_storage"
	StepComplete          Step = "complete"
)

// Stage pairs a Step with its human label and display-progress range.
// Ranges across the catalogue are non-overlapping and strictly
// increasing; StepComplete ends at 100.
type Stage struct {
	Step  Step
	Label string
	Start float64
	End   float64
}

// stages is the fixed, ordered pipeline catalogue.
var stages = []Stage{
	{StepBusinessGathering, "Understanding your business", 0, 10},
	{StepPlanning, "Planning your website", 10, 25},
	{StepImageDescription, "Describing imagery", 25, 35},
	{StepImageGeneration, "Generating images", 35, 55},
	{StepHTMLGeneration, "Generating pages", 55, 80},
	{StepHTMLValidation, "Validating pages", 80, 90},
	{StepFileStorage, "Saving files", 90, 98},
	{StepComplete, "Complete", 98, 100},
}

// Stages returns the ordered pipeline stage catalogue.
func Stages() []Stage {
	out := make([]Stage, len(stages))
	copy(out, stages)
	return out
}

// StageFor looks up the stage for a step. Unknown steps report ok=false;
// the server may introduce steps this client does not render.
func StageFor(step Step) (Stage, bool) {
	for _, s := range stages {
		if s.Step == step {
			return s, true
		}
	}
	return Stage{}, false
}
