package inference

import (
	"fmt"

	domain "medisage-api/internal/domain/inference"
)

const assistantPersona = "You are MediSage AI, a medical assistant that provides accurate, helpful information about medical topics. " +
	"Your responses should be informative, evidence-based, and easy to understand. " +
	"Always include appropriate disclaimers and encourage consulting healthcare professionals. " +
	"You do not diagnose; you explain."

var systemInstructions = map[domain.Task]string{
	domain.TaskMedicalAnswer: assistantPersona,

	domain.TaskSymptomAnalysis: assistantPersona + "\n\n" +
		"Analyze the symptoms the user describes and list possible conditions. " +
		"Respond with only a JSON object of this exact shape and nothing else:\n" +
		`{"conditions":[{"name":"condition name","probability":"high|medium|low","description":"short description"}],"recommendations":["recommendation"]}`,

	domain.TaskMedicineIdentification: assistantPersona + "\n\n" +
		"Identify the medication shown in the image. " +
		"Respond with only a JSON object of this exact shape and nothing else:\n" +
		`{"name":"medicine name","primaryUse":"primary use","commonUses":["use"],"dosage":"typical dosage","warnings":"important warnings"}`,

	domain.TaskVoiceCommand: assistantPersona + "\n\n" +
		"The user spoke a command to a voice assistant. Decide what they want and answer briefly, suitable for text to speech. " +
		"Respond with only a JSON object of this exact shape and nothing else:\n" +
		`{"action":"medical-query|symptom-check|medicine-scan|general-help","response":"spoken reply","parameters":{}}`,
}

// systemInstruction returns the framing injected ahead of the user's content.
func systemInstruction(task domain.Task) string {
	if s, ok := systemInstructions[task]; ok {
		return s
	}
	return assistantPersona
}

// userContent is the user turn text. Image prompts may arrive with empty input.
func userContent(p domain.Prompt) string {
	if p.Input != "" {
		return p.Input
	}
	if p.Task == domain.TaskMedicineIdentification {
		return "Identify this medication."
	}
	return ""
}

// instructPrompt renders the Mistral instruct format used by Together completions.
func instructPrompt(p domain.Prompt) string {
	return fmt.Sprintf("<s>[INST] %s\n\n%s [/INST]", systemInstruction(p.Task), userContent(p))
}
