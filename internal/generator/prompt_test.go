package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cvlab-ar/cvgen-service/internal/queue"
	"github.com/cvlab-ar/cvgen-service/internal/submission"
)

func TestBuildPrompt_SectionDispatch(t *testing.T) {
	sub := testSubmission()

	tests := []struct {
		name     string
		section  queue.Section
		contains []string
	}{
		{
			name:     "resumen",
			section:  queue.SectionResumen,
			contains: []string{"RESUMEN PROFESIONAL", "Ana García", "Go, PostgreSQL"},
		},
		{
			name:     "experiencia",
			section:  queue.SectionExperiencia,
			contains: []string{"EXPERIENCIA LABORAL DEL CANDIDATO", "Ingeniera en Sistemas", "EXACTAMENTE 5 tareas"},
		},
		{
			name:     "educacion",
			section:  queue.SectionEducacion,
			contains: []string{"EDUCACIÓN DEL CANDIDATO", "Lic. en Sistemas"},
		},
		{
			name:     "habilidades",
			section:  queue.SectionHabilidades,
			contains: []string{"HABILIDADES DEL CANDIDATO", "Go, PostgreSQL", "Comunicación"},
		},
		{
			name:     "all",
			section:  queue.SectionAll,
			contains: []string{"DATOS COMPLETOS DEL CANDIDATO", "ana@example.com", "CV completo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildPrompt(sub, tt.section)
			for _, fragment := range tt.contains {
				assert.Contains(t, prompt, fragment)
			}
		})
	}
}

func TestBuildPrompt_MissingFieldsUseDefaults(t *testing.T) {
	sub := &submission.Submission{
		ID:       "sub-2",
		FullName: "Juan Pérez",
	}

	prompt := BuildPrompt(sub, queue.SectionAll)
	assert.Contains(t, prompt, "No especificada")
	assert.Contains(t, prompt, "No especificadas")
	assert.Contains(t, prompt, "No especificados")

	prompt = BuildPrompt(sub, queue.SectionHabilidades)
	assert.Contains(t, prompt, "No especificadas")
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	sub := testSubmission()

	first := BuildPrompt(sub, queue.SectionResumen)
	second := BuildPrompt(sub, queue.SectionResumen)
	assert.Equal(t, first, second)
}
