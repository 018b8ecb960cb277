package generator

import (
	"fmt"
	"strings"

	"github.com/cvlab-ar/cvgen-service/internal/queue"
	"github.com/cvlab-ar/cvgen-service/internal/submission"
)

// BuildPrompt selects the prompt template for the requested section and
// interpolates the submission data into it. Section values are a closed
// enum, so every case is covered; SectionAll produces the full-CV prompt.
func BuildPrompt(sub *submission.Submission, section queue.Section) string {
	switch section {
	case queue.SectionResumen:
		return buildResumenPrompt(sub)
	case queue.SectionExperiencia:
		return buildExperienciaPrompt(sub)
	case queue.SectionEducacion:
		return buildEducacionPrompt(sub)
	case queue.SectionHabilidades:
		return buildHabilidadesPrompt(sub)
	default:
		return buildFullCVPrompt(sub)
	}
}

func joinOrDefault(values []string, def string) string {
	if len(values) == 0 {
		return def
	}
	return strings.Join(values, ", ")
}

func orDefault(value, def string) string {
	if value == "" {
		return def
	}
	return value
}

func buildResumenPrompt(sub *submission.Submission) string {
	return fmt.Sprintf(`Eres un experto en redacción de CVs modernos para el mercado laboral de 2026 en Argentina y Latinoamérica.

DATOS DEL CANDIDATO:
- Nombre: %s
- Experiencia: %s
- Educación: %s
- Habilidades Técnicas: %s
- Habilidades Blandas: %s

TAREA: Genera un RESUMEN PROFESIONAL de 3-4 oraciones que:
1. Sea impactante y moderno (estilo 2026)
2. Destaque logros cuantificables si los hay
3. Use verbos de acción poderosos
4. Sea conciso y directo
5. Refleje las tendencias actuales del mercado laboral

FORMATO: Solo texto plano, sin encabezados ni bullets. El resumen debe poder pegarse directamente en un CV.`,
		sub.FullName,
		sub.Experience,
		sub.Education,
		joinOrDefault(sub.HardSkills, "No especificadas"),
		joinOrDefault(sub.SoftSkills, "No especificadas"),
	)
}

func buildExperienciaPrompt(sub *submission.Submission) string {
	return fmt.Sprintf(`Eres un experto en redacción de CVs modernos para 2026.

EXPERIENCIA LABORAL DEL CANDIDATO (texto original):
%s

TAREA: Reescribe cada experiencia laboral siguiendo este formato moderno:

PUESTO | EMPRESA
Período: [fechas]
Ubicación: [ciudad/remoto]

• [Tarea 1]
• [Tarea 2]
• [Tarea 3]
• [Tarea 4]
• [Tarea 5]

REGLAS ESTRICTAS:
1. EXACTAMENTE 5 tareas/logros por cada puesto (ni más ni menos)
2. MÁXIMO 7-8 palabras por tarea (ser ultra conciso)
3. Las tareas DEBEN ser específicas y relevantes al puesto exacto mencionado
4. NO inventes tareas genéricas - usa el contexto del puesto para crear tareas realistas
5. Usa verbos de acción en pasado (Diseñé, Desarrollé, Gestioné, Lideré, Optimicé)
6. Cuantifica cuando sea posible (%%, números, métricas)
7. Cada tarea debe ser impactante pero brevísima

Genera el texto listo para copiar y pegar en un CV.`,
		sub.Experience,
	)
}

func buildEducacionPrompt(sub *submission.Submission) string {
	return fmt.Sprintf(`Eres un experto en redacción de CVs modernos.

EDUCACIÓN DEL CANDIDATO:
%s

TAREA: Formatea la educación de manera profesional:

TÍTULO | INSTITUCIÓN
Año de graduación: [año]
[Menciones relevantes si las hay]

REGLAS:
1. Ordena de más reciente a más antiguo
2. Incluye el estado (En curso, Graduado, Incompleto)
3. Destaca logros académicos relevantes
4. Formato limpio y consistente

Genera el texto listo para copiar y pegar.`,
		sub.Education,
	)
}

func buildHabilidadesPrompt(sub *submission.Submission) string {
	return fmt.Sprintf(`Eres un experto en CVs modernos 2026.

HABILIDADES DEL CANDIDATO:
- Técnicas (Hard Skills): %s
- Blandas (Soft Skills): %s

TAREA: Organiza las habilidades de forma moderna y atractiva:

HABILIDADES TÉCNICAS
• [Habilidad 1] - [Nivel o contexto breve]
• [Habilidad 2] - [Nivel o contexto breve]

HABILIDADES BLANDAS
• [Habilidad 1] - [Ejemplo breve de aplicación]
• [Habilidad 2] - [Ejemplo breve de aplicación]

REGLAS:
1. Prioriza las más relevantes para el mercado 2026
2. Agrupa por categorías si tiene sentido
3. Añade contexto donde sea útil
4. Usa terminología moderna

Genera el texto listo para copiar y pegar.`,
		joinOrDefault(sub.HardSkills, "No especificadas"),
		joinOrDefault(sub.SoftSkills, "No especificadas"),
	)
}

func buildFullCVPrompt(sub *submission.Submission) string {
	return fmt.Sprintf(`Eres un experto en redacción de CVs profesionales modernos para el mercado laboral de 2026 en Argentina y Latinoamérica.

DATOS COMPLETOS DEL CANDIDATO:

DATOS PERSONALES:
- Nombre completo: %s
- Email: %s
- Teléfono: %s
- Ubicación: %s
- LinkedIn: %s

EXPERIENCIA LABORAL:
%s

EDUCACIÓN:
%s

HABILIDADES TÉCNICAS:
%s

HABILIDADES BLANDAS:
%s

IDIOMAS:
%s

TAREA: Genera un CV completo y profesional con las siguientes secciones:

1. RESUMEN PROFESIONAL (3-4 oraciones impactantes)

2. EXPERIENCIA LABORAL (formato moderno con bullets y logros cuantificables)

3. EDUCACIÓN (formateada profesionalmente)

4. HABILIDADES (organizadas y con contexto)

5. IDIOMAS (si aplica)

REGLAS:
1. Estilo moderno y directo para 2026
2. Verbos de acción poderosos
3. Logros cuantificables cuando sea posible
4. Texto listo para copiar y pegar
5. Conciso pero completo
6. Adaptado al mercado argentino/latinoamericano

Genera el contenido completo formateado para un CV profesional.`,
		sub.FullName,
		sub.Email,
		sub.Phone,
		orDefault(sub.City, "No especificada"),
		orDefault(sub.LinkedIn, "No especificado"),
		sub.Experience,
		sub.Education,
		joinOrDefault(sub.HardSkills, "No especificadas"),
		joinOrDefault(sub.SoftSkills, "No especificadas"),
		orDefault(sub.Languages, "No especificados"),
	)
}
