package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractPlaceholders(t *testing.T) {
	content := `PROCURAÇÃO

Outorgante: {{client.name}}, CPF {{client.cpf_cnpj}}.
Outorgado: {{lawyer.name}}, {{lawyer.oab}}.
Eu, {{client.name}}, nomeio o outorgado acima.`

	vars := ExtractPlaceholders(content)
	assert.Equal(t, []string{"client.cpf_cnpj", "client.name", "lawyer.name", "lawyer.oab"}, vars)
}

func TestExtractPlaceholdersNone(t *testing.T) {
	assert.Nil(t, ExtractPlaceholders("plain text without variables"))
	// Malformed or spaced braces are not placeholders.
	assert.Nil(t, ExtractPlaceholders("{{ spaced }} {{unclosed {single}"))
}

func TestRenderTemplateFillsValues(t *testing.T) {
	content := "Cliente {{client.name}}, processo {{case.number}}."
	rendered, missing := RenderTemplate(content, map[string]string{
		"client.name": "Maria Souza",
		"case.number": "0001234-56.2026.8.26.0100",
	})

	assert.Equal(t, "Cliente Maria Souza, processo 0001234-56.2026.8.26.0100.", rendered)
	assert.Empty(t, missing)
}

func TestRenderTemplateReportsMissing(t *testing.T) {
	content := "{{a}} {{b}} {{a}}"
	rendered, missing := RenderTemplate(content, map[string]string{"a": "x"})

	assert.Equal(t, "x {{b}} x", rendered)
	assert.Equal(t, []string{"b"}, missing)
}
