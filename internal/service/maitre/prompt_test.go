package maitre

import (
	"strings"
	"testing"

	"metria/internal/models"
)

var promptMenu = []models.MenuItem{
	{Name: "Salada Caesar", Price: 22.50, Description: "Alface romana com molho caesar", Category: "Saladas"},
	{Name: "Filé Mignon", Price: 89.90, Description: "Filé ao molho madeira", Category: "Pratos Principais"},
}

func TestComposePromptDefaultTemplate(t *testing.T) {
	prompt := ComposePrompt("", promptMenu, "Cantina da Nonna", true)

	if !strings.Contains(prompt, "Você é o assistente virtual do restaurante Cantina da Nonna.") {
		t.Fatalf("default template missing restaurant name:\n%s", prompt)
	}
	if !strings.Contains(prompt, firstMessageInstruction) {
		t.Fatalf("first-message prompt missing introduction instruction")
	}
	if !strings.Contains(prompt, "Salada Caesar - R$ 22.50 - Alface romana com molho caesar (Categoria: Saladas)") {
		t.Fatalf("menu line not formatted as expected:\n%s", prompt)
	}
	if !strings.Contains(prompt, addItemInstruction) {
		t.Fatalf("add-item call to action missing from default template")
	}
	if !strings.Contains(prompt, "SUAS FUNÇÕES:") {
		t.Fatalf("function list missing from default template")
	}
}

func TestComposePromptContinuationSkipsIntroduction(t *testing.T) {
	prompt := ComposePrompt("", promptMenu, "Cantina da Nonna", false)

	if strings.Contains(prompt, firstMessageInstruction) {
		t.Fatalf("continuation prompt should not reintroduce the assistant")
	}
	if !strings.Contains(prompt, continuationInstruction) {
		t.Fatalf("continuation instruction missing")
	}
}

func TestComposePromptCustomBranch(t *testing.T) {
	custom := "Você é o sommelier da casa. Fale apenas de vinhos."
	prompt := ComposePrompt(custom, promptMenu, "Cantina da Nonna", true)

	if !strings.HasPrefix(prompt, custom) {
		t.Fatalf("custom prompt must lead the composed prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, menuHeader) {
		t.Fatalf("custom branch must still carry the menu")
	}
	if !strings.Contains(prompt, firstMessageNote) {
		t.Fatalf("custom branch missing first-message context note")
	}
	if strings.Contains(prompt, "SUAS FUNÇÕES:") {
		t.Fatalf("custom branch must replace the default template body")
	}

	followUp := ComposePrompt(custom, promptMenu, "Cantina da Nonna", false)
	if !strings.Contains(followUp, continuationNote) {
		t.Fatalf("custom branch missing continuation context note")
	}
}

func TestComposePromptWhitespaceCustomFallsBackToDefault(t *testing.T) {
	prompt := ComposePrompt("   \n\t ", promptMenu, "Cantina da Nonna", true)
	if !strings.Contains(prompt, "SUAS FUNÇÕES:") {
		t.Fatalf("whitespace-only custom prompt should use the default template")
	}
}

func TestComposePromptIsDeterministic(t *testing.T) {
	a := ComposePrompt("", promptMenu, "Cantina da Nonna", true)
	b := ComposePrompt("", promptMenu, "Cantina da Nonna", true)
	if a != b {
		t.Fatalf("prompt composition must be deterministic")
	}
}

func TestComposePromptEmptyMenu(t *testing.T) {
	prompt := ComposePrompt("", nil, "Cantina da Nonna", true)
	if !strings.Contains(prompt, menuHeader) {
		t.Fatalf("menu header should appear even for an empty menu")
	}
}
