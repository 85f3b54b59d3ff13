package maitre

import (
	"fmt"
	"strings"

	"metria/internal/models"
)

const menuHeader = "CARDÁPIO DISPONÍVEL:"

// addItemInstruction is a functional contract with the client app: the front
// end never parses replies for actions, so the assistant must steer the
// customer to the menu button with exactly this call to action.
const addItemInstruction = `IMPORTANTE: Quando o cliente quiser adicionar um item ao pedido, responda: "Ótima escolha! Para adicionar [NOME DO PRATO] ao seu pedido, clique no botão 'Adicionar ao Prato' na tela do cardápio."`

const (
	firstMessageNote        = "Contexto: esta é a primeira mensagem da conversa."
	continuationNote        = "Contexto: a conversa já está em andamento."
	firstMessageInstruction = "Esta é a primeira mensagem da conversa: apresente-se educadamente e ofereça ajuda."
	continuationInstruction = "Responda diretamente à pergunta sem se apresentar novamente."
)

// ComposePrompt builds the system prompt for one chat turn. It is a pure
// function of its inputs and is rebuilt fully on every turn.
func ComposePrompt(customPrompt string, menu []models.MenuItem, restaurantName string, isFirstMessage bool) string {
	menuContext := formatMenu(menu)

	if custom := strings.TrimSpace(customPrompt); custom != "" {
		note := continuationNote
		if isFirstMessage {
			note = firstMessageNote
		}
		return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", custom, menuHeader, menuContext, note)
	}

	intro := continuationInstruction
	if isFirstMessage {
		intro = firstMessageInstruction
	}
	return fmt.Sprintf(`Você é o assistente virtual do restaurante %s.

%s

%s
%s

SUAS FUNÇÕES:
- Recomendar pratos baseado no gosto do cliente
- Explicar ingredientes e preparos
- Sugerir combinações
- Tirar dúvidas sobre o cardápio
- Ser cordial e prestativo

%s

Use emojis moderadamente e seja natural na conversa.`,
		restaurantName, intro, menuHeader, menuContext, addItemInstruction)
}

func formatMenu(menu []models.MenuItem) string {
	lines := make([]string, 0, len(menu))
	for _, item := range menu {
		lines = append(lines, fmt.Sprintf("%s - R$ %.2f - %s (Categoria: %s)",
			item.Name, item.Price, item.Description, item.Category))
	}
	return strings.Join(lines, "\n")
}
