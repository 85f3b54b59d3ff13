package maitre

import (
	"context"
	"log"
	"sync"

	"metria/internal/llm"
	"metria/internal/models"

	"github.com/cloudwego/eino/schema"
)

// sendWindow caps how much stored history accompanies one completion call.
// Storage keeps historyCap messages; only the tail goes out per turn.
const sendWindow = 6

// FallbackReply is returned to the customer whenever the completion call
// fails. The exchange is not persisted in that case.
const FallbackReply = "Desculpe, estou com dificuldades técnicas no momento. Posso ajudá-lo de outra forma?"

const defaultRestaurantName = "MetrIA"

// PromptSource supplies the admin-configured maître prompt. Fetch failures
// degrade to the built-in template.
type PromptSource interface {
	CustomPrompt(ctx context.Context) (string, error)
}

// Manager orchestrates one chat exchange per call: history load, prompt
// composition, the completion call, and history append. Turns for the same
// session are serialized; distinct sessions proceed independently.
type Manager struct {
	store     SessionStore
	prompts   PromptSource
	completer llm.Completer

	mu    sync.Mutex
	turns map[string]*sync.Mutex
}

// NewManager wires the chat manager with its collaborators.
func NewManager(store SessionStore, prompts PromptSource, completer llm.Completer) *Manager {
	return &Manager{
		store:     store,
		prompts:   prompts,
		completer: completer,
		turns:     make(map[string]*sync.Mutex),
	}
}

// turnResult keeps the degradation reason visible to tests without leaking
// it past the public boundary.
type turnResult struct {
	reply    string
	degraded bool
	reason   error
}

// Chat runs one request/response exchange and returns the reply text. All
// upstream failures are absorbed into FallbackReply; the caller never sees
// an error for a normal turn.
func (m *Manager) Chat(ctx context.Context, sessionID, message string, menu []models.MenuItem, restaurantName string) string {
	lock := m.turnLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	res := m.turn(ctx, sessionID, message, menu, restaurantName)
	if res.degraded {
		log.Printf("maitre chat degraded for session %s: %v", sessionID, res.reason)
	}
	return res.reply
}

func (m *Manager) turn(ctx context.Context, sessionID, message string, menu []models.MenuItem, restaurantName string) turnResult {
	if restaurantName == "" {
		restaurantName = defaultRestaurantName
	}

	history := m.store.GetOrCreate(sessionID)
	isFirstMessage := len(history) == 0

	customPrompt, err := m.prompts.CustomPrompt(ctx)
	if err != nil {
		log.Printf("maitre custom prompt fetch failed, using default template: %v", err)
		customPrompt = ""
	}
	prompt := ComposePrompt(customPrompt, menu, restaurantName, isFirstMessage)

	// The composed prompt leads the outbound list as a user-role message,
	// matching the completions contract the original client was built on.
	messages := make([]*schema.Message, 0, sendWindow+2)
	messages = append(messages, schema.UserMessage(prompt))
	start := len(history) - sendWindow
	if start < 0 {
		start = 0
	}
	for _, msg := range history[start:] {
		messages = append(messages, &schema.Message{
			Role:    toSchemaRole(msg.Role),
			Content: msg.Content,
		})
	}
	messages = append(messages, schema.UserMessage(message))

	reply, err := m.completer.Complete(ctx, messages)
	if err != nil {
		return turnResult{reply: FallbackReply, degraded: true, reason: err}
	}

	m.store.Append(sessionID,
		models.ChatMessage{Role: models.RoleUser, Content: message},
		models.ChatMessage{Role: models.RoleAssistant, Content: reply},
	)
	return turnResult{reply: reply}
}

// ClearSession drops the session's history and its turn lock. Safe to call
// for sessions that never chatted.
func (m *Manager) ClearSession(sessionID string) {
	m.store.Clear(sessionID)
	m.mu.Lock()
	delete(m.turns, sessionID)
	m.mu.Unlock()
}

func (m *Manager) turnLock(sessionID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	lock, ok := m.turns[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		m.turns[sessionID] = lock
	}
	return lock
}

func toSchemaRole(role models.Role) schema.RoleType {
	switch role {
	case models.RoleUser:
		return schema.User
	case models.RoleAssistant:
		return schema.Assistant
	case models.RoleSystem:
		return schema.System
	default:
		return schema.User
	}
}
