package service

import (
	"context"
	"fmt"
	"strings"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/domain/entity"
)

// Persona tone per model id, see Persona.
var personaTones = map[string]string{
	"creative":   "Use a creative tone, emphasizing imaginative ideas, storytelling, or artistic concepts related to the iNFT's theme.",
	"analytical": "Use an analytical tone, providing logical, data-driven insights or evaluations related to the iNFT's theme.",
	"companion":  "Use an empathetic, friendly tone, acting as a supportive companion related to the iNFT's theme.",
}

const defaultPersonaTone = "Use a neutral, balanced tone, engaging naturally with the user based on the iNFT's theme."

// Persona builds the system instructions of an INFT from its description
// and model id. The model id selects the tone, case-insensitively.
func Persona(description, modelID string) string {
	base := `You are an Intelligent NFT (iNFT) with the description: "` + description + `". ` +
		"Respond to the user's query based on this description, but do not include the description " +
		"or this instruction in your response. Focus solely on the user's input."
	tone, ok := personaTones[strings.ToLower(modelID)]
	if !ok {
		tone = defaultPersonaTone
	}
	return base + " " + tone
}

// ChatServiceImpl implements port.ChatService.
type ChatServiceImpl struct {
	completer port.ChatCompleter
	logger    port.Logger
}

// NewChatService creates a new instance of ChatServiceImpl.
func NewChatService(completer port.ChatCompleter, logger port.Logger) port.ChatService {
	return &ChatServiceImpl{completer: completer, logger: logger}
}

// Reply implements port.ChatService. The conversation sent is the system
// instructions, then the history, then the new user message.
func (s *ChatServiceImpl) Reply(ctx context.Context, req entity.ChatRequest) (entity.ChatReply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return entity.ChatReply{}, fmt.Errorf("%w: message is required", entity.ErrInvalidInput)
	}
	instructions := strings.TrimSpace(req.Instructions)
	if instructions == "" && strings.TrimSpace(req.Description) != "" {
		instructions = Persona(req.Description, req.ModelID)
	}
	if instructions == "" {
		return entity.ChatReply{}, fmt.Errorf("%w: instructions are required", entity.ErrInvalidInput)
	}

	messages := make([]entity.ChatMessage, 0, len(req.History)+2)
	messages = append(messages, entity.ChatMessage{Role: entity.RoleSystem, Content: instructions})
	for _, m := range req.History {
		if m.Content == "" || (m.Role != entity.RoleUser && m.Role != entity.RoleAssistant) {
			continue
		}
		messages = append(messages, entity.ChatMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages, entity.ChatMessage{Role: entity.RoleUser, Content: req.Message})

	text, err := s.completer.Complete(ctx, messages)
	if err != nil {
		s.logger.Error("Chat completion failed", "messages", len(messages), "error", err)
		return entity.ChatReply{}, fmt.Errorf("failed to get chat completion: %w", err)
	}
	return entity.ChatReply{Response: text}, nil
}
