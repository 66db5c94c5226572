// Package prompt assembles the system message and conversation contents sent to completion providers.
package prompt

import (
	"bytes"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

// SystemData contains all inputs for the system message.
type SystemData struct {
	Persona   string
	Context   *types.UserContext
	Knowledge string
	Language  string
}

// BuildSystemMessage renders the persona followed by user context, platform knowledge and the
// language instruction.
func BuildSystemMessage(data SystemData) (string, error) {
	if strings.TrimSpace(data.Language) == "" {
		data.Language = "en"
	}
	var buf bytes.Buffer
	if err := systemTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to build system message: %w", err)
	}
	return buf.String(), nil
}

// Builder turns stored history into provider contents.
type Builder struct {
	historyLimit int
}

// NewBuilder creates a prompt Builder.
func NewBuilder(historyLimit int) *Builder {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &Builder{historyLimit: historyLimit}
}

// Build returns history (oldest first) followed by userMessage. The stored copy of userMessage at the
// end of history is dropped so the turn is sent once.
func (b *Builder) Build(history []types.Message, userMessage string) []*genai.Content {
	if n := len(history); n > 0 {
		last := history[n-1]
		if last.Role == types.RoleUser && strings.TrimSpace(last.Content) == strings.TrimSpace(userMessage) {
			history = history[:n-1]
		}
	}
	if len(history) > b.historyLimit {
		history = history[len(history)-b.historyLimit:]
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		switch msg.Role {
		case types.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		case types.RoleUser:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return append(contents, genai.NewContentFromText(userMessage, genai.RoleUser))
}

func goalTitles(goals []types.Goal) string {
	titles := make([]string, 0, len(goals))
	for _, g := range goals {
		titles = append(titles, g.Title)
	}
	return strings.Join(titles, ", ")
}

func milestoneTitles(milestones []types.Milestone) string {
	titles := make([]string, 0, len(milestones))
	for _, m := range milestones {
		titles = append(titles, m.Title)
	}
	return strings.Join(titles, ", ")
}
