package learning

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/classifier"
	"github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"
)

const (
	maxUsefulLines        = 5
	minUsefulLineLength   = 20
	minUsefulParagraph    = 50
	minAnalyzedReplyChars = 50
)

var numberedLine = regexp.MustCompile(`^\d+\.`)

// Analysis is what a positively rated exchange teaches.
type Analysis struct {
	Question      string
	Pattern       string
	Category      types.Intent
	UsefulContent string
}

// AnalyzeExchange inspects a transcript (oldest first) around the rated assistant message. The
// question is the last user message before it; when the rated message is not in the transcript,
// the last user message that received an answer is used instead.
func AnalyzeExchange(messages []types.Message, ratedMessageID string) (Analysis, bool) {
	question, reply, ok := ratedExchange(messages, ratedMessageID)
	if !ok {
		question, reply, ok = lastAnsweredExchange(messages)
	}
	if !ok {
		return Analysis{}, false
	}

	a := Analysis{Question: question}
	if pattern, ok := NormalizePattern(question); ok {
		a.Pattern = pattern
		a.Category = classifier.Classify(question)
	}
	if utf8.RuneCountInString(reply) > minAnalyzedReplyChars {
		a.UsefulContent, _ = UsefulContent(reply)
	}
	return a, a.Pattern != "" || a.UsefulContent != ""
}

func ratedExchange(messages []types.Message, ratedMessageID string) (question, reply string, ok bool) {
	for i, msg := range messages {
		if msg.ID != ratedMessageID || msg.Role != types.RoleAssistant {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if messages[j].Role == types.RoleUser {
				return messages[j].Content, msg.Content, true
			}
		}
		return "", "", false
	}
	return "", "", false
}

func lastAnsweredExchange(messages []types.Message) (question, reply string, ok bool) {
	var lastUser string
	for _, msg := range messages {
		switch {
		case msg.Role == types.RoleUser:
			lastUser = msg.Content
		case msg.Role == types.RoleAssistant && lastUser != "":
			question, reply, ok = lastUser, msg.Content, true
		}
	}
	return question, reply, ok
}

// UsefulContent extracts the reusable part of a reply: up to five list, numbered or bold lines
// longer than 20 characters, or else the first paragraph longer than 50 characters.
func UsefulContent(reply string) (string, bool) {
	var lines []string
	for _, line := range strings.Split(reply, "\n") {
		trimmed := strings.TrimSpace(line)
		if utf8.RuneCountInString(trimmed) <= minUsefulLineLength {
			continue
		}
		if strings.HasPrefix(trimmed, "•") || strings.HasPrefix(trimmed, "-") ||
			strings.HasPrefix(trimmed, "**") || numberedLine.MatchString(trimmed) {
			lines = append(lines, line)
			if len(lines) == maxUsefulLines {
				break
			}
		}
	}
	if len(lines) > 0 {
		return strings.Join(lines, "\n"), true
	}

	for _, p := range strings.Split(reply, "\n\n") {
		if utf8.RuneCountInString(strings.TrimSpace(p)) > minUsefulParagraph {
			return p, true
		}
	}
	return "", false
}

// InsightType classifies what kind of knowledge an exchange produced.
func InsightType(category types.Intent) string {
	switch category {
	case types.IntentFeatureHelp, types.IntentSubscriptionInfo:
		return types.InsightQuestion
	default:
		return types.InsightAdvice
	}
}
