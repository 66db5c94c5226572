// Package responder produces assistant replies, either from fixed templates or from a hosted model.
package responder

import "github.com/DigitalExpart/One2oneLove-Chatbot/internal/types"

// Query carries everything needed to answer one user message.
type Query struct {
	Message   string
	Language  string
	Context   types.UserContext
	Knowledge string
	// History is oldest first and may end with Message itself.
	History  []types.Message
	Platform types.Platform
}

// Reply is a generated assistant message.
type Reply struct {
	Content           string
	Model             string
	Tokens            int
	FeaturesSuggested []string
	// Intent is set by the template responder only.
	Intent types.Intent
}
