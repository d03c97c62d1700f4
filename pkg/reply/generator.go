package reply

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ig-engagement-be/pkg/llm"
	"ig-engagement-be/pkg/retrieval"
)

// FallbackMessage is sent when generation fails; the raw error stays in the
// operator log.
const FallbackMessage = "Thanks for reaching out! We'll get back to you as soon as possible."

// Generator drafts DM replies grounded in retrieved knowledge context.
type Generator struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewGenerator(llmProvider llm.LLMProvider, logger *log.Logger) *Generator {
	return &Generator{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// DraftReply builds a grounded prompt from the retrieved context plus recent
// turns and asks the model for a short reply. Generation failures degrade to
// FallbackMessage rather than surfacing an error to the end user.
func (g *Generator) DraftReply(ctx context.Context, userText string, contextItems retrieval.Result, history []llm.Message) string {
	promptText := buildGroundedPrompt(userText, contextItems)

	fullHistory := append(append([]llm.Message{}, history...), llm.Message{Role: "user", Content: promptText})

	response, err := g.llmProvider.Chat(ctx, fullHistory, llm.WithTemperature(0.6))
	if err != nil {
		g.logger.Printf("[ERROR] reply generation failed: %v", err)
		return FallbackMessage
	}

	g.logger.Printf("[GENERATION] reply drafted from %d context documents", len(contextItems))
	return strings.TrimSpace(response)
}

func buildGroundedPrompt(userText string, contextItems retrieval.Result) string {
	var prompt strings.Builder

	if len(contextItems) > 0 {
		prompt.WriteString("<reference_material>\n")
		prompt.WriteString("Answer using ONLY the business information below. Do not invent details.\n\n")
		for i, item := range contextItems {
			prompt.WriteString(fmt.Sprintf("### Source %d: %s\n%s\n\n", i+1, item.SourceName, item.Content))
		}
		prompt.WriteString("</reference_material>\n\n")
	}

	prompt.WriteString("<task>\n")
	prompt.WriteString("You are the friendly assistant of this Instagram business account, replying to a direct message.\n")
	prompt.WriteString("Keep the reply short (1-3 sentences), warm, and specific to the question.\n")
	prompt.WriteString("If the reference material does not cover the question, say you will pass it on to the team.\n")
	prompt.WriteString("</task>\n\n")

	prompt.WriteString("Message: ")
	prompt.WriteString(userText)

	return prompt.String()
}
