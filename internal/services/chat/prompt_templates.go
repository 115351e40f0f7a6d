package chat

import (
	"fmt"
	"strings"

	"github.com/rosellabs/crmlens/internal/models"
)

// FallbackAnswer is the fixed reply for queries nothing could answer:
// no social match, no rule match, and no usable retrieval result. Keeping
// it constant makes the no-match behavior predictable for clients.
const FallbackAnswer = "I didn't quite understand that query. Here are some things you can ask me:\n\n" +
	"• show top churn accounts\n" +
	"• suggest upsell for high-value segment\n" +
	"• show customer segments\n" +
	"• list low-risk customers\n" +
	"• tell me about C00001"

// systemPrompt frames the generation model as a CRM analyst grounded in
// the retrieved customer records.
const systemPrompt = "You are an assistant specialized in Customer Relationship Management insights. " +
	"You have access to customer records retrieved from the CRM database and should answer " +
	"based on that context. If the query is about specific customers, use the provided data. " +
	"If it is a general question about CRM insights, provide analysis based on the data. " +
	"Be conversational but professional, and include relevant metrics when appropriate."

// buildRAGPrompt assembles the user message for the generation model from
// the retrieved documents and the raw query.
func buildRAGPrompt(query string, hits []models.RetrievalHit) string {
	var b strings.Builder
	b.WriteString("Context from CRM database:\n\n")
	for _, hit := range hits {
		b.WriteString(hit.Document.Content)
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "User Query: %s\n\nPlease provide a helpful response based on the context above.", query)
	return b.String()
}
