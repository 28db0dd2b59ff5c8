package services

import (
	"fmt"

	"github.com/scribe-kb/scribe/internal/core/domain"
)

// systemPrompts maps each generation type to its system instruction.
// Every prompt pins the model to the supplied context.
var systemPrompts = map[domain.GenerationType]string{
	domain.GenerationTypeFAQ: `You are a helpful assistant that creates FAQ documents based on provided source material.
Create a well-structured FAQ with clear questions and concise answers.
Format each Q&A pair clearly with "Q:" and "A:" prefixes.
IMPORTANT: Only use information from the provided context. Do not invent or assume any facts.`,

	domain.GenerationTypeSummary: `You are a helpful assistant that creates concise summaries of documents.
Create a clear, well-organized summary that captures the key points.
Use bullet points or numbered lists where appropriate.
IMPORTANT: Only use information from the provided context. Do not invent or assume any facts.`,

	domain.GenerationTypeBlog: `You are a helpful assistant that creates engaging blog posts based on provided source material.
Write in a professional yet approachable tone.
Include an introduction, main points, and conclusion.
IMPORTANT: Only use information from the provided context. Do not invent or assume any facts.`,

	domain.GenerationTypeReport: `You are a helpful assistant that creates formal reports based on provided source material.
Structure the report with clear sections and professional language.
Include relevant details and maintain a formal tone.
IMPORTANT: Only use information from the provided context. Do not invent or assume any facts.`,

	domain.GenerationTypeGeneral: `You are a helpful assistant that generates content based on provided source material.
Respond to the user's request accurately and helpfully.
Structure your response appropriately for the type of content requested.
IMPORTANT: Only use information from the provided context. Do not invent or assume any facts.`,
}

// systemPrompt returns the instruction for the given type, falling back
// to the general prompt.
func systemPrompt(t domain.GenerationType) string {
	if p, ok := systemPrompts[t]; ok {
		return p
	}
	return systemPrompts[domain.GenerationTypeGeneral]
}

// userPrompt renders the query and assembled context into the final
// user message.
func userPrompt(query, context string) string {
	return fmt.Sprintf(`Based on the following source documents, %s

SOURCE DOCUMENTS:
%s

INSTRUCTIONS:
1. Only use information from the source documents above
2. If the sources don't contain enough information, acknowledge this limitation
3. Do not make up or assume any facts not present in the sources
4. Structure your response appropriately for the requested content type

Please generate the requested content:`, query, context)
}
