package prompt

import (
	"strings"

	"document-qa-be/pkg/llm"
)

// AnswerBuilder builds the grounded answer conversation from retrieved chunks:
// a system turn with the answering rules and a user turn with the reference
// material and the question.
type AnswerBuilder struct {
	question  string
	contexts  []string
	filenames []string
}

func NewAnswerBuilder(question string, contexts, filenames []string) *AnswerBuilder {
	return &AnswerBuilder{
		question:  question,
		contexts:  contexts,
		filenames: filenames,
	}
}

func (b *AnswerBuilder) Build() []llm.Message {
	return []llm.Message{
		llm.SystemMessage(b.System()),
		llm.UserMessage(b.User()),
	}
}

func (b *AnswerBuilder) System() string {
	var prompt strings.Builder
	b.writeTask(&prompt)
	b.writeGuidelines(&prompt)
	return strings.TrimSpace(prompt.String())
}

func (b *AnswerBuilder) User() string {
	var prompt strings.Builder
	b.writeReferenceMaterial(&prompt)
	b.writeSources(&prompt)
	b.writeUserQuery(&prompt)
	return prompt.String()
}

func (b *AnswerBuilder) writeReferenceMaterial(prompt *strings.Builder) {
	prompt.WriteString("<reference_material>\n")
	prompt.WriteString(strings.Join(b.contexts, "\n\n"))
	prompt.WriteString("\n</reference_material>\n\n")
}

// Filenames are informational; citations are assembled outside the model.
func (b *AnswerBuilder) writeSources(prompt *strings.Builder) {
	if len(b.filenames) == 0 {
		return
	}
	prompt.WriteString("<sources>\n")
	for _, f := range b.filenames {
		prompt.WriteString("- ")
		prompt.WriteString(f)
		prompt.WriteString("\n")
	}
	prompt.WriteString("</sources>\n\n")
}

func (b *AnswerBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("<task>\n")
	prompt.WriteString("You are a helpful assistant answering questions about the user's uploaded documents.\n")
	prompt.WriteString("</task>\n\n")
}

func (b *AnswerBuilder) writeGuidelines(prompt *strings.Builder) {
	prompt.WriteString("<guidelines>\n")
	prompt.WriteString("1. Answer only from the reference material; do not use outside knowledge\n")
	prompt.WriteString("2. Be concise and directly address the question\n")
	prompt.WriteString("3. Reply in the same language as the question\n")
	prompt.WriteString("4. If the material does not contain the answer, say so honestly\n")
	prompt.WriteString("5. Do not list sources or file names; they are shown separately\n")
	prompt.WriteString("</guidelines>\n\n")
}

func (b *AnswerBuilder) writeUserQuery(prompt *strings.Builder) {
	prompt.WriteString("<user_question>\n")
	prompt.WriteString(b.question)
	prompt.WriteString("\n</user_question>\n\n")
	prompt.WriteString("Answer:")
}
