package testgen

import (
	"fmt"
	"strings"

	"github.com/testgen/api/internal/models"
)

// SystemPrompt frames the model for every generation request.
const SystemPrompt = "You are an expert software test engineer. " +
	"Write thorough, runnable unit tests. Output only code."

// BuildPrompt embeds the request's code, language and framework verbatim in
// the instruction sent to the completion service.
func BuildPrompt(req models.GenerationRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate comprehensive unit tests for the following %s code using %s.\n\n",
		req.Language, req.Framework)

	b.WriteString("Requirements:\n")
	b.WriteString("- Cover normal cases, edge cases and error handling\n")
	b.WriteString("- Use descriptive test names\n")
	b.WriteString("- Include any imports and fixtures the tests need\n")
	b.WriteString("- Return only the test code\n\n")

	b.WriteString("Code:\n")
	fmt.Fprintf(&b, "```%s\n", req.Language)
	b.WriteString(req.Code)
	if !strings.HasSuffix(req.Code, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")

	return b.String()
}
