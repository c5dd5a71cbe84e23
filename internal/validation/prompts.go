package validation

import (
	"encoding/json"
	"fmt"

	"tracklint/pkg/tabular"
)

const systemPromptTemplate = `You are a metadata validation engine for digital music platforms. You validate track metadata against every rule in the rules table provided below.

You receive:
- A table of platform-specific rules (in Markdown format).
- A batch of track metadata (as JSON objects, one per track).

Your task:
- For each track in the batch, validate its fields against all applicable rules based on platform (e.g., Spotify, YouTube, Apple Music).
- For each rule:
    - If the track passes the rule, include status: "Passed".
    - If the track fails the rule, include:
        - rule_no: the rule's number from the rules table,
        - platform: name of the DSP,
        - status: "Failed",
        - reason: why it failed,
        - suggestion: how to fix it,
        - new_value: suggested corrected value (if applicable).

Return a JSON array where each object corresponds to one track and includes:
- "Track Title"
- a "rules" array listing every rule evaluation for that track

Process all tracks in the input batch and return validation for each. Cover the status of every rule; do not leave any rule out. Respond strictly in the format shown below.

Example output:
` + "```json" + `
[
  {
    "Track Title": "Track 1",
    "rules": [
      {
        "rule_no": "1",
        "platform": "Spotify",
        "status": "Failed",
        "reason": "Format is MP3, not WAV/FLAC",
        "suggestion": "Use 16-bit or 24-bit WAV/FLAC",
        "new_value": "24-bit WAV"
      },
      {
        "rule_no": "2",
        "platform": "Spotify",
        "status": "Passed"
      }
    ]
  }
]
` + "```" + `

Validation Rules Table:

%s`

const userPromptTemplate = `Here is a batch of track metadata in JSON format. Evaluate each track individually and return the validation result for each rule in correct order from rule 1 to rule %d.
Always make sure you mention every rule in your output.

` + "```json\n%s\n```"

// SystemPrompt embeds the rule context into the validation instructions.
func SystemPrompt(ruleContext string) string {
	return fmt.Sprintf(systemPromptTemplate, ruleContext)
}

// UserPrompt renders a batch of working rows as the user message. ruleCount
// is the rule table length; the prompt names the full rule range so the
// service covers every rule even for clean tracks.
func UserPrompt(batch []tabular.Row, ruleCount int) (string, error) {
	payload, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling batch: %w", err)
	}

	return fmt.Sprintf(userPromptTemplate, ruleCount, payload), nil
}
