package intent

import "strings"

const promptTemplate = `You are an assistant that edits a small business website from short voice commands.

The website has exactly three fields the user may change:
1. "shop_name" - the name of the business or shop
2. "description" - a description of the business
3. "announcement" - a special announcement or message for visitors

Decide which field the command below wants to change and what the new value should be.

Command: "{{TEXT}}"

Reply with ONLY one JSON object in this exact format and nothing else:
{"intent": "<field>", "content": "<new value>"}

Examples:
- "Change my shop name to Meera's Flowers" -> {"intent": "shop_name", "content": "Meera's Flowers"}
- "Update my description to We sell fresh organic vegetables" -> {"intent": "description", "content": "We sell fresh organic vegetables"}
- "Add an announcement that we're open on weekends" -> {"intent": "announcement", "content": "We're open on weekends"}

If the command does not ask to change one of these fields, reply: {"intent": "unknown", "content": ""}`

// BuildPrompt embeds the command text into the fixed instruction.
func BuildPrompt(text string) string {
	return strings.Replace(promptTemplate, "{{TEXT}}", strings.TrimSpace(text), 1)
}
