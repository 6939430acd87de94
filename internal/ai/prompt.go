package ai

import (
	"encoding/json"
	"fmt"

	"github.com/nikbrunner/lp/internal/model"
)

var slugSchema = &schema{
	Type:  "ARRAY",
	Items: &schema{Type: "STRING"},
}

var insightSchema = &schema{
	Type: "OBJECT",
	Properties: map[string]*schema{
		"insights": {
			Type: "ARRAY",
			Items: &schema{
				Type: "OBJECT",
				Properties: map[string]*schema{
					"title":       {Type: "STRING"},
					"description": {Type: "STRING"},
					"severity":    {Type: "STRING"},
				},
				Required: []string{"title", "description", "severity"},
			},
		},
	},
	Required: []string{"insights"},
}

func buildSlugPrompt(url, description string) string {
	return fmt.Sprintf(`Suggest 5 short, memorable and professional slugs for shortening the following link: %s

Context: %s

Instructions:
- Use lowercase letters, digits and hyphens only
- Keep each slug under 16 characters
- Return only a JSON array of strings`, url, description)
}

func buildInsightPrompt(link model.Link) (string, error) {
	data, err := json.Marshal(link)
	if err != nil {
		return "", fmt.Errorf("marshal link: %w", err)
	}

	return fmt.Sprintf(`Analyze the performance data of this short link and suggest marketing improvements: %s

Give insights on how to increase the click-through rate.

Instructions:
- Each insight needs a short title and a one or two sentence description
- Severity is one of "low", "medium" or "high"
- Return the result in JSON format`, data), nil
}
