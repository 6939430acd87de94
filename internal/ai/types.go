package ai

// Insight is one AI-generated marketing recommendation for a link.
type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// insightsPayload mirrors the insights schema. Pointers detect missing fields.
type insightsPayload struct {
	Insights *[]struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Severity    *string `json:"severity"`
	} `json:"insights"`
}

// apiRequest represents the generateContent request body.
type apiRequest struct {
	Contents         []apiContent     `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type apiContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []apiPart `json:"parts"`
}

type apiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"responseMimeType"`
	ResponseSchema   *schema `json:"responseSchema,omitempty"`
}

// schema is the OpenAPI subset accepted as responseSchema.
type schema struct {
	Type       string             `json:"type"`
	Items      *schema            `json:"items,omitempty"`
	Properties map[string]*schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

// apiResponse represents the generateContent response body.
type apiResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content      apiContent `json:"content"`
	FinishReason string     `json:"finishReason"`
}
