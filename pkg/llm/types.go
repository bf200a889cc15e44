package llm

// ChatRequest describes a single chat completion invocation.
type ChatRequest struct {
	Model               string          `json:"model,omitempty"`
	Messages            []Message       `json:"messages"`
	Temperature         *float64        `json:"temperature,omitempty"`
	MaxCompletionTokens *int            `json:"max_completion_tokens,omitempty"`
	TopP                *float64        `json:"top_p,omitempty"`
	ResponseFormat      *ResponseFormat `json:"response_format,omitempty"`
}

// Message represents a chat message in the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Name    string `json:"name,omitempty"`
}

// ResponseFormat controls the structure of the assistant response.
type ResponseFormat struct {
	Type        string      `json:"type"`
	Schema      interface{} `json:"schema,omitempty"`
	Name        string      `json:"name,omitempty"`
	Description string      `json:"description,omitempty"`
	Strict      *bool       `json:"strict,omitempty"`
}

// ChatResponse captures a completion result.
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
	Created int64    `json:"created"`
	RawJSON string   `json:"raw_json,omitempty"`
}

// Choice represents a single completion choice.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage summarises token accounting for a call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ResponseRequest describes a single call to the provider's responses
// endpoint, which supports built-in tools such as web search.
type ResponseRequest struct {
	Model           string         `json:"model,omitempty"`
	Input           string         `json:"input"`
	Instructions    string         `json:"instructions,omitempty"`
	Tools           []ResponseTool `json:"tools,omitempty"`
	MaxOutputTokens *int           `json:"max_output_tokens,omitempty"`
}

// ResponseTool names a built-in provider tool enabled for a responses call.
type ResponseTool struct {
	Type string `json:"type"`
}

// WebSearchTool enables the provider's hosted web search tool.
func WebSearchTool() ResponseTool {
	return ResponseTool{Type: "web_search"}
}

// ResponseResult is the flattened outcome of a responses call: whatever
// assistant text the envelope carried, regardless of which shape it used.
type ResponseResult struct {
	ID    string `json:"id"`
	Model string `json:"model"`
	Text  string `json:"text"`
	Usage Usage  `json:"usage"`
}
