package research

import (
	"context"
	"errors"
	"fmt"
	"time"

	"devbrief/pkg/llm"
)

const dateLayout = "2006-01-02"

// defaultPromptTemplate mirrors the research brief the bot has always used.
// Override with Config.PromptTemplate to tune focus areas or sources.
const defaultPromptTemplate = `You are a real estate research assistant specializing in {{.City}} development news.

Your task is to search for NEW development projects or related news in {{.City}} from the past {{.LookbackDays}} days ({{.DateRange}}).

Focus on:
- Real estate development projects
- Infrastructure improvements
- Zoning approvals and changes
- Major site plans and proposals
- Funding announcements
- RFPs (Request for Proposals)
- Economic development initiatives
- Commercial and residential projects

Search multiple sources including local news outlets, city government websites, real estate industry publications, and business journals.

After gathering information, return ONLY a JSON array with the most significant findings. Each item should contain:
- title (string): Clear, descriptive title
- summary (string): 1-2 sentence summary of the development
- url (string): Direct link to the source article

Limit to {{.MaxItems}} items. If no significant updates are found, return an empty array.

Format your final response as valid JSON only, no additional text.`

// ProviderClient is the subset of the llm client the executor needs.
type ProviderClient interface {
	Chat(ctx context.Context, req *llm.ChatRequest) (*llm.ChatResponse, error)
	Respond(ctx context.Context, req *llm.ResponseRequest) (*llm.ResponseResult, error)
	ChatStructured(ctx context.Context, req *llm.ChatRequest, target interface{}) (interface{}, error)
}

// Executor turns one configured research question into a list of updates:
// build the prompt, call the provider, recover the record array.
type Executor struct {
	cfg    *Config
	client ProviderClient
	prompt *llm.PromptTemplate

	// now is swappable for tests.
	now func() time.Time
}

// NewExecutor constructs an executor for the given config and provider client.
func NewExecutor(cfg *Config, client ProviderClient) (*Executor, error) {
	if cfg == nil {
		return nil, errors.New("research: config cannot be nil")
	}
	if client == nil {
		return nil, errors.New("research: provider client cannot be nil")
	}
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var tmpl *llm.PromptTemplate
	var err error
	if cfg.PromptTemplate != "" {
		tmpl, err = llm.NewPromptTemplate(cfg.PromptTemplate, nil)
	} else {
		tmpl, err = llm.NewPromptTemplateFromString("research", defaultPromptTemplate, nil)
	}
	if err != nil {
		return nil, err
	}

	return &Executor{
		cfg:    cfg,
		client: client,
		prompt: tmpl,
		now:    time.Now,
	}, nil
}

// Config returns a copy of the executor's configuration.
func (e *Executor) Config() *Config {
	return e.cfg.Clone()
}

// DateRange returns the search window as "YYYY-MM-DD to YYYY-MM-DD", ending
// today.
func (e *Executor) DateRange() string {
	end := e.now()
	start := end.AddDate(0, 0, -e.cfg.LookbackDays)
	return start.Format(dateLayout) + " to " + end.Format(dateLayout)
}

// BuildPrompt renders the research prompt for the current date window.
func (e *Executor) BuildPrompt() (string, error) {
	return e.prompt.Render(struct {
		City         string
		DateRange    string
		LookbackDays int
		MaxItems     int
	}{
		City:         e.cfg.City,
		DateRange:    e.DateRange(),
		LookbackDays: e.cfg.LookbackDays,
		MaxItems:     e.cfg.MaxItems,
	})
}

// Fetch calls the provider and returns the recovered updates, in provider
// order. Transport and API failures abort the run; an answer that yields no
// parseable records does not.
func (e *Executor) Fetch(ctx context.Context) ([]Update, error) {
	prompt, err := e.BuildPrompt()
	if err != nil {
		return nil, fmt.Errorf("build research prompt: %w", err)
	}

	switch {
	case e.cfg.API == APIChat && e.cfg.Structured:
		return e.fetchStructured(ctx, prompt)
	case e.cfg.API == APIChat:
		return e.fetchChat(ctx, prompt)
	default:
		return e.fetchResponses(ctx, prompt)
	}
}

func (e *Executor) fetchResponses(ctx context.Context, prompt string) ([]Update, error) {
	result, err := e.client.Respond(ctx, &llm.ResponseRequest{
		Input: prompt,
		Tools: []llm.ResponseTool{llm.WebSearchTool()},
	})
	if err != nil {
		return nil, fmt.Errorf("research responses call: %w", err)
	}
	return ExtractUpdates(result.Text), nil
}

func (e *Executor) fetchChat(ctx context.Context, prompt string) ([]Update, error) {
	resp, err := e.client.Chat(ctx, e.chatRequest(prompt))
	if err != nil {
		return nil, fmt.Errorf("research chat call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("research: provider returned no choices")
	}
	return ExtractUpdates(resp.Choices[0].Message.Content), nil
}

func (e *Executor) fetchStructured(ctx context.Context, prompt string) ([]Update, error) {
	var envelope updatesEnvelope
	if _, err := e.client.ChatStructured(ctx, e.chatRequest(prompt), &envelope); err != nil {
		return nil, fmt.Errorf("research structured chat call: %w", err)
	}
	updates := make([]Update, 0, len(envelope.Updates))
	for _, u := range envelope.Updates {
		updates = append(updates, u.withDefaults())
	}
	return updates, nil
}

func (e *Executor) chatRequest(prompt string) *llm.ChatRequest {
	return &llm.ChatRequest{
		Messages: []llm.Message{
			{
				Role:    "system",
				Content: fmt.Sprintf("You are a real estate research assistant specializing in %s development news.", e.cfg.City),
			},
			{Role: "user", Content: prompt},
		},
	}
}
