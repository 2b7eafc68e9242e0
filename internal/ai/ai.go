// Package ai generates custom category lists by asking an LLM for real,
// well-known people matching a free-form prompt. Generation never
// touches game state; callers persist the result as a custom list and
// start sessions from it like any other category.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fmkparty/fmk/internal/person"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"

	// DefaultCount is how many people a generated category holds when
	// the caller does not ask for a specific number.
	DefaultCount = 30
)

// Client talks to a Gemini-style generateContent endpoint.
type Client struct {
	httpClient *http.Client
	logger     *log.Logger
	baseURL    string
	apiKey     string
	model      string
	now        func() time.Time
	newID      func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at a different API host.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithModel selects the model name.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithNowFunc overrides the clock used for age-to-birth-year math.
func WithNowFunc(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithIDFunc overrides id generation.
func WithIDFunc(fn func() string) Option {
	return func(c *Client) { c.newID = fn }
}

// NewClient builds a Client. The API key is required.
func NewClient(apiKey string, logger *log.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("ai: api key is required")
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger.WithPrefix("ai"),
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      defaultModel,
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GeneratedList is the outcome of one generation request.
type GeneratedList struct {
	ID     string
	Name   string
	Prompt string
	People []person.Person
}

// generatedPerson is the JSON shape the model is asked to emit.
type generatedPerson struct {
	Name      string `json:"name"`
	Gender    string `json:"gender"`
	BirthYear int    `json:"birthYear"`
	Reason    string `json:"reason,omitempty"`
}

// GenerateCategory asks the model for count people matching the prompt
// and returns them as custom people under a fresh list id. Entries the
// model returns that fail validation are dropped, not fatal; the call
// errors only when too few valid people remain to play a round.
func (c *Client) GenerateCategory(ctx context.Context, prompt string, count int, genders []person.Gender, ageRange [2]int) (GeneratedList, error) {
	if strings.TrimSpace(prompt) == "" {
		return GeneratedList{}, fmt.Errorf("ai: prompt is required")
	}
	if count <= 0 {
		count = DefaultCount
	}

	text, err := c.generate(ctx, buildPrompt(prompt, count, genders, ageRange, c.now()))
	if err != nil {
		return GeneratedList{}, err
	}

	raw, err := extractJSONArray(text)
	if err != nil {
		return GeneratedList{}, err
	}
	var entries []generatedPerson
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return GeneratedList{}, fmt.Errorf("ai: decode people: %w", err)
	}
	c.logger.Debug("parsed generation response", "prompt", prompt, "entries", len(entries))

	people := c.validPeople(ctx, entries)
	if len(people) < 3 {
		return GeneratedList{}, fmt.Errorf("ai: only %d valid people generated, need at least 3", len(people))
	}

	list := GeneratedList{
		ID:     c.newID(),
		Name:   listName(prompt),
		Prompt: prompt,
		People: people,
	}
	for i := range list.People {
		list.People[i].ListID = list.ID
	}
	return list, nil
}

// validPeople checks each generated entry concurrently and keeps the
// ones that pass, preserving input order.
func (c *Client) validPeople(ctx context.Context, entries []generatedPerson) []person.Person {
	results := make([]*person.Person, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, e := range entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := c.validate(e)
			if err != nil {
				c.logger.Warn("dropping generated person", "name", e.Name, "err", err)
				return nil
			}
			results[i] = &p
			return nil
		})
	}
	// The only group error is context cancellation; partial results
	// are discarded with it.
	if err := g.Wait(); err != nil {
		return nil
	}

	var people []person.Person
	seen := map[string]bool{}
	for _, p := range results {
		if p == nil || seen[strings.ToLower(p.Name)] {
			continue
		}
		seen[strings.ToLower(p.Name)] = true
		people = append(people, *p)
	}
	return people
}

// validate turns one model entry into a Person or rejects it.
func (c *Client) validate(e generatedPerson) (person.Person, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return person.Person{}, fmt.Errorf("empty name")
	}
	gender, err := person.ParseGender(e.Gender)
	if err != nil {
		return person.Person{}, err
	}
	year := c.now().Year()
	if e.BirthYear != 0 && (e.BirthYear < year-120 || e.BirthYear > year-person.MinAge) {
		return person.Person{}, fmt.Errorf("implausible birth year %d", e.BirthYear)
	}
	return person.Person{
		ID:        c.newID(),
		Name:      name,
		Gender:    gender,
		BirthYear: e.BirthYear,
		Bio:       strings.TrimSpace(e.Reason),
		Source:    person.SourceCustom,
		CreatedAt: c.now(),
	}, nil
}

// ValidatePrompt asks the model whether a prompt describes a workable
// party-game category of real public figures. The returned score is
// 0-100; prompts scoring under 50 are unlikely to generate a playable
// list.
func (c *Client) ValidatePrompt(ctx context.Context, prompt string) (int, error) {
	if strings.TrimSpace(prompt) == "" {
		return 0, fmt.Errorf("ai: prompt is required")
	}

	instruction := fmt.Sprintf(`Rate how well this party-game category prompt describes a group of real, publicly well-known adults: %q

Score 0-100, where 100 means dozens of famous people clearly match and 0 means no real public figures match.
Output ONLY the integer score, no other text.`, prompt)

	text, err := c.generate(ctx, instruction)
	if err != nil {
		return 0, err
	}
	score, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("ai: unparseable score %q", strings.TrimSpace(text))
	}
	if score < 0 || score > 100 {
		return 0, fmt.Errorf("ai: score %d out of range", score)
	}
	return score, nil
}

// generateContent request/response shapes, trimmed to the fields used.
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// generate posts the prompt and returns the concatenated response text.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("ai: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	c.logger.Debug("calling generateContent", "model", c.model, "prompt_len", len(prompt))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: call model: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("ai: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var gr generateResponse
		if json.Unmarshal(data, &gr) == nil && gr.Error != nil {
			return "", fmt.Errorf("ai: model returned %d: %s", gr.Error.Code, gr.Error.Message)
		}
		return "", fmt.Errorf("ai: model returned status %d", resp.StatusCode)
	}

	var gr generateResponse
	if err := json.Unmarshal(data, &gr); err != nil {
		return "", fmt.Errorf("ai: decode response: %w", err)
	}
	if len(gr.Candidates) == 0 {
		return "", fmt.Errorf("ai: empty response from model")
	}
	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("ai: empty response from model")
	}
	return sb.String(), nil
}

// extractJSONArray pulls the first JSON array out of the model text,
// which often wraps it in prose or a code fence.
func extractJSONArray(text string) (string, error) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return "", fmt.Errorf("ai: no JSON array in model response")
	}
	return text[start : end+1], nil
}

// listName derives a short display name from the prompt.
func listName(prompt string) string {
	name := strings.TrimSpace(prompt)
	if len(name) > 60 {
		name = strings.TrimSpace(name[:60])
	}
	if name == "" {
		return "Custom List"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
