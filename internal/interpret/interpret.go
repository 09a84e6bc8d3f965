// Package interpret turns a natural-language question into an engine
// request by asking a language model. The model's answer is parsed and
// normalised here and validated again by the engine; it is never trusted.
package interpret

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pable/hoopstats/internal/model"
)

// ErrUnanswerable is returned when the model declines to pick a function.
var ErrUnanswerable = errors.New("question cannot be answered by the query engine")

// Completer is one round-trip to a language model.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// PlayerFinder looks players up by name. *storage.DB satisfies it.
type PlayerFinder interface {
	FindPlayers(ctx context.Context, q string) ([]model.Player, error)
}

// Translation is a parsed model answer.
type Translation struct {
	Request     model.Request `json:"request"`
	Description string        `json:"description"`
}

// Translator asks a Completer for requests and resolves player names.
type Translator struct {
	llm    Completer
	finder PlayerFinder
}

// New returns a Translator. finder may be nil when duel names never need
// resolving.
func New(llm Completer, finder PlayerFinder) *Translator {
	return &Translator{llm: llm, finder: finder}
}

// Translate asks the model for a request answering question.
func (t *Translator) Translate(ctx context.Context, question string) (*Translation, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, errors.New("empty question")
	}
	text, err := t.llm.Complete(ctx, systemPrompt(), question)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	raw, err := parseResponse(text)
	if err != nil {
		return nil, err
	}
	if raw.Function == nil || strings.TrimSpace(*raw.Function) == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnanswerable, raw.Description)
	}

	tr := &Translation{
		Request:     model.Request{Function: model.Function(*raw.Function), Params: raw.Params.Params},
		Description: raw.Description,
	}
	normalize(&tr.Request)

	if len(tr.Request.Params.EntityIDs) == 0 {
		ids, err := t.resolveNames(ctx, raw.Params.Player, raw.Params.Player1, raw.Params.Player2)
		if err != nil {
			return nil, err
		}
		tr.Request.Params.EntityIDs = ids
	}
	return tr, nil
}

// rawParams accepts engine params plus the player-name fields models emit.
type rawParams struct {
	model.Params
	Player  string `json:"player"`
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
}

type rawResponse struct {
	Function    *string   `json:"function"`
	Params      rawParams `json:"params"`
	Description string    `json:"description"`
}

// parseResponse extracts the JSON object from the model's reply.
func parseResponse(response string) (*rawResponse, error) {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	// Some replies wrap the object in a sentence.
	if i := strings.Index(response, "{"); i > 0 {
		response = response[i:]
	}
	if j := strings.LastIndex(response, "}"); j >= 0 && j < len(response)-1 {
		response = response[:j+1]
	}

	var out rawResponse
	if err := json.Unmarshal([]byte(response), &out); err != nil {
		return nil, fmt.Errorf("failed to parse translator response: %w (response: %.200s)", err, response)
	}
	return &out, nil
}

// normalize maps spellings models commonly produce onto the engine's.
// Anything still invalid is left for the engine to reject.
func normalize(req *model.Request) {
	if fn, ok := model.ParseFunction(string(req.Function)); ok {
		req.Function = fn
	}
	p := &req.Params
	p.Label = strings.TrimSpace(p.Label)
	p.GameType = model.GameType(strings.ToLower(strings.TrimSpace(string(p.GameType))))
	switch strings.ToLower(string(p.Aggregation)) {
	case "mean", "average", "avg":
		p.Aggregation = model.AggAvg
	case "sum", "count", "total":
		p.Aggregation = model.AggSum
	}
}

// resolveNames maps player names to ids. An exact case-insensitive
// name match wins over the first partial match.
func (t *Translator) resolveNames(ctx context.Context, names ...string) ([]string, error) {
	var ids []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if t.finder == nil {
			return nil, fmt.Errorf("cannot resolve player %q: no player index", name)
		}
		found, err := t.finder.FindPlayers(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("find player %q: %w", name, err)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no player matches %q", name)
		}
		pick := found[0]
		for _, p := range found {
			if strings.EqualFold(p.Name, name) {
				pick = p
				break
			}
		}
		ids = append(ids, pick.ID)
	}
	return ids, nil
}
