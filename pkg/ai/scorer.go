package ai

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// scoreSchema is embedded so validation works regardless of the working
// directory the binary runs from.
//
//go:embed score_schema.json
var scoreSchema []byte

// ScoreResult is the scoring stage's output contract.
type ScoreResult struct {
	MatchScore    int      `json:"match_score"`
	Reasoning     string   `json:"reasoning"`
	MissingSkills []string `json:"missing_skills"`
}

const scoringPrompt = `
You are an expert ATS (Applicant Tracking System) and career coach. Analyze the following resume against the job description.

Return ONLY a valid JSON object with this exact structure - no markdown, no extra text:
{
  "match_score": <integer 0-100>,
  "reasoning": "<2-3 sentence explanation of the score>",
  "missing_skills": ["<skill1>", "<skill2>", ...]
}

Rules:
- match_score: 0-100 integer. 75+ means strong candidate.
- reasoning: concise, specific to this role and resume.
- missing_skills: list of concrete skills/technologies from the JD not found in resume. Empty list [] if none.

RESUME:
%s

JOB DESCRIPTION:
%s
`

// ScoreResume asks the model how well a resume matches a job description.
// The answer is validated against the embedded schema before parsing, so
// malformed model output surfaces as an error rather than a zero score.
func (c *Client) ScoreResume(ctx context.Context, resume, jobDescription string) (*ScoreResult, error) {
	prompt := fmt.Sprintf(scoringPrompt, resume, jobDescription)
	raw, err := c.Generate(ctx, prompt, GenerateConfig{Temperature: 0.1, JSONOutput: true})
	if err != nil {
		return nil, err
	}

	cleaned := cleanMarkdownJSON(raw)
	if err := validateScorePayload([]byte(cleaned)); err != nil {
		return nil, err
	}

	var out ScoreResult
	if err := json.Unmarshal([]byte(cleaned), &out); err != nil {
		return nil, fmt.Errorf("parse scoring response: %w", err)
	}
	if out.MissingSkills == nil {
		out.MissingSkills = []string{}
	}
	return &out, nil
}

func validateScorePayload(raw []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(scoreSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("scoring response is not valid JSON: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("scoring response failed validation: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// cleanMarkdownJSON strips code fences some models wrap around JSON answers.
func cleanMarkdownJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
