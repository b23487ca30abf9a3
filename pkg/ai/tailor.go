package ai

import (
	"context"
	"fmt"
	"strings"
)

// resumeSnippetLen bounds how much resume text goes into the cover letter
// prompt; the full text already went into the suggestions call.
const resumeSnippetLen = 1500

// TailorRequest carries everything the tailoring stage needs.
type TailorRequest struct {
	Resume         string
	JobDescription string
	MissingSkills  []string
	ApplicantName  string
	JobTitle       string
	Company        string
}

// TailorResult is the tailoring stage's output contract.
type TailorResult struct {
	ResumeSuggestions string `json:"resume_suggestions"`
	CoverLetter       string `json:"cover_letter"`
}

const suggestionsPrompt = `You are an elite resume coach and ATS specialist. Analyze the resume against the job description and produce a numbered list of **specific, actionable edits** the applicant should make to improve their match score.

Rules:
- Be concrete: quote or reference actual resume text, then say exactly how to rewrite it
- Focus on: keyword alignment, quantified achievements, missing skills, section order, and tone
- Include 5-10 suggestions
- Mention missing skills (%s) the applicant should highlight if they have any relevant experience
- Do NOT rewrite the full resume - only targeted suggestions
- Format: numbered list, each item one short paragraph

RESUME:
%s

JOB DESCRIPTION:
%s

Write the suggestions now:`

const coverLetterPrompt = `Write a compelling, tailored cover letter for %s applying for %s at %s.

Rules:
- 3-4 paragraphs: strong hook, relevant experience aligned to the JD, value proposition, call-to-action
- Mirror keywords and tone from the job description
- Sound enthusiastic and human - avoid corporate boilerplate
- Do NOT open with "I am writing to express my interest"
- Address "Hiring Manager" unless a name is given
- Keep it under 350 words

JOB DESCRIPTION:
%s

APPLICANT RESUME (first 1500 chars):
%s

Write the cover letter now:`

// TailorDocuments produces resume-edit suggestions and a cover letter with
// two independent model calls at a moderate temperature.
func (c *Client) TailorDocuments(ctx context.Context, req TailorRequest) (*TailorResult, error) {
	missing := "none identified"
	if len(req.MissingSkills) > 0 {
		missing = strings.Join(req.MissingSkills, ", ")
	}
	gen := GenerateConfig{Temperature: 0.4}

	suggestions, err := c.Generate(ctx,
		fmt.Sprintf(suggestionsPrompt, missing, req.Resume, req.JobDescription), gen)
	if err != nil {
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}

	snippet := req.Resume
	if len(snippet) > resumeSnippetLen {
		snippet = snippet[:resumeSnippetLen]
	}
	cover, err := c.Generate(ctx,
		fmt.Sprintf(coverLetterPrompt, req.ApplicantName, req.JobTitle, req.Company, req.JobDescription, snippet), gen)
	if err != nil {
		return nil, fmt.Errorf("generate cover letter: %w", err)
	}

	return &TailorResult{
		ResumeSuggestions: strings.TrimSpace(suggestions),
		CoverLetter:       strings.TrimSpace(cover),
	}, nil
}
