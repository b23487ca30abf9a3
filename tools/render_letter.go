package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"resumeflow/pkg/infrastructure"
)

// Renders a cover letter text file to Cover_Letter.pdf through headless
// Chrome. Useful for tweaking the letter template without sending email.
func main() {
	in := "letter.txt"
	applicant := "Applicant"
	if len(os.Args) > 1 {
		in = os.Args[1]
	}
	if len(os.Args) > 2 {
		applicant = os.Args[2]
	}

	b, err := os.ReadFile(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read letter: %v\n", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	r := infrastructure.NewChromedpRenderer()
	pdf, err := r.RenderCoverLetterPDF(ctx, applicant, string(b))
	if err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(2)
	}

	out := "Cover_Letter.pdf"
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write pdf: %v\n", err)
		os.Exit(2)
	}
	fmt.Printf("wrote %s (%d bytes)\n", out, len(pdf))
}
