package loader

import (
	"context"
	"fmt"
	"os/exec"
)

// CommandRunner executes an external command and returns its stdout.
// Injected so tests can avoid a pdftotext dependency.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// PDFLoader extracts text with the pdftotext utility.
type PDFLoader struct {
	runner CommandRunner
}

func NewPDFLoader(runner CommandRunner) *PDFLoader {
	if runner == nil {
		runner = execRunner{}
	}
	return &PDFLoader{runner: runner}
}

func (l *PDFLoader) Load(path string) (string, error) {
	// "-" writes the extracted text to stdout.
	out, err := l.runner.Run(context.Background(), "pdftotext", "-layout", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext failed: %w", err)
	}
	return string(out), nil
}
