package loader

import (
	"fmt"
	"os"
)

// TextLoader reads plain-text content as-is.
type TextLoader struct{}

func (l *TextLoader) Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}
