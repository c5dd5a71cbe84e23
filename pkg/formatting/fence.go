// Package formatting provides parsing utilities for markdown code fences
// and human-readable byte sizes.
package formatting

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Fence extraction errors.
var (
	ErrFenceNotFound  = errors.New("fenced block not found")
	ErrAmbiguousFence = errors.New("multiple fenced blocks found")
)

var anyFencePattern = regexp.MustCompile("(?s)```.*?\\n(.*?)```")

// ExtractFence returns the contents of the single fenced code block carrying
// the given language label. It fails if no such block exists or if more than
// one does; callers that tolerate ambiguity should use ExtractAnyFence.
func ExtractFence(content, label string) (string, error) {
	pattern := regexp.MustCompile("(?s)```" + regexp.QuoteMeta(label) + "\\s*\\n?(.*?)\\n?```")

	matches := pattern.FindAllStringSubmatch(content, -1)
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: label %q", ErrFenceNotFound, label)
	case 1:
		return strings.TrimSpace(matches[0][1]), nil
	default:
		return "", fmt.Errorf("%w: label %q occurs %d times", ErrAmbiguousFence, label, len(matches))
	}
}

// ExtractAnyFence returns the contents of the first fenced code block
// regardless of label, or the input unchanged when no fence is present.
// The boolean reports whether a fence was found.
func ExtractAnyFence(content string) (string, bool) {
	matches := anyFencePattern.FindStringSubmatch(content)
	if len(matches) >= 2 {
		return strings.TrimSpace(matches[1]), true
	}
	return content, false
}
