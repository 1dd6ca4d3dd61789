package errors

import (
	"fmt"
	"strings"
)

// SuggestForKind returns a generic hint for fixing an error of the given kind.
func SuggestForKind(kind Kind) string {
	switch kind {
	case KindEmptyDocument:
		return "Add at least one list item, e.g. '- item'"
	case KindIndentationMismatch:
		return "Align the line with an enclosing item or key (spaces only)"
	case KindDuplicateKey:
		return "Remove or rename one of the repeated keys"
	case KindUnterminatedQuote:
		return "Close the quoted scalar on the same line"
	case KindMalformedFlow:
		return "Check brackets and commas in the inline collection"
	case KindRootNotSequence:
		return "Start the document with '- ' items instead of 'key: value' pairs"
	case KindDepthExceeded:
		return "Flatten the document or raise engine.max_depth"
	case KindInputTooLarge:
		return "Split the document or raise engine.max_input_bytes"
	}
	return ""
}

// SuggestKey suggests a mapping key close to unknown.
// It uses Levenshtein distance to find a likely typo.
func SuggestKey(unknown string, validKeys []string) string {
	if len(validKeys) == 0 {
		return ""
	}

	minDistance := 1000
	var bestMatch string

	for _, key := range validKeys {
		dist := levenshteinDistance(unknown, key)
		if dist < minDistance {
			minDistance = dist
			bestMatch = key
		}
	}

	// Only suggest if the distance is reasonable
	if minDistance < 3 {
		return fmt.Sprintf("Did you mean '%s'?", bestMatch)
	}

	if len(validKeys) > 5 {
		return fmt.Sprintf("Valid keys include: %s, ...", strings.Join(validKeys[:5], ", "))
	}
	return fmt.Sprintf("Valid keys: %s", strings.Join(validKeys, ", "))
}

// levenshteinDistance computes the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	len1 := len(s1)
	len2 := len(s2)

	matrix := make([][]int, len1+1)
	for i := range matrix {
		matrix[i] = make([]int, len2+1)
	}

	for i := 0; i <= len1; i++ {
		matrix[i][0] = i
	}
	for j := 0; j <= len2; j++ {
		matrix[0][j] = j
	}

	for i := 1; i <= len1; i++ {
		for j := 1; j <= len2; j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}

			matrix[i][j] = min(
				matrix[i-1][j]+1,      // Deletion
				matrix[i][j-1]+1,      // Insertion
				matrix[i-1][j-1]+cost, // Substitution
			)
		}
	}

	return matrix[len1][len2]
}
