package prompt

import (
	"fmt"
	"strings"
)

// TweetPromptTemplate is filled with the article suffix, the topic type and the description.
const TweetPromptTemplate = "Write a%s %s tweet %s"

// BuildPrompt creates the generation instruction for a topic type and description,
// choosing "a" or "an" from the type's first letter.
func BuildPrompt(typeName, description string) string {
	return fmt.Sprintf(TweetPromptTemplate, articleSuffix(typeName), typeName, description)
}

func articleSuffix(word string) string {
	if word == "" {
		return ""
	}
	if strings.ContainsRune("aeiou", toLowerASCII(word[0])) {
		return "n"
	}
	return ""
}

func toLowerASCII(b byte) rune {
	if b >= 'A' && b <= 'Z' {
		return rune(b + ('a' - 'A'))
	}
	return rune(b)
}
