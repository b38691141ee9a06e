package core

import "unicode/utf8"

// LinkSeparator joins a post body and its trailing link.
const LinkSeparator = "\n"

// Topic is one line of a topic file plus any link lines that follow it.
type Topic struct {
	Description string   `json:"description"` // Text appended to the prompt
	Links       []string `json:"links"`       // Candidate links, one is chosen per run
}

// TopicGroup is a weighted category of topics backed by a single file.
type TopicGroup struct {
	TypeName string  `json:"type_name"` // Trailing word of the file name (e.g. "informative")
	Weight   int     `json:"weight"`    // Leading integer of the file name, always >= 1
	Path     string  `json:"path"`      // File the topics are read from
	Topics   []Topic `json:"topics"`    // Populated lazily for the selected group
}

// Selection is the outcome of picking a group, a topic in it and one of its links.
type Selection struct {
	TypeName string `json:"type_name"`
	Topic    Topic  `json:"topic"`
	Link     string `json:"link,omitempty"`
}

// PlatformBudget is the maximum post length a platform accepts.
type PlatformBudget struct {
	Name  string `mapstructure:"name" json:"name"`
	Limit int    `mapstructure:"limit" json:"limit"`
}

// Budgets keeps platform budgets in publish order.
type Budgets []PlatformBudget

// Min returns the smallest configured limit, or 0 when there are none.
func (b Budgets) Min() int {
	minLimit := 0
	for i, p := range b {
		if i == 0 || p.Limit < minLimit {
			minLimit = p.Limit
		}
	}
	return minLimit
}

// Limit returns the limit for a platform and whether it is configured.
func (b Budgets) Limit(name string) (int, bool) {
	for _, p := range b {
		if p.Name == name {
			return p.Limit, true
		}
	}
	return 0, false
}

// Names returns the platform names in order.
func (b Budgets) Names() []string {
	names := make([]string, 0, len(b))
	for _, p := range b {
		names = append(names, p.Name)
	}
	return names
}

// FittedPost is the normalized, length-compliant text for one platform.
type FittedPost struct {
	Platform  string `json:"platform"`
	Body      string `json:"body"`
	Link      string `json:"link,omitempty"`
	Attempts  int    `json:"attempts"`  // Number of shorten calls it took
	Truncated bool   `json:"truncated"` // Set when the shrink loop gave up and the body was cut
}

// Text returns the body with the link appended on its own line.
func (p FittedPost) Text() string {
	if p.Link == "" {
		return p.Body
	}
	return p.Body + LinkSeparator + p.Link
}

// Length returns the character count of Text().
func (p FittedPost) Length() int {
	return utf8.RuneCountInString(p.Text())
}

// LinkLength is the number of characters a link consumes, separator included.
func LinkLength(link string) int {
	if link == "" {
		return 0
	}
	return utf8.RuneCountInString(LinkSeparator + link)
}
