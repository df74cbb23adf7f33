package domain

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/common"
)

// Entry is a single diary record owned by one user.
//
// Version is the owner's change sequence number at the time of the last
// write; it only ever grows for a given entry.
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      Mood      `json:"mood,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int64     `json:"version"`
}

// EntryInput holds the user-editable fields of an entry.
type EntryInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Mood    Mood     `json:"mood,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Normalize trims title and tags and drops empty and duplicate tags,
// keeping first-seen order.
func (in EntryInput) Normalize() EntryInput {
	out := EntryInput{
		Title:   strings.TrimSpace(in.Title),
		Content: in.Content,
		Mood:    Mood(strings.TrimSpace(string(in.Mood))),
	}

	seen := make(map[string]struct{}, len(in.Tags))
	for _, t := range in.Tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out.Tags = append(out.Tags, t)
	}
	return out
}

func (in EntryInput) Validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return common.Validationf("title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return common.Validationf("content is required")
	}
	if in.Mood != "" && !in.Mood.Known() {
		return common.Validationf("unknown mood %q", in.Mood)
	}
	return nil
}

// Input returns the editable part of e.
func (e Entry) Input() EntryInput {
	return EntryInput{
		Title:   e.Title,
		Content: e.Content,
		Mood:    e.Mood,
		Tags:    append([]string(nil), e.Tags...),
	}
}

// HasTag reports whether e carries tag (case-insensitive).
func (e Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
