package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/moodiary/internal/client/state"
	"github.com/dmitrijs2005/moodiary/internal/domain"
)

const shortIDLen = 8

// clearValue wipes an optional field while editing.
const clearValue = "-"

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "#" + strings.Join(tags, " #")
}

func formatMood(m domain.Mood) string {
	if m == "" {
		return ""
	}
	if icon := m.Icon(); icon != "" {
		return icon + " " + string(m)
	}
	return string(m)
}

func (a *App) printEntries(entries []domain.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No entries yet.")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tMOOD\tTITLE\tTAGS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			shortID(e.ID),
			e.CreatedAt.Local().Format("2006-01-02 15:04"),
			formatMood(e.Mood),
			e.Title,
			formatTags(e.Tags),
		)
	}
	_ = tw.Flush()
}

func (a *App) printEntry(e domain.Entry) {
	fmt.Fprintf(a.out, "%s\n", e.Title)
	fmt.Fprintf(a.out, "id:      %s\n", e.ID)
	fmt.Fprintf(a.out, "created: %s\n", e.CreatedAt.Local().Format("2006-01-02 15:04"))
	if e.UpdatedAt.After(e.CreatedAt) {
		fmt.Fprintf(a.out, "updated: %s\n", e.UpdatedAt.Local().Format("2006-01-02 15:04"))
	}
	if e.Mood != "" {
		fmt.Fprintf(a.out, "mood:    %s\n", formatMood(e.Mood))
	}
	if len(e.Tags) > 0 {
		fmt.Fprintf(a.out, "tags:    %s\n", formatTags(e.Tags))
	}
	fmt.Fprintf(a.out, "\n%s\n", e.Content)
}

// resolveID expands a unique id prefix taken from the list output. Anything
// else is passed through unchanged.
func (a *App) resolveID(arg string) (string, error) {
	var matches []string
	for _, e := range a.state.Diary.Entries() {
		if e.ID == arg {
			return arg, nil
		}
		if strings.HasPrefix(e.ID, arg) {
			matches = append(matches, e.ID)
		}
	}
	switch len(matches) {
	case 0:
		return arg, nil
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("id prefix %q matches %d entries", arg, len(matches))
}

func (a *App) entryArg(args []string, usage string) (string, error) {
	if len(args) != 1 {
		return "", usagef("%s", usage)
	}
	id, err := a.resolveID(args[0])
	if err != nil {
		fmt.Fprintln(a.out, err.Error())
		return "", err
	}
	return id, nil
}

func (a *App) List(ctx context.Context, _ []string) error {
	a.printEntries(a.state.Diary.Entries())
	return nil
}

// parseFilter reads "mood=<label>" and "tag=<tag>" terms; everything else
// is free text. Underscores in mood labels stand for spaces.
func parseFilter(args []string) state.Filter {
	var (
		f    state.Filter
		text []string
	)
	for _, arg := range args {
		switch {
		case strings.HasPrefix(arg, "mood="):
			f.Mood = domain.Mood(strings.ReplaceAll(strings.TrimPrefix(arg, "mood="), "_", " "))
		case strings.HasPrefix(arg, "tag="):
			f.Tag = strings.TrimPrefix(arg, "tag=")
		default:
			text = append(text, arg)
		}
	}
	f.Text = strings.Join(text, " ")
	return f
}

func (a *App) Search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usagef("search [text] [mood=<label>] [tag=<tag>]")
	}
	a.printEntries(a.state.Diary.Search(parseFilter(args)))
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.entryArg(args, "show <id>")
	if err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	e, ok := a.state.Diary.GetEntry(ctx, id)
	if !ok {
		fmt.Fprintln(a.out, "Entry not found.")
		return nil
	}
	a.printEntry(*e)
	return nil
}

func (a *App) New(ctx context.Context, _ []string) error {
	var (
		in  domain.EntryInput
		err error
	)

	if in.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if in.Content, err = getMultiline(a.reader, "How was your day?", a.out); err != nil {
		return err
	}
	mood, err := getSimpleText(a.reader, "Mood (empty for none, 'moods' lists them)", a.out)
	if err != nil {
		return err
	}
	in.Mood = domain.Mood(mood)
	tags, err := getSimpleText(a.reader, "Tags (comma separated)", a.out)
	if err != nil {
		return err
	}
	in.Tags = SplitTags(tags)

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	if e, ok := a.state.Diary.AddEntry(ctx, in); ok {
		fmt.Fprintf(a.out, "id: %s\n", e.ID)
	}
	return nil
}

// Edit prompts for each field showing the current value. An empty answer
// keeps it; "-" clears mood or tags.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.entryArg(args, "edit <id>")
	if err != nil {
		return err
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()

	cur, ok := a.state.Diary.GetEntry(ctx, id)
	if !ok {
		fmt.Fprintln(a.out, "Entry not found.")
		return nil
	}
	in := cur.Input()

	title, err := getSimpleText(a.reader, fmt.Sprintf("Title [%s]", cur.Title), a.out)
	if err != nil {
		return err
	}
	if title != "" {
		in.Title = title
	}

	content, err := getMultiline(a.reader, "Content (empty keeps the current text)", a.out)
	if err != nil {
		return err
	}
	if content != "" {
		in.Content = content
	}

	mood, err := getSimpleText(a.reader, fmt.Sprintf("Mood [%s] ('-' clears)", cur.Mood), a.out)
	if err != nil {
		return err
	}
	switch mood {
	case "":
	case clearValue:
		in.Mood = ""
	default:
		in.Mood = domain.Mood(mood)
	}

	tags, err := getSimpleText(a.reader, fmt.Sprintf("Tags [%s] ('-' clears)", strings.Join(cur.Tags, ", ")), a.out)
	if err != nil {
		return err
	}
	switch tags {
	case "":
	case clearValue:
		in.Tags = nil
	default:
		in.Tags = SplitTags(tags)
	}

	a.state.Diary.UpdateEntry(ctx, id, in)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.entryArg(args, "delete <id>")
	if err != nil {
		return err
	}

	label := id
	if e, ok := a.state.Diary.GetEntry(ctx, id); ok {
		label = fmt.Sprintf("%q", e.Title)
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete %s? [y/N]", label), a.out)
	if err != nil {
		return err
	}
	if !IsYes(answer) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	a.state.Diary.DeleteEntry(ctx, id)
	return nil
}
