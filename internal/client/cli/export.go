package cli

import (
	"context"
)

// Export writes the loaded entries to a JSON file in the export directory.
func (a *App) Export(ctx context.Context, _ []string) error {
	a.state.Diary.ExportEntries(ctx)
	return nil
}

// Archive stores an export on the server and downloads a copy.
func (a *App) Archive(ctx context.Context, _ []string) error {
	ctx, cancel := a.requestContext(ctx)
	defer cancel()
	a.state.Diary.ArchiveEntries(ctx)
	return nil
}
