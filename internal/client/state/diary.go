package state

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/client/client"
	"github.com/dmitrijs2005/moodiary/internal/common"
	"github.com/dmitrijs2005/moodiary/internal/domain"
	"github.com/dmitrijs2005/moodiary/internal/filex"
	"github.com/dmitrijs2005/moodiary/internal/logging"
	"github.com/dmitrijs2005/moodiary/internal/netx"
	"github.com/google/uuid"
)

// Filter narrows Search results. Zero fields match everything.
type Filter struct {
	// Text is matched case-insensitively against title and content.
	Text string
	Mood domain.Mood
	Tag  string
}

func (f Filter) match(e domain.Entry) bool {
	if f.Mood != "" && e.Mood != f.Mood {
		return false
	}
	if f.Tag != "" && !e.HasTag(f.Tag) {
		return false
	}
	if f.Text != "" {
		q := strings.ToLower(f.Text)
		if !strings.Contains(strings.ToLower(e.Title), q) && !strings.Contains(strings.ToLower(e.Content), q) {
			return false
		}
	}
	return true
}

// Diary holds the signed-in user's entries and keeps them in sync with the
// server's change feed.
type Diary struct {
	client           client.Client
	notifier         Notifier
	logger           logging.Logger
	exportDir        string
	resubscribeDelay time.Duration

	now      func() time.Time
	newID    func() string
	download func(ctx context.Context, url string) ([]byte, error)

	mu      sync.RWMutex
	list    *EntryList
	userID  string
	since   int64
	loading bool
	stop    context.CancelFunc
	done    chan struct{}
}

func NewDiary(c client.Client, n Notifier, l logging.Logger, exportDir string, resubscribeDelay time.Duration) *Diary {
	if n == nil {
		n = nopNotifier{}
	}
	return &Diary{
		client:           c,
		notifier:         n,
		logger:           l.With("module", "diary"),
		exportDir:        exportDir,
		resubscribeDelay: resubscribeDelay,
		now:              time.Now,
		newID:            uuid.NewString,
		download:         netx.Download,
		list:             NewEntryList(),
	}
}

// SetUser switches the diary to u: the watcher of the previous user is
// stopped, the list is cleared and, for a non-nil u, reloaded and watched.
func (d *Diary) SetUser(ctx context.Context, u *domain.User) {
	d.stopWatch()

	d.mu.Lock()
	d.list.Reset(nil)
	d.since = 0
	d.userID = ""
	if u != nil {
		d.userID = u.ID
	}
	d.mu.Unlock()

	if u == nil {
		return
	}

	d.Load(ctx)

	// The watcher outlives the request that signed the user in.
	wctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})

	d.mu.Lock()
	d.stop = cancel
	d.done = done
	d.mu.Unlock()

	go d.watch(wctx, u.ID, done)
}

// Close stops the change-feed watcher.
func (d *Diary) Close() {
	d.stopWatch()
}

func (d *Diary) stopWatch() {
	d.mu.Lock()
	stop, done := d.stop, d.done
	d.stop, d.done = nil, nil
	d.mu.Unlock()

	if stop != nil {
		stop()
		<-done
	}
}

func (d *Diary) currentUser() (string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.userID, d.userID != ""
}

func (d *Diary) Loading() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.loading
}

func (d *Diary) setLoading(v bool) {
	d.mu.Lock()
	d.loading = v
	d.mu.Unlock()
}

// Load replaces the list with the server's copy.
func (d *Diary) Load(ctx context.Context) bool {
	userID, ok := d.currentUser()
	if !ok {
		return false
	}

	d.setLoading(true)
	defer d.setLoading(false)

	entries, version, err := d.client.ListEntries(ctx)
	if err != nil {
		d.logger.Error(ctx, "loading entries failed", "error", err)
		failure(d.notifier, describe(err, "could not load entries"))
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.userID != userID {
		return false
	}
	d.list.Reset(entries)
	d.since = version
	return true
}

// Version returns the highest change version the diary has caught up to.
func (d *Diary) Version() int64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.since
}

func (d *Diary) watch(ctx context.Context, userID string, done chan struct{}) {
	defer close(done)

	for {
		err := d.follow(ctx, userID)
		if ctx.Err() != nil {
			return
		}
		d.logger.Warn(ctx, "change feed interrupted", "error", err, "retry_in", d.resubscribeDelay.String())

		select {
		case <-ctx.Done():
			return
		case <-time.After(d.resubscribeDelay):
		}
	}
}

func (d *Diary) follow(ctx context.Context, userID string) error {
	stream, err := d.client.Subscribe(ctx, d.Version())
	if err != nil {
		return err
	}
	for {
		ev, err := stream.Recv()
		if err != nil {
			return err
		}
		d.applyRemote(userID, *ev)
	}
}

func (d *Diary) applyRemote(userID string, ev domain.ChangeEvent) {
	if ev.Entry.UserID != "" && ev.Entry.UserID != userID {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.userID != userID {
		return
	}
	d.list.Apply(ev)
	if ev.Entry.Version > d.since {
		d.since = ev.Entry.Version
	}
}

// applyLocal merges the result of a mutation made by this client. It does
// not move the resubscribe cursor: changes from other devices below this
// version may still be in flight.
func (d *Diary) applyLocal(userID string, ev domain.ChangeEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.userID == userID {
		d.list.Apply(ev)
	}
}

func (d *Diary) requireUser() (string, bool) {
	userID, ok := d.currentUser()
	if !ok {
		failure(d.notifier, "log in first")
	}
	return userID, ok
}

func (d *Diary) validate(in domain.EntryInput) (domain.EntryInput, bool) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		failure(d.notifier, err.Error())
		return in, false
	}
	return in, true
}

// AddEntry creates an entry under a client-generated id, so a retried
// request cannot create a duplicate.
func (d *Diary) AddEntry(ctx context.Context, in domain.EntryInput) (*domain.Entry, bool) {
	userID, ok := d.requireUser()
	if !ok {
		return nil, false
	}
	in, ok = d.validate(in)
	if !ok {
		return nil, false
	}

	d.setLoading(true)
	defer d.setLoading(false)

	e, err := d.client.CreateEntry(ctx, d.newID(), in)
	if err != nil {
		d.logger.Error(ctx, "creating entry failed", "error", err)
		failure(d.notifier, describe(err, "could not save entry"))
		return nil, false
	}

	d.applyLocal(userID, domain.ChangeEvent{Kind: domain.EventInsert, Entry: *e})
	success(d.notifier, "entry saved")
	return e, true
}

func (d *Diary) UpdateEntry(ctx context.Context, id string, in domain.EntryInput) (*domain.Entry, bool) {
	userID, ok := d.requireUser()
	if !ok {
		return nil, false
	}
	in, ok = d.validate(in)
	if !ok {
		return nil, false
	}

	d.setLoading(true)
	defer d.setLoading(false)

	e, err := d.client.UpdateEntry(ctx, id, in)
	if err != nil {
		d.logger.Error(ctx, "updating entry failed", "entry_id", id, "error", err)
		failure(d.notifier, describe(err, "could not update entry"))
		return nil, false
	}

	d.applyLocal(userID, domain.ChangeEvent{Kind: domain.EventUpdate, Entry: *e})
	success(d.notifier, "entry updated")
	return e, true
}

// DeleteEntry removes id. Unknown ids are reported as a failure.
func (d *Diary) DeleteEntry(ctx context.Context, id string) bool {
	userID, ok := d.requireUser()
	if !ok {
		return false
	}

	d.setLoading(true)
	defer d.setLoading(false)

	version, err := d.client.DeleteEntry(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			d.logger.Info(ctx, "delete of unknown entry", "entry_id", id)
		} else {
			d.logger.Error(ctx, "deleting entry failed", "entry_id", id, "error", err)
		}
		failure(d.notifier, describe(err, "could not delete entry"))
		return false
	}

	d.applyLocal(userID, domain.ChangeEvent{
		Kind:  domain.EventDelete,
		Entry: domain.Entry{ID: id, UserID: userID, Version: version},
	})
	success(d.notifier, "entry deleted")
	return true
}

// GetEntry returns the entry from the local list, falling back to the
// server for ids not loaded yet.
func (d *Diary) GetEntry(ctx context.Context, id string) (*domain.Entry, bool) {
	if _, ok := d.currentUser(); !ok {
		return nil, false
	}

	d.mu.RLock()
	e, ok := d.list.Get(id)
	d.mu.RUnlock()
	if ok {
		return &e, true
	}

	remote, err := d.client.GetEntry(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			d.logger.Error(ctx, "fetching entry failed", "entry_id", id, "error", err)
			failure(d.notifier, describe(err, "could not load entry"))
		}
		return nil, false
	}
	return remote, true
}

// Entries returns the user's entries newest first.
func (d *Diary) Entries() []domain.Entry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.list.Entries()
}

func (d *Diary) Search(f Filter) []domain.Entry {
	var out []domain.Entry
	for _, e := range d.Entries() {
		if f.match(e) {
			out = append(out, e)
		}
	}
	return out
}

// ExportEntries writes the loaded entries as a JSON document into the
// export directory and returns the file path.
func (d *Diary) ExportEntries(ctx context.Context) (string, bool) {
	if _, ok := d.requireUser(); !ok {
		return "", false
	}

	entries := d.Entries()
	data, err := domain.MarshalExport(entries)
	if err != nil {
		d.logger.Error(ctx, "encoding export failed", "error", err)
		failure(d.notifier, "could not export entries")
		return "", false
	}

	p, err := d.save(domain.ExportFileName(d.now()), data)
	if err != nil {
		d.logger.Error(ctx, "writing export failed", "error", err)
		failure(d.notifier, "could not export entries")
		return "", false
	}

	success(d.notifier, fmt.Sprintf("exported %d entries to %s", len(entries), p))
	return p, true
}

// ArchiveEntries has the server store an export in object storage and
// downloads it into the export directory.
func (d *Diary) ArchiveEntries(ctx context.Context) (string, bool) {
	if _, ok := d.requireUser(); !ok {
		return "", false
	}

	d.setLoading(true)
	defer d.setLoading(false)

	resp, err := d.client.ArchiveEntries(ctx)
	if err != nil {
		d.logger.Error(ctx, "archiving entries failed", "error", err)
		failure(d.notifier, describe(err, "could not archive entries"))
		return "", false
	}

	data, err := d.download(ctx, resp.URL)
	if err != nil {
		d.logger.Error(ctx, "downloading archive failed", "key", resp.Key, "error", err)
		failure(d.notifier, "could not download archive")
		return "", false
	}

	p, err := d.save(path.Base(resp.Key), data)
	if err != nil {
		d.logger.Error(ctx, "writing archive failed", "error", err)
		failure(d.notifier, "could not save archive")
		return "", false
	}

	success(d.notifier, fmt.Sprintf("archived %d entries to %s", resp.Count, p))
	return p, true
}

func (d *Diary) save(name string, data []byte) (string, error) {
	dir, err := filex.EnsureDir(d.exportDir)
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, name)
	if err := filex.WriteFileAtomic(p, data); err != nil {
		return "", err
	}
	return p, nil
}
