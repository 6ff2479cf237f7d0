package copier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go-mod.ewintr.nl/delicious-copy/domain"
	"golang.org/x/time/rate"
)

// Service is everything the job needs from the bookmarking service.
type Service interface {
	FetchInbox(ctx context.Context) ([]domain.InboxEntry, error)
	FetchContacts(ctx context.Context) (domain.ContactSet, error)
	FetchURLInfo(ctx context.Context, fingerprint string) (*domain.URLInfo, error)
	CreateBookmark(ctx context.Context, bm domain.Bookmark) error
}

type Recorder interface {
	Record(ctx context.Context, o domain.Outcome) error
}

type Config struct {
	LogFile string
	Verbose bool
	// SkipLogged skips entries whose url is already in the log as a
	// resume marker, and writes such a marker for every copied url.
	SkipLogged bool
	// Delay is the pause before each url info lookup, counted from the
	// end of the previous service call.
	Delay time.Duration
	// CopyNotes sends the inbox entry notes along as extended text.
	CopyNotes bool
}

type Option func(*Job)

func WithLogger(logger *slog.Logger) Option {
	return func(j *Job) { j.logger = logger }
}

func WithRecorder(r Recorder) Option {
	return func(j *Job) { j.recorder = r }
}

func WithClock(now func() time.Time) Option {
	return func(j *Job) { j.now = now }
}

type Job struct {
	svc      Service
	cfg      Config
	inbox    []domain.InboxEntry
	contacts domain.ContactSet
	logger   *slog.Logger
	recorder Recorder
	now      func() time.Time
}

type Report struct {
	RunID   string
	Resumed int
	Aborted bool
	Counts  map[domain.Status]int
}

// New fetches the inbox and the network of the account. Both are kept
// for the lifetime of the job.
func New(ctx context.Context, svc Service, cfg Config, opts ...Option) (*Job, error) {
	j := &Job{
		svc:    svc,
		cfg:    cfg,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}

	inbox, err := svc.FetchInbox(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not fetch inbox: %w", err)
	}
	contacts, err := svc.FetchContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not fetch network: %w", err)
	}
	j.inbox = inbox
	j.contacts = contacts

	return j, nil
}

// Check copies the inbox entries of trusted posters to the account's
// bookmarks. Only a service failure is returned as error, and it stops
// the run at the failing entry.
func (j *Job) Check(ctx context.Context) (Report, error) {
	report := Report{
		RunID:  uuid.NewString(),
		Counts: make(map[domain.Status]int),
	}
	logger := j.logger.With("run", report.RunID, "logfile", j.cfg.LogFile)

	lines, err := readResume(j.cfg.LogFile)
	if err != nil {
		logger.Warn("could not read resume data", "error", err)
	}
	if len(lines) > 0 {
		logger.Info("resume data read", "lines", len(lines))
	}
	report.Resumed = len(lines)
	resume := resumeSet(lines)
	if j.cfg.SkipLogged {
		j.mergeHistory(ctx, logger, resume)
	}

	lw, err := openAppend(j.cfg.LogFile, j.now)
	if err != nil {
		logger.Error("could not open log file for appending", "error", err)
		report.Aborted = true
		return report, nil
	}

	for i, entry := range j.inbox {
		index := i + 1
		status, tags, err := j.process(ctx, lw, resume, index, entry)
		report.Counts[status]++
		j.record(ctx, logger, domain.Outcome{
			RunID:  report.RunID,
			Index:  index,
			URL:    entry.Link,
			Author: entry.Author,
			Status: status,
			Tags:   tags,
			Time:   j.now(),
		})
		if err != nil {
			lw.logf("ERROR: %v", err)
			if cerr := lw.Close(); cerr != nil {
				logger.Error("could not close log file", "error", cerr)
			}
			logger.Error("run aborted", "entry", index, "url", entry.Link, "error", err)
			return report, fmt.Errorf("%w: %w", ErrServiceFailure, err)
		}
	}

	if err := lw.Close(); err != nil {
		logger.Error("could not close log file", "error", err)
	}
	logger.Info("run finished", "entries", len(j.inbox), "saved", report.Counts[domain.StatusSaved])

	return report, nil
}

func (j *Job) process(ctx context.Context, lw *logWriter, resume map[string]struct{}, index int, entry domain.InboxEntry) (domain.Status, string, error) {
	if !j.contacts.Contains(entry.Author) {
		err := fmt.Errorf("%w: %s", ErrUnauthorized, entry.Author)
		return j.handle(lw, entry, "", err)
	}

	if j.cfg.SkipLogged {
		if _, ok := resume[entry.Link]; ok {
			if j.cfg.Verbose {
				lw.logf("Skipping %s, already logged", entry.Link)
			}
			return domain.StatusSkipped, "", nil
		}
	}

	if j.cfg.Verbose {
		lw.logf("Processing entry #%d: '%s'", index, entry.Link)
	}

	tags, err := j.copyEntry(ctx, entry)
	return j.handle(lw, entry, tags, err)
}

func (j *Job) copyEntry(ctx context.Context, entry domain.InboxEntry) (string, error) {
	if err := j.pause(ctx); err != nil {
		return "", err
	}

	info, err := j.svc.FetchURLInfo(ctx, Fingerprint(entry.Link))
	if err != nil {
		return "", err
	}
	if info == nil {
		return "", ErrMissingMetadata
	}

	tags := BuildTags(entry.Author, info.TopTags)
	bm := domain.Bookmark{
		URL:   entry.Link,
		Title: info.Title,
		Tags:  tags,
	}
	if j.cfg.CopyNotes {
		bm.Notes = entry.Notes
	}

	return tags, j.svc.CreateBookmark(ctx, bm)
}

func (j *Job) handle(lw *logWriter, entry domain.InboxEntry, tags string, err error) (domain.Status, string, error) {
	if err == nil {
		if j.cfg.Verbose {
			lw.logf("Saved %s", entry.Link)
		}
		if j.cfg.SkipLogged {
			lw.marker(entry.Link)
		}
		return domain.StatusSaved, tags, nil
	}

	switch KindOf(err) {
	case KindUnauthorized:
		lw.line(fmt.Sprintf("[LOG] ERROR: %s not authorized, not saving %s", entry.Author, entry.Link))
		return domain.StatusUnauthorized, "", nil
	case KindMissingMetadata:
		return domain.StatusNoMetadata, "", nil
	case KindAlreadyExists:
		if j.cfg.Verbose {
			lw.logf("%s already added", entry.Link)
		}
		if j.cfg.SkipLogged {
			lw.marker(entry.Link)
		}
		return domain.StatusDuplicate, tags, nil
	default:
		return domain.StatusFailed, tags, err
	}
}

// pause waits the full delay counted from now, however long the
// previous service calls took.
func (j *Job) pause(ctx context.Context) error {
	if j.cfg.Delay <= 0 {
		return nil
	}
	limiter := rate.NewLimiter(rate.Every(j.cfg.Delay), 1)
	limiter.Allow()
	return limiter.Wait(ctx)
}

// copiedLister is implemented by recorders that can tell which urls
// were copied in earlier runs.
type copiedLister interface {
	CopiedURLs(ctx context.Context) ([]string, error)
}

func (j *Job) mergeHistory(ctx context.Context, logger *slog.Logger, resume map[string]struct{}) {
	cl, ok := j.recorder.(copiedLister)
	if !ok {
		return
	}
	urls, err := cl.CopiedURLs(ctx)
	if err != nil {
		logger.Warn("could not read copy history", "error", err)
		return
	}
	for _, u := range urls {
		resume[u] = struct{}{}
	}
}

func (j *Job) record(ctx context.Context, logger *slog.Logger, o domain.Outcome) {
	if j.recorder == nil {
		return
	}
	if err := j.recorder.Record(ctx, o); err != nil {
		logger.Warn("could not record outcome", "url", o.URL, "error", err)
	}
}
