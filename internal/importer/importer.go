// Package importer loads recorded GPX tracks into cardio history by
// replaying them through the live tracking rules.
package importer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tkrajina/gpxgo/gpx"

	"github.com/claude/fitlife/internal/cardio"
	"github.com/claude/fitlife/internal/models"
	"github.com/claude/fitlife/internal/storage"
)

// Import log statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusError   = "error"
)

const logSource = "gpx_import"

// Store is the persistence the importer needs.
type Store interface {
	SaveCardio(ctx context.Context, rec models.CardioRecord) error
	IsFileImported(ctx context.Context, userID int, hash string) (bool, error)
	MarkFileImported(ctx context.Context, userID int, hash, path string, recordID uuid.UUID) error
	InsertImportLog(ctx context.Context, log storage.ImportLog) (int64, error)
	UpdateImportLog(ctx context.Context, id int64, log storage.ImportLog) error
}

// Stats tracks import progress.
type Stats struct {
	FilesSeen     int
	FilesImported int
	FilesSkipped  int
	FilesErrored  int

	TracksImported int
	DistanceKm     float64
}

// Option configures an Importer.
type Option func(*Importer)

// WithUser sets the user the tracks are stored for.
func WithUser(id int) Option {
	return func(imp *Importer) { imp.userID = id }
}

// WithActivity sets the activity used for tracks without a recognised
// <type>. Indoor running has no GPS route and is ignored.
func WithActivity(activity string) Option {
	return func(imp *Importer) {
		if activity != "" && activity != models.ActivityIndoorRunning {
			imp.activity = activity
		}
	}
}

// WithWeight sets the body weight used for calories.
func WithWeight(kg float64) Option {
	return func(imp *Importer) { imp.weightKg = kg }
}

// WithDryRun parses and replays files without writing anything.
func WithDryRun(dryRun bool) Option {
	return func(imp *Importer) { imp.dryRun = dryRun }
}

// Importer reads .gpx and .gpx.gz files from a directory tree and stores
// each track as a cardio record.
type Importer struct {
	store    Store
	log      *slog.Logger
	userID   int
	activity string
	weightKg float64
	dryRun   bool
	stats    Stats
}

// New creates a new Importer.
func New(store Store, log *slog.Logger, opts ...Option) *Importer {
	imp := &Importer{
		store:    store,
		log:      log,
		userID:   1,
		activity: models.ActivityRunning,
		weightKg: cardio.DefaultWeightKg,
	}
	if imp.log == nil {
		imp.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Import processes every track file under dir. Unreadable files are
// counted and skipped; only storage failures abort the run.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	start := time.Now()
	imp.stats = Stats{}

	files, err := trackFiles(dir)
	if err != nil {
		return &imp.stats, err
	}

	var logID int64
	if !imp.dryRun {
		logID, err = imp.store.InsertImportLog(ctx, storage.ImportLog{
			UserID: imp.userID,
			Source: logSource,
			Status: StatusRunning,
		})
		if err != nil {
			return &imp.stats, fmt.Errorf("creating import log: %w", err)
		}
	}

	var runErr error
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		imp.stats.FilesSeen++
		if err := imp.importFile(ctx, path); err != nil {
			runErr = err
			break
		}
	}

	if !imp.dryRun {
		imp.finishLog(ctx, logID, start, runErr)
	}
	return &imp.stats, runErr
}

// importFile handles one file. Parse failures are logged and counted;
// the returned error is reserved for storage failures.
func (imp *Importer) importFile(ctx context.Context, path string) error {
	raw, doc, err := readTrackFile(path)
	if err != nil {
		imp.log.Warn("read failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	hash := hashBytes(raw)
	if !imp.dryRun {
		done, err := imp.store.IsFileImported(ctx, imp.userID, hash)
		if err != nil {
			return fmt.Errorf("checking %s: %w", filepath.Base(path), err)
		}
		if done {
			imp.log.Debug("already imported", "file", path)
			imp.stats.FilesSkipped++
			return nil
		}
	}

	parsed, err := gpx.ParseBytes(doc)
	if err != nil {
		imp.log.Warn("parse failed", "file", path, "error", err)
		imp.stats.FilesErrored++
		return nil
	}

	var (
		first  uuid.UUID
		tracks int
	)
	for _, trk := range parsed.Tracks {
		points := trackPoints(trk)
		if len(points) == 0 {
			continue
		}
		sum := Replay(imp.activityFor(trk.Type), points, imp.weightKg)
		rec := models.CardioRecord{ID: uuid.New(), UserID: imp.userID, Summary: sum}

		if !imp.dryRun {
			if err := imp.store.SaveCardio(ctx, rec); err != nil {
				return fmt.Errorf("saving track from %s: %w", filepath.Base(path), err)
			}
		}
		if tracks == 0 {
			first = rec.ID
		}
		tracks++
		imp.stats.TracksImported++
		imp.stats.DistanceKm += sum.DistanceKm
	}

	if tracks == 0 {
		imp.log.Info("no track points", "file", path)
		imp.stats.FilesSkipped++
		return nil
	}

	imp.stats.FilesImported++
	if imp.dryRun {
		return nil
	}
	if err := imp.store.MarkFileImported(ctx, imp.userID, hash, path, first); err != nil {
		return fmt.Errorf("marking %s: %w", filepath.Base(path), err)
	}
	imp.log.Info("imported", "file", filepath.Base(path))
	return nil
}

func (imp *Importer) finishLog(ctx context.Context, id int64, start time.Time, runErr error) {
	durationMs := int(time.Since(start).Milliseconds())
	entry := storage.ImportLog{
		UserID:        imp.userID,
		Source:        logSource,
		Status:        StatusSuccess,
		FilesSeen:     imp.stats.FilesSeen,
		FilesImported: imp.stats.FilesImported,
		FilesSkipped:  imp.stats.FilesSkipped,
		DurationMs:    &durationMs,
	}
	switch {
	case runErr != nil:
		entry.Status = StatusError
		msg := runErr.Error()
		entry.ErrorMessage = &msg
	case imp.stats.FilesErrored > 0:
		entry.Status = StatusPartial
		msg := fmt.Sprintf("%d files could not be read", imp.stats.FilesErrored)
		entry.ErrorMessage = &msg
	}
	// The run context may already be cancelled; the log entry should still land.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := imp.store.UpdateImportLog(ctx, id, entry); err != nil {
		imp.log.Error("failed to update import log", "id", id, "error", err)
	}
}

var trackTypes = map[string]string{
	"running": models.ActivityRunning,
	"run":     models.ActivityRunning,
	"walking": models.ActivityWalking,
	"walk":    models.ActivityWalking,
	"hiking":  models.ActivityWalking,
	"cycling": models.ActivityCycling,
	"biking":  models.ActivityCycling,
	"ride":    models.ActivityCycling,
}

func (imp *Importer) activityFor(trackType string) string {
	if a, ok := trackTypes[strings.ToLower(strings.TrimSpace(trackType))]; ok {
		return a
	}
	return imp.activity
}

// Replay runs points through a cardio track whose clock follows the point
// timestamps, so glitch filtering, pace and calories match live tracking.
func Replay(activity string, points []gpx.GPXPoint, weightKg float64) models.CardioSummary {
	clock := points[0].Timestamp
	tr := cardio.NewTrack(activity,
		cardio.WithClock(func() time.Time { return clock }),
		cardio.WithWeight(weightKg),
	)
	tr.SetStatus(cardio.StatusReady)
	tr.Start()
	for _, p := range points {
		if p.Timestamp.After(clock) {
			clock = p.Timestamp
		}
		tr.AddSample(models.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude, Timestamp: p.Timestamp})
	}
	return tr.Stop()
}

func trackPoints(trk gpx.GPXTrack) []gpx.GPXPoint {
	var points []gpx.GPXPoint
	for _, seg := range trk.Segments {
		points = append(points, seg.Points...)
	}
	return points
}

// trackFiles returns the .gpx and .gpx.gz files under dir in path order.
func trackFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		name := strings.ToLower(d.Name())
		if strings.HasSuffix(name, ".gpx") || strings.HasSuffix(name, ".gpx.gz") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}
