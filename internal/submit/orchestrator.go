// Package submit drives a single report from draft to persisted record.
//
// One Orchestrator owns one draft. The flow mirrors the capture screen:
// acquire a position fix, optionally enrich it with an address and the
// weather at the location, attach a photo, submit. The two enrichment
// lookups are independent, individually retryable, and non-fatal; photo and
// location are hard preconditions for submission. On submit the photo is
// classified (with fixed fallbacks when classification fails), the record is
// persisted, the in-memory collection is updated, and the draft resets so the
// caller acquires a fresh fix for the next report.
package submit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/roadscout/report-service/internal/domain"
	"github.com/roadscout/report-service/internal/observability"
)

// Phase is the lifecycle state of the draft's location and submission.
type Phase string

const (
	PhaseIdle              Phase = "IDLE"
	PhaseAcquiringLocation Phase = "ACQUIRING_LOCATION"
	PhaseLocationReady     Phase = "LOCATION_READY"
	PhaseLocationFailed    Phase = "LOCATION_FAILED"
	PhaseSubmitting        Phase = "SUBMITTING"
	PhaseSubmitFailed      Phase = "SUBMIT_FAILED"
)

// LookupStatus is the state of one optional enrichment branch.
type LookupStatus string

const (
	LookupNotStarted LookupStatus = "NOT_STARTED"
	LookupInFlight   LookupStatus = "IN_FLIGHT"
	LookupReady      LookupStatus = "READY"
	LookupFailed     LookupStatus = "FAILED"
)

// Validation and flow-control errors surfaced to the user.
var (
	ErrLocationNotReady = errors.New("location not ready")
	ErrPhotoRequired    = errors.New("photo required")
	ErrSubmitInFlight   = errors.New("a submission is already in progress")
	ErrLookupInFlight   = errors.New("lookup already in progress")
	ErrLookupDisabled   = errors.New("lookup not configured")
	// ErrSuperseded marks a response that arrived after the draft moved on
	// (location refresh or cancel); the result is discarded, never applied.
	ErrSuperseded = errors.New("result superseded by a newer draft state")
)

// Fixed values adopted when image classification fails for any reason.
const (
	FallbackTitle       = "Incident Report"
	FallbackDescription = "Analysis unavailable"
	FallbackCategory    = "General"
)

// Deps are the collaborators one draft needs. Geocoder, Weather, Analyzer,
// and Events may be nil; the corresponding step degrades gracefully.
type Deps struct {
	Locator  domain.Locator
	Geocoder domain.Geocoder
	Weather  domain.WeatherProvider
	Analyzer domain.ImageAnalyzer
	Store    domain.ReportStore
	Events   domain.ReportPublisher
	Reports  *domain.Collection
	Logger   *slog.Logger
	Metrics  *observability.Metrics
}

// Options tune the position fix policy.
type Options struct {
	LocationTimeout time.Duration // ceiling on one fix attempt
	LocationMaxAge  time.Duration // a fix younger than this is reused on refresh
}

type lookup[T any] struct {
	status LookupStatus
	value  T
	err    error
}

func (l *lookup[T]) reset() {
	var zero T
	l.status = LookupNotStarted
	l.value = zero
	l.err = nil
}

// Orchestrator holds the draft state machine. All methods are safe for
// concurrent use; the address and weather lookups may be driven from
// concurrent callers and be in flight simultaneously.
type Orchestrator struct {
	deps Deps
	opts Options

	mu          sync.Mutex
	phase       Phase
	location    domain.Coordinate
	locationErr error
	fixedAt     time.Time // when the current fix was acquired
	address     lookup[domain.AddressInfo]
	weather     lookup[domain.Weather]
	photo       string
	submitErr   error

	// epoch invalidates in-flight lookups when the draft moves on under
	// them: a location refresh or cancel bumps it, and a completion whose
	// captured epoch no longer matches is discarded.
	epoch uint64
}

// New creates an orchestrator for one draft.
func New(deps Deps, opts Options) *Orchestrator {
	if opts.LocationTimeout <= 0 {
		opts.LocationTimeout = 15 * time.Second
	}
	if opts.LocationMaxAge <= 0 {
		opts.LocationMaxAge = 10 * time.Second
	}
	o := &Orchestrator{
		deps:  deps,
		opts:  opts,
		phase: PhaseIdle,
	}
	o.address.reset()
	o.weather.reset()
	return o
}

// AcquireLocation obtains a position fix for the draft, on screen entry or
// manual retry. A refresh re-seeds the location and clears any previously
// fetched address and weather, since they are keyed to the old coordinate.
// A fix younger than LocationMaxAge is reused without querying the device.
func (o *Orchestrator) AcquireLocation(ctx context.Context) (domain.Coordinate, error) {
	o.mu.Lock()
	if o.phase == PhaseSubmitting {
		o.mu.Unlock()
		return domain.Coordinate{}, ErrSubmitInFlight
	}

	o.epoch++
	ep := o.epoch
	o.address.reset()
	o.weather.reset()

	now := domain.Clock().Now()
	if o.phase == PhaseLocationReady && now.Sub(o.fixedAt) <= o.opts.LocationMaxAge {
		coord := o.location
		o.mu.Unlock()
		return coord, nil
	}

	o.phase = PhaseAcquiringLocation
	o.locationErr = nil
	o.mu.Unlock()

	fixCtx, cancel := context.WithTimeout(ctx, o.opts.LocationTimeout)
	defer cancel()

	coord, err := o.deps.Locator.CurrentPosition(fixCtx, domain.FixRequest{
		HighAccuracy: true,
		Timeout:      o.opts.LocationTimeout,
		MaximumAge:   o.opts.LocationMaxAge,
	})

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.epoch != ep {
		return domain.Coordinate{}, ErrSuperseded
	}
	if err != nil {
		o.phase = PhaseLocationFailed
		o.locationErr = err
		o.deps.Logger.Warn("location fix failed", "error", err)
		return domain.Coordinate{}, err
	}

	o.phase = PhaseLocationReady
	o.location = coord
	o.fixedAt = domain.Clock().Now()
	return coord, nil
}

// FetchAddress reverse-geocodes the current fix. Failure is non-fatal to the
// draft: submission proceeds without an address. Retryable by re-invocation.
func (o *Orchestrator) FetchAddress(ctx context.Context) (domain.AddressInfo, error) {
	o.mu.Lock()
	if o.deps.Geocoder == nil {
		o.mu.Unlock()
		return domain.AddressInfo{}, ErrLookupDisabled
	}
	if o.phase != PhaseLocationReady {
		o.mu.Unlock()
		return domain.AddressInfo{}, ErrLocationNotReady
	}
	if o.address.status == LookupInFlight {
		o.mu.Unlock()
		return domain.AddressInfo{}, ErrLookupInFlight
	}
	o.address.status = LookupInFlight
	ep := o.epoch
	coord := o.location
	o.mu.Unlock()

	info, err := o.deps.Geocoder.ReverseGeocode(ctx, coord.Latitude, coord.Longitude)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.epoch != ep {
		return domain.AddressInfo{}, ErrSuperseded
	}
	if err != nil {
		o.address.status = LookupFailed
		o.address.err = err
		o.deps.Logger.Warn("address lookup failed",
			"lat", coord.Latitude, "lon", coord.Longitude, "error", err)
		return domain.AddressInfo{}, err
	}

	o.address.status = LookupReady
	o.address.value = info
	o.address.err = nil
	return info, nil
}

// FetchWeather looks up current conditions at the fix. Same failure policy
// as FetchAddress; the two branches are fully independent.
func (o *Orchestrator) FetchWeather(ctx context.Context) (domain.Weather, error) {
	o.mu.Lock()
	if o.deps.Weather == nil {
		o.mu.Unlock()
		return domain.Weather{}, ErrLookupDisabled
	}
	if o.phase != PhaseLocationReady {
		o.mu.Unlock()
		return domain.Weather{}, ErrLocationNotReady
	}
	if o.weather.status == LookupInFlight {
		o.mu.Unlock()
		return domain.Weather{}, ErrLookupInFlight
	}
	o.weather.status = LookupInFlight
	ep := o.epoch
	coord := o.location
	o.mu.Unlock()

	w, err := o.deps.Weather.CurrentWeather(ctx, coord.Latitude, coord.Longitude)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.epoch != ep {
		return domain.Weather{}, ErrSuperseded
	}
	if err != nil {
		o.weather.status = LookupFailed
		o.weather.err = err
		o.deps.Logger.Warn("weather lookup failed",
			"lat", coord.Latitude, "lon", coord.Longitude, "error", err)
		return domain.Weather{}, err
	}

	o.weather.status = LookupReady
	o.weather.value = w
	o.weather.err = nil
	return w, nil
}

// AttachPhoto stores the captured photo on the draft as a base64 data URI.
// Attaching replaces any previous photo.
func (o *Orchestrator) AttachPhoto(photoBase64 string) error {
	if photoBase64 == "" {
		return errors.New("photo payload is empty")
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase == PhaseSubmitting {
		return ErrSubmitInFlight
	}
	o.photo = photoBase64
	return nil
}

// RemovePhoto discards the attached photo.
func (o *Orchestrator) RemovePhoto() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase == PhaseSubmitting {
		return
	}
	o.photo = ""
}

// Submit runs the draft to a persisted record.
//
// Preconditions: the location must be ready and a photo attached; violations
// are rejected before any network call. Classification failure is silently
// absorbed with fixed defaults. Store failure preserves the entire draft so
// the user can retry without re-entering anything; success clears the draft
// and the caller should acquire a fresh location for the next one.
func (o *Orchestrator) Submit(ctx context.Context) (domain.Report, error) {
	o.mu.Lock()
	if o.phase == PhaseSubmitting {
		o.mu.Unlock()
		return domain.Report{}, ErrSubmitInFlight
	}
	if o.phase != PhaseLocationReady && o.phase != PhaseSubmitFailed {
		o.mu.Unlock()
		o.deps.Metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		return domain.Report{}, ErrLocationNotReady
	}
	if o.photo == "" {
		o.mu.Unlock()
		o.deps.Metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		return domain.Report{}, ErrPhotoRequired
	}

	o.phase = PhaseSubmitting
	o.submitErr = nil

	coord := o.location
	photo := o.photo
	var addr domain.AddressInfo
	if o.address.status == LookupReady {
		addr = o.address.value
	}
	var weather *domain.Weather
	if o.weather.status == LookupReady {
		w := o.weather.value
		weather = &w
	}
	o.mu.Unlock()

	start := time.Now()

	title, description, category := o.classify(ctx, photo)

	record := domain.Report{
		Title:       title,
		Description: description,
		Category:    category,
		Latitude:    coord.Latitude,
		Longitude:   coord.Longitude,
		Address:     addr.Address,
		Area:        addr.Area,
		Weather:     weather,
		PhotoBase64: photo,
		Timestamp:   domain.Clock().Now().UTC().Format(time.RFC3339),
		State:       domain.StateUnderResolution,
	}

	created, err := o.deps.Store.Create(ctx, record)

	o.mu.Lock()
	if err != nil {
		// Draft state is kept in full so the user may retry as-is.
		o.phase = PhaseSubmitFailed
		o.submitErr = err
		o.mu.Unlock()
		o.deps.Metrics.SubmissionsTotal.WithLabelValues("store_error").Inc()
		o.deps.Logger.Error("report create failed", "error", err)
		return domain.Report{}, err
	}

	o.photo = ""
	o.address.reset()
	o.weather.reset()
	o.location = domain.Coordinate{}
	o.fixedAt = time.Time{}
	o.phase = PhaseIdle
	o.epoch++
	o.mu.Unlock()

	o.deps.Reports.Append(created)
	o.deps.Metrics.ReportsInMemory.Set(float64(o.deps.Reports.Len()))
	o.deps.Metrics.SubmissionsTotal.WithLabelValues("submitted").Inc()
	o.deps.Metrics.SubmissionDuration.Observe(time.Since(start).Seconds())
	o.deps.Logger.Info("report submitted", "id", created.ID, "category", created.Category)

	o.publish(ctx, created)

	return created, nil
}

// classify runs the photo through the image analyzer. Any failure, including
// an absent analyzer, yields the fixed defaults; classification never blocks
// a submission.
func (o *Orchestrator) classify(ctx context.Context, photo string) (title, description, category string) {
	if o.deps.Analyzer == nil {
		return FallbackTitle, FallbackDescription, FallbackCategory
	}
	analysis, err := o.deps.Analyzer.Analyze(ctx, photo)
	if err != nil {
		o.deps.Logger.Warn("image classification failed, using defaults", "error", err)
		return FallbackTitle, FallbackDescription, FallbackCategory
	}
	return analysis.Title, analysis.ComposedDescription(), analysis.Category
}

// publish announces the created report. Best-effort: a publish failure is
// logged and counted but never unwinds the submission.
func (o *Orchestrator) publish(ctx context.Context, r domain.Report) {
	if o.deps.Events == nil {
		return
	}
	if err := o.deps.Events.PublishCreated(ctx, r); err != nil {
		o.deps.Metrics.EventPublishErrors.Inc()
		o.deps.Logger.Warn("report event publish failed", "id", r.ID, "error", err)
		return
	}
	o.deps.Metrics.EventsPublished.Inc()
}

// Cancel discards the draft. Allowed any time before submission starts;
// in-flight lookups are invalidated and their late results ignored.
func (o *Orchestrator) Cancel() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.phase == PhaseSubmitting {
		return ErrSubmitInFlight
	}
	o.epoch++
	o.phase = PhaseIdle
	o.location = domain.Coordinate{}
	o.fixedAt = time.Time{}
	o.locationErr = nil
	o.address.reset()
	o.weather.reset()
	o.photo = ""
	o.submitErr = nil
	return nil
}
