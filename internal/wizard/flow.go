package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/nao1215/adoperator/internal/api"
	"github.com/nao1215/adoperator/internal/model"
)

var (
	// ErrBusy is returned when an action starts while another is in flight.
	ErrBusy = errors.New("another action is in progress")
	// ErrOutOfOrder is returned when an action's prerequisite payload is absent.
	ErrOutOfOrder = errors.New("previous stage has not completed")
)

// Backend is the part of the AdOperator API the wizard drives.
// *api.Client implements it.
type Backend interface {
	CreateAnalysis(ctx context.Context, p model.Product) (*model.Analysis, error)
	GetAnalysis(ctx context.Context, id string) (*model.Analysis, error)
	UpdateProduct(ctx context.Context, id string, p model.Product) error
	Parse(ctx context.Context, id string) (*model.StrategicAnalysis, error)
	Generate(ctx context.Context, id string) (*model.AdVariations, error)
	Simulate(ctx context.Context, id string) (*model.AudienceSimulation, error)
	Decide(ctx context.Context, id string) (*model.Decision, error)
	StrategyTable(ctx context.Context, id string) (*model.StrategyTable, error)
	UploadMedia(ctx context.Context, filename, contentType string, data []byte) (*model.MediaUpload, error)
	Share(ctx context.Context, id string) (*model.ShareResult, error)
	Improve(ctx context.Context, id string) (*model.Analysis, error)
}

var _ Backend = (*api.Client)(nil)

// Notifier receives the toasts of the flow.
type Notifier interface {
	Error(msg string)
	Success(msg string)
}

type discardNotifier struct{}

func (discardNotifier) Error(string)   {}
func (discardNotifier) Success(string) {}

// Flow is the client-side state machine of one analysis.
// It is safe for concurrent use; at most one action runs at a time.
type Flow struct {
	backend  Backend
	notifier Notifier
	rotator  *Rotator
	appURL   string
	logger   *slog.Logger
	onLoad   func(string)

	mu       sync.Mutex
	busy     bool
	step     model.Step
	product  model.Product
	analysis *model.Analysis
	table    *model.StrategyTable
	media    []model.MediaUpload

	msgMu   sync.Mutex
	message string
}

// Option configures a Flow.
type Option func(*Flow)

// WithNotifier sets the toast receiver.
func WithNotifier(n Notifier) Option {
	return func(f *Flow) {
		if n != nil {
			f.notifier = n
		}
	}
}

// WithRotatorOptions configures the loading message rotation.
func WithRotatorOptions(opts ...RotatorOption) Option {
	return func(f *Flow) {
		f.rotator = NewRotator(f.setMessage, opts...)
	}
}

// WithLoadingObserver registers a function called with every loading message.
// It receives "" when loading ends.
func WithLoadingObserver(fn func(string)) Option {
	return func(f *Flow) {
		f.onLoad = fn
	}
}

// WithAppURL sets the web app origin used to build public links.
func WithAppURL(u string) Option {
	return func(f *Flow) {
		f.appURL = strings.TrimRight(u, "/")
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Flow) {
		if l != nil {
			f.logger = l
		}
	}
}

// New creates a Flow on step 0 with an empty product.
func New(backend Backend, opts ...Option) *Flow {
	f := &Flow{
		backend:  backend,
		notifier: discardNotifier{},
		logger:   slog.Default(),
	}
	f.rotator = NewRotator(f.setMessage)
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Flow) setMessage(msg string) {
	f.msgMu.Lock()
	f.message = msg
	f.msgMu.Unlock()
	if f.onLoad != nil {
		f.onLoad(msg)
	}
}

// LoadingMessage returns the message currently shown, or "" when idle.
func (f *Flow) LoadingMessage() string {
	f.msgMu.Lock()
	defer f.msgMu.Unlock()
	return f.message
}

// Loading reports whether an action is in flight.
func (f *Flow) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.busy
}

// Step returns the current wizard step.
func (f *Flow) Step() model.Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Analysis returns a copy of the local analysis record, or nil before Submit.
func (f *Flow) Analysis() *model.Analysis {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.analysis == nil {
		return nil
	}
	a := *f.analysis
	return &a
}

// Product returns the product being edited.
func (f *Flow) Product() model.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.product
}

// SetField updates one product field by its JSON name.
func (f *Flow) SetField(field, value string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.product.Set(field, value)
}

// SetProduct replaces the product being edited.
func (f *Flow) SetProduct(p model.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.product = p
}

// StrategyTableResult returns the loaded strategy table, or nil.
func (f *Flow) StrategyTableResult() *model.StrategyTable {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.table
}

// Media returns the files uploaded during this flow.
func (f *Flow) Media() []model.MediaUpload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.MediaUpload(nil), f.media...)
}

// Reachable reports whether step can be shown for the current record.
func (f *Flow) Reachable(step model.Step) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if step == model.StepProduct {
		return true
	}
	return f.analysis.Has(step)
}

// begin claims the flow for one action and returns the analysis id when the
// check passes. check runs under the lock.
func (f *Flow) begin(check func() error) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy {
		return "", ErrBusy
	}
	if check != nil {
		if err := check(); err != nil {
			return "", err
		}
	}
	f.busy = true
	id := ""
	if f.analysis != nil {
		id = f.analysis.ID
	}
	return id, nil
}

func (f *Flow) end() {
	f.mu.Lock()
	f.busy = false
	f.mu.Unlock()
}

// requires returns a check that the payload of step is present.
func (f *Flow) requires(step model.Step) func() error {
	return func() error {
		if f.analysis == nil || f.analysis.ID == "" || !f.analysis.Has(step) {
			return fmt.Errorf("%w: %s", ErrOutOfOrder, step)
		}
		return nil
	}
}

// loading starts the message rotation of stage and returns its stop function.
func (f *Flow) loading(stage Stage) func() {
	return f.rotator.Start(loadingMessages[stage])
}

// fail reports err with the backend detail, or fallback when there is none.
func (f *Flow) fail(err error, fallback string) error {
	msg := api.Detail(err)
	if msg == "" {
		msg = fallback
	}
	f.notifier.Error(msg)
	return err
}

// pending returns the id of the analysis to parse. An analysis still in the
// created status, left by a failed parse or a resume, is reused with its
// product brought up to date; otherwise a new one is created.
func (f *Flow) pending(ctx context.Context, p model.Product) (string, error) {
	f.mu.Lock()
	existing := f.analysis
	f.mu.Unlock()

	if existing != nil && existing.ID != "" && existing.Status == model.StatusCreated {
		if existing.Product != p {
			if err := f.backend.UpdateProduct(ctx, existing.ID, p); err != nil {
				return "", err
			}
			f.mu.Lock()
			f.analysis.Product = p
			f.mu.Unlock()
		}
		return existing.ID, nil
	}

	created, err := f.backend.CreateAnalysis(ctx, p)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	f.analysis = created
	f.mu.Unlock()
	return created.ID, nil
}

// Submit creates the analysis for the current product, or reuses one not yet
// parsed, and runs the parse stage. On success the flow moves to StepStrategy.
func (f *Flow) Submit(ctx context.Context) error {
	if _, err := f.begin(func() error {
		if f.step != model.StepProduct {
			return fmt.Errorf("%w: product already submitted", ErrOutOfOrder)
		}
		return nil
	}); err != nil {
		return err
	}
	defer f.end()

	product := f.Product()
	if err := product.Validate(); err != nil {
		f.notifier.Error(err.Error())
		return err
	}

	stop := f.loading(StageParse)
	defer stop()

	id, err := f.pending(ctx, product)
	if err != nil {
		return f.fail(err, MsgCreateFailed)
	}

	parsed, err := f.backend.Parse(ctx, id)
	if err != nil {
		return f.fail(err, MsgCreateFailed)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.analysis.StrategicAnalysis = parsed
	f.analysis.Status = model.StatusParsed
	f.step = model.StepStrategy
	return nil
}

// Generate runs the ad generation stage. On success the flow moves to StepAds.
func (f *Flow) Generate(ctx context.Context) error {
	id, err := f.begin(f.requires(model.StepStrategy))
	if err != nil {
		return err
	}
	defer f.end()
	return f.generate(ctx, id)
}

// Refine saves the edited product and regenerates the ads. A failed save
// does not stop the generation.
func (f *Flow) Refine(ctx context.Context, p model.Product) error {
	id, err := f.begin(f.requires(model.StepStrategy))
	if err != nil {
		return err
	}
	defer f.end()

	f.mu.Lock()
	f.product = p
	f.mu.Unlock()

	if err := f.backend.UpdateProduct(ctx, id, p); err != nil {
		f.logger.Debug("product update failed, generating with stored product", "analysis_id", id, "error", err)
	} else {
		f.mu.Lock()
		f.analysis.Product = p
		f.mu.Unlock()
	}
	return f.generate(ctx, id)
}

func (f *Flow) generate(ctx context.Context, id string) error {
	stop := f.loading(StageGenerate)
	defer stop()

	ads, err := f.backend.Generate(ctx, id)
	if err != nil {
		return f.fail(err, MsgGenerateFailed)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analysis.AdVariations = ads
	f.analysis.Status = model.StatusGenerated
	f.step = model.StepAds
	return nil
}

// Simulate runs the audience simulation. On success the flow moves to
// StepSimulation.
func (f *Flow) Simulate(ctx context.Context) error {
	id, err := f.begin(f.requires(model.StepAds))
	if err != nil {
		return err
	}
	defer f.end()

	stop := f.loading(StageSimulate)
	defer stop()

	sim, err := f.backend.Simulate(ctx, id)
	if err != nil {
		return f.fail(err, MsgSimulateFailed)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analysis.AudienceSimulation = sim
	f.analysis.Status = model.StatusSimulated
	f.step = model.StepSimulation
	return nil
}

// Decide runs the decision stage. On success the flow moves to StepDecision.
func (f *Flow) Decide(ctx context.Context) error {
	id, err := f.begin(f.requires(model.StepSimulation))
	if err != nil {
		return err
	}
	defer f.end()

	stop := f.loading(StageDecide)
	defer stop()

	dec, err := f.backend.Decide(ctx, id)
	if err != nil {
		return f.fail(err, MsgDecideFailed)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analysis.Decision = dec
	f.analysis.Status = model.StatusCompleted
	f.step = model.StepDecision
	return nil
}

// Resume loads an existing analysis. The flow opens at the status step,
// lowered to the highest step whose payloads are present. On failure the
// flow is left untouched on its current step.
func (f *Flow) Resume(ctx context.Context, id string) error {
	if _, err := f.begin(nil); err != nil {
		return err
	}
	defer f.end()
	return f.resume(ctx, id)
}

func (f *Flow) resume(ctx context.Context, id string) error {
	a, err := f.backend.GetAnalysis(ctx, id)
	if err != nil {
		f.notifier.Error(MsgNotFound)
		return err
	}
	if a.ID == "" {
		a.ID = id
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.analysis = a
	f.product = a.Product
	f.step = a.ReachableStep()
	f.table = a.StrategyTable
	f.media = nil
	return nil
}

// LoadStrategyTable requests the per-profile strategy table.
func (f *Flow) LoadStrategyTable(ctx context.Context) (*model.StrategyTable, error) {
	id, err := f.begin(f.requires(model.StepProduct))
	if err != nil {
		return nil, err
	}
	defer f.end()

	table, err := f.backend.StrategyTable(ctx, id)
	if err != nil {
		return nil, f.fail(err, MsgStrategyTableFailed)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.table = table
	f.analysis.StrategyTable = table
	return table, nil
}

// UploadMedia sends a reference file for the creative stage.
func (f *Flow) UploadMedia(ctx context.Context, filename, contentType string, data []byte) (*model.MediaUpload, error) {
	if _, err := f.begin(nil); err != nil {
		return nil, err
	}
	defer f.end()

	up, err := f.backend.UploadMedia(ctx, filename, contentType, data)
	if err != nil {
		return nil, f.fail(err, MsgMediaFailed)
	}
	if up.OriginalName == "" {
		up.OriginalName = filename
	}
	f.mu.Lock()
	f.media = append(f.media, *up)
	f.mu.Unlock()
	f.notifier.Success(MsgMediaUploaded)
	return up, nil
}

// Share publishes the decision and returns its public link.
func (f *Flow) Share(ctx context.Context) (string, error) {
	id, err := f.begin(f.requires(model.StepDecision))
	if err != nil {
		return "", err
	}
	defer f.end()

	res, err := f.backend.Share(ctx, id)
	if err != nil {
		f.notifier.Error(MsgShareFailed)
		return "", err
	}
	f.mu.Lock()
	f.analysis.PublicToken = res.PublicToken
	f.mu.Unlock()

	link := f.appURL + "/public/" + res.PublicToken
	f.notifier.Success(MsgShareReady)
	return link, nil
}

// Improve asks the backend for an improved copy of the analysis and resumes
// the flow on it.
func (f *Flow) Improve(ctx context.Context) (*model.Analysis, error) {
	id, err := f.begin(f.requires(model.StepDecision))
	if err != nil {
		return nil, err
	}
	defer f.end()

	next, err := f.backend.Improve(ctx, id)
	if err != nil {
		return nil, f.fail(err, MsgImproveFailed)
	}
	if err := f.resume(ctx, next.ID); err != nil {
		return nil, err
	}
	return f.Analysis(), nil
}
