package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/andreipa/police-transcriber/internal/config"
	"github.com/andreipa/police-transcriber/internal/logging"
	"github.com/andreipa/police-transcriber/internal/model"
	"github.com/andreipa/police-transcriber/internal/queue"
	"github.com/andreipa/police-transcriber/internal/transcribe"
	"github.com/andreipa/police-transcriber/internal/update"
	"github.com/andreipa/police-transcriber/internal/version"
	"github.com/andreipa/police-transcriber/internal/words"
)

type appState struct {
	cfgPath    string
	verbose    bool
	jsonLogs   bool
	noProgress bool
	modelName  string
	modelsRoot string
	outputDir  string
	wordsPath  string
	engineName string
	language   string

	cfg    config.Config
	logger *zap.Logger
	now    func() time.Time

	newEngineFn  func() (transcribe.Engine, error)
	provisionFn  func(ctx context.Context, cb model.Callbacks) error
	transcribeFn func(ctx context.Context, paths []string) ([]queue.Job, error)
	latestFn     func(ctx context.Context) (update.Release, error)
}

func NewRootCmd() *cobra.Command {
	app := &appState{
		modelsRoot: "models",
		wordsPath:  words.DefaultPath,
		engineName: "cli",
		language:   "auto",
		now:        time.Now,
	}

	cmd := &cobra.Command{
		Use:           "police-transcriber",
		Short:         "Transcribe MP3 audio and keep only segments containing sensitive words",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return app.initialize()
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	bindConfigFlag(cmd, app)
	bindLoggingFlags(cmd, app)
	bindProgressFlag(cmd, app)
	bindModelFlags(cmd, app)

	cmd.AddCommand(newTranscribeCmd(app))
	cmd.AddCommand(newSetupCmd(app))
	cmd.AddCommand(newWordsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newUpdateCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// initialize loads persisted settings, lets flags override them, and builds
// the logger. Components downstream receive config and logger explicitly.
func (a *appState) initialize() error {
	cfg, err := config.NewStore(a.cfgPath).Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	a.cfg = cfg

	if a.modelName == "" {
		a.modelName = cfg.SelectedModel
	}
	if a.outputDir == "" {
		a.outputDir = cfg.OutputFolder
	}
	if cfg.Verbose {
		a.verbose = true
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.LoggingLevel,
		Verbose: a.verbose,
		JSON:    a.jsonLogs,
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

func bindConfigFlag(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().StringVar(&app.cfgPath, "config", app.cfgPath, "Path to the JSON config file")
}

func bindLoggingFlags(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().BoolVar(&app.verbose, "verbose", app.verbose, "Enable verbose logs")
	cmd.PersistentFlags().BoolVar(&app.jsonLogs, "json", app.jsonLogs, "Enable JSON logging")
}

func bindProgressFlag(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().BoolVar(&app.noProgress, "no-progress", app.noProgress, "Disable progress indicators")
}

func bindModelFlags(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().StringVar(&app.modelName, "model", app.modelName, "Model name (base|small|medium|large-v2); defaults to the configured model")
	cmd.PersistentFlags().StringVar(&app.modelsRoot, "models-dir", app.modelsRoot, "Directory where model files are stored")
}

func bindTranscribeFlags(cmd *cobra.Command, app *appState) {
	cmd.Flags().StringVar(&app.outputDir, "output-dir", app.outputDir, "Directory for transcript output; defaults to the configured folder")
	cmd.Flags().StringVar(&app.wordsPath, "words-file", app.wordsPath, "Path to the sensitive-word list")
	cmd.Flags().StringVar(&app.engineName, "engine", app.engineName, "Speech engine: cli (local whisper-cli) or openai")
	cmd.Flags().StringVar(&app.language, "language", app.language, "Language code (auto|en|pt|...) for transcription")
}

func (a *appState) spec() (model.Spec, error) {
	spec, ok := model.Lookup(a.modelName)
	if !ok {
		return model.Spec{}, fmt.Errorf("unknown model %q (known models: %v)", a.modelName, model.Names())
	}
	return spec, nil
}

func (a *appState) modelDir() string {
	return model.LocalDir(a.modelsRoot, a.modelName)
}

func (a *appState) buildEngine() (transcribe.Engine, error) {
	if a.newEngineFn != nil {
		return a.newEngineFn()
	}

	switch a.engineName {
	case "cli":
		return transcribe.NewCLIEngine(a.log())
	case "openai":
		return transcribe.NewOpenAIEngine(os.Getenv("OPENAI_API_KEY"), a.log())
	default:
		return nil, fmt.Errorf("unknown engine %q (use cli or openai)", a.engineName)
	}
}

func (a *appState) newPipeline(engine transcribe.Engine, spec model.Spec) *transcribe.Pipeline {
	return &transcribe.Pipeline{
		Engine:    engine,
		Spec:      spec,
		ModelDir:  a.modelDir(),
		WordsPath: a.wordsPath,
		OutputDir: a.outputDir,
		Language:  a.language,
		Logger:    a.log(),
		Now:       a.now,
	}
}

func (a *appState) ensureModelAvailable(ctx context.Context, cb model.Callbacks) error {
	if a.provisionFn != nil {
		return a.provisionFn(ctx, cb)
	}

	spec, err := a.spec()
	if err != nil {
		return err
	}
	return model.NewProvisioner(a.log()).EnsureAvailable(ctx, spec, a.modelDir(), cb)
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *appState) progressEnabled() bool {
	if a.noProgress {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}
