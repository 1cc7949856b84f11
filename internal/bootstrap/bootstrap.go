package bootstrap

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	directioninadapter "shiori/internal/modules/direction/adapter/in"
	directionoutadapter "shiori/internal/modules/direction/adapter/out"
	directionservice "shiori/internal/modules/direction/service"
	directionusecase "shiori/internal/modules/direction/usecase"
	libraryinadapter "shiori/internal/modules/library/adapter/in"
	libraryoutadapter "shiori/internal/modules/library/adapter/out"
	libraryservice "shiori/internal/modules/library/service"
	libraryusecase "shiori/internal/modules/library/usecase"
	prefinadapter "shiori/internal/modules/preference/adapter/in"
	prefoutadapter "shiori/internal/modules/preference/adapter/out"
	prefport "shiori/internal/modules/preference/port/out"
	prefservice "shiori/internal/modules/preference/service"
	prefusecase "shiori/internal/modules/preference/usecase"
	readerinadapter "shiori/internal/modules/reader/adapter/in"
	readeroutadapter "shiori/internal/modules/reader/adapter/out"
	readerservice "shiori/internal/modules/reader/service"
	readerusecase "shiori/internal/modules/reader/usecase"
	viewservice "shiori/internal/modules/view/service"
	"shiori/internal/platform/backend"
	"shiori/internal/platform/clock"
	"shiori/internal/platform/config"
	"shiori/internal/platform/id"
	"shiori/internal/platform/logging"
	uiapp "shiori/internal/ui/app"
	readerview "shiori/internal/ui/views/reader"
)

type App struct {
	LibraryCLI   libraryinadapter.CLIHandler
	ReaderCLI    readerinadapter.CLIHandler
	ReaderTUI    readerinadapter.TUIHandler
	DirectionCLI directioninadapter.CLIHandler
	ThemeCLI     prefinadapter.CLIHandler
	ThemeTUI     prefinadapter.TUIHandler
	Backend      *backend.Host
	Surface      *readerview.Surface
	Logger       *zap.Logger

	closers []func() error
}

func New(cfg config.Config) (*App, error) {
	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("new logger: %w", err)
	}
	clk := clock.SystemClock{}
	ids := id.UUID{}
	host := backend.NewHost(cfg.Backend.Binary, cfg.Backend.StartTimeout, logger)

	prefSvc := prefservice.NewPreferenceService(
		prefoutadapter.NewYAMLThemeStore(cfg.PreferencePath),
		[]prefport.SchemeDetector{
			prefoutadapter.NewTerminalSchemeDetector(),
			prefoutadapter.NewEnvSchemeDetector(),
		},
		logger,
	)
	prefUC := prefusecase.NewInteractor(prefSvc)
	if _, err := prefUC.Load(context.Background()); err != nil {
		return nil, fmt.Errorf("load theme preference: %w", err)
	}

	directionUC := directionusecase.NewInteractor(
		directionservice.NewResolver(directionoutadapter.NewBackendDetector(host), cfg.Direction.DetectTimeout, logger),
		directionoutadapter.NewEPUBMetadataSource(),
	)

	store, err := libraryoutadapter.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new library store: %w", err)
	}
	libraryUC := libraryusecase.NewInteractor(libraryservice.NewLibraryService(
		store,
		store,
		libraryoutadapter.NewBackendScanner(host, cfg.Library.ScanCacheTTL, logger),
		clk,
		logger,
	))

	views := viewservice.NewCoordinator(logger)
	surface := readerview.NewSurface()
	sessions := readerservice.NewSessionManager(readerservice.Options{
		Engine:      readeroutadapter.NewTerminalEngine(logger),
		Directions:  readeroutadapter.NewDirectionAdapter(directionUC),
		Themes:      readeroutadapter.NewPreferenceAdapter(prefUC),
		Views:       readeroutadapter.NewViewAdapter(views),
		Presenter:   readeroutadapter.NewImmersivePresenter(),
		Surface:     surface,
		Clock:       clk,
		IDs:         ids,
		OpenTimeout: cfg.Reader.OpenTimeout,
		Logger:      logger,
	})
	readerUC := readerusecase.NewInteractor(sessions)

	return &App{
		LibraryCLI:   libraryinadapter.NewCLIHandler(libraryUC),
		ReaderCLI:    readerinadapter.NewCLIHandler(readerUC),
		ReaderTUI:    readerinadapter.NewTUIHandler(readerUC),
		DirectionCLI: directioninadapter.NewCLIHandler(directionUC),
		ThemeCLI:     prefinadapter.NewCLIHandler(prefUC),
		ThemeTUI:     prefinadapter.NewTUIHandler(prefUC),
		Backend:      host,
		Surface:      surface,
		Logger:       logger,
		closers: []func() error{
			func() error { readerUC.Close(); return nil },
			store.Close,
		},
	}, nil
}

// Close ends any open reading session and releases the database.
func (a *App) Close() error {
	var firstErr error
	for _, c := range a.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	_ = a.Logger.Sync()
	return firstErr
}

func RunTUI(ctx context.Context, app *App) error {
	model := uiapp.NewModel(app.LibraryCLI, app.ReaderTUI, app.ThemeTUI, app.Surface)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
