package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driving"
	"github.com/custodia-labs/multi-machine-dedup/internal/logger"
)

// mockCatalogService implements driving.CatalogService for testing.
type mockCatalogService struct {
	indexReport   *domain.IndexReport
	checkReport   *domain.IntegrityReport
	compareReport *domain.CompareReport
	err           error

	indexReq   *driving.IndexRequest
	checkReq   *driving.CheckRequest
	compareReq *driving.CompareRequest
}

func (m *mockCatalogService) Index(_ context.Context, req driving.IndexRequest) (*domain.IndexReport, error) {
	m.indexReq = &req
	if m.indexReport == nil {
		m.indexReport = &domain.IndexReport{}
	}
	return m.indexReport, m.err
}

func (m *mockCatalogService) CheckIntegrity(_ context.Context, req driving.CheckRequest) (*domain.IntegrityReport, error) {
	m.checkReq = &req
	if m.checkReport == nil {
		m.checkReport = &domain.IntegrityReport{}
	}
	return m.checkReport, m.err
}

func (m *mockCatalogService) Compare(_ context.Context, req driving.CompareRequest) (*domain.CompareReport, error) {
	m.compareReq = &req
	if m.compareReport == nil {
		m.compareReport = &domain.CompareReport{}
	}
	return m.compareReport, m.err
}

func (m *mockCatalogService) Status() driving.OperationStatus {
	return driving.OperationStatus{}
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.Settings
	getErr   error
	setErr   error
	set      map[string]string
	path     string
}

func newMockSettings() *mockSettingsService {
	s := domain.DefaultSettings()
	s.Label = "workstation"
	return &mockSettingsService{settings: s, set: make(map[string]string), path: "/home/u/.mmdedup/config.toml"}
}

func (m *mockSettingsService) Get() (domain.Settings, error) {
	return m.settings, m.getErr
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"label", "db", "workers", "rate", "exclude", "log_level"}
}

func (m *mockSettingsService) Path() string {
	return m.path
}

type testEnv struct {
	catalog  *mockCatalogService
	settings *mockSettingsService
	logs     *bytes.Buffer
}

// setupTest swaps the package services for mocks and restores them on cleanup.
func setupTest(t *testing.T) *testEnv {
	t.Helper()
	oldCatalog, oldSettings, oldOpen, oldLog, oldTerm := catalogService, settingsService, openSettings, log, isTerminal
	t.Cleanup(func() {
		catalogService, settingsService, openSettings, log, isTerminal = oldCatalog, oldSettings, oldOpen, oldLog, oldTerm
	})
	t.Setenv(logEnv, "")

	env := &testEnv{
		catalog:  &mockCatalogService{},
		settings: newMockSettings(),
		logs:     new(bytes.Buffer),
	}
	catalogService = env.catalog
	settingsService = env.settings
	openSettings = nil
	log = logger.New(env.logs, logger.LevelInfo)
	isTerminal = func() bool { return false }
	return env
}

// execute runs rootCmd with args from a clean flag state.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
