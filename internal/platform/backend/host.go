package backend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"
	"go.uber.org/zap"

	apperrors "shiori/internal/platform/errors"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 10 * time.Second
)

// Host launches the backend binary for each call and kills it afterwards.
type Host struct {
	binary       string
	startTimeout time.Duration
	logger       *zap.Logger
}

func NewHost(binary string, startTimeout time.Duration, logger *zap.Logger) *Host {
	if startTimeout <= 0 {
		startTimeout = defaultStartTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Host{binary: binary, startTimeout: startTimeout, logger: logger.Named("backend")}
}

// NewPluginLogger adapts go-plugin's hclog output onto logger. Each hclog
// line, including backend stderr, becomes one zap entry.
func NewPluginLogger(logger *zap.Logger) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:        "plugin",
		Output:      zap.NewStdLog(logger).Writer(),
		Level:       hclog.Info,
		DisableTime: true,
	})
}

func (h *Host) GetInfo(ctx context.Context) (Info, error) {
	client, closeFn, err := h.connect()
	if err != nil {
		return Info{}, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	info, err := client.GetInfo(callCtx)
	if err != nil {
		return Info{}, fmt.Errorf("get backend info: %w", err)
	}
	return *info, nil
}

func (h *Host) DetectDirection(ctx context.Context, path string) (string, error) {
	client, closeFn, err := h.connect()
	if err != nil {
		return "", err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	out, err := client.DetectDirection(callCtx, &DetectDirectionRequest{Path: path})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("detect direction: %w", context.DeadlineExceeded)
		}
		return "", fmt.Errorf("detect direction: %w", err)
	}
	return out.Direction, nil
}

func (h *Host) ScanBooks(ctx context.Context, paths []string) ([]BookRecord, error) {
	client, closeFn, err := h.connect()
	if err != nil {
		return nil, err
	}
	defer closeFn()

	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	out, err := client.ScanBooks(callCtx, &ScanBooksRequest{Paths: paths})
	if err != nil {
		return nil, fmt.Errorf("scan books: %w", err)
	}
	return out.Books, nil
}

func (h *Host) connect() (BackendClient, func(), error) {
	if h.binary == "" {
		return nil, nil, fmt.Errorf("%w: no backend binary configured", apperrors.ErrBackendUnavailable)
	}
	if _, err := os.Stat(h.binary); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrBackendUnavailable, err)
	}
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          PluginMap(nil),
		Cmd:              exec.Command(h.binary),
		Managed:          true,
		StartTimeout:     h.startTimeout,
		Logger:           NewPluginLogger(h.logger),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, errors.Join(apperrors.ErrBackendUnavailable, fmt.Errorf("start backend client: %w", err))
	}
	raw, err := rpcClient.Dispense(PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense backend: %w", err)
	}
	typed, ok := raw.(BackendClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("backend rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
