package ai

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fairflicks/fairflicks-go/internal/constants"
	"github.com/fairflicks/fairflicks-go/internal/util"
	"github.com/fairflicks/fairflicks-go/pkg/errors"
	"go.uber.org/zap"
)

// Manager fronts the generative completion endpoint: a primary provider,
// an optional fallback provider, and a circuit breaker shared by both.
// It hands back raw completion text; enforcing the output contract is
// the response parser's job.
type Manager struct {
	primary        Provider
	fallback       Provider
	logger         *zap.Logger
	enableFallback bool
	circuitBreaker *util.CircuitBreaker
}

type ManagerConfig struct {
	Primary        Provider
	Fallback       Provider
	EnableFallback bool
}

func NewManager(cfg ManagerConfig, logger *zap.Logger) (*Manager, error) {
	if cfg.Primary == nil {
		return nil, fmt.Errorf("primary provider is required")
	}

	m := &Manager{
		primary:        cfg.Primary,
		fallback:       cfg.Fallback,
		logger:         logger,
		enableFallback: cfg.EnableFallback && cfg.Fallback != nil,
	}

	m.circuitBreaker = util.NewCircuitBreaker(
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		constants.CircuitBreakerConfig.HealthCheckInterval,
		m.healthCheckPing,
		logger,
	)

	return m, nil
}

// Complete sends one prompt to the completion endpoint and returns the
// raw response text. Single round trip per provider; no retry loop.
func (m *Manager) Complete(ctx context.Context, system, prompt string, preset ModelPreset, opts *CompleteOptions) (string, *Metadata, error) {
	if !m.circuitBreaker.CanExecute() {
		status := m.circuitBreaker.GetStatus()
		nextRetry := "unknown"
		if status.NextRetryTime != nil {
			nextRetry = status.NextRetryTime.Format("15:04:05")
		}

		m.logger.Error("AI service unavailable (Circuit OPEN)",
			zap.String("state", status.State.String()),
			zap.Int("failure_count", status.FailureCount),
			zap.String("next_retry", nextRetry),
		)

		return "", nil, errors.NewTransportError(
			fmt.Sprintf("generative service unavailable, next retry at %s", nextRetry),
			m.primary.Name(), nil)
	}

	if opts == nil {
		opts = &CompleteOptions{}
	}

	result, err := m.primary.Complete(ctx, system, prompt, preset, opts)
	metadata := &Metadata{Provider: m.primary.Name(), Model: result.Model}

	if err != nil {
		primaryErr := err
		if m.enableFallback {
			fbResult, fbErr := m.fallback.Complete(ctx, system, prompt, preset, opts)
			if fbErr == nil {
				m.circuitBreaker.RecordSuccess()
				return m.stripFences(fbResult.Text), &Metadata{
					Provider:     m.fallback.Name(),
					Model:        fbResult.Model,
					UsedFallback: true,
				}, nil
			}
			m.recordFailureIfServiceError(primaryErr, fbErr)
			return "", nil, errors.NewTransportError("all completion providers failed", m.fallback.Name(), fbErr)
		}

		m.recordFailureIfServiceError(primaryErr, nil)
		return "", nil, errors.NewTransportError("completion failed", m.primary.Name(), primaryErr)
	}

	m.circuitBreaker.RecordSuccess()

	text := m.stripFences(result.Text)
	if text == "" {
		return "", nil, errors.NewTransportError(
			fmt.Sprintf("%s returned an empty completion", metadata.Provider),
			metadata.Provider, nil)
	}

	return text, metadata, nil
}

// stripFences removes markdown code fences that chat models like to wrap
// JSON payloads in.
func (m *Manager) stripFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```json"))
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```"))
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "```"))
	}
	return cleaned
}

func (m *Manager) recordFailureIfServiceError(errs ...error) {
	serviceFailure := false
	rateLimited := false
	for _, err := range errs {
		if isServiceFailure(err) {
			serviceFailure = true
		}
		if isRateLimitError(err) {
			rateLimited = true
		}
	}

	if !serviceFailure {
		return
	}

	timeout := constants.CircuitBreakerConfig.ResetTimeout
	if rateLimited {
		timeout = constants.CircuitBreakerConfig.RateLimitTimeout
	}
	m.circuitBreaker.RecordFailure(timeout)
}

func (m *Manager) healthCheckPing() bool {
	m.logger.Info("Health Check: Testing AI providers...")

	ctx, cancel := context.WithTimeout(context.Background(), constants.CircuitBreakerConfig.HealthCheckTimeout)
	defer cancel()

	primaryOK := m.primary.Ping(ctx)
	fallbackOK := false

	if m.enableFallback {
		fallbackOK = m.fallback.Ping(ctx)
	}

	isHealthy := primaryOK || fallbackOK

	m.logger.Info("Health Check: Result",
		zap.Bool("primary", primaryOK),
		zap.Bool("fallback", fallbackOK),
		zap.Bool("healthy", isHealthy),
	)

	return isHealthy
}

func (m *Manager) GetCircuitStatus() util.CircuitBreakerStatus {
	return m.circuitBreaker.GetStatus()
}

func (m *Manager) ResetCircuit() {
	m.circuitBreaker.Reset()
}

var (
	statusCodeRegex   = regexp.MustCompile(`\b(5\d{2})\b`)
	jsonCodeRegex     = regexp.MustCompile(`"code":(\d{3})`)
	prefixedCodeRegex = regexp.MustCompile(`^(\d{3})\s`)
)

func isServiceFailure(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	if strings.Contains(msg, "timeout") || strings.Contains(msg, "connection refused") {
		return true
	}

	if isRateLimitError(err) {
		return true
	}

	if statusCodeRegex.MatchString(msg) {
		return true
	}

	if matches := jsonCodeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, convErr := strconv.Atoi(matches[1]); convErr == nil {
			return code >= 500 && code < 600
		}
	}

	if matches := prefixedCodeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, convErr := strconv.Atoi(matches[1]); convErr == nil {
			return code >= 500 && code < 600
		}
	}

	return false
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	if strings.Contains(msg, "429") || strings.Contains(msg, "Rate limit") || strings.Contains(msg, "quota") {
		return true
	}

	if matches := jsonCodeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, convErr := strconv.Atoi(matches[1]); convErr == nil {
			return code == 429
		}
	}

	return false
}
