package ai

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kapu/workout-planner-go/internal/constants"
	"github.com/kapu/workout-planner-go/internal/util"
	apperrors "github.com/kapu/workout-planner-go/pkg/errors"
)

// ModelManager guards a ChatProvider with a circuit breaker. It never retries.
type ModelManager struct {
	provider       ChatProvider
	setting        string
	logger         *zap.Logger
	circuitBreaker *util.CircuitBreaker
}

// NewModelManager wraps provider. A nil provider means the credential named by setting is missing;
// every call then fails with a ConfigurationError.
func NewModelManager(provider ChatProvider, setting string, logger *zap.Logger) *ModelManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelManager{
		provider: provider,
		setting:  setting,
		logger:   logger,
		circuitBreaker: util.NewCircuitBreaker(
			"llm",
			constants.CircuitBreakerConfig.FailureThreshold,
			constants.CircuitBreakerConfig.ResetTimeout,
			logger,
		),
	}
}

func (mm *ModelManager) Configured() bool {
	return mm.provider != nil
}

func (mm *ModelManager) ProviderName() string {
	if mm.provider == nil {
		return ""
	}
	return mm.provider.Name()
}

func (mm *ModelManager) Complete(ctx context.Context, req ChatRequest) (ProviderResult, error) {
	if mm.provider == nil {
		return ProviderResult{}, apperrors.NewConfigurationError("LLM API key is not configured", mm.setting)
	}

	if !mm.circuitBreaker.CanExecute() {
		status := mm.circuitBreaker.GetStatus()
		fields := []zap.Field{
			zap.String("state", status.State.String()),
			zap.Int("failure_count", status.FailureCount),
		}
		if status.NextRetryTime != nil {
			fields = append(fields, zap.Time("next_retry", *status.NextRetryTime))
		}
		mm.logger.Error("LLM service unavailable (circuit not accepting requests)", fields...)

		return ProviderResult{}, apperrors.NewUpstreamError(
			"model service temporarily unavailable", mm.provider.Name(), http.StatusServiceUnavailable, nil,
		)
	}

	result, err := mm.provider.Generate(ctx, req)
	if err != nil {
		mm.recordFailure(err)
		return ProviderResult{}, err
	}

	mm.circuitBreaker.RecordSuccess()
	return result, nil
}

func (mm *ModelManager) recordFailure(err error) {
	if !isServiceFailure(err) {
		mm.circuitBreaker.Release()
		return
	}

	timeout := constants.CircuitBreakerConfig.ResetTimeout
	if isRateLimitError(err) {
		timeout = constants.CircuitBreakerConfig.RateLimitTimeout
	}

	mm.circuitBreaker.RecordFailure(timeout)
}

func (mm *ModelManager) GetCircuitStatus() util.CircuitBreakerStatus {
	return mm.circuitBreaker.GetStatus()
}

func (mm *ModelManager) ResetCircuit() {
	mm.circuitBreaker.Reset()
}

// isServiceFailure reports transport errors, 5xx and 429. Client errors such as 401 do not trip the circuit.
func isServiceFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var upErr *apperrors.UpstreamError
	if !errors.As(err, &upErr) {
		return false
	}

	code := upErr.StatusCode
	return code == 0 || code == http.StatusTooManyRequests || code >= 500
}

func isRateLimitError(err error) bool {
	var upErr *apperrors.UpstreamError
	return errors.As(err, &upErr) && upErr.StatusCode == http.StatusTooManyRequests
}
