package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldCandidateID    = "candidate_id"
	FieldRole           = "role"
	FieldOverallScore   = "overall_score"
	FieldRecommendation = "recommendation"

	FieldProvider = "ai_provider"
	FieldModel    = "ai_model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches fields to the logger. A nil logger becomes a no-op one.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// ScreeningFields describes one analyzed candidate. The score is always
// present, empty strings are dropped.
func ScreeningFields(candidateID, role, recommendation string, score int) []zap.Field {
	fields := StringFields(
		StringField{Key: FieldCandidateID, Value: candidateID},
		StringField{Key: FieldRole, Value: role},
		StringField{Key: FieldRecommendation, Value: recommendation},
	)
	return append(fields, zap.Int(FieldOverallScore, score))
}

// ProviderFields returns the AI provider and model fields.
func ProviderFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

func WithProvider(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, ProviderFields(provider, model)...)
}
