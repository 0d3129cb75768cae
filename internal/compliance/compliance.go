package compliance

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	LanguageEnglish = "EN"
	LanguageArabic  = "AR"
)

// BriefRequest summarizes a tenant's governance posture for narration.
type BriefRequest struct {
	CompanyID     string
	Language      string
	WindowDays    int
	ApproveCount  int
	OverrideCount int
	RollbackCount int
	OverrideRatio float64
	TopCategories []string
}

type Brief struct {
	Provider     string `json:"provider"`
	UsedFallback bool   `json:"used_fallback"`
	Text         string `json:"text"`
}

// Provider turns a BriefRequest into narrative text. Implementations call
// out to an external model and may fail or time out.
type Provider interface {
	Name() string
	Generate(ctx context.Context, req BriefRequest) (string, error)
}

const generateTimeout = 3 * time.Second

type Service interface {
	GenerateBrief(ctx context.Context, req BriefRequest) Brief
}

type service struct {
	provider Provider
	logger   *zap.Logger
}

// NewService accepts a nil provider, in which case every brief is the
// deterministic fallback.
func NewService(provider Provider, logger ...*zap.Logger) Service {
	l := zap.L().Named("compliance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("compliance.service")
	}
	return &service{provider: provider, logger: l}
}

// GenerateBrief never returns an error: governance reporting must not fail
// because a narration backend is down.
func (s *service) GenerateBrief(ctx context.Context, req BriefRequest) Brief {
	if s.provider == nil {
		return Brief{Provider: "fallback", UsedFallback: true, Text: fallbackText(req)}
	}

	genCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	text, err := s.provider.Generate(genCtx, req)
	if err != nil {
		s.logger.Warn("compliance brief provider failed, using fallback",
			zap.String("provider", s.provider.Name()),
			zap.Error(err),
		)
		return Brief{Provider: "fallback", UsedFallback: true, Text: fallbackText(req)}
	}

	return Brief{Provider: s.provider.Name(), UsedFallback: false, Text: text}
}

func fallbackText(req BriefRequest) string {
	if req.Language == LanguageArabic {
		return fmt.Sprintf(
			"خلال آخر %d يومًا سُجّلت %d موافقة و%d تجاوزًا و%d تراجعًا. نسبة التجاوز %.1f%%.",
			req.WindowDays, req.ApproveCount, req.OverrideCount, req.RollbackCount,
			req.OverrideRatio*100,
		)
	}
	text := fmt.Sprintf(
		"Over the last %d days the ledger recorded %d approvals, %d overrides and %d rollbacks. The override ratio is %.1f%%.",
		req.WindowDays, req.ApproveCount, req.OverrideCount, req.RollbackCount,
		req.OverrideRatio*100,
	)
	if len(req.TopCategories) > 0 {
		text += fmt.Sprintf(" Most frequent override category: %s.", req.TopCategories[0])
	}
	return text
}
