package service

import (
	"context"
	"strings"
	"time"

	"document-qa-be/internal/dto"
	"document-qa-be/internal/metrics"
	"document-qa-be/internal/pkg/apperror"
	"document-qa-be/internal/pkg/logger"
	"document-qa-be/internal/repository/unitofwork"
	"document-qa-be/internal/tracer"
	"document-qa-be/pkg/llm"
	"document-qa-be/pkg/rag/prompt"
	"document-qa-be/pkg/rag/search"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// NoMatchAnswer is returned, without calling the model, when no chunk
// clears the similarity threshold.
const NoMatchAnswer = "I couldn't find any matching documents to answer your question."

const pipelineRetrieval = "retrieval"

type IRetrievalService interface {
	Query(ctx context.Context, question string) (*dto.QueryRagResponse, error)
}

type retrievalService struct {
	uowFactory   unitofwork.RepositoryFactory
	orchestrator *search.Orchestrator
	llmProvider  llm.LLMProvider
	searchConfig search.Config
	metrics      *metrics.Metrics
	logger       logger.ILogger
}

func NewRetrievalService(
	uowFactory unitofwork.RepositoryFactory,
	orchestrator *search.Orchestrator,
	llmProvider llm.LLMProvider,
	searchConfig search.Config,
	metrics *metrics.Metrics,
	logger logger.ILogger,
) IRetrievalService {
	return &retrievalService{
		uowFactory:   uowFactory,
		orchestrator: orchestrator,
		llmProvider:  llmProvider,
		searchConfig: searchConfig,
		metrics:      metrics,
		logger:       logger,
	}
}

func (s *retrievalService) Query(ctx context.Context, question string) (*dto.QueryRagResponse, error) {
	ctx, span := tracer.Tracer().Start(ctx, "retrieval.query")
	defer span.End()

	res, outcome, err := s.query(ctx, question)
	if err != nil {
		kind := apperror.KindOf(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
		s.logger.Error("RETRIEVAL", "Query failed", map[string]interface{}{
			"kind":  kind,
			"error": err.Error(),
		})
		s.metrics.QueryFinished(string(kind))
		return nil, err
	}

	span.SetAttributes(attribute.String("outcome", outcome))
	s.metrics.QueryFinished(outcome)
	return res, nil
}

func (s *retrievalService) query(ctx context.Context, question string) (*dto.QueryRagResponse, string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, "", apperror.InvalidInput("query must not be empty")
	}

	if err := ctx.Err(); err != nil {
		return nil, "", apperror.Cancelled("query embedding", err)
	}

	start := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	results, err := s.orchestrator.Execute(ctx, uow, question, s.searchConfig)
	s.metrics.ObserveStep(pipelineRetrieval, "search", start)
	if err != nil {
		return nil, "", err
	}

	citations := search.Citations(results)
	if len(results) == 0 || len(citations) == 0 {
		s.logger.Info("RETRIEVAL", "No chunk above threshold", map[string]interface{}{
			"threshold": s.searchConfig.Threshold,
		})
		return noMatchResponse(), "no_match", nil
	}

	if err := ctx.Err(); err != nil {
		return nil, "", apperror.Cancelled("synthesis", err)
	}

	answer, err := s.synthesize(ctx, question, results, citations)
	if err != nil {
		return nil, "", err
	}

	return &dto.QueryRagResponse{
		Success:   true,
		Response:  answer,
		Results:   results,
		Citations: citations,
	}, "answered", nil
}

func (s *retrievalService) synthesize(
	ctx context.Context,
	question string,
	results []search.Result,
	citations []string,
) (string, error) {
	ctx, span := tracer.Tracer().Start(ctx, "retrieval.synthesize")
	defer span.End()
	defer s.metrics.ObserveStep(pipelineRetrieval, "synthesize", time.Now())

	contexts := make([]string, len(results))
	for i, r := range results {
		contexts[i] = r.Text
	}
	messages := prompt.NewAnswerBuilder(question, contexts, citations).Build()

	answer, err := s.llmProvider.Chat(ctx, messages)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", apperror.Cancelled("synthesis", ctxErr)
		}
		return "", apperror.Synthesis(err)
	}
	return strings.TrimSpace(answer), nil
}

func noMatchResponse() *dto.QueryRagResponse {
	return &dto.QueryRagResponse{
		Success:   true,
		Response:  NoMatchAnswer,
		Results:   []search.Result{},
		Citations: []string{},
	}
}
