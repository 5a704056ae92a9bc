// Package categorize implements the transaction categorization engine: a
// deterministic rule pass, an AI fallback behind a process-lifetime verdict
// cache, and a learning queue recording which keys the AI resolved.
package categorize

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ledgerlens/ledgerlens/internal/llm"
	"github.com/ledgerlens/ledgerlens/internal/model"
	"github.com/ledgerlens/ledgerlens/internal/normalize"
	"github.com/ledgerlens/ledgerlens/internal/rules"
)

// defaultConfidence is substituted when the provider response carries no
// usable confidence.
const defaultConfidence = 0.6

// maxBatchWorkers bounds the AI-call fan-out during batch classification.
const maxBatchWorkers = 5

// Service orchestrates the three engine stages. Construct one per process
// and pass it by handle; the cache and queue live exactly as long as the
// Service does.
type Service struct {
	matcher *rules.Matcher
	client  llm.Client
	cache   *verdictCache
	queue   *learningQueue
	group   singleflight.Group
	logger  *slog.Logger
}

// aiOutcome carries a verdict plus the rationale of the call that produced
// it. Waiters coalesced onto another caller's in-flight call share both.
type aiOutcome struct {
	verdict verdict
	reason  string
}

// NewService creates a categorization service.
func NewService(matcher *rules.Matcher, client llm.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		matcher: matcher,
		client:  client,
		cache:   newVerdictCache(),
		queue:   newLearningQueue(),
		logger:  logger.With("component", "categorize"),
	}
}

// Classify categorizes one transaction: rules first, then the verdict cache,
// then a single provider call. A rule hit never touches the cache or the
// provider. Provider call failures propagate unchanged and leave no cache or
// queue entry; a malformed provider response degrades to defaults and is
// still cached.
func (s *Service) Classify(ctx context.Context, txn model.Transaction) (model.Categorization, error) {
	if c, ok := s.matcher.Match(txn); ok {
		s.logger.Debug("rule match",
			"transaction_id", txn.ID,
			"rule_id", c.RuleID,
			"category", c.Category)
		return c, nil
	}

	key := normalize.CacheKey(txn.Currency, txn.MerchantName, txn.Description)
	if v, ok := s.cache.get(key); ok {
		s.logger.Debug("verdict cache hit", "transaction_id", txn.ID, "key", key)
		return s.fromVerdict(txn, aiOutcome{verdict: v}), nil
	}

	return s.classifyAI(ctx, txn, key)
}

// classifyAI performs the provider call for a cache miss. Concurrent misses
// for the same key coalesce into a single in-flight call whose result fans
// out to every waiter.
func (s *Service) classifyAI(ctx context.Context, txn model.Transaction, key string) (model.Categorization, error) {
	out, err, shared := s.group.Do(key, func() (any, error) {
		// A waiter that lost the race may arrive after the winner has
		// already populated the cache.
		if v, ok := s.cache.get(key); ok {
			return aiOutcome{verdict: v}, nil
		}

		raw, callErr := s.client.Classify(ctx, llm.Request{
			Desc:     normalize.Text(txn.MerchantName, txn.Description),
			Amount:   txn.Amount.String(),
			Currency: txn.Currency,
			MCC:      txn.MCC,
		})
		if callErr != nil {
			return nil, fmt.Errorf("classify %s: %w", txn.ID, callErr)
		}

		v := buildVerdict(txn, raw)
		s.cache.set(key, v)
		if s.queue.add(key) {
			s.logger.Debug("queued for rule authoring", "key", key)
		}

		s.logger.Info("transaction classified by provider",
			"transaction_id", txn.ID,
			"category", v.Category,
			"type", v.Type,
			"confidence", v.Confidence)

		return aiOutcome{verdict: v, reason: raw.Reason}, nil
	})
	if err != nil {
		return model.Categorization{}, err
	}
	if shared {
		s.logger.Debug("coalesced provider call", "transaction_id", txn.ID, "key", key)
	}

	return s.fromVerdict(txn, out.(aiOutcome)), nil
}

// ClassifyBatch categorizes transactions preserving input order: the result
// slice has the same length and order as the input. Work fans out across a
// small worker pool; concurrent misses on the same cache key still share one
// provider call. The first hard failure aborts the whole batch.
func (s *Service) ClassifyBatch(ctx context.Context, txns []model.Transaction) ([]model.Categorization, error) {
	results := make([]model.Categorization, len(txns))
	errs := make([]error, len(txns))

	sem := make(chan struct{}, maxBatchWorkers)
	var wg sync.WaitGroup

	for i, txn := range txns {
		wg.Add(1)
		go func(idx int, txn model.Transaction) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errs[idx] = ctx.Err()
				return
			}

			results[idx], errs[idx] = s.Classify(ctx, txn)
		}(i, txn)
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("batch classification failed at transaction %s: %w", txns[i].ID, err)
		}
	}

	return results, nil
}

// buildVerdict validates the provider's raw fields against the closed
// enumerations and substitutes defaults. An out-of-enum value is treated
// exactly like an absent one, so nothing outside the enums ever escapes.
func buildVerdict(txn model.Transaction, raw llm.Verdict) verdict {
	category := model.CategoryMisc
	if c, ok := model.ParseCategory(raw.Category); ok {
		category = c
	}

	txnType, ok := model.ParseTransactionType(raw.Type)
	if !ok {
		txnType = model.TypeFromAmount(txn.Amount)
	}

	confidence := defaultConfidence
	if raw.Confidence != nil {
		confidence = *raw.Confidence
	}

	return verdict{Category: category, Type: txnType, Confidence: confidence}
}

func (s *Service) fromVerdict(txn model.Transaction, out aiOutcome) model.Categorization {
	return model.Categorization{
		TransactionID: txn.ID,
		Category:      out.verdict.Category,
		Type:          out.verdict.Type,
		Source:        model.SourceAI,
		Rationale:     out.reason,
		Confidence:    out.verdict.Confidence,
	}
}

// LearningExport is the on-demand dump format of the learning queue.
type LearningExport struct {
	Keys []string `json:"keys"`
}

// LearningKeys returns the AI-resolved cache keys in insertion order.
func (s *Service) LearningKeys() []string {
	return s.queue.snapshot()
}

// WriteLearningQueue dumps the learning queue to w as JSON.
func (s *Service) WriteLearningQueue(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(LearningExport{Keys: s.queue.snapshot()}); err != nil {
		return fmt.Errorf("failed to export learning queue: %w", err)
	}
	return nil
}

// CacheSize reports the number of memoized verdicts.
func (s *Service) CacheSize() int {
	return s.cache.size()
}

// QueueSize reports the number of distinct AI-resolved keys.
func (s *Service) QueueSize() int {
	return s.queue.size()
}

// Rules returns the engine's rule list in evaluation order.
func (s *Service) Rules() []model.Rule {
	return s.matcher.Rules()
}
