package comunicapje

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jurisalerta/jurisalerta/config"
	"github.com/jurisalerta/jurisalerta/lib/models"
	"github.com/jurisalerta/jurisalerta/senders"
	"github.com/jurisalerta/jurisalerta/senders/email"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrAlreadyRunning is returned when a daily search is triggered while a
// previous run is still in flight. Runs never overlap.
var ErrAlreadyRunning = errors.New("daily search already running")

// Searcher runs the fetch-format-notify cycle for every active search target.
// Each run works on a snapshot of targets selected at run start; a target
// failure never aborts the batch. No state is kept across runs, so triggering
// the same day twice resends every digest.
type Searcher struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *gorm.DB
	api     API
	senders senders.Registry

	mu          sync.Mutex
	concurrency int
}

func NewSearcher(cfg *config.Config, log *zap.Logger, db *gorm.DB, api API, senders senders.Registry) *Searcher {
	concurrency := cfg.ComunicaPJE.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Searcher{cfg: cfg, log: log, db: db, api: api, senders: senders, concurrency: concurrency}
}

// RunReport summarises one daily search run.
type RunReport struct {
	RunID    string `json:"run_id"`
	Date     string `json:"date"`
	Selected int    `json:"selected"`
	Notified int    `json:"notified"`
	Empty    int    `json:"empty"`
	Errored  int    `json:"errored"`
	Elapsed  int64  `json:"elapsed_msecs"`
}

type runMetrics struct {
	notified int
	empty    int
	errored  int
}

func (m *runMetrics) Add(other *runMetrics) {
	m.notified += other.notified
	m.empty += other.empty
	m.errored += other.errored
}

// TargetString builds the human-facing identifier for a search target.
// Only the UF is uppercased.
func TargetString(target *models.SearchTarget) string {
	return strings.ToUpper(target.OABUF) + target.OABNumber
}

func (s *Searcher) RunDailySearches(ctx context.Context) (*RunReport, error) {
	if !s.mu.TryLock() {
		return nil, ErrAlreadyRunning
	}
	defer s.mu.Unlock()

	startedAt := time.Now().UTC()
	report := &RunReport{
		RunID: uuid.NewString(),
		Date:  startedAt.Format("2006-01-02"),
	}
	log := s.log.Sugar().With("run_id", report.RunID)
	log.Infow("Daily search starting", "date", report.Date)

	metrics := &runMetrics{}
	var targets models.SearchTargets
	tx := s.db.
		Where("is_active = ? AND oab_number <> ''", true).
		InnerJoins("User").
		FindInBatches(&targets, s.concurrency, func(tx *gorm.DB, batch int) error {
			report.Selected += len(targets)
			metrics.Add(s.searchBatch(ctx, report.Date, targets))
			return nil
		})
	if err := tx.Error; err != nil {
		log.Errorw("Failed to fetch search targets", "err", err)
		return nil, err
	}

	report.Notified = metrics.notified
	report.Empty = metrics.empty
	report.Errored = metrics.errored
	report.Elapsed = time.Now().UTC().Sub(startedAt).Milliseconds()

	if report.Selected == 0 {
		log.Infow("No active search targets")
	} else {
		log.Infow("Daily search completed",
			"selected", report.Selected, "notified", report.Notified,
			"empty", report.Empty, "errored", report.Errored,
			"elapsed_msecs", report.Elapsed,
		)
	}
	return report, nil
}

func (s *Searcher) searchBatch(ctx context.Context, date string, batch models.SearchTargets) *runMetrics {
	var wg sync.WaitGroup
	var mu sync.Mutex
	metrics := &runMetrics{}

	for i := range batch {
		target := batch[i]
		wg.Add(1)

		go func() {
			defer wg.Done()
			m := s.searchTarget(ctx, date, &target)

			mu.Lock()
			defer mu.Unlock()
			metrics.Add(m)
		}()
	}

	wg.Wait()
	return metrics
}

func (s *Searcher) searchTarget(ctx context.Context, date string, target *models.SearchTarget) *runMetrics {
	targetStr := TargetString(target)
	log := s.log.Sugar().With("target", targetStr, "user", target.User.Username)

	result, err := s.api.Search(ctx, target.OABNumber, target.OABUF, date)
	if err != nil {
		log.Errorw("ComunicaPJE search failed", "err", err)
		return &runMetrics{errored: 1}
	}

	if result.Count == 0 {
		log.Infow("No new publications")
		return &runMetrics{empty: 1}
	}

	format := email.DigestFormat{TargetStr: targetStr, Items: result.Items}
	attachments := s.buildAttachments(ctx, result.Items)

	sender := s.senders["email"]
	id, err := sender.Send(ctx, format.Subject(), format.Body(), target.User.Email, attachments)
	if err != nil {
		log.Errorw("Failed to send digest", "err", err)
		return &runMetrics{errored: 1}
	}

	log.Infow("Digest sent", "count", result.Count, "message_id", id)
	return &runMetrics{notified: 1}
}

// buildAttachments collects per-item attachments: the certificate PDF when one
// can be fetched by the item's hash (a failed fetch is skipped, not an error)
// and always a JSON dump of the raw item.
func (s *Searcher) buildAttachments(ctx context.Context, items []models.Comunicacao) []senders.Attachment {
	attachments := make([]senders.Attachment, 0, len(items))
	for i, item := range items {
		if item.Hash != "" {
			if pdf, err := s.api.Certificate(ctx, item.Hash); err == nil && len(pdf) > 0 {
				attachments = append(attachments, senders.Attachment{
					Filename: "certidao_" + item.Hash + ".pdf",
					Content:  pdf,
				})
			}
		}

		raw, err := marshalComunicacao(item)
		if err != nil {
			s.log.Sugar().Warnw("Failed to serialize communication", "err", err)
			continue
		}
		attachments = append(attachments, senders.Attachment{
			Filename: "detalhes_" + attachmentKey(item, i) + ".json",
			Content:  raw,
		})
	}
	return attachments
}

func attachmentKey(item models.Comunicacao, index int) string {
	if item.Hash != "" {
		return item.Hash
	}
	return strconv.Itoa(index + 1)
}

// marshalComunicacao dumps the raw item with 2-space indentation, keeping
// non-ASCII text and URLs literal rather than escaped.
func marshalComunicacao(item models.Comunicacao) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(item); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
