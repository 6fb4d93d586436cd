package storage

import (
	"fmt"
	"sync"
	"talentpay/internal/providers"
	"talentpay/internal/storage/interfaces"
	"talentpay/internal/structures"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler persists the in-memory store on a fixed interval and on
// shutdown.
type Scheduler struct {
	config      *structures.Config
	logger      providers.Logger
	metrics     providers.MetricsProviderInterface
	fileManager *FileManager
	cron        *cron.Cron
	opsMu       sync.Mutex
}

func (s *Scheduler) Init() error {
	if s.config.Storage.SaveInterval <= 0 {
		return fmt.Errorf("storage save interval must be positive, got %s", s.config.Storage.SaveInterval)
	}
	s.cron = cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger)))

	schedule := "@every " + s.config.Storage.SaveInterval.String()
	_, err := s.cron.AddFunc(schedule, func() {
		if err := s.Persist(); err != nil {
			return
		}
		s.logger.Debugf(providers.TypeStorage, "Persisted data to file %s", s.config.Storage.FilePath)
	})
	if err != nil {
		return fmt.Errorf("schedule persistence %q: %w", schedule, err)
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Scheduler) Restore() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	return s.fileManager.LoadFromFile(s.config.Storage.FilePath)
}

func (s *Scheduler) Persist() error {
	s.opsMu.Lock()
	defer s.opsMu.Unlock()

	start := time.Now()
	snapshot, err := s.fileManager.SaveToFile(s.config.Storage.FilePath)
	if err != nil {
		s.logger.Errorf(providers.TypeStorage, "Error while persisting data: %s", err)
		return err
	}
	s.metrics.ObservePersistenceDuration(time.Since(start))
	for entity, count := range snapshot.Counts() {
		s.metrics.SetRecordsTotal(entity, count)
	}
	return nil
}

func NewScheduler(config *structures.Config, logger providers.Logger, fileManager *FileManager, metrics providers.MetricsProviderInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:      config,
		logger:      logger,
		metrics:     metrics,
		fileManager: fileManager,
	}
}

// noopScheduler is used by drivers that persist on every write.
type noopScheduler struct{}

func (n *noopScheduler) Init() error    { return nil }
func (n *noopScheduler) Stop()          {}
func (n *noopScheduler) Restore() error { return nil }
func (n *noopScheduler) Persist() error { return nil }
