package bridge

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/devhassan17/montabridge/internal/config"
	"github.com/devhassan17/montabridge/internal/database"
	"github.com/devhassan17/montabridge/internal/models"
	"github.com/devhassan17/montabridge/internal/services/monta"
	"gorm.io/datatypes"
)

// Service orchestrates the Monta side of the bridge: batch status
// pulls, order pushes, quantity sync and inbound forecasts, all on a
// shared timer.
type Service struct {
	db       *database.DB
	cfg      *config.Config
	client   *monta.Client
	resolver *monta.Resolver
	stop     chan struct{}
}

// NewService wires the Monta client to the local database. API calls
// leave audit rows in monta_sale_log through the client's log hook.
func NewService(db *database.DB, cfg *config.Config) *Service {
	client := monta.NewClient(cfg.Monta)
	s := &Service{
		db:     db,
		cfg:    cfg,
		client: client,
		resolver: monta.NewResolver(client, monta.MatchPolicy{
			Loose:     cfg.Monta.MatchLoose,
			Threshold: cfg.Monta.MatchThreshold,
		}),
		stop: make(chan struct{}),
	}
	client.Log = s.logCall
	return s
}

// Client exposes the underlying API client for handlers
func (s *Service) Client() *monta.Client {
	return s.client
}

// Start begins the background synchronization loop
func (s *Service) Start() {
	if !s.client.Configured() {
		log.Println("Monta sync disabled: MONTA_USERNAME/MONTA_PASSWORD not configured")
		return
	}

	go func() {
		log.Println("📡 Monta Sync Service started")

		// Initial sync delay
		time.Sleep(5 * time.Second)
		s.runCycle()

		interval := time.Duration(s.cfg.Sync.IntervalMinutes) * time.Minute
		if s.cfg.Sync.IntervalMinutes <= 0 {
			interval = 15 * time.Minute
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runCycle()
			case <-s.stop:
				log.Println("🛑 Monta Sync Service stopped")
				return
			}
		}
	}()
}

// Stop halts the service
func (s *Service) Stop() {
	close(s.stop)
}

// runCycle runs one full bridge pass
func (s *Service) runCycle() {
	log.Println("🔄 Monta: Starting sync cycle...")
	ctx := context.Background()

	s.PushPending(ctx)
	s.CancelPending(ctx)
	s.SyncForecasts(ctx)
	s.SyncStatuses(ctx, s.cfg.Sync.BatchLimit)
	s.SyncQuantities(ctx)

	log.Println("✅ Monta: Sync cycle completed")
}

// logCall persists one audit row per API request/response pair
func (s *Service) logCall(orderName, tag, level string, data map[string]interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	row := models.MontaSaleLog{
		OrderName: orderName,
		Tag:       tag,
		Level:     level,
		Data:      datatypes.JSON(raw),
	}
	if err := s.db.Create(&row).Error; err != nil {
		log.Printf("[Monta Log] persist failed: %v", err)
	}
}
