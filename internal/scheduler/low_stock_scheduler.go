package scheduler

import (
	"github.com/ikkim/udonggeum-backend/internal/app/repository"
	"github.com/ikkim/udonggeum-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// LowStockScheduler reports products that fell to or below their
// low stock threshold so ops can restock before they sell out.
type LowStockScheduler struct {
	cron        *cron.Cron
	productRepo repository.ProductRepository
}

func NewLowStockScheduler(productRepo repository.ProductRepository) *LowStockScheduler {
	return &LowStockScheduler{
		cron:        cron.New(),
		productRepo: productRepo,
	}
}

// Start schedules the daily low stock sweep at 7:00 AM server time.
func (s *LowStockScheduler) Start() error {
	_, err := s.cron.AddFunc("0 7 * * *", s.runSweep)
	if err != nil {
		logger.Error("Failed to add cron job for low stock sweep", err)
		return err
	}

	s.cron.Start()
	logger.Info("Low stock scheduler started (daily at 7:00 AM)", nil)

	return nil
}

func (s *LowStockScheduler) runSweep() {
	logger.Info("Starting scheduled low stock sweep", nil)

	candidates, err := s.productRepo.FindLowStockCandidates()
	if err != nil {
		logger.Error("Failed to load low stock candidates", err)
		return
	}

	low := 0
	for i := range candidates {
		p := &candidates[i]
		if !p.IsLowStock() {
			continue
		}
		low++
		logger.Warn("Product is low on stock", map[string]interface{}{
			"product_id": p.ID,
			"sku":        p.SKU,
			"name":       p.Name,
			"quantity":   p.TotalQuantity(),
			"threshold":  p.LowStockThreshold,
		})
	}

	logger.Info("Low stock sweep finished", map[string]interface{}{
		"checked": len(candidates),
		"low":     low,
	})
}

// Stop halts the scheduler, letting a running sweep finish.
func (s *LowStockScheduler) Stop() {
	s.cron.Stop()
	logger.Info("Low stock scheduler stopped", nil)
}
