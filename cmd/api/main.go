package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devhassan17/montabridge/internal/config"
	"github.com/devhassan17/montabridge/internal/database"
	"github.com/devhassan17/montabridge/internal/handlers"
	"github.com/devhassan17/montabridge/internal/models"
	"github.com/devhassan17/montabridge/internal/services/bridge"
	"github.com/devhassan17/montabridge/internal/services/odoo"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-migrate schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		// ERP mirrors
		&models.Partner{},
		&models.ProductProduct{},
		&models.BomLine{},
		&models.SaleOrder{},
		&models.SaleOrderLine{},
		&models.PurchaseOrder{},
		&models.PurchaseOrderLine{},

		// Monta-side state
		&models.MontaOrderStatus{},
		&models.MontaSaleLog{},
		&models.OrderBatchTrace{},
	)
	if err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Start Monta bridge service (background)
	bridgeSvc := bridge.NewService(db, cfg)
	bridgeSvc.Start()

	// 5. Start optional Odoo feed (background)
	odooService := odoo.NewSyncService(db, cfg.Odoo)
	odooService.Start()

	// 6. Set up HTTP router
	router := handlers.NewRouter(db, cfg, bridgeSvc)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Stop background services
	bridgeSvc.Stop()
	odooService.Stop()

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
