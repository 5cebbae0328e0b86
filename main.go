package main

import (
	"time"

	"github.com/eduagenda/eduagenda/config"
	"github.com/eduagenda/eduagenda/models"
	"github.com/eduagenda/eduagenda/reminder"
	"github.com/eduagenda/eduagenda/routes"
	"github.com/eduagenda/eduagenda/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Todo{}, &models.Subtask{}, &models.Event{}, &models.Achievement{})

	r := routes.SetupRouter(db)

	var scheduler *reminder.Scheduler
	if cfg.ReminderEnabled {
		scheduler = reminder.New(reminder.NewGormStore(db), reminder.MailSink{}, reminder.Options{
			Interval:     time.Duration(cfg.ReminderIntervalMinutes) * time.Minute,
			Workers:      cfg.ReminderWorkers,
			StoreTimeout: time.Duration(cfg.ReminderStoreTimeoutSec) * time.Second,
			SendTimeout:  time.Duration(cfg.ReminderSendTimeoutSec) * time.Second,
		})
		scheduler.Start()
		defer scheduler.Stop()
	}

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
