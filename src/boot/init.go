package boot

import (
	"context"
	_ "embed"
	"encoding/json"
	"log"
	"wedding/src/common"
	"wedding/src/config"
	"wedding/src/db"
	"wedding/src/lib"
	"wedding/src/models"
	"wedding/src/repository"

	"gorm.io/gorm"
)

//go:embed gifts.json
var giftsSeed []byte

func InitDb() *gorm.DB {
	if config.Get().StoreDriver == "memory" {
		return nil
	}
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Gift{},
		&models.GiftOrder{},
		&models.RSVP{},
		&models.GalleryItem{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

// SeedGifts loads the bundled catalogue when the gifts table is empty.
func SeedGifts(ctx context.Context) (int, error) {
	var gifts []models.Gift
	if err := json.Unmarshal(giftsSeed, &gifts); err != nil {
		return 0, err
	}
	n, err := repository.GetStore().SeedGifts(ctx, gifts)
	if err != nil {
		log.Printf("Error seeding gifts: %s\n", err.Error())
		return 0, err
	}
	if n > 0 {
		log.Printf("Seeded %d gifts\n", n)
	}
	return n, nil
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	interval := config.Get().OutboxInterval
	_, err = lib.ScheduleEvery("outbox", interval, func(ctx context.Context) {
		if _, err := common.DispatchNotifications(ctx); err != nil {
			log.Printf("[outbox] Dispatch failed: %s\n", err.Error())
		}
	})
	if err != nil {
		log.Printf("Error scheduling outbox job: %s\n", err.Error())
		return
	}
	sched.Start()
	log.Println("Jobs in queue:", len(sched.Jobs()))
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		return
	}
	if err := sched.Shutdown(); err != nil {
		log.Printf("Error stopping scheduler: %s\n", err.Error())
	}
}
