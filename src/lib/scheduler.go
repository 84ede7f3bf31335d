package lib

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
)

var (
	scheduler gocron.Scheduler
	schedMu   sync.Mutex
)

func NewScheduler(s gocron.Scheduler) {
	schedMu.Lock()
	defer schedMu.Unlock()
	scheduler = s
}

func GetScheduler() (gocron.Scheduler, error) {
	schedMu.Lock()
	defer schedMu.Unlock()
	if scheduler != nil {
		return scheduler, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Error initializing Scheduler: %s\n", err.Error())
		return nil, err
	}
	scheduler = sched
	return sched, nil
}

// ScheduleEvery registers task to run every d. Runs of the same job never
// overlap.
func ScheduleEvery(name string, d time.Duration, task func(ctx context.Context)) (*string, error) {
	sched, err := GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return nil, err
	}
	j, err := sched.NewJob(
		gocron.DurationJob(d),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), d)
			defer cancel()
			task(ctx)
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, err
	}
	id := j.ID().String()
	log.Printf("Job: %s %s every %s\n", id, j.Name(), d)
	return &id, nil
}
