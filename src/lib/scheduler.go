package lib

import (
	"log"
	"time"
	"viaggi/src/types"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

var scheduler gocron.Scheduler

func NewScheduler(s gocron.Scheduler) {
	scheduler = s
}

func GetScheduler() (gocron.Scheduler, error) {
	if scheduler != nil {
		return scheduler, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Error initializing Scheduler: %s\n", err.Error())
		return nil, err
	}
	scheduler = sched
	numJobs := len(sched.Jobs())
	log.Printf("Jobs in queue: %d\n", numJobs)
	return sched, nil
}

func CreateOneTimeCronJob(def gocron.JobDefinition, task gocron.Task) (*string, error) {
	sched, err := GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return nil, err
	}
	j, err := sched.NewJob(def, task)
	if err != nil {
		return nil, err
	}
	id := j.ID().String()
	log.Printf("Job: %s %s\n", id, j.Name())
	return &id, nil
}

// NewScheduledJob queues a one-time job that produces the payload to the
// given kafka topic at startDate. The returned id matches the gocron job.
func NewScheduledJob(clientId, topic string, startDate time.Time, payload types.JSONB) (*uuid.UUID, error) {
	s, err := GetScheduler()
	if err != nil {
		log.Printf("Error initializing Scheduler client: %s\n", err.Error())
		return nil, err
	}
	j, err := s.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(startDate)),
		gocron.NewTask(func(p types.JSONB) {
			KafkaProduceMessage(clientId, topic, map[string]any(p))
		}, payload),
	)
	if err != nil {
		log.Printf("Error creating job: %s\n", err.Error())
		return nil, err
	}
	jid := j.ID()
	log.Printf("New Job: %s\n", jid.String())
	return &jid, nil
}
