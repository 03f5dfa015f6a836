package models

import (
	"log"
	"time"
	"viaggi/src/db"
	"viaggi/src/lib"
	"viaggi/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobTask struct {
	ID uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`

	Name      string      `json:"-"`
	JobType   string      `json:"-"`
	RunsAt    time.Time   `json:"-"`
	PayloadID string      `json:"-"`
	Payload   types.JSONB `gorm:"type:jsonb" json:"-"`
	Status    string      `gorm:"default:'pending'" json:"-"`
	Topic     string      `json:"-"`
}

// CreateAndEnqueueJobTask persists the task row and queues the matching
// one-time job on the scheduler. The job produces the payload to the task's
// topic when it fires; the topic consumer flips the row to done afterwards.
func (self *JobTask) CreateAndEnqueueJobTask(jobTask JobTask) (string, error) {
	var jobID string
	db := db.GetDb()
	err := db.Transaction(func(tx *gorm.DB) error {
		clientId, _ := jobTask.Payload["producerClientId"].(string)
		sid, err := lib.NewScheduledJob(clientId, jobTask.Topic, jobTask.RunsAt, jobTask.Payload)
		if err != nil {
			log.Printf("Error scheduling job %s: %s\n", jobTask.Name, err.Error())
			return err
		}
		jobID = sid.String()
		jobTask.ID = *sid
		jobTask.Payload["JobID"] = jobID
		if err := tx.Create(&jobTask).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	log.Printf("Created schedule for job %s with name %s at %s\n", jobID, jobTask.Name, jobTask.RunsAt.Format(time.RFC3339))
	return jobID, nil
}
