package jobs

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	cron "github.com/robfig/cron"
	"github.com/sirupsen/logrus"
)

type Job interface {
	Name() string
	Run()
}

type CronJob interface {
	Schedule() string
	Job
}

// TaskExecutor runs cron jobs, never more than one run of the same job at a time.
type TaskExecutor struct {
	cron        *cron.Cron
	cronJobs    []CronJob
	runningJobs mapset.Set[string]
	mu          sync.Mutex
}

func NewTaskExecutor(cronJobs ...CronJob) *TaskExecutor {
	return &TaskExecutor{
		cron:        cron.New(),
		cronJobs:    cronJobs,
		runningJobs: mapset.NewThreadUnsafeSet[string](),
	}
}

// Run schedules the jobs and starts the cron in its own goroutine.
func (t *TaskExecutor) Run() error {
	for _, job := range t.cronJobs {
		if err := t.cron.AddFunc(job.Schedule(), t.guard(job)); err != nil {
			logrus.Errorf("failed to add task %s to cron: %v", job.Name(), err)
			return err
		}
		logrus.Infof("scheduled task %s: %s", job.Name(), job.Schedule())
	}

	t.cron.Start()

	return nil
}

// guard skips a run while the previous run of job is still going.
func (t *TaskExecutor) guard(job Job) func() {
	return func() {
		t.mu.Lock()
		if t.runningJobs.Contains(job.Name()) {
			t.mu.Unlock()
			logrus.Warnf("task %s is still running, skipping", job.Name())
			return
		}
		t.runningJobs.Add(job.Name())
		t.mu.Unlock()

		defer func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			t.runningJobs.Remove(job.Name())
		}()

		job.Run()
	}
}

func (t *TaskExecutor) Stop() {
	logrus.Infof("stopping all tasks")
	t.cron.Stop()
}
