package daemon

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// TaskFunc represents a runnable task.
type TaskFunc func() error

type NotifyFunc func(data any)

// Scheduler runs a task on a cron schedule. Schedule changes take effect
// immediately, including while waiting on the timer.
type Scheduler struct {
	OnError NotifyFunc // called on task error
	Task    TaskFunc   // task callback

	parser cron.Parser

	schedule cron.Schedule
	nextRun  time.Time

	mu      sync.Mutex
	running bool

	recalcCh chan cron.Schedule
	stopCh   chan struct{}
}

func NewScheduler(task TaskFunc, onError NotifyFunc) *Scheduler {
	if task == nil {
		panic("task function cannot be nil")
	}

	s := &Scheduler{
		OnError:  onError,
		Task:     task,
		parser:   cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
		recalcCh: make(chan cron.Schedule, 4),
		stopCh:   make(chan struct{}),
	}
	return s
}

func (s *Scheduler) Stop() {
	select {
	case <-s.stopCh: // already closed
	default:
		close(s.stopCh)
	}
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	go s.runScheduled()
}

// Schedule sets the cron expression. When the scheduler is running, the
// pending timer is recalculated.
func (s *Scheduler) Schedule(cronExpr string) error {
	sh, err := s.parser.Parse(cronExpr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	running := s.running
	if !running {
		s.schedule = sh
		s.nextRun = sh.Next(time.Now())
	}
	s.mu.Unlock()

	if running {
		s.trySendRecalc(sh)
	}
	return nil
}

// Clear removes the schedule. The loop keeps running and can be given a new
// schedule later.
func (s *Scheduler) Clear() {
	s.mu.Lock()
	running := s.running
	if !running {
		s.schedule = nil
		s.nextRun = time.Time{}
	}
	s.mu.Unlock()

	if running {
		s.trySendRecalc(nil)
	}
}

func (s *Scheduler) Status() (nextRun time.Time, running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nextRun = s.nextRun
	running = s.running
	return
}

func (s *Scheduler) runScheduled() {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		logrus.Debug("scheduler stopped")
	}()

	logrus.Debug("scheduler started")

	for {
		schedule, nextRun := s.snapshot()
		var timer *time.Timer
		if schedule == nil || nextRun.IsZero() {
			timer = time.NewTimer(time.Hour * 10000)
		} else {
			wait := time.Until(nextRun)
			if wait < 0 {
				wait = 0
			}
			timer = time.NewTimer(wait)
		}

		select {
		case <-timer.C:
			if schedule == nil || nextRun.IsZero() {
				continue
			}

			logrus.Debugf("running scheduled task at %s", nextRun.Format(time.DateTime))

			go func() {
				if err := s.Task(); err != nil {
					s.sendError(err)
				}
			}()
			s.advanceNextRun()
		case <-s.stopCh:
			timer.Stop()
			return
		case sh := <-s.recalcCh:
			timer.Stop()
			s.mu.Lock()
			s.schedule = sh
			if sh == nil {
				s.nextRun = time.Time{}
			} else {
				s.nextRun = sh.Next(time.Now())
			}
			s.mu.Unlock()
		}
	}
}

func (s *Scheduler) snapshot() (cron.Schedule, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schedule, s.nextRun
}

func (s *Scheduler) advanceNextRun() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.schedule == nil {
		return
	}
	s.nextRun = s.schedule.Next(s.nextRun)
}

func (s *Scheduler) sendError(err error) {
	if s.OnError == nil {
		return
	}

	go s.OnError(err)
}

func (s *Scheduler) trySendRecalc(sh cron.Schedule) {
	select {
	case s.recalcCh <- sh:
	default:
	}
}
