package main

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/shulehub/shule/core"
	"github.com/shulehub/shule/core/onboarding"
	"github.com/shulehub/shule/core/school"
	emailsvc "github.com/shulehub/shule/services/email"
	logsvc "github.com/shulehub/shule/services/logger"
	"github.com/shulehub/shule/storage/database"
	sqlxrepos "github.com/shulehub/shule/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "WORKER : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() { _ = db.Close() }()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(logger, conf)
	}

	schoolSvc := school.NewService(sqlxrepos.NewSchoolRepository(db))
	obSvc := onboarding.NewService(sqlxrepos.NewOnboardingRepository(db), logger)

	job := &reminderJob{
		conf:      conf,
		logger:    logger,
		mailSvc:   mailSvc,
		schoolSvc: schoolSvc,
		obSvc:     obSvc,
	}

	c := cron.New()
	if _, err = c.AddJob(conf.Worker.ReminderSchedule, job); err != nil {
		logger.Fatal(fmt.Sprintf("scheduling reminder job: %v", err), err)
	}

	logger.Info(fmt.Sprintf("Worker started : reminders on %q", conf.Worker.ReminderSchedule))
	c.Start()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	<-c.Stop().Done() // let a running job finish
	logger.Info("Worker stopped")
}

// reminderJob nudges schools that have stalled mid-onboarding, listing the
// required steps still blocking completion.
type reminderJob struct {
	conf      *core.Config
	logger    core.Logger
	mailSvc   core.EmailService
	schoolSvc *school.Service
	obSvc     *onboarding.Service
}

var _ cron.Job = (*reminderJob)(nil)

func (j *reminderJob) Run() {
	ctx := context.Background()

	stats, err := j.obSvc.QueryIncomplete(ctx)
	if err != nil {
		j.logger.Error(fmt.Sprintf("querying incomplete onboardings: %v", err), err)
		return
	}

	messages := make([]*core.EmailMessage, 0, len(stats))
	for _, stat := range stats {
		sch, err := j.schoolSvc.GetByID(ctx, stat.SchoolID)
		if err != nil {
			j.logger.Error(fmt.Sprintf("school %s: %v", stat.SchoolID, err), err)
			continue
		}
		if msg := j.reminderMessage(sch, stat.Status); msg != nil {
			messages = append(messages, msg)
		}
	}

	if len(messages) > 0 {
		j.mailSvc.SendMessages(messages...)
	}
	j.logger.Info(fmt.Sprintf("reminder job done: %d school(s) nudged", len(messages)))
}

func (j *reminderJob) reminderMessage(sch school.School, st onboarding.Status) *core.EmailMessage {
	pending := onboarding.IncompleteRequiredSteps(st)
	if len(pending) == 0 {
		// everything done but not finalized; nudge for the last click
		return &core.EmailMessage{
			To:      []mail.Address{{Name: sch.Name, Address: sch.ContactEmail}},
			Subject: "Your school setup is ready to finish",
			TextContent: fmt.Sprintf(
				"Hi %s,\r\n\r\nEvery required setup step is complete. "+
					"Log in and press Finish to open your school on %s.\r\n", sch.Name, j.conf.AppName),
		}
	}

	titles := make([]string, 0, len(pending))
	for _, s := range pending {
		titles = append(titles, "- "+s.Title)
	}
	return &core.EmailMessage{
		To:      []mail.Address{{Name: sch.Name, Address: sch.ContactEmail}},
		Subject: fmt.Sprintf("Your school setup is %d%% complete", st.CompletionPercentage),
		TextContent: fmt.Sprintf(
			"Hi %s,\r\n\r\nYour school setup on %s is not finished yet. Remaining steps:\r\n\r\n%s\r\n\r\n"+
				"Log in to pick up where you left off: %s\r\n",
			sch.Name, j.conf.AppName, strings.Join(titles, "\r\n"), j.conf.FrontendBaseURL),
	}
}
