// Package scheduler runs daily jobs from a polling loop.
//
// Trigger times are evaluated with robfig/cron schedules in the local
// time zone. The loop is single-threaded: a job runs on the polling
// goroutine and must return before the next poll.
package scheduler
