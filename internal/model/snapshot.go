package model

import "time"

type JobSnapshot struct {
	JobID     uint       `json:"job_id"`
	Src       string     `json:"src"`
	Dst       string     `json:"dst"`
	State     string     `json:"state"`
	Initial   bool       `json:"initial_ok"`
	StartedAt time.Time  `json:"started_at"`
	Copied    int        `json:"copied"`
	Removed   int        `json:"removed"`
	Failed    int        `json:"failed"`
	LastEvent *time.Time `json:"last_event"`
}
