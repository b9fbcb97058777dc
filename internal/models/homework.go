package models

import "time"

// Homework запись о домашней работе из ответа API Практикума
type Homework struct {
	Name   string `json:"homework_name"`
	Status string `json:"status"`
}

// PollState результат последнего цикла опроса
type PollState struct {
	Cycle     int64     `json:"cycle"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	FromDate  int64     `json:"from_date"`
	Homeworks int       `json:"homeworks"`
	Notified  bool      `json:"notified"`
	ErrorKind string    `json:"error_kind,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// OK сообщает, завершился ли цикл без ошибки
func (s PollState) OK() bool {
	return s.ErrorKind == ""
}
