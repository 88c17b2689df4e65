package errs

import "errors"

// Backend transport errors. Every network failure is normalized into one of
// these, wrapped with the backend-supplied message when available.
var (
	ErrSubmission      = errors.New("task submission failed")
	ErrStatusFetch     = errors.New("task status fetch failed")
	ErrList            = errors.New("task list fetch failed")
	ErrCancel          = errors.New("task cancel failed")
	ErrDelete          = errors.New("task delete failed")
	ErrResultList      = errors.New("result list fetch failed")
	ErrResultFetch     = errors.New("result fetch failed")
	ErrResultDelete    = errors.New("result delete failed")
	ErrStreamTransport = errors.New("event stream disconnected")
)

// Local lifecycle errors.
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrMaxTasksReached = errors.New("maximum active tasks reached")
	ErrTaskNotActive   = errors.New("task is not processing")
	ErrTaskNotTerminal = errors.New("task has not finished")
	ErrBackendIDSet    = errors.New("backend id already recorded")
	ErrStoreClosed     = errors.New("task store is closed")
	ErrTrackerExists   = errors.New("task already has an active tracker")
)

// Validation errors.
var (
	ErrInvalidTaskType = errors.New("invalid task type")
	ErrNoSourceFiles   = errors.New("at least one source file is required")
	ErrInvalidSource   = errors.New("source files must be .json")
	ErrInvalidFilter   = errors.New("invalid filter condition")
	ErrInvalidLabel    = errors.New("invalid label condition")
	ErrInvalidScrape   = errors.New("invalid scrape configuration")
)
